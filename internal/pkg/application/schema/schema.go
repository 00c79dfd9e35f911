package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/assets-exporter/pkg/assets/types"
)

// Catalog is the part of the assets client needed to retrieve the attribute catalog of
// an object type
type Catalog interface {
	RetrieveObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]types.ObjectTypeAttribute, error)
}

// Schema is the ordered list of attribute names declared for an object type
type Schema []string

func (s Schema) Len() int {
	return len(s)
}

// Fetch retrieves the attribute names of an object type in the order returned by the api
func Fetch(ctx context.Context, catalog Catalog, objectTypeID string) (Schema, error) {
	attributes, err := catalog.RetrieveObjectTypeAttributes(ctx, objectTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attributes for object type %s: %w", objectTypeID, err)
	}

	s := make(Schema, 0, len(attributes))
	for _, a := range attributes {
		s = append(s, a.Name)
	}

	return s, nil
}

// Registry fetches each object type schema at most once. A registry is meant to live
// for the duration of a single run.
type Registry struct {
	catalog Catalog

	mu      sync.Mutex
	schemas map[string]Schema
}

func NewRegistry(catalog Catalog) *Registry {
	return &Registry{
		catalog: catalog,
		schemas: map[string]Schema{},
	}
}

func (r *Registry) Get(ctx context.Context, objectTypeID string) (Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.schemas[objectTypeID]; ok {
		return s, nil
	}

	s, err := Fetch(ctx, r.catalog, objectTypeID)
	if err != nil {
		return nil, err
	}

	r.schemas[objectTypeID] = s

	return s, nil
}

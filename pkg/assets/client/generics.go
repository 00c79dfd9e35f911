package client

import (
	"context"
	"fmt"

	"github.com/diwise/assets-exporter/pkg/assets/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// ObjectIDs collects the identifiers of all objects matching the aql query, in query order
func ObjectIDs(ctx context.Context, c AssetsClient, aql string, pageSize int) ([]string, error) {
	ids := []string{}

	err := ForEachObject(ctx, c, aql, pageSize, func(o types.Object) error {
		ids = append(ids, o.ID)
		return nil
	})

	return ids, err
}

// ForEachObject calls the callback for every object matching the aql query and stops at
// the first error returned either by the query or by the callback
func ForEachObject(ctx context.Context, c AssetsClient, aql string, pageSize int, callback func(o types.Object) error) error {
	logger := logging.GetFromContext(ctx)

	count := 0
	for o, err := range c.Objects(ctx, aql, pageSize) {
		if err != nil {
			return fmt.Errorf("failed to query objects: %w", err)
		}

		if err = callback(o); err != nil {
			return err
		}

		count++
	}

	logger.Debug("object query done", "query", aql, "count", count)

	return nil
}

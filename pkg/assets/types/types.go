package types

import (
	"encoding/json"
	"fmt"
)

type Workspace struct {
	ID string `json:"workspaceId"`
}

type ObjectType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (ot *ObjectType) UnmarshalJSON(data []byte) error {
	wire := struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}{}

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal object type: %w", err)
	}

	id, err := looseID(wire.ID)
	if err != nil {
		return fmt.Errorf("failed to unmarshal object type id: %w", err)
	}

	ot.ID = id
	ot.Name = wire.Name

	return nil
}

// Object is the summary of an asset object as returned by the object endpoint and
// by aql queries. Attribute values are retrieved separately.
type Object struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	ObjectKey  string     `json:"objectKey"`
	ObjectType ObjectType `json:"objectType"`
	Created    string     `json:"created,omitempty"`
	Updated    string     `json:"updated,omitempty"`

	name string
}

// Name returns the display name of the object
func (o Object) Name() string {
	if o.Label != "" {
		return o.Label
	}
	return o.name
}

func (o *Object) UnmarshalJSON(data []byte) error {
	type object Object
	wire := struct {
		*object
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}{object: (*object)(o)}

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal object: %w", err)
	}

	id, err := looseID(wire.ID)
	if err != nil {
		return fmt.Errorf("failed to unmarshal object id: %w", err)
	}

	o.ID = id
	o.name = wire.Name

	return nil
}

// ObjectTypeAttribute is a single entry in the attribute catalog of an object type
type ObjectTypeAttribute struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// looseID accepts identifiers sent either as json strings or as json numbers
func looseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}

	return n.String(), nil
}

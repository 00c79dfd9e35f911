package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a single value of an object attribute. It is either a TextValue or a
// ReferenceValue.
type Value interface {
	DisplayValue() string
	isValue()
}

// TextValue holds a scalar value in its display form
type TextValue struct {
	Display string
}

func (tv TextValue) DisplayValue() string { return tv.Display }
func (TextValue) isValue()                {}

// ReferenceValue points to another object. Only the display name of the referenced
// object is carried, its attributes must be retrieved explicitly.
type ReferenceValue struct {
	ObjectID    string
	ObjectKey   string
	DisplayName string
}

func (rv ReferenceValue) DisplayValue() string { return rv.DisplayName }
func (ReferenceValue) isValue()                {}

func NewTextValue(display string) TextValue {
	return TextValue{Display: display}
}

func NewReferenceValue(objectID, objectKey, displayName string) ReferenceValue {
	return ReferenceValue{ObjectID: objectID, ObjectKey: objectKey, DisplayName: displayName}
}

// AttributeRecord is one attribute of an object with its values in the order they
// were returned by the api
type AttributeRecord struct {
	Name   string
	Values []Value
}

func NewAttributeRecord(name string, values ...Value) AttributeRecord {
	return AttributeRecord{Name: name, Values: values}
}

func (ar *AttributeRecord) UnmarshalJSON(data []byte) error {
	wire := struct {
		ObjectTypeAttribute struct {
			Name string `json:"name"`
		} `json:"objectTypeAttribute"`
		Values []struct {
			Value            any    `json:"value"`
			DisplayValue     any    `json:"displayValue"`
			ReferencedObject *struct {
				ID        json.RawMessage `json:"id"`
				ObjectKey string          `json:"objectKey"`
				Label     string          `json:"label"`
				Name      string          `json:"name"`
			} `json:"referencedObject"`
		} `json:"objectAttributeValues"`
	}{}

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal attribute: %w", err)
	}

	ar.Name = wire.ObjectTypeAttribute.Name
	ar.Values = make([]Value, 0, len(wire.Values))

	for _, v := range wire.Values {
		display := displayString(v.DisplayValue)
		if display == "" {
			display = displayString(v.Value)
		}

		if ref := v.ReferencedObject; ref != nil {
			id, err := looseID(ref.ID)
			if err != nil {
				return fmt.Errorf("failed to unmarshal referenced object id: %w", err)
			}

			name := ref.Label
			if name == "" {
				name = ref.Name
			}
			if name == "" {
				name = display
			}

			ar.Values = append(ar.Values, NewReferenceValue(id, ref.ObjectKey, name))
			continue
		}

		ar.Values = append(ar.Values, NewTextValue(display))
	}

	return nil
}

func displayString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		b, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}
		return string(b)
	}
}

// ReferencesOf returns the reference values held by every attribute with the given name
func ReferencesOf(records []AttributeRecord, name string) []ReferenceValue {
	refs := []ReferenceValue{}

	for _, r := range records {
		if r.Name != name {
			continue
		}

		for _, v := range r.Values {
			if ref, ok := v.(ReferenceValue); ok {
				refs = append(refs, ref)
			}
		}
	}

	return refs
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestUnmarshalObject(t *testing.T) {
	is := is.New(t)

	var o Object
	err := json.Unmarshal([]byte(objectJSON), &o)

	is.NoErr(err)
	is.Equal(o.ID, "1138")
	is.Equal(o.Name(), "PiB-138")
	is.Equal(o.ObjectKey, "CMDB-1138")
	is.Equal(o.ObjectType.ID, "40")
	is.Equal(o.ObjectType.Name, "PiB")
}

func TestUnmarshalObjectWithNumericIDAndNoLabel(t *testing.T) {
	is := is.New(t)

	var o Object
	err := json.Unmarshal([]byte(`{"id":77,"name":"VLAN 10","objectType":{"id":"12","name":"VLAN"}}`), &o)

	is.NoErr(err)
	is.Equal(o.ID, "77")
	is.Equal(o.Name(), "VLAN 10")
}

func TestUnmarshalObjectWithNumericObjectTypeID(t *testing.T) {
	is := is.New(t)

	var o Object
	err := json.Unmarshal([]byte(`{"id":"1138","label":"PiB-138","objectType":{"id":40,"name":"PiB"}}`), &o)

	is.NoErr(err)
	is.Equal(o.ObjectType.ID, "40")
	is.Equal(o.ObjectType.Name, "PiB")
}

func TestUnmarshalAttributes(t *testing.T) {
	is := is.New(t)

	records := []AttributeRecord{}
	err := json.Unmarshal([]byte(attributesJSON), &records)
	is.NoErr(err)

	is.Equal(len(records), 4)

	is.Equal(records[0].Name, "Model")
	is.Equal(len(records[0].Values), 1)
	is.Equal(records[0].Values[0].DisplayValue(), "Teltonika RUT240")

	is.Equal(records[1].Name, "Tags")
	is.Equal(len(records[1].Values), 2)
	is.Equal(records[1].Values[1].DisplayValue(), "edge")

	ref, ok := records[2].Values[0].(ReferenceValue)
	is.True(ok) // teltonika should be a reference
	is.Equal(ref.ObjectID, "2001")
	is.Equal(ref.ObjectKey, "CMDB-2001")
	is.Equal(ref.DisplayName, "RUT240-0042")

	is.Equal(records[3].Name, "Ports")
	is.Equal(records[3].Values[0].DisplayValue(), "8")
}

func TestReferencesOf(t *testing.T) {
	is := is.New(t)

	records := []AttributeRecord{
		NewAttributeRecord("Teltonika", NewReferenceValue("1", "K-1", "router one")),
		NewAttributeRecord("Model", NewTextValue("x")),
		NewAttributeRecord("Teltonika", NewReferenceValue("2", "K-2", "router two"), NewTextValue("not a ref")),
	}

	refs := ReferencesOf(records, "Teltonika")

	is.Equal(len(refs), 2)
	is.Equal(refs[0].ObjectID, "1")
	is.Equal(refs[1].DisplayValue(), "router two")
	is.Equal(len(ReferencesOf(records, "Model")), 0)
}

const objectJSON string = `{
	"workspaceId": "ws-1",
	"globalId": "ws-1:1138",
	"id": "1138",
	"label": "PiB-138",
	"objectKey": "CMDB-1138",
	"objectType": {"id": "40", "name": "PiB"},
	"created": "2025-03-01T10:00:00.000Z",
	"updated": "2025-06-01T10:00:00.000Z"
}`

const attributesJSON string = `[
	{
		"id": "1",
		"objectTypeAttributeId": "401",
		"objectTypeAttribute": {"id": "401", "name": "Model"},
		"objectAttributeValues": [{"value": "Teltonika RUT240", "displayValue": "Teltonika RUT240"}]
	},
	{
		"id": "2",
		"objectTypeAttribute": {"id": "402", "name": "Tags"},
		"objectAttributeValues": [
			{"value": "prod", "displayValue": "prod"},
			{"value": "edge", "displayValue": "edge"}
		]
	},
	{
		"id": "3",
		"objectTypeAttribute": {"id": "403", "name": "Teltonika"},
		"objectAttributeValues": [{
			"displayValue": "RUT240-0042",
			"referencedType": true,
			"referencedObject": {"id": "2001", "objectKey": "CMDB-2001", "label": "RUT240-0042"}
		}]
	},
	{
		"id": "4",
		"objectTypeAttribute": {"id": "404", "name": "Ports"},
		"objectAttributeValues": [{"value": 8}]
	}
]`

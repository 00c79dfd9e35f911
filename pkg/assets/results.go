package assets

import (
	"github.com/diwise/assets-exporter/pkg/assets/types"
)

// ObjectPage is a single page of an aql query result
type ObjectPage struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	IsLast     bool           `json:"isLast"`
	Values     []types.Object `json:"values"`
}

// HasMore reports if there are pages after this one
func (p ObjectPage) HasMore() bool {
	if p.IsLast || len(p.Values) == 0 {
		return false
	}

	if p.Total > 0 && p.StartAt+len(p.Values) >= p.Total {
		return false
	}

	return p.MaxResults <= 0 || len(p.Values) >= p.MaxResults
}

// Next returns the start index of the following page
func (p ObjectPage) Next() int {
	return p.StartAt + len(p.Values)
}

// IDs returns the identifiers of the objects on this page in query order
func (p ObjectPage) IDs() []string {
	ids := make([]string, 0, len(p.Values))
	for _, o := range p.Values {
		ids = append(ids, o.ID)
	}
	return ids
}

type WorkspaceList struct {
	Values []types.Workspace `json:"values"`
}

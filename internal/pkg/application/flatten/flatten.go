package flatten

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diwise/assets-exporter/pkg/assets/types"
)

// Separator joins the display values of multi valued attributes
const Separator string = "|"

var ErrDuplicateAttribute = errors.New("duplicate attribute")

type DuplicatePolicy int

const (
	LastWriteWins DuplicatePolicy = iota
	FirstWriteWins
	ErrorOnDuplicate
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(s) {
	case "", "last", "last-write-wins":
		return LastWriteWins, nil
	case "first", "first-write-wins":
		return FirstWriteWins, nil
	case "error", "error-on-duplicate":
		return ErrorOnDuplicate, nil
	}
	return LastWriteWins, fmt.Errorf("unknown duplicate policy %q", s)
}

type Flattener struct {
	policy DuplicatePolicy
}

func WithDuplicatePolicy(policy DuplicatePolicy) func(*Flattener) {
	return func(f *Flattener) {
		f.policy = policy
	}
}

func New(options ...func(*Flattener)) Flattener {
	f := Flattener{policy: LastWriteWins}
	for _, option := range options {
		option(&f)
	}
	return f
}

// Flatten converts attribute records to a record of display values using last write
// wins for attributes that occur more than once.
func Flatten(records []types.AttributeRecord) Record {
	r, _ := New().Flatten(records)
	return r
}

// Flatten converts attribute records to a record of display values. Records without
// a name are skipped. References are flattened to the display name of the referenced
// object and are never expanded.
func (f Flattener) Flatten(records []types.AttributeRecord) (Record, error) {
	r := newRecord(len(records))

	for _, ar := range records {
		if ar.Name == "" {
			r.skipped++
			continue
		}

		if _, seen := r.values[ar.Name]; seen {
			switch f.policy {
			case FirstWriteWins:
				continue
			case ErrorOnDuplicate:
				return Record{}, fmt.Errorf("attribute %q (%w)", ar.Name, ErrDuplicateAttribute)
			}
		}

		r.set(ar.Name, displayValue(ar.Values))
	}

	return r, nil
}

func displayValue(values []types.Value) Value {
	switch len(values) {
	case 0:
		return Null()
	case 1:
		return Of(values[0].DisplayValue())
	}

	display := make([]string, 0, len(values))
	for _, v := range values {
		display = append(display, v.DisplayValue())
	}

	return Of(strings.Join(display, Separator))
}

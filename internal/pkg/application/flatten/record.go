package flatten

// Value is an optional display value. The zero Value is null.
type Value struct {
	s     string
	valid bool
}

func Null() Value {
	return Value{}
}

func Of(s string) Value {
	return Value{s: s, valid: true}
}

// Get returns the value and whether it is set
func (v Value) Get() (string, bool) {
	return v.s, v.valid
}

func (v Value) IsNull() bool {
	return !v.valid
}

// String returns the value, or an empty string if the value is null
func (v Value) String() string {
	return v.s
}

// OrElse returns the value, or the fallback if the value is null
func (v Value) OrElse(fallback string) string {
	if !v.valid {
		return fallback
	}
	return v.s
}

// Record is the flattened view of the attributes of a single object. Names are kept
// in the order they were first seen.
type Record struct {
	values  map[string]Value
	names   []string
	skipped int
}

func newRecord(capacity int) Record {
	return Record{
		values: make(map[string]Value, capacity),
		names:  make([]string, 0, capacity),
	}
}

// NewRecord builds a record from a map, mostly useful in tests and for synthetic values
func NewRecord(values map[string]Value) Record {
	r := newRecord(len(values))
	for name, v := range values {
		r.set(name, v)
	}
	return r
}

func (r *Record) set(name string, v Value) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the value for name. A missing name is returned as null.
func (r Record) Get(name string) Value {
	return r.values[name]
}

// Lookup returns the value for name and reports whether the attribute was present
func (r Record) Lookup(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r Record) Names() []string {
	return append([]string{}, r.names...)
}

func (r Record) Len() int {
	return len(r.names)
}

// Skipped returns the number of malformed attribute records that were ignored
func (r Record) Skipped() int {
	return r.skipped
}

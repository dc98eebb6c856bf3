package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindRecord
)

// Value is a single node of an export record: a text, number or boolean leaf,
// or a nested record.
type Value struct {
	kind   Kind
	text   string
	number float64
	flag   bool
	record *Record
}

// String wraps text.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number wraps a numeric leaf.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// Int wraps an integer leaf.
func Int(n int) Value { return Number(float64(n)) }

// Bool wraps a boolean leaf.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Nested wraps a child record.
func Nested(r *Record) Value { return Value{kind: KindRecord, record: r} }

func (v Value) Kind() Kind { return v.kind }

// IsLeaf reports whether the value renders directly into a template.
func (v Value) IsLeaf() bool { return v.kind != KindRecord }

// Record returns the nested record, or nil for leaves.
func (v Value) Record() *Record {
	if v.kind != KindRecord {
		return nil
	}
	return v.record
}

// Text returns the display form of a leaf. Booleans read "Yes" or "No".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		if v.flag {
			return "Yes"
		}
		return "No"
	case KindRecord:
		return ""
	default:
		panic(fmt.Sprintf("export: unknown value kind %d", v.kind))
	}
}

type field struct {
	name  string
	value Value
}

// Record is an ordered set of named values. A record is built once per export
// and treated as read-only afterwards.
type Record struct {
	fields []field
	index  map[string]int
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{index: map[string]int{}}
}

// Set adds or replaces a field and returns the record for chaining.
func (r *Record) Set(name string, v Value) *Record {
	if i, ok := r.index[name]; ok {
		r.fields[i].value = v
		return r
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, field{name: name, value: v})
	return r
}

// Get returns the direct child named name.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].value, true
}

// Len reports the number of direct fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Walk visits every leaf depth-first in field order, passing its dotted path.
func (r *Record) Walk(fn func(path string, v Value)) {
	r.walk("", fn)
}

func (r *Record) walk(prefix string, fn func(path string, v Value)) {
	if r == nil {
		return
	}
	for _, f := range r.fields {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}
		switch f.value.kind {
		case KindRecord:
			f.value.record.walk(path, fn)
		case KindString, KindNumber, KindBool:
			fn(path, f.value)
		}
	}
}

// Leaves flattens the record into a dotted-path to text table.
func (r *Record) Leaves() map[string]string {
	out := map[string]string{}
	r.Walk(func(path string, v Value) {
		out[path] = v.Text()
	})
	return out
}

// Paths lists every leaf path in walk order.
func (r *Record) Paths() []string {
	var paths []string
	r.Walk(func(path string, _ Value) {
		paths = append(paths, path)
	})
	return paths
}

// FromMap builds a record from generic decoded data (JSON or YAML). Nested
// maps become nested records; slices are not traversed and render as their
// comma-joined elements; nil renders as empty text.
func FromMap(data map[string]any) *Record {
	rec := NewRecord()
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec.Set(k, valueOf(data[k]))
	}
	return rec
}

func valueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return String("")
	case string:
		return String(v)
	case bool:
		return Bool(v)
	case int:
		return Int(v)
	case int64:
		return Number(float64(v))
	case float64:
		return Number(v)
	case map[string]any:
		return Nested(FromMap(v))
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, valueOf(item).Text())
		}
		return String(strings.Join(parts, ","))
	default:
		return String(fmt.Sprint(v))
	}
}

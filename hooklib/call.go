package hooklib

import (
	"reflect"
)

// SourceKey is the synthetic argument naming the target that triggered the
// call, for hints shared by several targets.
const SourceKey = "_source"

// Args is a name-addressable view of the arguments of one call, defaults
// applied.
type Args struct {
	names  []string
	values map[string]interface{}
}

// Get returns the argument bound to name.
func (a Args) Get(name string) (interface{}, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Value returns the argument bound to name, or nil.
func (a Args) Value(name string) interface{} {
	return a.values[name]
}

// Int returns the argument bound to name when it holds any integer kind.
func (a Args) Int(name string) (int, bool) {
	v := reflect.ValueOf(a.values[name])
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), true
	}
	return 0, false
}

// String returns the argument bound to name when it is a string.
func (a Args) String(name string) (string, bool) {
	s, ok := a.values[name].(string)
	return s, ok
}

// Names returns the parameter names in declaration order.
func (a Args) Names() []string {
	return append([]string(nil), a.names...)
}

// Source returns the identifier of the target being called.
func (a Args) Source() string {
	s, _ := a.values[SourceKey].(string)
	return s
}

// Map returns a copy of every binding, the synthetic source included.
func (a Args) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(a.values))
	for k, v := range a.values {
		m[k] = v
	}
	return m
}

// Result holds the values returned by the wrapped call.
type Result struct {
	values []interface{}
}

func newResult(out []reflect.Value) Result {
	r := Result{values: make([]interface{}, len(out))}
	for i, v := range out {
		r.values[i] = v.Interface()
	}
	return r
}

func (r Result) Len() int {
	return len(r.values)
}

// Value returns the i-th returned value, or nil when out of range.
func (r Result) Value(i int) interface{} {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// First returns the first returned value.
func (r Result) First() interface{} {
	return r.Value(0)
}

// Err returns the last returned value when it is a non-nil error.
func (r Result) Err() error {
	if len(r.values) == 0 {
		return nil
	}
	err, _ := r.values[len(r.values)-1].(error)
	return err
}

// Call describes one intercepted invocation as seen by hints.
type Call struct {
	Target string
	Args   Args
	Site   CallSite
	// Number of consecutive identical recent calls, this one included.
	Similar int

	ledger *Ledger
}

// Tell emits an advisory attributed to this call's site. The default color
// is Blue.
func (c *Call) Tell(message string, color ...Color) {
	col := Blue
	if len(color) > 0 {
		col = color[0]
	}
	c.ledger.teller.Tell(c.Site, message, col)
}

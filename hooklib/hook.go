// Package hooklib intercepts calls made through a table of function fields,
// running advisory hints before and after the real call without changing
// its arguments or results.
package hooklib

import (
	"fmt"
	"html"
	"reflect"
	"strconv"
	"strings"

	"github.com/ListenOcean/goTableHint/internal/log"
	"github.com/ListenOcean/goTableHint/utils"

	"github.com/pkg/errors"
)

// SchemaTag is the struct tag naming the parameters of a function field.
const SchemaTag = "hint"

type param struct {
	name string
	// optional marks a trailing variadic parameter bound as a scalar
	optional bool
	def      reflect.Value
}

// target is the resolved descriptor of a function field: the owning struct
// value, the member name and the settable field itself.
type target struct {
	id     string
	owner  reflect.Value
	member string
	field  reflect.Value
	fnType reflect.Type
	params []param
}

func (t *target) String() string {
	return fmt.Sprintf("%s (%s)", t.id, t.fnType)
}

// resolveTarget walks the dotted path id from root through struct fields,
// dereferencing pointers, and checks the leaf is a settable function field.
func resolveTarget(root reflect.Value, id string) (*target, error) {
	if err := validateTarget(id); err != nil {
		return nil, err
	}
	segments := strings.Split(id, ".")
	owner := root
	for i, seg := range segments {
		for owner.Kind() == reflect.Ptr {
			if owner.IsNil() {
				return nil, errors.Wrapf(TargetNotFoundError, "`%s` is nil", strings.Join(segments[:i], "."))
			}
			owner = owner.Elem()
		}
		if owner.Kind() != reflect.Struct {
			return nil, errors.Wrapf(TargetNotFoundError, "`%s` is not a struct", strings.Join(segments[:i], "."))
		}
		sf, ok := owner.Type().FieldByName(seg)
		if !ok || sf.PkgPath != "" {
			return nil, errors.Wrapf(TargetNotFoundError, "no exported member `%s` in `%s`", seg, id)
		}
		field := owner.FieldByIndex(sf.Index)
		if i < len(segments)-1 {
			owner = field
			continue
		}

		if field.Kind() != reflect.Func {
			return nil, errors.Wrapf(TargetNotFoundError, "`%s` is a %s, not a function", id, field.Kind())
		}
		if !field.CanSet() {
			return nil, errors.Wrapf(TargetNotFoundError, "`%s` cannot be replaced", id)
		}
		if field.IsNil() {
			return nil, errors.Wrapf(TargetNotFoundError, "`%s` has no implementation", id)
		}
		params, err := parseSchema(sf, field.Type())
		if err != nil {
			return nil, errors.Wrapf(err, "target `%s`", id)
		}
		return &target{
			id:     id,
			owner:  owner,
			member: seg,
			field:  field,
			fnType: field.Type(),
			params: params,
		}, nil
	}
	return nil, errors.Wrapf(TargetNotFoundError, "target `%s`", id)
}

// parseSchema reads the parameter names of fnType from the struct tag.
// Without a tag the parameters are named arg0, arg1, ...
func parseSchema(sf reflect.StructField, fnType reflect.Type) ([]param, error) {
	numIn := fnType.NumIn()
	tag, ok := sf.Tag.Lookup(SchemaTag)
	if !ok {
		params := make([]param, numIn)
		for i := range params {
			params[i].name = "arg" + strconv.Itoa(i)
		}
		return params, nil
	}

	var parts []string
	if tag != "" {
		parts = strings.Split(tag, ",")
	}
	if len(parts) != numIn {
		return nil, errors.Wrapf(SchemaError, "%d names for %d parameters", len(parts), numIn)
	}
	params := make([]param, numIn)
	seen := make(map[string]bool, numIn)
	for i, part := range parts {
		name, def, hasDefault := strings.Cut(strings.TrimSpace(part), "=")
		name = strings.TrimSpace(name)
		if name == "" || name == SourceKey || seen[name] {
			return nil, errors.Wrapf(SchemaError, "bad parameter name `%s`", name)
		}
		seen[name] = true
		params[i].name = name
		if !hasDefault {
			continue
		}
		if i != numIn-1 || !fnType.IsVariadic() {
			return nil, errors.Wrapf(SchemaError, "default on `%s` which is not a trailing variadic parameter", name)
		}
		v, err := parseDefault(def, fnType.In(i).Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "default of `%s`", name)
		}
		params[i].optional = true
		params[i].def = v
	}
	return params, nil
}

func parseDefault(s string, typ reflect.Type) (reflect.Value, error) {
	s = strings.TrimSpace(s)
	v := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, typ.Bits())
		if err != nil {
			return v, errors.Wrap(SchemaError, err.Error())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, typ.Bits())
		if err != nil {
			return v, errors.Wrap(SchemaError, err.Error())
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, typ.Bits())
		if err != nil {
			return v, errors.Wrap(SchemaError, err.Error())
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, errors.Wrap(SchemaError, err.Error())
		}
		v.SetBool(b)
	case reflect.String:
		v.SetString(s)
	default:
		return v, errors.Wrapf(SchemaError, "no default syntax for `%s`", typ)
	}
	return v, nil
}

// bind maps the wrapper's arguments to parameter names. For variadic
// functions the last argument is the variadic slice.
func (t *target) bind(in []reflect.Value) Args {
	utils.True(len(in) == len(t.params), "argument count matches the schema")
	a := Args{
		names:  make([]string, len(t.params)),
		values: make(map[string]interface{}, len(t.params)+1),
	}
	for i, p := range t.params {
		a.names[i] = p.name
		v := in[i]
		if p.optional {
			if v.Len() > 0 {
				v = v.Index(0)
			} else {
				v = p.def
			}
		}
		a.values[p.name] = v.Interface()
	}
	a.values[SourceKey] = t.id
	return a
}

// wrap builds the replacement for t around the pristine original.
func (l *Ledger) wrap(t *target, original reflect.Value, pres, posts []*Hint) reflect.Value {
	call := func(in []reflect.Value) []reflect.Value {
		if t.fnType.IsVariadic() {
			return original.CallSlice(in)
		}
		return original.Call(in)
	}

	return reflect.MakeFunc(t.fnType, func(in []reflect.Value) []reflect.Value {
		if l.isIgnored(t.id) {
			return call(in)
		}
		site := l.resolver.wrapperCaller()
		if l.resolver.IsRestricted(site) {
			return call(in)
		}

		c := &Call{
			Target:  t.id,
			Site:    site,
			Similar: l.memory.Record(t.id, site),
			ledger:  l,
		}
		l.teller.setCaller(site)
		c.Args = t.bind(in)

		l.runHints(pres, c, Result{})
		out := call(in)
		if len(posts) > 0 {
			l.runHints(posts, c, newResult(out))
		}
		return out
	})
}

func (l *Ledger) runHints(hints []*Hint, c *Call, res Result) {
	for _, h := range hints {
		if !h.policy.Allows(c.Similar) {
			continue
		}
		l.runHint(h, c, res)
	}
}

// runHint isolates one callback: returned errors and panics are reported as
// bug messages and never reach the caller.
func (l *Ledger) runHint(h *Hint, c *Call, res Result) {
	defer func() {
		if r := recover(); r != nil {
			l.reportBug(h, c, errors.Errorf("panic: %v", r))
		}
	}()
	var err error
	switch h.timing {
	case Pre:
		err = h.pre(c)
	case Post:
		err = h.post(res, c)
	}
	if err != nil {
		l.reportBug(h, c, err)
	}
}

const bugReport = `<h1>SAD HINT</h1><br>
I'm so sorry, but I crashed on <code>%s</code> with error <code>%s</code><br>
<strong>But you can change that!</strong><br>
Please report a bug with the line above.`

func (l *Ledger) reportBug(h *Hint, c *Call, err error) {
	l.logger.Debug("hint failed",
		log.String("hint", h.name),
		log.String("target", c.Target),
		log.Err(err))
	l.teller.Tell(c.Site, fmt.Sprintf(bugReport, html.EscapeString(h.String()), html.EscapeString(err.Error())), Red)
}

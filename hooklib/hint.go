package hooklib

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ListenOcean/goTableHint/utils"

	"github.com/pkg/errors"
)

// Timing tells whether a hint runs before or after the wrapped call.
type Timing string

const (
	Pre  Timing = "pre"
	Post Timing = "post"
)

// ParseTiming validates s as a timing.
func ParseTiming(s string) (Timing, error) {
	t := Timing(strings.ToLower(strings.TrimSpace(s)))
	if err := t.validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t Timing) validate() error {
	if t != Pre && t != Post {
		return errors.Wrapf(InvalidTimingError, "timing must be one of [%s %s], got %q", Pre, Post, string(t))
	}
	return nil
}

type (
	// PreFunc runs before the wrapped call with the bound arguments.
	PreFunc func(c *Call) error
	// PostFunc runs after the wrapped call with its results.
	PostFunc func(res Result, c *Call) error
)

var (
	preFuncType  = reflect.TypeOf(PreFunc(nil))
	postFuncType = reflect.TypeOf(PostFunc(nil))
)

// Targets lists target identifiers sharing one hint.
type Targets []string

// On is shorthand for building Targets.
func On(names ...string) Targets {
	return Targets(names)
}

var targetPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func validateTarget(id string) error {
	if !targetPattern.MatchString(id) {
		return errors.Wrapf(MalformedTargetError, "target %q", id)
	}
	return nil
}

// Hint binds an advisory callback to one or more targets. It is immutable
// once registered.
type Hint struct {
	targets []string
	timing  Timing
	pre     PreFunc
	post    PostFunc
	policy  Policy
	name    string
}

// HintOption customizes a hint at registration.
type HintOption func(h *Hint)

// WithPolicy sets the repeat-suppression policy.
func WithPolicy(p Policy) HintOption {
	return func(h *Hint) {
		h.policy = p
	}
}

// Threshold fires the hint only while the similarity count is at most n.
func Threshold(n int) HintOption {
	return WithPolicy(StopAfter(n))
}

// Named overrides the name used in listings and bug reports.
func Named(name string) HintOption {
	return func(h *Hint) {
		h.name = name
	}
}

func (h *Hint) Targets() []string {
	return append([]string(nil), h.targets...)
}

func (h *Hint) Timing() Timing {
	return h.timing
}

func (h *Hint) Policy() Policy {
	return h.policy
}

func (h *Hint) Name() string {
	return h.name
}

func (h *Hint) String() string {
	return fmt.Sprintf("%s hooks on %s", h.name, strings.Join(h.targets, ", "))
}

func (h *Hint) GoString() string {
	return fmt.Sprintf("[HINT] Hooks on %v with %s at %s, %s", h.targets, h.name, h.timing, h.policy)
}

// newHint validates every part of a registration and builds the hint.
func newHint(targets Targets, timing Timing, fn interface{}, opts []HintOption) (*Hint, error) {
	if err := timing.validate(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.Wrap(MalformedTargetError, "no targets given")
	}
	for _, id := range targets {
		if err := validateTarget(id); err != nil {
			return nil, err
		}
	}

	h := &Hint{
		targets: append([]string(nil), targets...),
		timing:  timing,
		policy:  StopAfter(1),
		name:    utils.ShortFuncName(utils.FuncName(fn)),
	}
	switch timing {
	case Pre:
		v, err := convertCallback(fn, preFuncType)
		if err != nil {
			return nil, err
		}
		h.pre = v.Interface().(PreFunc)
	case Post:
		v, err := convertCallback(fn, postFuncType)
		if err != nil {
			return nil, err
		}
		h.post = v.Interface().(PostFunc)
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.policy.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// convertCallback checks that fn is a non-nil function whose signature is
// identical to want and converts it to that type.
func convertCallback(fn interface{}, want reflect.Type) (reflect.Value, error) {
	if fn == nil {
		return reflect.Value{}, errors.Wrap(CallbackTypeError, "unexpected callback value `nil`")
	}
	v := reflect.ValueOf(fn)
	typ := v.Type()
	if typ.Kind() != reflect.Func {
		return reflect.Value{}, errors.Wrapf(CallbackTypeError, "expecting a function value but got `%T`", fn)
	}
	if v.IsNil() {
		return reflect.Value{}, errors.Wrap(CallbackTypeError, "unexpected nil function")
	}
	if numIn, wantIn := typ.NumIn(), want.NumIn(); numIn != wantIn {
		return reflect.Value{}, errors.Wrapf(CallbackTypeError, "unexpected number of arguments: got `%d` instead of `%d`", numIn, wantIn)
	}
	for i := 0; i < typ.NumIn(); i++ {
		if typ.In(i) != want.In(i) {
			return reflect.Value{}, errors.Wrapf(CallbackTypeError, "argument `%d` has type `%s` instead of `%s`", i, typ.In(i), want.In(i))
		}
	}
	if typ.NumOut() != 1 || typ.Out(0) != want.Out(0) {
		return reflect.Value{}, errors.Wrapf(CallbackTypeError, "callback must return exactly one `error`, got `%s`", typ)
	}
	return v.Convert(want), nil
}

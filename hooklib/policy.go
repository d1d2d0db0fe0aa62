package hooklib

import (
	"fmt"

	"github.com/pkg/errors"
)

type policyMode int

const (
	stopAfter policyMode = iota
	startFrom
	always
)

// Policy decides from the similarity count whether a hint fires. The
// similarity count is the number of consecutive most recent calls to the
// same target from the same call site, the current call included.
type Policy struct {
	mode policyMode
	n    int
}

// StopAfter fires while the similarity count is at most n. StopAfter(1) warns
// once per run of identical calls.
func StopAfter(n int) Policy {
	return Policy{mode: stopAfter, n: n}
}

// StartFrom fires once the similarity count reaches n and on every identical
// call after it.
func StartFrom(n int) Policy {
	return Policy{mode: startFrom, n: n}
}

// Always fires on every call.
func Always() Policy {
	return Policy{mode: always}
}

// Allows reports whether a hint with this policy fires at the given count.
func (p Policy) Allows(similar int) bool {
	switch p.mode {
	case stopAfter:
		return similar <= p.n
	case startFrom:
		return similar >= p.n
	default:
		return true
	}
}

func (p Policy) validate() error {
	if p.mode != always && p.n < 1 {
		return errors.Wrapf(InvalidThresholdError, "threshold must be positive, got %d", p.n)
	}
	return nil
}

func (p Policy) String() string {
	switch p.mode {
	case stopAfter:
		return fmt.Sprintf("stops after %d", p.n)
	case startFrom:
		return fmt.Sprintf("starts from %d", p.n)
	default:
		return "always"
	}
}

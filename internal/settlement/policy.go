package settlement

import (
	"errors"
	"fmt"
)

var ErrUnknownPolicy = errors.New("unknown cash shortfall policy")

// Policy decides what checkout does when cash tendered is short.
type Policy string

const (
	PolicyBlock  Policy = "block"
	PolicyWarn   Policy = "warn"
	PolicyPermit Policy = "permit"
)

const DefaultPolicy = PolicyBlock

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyBlock, PolicyWarn, PolicyPermit:
		return p, nil
	case "":
		return DefaultPolicy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

type Decision struct {
	Allowed bool
	Warning string
}

func (p Policy) Evaluate(r Result) Decision {
	if r.Sufficient {
		return Decision{Allowed: true}
	}
	msg := fmt.Sprintf("cash tendered is short by %s", r.Shortfall.String())
	switch p {
	case PolicyPermit:
		return Decision{Allowed: true}
	case PolicyWarn:
		return Decision{Allowed: true, Warning: msg}
	default:
		return Decision{Allowed: false, Warning: msg}
	}
}

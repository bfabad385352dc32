// Package address wraps address autocomplete as a capability the checkout
// flow consumes. The real provider lives behind the backend; the static
// validator below keeps checkout usable offline.
package address

import (
	"context"
	"strings"
)

type Result struct {
	IsValid          bool
	FormattedAddress string
	ErrorMessage     string
}

type Validator interface {
	Validate(ctx context.Context, input string) (Result, error)
}

// StaticValidator applies rule-based checks only: non-empty, minimum length,
// at least a street and a building part. It never rejects a plausible
// address, since the server re-validates on submission.
type StaticValidator struct {
	MinLength int
}

func NewStaticValidator() *StaticValidator {
	return &StaticValidator{MinLength: 5}
}

func (v *StaticValidator) Validate(_ context.Context, input string) (Result, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return Result{ErrorMessage: "address is required"}, nil
	}
	if len(trimmed) < v.MinLength {
		return Result{ErrorMessage: "address is too short"}, nil
	}
	if len(strings.Fields(trimmed)) < 2 {
		return Result{ErrorMessage: "address must include street and building"}, nil
	}
	return Result{IsValid: true, FormattedAddress: trimmed}, nil
}

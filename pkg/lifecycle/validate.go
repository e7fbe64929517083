// File: pkg/lifecycle/validate.go
package lifecycle

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the structural invariants of a policy: a non-empty Rules
// array, per-rule ID and Status, positive day counts, and ID uniqueness
// across the policy. Disabled rules are structurally valid and validated the
// same as enabled ones.
func Validate(p *Policy) error {
	if p == nil {
		return fmt.Errorf("policy is empty")
	}

	if err := validate.Struct(p); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid policy: %s", describeFieldError(errs[0]))
		}
		return fmt.Errorf("invalid policy: %w", err)
	}

	seen := make(map[string]int, len(p.Rules))
	for i, r := range p.Rules {
		if prev, dup := seen[r.ID]; dup {
			return fmt.Errorf("invalid policy: rules %d and %d share ID %q", prev, i, r.ID)
		}
		seen[r.ID] = i
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Namespace(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

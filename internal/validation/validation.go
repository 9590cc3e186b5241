// Package validation checks request fields against fixed, ordered rule sets
// and reports every violation as a human-readable message.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Input is a decoded JSON request body. Numbers are expected as json.Number.
type Input map[string]any

// Field binds a field name to the rules checked against it, in order.
type Field struct {
	Name  string
	Rules []Rule
}

// Set is the rule set of one endpoint.
type Set []Field

// Result holds the collected violations. It is valid when empty.
type Result struct {
	Errors []string
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Rule checks one constraint on a field.
type Rule struct {
	name    string
	check   func(ctx context.Context, in Input, field string, value any) (bool, error)
	message func(attribute string) string

	// implicit rules run even when the value is absent.
	implicit bool

	// bail stops the remaining rules of the field after a failure.
	bail bool

	// clean rules only run while the field has no violation yet.
	clean bool
}

// Validate evaluates set against in. The returned error is non-nil only when a
// rule could not be evaluated (for example a failed store lookup).
func Validate(ctx context.Context, in Input, set Set) (Result, error) {
	var res Result

	for _, field := range set {
		value, present := in[field.Name]
		empty := !present || isEmpty(value)
		failed := false

		for _, rule := range field.Rules {
			if empty && !rule.implicit {
				continue
			}
			if failed && rule.clean {
				continue
			}

			ok, err := rule.check(ctx, in, field.Name, value)
			if err != nil {
				return Result{}, fmt.Errorf("validate %s (%s): %w", field.Name, rule.name, err)
			}
			if ok {
				continue
			}

			failed = true
			res.Errors = append(res.Errors, rule.message(attribute(field.Name)))
			if rule.bail {
				break
			}
		}
	}

	return res, nil
}

func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case json.Number:
		return val.String() == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

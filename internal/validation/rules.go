package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// UniqueLookup reports whether value is already taken in the store.
type UniqueLookup func(ctx context.Context, value string, in Input) (bool, error)

func Required() Rule {
	return Rule{
		name:     "required",
		implicit: true,
		bail:     true,
		check: func(_ context.Context, in Input, field string, value any) (bool, error) {
			v, ok := in[field]
			return ok && !isEmpty(v), nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s field is required.", a) },
	}
}

func String() Rule {
	return Rule{
		name: "string",
		bail: true,
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			_, ok := value.(string)
			return ok, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s must be a string.", a) },
	}
}

func Integer() Rule {
	return Rule{
		name: "integer",
		bail: true,
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			_, err := Int64(value)
			return err == nil, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s must be an integer.", a) },
	}
}

func Boolean() Rule {
	return Rule{
		name: "boolean",
		bail: true,
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			_, err := Bool(value)
			return err == nil, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s field must be true or false.", a) },
	}
}

func Date() Rule {
	return Rule{
		name: "date",
		bail: true,
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			_, err := Time(value)
			return err == nil, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s is not a valid date.", a) },
	}
}

func Email() Rule {
	return Rule{
		name: "email",
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return false, nil
			}
			return validate.Var(s, "email") == nil, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s must be a valid email address.", a) },
	}
}

// Max limits a string to n characters.
func Max(n int) Rule {
	return Rule{
		name: "max",
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return true, nil
			}
			return utf8.RuneCountInString(s) <= n, nil
		},
		message: func(a string) string {
			return fmt.Sprintf("The %s must not be greater than %d characters.", a, n)
		},
	}
}

// Min requires a string of at least n characters.
func Min(n int) Rule {
	return Rule{
		name: "min",
		check: func(_ context.Context, _ Input, _ string, value any) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return true, nil
			}
			return utf8.RuneCountInString(s) >= n, nil
		},
		message: func(a string) string {
			return fmt.Sprintf("The %s must be at least %d characters.", a, n)
		},
	}
}

// Confirmed requires a matching "<field>_confirmation" value.
func Confirmed() Rule {
	return Rule{
		name: "confirmed",
		check: func(_ context.Context, in Input, field string, value any) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return false, nil
			}
			conf, ok := in[field+"_confirmation"].(string)
			return ok && conf == s, nil
		},
		message: func(a string) string { return fmt.Sprintf("The %s confirmation does not match.", a) },
	}
}

func Unique(lookup UniqueLookup) Rule {
	return Rule{
		name:  "unique",
		clean: true,
		check: func(ctx context.Context, in Input, _ string, value any) (bool, error) {
			s, ok := value.(string)
			if !ok {
				return true, nil
			}
			taken, err := lookup(ctx, s, in)
			if err != nil {
				return false, fmt.Errorf("unique lookup: %w", err)
			}
			return !taken, nil
		},
		message: func(a string) string { return UniqueMessage(a) },
	}
}

// UniqueMessage is also used when the store itself rejects a duplicate.
func UniqueMessage(attribute string) string {
	return fmt.Sprintf("The %s has already been taken.", attribute)
}

// Int64 converts a validated integer value.
func Int64(value any) (int64, error) {
	switch v := value.(type) {
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("%T is not an integer", value)
}

// Bool converts a validated boolean value. Accepted: true, false, 1, 0, "1", "0".
func Bool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case json.Number:
		return boolFromString(v.String())
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		return boolFromString(v)
	}
	return false, fmt.Errorf("%v is not a boolean", value)
}

func boolFromString(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// Time converts a validated date value.
func Time(value any) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%T is not a date", value)
	}
	return dateparse.ParseStrict(strings.TrimSpace(s))
}

// Str returns value as a string, or "" when it is not one.
func Str(value any) string {
	s, _ := value.(string)
	return s
}

// OptionalString returns nil for an absent or empty value.
func OptionalString(value any) *string {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

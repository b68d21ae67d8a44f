package validate

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/timster/go-api/internal/resource"
)

// asString coerces a submitted value to a string. Non-string values
// (numbers, booleans, null) coerce to the empty string, which the string
// rules treat as absent.
func asString(value any) string {
	s, _ := value.(string)
	return s
}

// Required fails when the field is absent or empty. Non-string submissions
// coerce to empty and fail, matching the other string rules.
func Required[T any]() Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		if !present || asString(value) == "" {
			return "required"
		}
		return ""
	}
}

// RequiredUnlessSet behaves like Required, except an absent field passes
// when the target instance already holds a value for it. This lets partial
// update submissions omit fields that are populated on the persisted
// instance.
func RequiredUnlessSet[T any](current func(target *T) string) Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		if present {
			if asString(value) == "" {
				return "required"
			}
			return ""
		}
		if current(target) != "" {
			return ""
		}
		return "required"
	}
}

// MinLength fails when a submitted non-empty value is shorter than n.
// Absent or empty values pass; combine with Required to force presence.
func MinLength[T any](n int) Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		s := asString(value)
		if !present || s == "" {
			return ""
		}
		if len(s) < n {
			return fmt.Sprintf("must be at least %d characters", n)
		}
		return ""
	}
}

// MaxLength fails when a submitted value is longer than n.
func MaxLength[T any](n int) Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		s := asString(value)
		if !present || s == "" {
			return ""
		}
		if len(s) > n {
			return fmt.Sprintf("must be at most %d characters", n)
		}
		return ""
	}
}

// Email fails when a submitted non-empty value is not a valid address.
func Email[T any]() Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		s := asString(value)
		if !present || s == "" {
			return ""
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return "must be a valid email address"
		}
		return ""
	}
}

// Unique fails when another persisted instance already holds the submitted
// value. lookup returns the id of the instance owning the value, or
// resource.ErrNotFound. selfID identifies the target so updates do not
// collide with the instance's own row. The storage layer's constraint
// remains the authoritative backstop against concurrent creates.
func Unique[T any](lookup func(ctx context.Context, value string) (int64, error), selfID func(target *T) int64) Rule[T] {
	return func(ctx context.Context, target *T, value any, present bool) string {
		s := asString(value)
		if !present || s == "" {
			return ""
		}
		owner, err := lookup(ctx, s)
		if err != nil {
			if errors.Is(err, resource.ErrNotFound) {
				return ""
			}
			return "could not be validated"
		}
		if owner != selfID(target) {
			return "must be unique"
		}
		return ""
	}
}

// Custom wraps an arbitrary predicate with access to the target instance.
func Custom[T any](fn func(ctx context.Context, target *T, value any, present bool) string) Rule[T] {
	return Rule[T](fn)
}

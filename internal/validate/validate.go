// Package validate implements a declarative, field-level validation engine.
// A Validator is built from an explicit rule set over a target instance,
// checks a map of submitted values against every governed field (never
// stopping at the first failure), and accumulates an error mapping of
// field name to messages instead of failing hard.
package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/timster/go-api/internal/resource"
)

// ErrInvalid is returned by Save when persistence surfaced a uniqueness
// violation that was translated into field errors.
var ErrInvalid = errors.New("validation failed")

// Values holds the submitted field values, as decoded from the request body.
type Values map[string]any

// Errors maps field names to the messages accumulated for them.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Rule checks one submitted value against the target instance. It returns an
// error message, or the empty string when the value passes. present reports
// whether the field appeared in the submission at all.
type Rule[T any] func(ctx context.Context, target *T, value any, present bool) string

// Field binds a name to its rule list and to the setter that applies a
// validated value onto the target.
type Field[T any] struct {
	Name  string
	Rules []Rule[T]
	Apply func(target *T, value any)
}

type state int

const (
	stateUnvalidated state = iota
	stateValid
	stateInvalid
	statePersisted
)

type fieldSetMode int

const (
	modeAll fieldSetMode = iota
	modeOnly
	modeExclude
)

// Validator validates submitted values against a target instance and, on
// success, applies and persists them. The lifecycle is strict:
// Validate must succeed exactly once before Save may be called.
type Validator[T any] struct {
	target    *T
	fields    []Field[T]
	mode      fieldSetMode
	modeNames []string
	persist   func(ctx context.Context, target *T) error

	state     state
	checked   []Field[T]
	submitted Values
	errors    Errors
}

// New constructs a validator from the full declared field set for the entity.
// persist is called by Save after a successful validation.
func New[T any](target *T, fields []Field[T], persist func(ctx context.Context, target *T) error) *Validator[T] {
	return &Validator[T]{
		target:  target,
		fields:  fields,
		persist: persist,
		errors:  Errors{},
	}
}

// Only restricts the validator to an explicit allow-list of field names.
// Mutually exclusive with Exclude.
func (v *Validator[T]) Only(names ...string) *Validator[T] {
	if v.mode != modeAll {
		panic("validator: field-set mode already declared")
	}
	v.mode = modeOnly
	v.modeNames = names
	return v
}

// Exclude restricts the validator to the declared field set minus the given
// names. Mutually exclusive with Only.
func (v *Validator[T]) Exclude(names ...string) *Validator[T] {
	if v.mode != modeAll {
		panic("validator: field-set mode already declared")
	}
	v.mode = modeExclude
	v.modeNames = names
	return v
}

// AddRule appends a rule to the named field. Used to bolt entity-specific
// rules (such as a current-secret confirmation) onto a shared base set.
func (v *Validator[T]) AddRule(name string, rule Rule[T]) *Validator[T] {
	for i := range v.fields {
		if v.fields[i].Name == name {
			v.fields[i].Rules = append(v.fields[i].Rules, rule)
			return v
		}
	}
	panic(fmt.Sprintf("validator: unknown field %q", name))
}

// governed resolves the effective field set per the declared mode.
func (v *Validator[T]) governed() []Field[T] {
	switch v.mode {
	case modeOnly:
		return v.selectFields(v.modeNames, true)
	case modeExclude:
		return v.selectFields(v.modeNames, false)
	default:
		return v.fields
	}
}

func (v *Validator[T]) selectFields(names []string, keep bool) []Field[T] {
	nameSet := make(map[string]bool, len(names))
	for _, name := range names {
		nameSet[name] = true
	}

	out := make([]Field[T], 0, len(v.fields))
	for _, field := range v.fields {
		if nameSet[field.Name] == keep {
			out = append(out, field)
		}
	}
	return out
}

// Validate checks the submitted values against every governed field. When
// restrictTo is non-empty, only those named fields are checked (used e.g. to
// confirm a current password before delete). All fields are always checked;
// a single submission can report multiple simultaneous errors. Returns true
// when no field failed.
func (v *Validator[T]) Validate(ctx context.Context, values Values, restrictTo ...string) bool {
	checked := v.governed()
	if len(restrictTo) > 0 {
		subset := make(map[string]bool, len(restrictTo))
		for _, name := range restrictTo {
			subset[name] = true
		}
		narrowed := make([]Field[T], 0, len(checked))
		for _, field := range checked {
			if subset[field.Name] {
				narrowed = append(narrowed, field)
			}
		}
		checked = narrowed
	}

	v.checked = checked
	v.submitted = values
	v.errors = Errors{}

	for _, field := range checked {
		value, present := values[field.Name]
		for _, rule := range field.Rules {
			if message := rule(ctx, v.target, value, present); message != "" {
				v.errors.Add(field.Name, message)
				break
			}
		}
	}

	if len(v.errors) > 0 {
		v.state = stateInvalid
		return false
	}

	v.state = stateValid
	return true
}

// Errors returns the error mapping accumulated by the last Validate or Save.
func (v *Validator[T]) Errors() Errors {
	return v.errors
}

// Save applies the validated values onto the target and persists it.
// Calling Save before a successful Validate is a programming error.
// A uniqueness violation surfaced by the storage layer is translated into
// the same field-level error shape Validate produces, and ErrInvalid is
// returned; Errors then carries the mapping.
func (v *Validator[T]) Save(ctx context.Context) error {
	if v.state != stateValid {
		panic("validator: save requires a successful validation")
	}

	for _, field := range v.checked {
		if field.Apply == nil {
			continue
		}
		if value, present := v.submitted[field.Name]; present {
			field.Apply(v.target, value)
		}
	}

	if err := v.persist(ctx, v.target); err != nil {
		var dup *resource.DuplicateError
		if errors.As(err, &dup) {
			v.errors.Add(dup.Field, "must be unique")
			v.state = stateInvalid
			return ErrInvalid
		}
		return fmt.Errorf("failed to save instance: %w", err)
	}

	v.state = statePersisted
	return nil
}

package resource

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/helpdesk-console/internal"
)

// Vocabulary is the fixed set of values an enumerated column may hold.
type Vocabulary struct {
	Field   string
	initial string
	values  []string
}

func NewVocabulary(field, initial string, values ...string) Vocabulary {
	return Vocabulary{Field: field, initial: initial, values: values}
}

func (v Vocabulary) Initial() string {
	return v.initial
}

func (v Vocabulary) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

func (v Vocabulary) Contains(value string) bool {
	for _, s := range v.values {
		if s == value {
			return true
		}
	}
	return false
}

func (v Vocabulary) Validate(value string) *errors.AppError {
	if v.Contains(value) {
		return nil
	}
	return errors.NewValidationFieldError(v.Field,
		fmt.Sprintf("%s must be one of %s", v.Field, strings.Join(v.values, ", ")),
		errors.ErrCodeInvalidStatus)
}

// Resolve returns the initial value for a blank input and validates the rest.
func (v Vocabulary) Resolve(value string) (string, *errors.AppError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return v.initial, nil
	}
	if err := v.Validate(value); err != nil {
		return "", err
	}
	return value, nil
}

type Transition struct {
	Action string
	From   []string
	To     string
}

// Transitions constrains which status actions a record may take next.
type Transitions struct {
	entity string
	list   []Transition
}

func NewTransitions(entity string, list ...Transition) Transitions {
	return Transitions{entity: entity, list: list}
}

func (t Transitions) find(action string) (Transition, bool) {
	for _, tr := range t.list {
		if tr.Action == action {
			return tr, true
		}
	}
	return Transition{}, false
}

// Next returns the status reached by applying action to current.
func (t Transitions) Next(action, current string) (string, error) {
	tr, ok := t.find(action)
	if !ok {
		return "", errors.NewValidationError(fmt.Sprintf("unknown action %q", action), errors.ErrCodeInvalidTransition)
	}
	for _, from := range tr.From {
		if from == current {
			return tr.To, nil
		}
	}
	return "", errors.NewValidationError(
		fmt.Sprintf("cannot %s a %s %s", strings.ReplaceAll(action, "_", " "), current, t.entity),
		errors.ErrCodeInvalidTransition)
}

// Available lists the actions a record in status current may offer.
func (t Transitions) Available(current string) []string {
	actions := make([]string, 0, len(t.list))
	for _, tr := range t.list {
		for _, from := range tr.From {
			if from == current {
				actions = append(actions, tr.Action)
				break
			}
		}
	}
	return actions
}

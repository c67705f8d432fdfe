package rest

import (
	"fmt"
	"strings"
)

// ValidateActionKind enumerates the validation vocabulary.
type ValidateActionKind int

const (
	ActionRequired ValidateActionKind = iota
	ActionEmail
	ActionRange
	ActionRegex
	ActionCustom
)

var actionNames = map[ValidateActionKind]string{
	ActionRequired: "required",
	ActionEmail:    "email",
	ActionRange:    "range",
	ActionRegex:    "regex",
	ActionCustom:   "custom",
}

func (k ValidateActionKind) String() string { return actionNames[k] }

// ValidateAction is one step of a validation chain. Range carries optional
// bounds; min precedes max when both are present. Regex carries a pattern,
// Custom a reference to a caller-supplied check.
type ValidateAction struct {
	Kind    ValidateActionKind `json:"kind"`
	Pos     Position           `json:"-"`
	Min     *int64             `json:"min,omitempty"`
	Max     *int64             `json:"max,omitempty"`
	Pattern string             `json:"pattern,omitempty"` // regex pattern or custom reference
}

func (a ValidateAction) String() string {
	switch a.Kind {
	case ActionRange:
		switch {
		case a.Min != nil && a.Max != nil:
			return fmt.Sprintf("range(min: %d, max: %d)", *a.Min, *a.Max)
		case a.Min != nil:
			return fmt.Sprintf("range(min: %d)", *a.Min)
		case a.Max != nil:
			return fmt.Sprintf("range(max: %d)", *a.Max)
		}
		return "range()"
	case ActionRegex:
		return fmt.Sprintf("regex = %q", a.Pattern)
	case ActionCustom:
		return fmt.Sprintf("custom = %q", a.Pattern)
	}
	return a.Kind.String()
}

// ValidateChain is the ordered action list of one validate attribute,
// attached to exactly one field, record or variant. Checks run in order and
// short-circuit at the first failure.
type ValidateChain struct {
	Actions []ValidateAction `json:"actions"`
}

func (c *ValidateChain) String() string {
	parts := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

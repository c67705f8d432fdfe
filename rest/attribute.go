package rest

import (
	"fmt"
	"strings"
)

// Attributes come in two closed universes: record attributes (legal on
// endpoint groups, records and variant sets) and field attributes (legal on
// fields and variants). Each value is immutable once parsed. The attribute
// sub-parser builds them context-agnostically; legality is enforced by the
// attribute compiler.

// RecordAttrKind enumerates the record-attribute vocabulary.
type RecordAttrKind int

const (
	// AttrRenameAll renames all members on the wire: #[rename_all = "camelCase"].
	AttrRenameAll RecordAttrKind = iota
	// AttrDerive lists auto-implementation directives: #[derive(Debug, Clone)].
	AttrDerive
	// AttrBuilder commands generation of per-field mutator methods: #[builder].
	AttrBuilder
	// AttrRemote embeds a remote-type directive: #[remote = "other.Type"].
	AttrRemote
	// AttrGetter embeds a getter directive: #[getter = "Value"].
	AttrGetter
	// AttrAsync is declared in the grammar but has no synthesis target.
	AttrAsync
	// AttrRecordValidate attaches a validation chain to the whole record.
	AttrRecordValidate
	// AttrRecordLog commands leveled log helpers for the record.
	AttrRecordLog
)

var recordAttrNames = map[RecordAttrKind]string{
	AttrRenameAll:      "rename_all",
	AttrDerive:         "derive",
	AttrBuilder:        "builder",
	AttrRemote:         "remote",
	AttrGetter:         "getter",
	AttrAsync:          "async",
	AttrRecordValidate: "validate",
	AttrRecordLog:      "log",
}

func (k RecordAttrKind) String() string { return recordAttrNames[k] }

// RecordAttr is one parsed record-universe attribute. Exactly the fields
// relevant to Kind are populated.
type RecordAttr struct {
	Kind    RecordAttrKind `json:"kind"`
	Pos     Position       `json:"-"`
	Value   string         `json:"value,omitempty"`   // rename_all pattern, remote path, getter name
	Derives []string       `json:"derives,omitempty"` // derive identifier list
	Chain   *ValidateChain `json:"chain,omitempty"`
	Logs    []LogCall      `json:"logs,omitempty"`
}

func (a RecordAttr) String() string {
	switch a.Kind {
	case AttrDerive:
		return fmt.Sprintf("#[derive(%s)]", strings.Join(a.Derives, ", "))
	case AttrBuilder, AttrAsync:
		return fmt.Sprintf("#[%s]", a.Kind)
	case AttrRecordValidate:
		return fmt.Sprintf("#[validate(%s)]", a.Chain)
	case AttrRecordLog:
		return fmt.Sprintf("#[log(%s)]", formatLogs(a.Logs))
	default:
		return fmt.Sprintf("#[%s = %q]", a.Kind, a.Value)
	}
}

// FieldAttrKind enumerates the field-attribute vocabulary.
type FieldAttrKind int

const (
	// AttrRename renames one member on the wire: #[rename = "userId"].
	AttrRename FieldAttrKind = iota
	// AttrDefault fills the member on input: #[default] or #[default = "fn"].
	AttrDefault
	// AttrSkipIf skips the member on output: #[skip_if = "fn"].
	AttrSkipIf
	// AttrFlatten inlines the member's own members: #[flatten].
	AttrFlatten
	// AttrSerializeWith names a custom serialization hook. Declared but with
	// no synthesis target; rendering it must fail loudly.
	AttrSerializeWith
	// AttrDeserializeWith names a custom deserialization hook. Same status
	// as AttrSerializeWith.
	AttrDeserializeWith
	// AttrBorrow embeds a zero-copy borrow directive: #[borrow].
	AttrBorrow
	// AttrBound embeds an explicit generic bound: #[bound = "T: Default"].
	AttrBound
	// AttrFieldValidate attaches a validation chain to the field.
	AttrFieldValidate
	// AttrFieldLog commands leveled log helpers for the field.
	AttrFieldLog
)

var fieldAttrNames = map[FieldAttrKind]string{
	AttrRename:          "rename",
	AttrDefault:         "default",
	AttrSkipIf:          "skip_if",
	AttrFlatten:         "flatten",
	AttrSerializeWith:   "serialize_with",
	AttrDeserializeWith: "deserialize_with",
	AttrBorrow:          "borrow",
	AttrBound:           "bound",
	AttrFieldValidate:   "validate",
	AttrFieldLog:        "log",
}

func (k FieldAttrKind) String() string { return fieldAttrNames[k] }

// RecordBodyOnly reports whether the attribute is meaningful only on a field
// inside a record body. Such an attribute attached to a bare or
// tuple-payload variant is a semantic error.
//
// Skip-on-output (skip_if) and fill-on-input (default) stay two independent
// attributes rather than one two-sided policy; the distinction is preserved
// deliberately.
func (k FieldAttrKind) RecordBodyOnly() bool {
	switch k {
	case AttrDefault, AttrSkipIf, AttrFlatten, AttrSerializeWith, AttrDeserializeWith:
		return true
	case AttrRename, AttrBorrow, AttrBound, AttrFieldValidate, AttrFieldLog:
		return false
	}
	return false
}

// FieldAttr is one parsed field-universe attribute.
type FieldAttr struct {
	Kind     FieldAttrKind  `json:"kind"`
	Pos      Position       `json:"-"`
	Value    string         `json:"value,omitempty"`
	HasValue bool           `json:"hasValue,omitempty"` // default may be bare
	Chain    *ValidateChain `json:"chain,omitempty"`
	Logs     []LogCall      `json:"logs,omitempty"`
}

func (a FieldAttr) String() string {
	switch a.Kind {
	case AttrFlatten, AttrBorrow:
		return fmt.Sprintf("#[%s]", a.Kind)
	case AttrDefault:
		if !a.HasValue {
			return "#[default]"
		}
		return fmt.Sprintf("#[default = %q]", a.Value)
	case AttrFieldValidate:
		return fmt.Sprintf("#[validate(%s)]", a.Chain)
	case AttrFieldLog:
		return fmt.Sprintf("#[log(%s)]", formatLogs(a.Logs))
	default:
		return fmt.Sprintf("#[%s = %q]", a.Kind, a.Value)
	}
}

// LogLevel of one configured log call.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarn
	LogDebug
	LogError
)

var logLevelNames = map[LogLevel]string{
	LogInfo:  "info",
	LogWarn:  "warn",
	LogDebug: "debug",
	LogError: "error",
}

func (l LogLevel) String() string { return logLevelNames[l] }

// LogLevelFromName resolves an identifier against the level vocabulary.
func LogLevelFromName(name string) (LogLevel, bool) {
	for level, n := range logLevelNames {
		if n == name {
			return level, true
		}
	}
	return 0, false
}

// LogCall is one level/template pair inside a log attribute. The template
// may reference members with {name} placeholders.
type LogCall struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"`
	Pos    Position `json:"-"`
}

func formatLogs(calls []LogCall) string {
	parts := make([]string, len(calls))
	for i, c := range calls {
		parts[i] = fmt.Sprintf("%s = %q", c.Level, c.Format)
	}
	return strings.Join(parts, ", ")
}

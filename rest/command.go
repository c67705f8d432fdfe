package rest

import "fmt"

// The command dispatcher resolves a generation command into a directive: a
// uniform value giving the emitter everything needed to synthesize code
// without a type-switch at every call site. Three directive families are
// implemented (builder, validate, log); async resolves to a loud error.

// Directive is the closed union of resolved generation directives.
type Directive interface {
	directive()
}

// BuilderDirective requests one mutator-returning method per field.
type BuilderDirective struct {
	TypeName string
	Fields   []BuilderField
}

// BuilderField is one mutator target.
type BuilderField struct {
	Name     string
	Type     string
	Optional bool
}

func (BuilderDirective) directive() {}

// ValidateDirective requests a check routine that runs each action in order,
// short-circuiting at the first failure. Field is empty for record-level
// chains.
type ValidateDirective struct {
	TypeName string
	Checks   []ValidateCheck
}

// ValidateCheck is one action applied to one target.
type ValidateCheck struct {
	Field  string
	Action ValidateAction
}

func (ValidateDirective) directive() {}

// LogDirective requests one logging call per configured level, each using
// its attached format template.
type LogDirective struct {
	TypeName string
	Field    string // empty for record-level logs
	Calls    []LogCall
}

func (LogDirective) directive() {}

// ResolveRecordCommand resolves a record-level command against its record.
func ResolveRecordCommand(cmd Command, rec *Record) (Directive, error) {
	switch cmd.Kind {
	case CmdBuilder:
		d := BuilderDirective{TypeName: rec.Name}
		for _, f := range rec.Fields {
			d.Fields = append(d.Fields, BuilderField{Name: f.Name, Type: f.Type, Optional: f.Optional})
		}
		return d, nil
	case CmdValidate:
		d := ValidateDirective{TypeName: rec.Name}
		for _, a := range cmd.Chain.Actions {
			d.Checks = append(d.Checks, ValidateCheck{Action: a})
		}
		return d, nil
	case CmdLog:
		return LogDirective{TypeName: rec.Name, Calls: cmd.Logs}, nil
	case CmdAsync:
		return nil, Semanticf(cmd.Pos, "command %q has no synthesis target", cmd.Kind)
	}
	return nil, fmt.Errorf("unknown command kind %d", cmd.Kind)
}

// ResolveFieldCommand resolves a field-level command against its owning type
// and field.
func ResolveFieldCommand(cmd Command, typeName string, field *Field) (Directive, error) {
	switch cmd.Kind {
	case CmdValidate:
		d := ValidateDirective{TypeName: typeName}
		for _, a := range cmd.Chain.Actions {
			d.Checks = append(d.Checks, ValidateCheck{Field: field.Name, Action: a})
		}
		return d, nil
	case CmdLog:
		return LogDirective{TypeName: typeName, Field: field.Name, Calls: cmd.Logs}, nil
	case CmdBuilder, CmdAsync:
		return nil, Semanticf(cmd.Pos, "command %q cannot be resolved for a field", cmd.Kind)
	}
	return nil, fmt.Errorf("unknown command kind %d", cmd.Kind)
}

package rest

// The attribute compiler partitions a node's parsed attributes into
// pass-through metadata (embedded verbatim in generated output) and
// generation commands (instructions that alter code synthesis). The per-kind
// mapping is total: adding an attribute kind without extending it is a
// compile-time obligation surfaced by the exhaustive switches below.

// CommandKind enumerates the generation commands an attribute can carry.
type CommandKind int

const (
	CmdBuilder CommandKind = iota
	CmdValidate
	CmdLog
	// CmdAsync is declared but has no synthesis target; resolving it fails
	// loudly so incomplete code is never shipped silently.
	CmdAsync
)

var commandNames = map[CommandKind]string{
	CmdBuilder:  "builder",
	CmdValidate: "validate",
	CmdLog:      "log",
	CmdAsync:    "async",
}

func (k CommandKind) String() string { return commandNames[k] }

// Command is one generation command lifted out of an attribute list.
type Command struct {
	Kind  CommandKind
	Pos   Position
	Chain *ValidateChain // CmdValidate only
	Logs  []LogCall      // CmdLog only
}

// CompiledRecordAttrs is the on-demand partition of a record-universe
// attribute list. It is derived, consumed immediately, and never persisted.
type CompiledRecordAttrs struct {
	Metadata []RecordAttr
	Commands []Command
}

// CompileRecordAttrs classifies every record attribute as metadata or
// command.
func CompileRecordAttrs(attrs []RecordAttr) CompiledRecordAttrs {
	var out CompiledRecordAttrs
	for _, a := range attrs {
		switch a.Kind {
		case AttrRenameAll, AttrDerive, AttrRemote, AttrGetter:
			out.Metadata = append(out.Metadata, a)
		case AttrBuilder:
			out.Commands = append(out.Commands, Command{Kind: CmdBuilder, Pos: a.Pos})
		case AttrRecordValidate:
			out.Commands = append(out.Commands, Command{Kind: CmdValidate, Pos: a.Pos, Chain: a.Chain})
		case AttrRecordLog:
			out.Commands = append(out.Commands, Command{Kind: CmdLog, Pos: a.Pos, Logs: a.Logs})
		case AttrAsync:
			out.Commands = append(out.Commands, Command{Kind: CmdAsync, Pos: a.Pos})
		}
	}
	return out
}

// CompiledFieldAttrs is the partition of a field-universe attribute list.
type CompiledFieldAttrs struct {
	Metadata []FieldAttr
	Commands []Command
}

// CompileFieldAttrs classifies every field attribute as metadata or command.
func CompileFieldAttrs(attrs []FieldAttr) CompiledFieldAttrs {
	var out CompiledFieldAttrs
	for _, a := range attrs {
		switch a.Kind {
		case AttrRename, AttrDefault, AttrSkipIf, AttrFlatten,
			AttrSerializeWith, AttrDeserializeWith, AttrBorrow, AttrBound:
			out.Metadata = append(out.Metadata, a)
		case AttrFieldValidate:
			out.Commands = append(out.Commands, Command{Kind: CmdValidate, Pos: a.Pos, Chain: a.Chain})
		case AttrFieldLog:
			out.Commands = append(out.Commands, Command{Kind: CmdLog, Pos: a.Pos, Logs: a.Logs})
		}
	}
	return out
}

// ContextViolation returns the position of the first attribute that is
// meaningful only inside a record body. Used to reject such attributes on
// bare and tuple-payload variants, which have no nested fields.
func ContextViolation(attrs []FieldAttr) *Position {
	for _, a := range attrs {
		if a.Kind.RecordBodyOnly() {
			pos := a.Pos
			return &pos
		}
	}
	return nil
}

// CheckVariant verifies attribute context legality for one variant.
// Struct-shaped variants carry their field attributes on the nested fields,
// so only bare and tuple payloads are restricted.
func CheckVariant(v *Variant) *Error {
	if v.Payload == PayloadStruct {
		return nil
	}
	if pos := ContextViolation(v.Attrs); pos != nil {
		return Semanticf(*pos, "attribute is only valid on record fields, not on %s variant %q", v.Payload, v.Name)
	}
	return nil
}

// CheckGroup walks a parsed endpoint group and reports the first attribute
// context violation, if any.
func CheckGroup(g *EndpointGroup) *Error {
	for _, m := range g.Methods {
		for _, dt := range m.Types {
			vs, ok := dt.(*VariantSet)
			if !ok {
				continue
			}
			for _, v := range vs.Variants {
				if err := CheckVariant(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

package rest

import (
	"testing"
)

func TestCompileRecordAttrsPartition(t *testing.T) {
	attrs := []RecordAttr{
		{Kind: AttrRenameAll, Value: "camelCase"},
		{Kind: AttrBuilder},
		{Kind: AttrDerive, Derives: []string{"Debug"}},
		{Kind: AttrRecordValidate, Chain: &ValidateChain{Actions: []ValidateAction{{Kind: ActionRequired}}}},
		{Kind: AttrRemote, Value: "other.Type"},
		{Kind: AttrGetter, Value: "Value"},
		{Kind: AttrRecordLog, Logs: []LogCall{{Level: LogInfo, Format: "x"}}},
		{Kind: AttrAsync},
	}

	compiled := CompileRecordAttrs(attrs)

	metaKinds := []RecordAttrKind{AttrRenameAll, AttrDerive, AttrRemote, AttrGetter}
	if len(compiled.Metadata) != len(metaKinds) {
		t.Fatalf("len(Metadata) = %d, want %d", len(compiled.Metadata), len(metaKinds))
	}
	for i, kind := range metaKinds {
		if compiled.Metadata[i].Kind != kind {
			t.Errorf("Metadata[%d].Kind = %v, want %v", i, compiled.Metadata[i].Kind, kind)
		}
	}

	cmdKinds := []CommandKind{CmdBuilder, CmdValidate, CmdLog, CmdAsync}
	if len(compiled.Commands) != len(cmdKinds) {
		t.Fatalf("len(Commands) = %d, want %d", len(compiled.Commands), len(cmdKinds))
	}
	for i, kind := range cmdKinds {
		if compiled.Commands[i].Kind != kind {
			t.Errorf("Commands[%d].Kind = %v, want %v", i, compiled.Commands[i].Kind, kind)
		}
	}
	if compiled.Commands[1].Chain == nil {
		t.Error("validate command lost its chain")
	}
	if len(compiled.Commands[2].Logs) != 1 {
		t.Error("log command lost its calls")
	}
}

func TestCompileFieldAttrsPartition(t *testing.T) {
	attrs := []FieldAttr{
		{Kind: AttrRename, Value: "userId", HasValue: true},
		{Kind: AttrFieldValidate, Chain: &ValidateChain{Actions: []ValidateAction{{Kind: ActionEmail}}}},
		{Kind: AttrSkipIf, Value: "is_zero", HasValue: true},
		{Kind: AttrFieldLog, Logs: []LogCall{{Level: LogDebug, Format: "y"}}},
		{Kind: AttrFlatten},
	}

	compiled := CompileFieldAttrs(attrs)

	if len(compiled.Metadata) != 3 {
		t.Errorf("len(Metadata) = %d, want 3", len(compiled.Metadata))
	}
	if len(compiled.Commands) != 2 {
		t.Fatalf("len(Commands) = %d, want 2", len(compiled.Commands))
	}
	if compiled.Commands[0].Kind != CmdValidate || compiled.Commands[1].Kind != CmdLog {
		t.Errorf("Commands = %v, want [validate log]", compiled.Commands)
	}
}

func TestContextViolation(t *testing.T) {
	pos := Position{File: "test.rest", Line: 3, Column: 5}
	tests := []struct {
		name  string
		attrs []FieldAttr
		want  bool
	}{
		{"skip_if", []FieldAttr{{Kind: AttrSkipIf, Pos: pos}}, true},
		{"default", []FieldAttr{{Kind: AttrDefault, Pos: pos}}, true},
		{"flatten", []FieldAttr{{Kind: AttrFlatten, Pos: pos}}, true},
		{"serialize_with", []FieldAttr{{Kind: AttrSerializeWith, Pos: pos}}, true},
		{"deserialize_with", []FieldAttr{{Kind: AttrDeserializeWith, Pos: pos}}, true},
		{"rename", []FieldAttr{{Kind: AttrRename, Pos: pos}}, false},
		{"borrow", []FieldAttr{{Kind: AttrBorrow, Pos: pos}}, false},
		{"bound", []FieldAttr{{Kind: AttrBound, Pos: pos}}, false},
		{"validate", []FieldAttr{{Kind: AttrFieldValidate, Pos: pos}}, false},
		{"log", []FieldAttr{{Kind: AttrFieldLog, Pos: pos}}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContextViolation(tt.attrs)
			if tt.want && got == nil {
				t.Fatal("ContextViolation() = nil, want position")
			}
			if !tt.want && got != nil {
				t.Fatalf("ContextViolation() = %v, want nil", got)
			}
			if tt.want && *got != pos {
				t.Errorf("position = %v, want %v", *got, pos)
			}
		})
	}
}

func TestCheckVariant(t *testing.T) {
	skip := FieldAttr{Kind: AttrSkipIf, Pos: Position{Line: 2, Column: 1}}

	bare := &Variant{Name: "Active", Attrs: []FieldAttr{skip}}
	if err := CheckVariant(bare); err == nil {
		t.Error("CheckVariant(bare) = nil, want error")
	} else if err.Pos != skip.Pos {
		t.Errorf("Pos = %v, want %v", err.Pos, skip.Pos)
	}

	tuple := &Variant{Name: "Retired", Payload: PayloadTuple, TupleType: "String", Attrs: []FieldAttr{skip}}
	if err := CheckVariant(tuple); err == nil {
		t.Error("CheckVariant(tuple) = nil, want error")
	}

	// Struct-shaped variants carry attributes on their nested fields.
	structed := &Variant{Name: "Custom", Payload: PayloadStruct, Attrs: []FieldAttr{skip}}
	if err := CheckVariant(structed); err != nil {
		t.Errorf("CheckVariant(struct) = %v, want nil", err)
	}
}

func TestCheckGroupWalksVariantSets(t *testing.T) {
	group := &EndpointGroup{
		Name: "Users",
		Methods: []*EndpointMethod{{
			Verb: "GET",
			URI:  "/users",
			Types: []DataType{
				&Record{Name: "Query", Role: RoleQuery},
				&VariantSet{
					Name: "Status",
					Variants: []*Variant{
						{Name: "Active"},
						{Name: "Retired", Attrs: []FieldAttr{{Kind: AttrFlatten, Pos: Position{Line: 9}}}},
					},
				},
			},
		}},
	}

	err := CheckGroup(group)
	if err == nil {
		t.Fatal("CheckGroup() = nil, want error")
	}
	if err.Kind != SemanticError {
		t.Errorf("Kind = %v, want %v", err.Kind, SemanticError)
	}
	if err.Pos.Line != 9 {
		t.Errorf("Pos.Line = %d, want 9", err.Pos.Line)
	}
}

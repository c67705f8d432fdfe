package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/restify-go/restify/rest"
)

func parse(t *testing.T, src string) []*rest.EndpointGroup {
	t.Helper()
	groups, err := ParseDeclaration([]byte(src), WithFile("test.rest"))
	if err != nil {
		t.Fatalf("ParseDeclaration() error: %v", err)
	}
	return groups
}

func parseErr(t *testing.T, src string) *rest.Error {
	t.Helper()
	_, err := ParseDeclaration([]byte(src), WithFile("test.rest"))
	if err == nil {
		t.Fatal("ParseDeclaration() succeeded, want error")
	}
	var parseErr *rest.Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *rest.Error", err)
	}
	return parseErr
}

func TestParseQueryRecord(t *testing.T) {
	groups := parse(t, `
		[
			Users: {
				GET "/users/{id}" => {
					struct Query {
						id: i32,
						name: ?String,
					}
				}
			}
		]
	`)

	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	group := groups[0]
	if group.Name != "Users" {
		t.Errorf("Name = %q, want %q", group.Name, "Users")
	}
	if len(group.Methods) != 1 {
		t.Fatalf("len(Methods) = %d, want 1", len(group.Methods))
	}

	method := group.Methods[0]
	if method.Verb != "GET" {
		t.Errorf("Verb = %q, want %q", method.Verb, "GET")
	}
	if method.URI != "/users/{id}" {
		t.Errorf("URI = %q, want %q", method.URI, "/users/{id}")
	}
	if len(method.Types) != 1 {
		t.Fatalf("len(Types) = %d, want 1", len(method.Types))
	}

	rec, ok := method.Types[0].(*rest.Record)
	if !ok {
		t.Fatalf("Types[0] type = %T, want *rest.Record", method.Types[0])
	}
	if rec.Role != rest.RoleQuery {
		t.Errorf("Role = %v, want %v", rec.Role, rest.RoleQuery)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(rec.Fields))
	}
	if rec.Fields[0].Name != "id" || rec.Fields[0].Type != "i32" || rec.Fields[0].Optional {
		t.Errorf("Fields[0] = %+v, want required id: i32", rec.Fields[0])
	}
	if rec.Fields[1].Name != "name" || rec.Fields[1].Type != "String" || !rec.Fields[1].Optional {
		t.Errorf("Fields[1] = %+v, want optional name: String", rec.Fields[1])
	}
}

func TestParseGroupsInSourceOrder(t *testing.T) {
	groups := parse(t, `
		[ Users: { GET "/users" => { struct Response { id: i32 } } } ],
		[ Orders: { GET "/orders" => { struct Response { id: i32 } } } ],
		#[derive(Debug)]
		[ pub Items: { GET "/items" => { struct Response { id: i32 } } } ]
	`)

	names := []string{"Users", "Orders", "Items"}
	if len(groups) != len(names) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(names))
	}
	for i, name := range names {
		if groups[i].Name != name {
			t.Errorf("groups[%d].Name = %q, want %q", i, groups[i].Name, name)
		}
	}
	if groups[0].Vis != rest.VisPrivate {
		t.Errorf("Users visibility = %v, want private", groups[0].Vis)
	}
	if groups[2].Vis != rest.VisPublic {
		t.Errorf("Items visibility = %v, want public", groups[2].Vis)
	}
	if len(groups[2].Attrs) != 1 || groups[2].Attrs[0].Kind != rest.AttrDerive {
		t.Errorf("Items attrs = %v, want one derive", groups[2].Attrs)
	}
}

func TestParseExplicitRoleTag(t *testing.T) {
	groups := parse(t, `
		[ Users: { GET "/users" => { struct UserDetails<Response> { id: i32 } } } ]
	`)

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	if rec.Name != "UserDetails" {
		t.Errorf("Name = %q, want %q", rec.Name, "UserDetails")
	}
	if rec.Role != rest.RoleResponse {
		t.Errorf("Role = %v, want %v", rec.Role, rest.RoleResponse)
	}
}

func TestParseInvalidRole(t *testing.T) {
	err := parseErr(t, `
		[ Users: { GET "/users" => { struct Details<Banana> { id: i32 } } } ]
	`)
	if err.Kind != rest.SemanticError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SemanticError)
	}
	if !strings.Contains(err.Msg, "Banana") {
		t.Errorf("Msg = %q, want mention of %q", err.Msg, "Banana")
	}
}

func TestParseBareNameMustBeRole(t *testing.T) {
	err := parseErr(t, `
		[ Users: { GET "/users" => { struct Details { id: i32 } } } ]
	`)
	if err.Kind != rest.SemanticError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SemanticError)
	}
	if !strings.Contains(err.Msg, "Details") {
		t.Errorf("Msg = %q, want mention of %q", err.Msg, "Details")
	}
}

func TestParseInvalidVerb(t *testing.T) {
	err := parseErr(t, `
		[ Users: { FETCH "/users" => { struct Response { id: i32 } } } ]
	`)
	if err.Kind != rest.SemanticError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SemanticError)
	}
	if !strings.Contains(err.Msg, "FETCH") {
		t.Errorf("Msg = %q, want mention of %q", err.Msg, "FETCH")
	}
}

func TestParseRangeMinOnly(t *testing.T) {
	groups := parse(t, `
		[ Users: { POST "/users" => { struct Request {
			#[validate(range(min: 19))]
			age: i32,
		} } } ]
	`)

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	attrs := rec.Fields[0].Attrs
	if len(attrs) != 1 || attrs[0].Kind != rest.AttrFieldValidate {
		t.Fatalf("attrs = %v, want one validate", attrs)
	}
	actions := attrs[0].Chain.Actions
	if len(actions) != 1 || actions[0].Kind != rest.ActionRange {
		t.Fatalf("actions = %v, want one range", actions)
	}
	if actions[0].Min == nil || *actions[0].Min != 19 {
		t.Errorf("Min = %v, want 19", actions[0].Min)
	}
	if actions[0].Max != nil {
		t.Errorf("Max = %v, want nil", actions[0].Max)
	}
}

func TestParseRangeBothBounds(t *testing.T) {
	groups := parse(t, `
		[ Users: { POST "/users" => { struct Request {
			#[validate(range(min: 19, max: 99))]
			age: i32,
		} } } ]
	`)

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	action := rec.Fields[0].Attrs[0].Chain.Actions[0]
	if action.Min == nil || *action.Min != 19 {
		t.Errorf("Min = %v, want 19", action.Min)
	}
	if action.Max == nil || *action.Max != 99 {
		t.Errorf("Max = %v, want 99", action.Max)
	}
}

func TestParseRangeMaxBeforeMin(t *testing.T) {
	err := parseErr(t, `
		[ Users: { POST "/users" => { struct Request {
			#[validate(range(max: 5, min: 1))]
			age: i32,
		} } } ]
	`)
	if !strings.Contains(err.Msg, "min") {
		t.Errorf("Msg = %q, want mention of %q", err.Msg, "min")
	}
}

func TestParseRangeDuplicateBounds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"min", "range(min: 1, min: 2)", "min"},
		{"max", "range(max: 1, max: 2)", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, `
				[ Users: { POST "/users" => { struct Request {
					#[validate(`+tt.src+`)]
					age: i32,
				} } } ]
			`)
			if err.Kind != rest.SemanticError {
				t.Errorf("Kind = %v, want %v", err.Kind, rest.SemanticError)
			}
			if !strings.Contains(err.Msg, tt.want) {
				t.Errorf("Msg = %q, want mention of %q", err.Msg, tt.want)
			}
		})
	}
}

func TestParseRangeUnknownSecondBound(t *testing.T) {
	err := parseErr(t, `
		[ Users: { POST "/users" => { struct Request {
			#[validate(range(max: 5, foo: 1))]
			age: i32,
		} } } ]
	`)
	if err.Kind != rest.SyntaxError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SyntaxError)
	}
	if !strings.Contains(err.Msg, `"foo"`) {
		t.Errorf("Msg = %q, want verbatim mention of %q", err.Msg, "foo")
	}
}

func TestParseValidateChainOrder(t *testing.T) {
	groups := parse(t, `
		[ Users: { POST "/users" => { struct Request {
			#[validate(required, email, regex = "^.+$", custom = "check_contact")]
			contact: String,
		} } } ]
	`)

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	actions := rec.Fields[0].Attrs[0].Chain.Actions
	kinds := []rest.ValidateActionKind{
		rest.ActionRequired, rest.ActionEmail, rest.ActionRegex, rest.ActionCustom,
	}
	if len(actions) != len(kinds) {
		t.Fatalf("len(actions) = %d, want %d", len(actions), len(kinds))
	}
	for i, kind := range kinds {
		if actions[i].Kind != kind {
			t.Errorf("actions[%d].Kind = %v, want %v", i, actions[i].Kind, kind)
		}
	}
	if actions[2].Pattern != "^.+$" {
		t.Errorf("regex pattern = %q, want %q", actions[2].Pattern, "^.+$")
	}
	if actions[3].Pattern != "check_contact" {
		t.Errorf("custom ref = %q, want %q", actions[3].Pattern, "check_contact")
	}
}

func TestParseValidateChainErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "#[validate()]"},
		{"trailing comma", "#[validate(required,)]"},
		{"unknown action", "#[validate(frobnicate)]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseErr(t, `
				[ Users: { POST "/users" => { struct Request {
					`+tt.src+`
					contact: String,
				} } } ]
			`)
		})
	}
}

func TestParseUnknownAttribute(t *testing.T) {
	err := parseErr(t, `
		[ Users: { POST "/users" => {
			#[frobnicate]
			struct Request { contact: String }
		} } ]
	`)
	if err.Kind != rest.SyntaxError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SyntaxError)
	}
	if !strings.Contains(err.Msg, `"frobnicate"`) {
		t.Errorf("Msg = %q, want verbatim mention of %q", err.Msg, "frobnicate")
	}
}

func TestParseRecordAttributes(t *testing.T) {
	groups := parse(t, `
		#[rename_all = "camelCase"]
		[ Users: { GET "/users" => {
			#[derive(Debug, Clone)]
			#[builder]
			#[async]
			struct Response {
				#[rename = "userId"]
				id: i32,
			}
		} } ]
	`)

	if len(groups[0].Attrs) != 1 || groups[0].Attrs[0].Kind != rest.AttrRenameAll {
		t.Fatalf("group attrs = %v, want one rename_all", groups[0].Attrs)
	}
	if groups[0].Attrs[0].Value != "camelCase" {
		t.Errorf("rename_all = %q, want %q", groups[0].Attrs[0].Value, "camelCase")
	}

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	kinds := []rest.RecordAttrKind{rest.AttrDerive, rest.AttrBuilder, rest.AttrAsync}
	if len(rec.Attrs) != len(kinds) {
		t.Fatalf("len(rec.Attrs) = %d, want %d", len(rec.Attrs), len(kinds))
	}
	for i, kind := range kinds {
		if rec.Attrs[i].Kind != kind {
			t.Errorf("rec.Attrs[%d].Kind = %v, want %v", i, rec.Attrs[i].Kind, kind)
		}
	}
	if got := rec.Attrs[0].Derives; len(got) != 2 || got[0] != "Debug" || got[1] != "Clone" {
		t.Errorf("Derives = %v, want [Debug Clone]", got)
	}

	field := rec.Fields[0]
	if len(field.Attrs) != 1 || field.Attrs[0].Kind != rest.AttrRename || field.Attrs[0].Value != "userId" {
		t.Errorf("field attrs = %v, want rename userId", field.Attrs)
	}
}

func TestParseLogAttr(t *testing.T) {
	groups := parse(t, `
		[ Users: { GET "/users" => {
			#[log(info = "found {id}", warn = "slow lookup")]
			struct Response { id: i32 }
		} } ]
	`)

	rec := groups[0].Methods[0].Types[0].(*rest.Record)
	logs := rec.Attrs[0].Logs
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[0].Level != rest.LogInfo || logs[0].Format != "found {id}" {
		t.Errorf("logs[0] = %+v, want info/found {id}", logs[0])
	}
	if logs[1].Level != rest.LogWarn {
		t.Errorf("logs[1].Level = %v, want warn", logs[1].Level)
	}
}

func TestParseVariantShapes(t *testing.T) {
	groups := parse(t, `
		[ Users: { GET "/users" => {
			struct Response { id: i32 }
			enum Status: {
				Active,
				Retired(String),
				Pending(?i64),
				Custom {
					reason: String,
					since: ?i64,
				},
			}
		} } ]
	`)

	set, ok := groups[0].Methods[0].Types[1].(*rest.VariantSet)
	if !ok {
		t.Fatalf("Types[1] type = %T, want *rest.VariantSet", groups[0].Methods[0].Types[1])
	}
	if set.Name != "Status" {
		t.Errorf("Name = %q, want %q", set.Name, "Status")
	}
	if len(set.Variants) != 4 {
		t.Fatalf("len(Variants) = %d, want 4", len(set.Variants))
	}

	if v := set.Variants[0]; v.Payload != rest.PayloadNone {
		t.Errorf("Active payload = %v, want none", v.Payload)
	}
	if v := set.Variants[1]; v.Payload != rest.PayloadTuple || v.TupleType != "String" || v.TupleOptional {
		t.Errorf("Retired = %+v, want tuple String", v)
	}
	if v := set.Variants[2]; v.Payload != rest.PayloadTuple || !v.TupleOptional {
		t.Errorf("Pending = %+v, want optional tuple", v)
	}
	v := set.Variants[3]
	if v.Payload != rest.PayloadStruct || len(v.Fields) != 2 {
		t.Fatalf("Custom = %+v, want struct payload with 2 fields", v)
	}
	if v.Fields[1].Name != "since" || !v.Fields[1].Optional {
		t.Errorf("Custom.Fields[1] = %+v, want optional since", v.Fields[1])
	}
}

func TestParseFieldAttrOnBareVariant(t *testing.T) {
	err := parseErr(t, `
		[ Users: { GET "/users" => {
			struct Response { id: i32 }
			enum Status: {
				#[skip_if = "is_zero"]
				Active,
				Retired(String),
			}
		} } ]
	`)
	if err.Kind != rest.SemanticError {
		t.Errorf("Kind = %v, want %v", err.Kind, rest.SemanticError)
	}
	// The reported position is the attribute's own # marker.
	if err.Pos.Line != 5 {
		t.Errorf("Pos.Line = %d, want 5", err.Pos.Line)
	}
}

func TestParseFieldAttrOnStructVariantFields(t *testing.T) {
	// Inside a struct-shaped variant the same attribute is legal.
	parse(t, `
		[ Users: { GET "/users" => {
			struct Response { id: i32 }
			enum Status: {
				Active,
				Custom {
					#[skip_if = "is_zero"]
					reason: ?String,
				},
			}
		} } ]
	`)
}

func TestParseTypeRefForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"i32", "i32"},
		{"Vec<String>", "Vec<String>"},
		{"Option<i64>", "Option<i64>"},
		{"HashMap<String, i32>", "HashMap<String, i32>"},
		{"Vec<HashMap<String, Vec<i32>>>", "Vec<HashMap<String, Vec<i32>>>"},
		{"std::collections::HashMap<String, i32>", "std::collections::HashMap<String, i32>"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			groups := parse(t, `
				[ Users: { GET "/users" => { struct Response {
					value: `+tt.src+`,
				} } } ]
			`)
			rec := groups[0].Methods[0].Types[0].(*rest.Record)
			if got := rec.Fields[0].Type; got != tt.want {
				t.Errorf("Type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDeclarationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty declaration", ""},
		{"trailing group comma", `[ Users: { GET "/u" => { struct Response { id: i32 } } } ],`},
		{"missing group comma", `[ Users: { GET "/u" => { struct Response { id: i32 } } } ] [ Orders: { GET "/o" => { struct Response { id: i32 } } } ]`},
		{"empty group", `[ Users: { } ]`},
		{"empty method", `[ Users: { GET "/u" => { } } ]`},
		{"empty variant set", `[ Users: { GET "/u" => { enum Status: { } } } ]`},
		{"unclosed group", `[ Users: { GET "/u" => { struct Response { id: i32 } } }`},
		{"missing fat arrow", `[ Users: { GET "/u" { struct Response { id: i32 } } } ]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseErr(t, tt.src)
		})
	}
}

// formatDeclaration renders parsed groups back into declaration grammar, so
// a parse can be checked for stability under a serialize/re-parse cycle.
func formatDeclaration(groups []*rest.EndpointGroup) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString(",\n")
		}
		for _, a := range g.Attrs {
			fmt.Fprintf(&b, "%s\n", a)
		}
		b.WriteString("[ ")
		if g.Vis == rest.VisPublic {
			b.WriteString("pub ")
		}
		fmt.Fprintf(&b, "%s: {\n", g.Name)
		for _, m := range g.Methods {
			fmt.Fprintf(&b, "%s %q => {\n", m.Verb, m.URI)
			for _, dt := range m.Types {
				formatDataType(&b, dt)
			}
			b.WriteString("}\n")
		}
		b.WriteString("} ]")
	}
	return b.String()
}

func formatDataType(b *strings.Builder, dt rest.DataType) {
	switch t := dt.(type) {
	case *rest.Record:
		for _, a := range t.Attrs {
			fmt.Fprintf(b, "%s\n", a)
		}
		fmt.Fprintf(b, "struct %s<%s> {\n", t.Name, t.Role)
		for _, f := range t.Fields {
			formatField(b, f)
		}
		b.WriteString("}\n")
	case *rest.VariantSet:
		for _, a := range t.Attrs {
			fmt.Fprintf(b, "%s\n", a)
		}
		fmt.Fprintf(b, "enum %s: {\n", t.Name)
		for _, v := range t.Variants {
			for _, a := range v.Attrs {
				fmt.Fprintf(b, "%s\n", a)
			}
			switch v.Payload {
			case rest.PayloadTuple:
				opt := ""
				if v.TupleOptional {
					opt = "?"
				}
				fmt.Fprintf(b, "%s(%s%s),\n", v.Name, opt, v.TupleType)
			case rest.PayloadStruct:
				fmt.Fprintf(b, "%s {\n", v.Name)
				for _, f := range v.Fields {
					formatField(b, f)
				}
				b.WriteString("},\n")
			default:
				fmt.Fprintf(b, "%s,\n", v.Name)
			}
		}
		b.WriteString("}\n")
	}
}

func formatField(b *strings.Builder, f *rest.Field) {
	for _, a := range f.Attrs {
		fmt.Fprintf(b, "%s\n", a)
	}
	opt := ""
	if f.Optional {
		opt = "?"
	}
	fmt.Fprintf(b, "%s: %s%s,\n", f.Name, opt, f.Type)
}

func TestParseFormatRoundTrip(t *testing.T) {
	src := `
		#[rename_all = "camelCase"]
		[ pub Users: {
			GET "/users/{id}" => {
				struct Query {
					id: i32,
					#[rename = "pageSize"]
					page: ?i32,
				}
				#[derive(Debug)]
				#[log(info = "found {id}")]
				struct Response {
					#[validate(required, range(min: 1, max: 99), regex = "^.+$")]
					id: i64,
					#[default = "default_name"]
					name: ?String,
				}
				enum Status: {
					Active,
					Retired(?String),
					Custom {
						reason: String,
						since: ?i64,
					},
				}
			}
		} ]
	`
	first := parse(t, src)
	second := parse(t, formatDeclaration(first))

	if got, want := formatDeclaration(second), formatDeclaration(first); got != want {
		t.Errorf("re-parsed declaration diverges:\ngot:\n%s\nwant:\n%s", got, want)
	}

	query := second[0].Methods[0].Types[0].(*rest.Record)
	if query.Fields[0].Optional {
		t.Error("Query.id gained an optional flag")
	}
	if !query.Fields[1].Optional {
		t.Error("Query.page lost its optional flag")
	}
	resp := second[0].Methods[0].Types[1].(*rest.Record)
	if !resp.Fields[1].Optional {
		t.Error("Response.name lost its optional flag")
	}
	if len(resp.Fields[0].Attrs) != 1 || resp.Fields[0].Attrs[0].Kind != rest.AttrFieldValidate {
		t.Errorf("Response.id attrs = %v, want one validate", resp.Fields[0].Attrs)
	}
	if actions := resp.Fields[0].Attrs[0].Chain.Actions; len(actions) != 3 {
		t.Errorf("len(actions) = %d, want 3", len(actions))
	}
	set := second[0].Methods[0].Types[2].(*rest.VariantSet)
	if !set.Variants[1].TupleOptional {
		t.Error("Retired payload lost its optional flag")
	}
	if !set.Variants[2].Fields[1].Optional {
		t.Error("Custom.since lost its optional flag")
	}
}

func TestParseErrorPositions(t *testing.T) {
	err := parseErr(t, "[ Users: {\n  FETCH \"/users\" => { struct Response { id: i32 } }\n} ]")
	if err.Pos.Line != 2 {
		t.Errorf("Pos.Line = %d, want 2", err.Pos.Line)
	}
	if err.Pos.Column != 3 {
		t.Errorf("Pos.Column = %d, want 3", err.Pos.Column)
	}
	if err.Pos.File != "test.rest" {
		t.Errorf("Pos.File = %q, want %q", err.Pos.File, "test.rest")
	}
}

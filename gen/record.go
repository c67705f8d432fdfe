package gen

import (
	"github.com/restify-go/restify/rest"
)

func genRecord(buf *fileBuffer, group *rest.EndpointGroup, method *rest.EndpointMethod, rec *rest.Record) error {
	name := typeName(method.Verb, rec.Name)
	compiled := rest.CompileRecordAttrs(rec.Attrs)
	renameAll := effectiveRenameAll(group.Attrs, rec.Attrs)

	buf.printf("// %s is the %s payload of %s %q in %s.\n", name, rec.Role, method.Verb, method.URI, group.Name)
	for _, meta := range compiled.Metadata {
		switch meta.Kind {
		case rest.AttrDerive:
			buf.printf("// derive: %s\n", joinIdents(meta.Derives))
		case rest.AttrRemote:
			buf.printf("// remote: %s\n", meta.Value)
		case rest.AttrGetter:
			buf.printf("// getter: %s\n", meta.Value)
		}
	}
	buf.printf("type %s struct {\n", name)
	for _, field := range rec.Fields {
		if err := genStructField(buf, rec, field, renameAll); err != nil {
			return err
		}
	}
	buf.printf("}\n\n")

	genRoleHelpers(buf, name, rec, renameAll)
	return genCommands(buf, name, rec, compiled)
}

// effectiveRenameAll resolves the wire casing pattern: a record-level
// rename_all overrides the group-level one.
func effectiveRenameAll(groupAttrs, recordAttrs []rest.RecordAttr) string {
	renameAll := ""
	for _, a := range groupAttrs {
		if a.Kind == rest.AttrRenameAll {
			renameAll = a.Value
		}
	}
	for _, a := range recordAttrs {
		if a.Kind == rest.AttrRenameAll {
			renameAll = a.Value
		}
	}
	return renameAll
}

func genStructField(buf *fileBuffer, rec *rest.Record, field *rest.Field, renameAll string) error {
	compiled := rest.CompileFieldAttrs(field.Attrs)
	flatten := false
	for _, meta := range compiled.Metadata {
		switch meta.Kind {
		case rest.AttrSerializeWith, rest.AttrDeserializeWith:
			// Declared in the attribute grammar but with no synthesis target.
			return rest.Semanticf(meta.Pos, "attribute %q on field %q has no synthesis target", meta.Kind, field.Name)
		case rest.AttrFlatten:
			flatten = true
		case rest.AttrBorrow:
			buf.printf("\t// borrow: %s\n", field.Name)
		case rest.AttrBound:
			buf.printf("\t// bound: %s\n", meta.Value)
		}
	}

	if flatten {
		// Flattened members embed their type so their own members inline.
		buf.printf("\t%s\n", goType(field.Type))
		return nil
	}

	tag := wireName(field, renameAll)
	if field.Optional && rec.Role.Serializes() {
		tag += ",omitempty"
	}
	buf.printf("\t%s %s `json:%q`\n", goFieldName(field.Name), fieldGoType(field), tag)
	return nil
}

func genRoleHelpers(buf *fileBuffer, name string, rec *rest.Record, renameAll string) {
	switch rec.Role {
	case rest.RoleQuery:
		genPairHelper(buf, name, rec, renameAll, "Values", "url.Values", "net/url")
	case rest.RoleHeader:
		genPairHelper(buf, name, rec, renameAll, "Header", "http.Header", "net/http")
	case rest.RoleRequest:
		genEncodeBody(buf, name)
	case rest.RoleResponse:
		genDecodeBody(buf, name, rec)
	case rest.RoleReqRes:
		genEncodeBody(buf, name)
		genDecodeBody(buf, name, rec)
	}
}

// genPairHelper emits the key/value view shared by the Query and Header
// roles.
func genPairHelper(buf *fileBuffer, name string, rec *rest.Record, renameAll, method, kind, importPath string) {
	buf.addImport(importPath)
	buf.helpers["vString"] = true

	buf.printf("// %s renders %s as %s.\n", method, name, kind)
	buf.printf("func (x %s) %s() %s {\n", name, method, kind)
	buf.printf("\tout := %s{}\n", kind)
	for _, field := range rec.Fields {
		if hasFlatten(field) {
			continue
		}
		wire := wireName(field, renameAll)
		goName := goFieldName(field.Name)
		skipIf := skipCondition(field)

		indent := "\t"
		if field.Optional {
			buf.printf("\tif x.%s != nil {\n", goName)
			indent = "\t\t"
		}
		if skipIf != "" {
			buf.printf("%sif !%s(x.%s) {\n", indent, skipIf, goName)
			indent += "\t"
		}
		buf.printf("%sout.Set(%q, vString(x.%s))\n", indent, wire, goName)
		if skipIf != "" {
			indent = indent[:len(indent)-1]
			buf.printf("%s}\n", indent)
		}
		if field.Optional {
			buf.printf("\t}\n")
		}
	}
	buf.printf("\treturn out\n")
	buf.printf("}\n\n")
}

func genEncodeBody(buf *fileBuffer, name string) {
	buf.addImport("encoding/json")
	buf.printf("// EncodeBody serializes %s as a JSON request body.\n", name)
	buf.printf("func (x %s) EncodeBody() ([]byte, error) {\n", name)
	buf.printf("\treturn json.Marshal(x)\n")
	buf.printf("}\n\n")
}

func genDecodeBody(buf *fileBuffer, name string, rec *rest.Record) {
	buf.addImport("encoding/json")
	buf.addImport("io")
	buf.printf("// Decode%s deserializes a JSON response body.\n", name)
	buf.printf("func Decode%s(r io.Reader) (*%s, error) {\n", name, name)
	buf.printf("\tvar x %s\n", name)
	buf.printf("\tif err := json.NewDecoder(r).Decode(&x); err != nil {\n")
	buf.printf("\t\treturn nil, err\n")
	buf.printf("\t}\n")
	for _, field := range rec.Fields {
		fill := defaultFill(field)
		if fill == "" || !field.Optional {
			continue
		}
		goName := goFieldName(field.Name)
		buf.printf("\tif x.%s == nil {\n", goName)
		buf.printf("\t\tv := %s()\n", fill)
		buf.printf("\t\tx.%s = &v\n", goName)
		buf.printf("\t}\n")
	}
	buf.printf("\treturn &x, nil\n")
	buf.printf("}\n\n")
}

func hasFlatten(field *rest.Field) bool {
	for _, a := range field.Attrs {
		if a.Kind == rest.AttrFlatten {
			return true
		}
	}
	return false
}

func skipCondition(field *rest.Field) string {
	for _, a := range field.Attrs {
		if a.Kind == rest.AttrSkipIf {
			return a.Value
		}
	}
	return ""
}

func defaultFill(field *rest.Field) string {
	for _, a := range field.Attrs {
		if a.Kind == rest.AttrDefault && a.HasValue {
			return a.Value
		}
	}
	return ""
}

func joinIdents(idents []string) string {
	out := ""
	for i, ident := range idents {
		if i > 0 {
			out += ", "
		}
		out += ident
	}
	return out
}

// genCommands resolves every generation command attached to the record or
// its fields and renders the resulting directives. Validation checks from
// the record chain and all field chains merge into a single routine, record
// checks first, fields in declaration order.
func genCommands(buf *fileBuffer, name string, rec *rest.Record, compiled rest.CompiledRecordAttrs) error {
	var checks []rest.ValidateCheck

	for _, cmd := range compiled.Commands {
		directive, err := rest.ResolveRecordCommand(cmd, rec)
		if err != nil {
			return err
		}
		switch d := directive.(type) {
		case rest.BuilderDirective:
			renderBuilder(buf, name, d)
		case rest.ValidateDirective:
			checks = append(checks, d.Checks...)
		case rest.LogDirective:
			renderLog(buf, name, "", d, rec.Fields)
		}
	}

	for _, field := range rec.Fields {
		fieldCompiled := rest.CompileFieldAttrs(field.Attrs)
		for _, cmd := range fieldCompiled.Commands {
			directive, err := rest.ResolveFieldCommand(cmd, name, field)
			if err != nil {
				return err
			}
			switch d := directive.(type) {
			case rest.ValidateDirective:
				checks = append(checks, d.Checks...)
			case rest.LogDirective:
				renderLog(buf, name, field.Name, d, rec.Fields)
			}
		}
	}

	if len(checks) > 0 {
		renderValidate(buf, name, checks)
	}
	return nil
}

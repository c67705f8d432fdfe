package gen

import (
	"github.com/iancoleman/strcase"

	"github.com/restify-go/restify/rest"
)

// genVariantSet emits a variant set as a tagged union: a Kind discriminant
// plus one optional payload field per payload-carrying variant. Variant sets
// are shared shapes, so unlike records their names carry no verb prefix.
func genVariantSet(buf *fileBuffer, group *rest.EndpointGroup, set *rest.VariantSet) error {
	name := strcase.ToCamel(set.Name)
	compiled := rest.CompileRecordAttrs(set.Attrs)
	renameAll := effectiveRenameAll(group.Attrs, set.Attrs)

	buf.printf("// %sKind discriminates the variants of %s.\n", name, name)
	buf.printf("type %sKind string\n\n", name)
	buf.printf("const (\n")
	for _, v := range set.Variants {
		buf.printf("\t%sKind%s %sKind = %q\n", name, goFieldName(v.Name), name, variantWireName(v, renameAll))
	}
	buf.printf(")\n\n")

	for _, v := range set.Variants {
		if v.Payload != rest.PayloadStruct {
			continue
		}
		buf.printf("// %s%s is the payload of the %s variant.\n", name, goFieldName(v.Name), v.Name)
		buf.printf("type %s%s struct {\n", name, goFieldName(v.Name))
		carrier := &rest.Record{Name: set.Name, Attrs: set.Attrs, Role: rest.RoleNone}
		for _, field := range v.Fields {
			if err := genStructField(buf, carrier, field, renameAll); err != nil {
				return err
			}
		}
		buf.printf("}\n\n")
	}

	buf.printf("// %s is the %s variant set declared in %s.\n", name, set.Name, group.Name)
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
	buf.printf("\tKind %sKind `json:\"kind\"`\n", name)
	for _, v := range set.Variants {
		goName := goFieldName(v.Name)
		tag := variantWireName(v, renameAll) + ",omitempty"
		switch v.Payload {
		case rest.PayloadTuple:
			buf.printf("\t%s *%s `json:%q`\n", goName, goType(v.TupleType), tag)
		case rest.PayloadStruct:
			buf.printf("\t%s *%s%s `json:%q`\n", goName, name, goName, tag)
		}
	}
	buf.printf("}\n\n")

	return genVariantSetCommands(buf, name, set, compiled)
}

func variantWireName(v *rest.Variant, renameAll string) string {
	for _, a := range v.Attrs {
		if a.Kind == rest.AttrRename {
			return a.Value
		}
	}
	return applyCasing(v.Name, renameAll)
}

// genVariantSetCommands handles generation commands on the set itself and on
// individual variants. Builder has no meaning for a tagged union, so it
// resolves to a loud error just like async.
func genVariantSetCommands(buf *fileBuffer, name string, set *rest.VariantSet, compiled rest.CompiledRecordAttrs) error {
	var checks []rest.ValidateCheck

	for _, cmd := range compiled.Commands {
		switch cmd.Kind {
		case rest.CmdValidate:
			for _, a := range cmd.Chain.Actions {
				checks = append(checks, rest.ValidateCheck{Action: a})
			}
		case rest.CmdLog:
			renderLog(buf, name, "", rest.LogDirective{TypeName: set.Name, Calls: cmd.Logs}, nil)
		case rest.CmdBuilder, rest.CmdAsync:
			return rest.Semanticf(cmd.Pos, "command %q cannot be resolved for a variant set", cmd.Kind)
		}
	}

	for _, v := range set.Variants {
		variantCompiled := rest.CompileFieldAttrs(v.Attrs)
		for _, cmd := range variantCompiled.Commands {
			switch cmd.Kind {
			case rest.CmdValidate:
				if v.Payload == rest.PayloadNone {
					return rest.Semanticf(cmd.Pos, "variant %q has no payload to validate", v.Name)
				}
				for _, a := range cmd.Chain.Actions {
					checks = append(checks, rest.ValidateCheck{Field: v.Name, Action: a})
				}
			case rest.CmdLog:
				renderLog(buf, name, v.Name, rest.LogDirective{TypeName: set.Name, Field: v.Name, Calls: cmd.Logs}, nil)
			}
		}
	}

	if len(checks) > 0 {
		renderValidate(buf, name, checks)
	}
	return nil
}

package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/restify-go/restify/rest"
)

// renderBuilder emits one copy-and-mutate method per field. Mutators take
// the bare type even for optional fields and address it on assignment.
func renderBuilder(buf *fileBuffer, name string, d rest.BuilderDirective) {
	for _, f := range d.Fields {
		goName := goFieldName(f.Name)
		buf.printf("// With%s returns a copy of %s with %s set.\n", goName, name, f.Name)
		buf.printf("func (x %s) With%s(v %s) %s {\n", name, goName, goType(f.Type), name)
		if f.Optional {
			buf.printf("\tx.%s = &v\n", goName)
		} else {
			buf.printf("\tx.%s = v\n", goName)
		}
		buf.printf("\treturn x\n")
		buf.printf("}\n\n")
	}
}

// renderValidate emits the Validate method: every check in order, first
// failure wins. Record-level checks apply to the whole value.
func renderValidate(buf *fileBuffer, name string, checks []rest.ValidateCheck) {
	buf.addImport("fmt")

	patterns := make([]string, len(checks))
	usedVars := make(map[string]bool)
	for i, check := range checks {
		switch check.Action.Kind {
		case rest.ActionEmail:
			buf.helpers["emailPattern"] = true
		case rest.ActionRegex:
			buf.addImport("regexp")
			varName := patternVar(name, check.Field, usedVars)
			patterns[i] = varName
			buf.printf("var %s = regexp.MustCompile(%q)\n\n", varName, check.Action.Pattern)
		}
	}

	buf.printf("// Validate runs the declared validation chain for %s.\n", name)
	buf.printf("func (x %s) Validate() error {\n", name)
	for i, check := range checks {
		target := "x"
		label := name
		if check.Field != "" {
			target = "x." + goFieldName(check.Field)
			label = name + "." + check.Field
		}
		switch check.Action.Kind {
		case rest.ActionRequired:
			buf.helpers["vIsZero"] = true
			buf.printf("\tif vIsZero(%s) {\n", target)
			buf.printf("\t\treturn fmt.Errorf(%q)\n", label+": required value is missing")
			buf.printf("\t}\n")
		case rest.ActionEmail:
			buf.helpers["vString"] = true
			buf.printf("\tif !emailPattern.MatchString(vString(%s)) {\n", target)
			buf.printf("\t\treturn fmt.Errorf(%q)\n", label+": not a valid email address")
			buf.printf("\t}\n")
		case rest.ActionRange:
			buf.helpers["vNumber"] = true
			if check.Action.Min != nil {
				buf.printf("\tif v, ok := vNumber(%s); ok && v < %d {\n", target, *check.Action.Min)
				buf.printf("\t\treturn fmt.Errorf(%q)\n", fmt.Sprintf("%s: value below minimum %d", label, *check.Action.Min))
				buf.printf("\t}\n")
			}
			if check.Action.Max != nil {
				buf.printf("\tif v, ok := vNumber(%s); ok && v > %d {\n", target, *check.Action.Max)
				buf.printf("\t\treturn fmt.Errorf(%q)\n", fmt.Sprintf("%s: value above maximum %d", label, *check.Action.Max))
				buf.printf("\t}\n")
			}
		case rest.ActionRegex:
			buf.helpers["vString"] = true
			buf.printf("\tif !%s.MatchString(vString(%s)) {\n", patterns[i], target)
			buf.printf("\t\treturn fmt.Errorf(%q)\n", fmt.Sprintf("%s: does not match %s", label, check.Action.Pattern))
			buf.printf("\t}\n")
		case rest.ActionCustom:
			buf.printf("\tif err := %s(%s); err != nil {\n", check.Action.Pattern, target)
			buf.printf("\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", label)
			buf.printf("\t}\n")
		}
	}
	buf.printf("\treturn nil\n")
	buf.printf("}\n\n")
}

func patternVar(name, field string, used map[string]bool) string {
	base := strcase.ToLowerCamel(name)
	if field != "" {
		base += strcase.ToCamel(field)
	}
	base += "Pattern"
	varName := base
	for i := 2; used[varName]; i++ {
		varName = fmt.Sprintf("%s%d", base, i)
	}
	used[varName] = true
	return varName
}

// renderLog emits one log method per directive. Record-level directives get
// Log, field-level ones Log<Field>. {member} placeholders in the template
// become %v verbs bound to the matching struct field.
func renderLog(buf *fileBuffer, name, field string, d rest.LogDirective, fields []*rest.Field) {
	buf.addImport("log")

	method := "Log"
	if field != "" {
		method += goFieldName(field)
	}
	buf.printf("// %s writes the configured log lines for %s.\n", method, name)
	buf.printf("func (x %s) %s() {\n", name, method)
	for _, call := range d.Calls {
		format, args := expandPlaceholders(call.Format, fields)
		buf.printf("\tlog.Printf(%q", fmt.Sprintf("[%s] %s", call.Level, format))
		for _, arg := range args {
			buf.printf(", x.%s", arg)
		}
		buf.printf(")\n")
	}
	buf.printf("}\n\n")
}

// expandPlaceholders rewrites {member} references as %v verbs, returning
// the Go field names to bind. Braces naming no declared member pass through
// untouched.
func expandPlaceholders(template string, fields []*rest.Field) (string, []string) {
	var out strings.Builder
	var args []string
	for i := 0; i < len(template); {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			out.WriteString(template[i:])
			break
		}
		open += i
		closing := strings.IndexByte(template[open:], '}')
		if closing < 0 {
			out.WriteString(template[i:])
			break
		}
		closing += open
		member := template[open+1 : closing]
		if fieldByName(fields, member) == nil {
			out.WriteString(template[i : closing+1])
		} else {
			out.WriteString(template[i:open])
			out.WriteString("%v")
			args = append(args, goFieldName(member))
		}
		i = closing + 1
	}
	return out.String(), args
}

func fieldByName(fields []*rest.Field, name string) *rest.Field {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// genHelpers appends the reflect-based value helpers the emitted methods
// call. Each helper appears once per file regardless of how many methods
// use it.
func genHelpers(buf *fileBuffer) {
	names := make([]string, 0, len(buf.helpers))
	for name := range buf.helpers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch name {
		case "emailPattern":
			buf.addImport("regexp")
			buf.printf("var emailPattern = regexp.MustCompile(%q)\n\n", `^[^@\s]+@[^@\s]+\.[^@\s]+$`)
		case "vIsZero":
			buf.addImport("reflect")
			buf.printf("// vIsZero reports whether a possibly-pointer value is unset.\n")
			buf.printf("func vIsZero(v any) bool {\n")
			buf.printf("\trv := reflect.ValueOf(v)\n")
			buf.printf("\tfor rv.Kind() == reflect.Pointer {\n")
			buf.printf("\t\tif rv.IsNil() {\n\t\t\treturn true\n\t\t}\n")
			buf.printf("\t\trv = rv.Elem()\n")
			buf.printf("\t}\n")
			buf.printf("\treturn rv.IsZero()\n")
			buf.printf("}\n\n")
		case "vNumber":
			buf.addImport("reflect")
			buf.printf("// vNumber extracts a possibly-pointer numeric value.\n")
			buf.printf("func vNumber(v any) (float64, bool) {\n")
			buf.printf("\trv := reflect.ValueOf(v)\n")
			buf.printf("\tfor rv.Kind() == reflect.Pointer {\n")
			buf.printf("\t\tif rv.IsNil() {\n\t\t\treturn 0, false\n\t\t}\n")
			buf.printf("\t\trv = rv.Elem()\n")
			buf.printf("\t}\n")
			buf.printf("\tswitch rv.Kind() {\n")
			buf.printf("\tcase reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:\n")
			buf.printf("\t\treturn float64(rv.Int()), true\n")
			buf.printf("\tcase reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:\n")
			buf.printf("\t\treturn float64(rv.Uint()), true\n")
			buf.printf("\tcase reflect.Float32, reflect.Float64:\n")
			buf.printf("\t\treturn rv.Float(), true\n")
			buf.printf("\t}\n")
			buf.printf("\treturn 0, false\n")
			buf.printf("}\n\n")
		case "vString":
			buf.addImport("fmt")
			buf.addImport("reflect")
			buf.printf("// vString renders a possibly-pointer value for the wire.\n")
			buf.printf("func vString(v any) string {\n")
			buf.printf("\trv := reflect.ValueOf(v)\n")
			buf.printf("\tfor rv.Kind() == reflect.Pointer {\n")
			buf.printf("\t\tif rv.IsNil() {\n\t\t\treturn \"\"\n\t\t}\n")
			buf.printf("\t\trv = rv.Elem()\n")
			buf.printf("\t}\n")
			buf.printf("\treturn fmt.Sprint(rv.Interface())\n")
			buf.printf("}\n\n")
		}
	}
}

package gen

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/restify-go/restify/rest"
)

// typeName builds the generated Go type name for a record, prefixing the
// owning verb so that GET and POST shapes of the same component do not
// collide: GET + Query -> GetQuery.
func typeName(verb, name string) string {
	return strcase.ToCamel(strings.ToLower(verb)) + strcase.ToCamel(name)
}

// goFieldName maps a declared member name onto an exported Go field.
func goFieldName(name string) string {
	return strcase.ToCamel(name)
}

// wireName is the serialized name of a field: an explicit rename wins,
// otherwise the record's rename_all pattern is applied, otherwise the
// declared name passes through.
func wireName(field *rest.Field, renameAll string) string {
	for _, a := range field.Attrs {
		if a.Kind == rest.AttrRename {
			return a.Value
		}
	}
	return applyCasing(field.Name, renameAll)
}

func applyCasing(name, pattern string) string {
	switch pattern {
	case "camelCase":
		return strcase.ToLowerCamel(name)
	case "PascalCase":
		return strcase.ToCamel(name)
	case "snake_case":
		return strcase.ToSnake(name)
	case "SCREAMING_SNAKE_CASE":
		return strcase.ToScreamingSnake(name)
	case "kebab-case":
		return strcase.ToKebab(name)
	}
	return name
}

// primitiveTypes maps declaration type symbols onto Go types. Unrecognized
// symbols pass through untouched: the declaration core treats them as opaque
// and so does the emitter.
var primitiveTypes = map[string]string{
	"i8":     "int8",
	"i16":    "int16",
	"i32":    "int32",
	"i64":    "int64",
	"u8":     "uint8",
	"u16":    "uint16",
	"u32":    "uint32",
	"u64":    "uint64",
	"f32":    "float32",
	"f64":    "float64",
	"bool":   "bool",
	"String": "string",
	"str":    "string",
}

// goType renders an opaque declaration type reference as a Go type.
func goType(ref string) string {
	if mapped, ok := primitiveTypes[ref]; ok {
		return mapped
	}
	if inner, ok := genericArg(ref, "Vec"); ok {
		return "[]" + goType(inner)
	}
	if inner, ok := genericArg(ref, "Option"); ok {
		return "*" + goType(inner)
	}
	if inner, ok := genericArg(ref, "HashMap"); ok {
		if key, value, ok := splitTwo(inner); ok {
			return "map[" + goType(key) + "]" + goType(value)
		}
	}
	// Qualified references keep only their final segment.
	if i := strings.LastIndex(ref, "::"); i >= 0 {
		return goType(ref[i+2:])
	}
	return strcase.ToCamel(ref)
}

func genericArg(ref, wrapper string) (string, bool) {
	prefix := wrapper + "<"
	if strings.HasPrefix(ref, prefix) && strings.HasSuffix(ref, ">") {
		return ref[len(prefix) : len(ref)-1], true
	}
	return "", false
}

func splitTwo(args string) (string, string, bool) {
	depth := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(args[:i]), strings.TrimSpace(args[i+1:]), true
			}
		}
	}
	return "", "", false
}

// fieldGoType is the declared field type plus the pointer wrapper optional
// fields get.
func fieldGoType(field *rest.Field) string {
	t := goType(field.Type)
	if field.Optional {
		return "*" + t
	}
	return t
}

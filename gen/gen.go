// Package gen emits Go data-transfer-object source from a parsed
// declaration. The parser and attribute compiler decide WHAT to generate;
// everything here is string templating over the resolved model.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/restify-go/restify/rest"
)

// Options configure one generation run.
type Options struct {
	// Package is the package clause of every generated file.
	Package string
}

// File is one generated output file.
type File struct {
	Name    string
	Content []byte
}

// Generate emits one Go file per endpoint group.
func Generate(groups []*rest.EndpointGroup, opts Options) ([]File, error) {
	if opts.Package == "" {
		opts.Package = "api"
	}
	var files []File
	for _, group := range groups {
		content, err := generateGroup(group, opts)
		if err != nil {
			return nil, fmt.Errorf("generate group %s: %w", group.Name, err)
		}
		files = append(files, File{
			Name:    strcase.ToSnake(group.Name) + ".go",
			Content: content,
		})
	}
	return files, nil
}

// fileBuffer accumulates declarations and the import set they need.
type fileBuffer struct {
	body    bytes.Buffer
	imports map[string]bool
	helpers map[string]bool
}

func newFileBuffer() *fileBuffer {
	return &fileBuffer{
		imports: make(map[string]bool),
		helpers: make(map[string]bool),
	}
}

func (b *fileBuffer) addImport(path string) {
	b.imports[path] = true
}

func (b *fileBuffer) printf(format string, args ...any) {
	fmt.Fprintf(&b.body, format, args...)
}

func generateGroup(group *rest.EndpointGroup, opts Options) ([]byte, error) {
	buf := newFileBuffer()

	// Group attributes carry metadata only; a generation command has no
	// synthesis target at group scope.
	compiled := rest.CompileRecordAttrs(group.Attrs)
	if len(compiled.Commands) > 0 {
		cmd := compiled.Commands[0]
		return nil, rest.Semanticf(cmd.Pos, "command %q cannot be resolved for an endpoint group", cmd.Kind)
	}

	for _, method := range group.Methods {
		for _, dt := range method.Types {
			switch t := dt.(type) {
			case *rest.Record:
				if err := genRecord(buf, group, method, t); err != nil {
					return nil, err
				}
			case *rest.VariantSet:
				if err := genVariantSet(buf, group, t); err != nil {
					return nil, err
				}
			}
		}
	}
	genHelpers(buf)

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by restify from the %s declaration. DO NOT EDIT.\n\n", group.Name)
	fmt.Fprintf(&out, "package %s\n\n", opts.Package)
	if len(buf.imports) > 0 {
		paths := make([]string, 0, len(buf.imports))
		for path := range buf.imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		out.WriteString("import (\n")
		for _, path := range paths {
			fmt.Fprintf(&out, "\t%q\n", path)
		}
		out.WriteString(")\n\n")
	}
	out.Write(buf.body.Bytes())

	formatted, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format output: %w", err)
	}
	return formatted, nil
}

package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/restify-go/restify/rest"
	"github.com/restify-go/restify/rest/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a declaration file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read declaration: %w", err)
			}

			groups, err := parser.ParseDeclaration(data, parser.WithFile(filename))
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			case "text":
				dumpGroups(os.Stdout, groups)
				return nil
			}
			return fmt.Errorf("unknown format: %s", outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, text)")

	return cmd
}

func dumpGroups(w io.Writer, groups []*rest.EndpointGroup) {
	for _, group := range groups {
		for _, attr := range group.Attrs {
			fmt.Fprintf(w, "%s\n", attr)
		}
		if group.Vis == rest.VisPublic {
			fmt.Fprintf(w, "pub ")
		}
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, method := range group.Methods {
			fmt.Fprintf(w, "  %s %q\n", method.Verb, method.URI)
			for _, dt := range method.Types {
				dumpDataType(w, dt)
			}
		}
	}
}

func dumpDataType(w io.Writer, dt rest.DataType) {
	switch t := dt.(type) {
	case *rest.Record:
		for _, attr := range t.Attrs {
			fmt.Fprintf(w, "    %s\n", attr)
		}
		fmt.Fprintf(w, "    struct %s<%s>\n", t.Name, t.Role)
		for _, field := range t.Fields {
			dumpField(w, field, "      ")
		}
	case *rest.VariantSet:
		for _, attr := range t.Attrs {
			fmt.Fprintf(w, "    %s\n", attr)
		}
		fmt.Fprintf(w, "    enum %s\n", t.Name)
		for _, v := range t.Variants {
			for _, attr := range v.Attrs {
				fmt.Fprintf(w, "      %s\n", attr)
			}
			switch v.Payload {
			case rest.PayloadTuple:
				optional := ""
				if v.TupleOptional {
					optional = "?"
				}
				fmt.Fprintf(w, "      %s(%s%s)\n", v.Name, optional, v.TupleType)
			case rest.PayloadStruct:
				fmt.Fprintf(w, "      %s {\n", v.Name)
				for _, field := range v.Fields {
					dumpField(w, field, "        ")
				}
				fmt.Fprintf(w, "      }\n")
			default:
				fmt.Fprintf(w, "      %s\n", v.Name)
			}
		}
	}
}

func dumpField(w io.Writer, field *rest.Field, indent string) {
	for _, attr := range field.Attrs {
		fmt.Fprintf(w, "%s%s\n", indent, attr)
	}
	optional := ""
	if field.Optional {
		optional = "?"
	}
	fmt.Fprintf(w, "%s%s: %s%s\n", indent, field.Name, optional, field.Type)
}

package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/restify-go/restify/project"
)

//go:embed init/restify.yaml.tmpl
var configTemplate string

//go:embed init/example.rest
var exampleDeclaration string

func newInitCmd() *cobra.Command {
	var pkgName string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new restify project",
		Long: `Initialize a new restify project.

If a directory is provided, creates it and initializes the project there.
Otherwise, initializes in the current directory.

This command:
  - Creates restify.yaml with the generation defaults
  - Creates an example declaration under decls/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, pkgName)
		},
	}

	cmd.Flags().StringVarP(&pkgName, "package", "p", "api", "package clause of generated files")

	return cmd
}

func runInit(dir, pkgName string) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		fmt.Printf("Created %s/\n", dir)
	}

	configPath := filepath.Join(dir, project.ConfigFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		content := strings.ReplaceAll(configTemplate, "{{PACKAGE}}", pkgName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("create %s: %w", project.ConfigFile, err)
		}
		fmt.Printf("Created %s\n", project.ConfigFile)
	} else {
		fmt.Printf("%s already exists\n", project.ConfigFile)
	}

	declsPath := filepath.Join(dir, "decls")
	if err := os.MkdirAll(declsPath, 0755); err != nil {
		return fmt.Errorf("create decls: %w", err)
	}

	examplePath := filepath.Join(declsPath, "users.rest")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) {
		if err := os.WriteFile(examplePath, []byte(exampleDeclaration), 0644); err != nil {
			return fmt.Errorf("create decls/users.rest: %w", err)
		}
		fmt.Println("Created decls/users.rest")
	} else {
		fmt.Println("decls/users.rest already exists")
	}

	fmt.Println("\nProject initialized! Next steps:")
	fmt.Println("  - Inspect a declaration: restify parse decls/users.rest")
	fmt.Println("  - Generate Go source: restify gen")
	fmt.Println("  - Regenerate on change: restify gen --watch")
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/restify-go/restify/gen"
	"github.com/restify-go/restify/project"
	"github.com/restify-go/restify/rest/parser"
)

var genLog = commonlog.GetLogger("restify.gen")

func newGenCmd() *cobra.Command {
	var pkgName string
	var outDir string
	var watch bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "gen [file...]",
		Short: "Generate Go source from declaration files",
		Long: `Generate Go source from declaration files.

With file arguments, exactly those declarations are compiled. Without
arguments, inputs and defaults come from the nearest restify.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 0
			if verbose {
				verbosity = 1
			}
			commonlog.Configure(verbosity, nil)

			files, opts, dir, err := resolveGenConfig(args, pkgName, outDir)
			if err != nil {
				return err
			}
			if err := generateAll(files, opts, dir); err != nil {
				if !watch {
					return err
				}
				genLog.Errorf("%s", err)
			}
			if watch {
				return watchAndRegenerate(files, opts, dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pkgName, "package", "p", "", "package clause of generated files")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever an input changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each generated file")

	return cmd
}

// resolveGenConfig merges command-line arguments with restify.yaml. Explicit
// file arguments bypass the project's input list; flags always win over
// configured values.
func resolveGenConfig(args []string, pkgName, outDir string) ([]string, gen.Options, string, error) {
	var files []string
	if len(args) > 0 {
		files = args
		proj, err := project.Load()
		if err == nil {
			if pkgName == "" {
				pkgName = proj.Package
			}
			if outDir == "" {
				outDir = proj.OutDir()
			}
		}
	} else {
		proj, err := project.Load()
		if err != nil {
			return nil, gen.Options{}, "", err
		}
		files, err = proj.DeclarationFiles()
		if err != nil {
			return nil, gen.Options{}, "", err
		}
		if pkgName == "" {
			pkgName = proj.Package
		}
		if outDir == "" {
			outDir = proj.OutDir()
		}
	}
	if outDir == "" {
		outDir = "."
	}
	return files, gen.Options{Package: pkgName}, outDir, nil
}

func generateAll(files []string, opts gen.Options, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read declaration: %w", err)
		}
		groups, err := parser.ParseDeclaration(data, parser.WithFile(file))
		if err != nil {
			return err
		}
		generated, err := gen.Generate(groups, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		for _, g := range generated {
			target := filepath.Join(outDir, g.Name)
			if err := os.WriteFile(target, g.Content, 0644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			genLog.Infof("generated %s", target)
		}
	}
	return nil
}

// watchAndRegenerate reruns generation whenever a watched declaration is
// written. Editors replace files instead of writing in place, so the watch
// is on the containing directories and events are filtered by name.
func watchAndRegenerate(files []string, opts gen.Options, outDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	genLog.Noticef("watching %d files", len(watched))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			genLog.Infof("%s changed", event.Name)
			if err := generateAll(files, opts, outDir); err != nil {
				genLog.Errorf("%s", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			genLog.Errorf("watch: %s", err)
		}
	}
}

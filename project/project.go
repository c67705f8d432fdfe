// Package project locates and loads restify.yaml, the per-project
// configuration for declaration discovery and code generation.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name Load searches for.
const ConfigFile = "restify.yaml"

// Project is one loaded configuration plus the directory it was found in.
type Project struct {
	RootDir string `yaml:"-"`

	// Package is the package clause of generated files. Defaults to "api".
	Package string `yaml:"package"`

	// Out is the directory generated files are written to, relative to
	// RootDir. Defaults to the package name.
	Out string `yaml:"out"`

	// Inputs lists declaration files or glob patterns relative to RootDir.
	// When empty, every .rest file under RootDir is an input.
	Inputs []string `yaml:"inputs"`
}

// Load reads restify.yaml from the current directory or the nearest parent
// directory that has one.
func Load() (*Project, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("could not detect project: no %s found in this or any parent directory", ConfigFile)
		}
		dir = parent
	}
}

// LoadFrom reads restify.yaml from the given directory.
func LoadFrom(rootDir string) (*Project, error) {
	path := filepath.Join(rootDir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	proj := &Project{RootDir: rootDir}
	if err := yaml.Unmarshal(data, proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	proj.applyDefaults()
	return proj, nil
}

func (p *Project) applyDefaults() {
	if p.Package == "" {
		p.Package = "api"
	}
	if p.Out == "" {
		p.Out = p.Package
	}
}

// OutDir is the absolute output directory.
func (p *Project) OutDir() string {
	if filepath.IsAbs(p.Out) {
		return p.Out
	}
	return filepath.Join(p.RootDir, p.Out)
}

// DeclarationFiles resolves the configured inputs to a sorted list of
// declaration file paths. Patterns that match nothing are an error; silently
// generating from an empty input set hides typos.
func (p *Project) DeclarationFiles() ([]string, error) {
	if len(p.Inputs) == 0 {
		return p.scanDeclarations()
	}

	seen := make(map[string]bool)
	var files []string
	for _, input := range p.Inputs {
		pattern := input
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(p.RootDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input %q matches no files", input)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// scanDeclarations walks RootDir for .rest files, skipping the output
// directory so regenerating never feeds on its own output.
func (p *Project) scanDeclarations() ([]string, error) {
	outDir := p.OutDir()
	var files []string
	err := filepath.WalkDir(p.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == outDir || strings.HasPrefix(d.Name(), ".") && path != p.RootDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rest") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan declarations in %s: %w", p.RootDir, err)
	}
	sort.Strings(files)
	return files, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/notargets/ktune/kernels"
	"github.com/notargets/ktune/runner/builder"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// SessionFile is a YAML description of one tuning session. Session fields
// are pointers so we can distinguish "not set" from zero values.
type SessionFile struct {
	Kernel string `yaml:"kernel"`
	Source string `yaml:"source"`
	Sizes  struct {
		M int `yaml:"m"`
		N int `yaml:"n"`
		K int `yaml:"k"`
	} `yaml:"sizes"`
	Grid    GridSpec    `yaml:"grid"`
	Session SessionSpec `yaml:"session"`

	dir string
}

// SessionSpec mirrors the session flags
type SessionSpec struct {
	Platform  *int64         `yaml:"platform"`
	Device    *int64         `yaml:"device"`
	Mode      string         `yaml:"mode"`
	Runs      *int64         `yaml:"runs"`
	Warmup    *int64         `yaml:"warmup"`
	Log       string         `yaml:"log"`
	Format    string         `yaml:"format"`
	Seed      *int64         `yaml:"seed"`
	OnFailure string         `yaml:"on_failure"`
	Timeout   *time.Duration `yaml:"timeout"`
	Top       *int64         `yaml:"top"`
}

// GridEntry is one dimension of a session file grid
type GridEntry struct {
	Name   string
	Values []int
}

// GridSpec keeps the grid mapping in file order. Over turns it into the
// enumeration order of the dimensions.
type GridSpec []GridEntry

// UnmarshalYAML decodes a mapping of name to a value or a list of values.
// Booleans are stored as 0/1.
func (g *GridSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: grid must map dimension names to values", node.Line)
	}
	spec := make(GridSpec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		valueNode := node.Content[i+1]
		var values []int
		switch valueNode.Kind {
		case yaml.ScalarNode:
			v, err := gridValue(valueNode)
			if err != nil {
				return fmt.Errorf("grid %s: %w", name, err)
			}
			values = []int{v}
		case yaml.SequenceNode:
			for _, item := range valueNode.Content {
				v, err := gridValue(item)
				if err != nil {
					return fmt.Errorf("grid %s: %w", name, err)
				}
				values = append(values, v)
			}
		default:
			return fmt.Errorf("line %d: grid %s must be a value or a list", valueNode.Line, name)
		}
		spec = append(spec, GridEntry{Name: name, Values: values})
	}
	*g = spec
	return nil
}

func gridValue(node *yaml.Node) (int, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	}
	var v int
	if err := node.Decode(&v); err != nil {
		return 0, fmt.Errorf("line %d: %q is not an integer", node.Line, node.Value)
	}
	return v, nil
}

// LoadSessionFile reads a session file
func LoadSessionFile(path string) (SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionFile{}, fmt.Errorf("read session file: %w", err)
	}
	var f SessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return SessionFile{}, fmt.Errorf("parse session file %s: %w", path, err)
	}
	if f.Kernel == "" {
		return SessionFile{}, fmt.Errorf("session file %s: kernel is required", path)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// SourcePath resolves the kernel source override relative to the file
func (f SessionFile) SourcePath() string {
	if f.Source == "" || filepath.IsAbs(f.Source) {
		return f.Source
	}
	return filepath.Join(f.dir, f.Source)
}

// SizesOr returns the file sizes with unset entries taken from def
func (f SessionFile) SizesOr(def kernels.Sizes) kernels.Sizes {
	s := kernels.Sizes{M: f.Sizes.M, N: f.Sizes.N, K: f.Sizes.K}
	if s.M == 0 {
		s.M = def.M
	}
	if s.N == 0 {
		s.N = def.N
	}
	if s.K == 0 {
		s.K = def.K
	}
	return s
}

// Apply sets the grid dimensions on gb in file order
func (g GridSpec) Apply(gb *builder.GridBuilder) *builder.GridBuilder {
	for _, e := range g {
		gb.Set(e.Name, e.Values...)
	}
	return gb
}

// Over returns the family grid with the file dimensions first, in file
// order, followed by the family defaults the file leaves out
func (g GridSpec) Over(family kernels.Family) (*builder.GridBuilder, error) {
	defaults, err := family.Defaults().Build()
	if err != nil {
		return nil, fmt.Errorf("%s defaults: %w", family.Name, err)
	}
	declared := make(map[string]bool, len(g))
	for _, e := range g {
		declared[e.Name] = true
	}
	gb := g.Apply(family.Builder())
	for _, d := range defaults.Dimensions() {
		if !declared[d.Name] {
			gb.Set(d.Name, d.Values...)
		}
	}
	return gb, nil
}

// applySessionFile applies session file values to the session flag
// variables when the corresponding flag was not explicitly set
func applySessionFile(c *cli.Command, f SessionFile) {
	s := f.Session
	if s.Platform != nil && !c.IsSet("platform") {
		platformID = *s.Platform
	}
	if s.Device != nil && !c.IsSet("device") {
		deviceID = *s.Device
	}
	if s.Mode != "" && !c.IsSet("mode") {
		mode = s.Mode
	}
	if s.Runs != nil && !c.IsSet("runs") {
		runs = *s.Runs
	}
	if s.Warmup != nil && !c.IsSet("warmup") {
		warmup = *s.Warmup
	}
	if s.Log != "" && !c.IsSet("log") {
		logPath = s.Log
	}
	if s.Format != "" && !c.IsSet("format") {
		format = s.Format
	}
	if s.Seed != nil && !c.IsSet("seed") {
		seed = *s.Seed
	}
	if s.OnFailure != "" && !c.IsSet("on-failure") {
		policy = s.OnFailure
	}
	if s.Timeout != nil && !c.IsSet("timeout") {
		timeout = *s.Timeout
	}
	if s.Top != nil && !c.IsSet("top") {
		top = *s.Top
	}
	if src := f.SourcePath(); src != "" && !c.IsSet("source") {
		sourcePath = src
	}
}

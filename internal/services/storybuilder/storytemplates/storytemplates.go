// Package storytemplates loads the built-in story seeds.
package storytemplates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"gopkg.in/yaml.v3"
)

//go:embed bundles/*.yaml
var bundles embed.FS

// ErrUnknownTemplate is returned by Get for names not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// StructuralCard is one MICE card in a bundle.
type StructuralCard struct {
	Code         string `yaml:"code"`
	Opening      string `yaml:"opening"`
	Closing      string `yaml:"closing"`
	NestingLevel int    `yaml:"nesting_level"`
}

// CycleCard is one Try/Fail card in a bundle.
type CycleCard struct {
	Type        string `yaml:"type"`
	Attempt     string `yaml:"attempt"`
	Failure     string `yaml:"failure"`
	Consequence string `yaml:"consequence"`
	OrderNum    int    `yaml:"order_num"`
}

// Template is a named set of cards that seeds a story.
type Template struct {
	Name        string           `yaml:"name"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Structural  []StructuralCard `yaml:"mice_cards"`
	Cycle       []CycleCard      `yaml:"try_cards"`
}

// Content converts the template into store input.
func (t Template) Content() storage.StoryContent {
	content := storage.StoryContent{
		Structural: make([]storage.StructuralCardInput, 0, len(t.Structural)),
		Cycle:      make([]storage.CycleCardInput, 0, len(t.Cycle)),
	}
	for _, c := range t.Structural {
		content.Structural = append(content.Structural, storage.StructuralCardInput{
			Code:         c.Code,
			Opening:      c.Opening,
			Closing:      c.Closing,
			NestingLevel: c.NestingLevel,
		})
	}
	for _, c := range t.Cycle {
		content.Cycle = append(content.Cycle, storage.CycleCardInput{
			Type:        c.Type,
			Attempt:     c.Attempt,
			Failure:     c.Failure,
			Consequence: c.Consequence,
			OrderNum:    c.OrderNum,
		})
	}
	return content
}

// Catalog indexes templates by name.
type Catalog struct {
	byName map[string]Template
	names  []string
}

// Builtin parses the embedded bundles.
func Builtin() (*Catalog, error) {
	return LoadFS(bundles, "bundles")
}

// LoadFS parses every *.yaml file under dir. A bundle's name must match its
// file name.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	catalog := &Catalog{byName: map[string]Template{}}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		tmpl, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		if want := strings.TrimSuffix(entry.Name(), ".yaml"); tmpl.Name != want {
			return nil, fmt.Errorf("template %s declares name %q", entry.Name(), tmpl.Name)
		}
		catalog.byName[tmpl.Name] = tmpl
		catalog.names = append(catalog.names, tmpl.Name)
	}
	sort.Strings(catalog.names)
	return catalog, nil
}

func decode(data []byte) (Template, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var tmpl Template
	if err := dec.Decode(&tmpl); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

// Get returns the template called name.
func (c *Catalog) Get(name string) (Template, error) {
	if c != nil {
		if tmpl, ok := c.byName[name]; ok {
			return tmpl, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// List returns every template sorted by name.
func (c *Catalog) List() []Template {
	if c == nil {
		return nil
	}
	out := make([]Template, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.byName[name])
	}
	return out
}

// Package catalog provides a file-backed snapshot of the host tracker's
// priorities, issue types and custom fields.
//
// A catalog is read once from YAML and is immutable afterwards, so one
// instance may serve any number of concurrent board loads:
//
//	priorities:
//	  - name: high
//	    icon: /icons/priorities/high.png
//	issue-types:
//	  - name: task
//	    icon: /icons/issuetypes/task.png
//	custom-fields:
//	  - id: 10001
//	    name: customfield_10001
//	    options: [Not started, In progress, Done]
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/jirban/internal/boardcfg"
)

// ErrInvalidCatalog marks a catalog document that parsed but is inconsistent.
var ErrInvalidCatalog = errors.New("invalid catalog")

// EntityDoc is one priority or issue type.
type EntityDoc struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// FieldDoc is one custom field.
type FieldDoc struct {
	ID      int64    `yaml:"id"`
	Name    string   `yaml:"name"`
	Options []string `yaml:"options,omitempty"`
}

// Document is the YAML shape of a catalog file.
type Document struct {
	Priorities   []EntityDoc `yaml:"priorities"`
	IssueTypes   []EntityDoc `yaml:"issue-types"`
	CustomFields []FieldDoc  `yaml:"custom-fields"`
}

// Catalog answers host lookups from an in-memory snapshot. Entity names are
// held and matched NFC normalized.
type Catalog struct {
	priorities map[string]boardcfg.Entity
	issueTypes map[string]boardcfg.Entity
	fields     map[int64]boardcfg.FieldHandle
}

var _ boardcfg.Host = (*Catalog)(nil)

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return New(doc)
}

// New builds a catalog from an already decoded document.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		priorities: make(map[string]boardcfg.Entity, len(doc.Priorities)),
		issueTypes: make(map[string]boardcfg.Entity, len(doc.IssueTypes)),
		fields:     make(map[int64]boardcfg.FieldHandle, len(doc.CustomFields)),
	}
	if err := addEntities(c.priorities, "priorities", doc.Priorities); err != nil {
		return nil, err
	}
	if err := addEntities(c.issueTypes, "issue-types", doc.IssueTypes); err != nil {
		return nil, err
	}
	for i, f := range doc.CustomFields {
		if f.ID <= 0 {
			return nil, fmt.Errorf("%w: custom-fields[%d]: id must be positive", ErrInvalidCatalog, i)
		}
		if _, dup := c.fields[f.ID]; dup {
			return nil, fmt.Errorf("%w: custom-fields[%d]: duplicate id %d", ErrInvalidCatalog, i, f.ID)
		}
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("customfield_%d", f.ID)
		}
		c.fields[f.ID] = boardcfg.FieldHandle{ID: f.ID, Name: name, Options: f.Options}
	}
	return c, nil
}

func addEntities(dst map[string]boardcfg.Entity, key string, docs []EntityDoc) error {
	for i, d := range docs {
		if d.Name == "" {
			return fmt.Errorf("%w: %s[%d]: name is required", ErrInvalidCatalog, key, i)
		}
		name := norm.NFC.String(d.Name)
		if _, dup := dst[name]; dup {
			return fmt.Errorf("%w: %s[%d]: duplicate name %q", ErrInvalidCatalog, key, i, name)
		}
		dst[name] = boardcfg.Entity{Name: name, IconURL: d.Icon}
	}
	return nil
}

// ResolvePriority implements boardcfg.Host.
func (c *Catalog) ResolvePriority(name string) (boardcfg.Entity, error) {
	if e, ok := c.priorities[norm.NFC.String(name)]; ok {
		return e, nil
	}
	return boardcfg.Entity{}, fmt.Errorf("priority %q: %w", name, boardcfg.ErrNotFound)
}

// ResolveIssueType implements boardcfg.Host.
func (c *Catalog) ResolveIssueType(name string) (boardcfg.Entity, error) {
	if e, ok := c.issueTypes[norm.NFC.String(name)]; ok {
		return e, nil
	}
	return boardcfg.Entity{}, fmt.Errorf("issue type %q: %w", name, boardcfg.ErrNotFound)
}

// ResolveCustomField implements boardcfg.Host.
func (c *Catalog) ResolveCustomField(id int64) (boardcfg.FieldHandle, error) {
	if f, ok := c.fields[id]; ok {
		return f, nil
	}
	return boardcfg.FieldHandle{}, fmt.Errorf("custom field %d: %w", id, boardcfg.ErrNotFound)
}

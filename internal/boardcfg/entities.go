package boardcfg

import (
	"slices"

	"github.com/roach88/jirban/internal/ir"
)

// NamedEntity is a resolved priority or issue type with its dense index.
type NamedEntity struct {
	Name    string
	Index   int
	IconURL string
}

// EntityIndex is an ordered, host-confirmed list of priorities or issue types,
// indexed by name and by position.
type EntityIndex struct {
	entities []NamedEntity
	byName   map[string]int
}

type entityKind struct {
	label   string
	code    string
	resolve func(Host, string) (Entity, error)
}

var (
	priorityKind = entityKind{
		label:   "priority",
		code:    ErrUnknownPriority,
		resolve: Host.ResolvePriority,
	}
	issueTypeKind = entityKind{
		label:   "issue type",
		code:    ErrUnknownIssueType,
		resolve: Host.ResolveIssueType,
	}
)

// loadEntityIndex resolves every declared name against the host, in
// declaration order. A name declared twice is rejected.
func loadEntityIndex(host Host, kind entityKind, n node) (*EntityIndex, error) {
	if !n.exists() {
		return nil, missing(n)
	}
	elems, err := n.list()
	if err != nil {
		return nil, err
	}

	idx := &EntityIndex{
		entities: make([]NamedEntity, 0, len(elems)),
		byName:   make(map[string]int, len(elems)),
	}
	for _, e := range elems {
		name, err := e.str()
		if err != nil {
			return nil, err
		}
		if _, dup := idx.byName[name]; dup {
			return nil, invalid(e, ErrDuplicateEntity, "%s %q is declared more than once", kind.label, name)
		}
		entity, err := kind.resolve(host, name)
		if err != nil {
			verr := invalid(e, kind.code, "unknown %s %q", kind.label, name)
			verr.Err = err
			return nil, verr
		}
		idx.byName[name] = len(idx.entities)
		idx.entities = append(idx.entities, NamedEntity{
			Name:    name,
			Index:   len(idx.entities),
			IconURL: entity.IconURL,
		})
	}
	return idx, nil
}

// Len returns the number of entities.
func (x *EntityIndex) Len() int { return len(x.entities) }

// Get looks up an entity by name.
func (x *EntityIndex) Get(name string) (NamedEntity, bool) {
	i, ok := x.byName[name]
	if !ok {
		return NamedEntity{}, false
	}
	return x.entities[i], true
}

// Index returns the dense index of a name.
func (x *EntityIndex) Index(name string) (int, bool) {
	i, ok := x.byName[name]
	return i, ok
}

// Name returns the name at a dense index.
func (x *EntityIndex) Name(index int) (string, bool) {
	if index < 0 || index >= len(x.entities) {
		return "", false
	}
	return x.entities[index].Name, true
}

// Names returns all names in declaration order.
func (x *EntityIndex) Names() []string {
	names := make([]string, len(x.entities))
	for i, e := range x.entities {
		names[i] = e.Name
	}
	return names
}

// Entities returns a copy of all entities in declaration order.
func (x *EntityIndex) Entities() []NamedEntity {
	return slices.Clone(x.entities)
}

func (x *EntityIndex) forConfig() ir.Array {
	return ir.Strings(x.Names())
}

func (x *EntityIndex) forBoard() ir.Array {
	arr := make(ir.Array, len(x.entities))
	for i, e := range x.entities {
		arr[i] = ir.Object{
			"name": ir.String(e.Name),
			"icon": ir.String(e.IconURL),
		}
	}
	return arr
}

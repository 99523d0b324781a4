package boardcfg

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"

	"github.com/roach88/jirban/internal/ir"
)

// BoardConfig is a fully resolved board. It is immutable: a re-save
// produces a new instance.
type BoardConfig struct {
	id            int64
	code          string
	name          string
	owningUserKey string
	ownerProject  string
	rankFieldID   int64

	states     *BoardStates
	custom     *CustomFields
	parallel   *ParallelTaskConfig
	priorities *EntityIndex
	issueTypes *EntityIndex

	projects     map[string]*BoardProjectConfig
	projectOrder []string
	linked       map[string]*LinkedProjectConfig
	linkedOrder  []string
}

// Load parses a JSON board document and resolves it against host.
func Load(host Host, id int64, owningUserKey string, data []byte, rankFieldID int64) (*BoardConfig, error) {
	v, err := Parse("", data)
	if err != nil {
		return nil, err
	}
	return LoadValue(host, id, owningUserKey, v, rankFieldID)
}

// LoadValue resolves an already parsed board document. The first violation
// aborts the load and is returned as a *ValidationError.
func LoadValue(host Host, id int64, owningUserKey string, v cue.Value, rankFieldID int64) (*BoardConfig, error) {
	doc := root(v)
	if !doc.isStruct() {
		return nil, invalid(doc, ErrWrongType, "board configuration must be an object")
	}

	b := &BoardConfig{
		id:            id,
		owningUserKey: owningUserKey,
		rankFieldID:   rankFieldID,
	}
	var err error
	if b.code, err = requiredString(doc, "code"); err != nil {
		return nil, err
	}
	if b.name, err = requiredString(doc, "name"); err != nil {
		return nil, err
	}
	if b.ownerProject, err = requiredString(doc, "owning-project"); err != nil {
		return nil, err
	}

	if b.states, err = loadBoardStates(doc.child("states")); err != nil {
		return nil, err
	}
	if b.custom, err = loadCustomFields(host, doc.child("custom")); err != nil {
		return nil, err
	}
	if b.parallel, err = loadParallelTasks(host, doc.child("parallel-tasks"), b.custom); err != nil {
		return nil, err
	}
	if err = b.loadProjects(doc.child("projects")); err != nil {
		return nil, err
	}
	if err = b.loadLinkedProjects(doc.child("linked-projects")); err != nil {
		return nil, err
	}
	if b.priorities, err = loadEntityIndex(host, priorityKind, doc.child("priorities")); err != nil {
		return nil, err
	}
	if b.issueTypes, err = loadEntityIndex(host, issueTypeKind, doc.child("issue-types")); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BoardConfig) loadProjects(n node) error {
	if !n.exists() {
		return missing(n)
	}
	entries, err := n.fields()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(entries, func(f field) bool { return f.label == b.ownerProject })
	if idx < 0 {
		return invalid(n, ErrOwnerMissing, "owning project %q is not listed in projects", b.ownerProject)
	}
	owner, err := loadOwnerProject(b.ownerProject, entries[idx].node, b.states)
	if err != nil {
		return err
	}

	b.projects = make(map[string]*BoardProjectConfig, len(entries))
	b.projects[owner.code] = owner
	for i, f := range entries {
		if i == idx {
			b.projectOrder = append(b.projectOrder, owner.code)
			continue
		}
		p, err := loadLinkedBoardProject(f.label, f.node, b.states)
		if err != nil {
			return err
		}
		b.projects[p.code] = p
		b.projectOrder = append(b.projectOrder, p.code)
	}
	return nil
}

func (b *BoardConfig) loadLinkedProjects(n node) error {
	b.linked = make(map[string]*LinkedProjectConfig)
	if !n.exists() {
		return nil
	}
	entries, err := n.fields()
	if err != nil {
		return err
	}
	for _, f := range entries {
		if _, clash := b.projects[f.label]; clash {
			return invalid(f.node, ErrLinkedIsBoard,
				"project %q cannot be both a board project and a linked project", f.label)
		}
		lp, err := loadLinkedProject(f.label, f.node)
		if err != nil {
			return err
		}
		b.linked[lp.code] = lp
		b.linkedOrder = append(b.linkedOrder, lp.code)
	}
	return nil
}

func (b *BoardConfig) ID() int64                   { return b.id }
func (b *BoardConfig) Code() string                { return b.code }
func (b *BoardConfig) Name() string                { return b.name }
func (b *BoardConfig) OwningUserKey() string       { return b.owningUserKey }
func (b *BoardConfig) OwnerProjectCode() string    { return b.ownerProject }
func (b *BoardConfig) RankFieldID() int64          { return b.rankFieldID }
func (b *BoardConfig) States() *BoardStates        { return b.states }
func (b *BoardConfig) CustomFields() *CustomFields { return b.custom }
func (b *BoardConfig) Priorities() *EntityIndex    { return b.priorities }
func (b *BoardConfig) IssueTypes() *EntityIndex    { return b.issueTypes }

// ParallelTasks returns the parallel task config, or nil if the board has none.
func (b *BoardConfig) ParallelTasks() *ParallelTaskConfig { return b.parallel }

// OwnerProject returns the owning board project.
func (b *BoardConfig) OwnerProject() *BoardProjectConfig {
	return b.projects[b.ownerProject]
}

// Project looks up a board project by code.
func (b *BoardConfig) Project(code string) (*BoardProjectConfig, bool) {
	p, ok := b.projects[code]
	return p, ok
}

// ProjectCodes returns the board project codes in declaration order.
func (b *BoardConfig) ProjectCodes() []string {
	return slices.Clone(b.projectOrder)
}

// LinkedProject looks up a linked project by code.
func (b *BoardConfig) LinkedProject(code string) (*LinkedProjectConfig, bool) {
	lp, ok := b.linked[code]
	return lp, ok
}

// LinkedProjectCodes returns the linked project codes in declaration order.
func (b *BoardConfig) LinkedProjectCodes() []string {
	return slices.Clone(b.linkedOrder)
}

// ForBoard builds the payload the board view renders from.
func (b *BoardConfig) ForBoard() ir.Object {
	out := ir.Object{
		"code":                 ir.String(b.code),
		"name":                 ir.String(b.name),
		"rank-custom-field-id": ir.Int(b.rankFieldID),
		"priorities":           b.priorities.forBoard(),
		"issue-types":          b.issueTypes.forBoard(),
	}
	b.states.addToBoard(out)

	if b.custom.Len() > 0 {
		all := b.custom.All()
		arr := make(ir.Array, len(all))
		for i, cf := range all {
			arr[i] = cf.forBoard()
		}
		out["custom"] = arr
	}
	if b.parallel != nil {
		out["parallel-tasks"] = b.parallel.forBoard()
	}

	boardProjects := make(ir.Object, len(b.projects))
	for _, code := range b.projectOrder {
		boardProjects[code] = b.projects[code].forBoard()
	}
	linked := make(ir.Object, len(b.linked))
	for _, code := range b.linkedOrder {
		linked[code] = b.linked[code].forBoard()
	}
	out["projects"] = ir.Object{
		"owner":  ir.String(b.ownerProject),
		"board":  boardProjects,
		"linked": linked,
	}
	return out
}

// ForConfig builds the editable form. Loading it again yields a board with
// the same ForConfig output.
func (b *BoardConfig) ForConfig() ir.Object {
	out := ir.Object{
		"id":             ir.Int(b.id),
		"code":           ir.String(b.code),
		"name":           ir.String(b.name),
		"owning-project": ir.String(b.ownerProject),
		"states":         b.states.forConfig(),
		"priorities":     b.priorities.forConfig(),
		"issue-types":    b.issueTypes.forConfig(),
	}
	if b.custom.Len() > 0 {
		all := b.custom.All()
		arr := make(ir.Array, len(all))
		for i, cf := range all {
			arr[i] = cf.forConfig()
		}
		out["custom"] = arr
	}
	if b.parallel != nil {
		out["parallel-tasks"] = b.parallel.forConfig()
	}

	projects := make(ir.Object, len(b.projects))
	for _, code := range b.projectOrder {
		projects[code] = b.projects[code].forConfig()
	}
	out["projects"] = projects

	if len(b.linked) > 0 {
		linked := make(ir.Object, len(b.linked))
		for _, code := range b.linkedOrder {
			linked[code] = b.linked[code].forConfig()
		}
		out["linked-projects"] = linked
	}
	return out
}

// MarshalForBoard renders ForBoard as canonical JSON.
func (b *BoardConfig) MarshalForBoard() ([]byte, error) {
	data, err := ir.MarshalCanonical(b.ForBoard())
	if err != nil {
		return nil, fmt.Errorf("board %q: board view: %w", b.code, err)
	}
	return data, nil
}

// MarshalForConfig renders ForConfig as canonical JSON.
func (b *BoardConfig) MarshalForConfig() ([]byte, error) {
	data, err := ir.MarshalCanonical(b.ForConfig())
	if err != nil {
		return nil, fmt.Errorf("board %q: config view: %w", b.code, err)
	}
	return data, nil
}

// ConfigContent is the config form without the board id: the part of the
// configuration a user edits.
func (b *BoardConfig) ConfigContent() ir.Object {
	out := b.ForConfig()
	delete(out, "id")
	return out
}

// ConfigHash identifies the configuration content. Boards with the same
// content share a hash regardless of their id or how their source was written.
func (b *BoardConfig) ConfigHash() (string, error) {
	return ir.ContentHash(ir.DomainBoardConfig, b.ConfigContent())
}

// ViewHash identifies the board payload. It changes whenever anything a
// board client renders changes, including host-side names and icons.
func (b *BoardConfig) ViewHash() (string, error) {
	return ir.ContentHash(ir.DomainBoardView, b.ForBoard())
}

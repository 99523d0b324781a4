package boardcfg

import (
	"slices"

	"github.com/roach88/jirban/internal/ir"
)

// ProjectConfig is the surface shared by board and linked projects.
type ProjectConfig interface {
	Code() string
	States() []string
	StateIndex(ownState string) (int, bool)
	forBoard() ir.Object
	forConfig() ir.Object
}

var (
	_ ProjectConfig = (*BoardProjectConfig)(nil)
	_ ProjectConfig = (*LinkedProjectConfig)(nil)
)

// BoardProjectConfig is a project whose issues appear as cards. The owner
// project maps its states onto the board by identity; every other board
// project declares a state-links table.
type BoardProjectConfig struct {
	code        string
	owner       bool
	colour      string
	queryFilter string
	board       *BoardStates

	ownToBoard map[string]string
	boardToOwn map[string]string
	ownStates  []string // in board-column order
	ownIndex   map[string]int
}

// loadOwnerProject resolves the owning project. Its own states are the board
// states, so it may not declare state-links, and any states list it carries
// must repeat the board states exactly.
func loadOwnerProject(code string, n node, board *BoardStates) (*BoardProjectConfig, error) {
	p, err := loadProjectCommon(code, n, board)
	if err != nil {
		return nil, err
	}
	p.owner = true

	if links := n.child("state-links"); links.exists() {
		return nil, invalid(links, ErrOwnerStateLinks, "main project should not have state-links")
	}
	if states := n.child("states"); states.exists() {
		declared, err := states.stringList()
		if err != nil {
			return nil, err
		}
		if !slices.Equal(declared, board.Names()) {
			return nil, invalid(states, ErrOwnerStatesMismatch,
				"main project states %v must match the board states %v", declared, board.Names())
		}
	}

	for _, s := range board.Names() {
		p.ownToBoard[s] = s
		p.boardToOwn[s] = s
	}
	p.index()
	return p, nil
}

// loadLinkedBoardProject resolves a non-owner board project from its
// state-links table.
func loadLinkedBoardProject(code string, n node, board *BoardStates) (*BoardProjectConfig, error) {
	p, err := loadProjectCommon(code, n, board)
	if err != nil {
		return nil, err
	}

	if states := n.child("states"); states.exists() {
		return nil, invalid(states, ErrProjectStates,
			"project %q must declare state-links instead of states", code)
	}
	links := n.child("state-links")
	if !links.exists() {
		return nil, missing(links)
	}
	entries, err := links.fields()
	if err != nil {
		return nil, err
	}
	for _, f := range entries {
		target, err := f.node.str()
		if err != nil {
			return nil, err
		}
		if _, ok := board.Index(target); !ok {
			return nil, invalid(f.node, ErrUnknownBoardState,
				"state %q of project %q links to unknown board state %q", f.label, code, target)
		}
		if other, taken := p.boardToOwn[target]; taken {
			return nil, invalid(f.node, ErrBoardStateReused,
				"states %q and %q of project %q both link to board state %q", other, f.label, code, target)
		}
		p.ownToBoard[f.label] = target
		p.boardToOwn[target] = f.label
	}
	p.index()
	return p, nil
}

func loadProjectCommon(code string, n node, board *BoardStates) (*BoardProjectConfig, error) {
	if !n.isStruct() {
		return nil, invalid(n, ErrWrongType, "project %q must be an object", code)
	}
	colour, err := requiredString(n, "colour")
	if err != nil {
		return nil, err
	}
	filter, err := optionalString(n, "query-filter")
	if err != nil {
		return nil, err
	}
	return &BoardProjectConfig{
		code:        code,
		colour:      colour,
		queryFilter: filter,
		board:       board,
		ownToBoard:  make(map[string]string),
		boardToOwn:  make(map[string]string),
	}, nil
}

// index assigns own-state ordinals by walking the board columns, so own
// states sort the way the board does regardless of declaration order.
func (p *BoardProjectConfig) index() {
	p.ownIndex = make(map[string]int, len(p.ownToBoard))
	for _, b := range p.board.Names() {
		own, ok := p.boardToOwn[b]
		if !ok {
			continue
		}
		p.ownIndex[own] = len(p.ownStates)
		p.ownStates = append(p.ownStates, own)
	}
}

func (p *BoardProjectConfig) Code() string        { return p.code }
func (p *BoardProjectConfig) IsOwner() bool       { return p.owner }
func (p *BoardProjectConfig) Colour() string      { return p.colour }
func (p *BoardProjectConfig) QueryFilter() string { return p.queryFilter }

// States returns the project's own states in board-column order.
func (p *BoardProjectConfig) States() []string {
	return slices.Clone(p.ownStates)
}

// StateIndex returns the ordinal of an own state.
func (p *BoardProjectConfig) StateIndex(ownState string) (int, bool) {
	i, ok := p.ownIndex[ownState]
	return i, ok
}

// MapOwnStateToBoardState returns the board column an own state appears in.
func (p *BoardProjectConfig) MapOwnStateToBoardState(ownState string) (string, bool) {
	b, ok := p.ownToBoard[ownState]
	return b, ok
}

// MapBoardStateToOwnState returns the own state shown in a board column.
// Board columns may be unmapped.
func (p *BoardProjectConfig) MapBoardStateToOwnState(boardState string) (string, bool) {
	s, ok := p.boardToOwn[boardState]
	return s, ok
}

func (p *BoardProjectConfig) IsBacklogState(ownState string) bool {
	b, ok := p.ownToBoard[ownState]
	return ok && p.board.IsBacklog(b)
}

func (p *BoardProjectConfig) IsDoneState(ownState string) bool {
	b, ok := p.ownToBoard[ownState]
	return ok && p.board.IsDone(b)
}

func (p *BoardProjectConfig) IsUnorderedState(ownState string) bool {
	b, ok := p.ownToBoard[ownState]
	return ok && p.board.IsUnordered(b)
}

func (p *BoardProjectConfig) forBoard() ir.Object {
	return ir.Object{
		"colour":      ir.String(p.colour),
		"states":      ir.Strings(p.ownStates),
		"state-links": ir.StringMap(p.boardToOwn),
	}
}

func (p *BoardProjectConfig) forConfig() ir.Object {
	obj := ir.Object{"colour": ir.String(p.colour)}
	if p.owner {
		obj["states"] = ir.Strings(p.board.Names())
	} else {
		obj["state-links"] = ir.StringMap(p.ownToBoard)
	}
	if p.queryFilter != "" {
		obj["query-filter"] = ir.String(p.queryFilter)
	}
	return obj
}

// LinkedProjectConfig is a project referenced by linked issues only. Its
// states carry no relation to the board columns.
type LinkedProjectConfig struct {
	code     string
	states   []string
	stateIdx map[string]int
}

func loadLinkedProject(code string, n node) (*LinkedProjectConfig, error) {
	if !n.isStruct() {
		return nil, invalid(n, ErrWrongType, "linked project %q must be an object", code)
	}
	sn := n.child("states")
	if !sn.exists() {
		return nil, missing(sn)
	}
	states, err := sn.stringList()
	if err != nil {
		return nil, err
	}
	lp := &LinkedProjectConfig{
		code:     code,
		states:   states,
		stateIdx: make(map[string]int, len(states)),
	}
	for i, s := range states {
		if _, dup := lp.stateIdx[s]; dup {
			return nil, invalid(sn, ErrLinkedDuplicate, "linked project %q repeats state %q", code, s)
		}
		lp.stateIdx[s] = i
	}
	return lp, nil
}

func (lp *LinkedProjectConfig) Code() string { return lp.code }

func (lp *LinkedProjectConfig) States() []string {
	return slices.Clone(lp.states)
}

func (lp *LinkedProjectConfig) StateIndex(state string) (int, bool) {
	i, ok := lp.stateIdx[state]
	return i, ok
}

func (lp *LinkedProjectConfig) forBoard() ir.Object {
	return ir.Object{"states": ir.Strings(lp.states)}
}

func (lp *LinkedProjectConfig) forConfig() ir.Object {
	return lp.forBoard()
}

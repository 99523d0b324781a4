package boardcfg

import (
	"slices"

	"github.com/roach88/jirban/internal/ir"
)

// State is one column of the board.
type State struct {
	Name      string
	Index     int
	Header    string // empty when the state has no header
	Backlog   bool
	Done      bool
	Unordered bool
}

// BoardStates is the canonical ordered state sequence of a board.
// It is immutable once built.
type BoardStates struct {
	states       []State
	byName       map[string]int
	headers      []string // each header once, in first-occurrence order
	backlog      int
	done         int
	doneDeclared bool
}

// loadBoardStates resolves the "states" block in a single left-to-right pass.
func loadBoardStates(n node) (*BoardStates, error) {
	if !n.exists() {
		return nil, invalid(n, ErrNoStates, "a board must have states")
	}
	elems, err := n.list()
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, invalid(n, ErrNoStates, "a board must have states")
	}

	bs := &BoardStates{
		states: make([]State, 0, len(elems)),
		byName: make(map[string]int, len(elems)),
	}

	lastHeader := ""
	lastBacklog := -1
	seenHeaders := make(map[string]bool)
	inDone := false

	for i, e := range elems {
		name, err := stateName(e)
		if err != nil {
			return nil, err
		}
		if _, dup := bs.byName[name]; dup {
			return nil, invalid(e, ErrDuplicateState, "duplicate state %q", name)
		}

		var backlog, done, unordered bool
		var header string
		if e.isStruct() {
			if backlog, err = optionalBool(e, "backlog"); err != nil {
				return nil, err
			}
			if done, err = optionalBool(e, "done"); err != nil {
				return nil, err
			}
			if unordered, err = optionalBool(e, "unordered"); err != nil {
				return nil, err
			}
			if header, err = optionalString(e, "header"); err != nil {
				return nil, err
			}
		}

		if backlog {
			if lastBacklog != i-1 {
				return nil, invalid(e, ErrBacklogNotPrefix,
					"backlog state %q must directly follow another backlog state or be the first state", name)
			}
			lastBacklog = i
			if header != "" {
				return nil, invalid(e, ErrBacklogWithHeader,
					"state %q cannot be both a backlog state and have a header", name)
			}
		}

		if done {
			if backlog {
				return nil, invalid(e, ErrBacklogAndDone, "state %q cannot be both a backlog and a done state", name)
			}
			inDone = true
			bs.doneDeclared = true
		} else if inDone {
			return nil, invalid(e, ErrDoneNotSuffix,
				"state %q follows a done state; done states must be the last states", name)
		}

		if header != "" {
			if header != lastHeader && seenHeaders[header] {
				return nil, invalid(e, ErrHeaderNotContiguous,
					"header %q for state %q was already used by non-adjacent states", header, name)
			}
			if !seenHeaders[header] {
				bs.headers = append(bs.headers, header)
			}
			seenHeaders[header] = true
		}
		lastHeader = header

		bs.byName[name] = i
		bs.states = append(bs.states, State{
			Name:      name,
			Index:     i,
			Header:    header,
			Backlog:   backlog,
			Done:      done,
			Unordered: unordered,
		})
	}

	bs.backlog = lastBacklog + 1
	if bs.doneDeclared {
		for _, s := range bs.states {
			if s.Done {
				bs.done++
			}
		}
	} else if last := &bs.states[len(bs.states)-1]; !last.Backlog {
		last.Done = true
		bs.done = 1
	}
	return bs, nil
}

// stateName accepts either {"name": ...} or a bare string.
func stateName(e node) (string, error) {
	if e.isStruct() {
		return requiredString(e, "name")
	}
	s, err := e.str()
	if err != nil {
		return "", invalid(e, ErrWrongType, "state must be an object with a name")
	}
	if s == "" {
		return "", missing(e.child("name"))
	}
	return s, nil
}

// Len returns the number of states.
func (bs *BoardStates) Len() int { return len(bs.states) }

// Names returns the state names in board order.
func (bs *BoardStates) Names() []string {
	names := make([]string, len(bs.states))
	for i, s := range bs.states {
		names[i] = s.Name
	}
	return names
}

// States returns a copy of all states in board order.
func (bs *BoardStates) States() []State {
	return slices.Clone(bs.states)
}

// State looks up a state by name.
func (bs *BoardStates) State(name string) (State, bool) {
	i, ok := bs.byName[name]
	if !ok {
		return State{}, false
	}
	return bs.states[i], true
}

// Index returns the 0-based position of a state.
func (bs *BoardStates) Index(name string) (int, bool) {
	i, ok := bs.byName[name]
	return i, ok
}

// Header returns the header label of a state, or "" if it has none.
func (bs *BoardStates) Header(name string) string {
	s, _ := bs.State(name)
	return s.Header
}

// Headers returns each header label once, in order of first use.
func (bs *BoardStates) Headers() []string {
	return slices.Clone(bs.headers)
}

// IsBacklog reports whether the named state is in the backlog prefix.
func (bs *BoardStates) IsBacklog(name string) bool {
	s, _ := bs.State(name)
	return s.Backlog
}

// IsDone reports whether the named state is a done state.
func (bs *BoardStates) IsDone(name string) bool {
	s, _ := bs.State(name)
	return s.Done
}

// IsUnordered reports whether cards in the named state are left unranked.
func (bs *BoardStates) IsUnordered(name string) bool {
	s, _ := bs.State(name)
	return s.Unordered
}

// BacklogCount is the length of the backlog prefix.
func (bs *BoardStates) BacklogCount() int { return bs.backlog }

// DoneCount is the length of the done suffix.
func (bs *BoardStates) DoneCount() int { return bs.done }

// forConfig renders the editable form, one entry per state with its flags.
func (bs *BoardStates) forConfig() ir.Array {
	arr := make(ir.Array, len(bs.states))
	for i, s := range bs.states {
		obj := ir.Object{"name": ir.String(s.Name)}
		if s.Header != "" {
			obj["header"] = ir.String(s.Header)
		}
		if s.Backlog {
			obj["backlog"] = ir.Bool(true)
		}
		if s.Done && bs.doneDeclared {
			obj["done"] = ir.Bool(true)
		}
		if s.Unordered {
			obj["unordered"] = ir.Bool(true)
		}
		arr[i] = obj
	}
	return arr
}

// addToBoard writes the board view form into parent: states referencing
// headers by index, the compacted header list and the backlog/done counts.
func (bs *BoardStates) addToBoard(parent ir.Object) {
	headerIndex := make(map[string]int, len(bs.headers))
	for i, h := range bs.headers {
		headerIndex[h] = i
	}

	states := make(ir.Array, len(bs.states))
	for i, s := range bs.states {
		obj := ir.Object{"name": ir.String(s.Name)}
		if s.Header != "" {
			obj["header"] = ir.Int(headerIndex[s.Header])
		}
		if s.Unordered {
			obj["unordered"] = ir.Bool(true)
		}
		states[i] = obj
	}
	parent["states"] = states

	if len(bs.headers) > 0 {
		parent["headers"] = ir.Strings(bs.headers)
	}
	if bs.backlog > 0 {
		parent["backlog"] = ir.Int(bs.backlog)
	}
	if bs.done > 0 {
		parent["done"] = ir.Int(bs.done)
	}
}

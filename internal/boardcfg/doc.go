// Package boardcfg resolves declarative kanban board configurations.
//
// A board configuration describes one or more issue-tracking projects, each
// with its own workflow states, and resolves them into a single board: one
// canonical ordered state sequence (the columns), priority and issue-type
// indexes, optional custom and parallel-task fields, and per-project state
// mappings in both directions.
//
// Load is a pure function of its input document and a read-only snapshot of
// the host tracker (see Host). It either returns a fully validated, immutable
// *BoardConfig or the first *ValidationError it encounters; nothing partial is
// ever returned. Concurrent loads share no state.
//
// Documents are read through the CUE SDK, so a board may be written either as
// JSON or as CUE:
//
//	v, err := boardcfg.Parse("board.json", data)
//	cfg, err := boardcfg.LoadValue(host, 1, "admin", v, rankFieldID)
//
// A loaded board serializes two ways: ForBoard is the payload the board view
// renders from, ForConfig is the editable form. ForConfig round-trips: loading
// it again yields a board with identical ForConfig output.
package boardcfg

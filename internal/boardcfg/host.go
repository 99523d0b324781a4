package boardcfg

import "errors"

// ErrNotFound is returned by a Host when a name or id is unknown.
var ErrNotFound = errors.New("not found")

// Entity is a host-confirmed priority or issue type.
type Entity struct {
	Name    string
	IconURL string
}

// FieldHandle is the host's view of a custom field: its numeric id, its
// internal name (e.g. "customfield_10012") and, for select lists, its options.
type FieldHandle struct {
	ID      int64
	Name    string
	Options []string
}

// Host is the read-only catalog of the issue tracker a board is validated
// against. Load calls it synchronously and never caches its answers. Names
// passed to it are NFC normalized.
type Host interface {
	ResolvePriority(name string) (Entity, error)
	ResolveIssueType(name string) (Entity, error)
	ResolveCustomField(id int64) (FieldHandle, error)
}

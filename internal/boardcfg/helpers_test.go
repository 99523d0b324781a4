package boardcfg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeHost is an in-memory Host.
type fakeHost struct {
	priorities map[string]Entity
	issueTypes map[string]Entity
	fields     map[int64]FieldHandle
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		priorities: map[string]Entity{},
		issueTypes: map[string]Entity{},
		fields:     map[int64]FieldHandle{},
	}
	for _, p := range []string{"highest", "high", "low", "urgent\u00e9"} {
		h.priorities[p] = Entity{Name: p, IconURL: "/icons/priorities/" + p + ".png"}
	}
	for _, it := range []string{"task", "bug", "feature"} {
		h.issueTypes[it] = Entity{Name: it, IconURL: "/icons/issuetypes/" + it + ".png"}
	}
	for _, id := range []int64{10001, 10002, 10003, 10004} {
		h.fields[id] = FieldHandle{ID: id, Name: fmt.Sprintf("customfield_%d", id)}
	}
	for _, id := range []int64{10010, 10011, 10012} {
		h.fields[id] = FieldHandle{
			ID:      id,
			Name:    fmt.Sprintf("customfield_%d", id),
			Options: []string{"Not started", "In progress", "Done"},
		}
	}
	return h
}

func (h *fakeHost) ResolvePriority(name string) (Entity, error) {
	if e, ok := h.priorities[name]; ok {
		return e, nil
	}
	return Entity{}, ErrNotFound
}

func (h *fakeHost) ResolveIssueType(name string) (Entity, error) {
	if e, ok := h.issueTypes[name]; ok {
		return e, nil
	}
	return Entity{}, ErrNotFound
}

func (h *fakeHost) ResolveCustomField(id int64) (FieldHandle, error) {
	if f, ok := h.fields[id]; ok {
		return f, nil
	}
	return FieldHandle{}, ErrNotFound
}

const rankFieldID = 10100

// fullBoard exercises every block of the document.
const fullBoard = `{
  "name": "Test Board",
  "code": "TST",
  "owning-project": "TDP",
  "states": [
    {"name": "Backlog", "backlog": true},
    {"name": "Selected", "header": "Ready"},
    {"name": "Ranked", "header": "Ready", "unordered": true},
    {"name": "In Progress", "header": "Work"},
    {"name": "Review", "header": "Work"},
    {"name": "Done"}
  ],
  "custom": [
    {"name": "Tester", "type": "user", "field-id": 10001},
    {"name": "Fix Version", "type": "version", "field-id": 10002},
    {"name": "Team", "type": "predefined-list", "field-id": 10003, "config": ["Red", "Blue"]}
  ],
  "parallel-tasks": {
    "fields": [
      {"name": "Upstream", "type": "parallel-task-progress", "field-id": 10010, "display": "US"},
      {"name": "Docs", "type": "parallel-task-progress", "field-id": 10011, "display": "DC"}
    ]
  },
  "priorities": ["highest", "high", "low"],
  "issue-types": ["task", "bug"],
  "projects": {
    "TDP": {
      "colour": "#4667CA",
      "states": ["Backlog", "Selected", "Ranked", "In Progress", "Review", "Done"]
    },
    "TBG": {
      "colour": "#CA6746",
      "query-filter": "component = UI",
      "state-links": {
        "TBG-Open": "Backlog",
        "TBG-Doing": "In Progress",
        "TBG-Done": "Done",
        "TBG-Selected": "Selected"
      }
    }
  },
  "linked-projects": {
    "TUP": {"states": ["Open", "Closed"]}
  }
}`

// minimalBoard is the smallest valid document.
const minimalBoard = `{
  "name": "Minimal",
  "code": "MIN",
  "owning-project": "TDP",
  "states": [
    {"name": "TODO", "backlog": true},
    {"name": "IN_PROGRESS"},
    {"name": "DONE"}
  ],
  "priorities": ["high"],
  "issue-types": ["task"],
  "projects": {
    "TDP": {"colour": "#000000", "states": ["TODO", "IN_PROGRESS", "DONE"]}
  }
}`

func mustLoad(t *testing.T, doc string) *BoardConfig {
	t.Helper()
	cfg, err := Load(newFakeHost(), 1, "admin", []byte(doc), rankFieldID)
	require.NoError(t, err)
	return cfg
}

// loadErr loads doc, expects a validation failure and returns it.
func loadErr(t *testing.T, doc string) *ValidationError {
	t.Helper()
	_, err := Load(newFakeHost(), 1, "admin", []byte(doc), rankFieldID)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T: %v", err, err)
	return verr
}

// stateDoc wraps a states block in an otherwise valid single-project board.
// The owner declares no states list so any valid sequence loads.
func stateDoc(states string) string {
	return `{
  "name": "S", "code": "S", "owning-project": "P",
  "states": ` + states + `,
  "priorities": [], "issue-types": [],
  "projects": {"P": {"colour": "#fff"}}
}`
}

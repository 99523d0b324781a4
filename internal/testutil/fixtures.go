package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RankFieldID is the rank custom field id the sample board is loaded with.
const RankFieldID = 10100

// BoardCode and BoardName identify the sample board.
const (
	BoardCode = "TST"
	BoardName = "Test Board"
)

// CatalogYAML is a host catalog that satisfies BoardJSON.
const CatalogYAML = `priorities:
  - name: highest
    icon: /icons/priorities/highest.png
  - name: high
    icon: /icons/priorities/high.png
  - name: low
    icon: /icons/priorities/low.png
issue-types:
  - name: task
    icon: /icons/issuetypes/task.png
  - name: bug
    icon: /icons/issuetypes/bug.png
custom-fields:
  - id: 10001
    name: customfield_10001
  - id: 10002
    name: customfield_10002
  - id: 10003
    name: customfield_10003
  - id: 10010
    name: customfield_10010
    options: [Not started, In progress, Done]
  - id: 10011
    name: customfield_10011
    options: [Not started, In progress, Done]
`

// BoardJSON is a board document using every optional block.
const BoardJSON = `{
  "name": "Test Board",
  "code": "TST",
  "owning-project": "TDP",
  "states": [
    {"name": "Backlog", "backlog": true},
    {"name": "Selected", "header": "Ready"},
    {"name": "In Progress", "header": "Work"},
    {"name": "Review", "header": "Work"},
    {"name": "Done"}
  ],
  "custom": [
    {"name": "Tester", "type": "user", "field-id": 10001},
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
    "TDP": {"colour": "#4667CA"},
    "TBG": {
      "colour": "#CA6746",
      "state-links": {"Open": "Backlog", "Doing": "In Progress", "Closed": "Done"}
    }
  },
  "linked-projects": {
    "TUP": {"states": ["Open", "Closed"]}
  }
}`

// InvalidBoardJSON fails validation: the owner project declares state-links.
const InvalidBoardJSON = `{
  "name": "Broken",
  "code": "BRK",
  "owning-project": "TDP",
  "states": [{"name": "Open"}, {"name": "Done"}],
  "priorities": [],
  "issue-types": [],
  "projects": {
    "TDP": {"colour": "#000000", "state-links": {"Open": "Open"}}
  }
}`

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

package boardcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelTasksResolved(t *testing.T) {
	cfg := mustLoad(t, fullBoard)
	pt := cfg.ParallelTasks()

	require.NotNil(t, pt)
	assert.Equal(t, 2, pt.Len())

	f, ok := pt.ByCode("DC")
	require.True(t, ok)
	assert.Equal(t, "Docs", f.Name())
	assert.Equal(t, int64(10011), f.FieldID())
	assert.Equal(t, []string{"Not started", "In progress", "Done"}, f.Options())

	f, ok = pt.Fields().ByName("Upstream")
	require.True(t, ok)
	assert.Equal(t, "US", f.Code())
	assert.Equal(t, "customfield_10010", f.HostName())

	_, ok = pt.ByCode("XX")
	assert.False(t, ok)
}

func TestParallelTasksEmptyIsNil(t *testing.T) {
	for _, block := range []string{`{"fields": []}`, `null`} {
		t.Run(block, func(t *testing.T) {
			doc := `{
				"name": "S", "code": "S", "owning-project": "P",
				"states": ["A"],
				"parallel-tasks": ` + block + `,
				"priorities": [], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}}
			}`
			cfg := mustLoad(t, doc)
			assert.Nil(t, cfg.ParallelTasks())
			assert.Equal(t, 0, cfg.ParallelTasks().Len())
			assert.NotContains(t, cfg.ForConfig(), "parallel-tasks")
		})
	}
}

func TestParallelTasksRequireFields(t *testing.T) {
	doc := `{
		"name": "S", "code": "S", "owning-project": "P",
		"states": ["A"],
		"parallel-tasks": {},
		"priorities": [], "issue-types": [],
		"projects": {"P": {"colour": "#fff"}}
	}`
	verr := loadErr(t, doc)
	assert.Equal(t, ErrMissingField, verr.Code)
	assert.Equal(t, "parallel-tasks.fields", verr.Field)
}

func TestParallelTasksInvalid(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		code   string
		msg    string
	}{
		{
			name: "duplicate display code",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "AB"},
				{"name": "Two", "type": "parallel-task-progress", "field-id": 10011, "display": "AB"}
			]`,
			code: ErrDuplicateDisplayCode,
			msg:  `"AB"`,
		},
		{
			name: "field id shared with custom field",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10001, "display": "AB"}
			]`,
			code: ErrFieldIDInCustom,
			msg:  `custom field "Tester"`,
		},
		{
			name: "duplicate name",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "AB"},
				{"name": "One", "type": "parallel-task-progress", "field-id": 10011, "display": "CD"}
			]`,
			code: ErrDuplicateParallelName,
			msg:  `"One"`,
		},
		{
			name: "duplicate field id",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "AB"},
				{"name": "Two", "type": "parallel-task-progress", "field-id": 10010, "display": "CD"}
			]`,
			code: ErrDuplicateParallelID,
			msg:  `already used by "One"`,
		},
		{
			name: "display code too short",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "A"}
			]`,
			code: ErrDisplayCode,
			msg:  "must be 2 characters",
		},
		{
			name: "display code too long",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "ABC"}
			]`,
			code: ErrDisplayCode,
			msg:  `"ABC"`,
		},
		{
			name: "wrong type",
			fields: `[
				{"name": "One", "type": "user", "field-id": 10010, "display": "AB"}
			]`,
			code: ErrParallelTaskType,
			msg:  `"parallel-task-progress"`,
		},
		{
			name: "unknown field id",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 424242, "display": "AB"}
			]`,
			code: ErrUnknownCustomField,
			msg:  "424242",
		},
		{
			name: "display missing",
			fields: `[
				{"name": "One", "type": "parallel-task-progress", "field-id": 10010}
			]`,
			code: ErrMissingField,
			msg:  "parallel-tasks.fields[0].display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{
				"name": "S", "code": "S", "owning-project": "P",
				"states": ["A"],
				"custom": [{"name": "Tester", "type": "user", "field-id": 10001}],
				"parallel-tasks": {"fields": ` + tt.fields + `},
				"priorities": [], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}}
			}`
			verr := loadErr(t, doc)
			assert.Equal(t, tt.code, verr.Code)
			assert.Contains(t, verr.Error(), tt.msg)
		})
	}
}

func TestParallelTasksDisplayCodeCountsCharacters(t *testing.T) {
	doc := `{
		"name": "S", "code": "S", "owning-project": "P",
		"states": ["A"],
		"parallel-tasks": {"fields": [
			{"name": "One", "type": "parallel-task-progress", "field-id": 10010, "display": "\u00e9\u00e8"}
		]},
		"priorities": [], "issue-types": [],
		"projects": {"P": {"colour": "#fff"}}
	}`
	cfg := mustLoad(t, doc)
	_, ok := cfg.ParallelTasks().ByCode("\u00e9\u00e8")
	assert.True(t, ok)
}

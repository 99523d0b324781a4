package boardcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldsResolved(t *testing.T) {
	cfg := mustLoad(t, fullBoard)
	custom := cfg.CustomFields()

	require.Equal(t, 3, custom.Len())

	tester, ok := custom.ByName("Tester")
	require.True(t, ok)
	assert.Equal(t, KindUser, tester.Kind())
	assert.Equal(t, int64(10001), tester.FieldID())
	assert.Equal(t, "customfield_10001", tester.HostName())
	assert.Empty(t, tester.Values())

	team, ok := custom.ByID(10003)
	require.True(t, ok)
	assert.Equal(t, "Team", team.Name())
	assert.Equal(t, KindPredefinedList, team.Kind())
	assert.Equal(t, []string{"Red", "Blue"}, team.Values())

	version, ok := custom.ByHostName("customfield_10002")
	require.True(t, ok)
	assert.Equal(t, KindVersion, version.Kind())
}

func TestCustomFieldsAbsent(t *testing.T) {
	cfg := mustLoad(t, minimalBoard)
	assert.Equal(t, 0, cfg.CustomFields().Len())
}

func TestCustomFieldsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		custom string
		code   string
		msg    string
	}{
		{
			name:   "unsupported type",
			custom: `[{"name": "X", "type": "date", "field-id": 10001}]`,
			code:   ErrCustomFieldType,
			msg:    `unsupported type "date"`,
		},
		{
			name:   "progress type outside parallel tasks",
			custom: `[{"name": "X", "type": "parallel-task-progress", "field-id": 10010}]`,
			code:   ErrCustomFieldType,
			msg:    `"parallel-task-progress"`,
		},
		{
			name:   "unknown field id",
			custom: `[{"name": "X", "type": "user", "field-id": 99999}]`,
			code:   ErrUnknownCustomField,
			msg:    "no custom field with id 99999",
		},
		{
			name:   "missing field id",
			custom: `[{"name": "X", "type": "user"}]`,
			code:   ErrMissingField,
			msg:    "custom[0].field-id",
		},
		{
			name: "duplicate name",
			custom: `[
				{"name": "X", "type": "user", "field-id": 10001},
				{"name": "X", "type": "version", "field-id": 10002}
			]`,
			code: ErrDuplicateFieldName,
			msg:  `duplicate custom field name "X"`,
		},
		{
			name: "duplicate field id",
			custom: `[
				{"name": "X", "type": "user", "field-id": 10001},
				{"name": "Y", "type": "version", "field-id": 10001}
			]`,
			code: ErrDuplicateFieldID,
			msg:  `already used by "X"`,
		},
		{
			name:   "predefined list without values",
			custom: `[{"name": "X", "type": "predefined-list", "field-id": 10003}]`,
			code:   ErrMissingField,
			msg:    "custom[0].config",
		},
		{
			name:   "predefined list with empty values",
			custom: `[{"name": "X", "type": "predefined-list", "field-id": 10003, "config": []}]`,
			code:   ErrCustomFieldValueList,
			msg:    "at least one value",
		},
		{
			name:   "predefined list repeats a value",
			custom: `[{"name": "X", "type": "predefined-list", "field-id": 10003, "config": ["a", "a"]}]`,
			code:   ErrCustomFieldValueList,
			msg:    `repeats value "a"`,
		},
		{
			name:   "user field with config",
			custom: `[{"name": "X", "type": "user", "field-id": 10001, "config": ["a"]}]`,
			code:   ErrCustomFieldValueList,
			msg:    "does not take a config list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{
				"name": "S", "code": "S", "owning-project": "P",
				"states": ["A"],
				"custom": ` + tt.custom + `,
				"priorities": [], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}}
			}`
			verr := loadErr(t, doc)
			assert.Equal(t, tt.code, verr.Code)
			assert.Contains(t, verr.Error(), tt.msg)
		})
	}
}

package boardcfg

import (
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jirban/internal/ir"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestLoadTopLevel(t *testing.T) {
	cfg := mustLoad(t, fullBoard)

	assert.Equal(t, int64(1), cfg.ID())
	assert.Equal(t, "TST", cfg.Code())
	assert.Equal(t, "Test Board", cfg.Name())
	assert.Equal(t, "admin", cfg.OwningUserKey())
	assert.Equal(t, "TDP", cfg.OwnerProjectCode())
	assert.Equal(t, int64(rankFieldID), cfg.RankFieldID())
	assert.Equal(t, []string{"TDP", "TBG"}, cfg.ProjectCodes())
}

func TestLoadGoldenViews(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "full", doc: fullBoard},
		{name: "minimal", doc: minimalBoard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustLoad(t, tt.doc)
			g := newGoldie(t)

			board, err := cfg.MarshalForBoard()
			require.NoError(t, err)
			g.Assert(t, tt.name+"_board_view", board)

			config, err := cfg.MarshalForConfig()
			require.NoError(t, err)
			g.Assert(t, tt.name+"_config_view", config)
		})
	}
}

// unicodeBoard spells every kind of name in decomposed form: states, a
// project code, own states, linked states and a priority.
const unicodeBoard = `{
  "name": "Tablero",
  "code": "TAB",
  "owning-project": "E\u0301",
  "states": [{"name": "Cafe\u0301", "backlog": true}, {"name": "Hecho"}],
  "priorities": ["urgente\u0301"],
  "issue-types": [],
  "projects": {
    "E\u0301": {"colour": "#000000"},
    "O\u0308B": {"colour": "#111111", "state-links": {"Abie\u0301rto": "Cafe\u0301", "Listo": "Hecho"}}
  },
  "linked-projects": {"LI\u0301N": {"states": ["Nin\u0303o", "Ba\u0308r"]}}
}`

func TestConfigViewRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "full", doc: fullBoard},
		{name: "minimal", doc: minimalBoard},
		{name: "done flag", doc: stateDoc(`[{"name": "A"}, {"name": "B", "done": true}]`)},
		{name: "composed states", doc: stateDoc(`[{"name": "Caf\u00e9"}, {"name": "\u65e5\u672c"}]`)},
		{name: "decomposed names", doc: unicodeBoard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := mustLoad(t, tt.doc)
			want, err := first.MarshalForConfig()
			require.NoError(t, err)

			second, err := Load(newFakeHost(), first.ID(), first.OwningUserKey(), want, rankFieldID)
			require.NoError(t, err)
			got, err := second.MarshalForConfig()
			require.NoError(t, err)

			assert.Equal(t, string(want), string(got))

			h1, err := first.ConfigHash()
			require.NoError(t, err)
			h2, err := second.ConfigHash()
			require.NoError(t, err)
			assert.Equal(t, h1, h2)
		})
	}
}

func TestLoadNormalizesNames(t *testing.T) {
	cfg := mustLoad(t, unicodeBoard)

	assert.Equal(t, "\u00c9", cfg.OwnerProjectCode())
	assert.Equal(t, []string{"\u00c9", "\u00d6B"}, cfg.ProjectCodes())
	assert.Equal(t, []string{"L\u00cdN"}, cfg.LinkedProjectCodes())
	assert.Equal(t, []string{"Caf\u00e9", "Hecho"}, cfg.States().Names())
	assert.Equal(t, []string{"urgent\u00e9"}, cfg.Priorities().Names())

	p, ok := cfg.Project("\u00d6B")
	require.True(t, ok)
	board, ok := p.MapOwnStateToBoardState("Abi\u00e9rto")
	require.True(t, ok)
	assert.Equal(t, "Caf\u00e9", board)

	lp, ok := cfg.LinkedProject("L\u00cdN")
	require.True(t, ok)
	assert.Equal(t, []string{"Ni\u00f1o", "B\u00e4r"}, lp.States())
}

func TestLoadRejectsNamesEqualAfterNormalization(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{
			name: "states",
			doc:  stateDoc(`[{"name": "Caf\u00e9"}, {"name": "Cafe\u0301"}]`),
			code: ErrDuplicateState,
		},
		{
			name: "project codes",
			doc: `{"name": "S", "code": "S", "owning-project": "P", "states": ["A"],
				"priorities": [], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}, "\u00c9": {"colour": "#000", "state-links": {"x": "A"}},
					"E\u0301": {"colour": "#111", "state-links": {"y": "A"}}}}`,
			code: ErrInvalidDocument,
		},
		{
			name: "linked states",
			doc: `{"name": "S", "code": "S", "owning-project": "P", "states": ["A"],
				"priorities": [], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}},
				"linked-projects": {"L": {"states": ["Caf\u00e9", "Cafe\u0301"]}}}`,
			code: ErrLinkedDuplicate,
		},
		{
			name: "priorities",
			doc: `{"name": "S", "code": "S", "owning-project": "P", "states": ["A"],
				"priorities": ["urgent\u00e9", "urgente\u0301"], "issue-types": [],
				"projects": {"P": {"colour": "#fff"}}}`,
			code: ErrDuplicateEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := loadErr(t, tt.doc)
			assert.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestConfigHashTracksContent(t *testing.T) {
	a := mustLoad(t, minimalBoard)
	b := mustLoad(t, strings.Replace(minimalBoard, `"#000000"`, `"#ffffff"`, 1))

	ha, err := a.ConfigHash()
	require.NoError(t, err)
	hb, err := b.ConfigHash()
	require.NoError(t, err)

	assert.Len(t, ha, 64)
	assert.NotEqual(t, ha, hb)
}

func TestConfigHashIgnoresID(t *testing.T) {
	a, err := Load(newFakeHost(), 1, "admin", []byte(minimalBoard), rankFieldID)
	require.NoError(t, err)
	b, err := Load(newFakeHost(), 2, "admin", []byte(minimalBoard), rankFieldID)
	require.NoError(t, err)

	ha, err := a.ConfigHash()
	require.NoError(t, err)
	hb, err := b.ConfigHash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.NotContains(t, a.ConfigContent(), "id")
	assert.Contains(t, a.ForConfig(), "id")
}

func TestViewHashTracksRankField(t *testing.T) {
	a, err := Load(newFakeHost(), 1, "admin", []byte(minimalBoard), rankFieldID)
	require.NoError(t, err)
	b, err := Load(newFakeHost(), 1, "admin", []byte(minimalBoard), rankFieldID+1)
	require.NoError(t, err)

	va, err := a.ViewHash()
	require.NoError(t, err)
	vb, err := b.ViewHash()
	require.NoError(t, err)
	assert.NotEqual(t, va, vb)

	ca, err := a.ConfigHash()
	require.NoError(t, err)
	cb, err := b.ConfigHash()
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
	assert.NotEqual(t, ca, va)
}

func TestLoadIgnoresDocumentID(t *testing.T) {
	doc := strings.Replace(minimalBoard, `"name": "Minimal",`, `"id": 99, "name": "Minimal",`, 1)
	cfg, err := Load(newFakeHost(), 7, "admin", []byte(doc), rankFieldID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.ID())
	assert.Equal(t, ir.Int(7), cfg.ForConfig()["id"])
}

func TestLoadNullIsAbsent(t *testing.T) {
	doc := strings.Replace(minimalBoard, `"name": "Minimal",`, `"name": "Minimal", "custom": null, "linked-projects": null,`, 1)
	cfg := mustLoad(t, doc)
	assert.Equal(t, 0, cfg.CustomFields().Len())
	assert.Empty(t, cfg.LinkedProjectCodes())
}

func TestLoadTopLevelInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
		msg  string
	}{
		{
			name: "malformed json",
			doc:  `{"name": `,
			code: ErrInvalidDocument,
		},
		{
			name: "not an object",
			doc:  `["a"]`,
			code: ErrWrongType,
			msg:  "must be an object",
		},
		{
			name: "missing code",
			doc:  strings.Replace(minimalBoard, `"code": "MIN",`, ``, 1),
			code: ErrMissingField,
			msg:  "code: required field is missing",
		},
		{
			name: "empty name",
			doc:  strings.Replace(minimalBoard, `"name": "Minimal"`, `"name": ""`, 1),
			code: ErrMissingField,
			msg:  "name: must not be empty",
		},
		{
			name: "owning-project not a string",
			doc:  strings.Replace(minimalBoard, `"owning-project": "TDP"`, `"owning-project": 3`, 1),
			code: ErrWrongType,
			msg:  "owning-project",
		},
		{
			name: "projects not an object",
			doc:  `{"name": "S", "code": "S", "owning-project": "P", "states": ["A"], "projects": ["P"]}`,
			code: ErrWrongType,
			msg:  "projects: must be an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := loadErr(t, tt.doc)
			assert.Equal(t, tt.code, verr.Code)
			assert.Contains(t, verr.Error(), tt.msg)
		})
	}
}

func TestLoadScenarioNonOwnerWithoutStateLinks(t *testing.T) {
	doc := strings.Replace(minimalBoard,
		`"TDP": {"colour": "#000000", "states": ["TODO", "IN_PROGRESS", "DONE"]}`,
		`"TDP": {"colour": "#000000", "states": ["TODO", "IN_PROGRESS", "DONE"]}, "OTH": {"colour": "#111111"}`, 1)
	verr := loadErr(t, doc)
	assert.Equal(t, ErrMissingField, verr.Code)
	assert.Equal(t, "projects.OTH.state-links", verr.Field)
}

const minimalCUE = `
_columns: ["TODO", "IN_PROGRESS", "DONE"]

name:             "Minimal"
code:             "MIN"
"owning-project": "TDP"
states: [
	{name: "TODO", backlog: true},
	{name: "IN_PROGRESS"},
	{name: "DONE"},
]
priorities: ["high"]
"issue-types": ["task"]
projects: TDP: {
	colour: "#000000"
	states: _columns
}
`

func TestParseCUEMatchesJSON(t *testing.T) {
	v, err := Parse("board.cue", []byte(minimalCUE))
	require.NoError(t, err)
	fromCUE, err := LoadValue(newFakeHost(), 1, "admin", v, rankFieldID)
	require.NoError(t, err)

	fromJSON := mustLoad(t, minimalBoard)

	want, err := fromJSON.MarshalForConfig()
	require.NoError(t, err)
	got, err := fromCUE.MarshalForConfig()
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestParseCUEErrorsCarryPosition(t *testing.T) {
	src := strings.Replace(minimalCUE, `colour: "#000000"`, `colour: "#000000"
	"state-links": {TODO: "TODO"}`, 1)
	v, err := Parse("board.cue", []byte(src))
	require.NoError(t, err)

	_, err = LoadValue(newFakeHost(), 1, "admin", v, rankFieldID)
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, ErrOwnerStateLinks, verr.Code)
	assert.Positive(t, verr.Line())
	assert.Contains(t, verr.Error(), "board.cue:")
}

func TestParseCUESyntaxError(t *testing.T) {
	_, err := Parse("bad.cue", []byte("name: {\n"))
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidDocument, verr.Code)
}

func TestParseCUEConflictIsInvalid(t *testing.T) {
	_, err := Parse("bad.cue", []byte("code: \"A\"\ncode: \"B\"\n"))
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidDocument, verr.Code)
}

func TestLoadConcurrent(t *testing.T) {
	want, err := mustLoad(t, fullBoard).MarshalForBoard()
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := Load(newFakeHost(), 1, "admin", []byte(fullBoard), rankFieldID)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = cfg.MarshalForBoard()
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, string(want), string(results[i]))
	}
}

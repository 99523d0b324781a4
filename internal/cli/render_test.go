package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/catalog"
	"github.com/roach88/jirban/internal/testutil"
)

func loadFixtureBoard(t *testing.T) *boardcfg.BoardConfig {
	t.Helper()
	host, err := catalog.Parse([]byte(testutil.CatalogYAML))
	require.NoError(t, err)
	cfg, err := boardcfg.Load(host, 0, "", []byte(testutil.BoardJSON), testutil.RankFieldID)
	require.NoError(t, err)
	return cfg
}

func TestRenderViews(t *testing.T) {
	want := loadFixtureBoard(t)
	wantBoard, err := want.MarshalForBoard()
	require.NoError(t, err)
	wantConfig, err := want.MarshalForConfig()
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want []byte
	}{
		{"default_board", nil, wantBoard},
		{"board", []string{"--view", "board"}, wantBoard},
		{"config", []string{"--view", "config"}, wantConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boardPath := testutil.WriteFile(t, "board.json", testutil.BoardJSON)

			buf := &bytes.Buffer{}
			cmd := NewRenderCommand(validateOpts(t, "text"))
			cmd.SetOut(buf)
			cmd.SetArgs(append(tt.args, boardPath))

			require.NoError(t, cmd.Execute())
			assert.Equal(t, string(tt.want), strings.TrimSuffix(buf.String(), "\n"))
		})
	}
}

func TestRenderJSONWrapsView(t *testing.T) {
	boardPath := testutil.WriteFile(t, "board.json", testutil.BoardJSON)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(validateOpts(t, "json"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--view", "config", boardPath})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Code     string          `json:"code"`
			Projects json.RawMessage `json:"projects"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testutil.BoardCode, resp.Data.Code)
	assert.NotEmpty(t, resp.Data.Projects)
}

func TestRenderConfigViewRevalidates(t *testing.T) {
	boardPath := testutil.WriteFile(t, "board.json", testutil.BoardJSON)
	opts := validateOpts(t, "text")

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--view", "config", boardPath})
	require.NoError(t, cmd.Execute())

	// The config view is itself a valid board document.
	normalized := testutil.WriteFile(t, "normalized.json", buf.String())
	again := &bytes.Buffer{}
	cmd = NewRenderCommand(opts)
	cmd.SetOut(again)
	cmd.SetArgs([]string{"--view", "config", normalized})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, buf.String(), again.String())
}

func TestRenderInvalidView(t *testing.T) {
	boardPath := testutil.WriteFile(t, "board.json", testutil.BoardJSON)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(validateOpts(t, "text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--view", "table", boardPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error ["+ErrCodeBadArgument+"]")
}

func TestRenderInvalidBoard(t *testing.T) {
	boardPath := testutil.WriteFile(t, "broken.json", testutil.InvalidBoardJSON)

	buf := &bytes.Buffer{}
	cmd := NewRenderCommand(validateOpts(t, "text"))
	cmd.SetOut(buf)
	cmd.SetArgs([]string{boardPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E220]")
}

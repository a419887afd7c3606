package json_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/datasage"
	dsjson "github.com/fwojciec/datasage/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatSession(t *testing.T) *datasage.Session {
	t.Helper()
	d, err := datasage.NewDataset("sales.csv", []string{"region", "sales"}, [][]string{{"north", "10"}})
	require.NoError(t, err)
	return &datasage.Session{
		ID:        "sess-123",
		Dataset:   &d,
		Input:     "Which region sells most?",
		CreatedAt: time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 2, 18, 12, 5, 0, 0, time.UTC),
		Messages: []datasage.Message{
			datasage.UserMessage{Content: "Which region sells most?", Timestamp: time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)},
			datasage.AssistantMessage{
				Content:    "North, with 10 units.",
				Model:      "gemini-2.5-flash",
				StopReason: datasage.StopEndTurn,
				Usage:      datasage.Usage{InputTokens: 150, OutputTokens: 42},
				Timestamp:  time.Date(2026, 2, 18, 12, 0, 1, 0, time.UTC),
			},
		},
	}
}

func TestMarshalSession_RoundTrip(t *testing.T) {
	t.Parallel()
	session := chatSession(t)

	data, err := dsjson.MarshalSession(session)
	require.NoError(t, err)
	got, err := dsjson.UnmarshalSession(data)
	require.NoError(t, err)

	assert.Equal(t, "sess-123", got.ID)
	assert.Equal(t, session.Input, got.Input)
	assert.Nil(t, got.Dataset)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, session.UpdatedAt.Equal(got.UpdatedAt))
	require.Len(t, got.Messages, 2)

	um, ok := got.Messages[0].(datasage.UserMessage)
	require.True(t, ok, "expected UserMessage")
	assert.Equal(t, "Which region sells most?", um.Content)

	am, ok := got.Messages[1].(datasage.AssistantMessage)
	require.True(t, ok, "expected AssistantMessage")
	assert.Equal(t, "North, with 10 units.", am.Content)
	assert.Equal(t, "gemini-2.5-flash", am.Model)
	assert.Equal(t, datasage.StopEndTurn, am.StopReason)
	assert.Equal(t, datasage.Usage{InputTokens: 150, OutputTokens: 42}, am.Usage)

	require.NotNil(t, got.Last)
	assert.Equal(t, "North, with 10 units.", got.Last.Text)
	assert.Equal(t, 1, got.Exchanges())
}

func TestMarshalSession_JSONFieldNames(t *testing.T) {
	t.Parallel()
	data, err := dsjson.MarshalSession(chatSession(t))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"version", "id", "dataset", "input", "created_at", "updated_at", "messages"} {
		assert.Contains(t, raw, key)
	}
	var version int
	require.NoError(t, json.Unmarshal(raw["version"], &version))
	assert.Equal(t, 1, version)
	var dataset string
	require.NoError(t, json.Unmarshal(raw["dataset"], &dataset))
	assert.Equal(t, "sales.csv", dataset)

	var msgs []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["messages"], &msgs))
	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs[0], "usage")
	for _, key := range []string{"type", "content", "timestamp", "model", "stop_reason", "usage"} {
		assert.Contains(t, msgs[1], key)
	}
	var usage map[string]int
	require.NoError(t, json.Unmarshal(msgs[1]["usage"], &usage))
	assert.Equal(t, map[string]int{"input_tokens": 150, "output_tokens": 42}, usage)
}

func TestMarshalSession_Empty(t *testing.T) {
	t.Parallel()
	s := datasage.NewSession(nil)
	data, err := dsjson.MarshalSession(s)
	require.NoError(t, err)

	got, err := dsjson.UnmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Empty(t, got.Messages)
	assert.Nil(t, got.Last)
}

func TestSave_And_Load(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "deep", "session.json")

	require.NoError(t, dsjson.Save(path, chatSession(t)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := dsjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sess-123", got.ID)
	require.Len(t, got.Messages, 2)
}

func TestLoad_NonexistentFile(t *testing.T) {
	t.Parallel()
	_, err := dsjson.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestUnmarshalSession_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", `{"version":`, "unmarshal envelope"},
		{"unsupported version", `{"version": 99, "id": "x", "messages": []}`, "unsupported envelope version"},
		{"unknown message type", `{"version": 1, "id": "x", "messages": [{"type": "tool_result", "content": ""}]}`, "unknown message type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := dsjson.UnmarshalSession([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewAnalysis(t *testing.T) {
	t.Parallel()
	d, err := datasage.NewDataset("staff.csv", []string{"name", "age"}, [][]string{
		{"ann", "31"},
		{"bob", ""},
		{"ann", "31"},
		{"cy", "45"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dsjson.Write(&buf, dsjson.NewAnalysis(d)))

	var got struct {
		Summary struct {
			Name          string `json:"name"`
			Rows          int    `json:"rows"`
			DuplicateRows int    `json:"duplicate_rows"`
			ColumnDetails []struct {
				Name  string              `json:"name"`
				Kind  string              `json:"kind"`
				Stats *map[string]float64 `json:"stats"`
			} `json:"column_details"`
		} `json:"summary"`
		Quality struct {
			Score       float64             `json:"score"`
			Missing     map[string]any      `json:"missing_data"`
			Duplicates  map[string]any      `json:"duplicates"`
			Suggestions map[string][]string `json:"suggestions"`
		} `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "staff.csv", got.Summary.Name)
	assert.Equal(t, 4, got.Summary.Rows)
	assert.Equal(t, 1, got.Summary.DuplicateRows)
	require.Len(t, got.Summary.ColumnDetails, 2)
	assert.Nil(t, got.Summary.ColumnDetails[0].Stats)
	require.NotNil(t, got.Summary.ColumnDetails[1].Stats)
	assert.Equal(t, 31.0, (*got.Summary.ColumnDetails[1].Stats)["median"])

	assert.Less(t, got.Quality.Score, 100.0)
	assert.EqualValues(t, 1, got.Quality.Missing["total_missing"])
	assert.EqualValues(t, 1, got.Quality.Duplicates["total_duplicates"])
	assert.Contains(t, got.Quality.Suggestions, "duplicates")
	assert.Contains(t, got.Quality.Suggestions, "missing_data")
}

func TestNewAnalysis_NonFiniteCells(t *testing.T) {
	t.Parallel()
	d, err := datasage.NewDataset("odd.csv", []string{"v"}, [][]string{{"1"}, {"inf"}, {"3"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dsjson.Write(&buf, dsjson.NewAnalysis(d)))
	assert.Contains(t, buf.String(), `"kind": "text"`)
}

func TestNewQuery(t *testing.T) {
	t.Parallel()
	d, err := datasage.NewDataset("t.csv", []string{"a"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	head := d.Head(1)

	q := dsjson.NewQuery("first 1 rows", datasage.QueryResult{Text: "First 1 rows:", Table: &head})
	assert.Equal(t, []string{"a"}, q.Columns)
	assert.Equal(t, [][]string{{"1"}}, q.Rows)

	plain := dsjson.NewQuery("shape", datasage.QueryResult{Text: "2 rows"})
	data, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"shape","answer":"2 rows"}`, string(data))
}

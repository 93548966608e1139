package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLSinkEmit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	s, err := NewJSONLSink(path, 0)
	require.NoError(t, err)

	cp := int64(7)
	e := Event{
		EventID:        "evt_test",
		Timestamp:      time.Now().UTC(),
		UserID:         1,
		Operation:      "ISSUE_CHECK",
		Status:         "SUCCESS",
		CounterpartyID: &cp,
		Amount:         "125.5",
		Confidence:     0.9,
		Context:        "issue a check",
	}
	require.NoError(t, s.Emit(context.Background(), e))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())

	var got Event
	require.NoError(t, json.Unmarshal(sc.Bytes(), &got))
	assert.Equal(t, "evt_test", got.EventID)
	assert.Equal(t, "ISSUE_CHECK", got.Operation)
	assert.Equal(t, "125.5", got.Amount)
	require.NotNil(t, got.CounterpartyID)
	assert.Equal(t, int64(7), *got.CounterpartyID)

	assert.False(t, sc.Scan())
}

func TestJSONLSinkRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	s, err := NewJSONLSink(path, 64)
	require.NoError(t, err)

	e := Event{EventID: "evt_a", Operation: "ISSUE_CHECK", Status: "SUCCESS"}
	require.NoError(t, s.Emit(context.Background(), e))
	e.EventID = "evt_b"
	require.NoError(t, s.Emit(context.Background(), e))
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "expected the first segment to be rotated out")

	// The live file holds only the most recent event.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "evt_b")
	assert.NotContains(t, string(data), "evt_a")
}

func TestJSONLSinkRequiresPath(t *testing.T) {
	_, err := NewJSONLSink("   ", 0)
	require.Error(t, err)
}

func TestJSONLSinkNilSafe(t *testing.T) {
	var s *JSONLSink
	require.NoError(t, s.Emit(context.Background(), Event{}))
	require.NoError(t, s.Close())
}

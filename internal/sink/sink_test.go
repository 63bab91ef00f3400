package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
	"github.com/naka-gawa/pr-quality-stats/internal/logger"
)

func sampleEvents() []domain.Event {
	total, quality := 10, 0
	return []domain.Event{
		{ID: domain.EventTotalPRs, Current: &total},
		{ID: domain.EventQualityPercentage, Value: &quality},
		{ID: domain.EventTopQualityDevs, Items: []domain.Item{{Label: "kalecser", Value: 2}, {Label: "vinivf", Value: 1}}},
		{ID: domain.EventLastQualityPRPhoto, Image: "https://avatars/k", Link: "https://example/pull/2"},
	}
}

func TestJSON_Emit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).Emit(context.Background(), sampleEvents()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 4)
	assert.Equal(t, "total_prs", decoded[0]["id"])
	assert.Equal(t, float64(10), decoded[0]["current"])
	assert.Equal(t, float64(0), decoded[1]["value"], "zero values must still be emitted")
}

func TestJSON_Emit_EmptyRankingKeepsItems(t *testing.T) {
	total := 1
	events := []domain.Event{
		{ID: domain.EventTotalPRs, Current: &total},
		{ID: domain.EventTopQualityDevs, Items: []domain.Item{}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).Emit(context.Background(), events))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, map[string]any{"id": "total_prs", "current": float64(1)}, decoded[0])
	assert.Equal(t, map[string]any{"id": "top_quality_devs", "items": []any{}}, decoded[1])
}

func TestDashboard_Emit(t *testing.T) {
	var mu sync.Mutex
	received := make(map[string]map[string]any)
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		mu.Lock()
		received[r.URL.Path] = payload
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	d := NewDashboard(server.URL+"/", "secret", server.Client(), logger.Discard())
	require.NoError(t, d.Emit(context.Background(), sampleEvents()))

	require.Len(t, received, 4)
	assert.Equal(t, map[string]any{"auth_token": "secret", "current": float64(10)}, received["/widgets/total_prs"])
	assert.Equal(t, map[string]any{"auth_token": "secret", "value": float64(0)}, received["/widgets/quality_percentage"])
	assert.Equal(t, "https://avatars/k", received["/widgets/last_quality_pr_photo"]["image"])
	items := received["/widgets/top_quality_devs"]["items"].([]any)
	assert.Equal(t, map[string]any{"label": "kalecser", "value": float64(2)}, items[0])
}

func TestDashboard_Emit_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "Invalid API key")
	}))
	defer server.Close()

	err := NewDashboard(server.URL, "wrong", nil, logger.Discard()).Emit(context.Background(), sampleEvents())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard rejected event total_prs")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestDashboard_Emit_InvalidEventSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	events := append(sampleEvents(), domain.Event{Items: []domain.Item{}})
	err := NewDashboard(server.URL, "secret", server.Client(), logger.Discard()).Emit(context.Background(), events)
	assert.ErrorContains(t, err, "event without an ID")
	assert.Zero(t, calls.Load())
}

func TestTextfile_Emit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr_quality.prom")
	require.NoError(t, NewTextfile(path).Emit(context.Background(), sampleEvents()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "pr_quality_total_prs 10")
	assert.Contains(t, out, "pr_quality_quality_percentage 0")
	assert.Contains(t, out, `pr_quality_top_quality_devs{label="kalecser",rank="1"} 2`)
	assert.Contains(t, out, `pr_quality_last_quality_pr_photo_info{image="https://avatars/k",link="https://example/pull/2"} 1`)
}

type failingSink struct{ err error }

func (f failingSink) Emit(context.Context, []domain.Event) error { return f.err }

func TestMulti_Emit(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	err := Multi{failingSink{err: boom}, NewJSON(&buf)}.Emit(context.Background(), sampleEvents())
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, buf.String(), "later sinks still run")
}

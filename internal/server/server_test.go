package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) Snapshot() *models.Snapshot {
	args := m.Called()
	return args.Get(0).(*models.Snapshot)
}

func (m *MockDashboard) Load(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockDashboard) Mentions(ctx context.Context, query backend.MentionsQuery) ([]models.MentionItem, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.MentionItem), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockArchive) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func readySnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:    "snap-1",
		State: models.StateReady,
		Days:  30,
		Summary: &models.SummaryView{
			Total: 10,
			Meter: 55,
		},
		Platforms: []models.PlatformShare{
			{PlatformStat: models.PlatformStat{Name: "Twitter", Value: 10, Total: 10, Color: "#1DA1F2"}, Percentage: 100},
		},
		Timeline:    []models.TimelineDataPoint{{Date: "2024-05-01", Positive: 4, Neutral: 1}},
		TimelineMax: 4,
		TopMentions: []models.MentionCard{{Placeholder: true}},
		Words:       []models.WordView{{Text: "education", Value: 100, Color: "#F44336", FontSize: 48}},
	}
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Snapshot").Return(&models.Snapshot{State: models.StateLoading})

	rec := serve(NewServer(dashboard, nil, time.Second), "GET", "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"state":"loading"`)
}

func TestPanels_NotReady(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Snapshot").Return(&models.Snapshot{State: models.StateError, Error: "failed to fetch top mentions"})
	s := NewServer(dashboard, nil, time.Second)

	for _, path := range []string{"/api/summary", "/api/platforms", "/api/timeline", "/api/top-mentions", "/api/words"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(s, "GET", path)

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			var payload statePayload
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, models.StateError, payload.State)
			assert.Equal(t, "failed to fetch top mentions", payload.Error)
		})
	}
}

func TestPanels_Ready(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Snapshot").Return(readySnapshot())
	s := NewServer(dashboard, nil, time.Second)

	tests := []struct {
		path     string
		contains string
	}{
		{"/api/summary", `"total":10`},
		{"/api/platforms", `"percentage":100`},
		{"/api/timeline", `"max":4`},
		{"/api/top-mentions", `"placeholder":true`},
		{"/api/words", `"font_size":48`},
		{"/api/snapshot", `"id":"snap-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(s, "GET", tt.path)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestMentions(t *testing.T) {
	dashboard := &MockDashboard{}
	query := backend.MentionsQuery{Days: 7, Platform: "reddit", Sentiment: "negative"}
	dashboard.On("Mentions", mock.Anything, query).Return([]models.MentionItem{{Platform: "reddit", Text: "meh"}}, nil)

	rec := serve(NewServer(dashboard, nil, time.Second), "GET", "/api/mentions?days=7&platform=reddit&sentiment=negative")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"meh"`)
	dashboard.AssertExpectations(t)
}

func TestMentions_BadRequest(t *testing.T) {
	s := NewServer(&MockDashboard{}, nil, time.Second)

	for _, target := range []string{"/api/mentions?days=abc", "/api/mentions?days=0", "/api/mentions?sentiment=angry"} {
		t.Run(target, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, serve(s, "GET", target).Code)
		})
	}
}

func TestMentions_BackendFailure(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Mentions", mock.Anything, backend.MentionsQuery{}).Return([]models.MentionItem(nil), errors.New("failed to fetch mentions"))

	rec := serve(NewServer(dashboard, nil, time.Second), "GET", "/api/mentions")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to fetch mentions")
}

func TestReload_Wait(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Load", mock.Anything).Return(readySnapshot(), nil)

	rec := serve(NewServer(dashboard, nil, time.Second), "POST", "/api/reload?wait=true")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"ready"`)
}

func TestReload_WaitFailure(t *testing.T) {
	dashboard := &MockDashboard{}
	dashboard.On("Load", mock.Anything).Return(&models.Snapshot{State: models.StateError, Error: "boom"}, errors.New("boom"))

	rec := serve(NewServer(dashboard, nil, time.Second), "POST", "/api/reload?wait=true")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"boom"`)
}

func TestReload_Async(t *testing.T) {
	dashboard := &MockDashboard{}
	loaded := make(chan struct{})
	dashboard.On("Load", mock.Anything).Run(func(mock.Arguments) {
		close(loaded)
	}).Return(readySnapshot(), nil)

	rec := serve(NewServer(dashboard, nil, time.Second), "POST", "/api/reload")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case <-loaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload did not start a fetch cycle")
	}
}

func TestReload_MethodNotAllowed(t *testing.T) {
	rec := serve(NewServer(&MockDashboard{}, nil, time.Second), "GET", "/api/reload")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestArchive(t *testing.T) {
	archive := &MockArchive{}
	archive.On("List", mock.Anything).Return([]string{"snapshot-20240502-090000-b.json", "snapshot-20240501-090000-a.json"}, nil)
	archive.On("Load", mock.Anything, "snapshot-20240501-090000-a.json").Return(readySnapshot(), nil)
	archive.On("Load", mock.Anything, "snapshot-missing.json").Return((*models.Snapshot)(nil), storage.ErrNotFound)
	s := NewServer(&MockDashboard{}, archive, time.Second)

	rec := serve(s, "GET", "/api/archive")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `["snapshot-20240502`))

	rec = serve(s, "GET", "/api/archive/snapshot-20240501-090000-a.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"snap-1"`)

	rec = serve(s, "GET", "/api/archive/snapshot-missing.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchive_NotConfigured(t *testing.T) {
	s := NewServer(&MockDashboard{}, nil, time.Second)

	assert.Equal(t, http.StatusNotFound, serve(s, "GET", "/api/archive").Code)
	assert.Equal(t, http.StatusNotFound, serve(s, "GET", "/api/archive/snapshot-x.json").Code)
}

func TestMetrics(t *testing.T) {
	rec := serve(NewServer(&MockDashboard{}, nil, time.Second), "GET", "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
}

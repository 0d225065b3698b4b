package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "storescout/internal/common/errors"
	"storescout/internal/common/logger"
	"storescout/internal/models"
)

type fakeRepo struct {
	mu        sync.Mutex
	inserted  []*models.AnalysisRequest
	byID      map[string]*models.AnalysisRequest
	insertErr error
}

func (r *fakeRepo) Insert(ctx context.Context, req *models.AnalysisRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, req)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.AnalysisRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.byID[id]; ok {
		return req, nil
	}
	return nil, stderrors.NewAnalysisNotFoundError(id)
}

type fakeProcessor struct {
	mu        sync.Mutex
	processed []*models.AnalysisRequest
	done      chan struct{}
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{done: make(chan struct{}, 8)}
}

func (p *fakeProcessor) Process(ctx context.Context, req *models.AnalysisRequest) {
	p.mu.Lock()
	p.processed = append(p.processed, req)
	p.mu.Unlock()
	p.done <- struct{}{}
}

func (p *fakeProcessor) waitOne(t *testing.T) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}
}

func newTestServer(t *testing.T, repo *fakeRepo, p *fakeProcessor) http.Handler {
	t.Helper()
	h := NewHandler(repo, p, logger.NewTestLogger(t))
	return NewRouter(h, logger.NewTestLogger(t))
}

func postJSON(t *testing.T, h http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateAnalysis_Accepted(t *testing.T) {
	repo := &fakeRepo{}
	proc := newFakeProcessor()
	srv := newTestServer(t, repo, proc)

	w := postJSON(t, srv, "/api/v1/analyses", map[string]interface{}{
		"address":      "서울 성동구 성수동",
		"industryCode": "cafe",
		"industryName": "카페",
		"radiusM":      500,
		"districtCode": "11200",
	})

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(models.StatusPending), resp.Status)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, resp.ID, repo.inserted[0].ID)

	proc.waitOne(t)
	assert.Equal(t, resp.ID, proc.processed[0].ID)
}

func TestCreateAnalysis_MissingFields(t *testing.T) {
	srv := newTestServer(t, &fakeRepo{}, newFakeProcessor())

	w := postJSON(t, srv, "/api/v1/analyses", map[string]interface{}{
		"radiusM": 500,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), stderrors.ErrCodeAnalysisInvalidInput)
}

func TestCreateAnalysis_UnsupportedRadius(t *testing.T) {
	repo := &fakeRepo{}
	proc := newFakeProcessor()
	srv := newTestServer(t, repo, proc)

	w := postJSON(t, srv, "/api/v1/analyses", map[string]interface{}{
		"address":      "서울",
		"industryCode": "cafe",
		"radiusM":      999,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.inserted)
}

func TestCreateAnalysis_InsertFailure(t *testing.T) {
	repo := &fakeRepo{insertErr: stderrors.NewQueryExecutionFailedError(errors.New("connection reset"))}
	srv := newTestServer(t, repo, newFakeProcessor())

	w := postJSON(t, srv, "/api/v1/analyses", map[string]interface{}{
		"address":      "서울",
		"industryCode": "cafe",
		"radiusM":      500,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAnalysis_Completed(t *testing.T) {
	score := 72
	repo := &fakeRepo{byID: map[string]*models.AnalysisRequest{
		"a-1": {
			ID:         "a-1",
			Address:    "서울 성동구",
			Status:     models.StatusCompleted,
			TotalScore: &score,
			Report:     json.RawMessage(`{"totalScore":72}`),
		},
	}}
	srv := newTestServer(t, repo, newFakeProcessor())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/a-1", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCompleted, resp.Status)
	require.NotNil(t, resp.TotalScore)
	assert.Equal(t, 72, *resp.TotalScore)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeRepo{}, newFakeProcessor())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), stderrors.ErrCodeAnalysisNotFound)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeRepo{}, newFakeProcessor())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeRepo{}, newFakeProcessor())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

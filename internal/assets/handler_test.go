package assets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubEnqueuer struct {
	calls int
	asOf  time.Time
	err   error
}

func (e *stubEnqueuer) EnqueueDepreciationRun(ctx context.Context, asOf time.Time) error {
	e.calls++
	e.asOf = asOf
	return e.err
}

func testRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/assets", h.MountRoutes)
	r.Route("/api/admin", h.MountAdminRoutes)
	return r
}

func TestScrapEndpoint(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	seedAsset(repo, 1, 1000, 10, 100)
	svc := NewService(repo, dir, nil)
	svc.WithNow(func() time.Time { return day(2026, time.September, 1) })
	router := testRouter(NewHandler(discardLogger(), svc, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assets/1/scrap", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, StatusScrapped, resp.Status)
	require.NotNil(t, resp.ScrapEntryID)

	// Scrapping again conflicts with the current state.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assets/1/scrap", nil))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestScrapEndpointNotFound(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	svc := NewService(repo, dir, nil)
	router := testRouter(NewHandler(discardLogger(), svc, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assets/99/scrap", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assets/bogus/scrap", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapEndpointMissingConfiguration(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	delete(dir.defaults, 1)
	repo.categories = map[accountsKey]CategoryAccounts{}
	seedAsset(repo, 1, 1000, 10, 100)
	svc := NewService(repo, dir, nil)
	router := testRouter(NewHandler(discardLogger(), svc, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assets/1/scrap", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDisposalPreviewEndpoint(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	a := seedAsset(repo, 1, 1000, 10, 100)
	a.CurrentValue = 400
	svc := NewService(repo, dir, nil)
	router := testRouter(NewHandler(discardLogger(), svc, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets/1/disposal-preview?selling_amount=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DisposalPreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.AssetID)
	require.InDelta(t, 500, resp.SellingAmount, 0.001)
	require.Len(t, resp.Lines, 3)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets/1/disposal-preview?selling_amount=abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assets/1/disposal-preview?selling_amount=-5", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunDepreciationEndpoint(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	svc := NewService(repo, dir, nil)
	enq := &stubEnqueuer{}
	router := testRouter(NewHandler(discardLogger(), svc, enq, nil))

	body := strings.NewReader(`{"as_of_date":"2026-03-31"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/depreciation/run", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enq.calls)
	require.Equal(t, day(2026, time.March, 31), enq.asOf)

	// An empty body enqueues with the zero date, meaning "today" downstream.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/depreciation/run", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.True(t, enq.asOf.IsZero())

	badBody := strings.NewReader(`{"as_of_date":"31/03/2026"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/admin/depreciation/run", badBody)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunDepreciationEndpointNoWorker(t *testing.T) {
	repo := newMemoryAssetRepo()
	dir := fullConfig(repo)
	svc := NewService(repo, dir, nil)
	router := testRouter(NewHandler(discardLogger(), svc, nil, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/depreciation/run", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

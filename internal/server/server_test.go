// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

// fakeRecommender records the preferences it received and returns resp.
type fakeRecommender struct {
	resp     types.Response
	got      types.Preferences
	calls    int
	deadline bool
	reqID    string
}

func (f *fakeRecommender) Recommend(ctx context.Context, prefs types.Preferences) types.Response {
	f.calls++
	f.got = prefs
	_, f.deadline = ctx.Deadline()
	f.reqID = logging.RequestID(ctx)
	return f.resp
}

func okResponse() types.Response {
	return types.Response{
		RecommendedMovies: []types.Recommendation{{ID: 550, Content: "Title: Fight Club."}},
		Kind:              types.OutcomeOK,
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRecommend_Success(t *testing.T) {
	fake := &fakeRecommender{resp: okResponse()}
	s := New(types.ServerConfig{}, fake)

	rec := do(t, s, http.MethodPost, "/recommend", `{
		"mood": "excited",
		"preferred_length": 120,
		"language": "en",
		"era": "actual",
		"popularity": false,
		"selected_genres": ["Action"],
		"number_recommended": 2,
		"previous_ids": [1, 2, 3]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"recommended_movies":[{"id":550,"content":"Title: Fight Club."}]}`, rec.Body.String())

	assert.Equal(t, "excited", fake.got.Mood)
	require.NotNil(t, fake.got.PreferredLength)
	assert.Equal(t, 120, *fake.got.PreferredLength)
	assert.False(t, fake.got.IsMainstream())
	assert.Equal(t, 2, fake.got.Count())
	assert.Equal(t, []int64{1, 2, 3}, fake.got.PreviousIDs)
}

func TestRecommend_EmptyBodyUsesDefaults(t *testing.T) {
	fake := &fakeRecommender{resp: okResponse()}
	s := New(types.ServerConfig{}, fake)

	rec := do(t, s, http.MethodPost, "/recommend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fake.calls)
	assert.True(t, fake.got.IsMainstream())
	assert.Equal(t, types.DefaultNumberRecommended, fake.got.Count())
}

func TestRecommend_PipelineErrorShape(t *testing.T) {
	fake := &fakeRecommender{resp: types.ErrorResponse(types.OutcomeNoMatch, "No matching movies.")}
	s := New(types.ServerConfig{}, fake)

	rec := do(t, s, http.MethodPost, "/recommend", `{"mood":"happy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"No matching movies.","recommended_movies":[]}`, rec.Body.String())
}

func TestRecommend_InvalidRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed json", `{"mood":`, "Invalid request body"},
		{"wrong type", `{"preferred_length":"long"}`, "Invalid request body"},
		{"unknown mood", `{"mood":"grumpy"}`, "mood: must be one of"},
		{"count too high", `{"number_recommended":50}`, "number_recommended: must be at most 20"},
		{"count zero", `{"number_recommended":0}`, "number_recommended: must be at least 1"},
		{"negative length", `{"preferred_length":-1}`, "preferred_length: must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecommender{resp: okResponse()}
			s := New(types.ServerConfig{}, fake)

			rec := do(t, s, http.MethodPost, "/recommend", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			out := decode(t, rec)
			assert.Contains(t, out["error"], tt.wantMsg)
			assert.Equal(t, []any{}, out["recommended_movies"])
			assert.Zero(t, fake.calls)
		})
	}
}

func TestRecommend_RequestTimeoutApplied(t *testing.T) {
	fake := &fakeRecommender{resp: okResponse()}
	s := New(types.ServerConfig{RequestTimeout: time.Minute}, fake)

	do(t, s, http.MethodPost, "/recommend", `{}`)
	assert.True(t, fake.deadline)
}

func TestRequestID(t *testing.T) {
	fake := &fakeRecommender{resp: okResponse()}
	s := New(types.ServerConfig{}, fake)

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(`{}`))
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "req-123", fake.reqID)

	rec = do(t, s, http.MethodPost, "/recommend", `{}`)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, rec.Header().Get(requestIDHeader), fake.reqID)
}

func TestIndexAndHealth(t *testing.T) {
	s := New(types.ServerConfig{}, &fakeRecommender{})

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "Movie Recommendation API", out["message"])

	rec = do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"movie-recommendation-api"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(types.ServerConfig{}, &fakeRecommender{})

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMethodNotAllowed(t *testing.T) {
	s := New(types.ServerConfig{}, &fakeRecommender{})
	rec := do(t, s, http.MethodGet, "/recommend", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s := New(types.ServerConfig{CORSOrigins: []string{"https://movies.example"}}, &fakeRecommender{resp: okResponse()})

	req := httptest.NewRequest(http.MethodOptions, "/recommend", nil)
	req.Header.Set("Origin", "https://movies.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "https://movies.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/recommend", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	fake := &fakeRecommender{resp: okResponse()}
	s := New(types.ServerConfig{RateLimit: 2}, fake)

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodPost, "/recommend", `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, s, http.MethodPost, "/recommend", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Too many requests.", out["error"])
	assert.Equal(t, 2, fake.calls)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := New(types.ServerConfig{Addr: "127.0.0.1:0"}, &fakeRecommender{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

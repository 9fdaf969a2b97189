package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/engrave/pkg/pipeline"
	"github.com/matzehuels/engrave/pkg/store"
)

const testScore = `
title = "Server test"
time = "2/4"

[[staves]]

[[staves.voices]]
notes = [
    { keys = ["c/5"], duration = "q" },
    { rest = true, duration = "q" },
    { bar = true },
]
`

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	s, err := New(Config{
		Runner: pipeline.NewRunner(nil, nil, nil),
		Store:  st,
	})
	require.NoError(t, err)
	return s, st
}

func postRender(t *testing.T, s *Server, req renderRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader(body)))
	return rec
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{Store: store.NewMemoryStore()})
	assert.Error(t, err)

	_, err = New(Config{Runner: pipeline.NewRunner(nil, nil, nil)})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRender(t *testing.T) {
	s, st := newTestServer(t)

	rec := postRender(t, s, renderRequest{
		Score:   []byte(testScore),
		Formats: []string{"svg", "json"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.DocHash)
	assert.Equal(t, "Server test", resp.Title)
	assert.Equal(t, 1, resp.Stats.StaveCount)
	assert.Equal(t, 3, resp.Stats.NoteCount)
	assert.Len(t, resp.Layout.Ticks, 3)
	assert.True(t, strings.Contains(string(resp.Artifacts["svg"]), "<svg"))

	// The layout was persisted under the returned id
	doc, err := st.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.DocHash, doc.ScoreHash)
}

func TestRenderBadRequest(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderInvalidScore(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postRender(t, s, renderRequest{Score: []byte("time = \"4/4\"")})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestGetLayout(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postRender(t, s, renderRequest{Score: []byte(testScore)})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts/"+resp.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc store.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, resp.ID, doc.ID)
	assert.Len(t, doc.Layout.Ticks, 3)
}

func TestGetLayoutNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLayouts(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, http.StatusOK, postRender(t, s, renderRequest{Score: []byte(testScore)}).Code)
	require.Equal(t, http.StatusOK, postRender(t, s, renderRequest{Score: []byte(testScore), Width: 600}).Code)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []*store.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
}

func TestDeleteLayout(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postRender(t, s, renderRequest{Score: []byte(testScore)})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/layouts/"+resp.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layouts/"+resp.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	s, _ := newTestServer(t)

	huge := bytes.Repeat([]byte("a"), maxScoreBytes+1)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", bytes.NewReader(huge)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

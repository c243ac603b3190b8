package docs

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocsRouter(store *PageStore) *mux.Router {
	router := mux.NewRouter()
	NewDocsHandlers(store).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPageStore(t *testing.T) {
	store := NewPageStore()

	names, updated := store.Names()
	assert.Empty(t, names)
	assert.True(t, updated.IsZero())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store.Replace([]Page{
		{Name: "b.proto.md", Content: "B"},
		{Name: "a.proto.md", Content: "A"},
	}, at)

	names, updated = store.Names()
	assert.Equal(t, []string{"b.proto.md", "a.proto.md"}, names)
	assert.Equal(t, at, updated)

	page, ok := store.Get("a.proto.md")
	require.True(t, ok)
	assert.Equal(t, "A", page.Content)

	// a new render replaces the whole set
	store.Replace([]Page{{Name: "c.proto.md", Content: "C"}}, at.Add(time.Minute))
	_, ok = store.Get("a.proto.md")
	assert.False(t, ok)
	names, _ = store.Names()
	assert.Equal(t, []string{"c.proto.md"}, names)
}

func TestDocsHandlers_BeforeFirstRender(t *testing.T) {
	router := newDocsRouter(NewPageStore())

	assert.Equal(t, http.StatusServiceUnavailable, serve(router, "/docs").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "/docs/a.proto.md").Code)
}

func TestDocsHandlers_ListPages(t *testing.T) {
	store := NewPageStore()
	store.Replace([]Page{{Name: "z.md"}, {Name: "a.md"}}, time.Now())
	router := newDocsRouter(store)

	rec := serve(router, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	var index PageIndex
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&index))
	assert.Equal(t, []string{"z.md", "a.md"}, index.Pages)
	assert.Equal(t, 2, index.Count)

	rec = serve(router, "/docs?sorted=true")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&index))
	assert.Equal(t, []string{"a.md", "z.md"}, index.Pages)

	assert.Equal(t, http.StatusBadRequest, serve(router, "/docs?sorted=perhaps").Code)
}

func TestDocsHandlers_GetPage(t *testing.T) {
	store := NewPageStore()
	store.Replace([]Page{
		{Name: "greeter.v1.greeter.proto.md", Content: greeterMarkdown},
		{Name: "out/api.md", Content: "# all\n"},
		{Name: `team "core"; api.md`, Content: "# core\n"},
	}, time.Now())
	router := newDocsRouter(store)

	t.Run("markdown", func(t *testing.T) {
		rec := serve(router, "/docs/greeter.v1.greeter.proto.md")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, httputil.MarkdownContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, greeterMarkdown, rec.Body.String())
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})

	t.Run("name with slash", func(t *testing.T) {
		rec := serve(router, "/docs/out/api.md")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# all\n", rec.Body.String())
	})

	t.Run("download", func(t *testing.T) {
		rec := serve(router, "/docs/out/api.md?download=true")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "attachment; filename=api.md", rec.Header().Get("Content-Disposition"))
	})

	t.Run("download quotes filename", func(t *testing.T) {
		rec := serve(router, "/docs/team%20%22core%22%3B%20api.md?download=true")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# core\n", rec.Body.String())

		disposition := rec.Header().Get("Content-Disposition")
		assert.Equal(t, `attachment; filename="team \"core\"; api.md"`, disposition)
		mediaType, params, err := mime.ParseMediaType(disposition)
		require.NoError(t, err)
		assert.Equal(t, "attachment", mediaType)
		assert.Equal(t, `team "core"; api.md`, params["filename"])
	})

	t.Run("missing", func(t *testing.T) {
		rec := serve(router, "/docs/nope.md")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "nope.md")
	})

	t.Run("bad query", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, serve(router, "/docs/out/api.md?download=x").Code)
	})
}

package docs

import (
	"mime"
	"net/http"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/httputil"
)

// PageStore holds the pages of the most recent successful render
type PageStore struct {
	mu      sync.RWMutex
	pages   map[string]Page
	order   []string
	updated time.Time
}

// NewPageStore creates an empty store
func NewPageStore() *PageStore {
	return &PageStore{}
}

// Replace swaps in a complete page set
func (s *PageStore) Replace(pages []Page, at time.Time) {
	byName := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		if _, dup := byName[p.Name]; !dup {
			order = append(order, p.Name)
		}
		byName[p.Name] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = byName
	s.order = order
	s.updated = at
}

// Get returns the page called name
func (s *PageStore) Get(name string) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[name]
	return p, ok
}

// Names returns page names in render order and the time of the render.
// A zero time means nothing has been rendered.
func (s *PageStore) Names() ([]string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), s.updated
}

// PageIndex is the JSON listing served at /docs
type PageIndex struct {
	Pages   []string  `json:"pages"`
	Count   int       `json:"count"`
	Updated time.Time `json:"updated"`
}

// DocsHandlers serves rendered pages over HTTP
type DocsHandlers struct {
	store *PageStore
}

// NewDocsHandlers creates handlers reading from store
func NewDocsHandlers(store *PageStore) *DocsHandlers {
	return &DocsHandlers{store: store}
}

// RegisterRoutes registers documentation routes
func (h *DocsHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/docs", h.listPages).Methods(http.MethodGet)
	// Single-document names may contain slashes.
	router.HandleFunc("/docs/{page:.+}", h.getPage).Methods(http.MethodGet)
}

// listPages handles GET /docs
func (h *DocsHandlers) listPages(w http.ResponseWriter, r *http.Request) {
	names, updated := h.store.Names()
	if updated.IsZero() {
		httputil.WriteServiceUnavailable(w, "documentation has not been rendered yet")
		return
	}

	sorted, ok := httputil.ParseQueryBoolOrError(w, r, "sorted", false)
	if !ok {
		return
	}
	if sorted {
		sort.Strings(names)
	}

	httputil.WriteSuccess(w, PageIndex{
		Pages:   names,
		Count:   len(names),
		Updated: updated,
	})
}

// getPage handles GET /docs/{page}
func (h *DocsHandlers) getPage(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "page")
	if !ok {
		return
	}
	download, ok := httputil.ParseQueryBoolOrError(w, r, "download", false)
	if !ok {
		return
	}

	page, found := h.store.Get(name)
	if !found {
		httputil.WriteNotFoundError(w, "page not found: "+name)
		return
	}

	if download {
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(page.Name)})
		if disposition != "" {
			w.Header().Set("Content-Disposition", disposition)
		}
	}
	httputil.WriteMarkdown(w, page.Content)
}

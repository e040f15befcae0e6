package promexport

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lyriq/internal/convert"
)

// DefaultRefresh matches the scrape-side expectation: the snapshot JSON is
// regenerated a few times a day, so re-reading it every 5 minutes is plenty.
const DefaultRefresh = 5 * time.Minute

// Handler serves /metrics from a converted snapshot file, re-reading it at
// most once per refresh interval. Safe for concurrent use.
type Handler struct {
	path    string
	refresh time.Duration
	now     func() time.Time

	mu      sync.Mutex
	expires time.Time
	inner   http.Handler
}

// NewHandler returns a Handler for the snapshot at path. A non-positive
// refresh uses DefaultRefresh.
func NewHandler(path string, refresh time.Duration) *Handler {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return &Handler{path: path, refresh: refresh, now: time.Now}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	inner, err := h.current()
	if err != nil {
		log.Printf("metrics: reload %s: %v", h.path, err)
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}
	inner.ServeHTTP(w, r)
}

// current returns the cached promhttp handler, rebuilding it from the
// snapshot file when the cache has expired. A stale cache is preferred over
// an error when the file turns unreadable after a successful load.
func (h *Handler) current() (http.Handler, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.inner != nil && h.now().Before(h.expires) {
		return h.inner, nil
	}
	doc, err := convert.ReadDocument(h.path)
	if err != nil {
		if h.inner != nil {
			return h.inner, nil
		}
		return nil, err
	}
	h.inner = promhttp.HandlerFor(Registry(doc.Data), promhttp.HandlerOpts{})
	h.expires = h.now().Add(h.refresh)
	return h.inner, nil
}

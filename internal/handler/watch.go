package handler

import (
	"log/slog"
	"net/http"

	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/koverin/shopstore/internal/catalog"
	"github.com/koverin/shopstore/internal/domain"
)

// WatchHandler streams catalog updates to connected clients over SSE.
type WatchHandler struct {
	repo *catalog.Repository
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(repo *catalog.Repository) *WatchHandler {
	return &WatchHandler{repo: repo}
}

// catalogSignals is the signal payload patched into every watcher when the
// catalog changes.
type catalogSignals struct {
	CatalogCount int    `json:"catalogCount"`
	LastAddedSKU string `json:"lastAddedSku"`
}

// HandleWatch subscribes the client to catalog additions for the lifetime of
// the request. Each successful add patches the watcher's signals with the new
// catalog size and the SKU that arrived.
// GET /api/products/watch
func (h *WatchHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	// Repository notifications fire under the store lock, so they are only
	// queued here; the blocking SSE writes happen on this goroutine. A full
	// buffer drops the oldest update rather than stalling the store.
	updates := make(chan domain.Product, 16)
	unsubscribe := h.repo.Subscribe(func(p domain.Product) {
		for {
			select {
			case updates <- p:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	if err := sse.MarshalAndPatchSignals(catalogSignals{
		CatalogCount: h.repo.Count(),
	}); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case p := <-updates:
			err := sse.MarshalAndPatchSignals(catalogSignals{
				CatalogCount: h.repo.Count(),
				LastAddedSKU: p.SKU,
			})
			if err != nil {
				slog.Debug("watch stream closed", "error", err)
				return
			}
		}
	}
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/hub"
	"github.com/spinstage/backend/internal/script"
	"github.com/spinstage/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, scripts script.Store, items script.Catalog, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, logger.Named("ws")))
	r.Get("/campaigns/{campaignID}/script", GetScript(scripts, logger))
	r.Put("/campaigns/{campaignID}/script", PutScript(scripts, logger))
	r.Get("/campaigns/{campaignID}/items", GetItems(items, logger))
	return r
}

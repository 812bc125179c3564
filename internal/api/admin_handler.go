package api

import (
	"log/slog"
	"net/http"

	"github.com/rewear-app/rewear-api/internal/api/shared"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/service"
)

// AdminHandler handles moderation and statistics endpoints. All routes are
// gated by the admin middleware; the handler itself does not re-check roles.
type AdminHandler struct {
	itemService  service.ItemService
	statsService service.StatsService
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(
	itemService service.ItemService,
	statsService service.StatsService,
	log *slog.Logger,
) *AdminHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AdminHandler{
		itemService:  itemService,
		statsService: statsService,
		logger:       log.With(slog.String("component", "admin_handler")),
	}
}

// ListPendingItems handles GET /api/admin/items requests: listings awaiting
// approval.
func (h *AdminHandler) ListPendingItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListPendingItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// ApproveItem handles PUT /api/admin/items/{id}/approve requests. Idempotent.
func (h *AdminHandler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.itemService.ApproveItem(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("item approved via API", slog.String("item_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "approved"})
}

// DeleteItem handles DELETE /api/admin/items/{id} requests.
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), id, userID, true); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/admin/stats requests.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

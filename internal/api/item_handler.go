package api

import (
	"log/slog"
	"net/http"

	"github.com/rewear-app/rewear-api/internal/api/shared"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/service"
	"github.com/rewear-app/rewear-api/internal/store"
)

// ItemHandler handles listing-related HTTP requests.
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new ItemHandler with the given dependencies.
func NewItemHandler(itemService service.ItemService, log *slog.Logger) *ItemHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ItemHandler{
		itemService: itemService,
		logger:      log.With(slog.String("component", "item_handler")),
	}
}

// ListItems handles GET /api/items requests. Public: only approved listings
// are shown. Supports ?category= and ?search= filters.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	approved := true
	filter := store.ItemFilter{
		Category: domain.ItemCategory(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("search"),
		Approved: &approved,
	}

	if filter.Category != "" && !filter.Category.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown category")
		return
	}

	items, err := h.itemService.ListItems(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id} requests.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.itemService.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// CreateItem handles POST /api/items requests.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), userID, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.ItemCategory(req.Category),
		Type:        req.Type,
		Size:        req.Size,
		Condition:   domain.ItemCondition(req.Condition),
		Tags:        req.Tags,
		Images:      req.Images,
		PointsValue: req.PointsValue,
		Location:    req.Location,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("item created via API",
		slog.String("item_id", item.ID.String()),
		slog.String("uploader_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/{id} requests. Only the availability flag
// can change; owner or admin only.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.IsAvailable == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "isAvailable is required")
		return
	}

	item, err := h.itemService.SetAvailability(
		r.Context(), id, userID, isAdminFromContext(r), *req.IsAvailable)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/{id} requests. Owner or admin only.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), id, userID, isAdminFromContext(r)); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

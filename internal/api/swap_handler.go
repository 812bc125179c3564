package api

import (
	"log/slog"
	"net/http"

	"github.com/rewear-app/rewear-api/internal/api/shared"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/service"
)

// SwapHandler handles swap-request HTTP requests.
type SwapHandler struct {
	swapService service.SwapService
	logger      *slog.Logger
}

// NewSwapHandler creates a new SwapHandler with the given dependencies.
func NewSwapHandler(swapService service.SwapService, log *slog.Logger) *SwapHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SwapHandler{
		swapService: swapService,
		logger:      log.With(slog.String("component", "swap_handler")),
	}
}

// ListSwaps handles GET /api/swaps requests. Returns every swap the
// authenticated user participates in, as requester or owner.
func (h *SwapHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	swaps, err := h.swapService.ListSwapsForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSwapResponses(swaps))
}

// ProposeSwap handles POST /api/swaps requests.
func (h *SwapHandler) ProposeSwap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ProposeSwapRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	swap, err := h.swapService.ProposeSwap(r.Context(), userID, service.ProposeSwapInput{
		ItemID:        req.ItemID,
		OfferedItemID: req.OfferedItemID,
		UsePoints:     req.UsePoints,
		PointsOffered: req.PointsOffered,
		Message:       req.Message,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("swap proposed via API",
		slog.String("swap_id", swap.ID.String()),
		slog.String("requester_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, NewSwapResponse(swap))
}

// DecideSwap handles PUT /api/swaps/{id} requests. Only the owner of the
// target item may decide, and only once.
func (h *SwapHandler) DecideSwap(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req DecideSwapRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	swap, err := h.swapService.DecideSwap(r.Context(), id, userID, domain.SwapStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSwapResponse(swap))
}

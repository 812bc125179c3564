package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/service"
	"github.com/rewear-app/rewear-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleSwap(t *testing.T, requesterID, ownerID uuid.UUID) *domain.SwapRequest {
	t.Helper()
	swap, err := domain.NewSwapRequest(
		requesterID, "Bob", ownerID,
		uuid.New(), "Denim Jacket",
		nil, "",
		true, 40, "hi",
	)
	require.NoError(t, err)
	return swap
}

func TestListSwaps(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	userID := uuid.New()
	swap := sampleSwap(t, userID, uuid.New())
	swaps.On("ListSwapsForUser", mock.Anything, userID).
		Return([]*domain.SwapRequest{swap}, nil)

	w := httptest.NewRecorder()
	r := authedRequest(httptest.NewRequest("GET", "/api/swaps", nil), userID, false)

	h.ListSwaps(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []SwapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, swap.ID, resp[0].ID)
	assert.Len(t, resp[0].CreatedDate, len("2006-01-02"), "creation time is date-granular")
}

func TestProposeSwap(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	userID := uuid.New()
	itemID := uuid.New()
	swap := sampleSwap(t, userID, uuid.New())

	swaps.On("ProposeSwap", mock.Anything, userID, mock.MatchedBy(func(in service.ProposeSwapInput) bool {
		return in.ItemID == itemID && in.UsePoints && in.PointsOffered == 40
	})).Return(swap, nil)

	body := `{"itemId":"` + itemID.String() + `","usePoints":true,"pointsOffered":40,"message":"hi"}`
	w := httptest.NewRecorder()
	r := authedRequest(httptest.NewRequest("POST", "/api/swaps", strings.NewReader(body)), userID, false)

	h.ProposeSwap(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp SwapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
}

func TestProposeSwapInsufficientPoints(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	userID := uuid.New()
	itemID := uuid.New()

	swaps.On("ProposeSwap", mock.Anything, userID, mock.Anything).
		Return(nil, service.ErrInsufficientPoints)

	body := `{"itemId":"` + itemID.String() + `","usePoints":true}`
	w := httptest.NewRecorder()
	r := authedRequest(httptest.NewRequest("POST", "/api/swaps", strings.NewReader(body)), userID, false)

	h.ProposeSwap(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient points")
}

func TestDecideSwapAccept(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	ownerID := uuid.New()
	swap := sampleSwap(t, uuid.New(), ownerID)
	swap.Status = domain.SwapStatusAccepted

	swaps.On("DecideSwap", mock.Anything, swap.ID, ownerID, domain.SwapStatusAccepted).
		Return(swap, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PUT", "/api/swaps/"+swap.ID.String(),
		strings.NewReader(`{"status":"accepted"}`))
	r = authedRequest(withPathParam(r, "id", swap.ID.String()), ownerID, false)

	h.DecideSwap(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SwapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
}

func TestDecideSwapInvalidStatus(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	id := uuid.New()
	w := httptest.NewRecorder()
	r := httptest.NewRequest("PUT", "/api/swaps/"+id.String(),
		strings.NewReader(`{"status":"maybe"}`))
	r = authedRequest(withPathParam(r, "id", id.String()), uuid.New(), false)

	h.DecideSwap(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	swaps.AssertNotCalled(t, "DecideSwap", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideSwapAlreadyDecided(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	ownerID := uuid.New()
	id := uuid.New()

	swaps.On("DecideSwap", mock.Anything, id, ownerID, domain.SwapStatusAccepted).
		Return(nil, service.ErrInvalidTransition)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PUT", "/api/swaps/"+id.String(),
		strings.NewReader(`{"status":"accepted"}`))
	r = authedRequest(withPathParam(r, "id", id.String()), ownerID, false)

	h.DecideSwap(w, r)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDecideSwapNotFound(t *testing.T) {
	swaps := new(MockSwapService)
	h := NewSwapHandler(swaps, nil)

	ownerID := uuid.New()
	id := uuid.New()

	swaps.On("DecideSwap", mock.Anything, id, ownerID, domain.SwapStatusDeclined).
		Return(nil, store.ErrSwapNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PUT", "/api/swaps/"+id.String(),
		strings.NewReader(`{"status":"declined"}`))
	r = authedRequest(withPathParam(r, "id", id.String()), ownerID, false)

	h.DecideSwap(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SwapStatus is the lifecycle state of a swap request.
type SwapStatus string

// Swap request lifecycle states. Pending is the only state a decision may be
// made from; every other state is terminal.
const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusDeclined  SwapStatus = "declined"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Swap-specific validation errors
var (
	ErrSwapIDEmpty            = errors.New("swap ID cannot be empty")
	ErrSwapRequesterIDEmpty   = errors.New("swap requester ID cannot be empty")
	ErrSwapOwnerIDEmpty       = errors.New("swap owner ID cannot be empty")
	ErrSwapItemIDEmpty        = errors.New("swap item ID cannot be empty")
	ErrSwapInvalidStatus      = errors.New("swap status is not valid")
	ErrSwapInvalidPoints      = errors.New("swap points offered must be positive")
	ErrSwapMissingOfferedItem = errors.New("swap must offer either an item or points")
)

// SwapRequest represents a proposed exchange: one target item and either a
// second item or a points payment, governed by UsePoints.
//
// RequesterName, OwnerID, ItemTitle and OfferedItemTitle are point-in-time
// snapshots taken at proposal time so swap history stays legible even if the
// requester renames or the items are deleted.
type SwapRequest struct {
	ID               uuid.UUID  `json:"id"`
	RequesterID      uuid.UUID  `json:"requesterId"`
	RequesterName    string     `json:"requesterName"`
	OwnerID          uuid.UUID  `json:"ownerId"`
	ItemID           uuid.UUID  `json:"itemId"`
	ItemTitle        string     `json:"itemTitle"`
	OfferedItemID    *uuid.UUID `json:"offeredItemId,omitempty"`
	OfferedItemTitle string     `json:"offeredItemTitle,omitempty"`
	UsePoints        bool       `json:"usePoints"`
	PointsOffered    int        `json:"pointsOffered"`
	Message          string     `json:"message"`
	Status           SwapStatus `json:"status"`
	CreatedAt        time.Time  `json:"-"`
}

// NewSwapRequest creates a pending swap request for the given target item.
// Snapshot fields (requester name, owner ID, item titles) must be resolved by
// the caller at proposal time. Returns an error if validation fails.
func NewSwapRequest(
	requesterID uuid.UUID,
	requesterName string,
	ownerID uuid.UUID,
	itemID uuid.UUID,
	itemTitle string,
	offeredItemID *uuid.UUID,
	offeredItemTitle string,
	usePoints bool,
	pointsOffered int,
	message string,
) (*SwapRequest, error) {
	swap := &SwapRequest{
		ID:               uuid.New(),
		RequesterID:      requesterID,
		RequesterName:    requesterName,
		OwnerID:          ownerID,
		ItemID:           itemID,
		ItemTitle:        itemTitle,
		OfferedItemID:    offeredItemID,
		OfferedItemTitle: offeredItemTitle,
		UsePoints:        usePoints,
		PointsOffered:    pointsOffered,
		Message:          message,
		Status:           SwapStatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	if err := swap.Validate(); err != nil {
		return nil, err
	}

	return swap, nil
}

// Validate checks if the SwapRequest has valid data.
// Returns an error if any field fails validation.
func (s *SwapRequest) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSwapIDEmpty
	}

	if s.RequesterID == uuid.Nil {
		return ErrSwapRequesterIDEmpty
	}

	if s.OwnerID == uuid.Nil {
		return ErrSwapOwnerIDEmpty
	}

	if s.ItemID == uuid.Nil {
		return ErrSwapItemIDEmpty
	}

	if !s.Status.IsValid() {
		return ErrSwapInvalidStatus
	}

	if s.UsePoints {
		if s.PointsOffered <= 0 {
			return ErrSwapInvalidPoints
		}
	} else if s.OfferedItemID == nil || *s.OfferedItemID == uuid.Nil {
		return ErrSwapMissingOfferedItem
	}

	return nil
}

// IsValid reports whether the status is one of the known values.
func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusDeclined,
		SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// IsDecidable reports whether the swap is still open for a decision.
// Only pending swaps may transition; every decided state is terminal, so an
// already-accepted swap can never re-apply its points transfer.
func (s *SwapRequest) IsDecidable() bool {
	return s.Status == SwapStatusPending
}

package api

import (
	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// User is the authenticated user's public profile
	User *domain.User `json:"user"`
}

// UpdateProfileRequest defines the payload for the profile update endpoint.
// Empty fields are left unchanged.
type UpdateProfileRequest struct {
	Name     string `json:"name"     validate:"omitempty,min=1,max=100"`
	Location string `json:"location" validate:"omitempty,max=200"`
	Avatar   string `json:"avatar"   validate:"omitempty,max=500"`
}

// CreateItemRequest defines the payload for the listing creation endpoint.
type CreateItemRequest struct {
	Title       string   `json:"title"       validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=2000"`
	Category    string   `json:"category"    validate:"required,oneof=tops bottoms dresses outerwear shoes accessories"`
	Type        string   `json:"type"        validate:"omitempty,max=100"`
	Size        string   `json:"size"        validate:"required,max=20"`
	Condition   string   `json:"condition"   validate:"required,oneof=new excellent good fair"`
	Tags        []string `json:"tags"        validate:"omitempty,max=20,dive,max=50"`
	Images      []string `json:"images"      validate:"omitempty,max=10,dive,max=500"`
	PointsValue int      `json:"pointsValue" validate:"omitempty,min=1,max=10000"`
	Location    string   `json:"location"    validate:"omitempty,max=200"`
}

// UpdateItemRequest defines the payload for the listing update endpoint.
// Only availability can change after creation.
type UpdateItemRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// ProposeSwapRequest defines the payload for the swap proposal endpoint.
type ProposeSwapRequest struct {
	ItemID        uuid.UUID  `json:"itemId"                  validate:"required"`
	OfferedItemID *uuid.UUID `json:"offeredItemId,omitempty"`
	UsePoints     bool       `json:"usePoints"`
	PointsOffered int        `json:"pointsOffered"           validate:"omitempty,min=1"`
	Message       string     `json:"message"                 validate:"omitempty,max=1000"`
}

// DecideSwapRequest defines the payload for the swap decision endpoint.
type DecideSwapRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined completed cancelled"`
}

// SwapResponse is the wire rendering of a swap request. The creation time is
// rendered date-granular.
type SwapResponse struct {
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
	Status           string     `json:"status"`
	CreatedDate      string     `json:"createdDate"`
}

// NewSwapResponse converts a domain swap request to its wire form.
func NewSwapResponse(swap *domain.SwapRequest) SwapResponse {
	return SwapResponse{
		ID:               swap.ID,
		RequesterID:      swap.RequesterID,
		RequesterName:    swap.RequesterName,
		OwnerID:          swap.OwnerID,
		ItemID:           swap.ItemID,
		ItemTitle:        swap.ItemTitle,
		OfferedItemID:    swap.OfferedItemID,
		OfferedItemTitle: swap.OfferedItemTitle,
		UsePoints:        swap.UsePoints,
		PointsOffered:    swap.PointsOffered,
		Message:          swap.Message,
		Status:           string(swap.Status),
		CreatedDate:      swap.CreatedAt.Format("2006-01-02"),
	}
}

// NewSwapResponses converts a slice of domain swap requests to wire form.
// Always returns a non-nil slice so the JSON rendering is [] rather than null.
func NewSwapResponses(swaps []*domain.SwapRequest) []SwapResponse {
	out := make([]SwapResponse, 0, len(swaps))
	for _, swap := range swaps {
		out = append(out, NewSwapResponse(swap))
	}
	return out
}

// UploadResponse defines the successful response for the image upload endpoint.
type UploadResponse struct {
	URL string `json:"url"`
}

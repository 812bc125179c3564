package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultPointsValue is the valuation assigned to a listing whose uploader
// did not set one.
const DefaultPointsValue = 50

// ItemCategory enumerates the garment categories a listing may belong to.
type ItemCategory string

// Valid item categories.
const (
	CategoryTops        ItemCategory = "tops"
	CategoryBottoms     ItemCategory = "bottoms"
	CategoryDresses     ItemCategory = "dresses"
	CategoryOuterwear   ItemCategory = "outerwear"
	CategoryShoes       ItemCategory = "shoes"
	CategoryAccessories ItemCategory = "accessories"
)

// ItemCondition enumerates the wear states a listing may declare.
type ItemCondition string

// Valid item conditions.
const (
	ConditionNew       ItemCondition = "new"
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
)

// Item-specific validation errors
var (
	ErrItemIDEmpty          = errors.New("item ID cannot be empty")
	ErrItemUploaderIDEmpty  = errors.New("item uploader ID cannot be empty")
	ErrItemTitleEmpty       = errors.New("item title cannot be empty")
	ErrItemDescriptionEmpty = errors.New("item description cannot be empty")
	ErrItemInvalidCategory  = errors.New("item category is not valid")
	ErrItemInvalidCondition = errors.New("item condition is not valid")
	ErrItemSizeEmpty        = errors.New("item size cannot be empty")
	ErrItemInvalidPoints    = errors.New("item points value must be positive")
)

// Item represents a single garment listing available for trade.
//
// UploaderName is a point-in-time snapshot of the uploader's display name, not
// a live join. IsApproved is flipped only by an admin action; IsAvailable is
// flipped to false by swap acceptance or manually by the owner/admin.
type Item struct {
	ID           uuid.UUID     `json:"id"`
	UploaderID   uuid.UUID     `json:"uploaderId"`
	UploaderName string        `json:"uploaderName"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     ItemCategory  `json:"category"`
	Type         string        `json:"type"`
	Size         string        `json:"size"`
	Condition    ItemCondition `json:"condition"`
	Tags         []string      `json:"tags"`
	Images       []string      `json:"images"`
	PointsValue  int           `json:"pointsValue"`
	IsAvailable  bool          `json:"isAvailable"`
	IsApproved   bool          `json:"isApproved"`
	Location     string        `json:"location"`
	CreatedAt    time.Time     `json:"uploadDate"`
	UpdatedAt    time.Time     `json:"-"`
}

// NewItem creates a new Item listed by the given uploader. The listing starts
// available but unapproved; it becomes publicly tradeable only after the
// moderation gate flips the approval flag. A non-positive pointsValue falls
// back to DefaultPointsValue. Returns an error if validation fails.
func NewItem(
	uploaderID uuid.UUID,
	uploaderName string,
	title, description string,
	category ItemCategory,
	itemType, size string,
	condition ItemCondition,
	tags, images []string,
	pointsValue int,
	location string,
) (*Item, error) {
	if pointsValue <= 0 {
		pointsValue = DefaultPointsValue
	}
	if tags == nil {
		tags = []string{}
	}
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	item := &Item{
		ID:           uuid.New(),
		UploaderID:   uploaderID,
		UploaderName: uploaderName,
		Title:        title,
		Description:  description,
		Category:     category,
		Type:         itemType,
		Size:         size,
		Condition:    condition,
		Tags:         tags,
		Images:       images,
		PointsValue:  pointsValue,
		IsAvailable:  true,
		IsApproved:   false,
		Location:     location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.UploaderID == uuid.Nil {
		return ErrItemUploaderIDEmpty
	}

	if i.Title == "" {
		return ErrItemTitleEmpty
	}

	if i.Description == "" {
		return ErrItemDescriptionEmpty
	}

	if !i.Category.IsValid() {
		return ErrItemInvalidCategory
	}

	if i.Size == "" {
		return ErrItemSizeEmpty
	}

	if !i.Condition.IsValid() {
		return ErrItemInvalidCondition
	}

	if i.PointsValue <= 0 {
		return ErrItemInvalidPoints
	}

	return nil
}

// IsValid reports whether the category is one of the known values.
func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses,
		CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

// IsValid reports whether the condition is one of the known values.
func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/platform/logger"
	"github.com/rewear-app/rewear-api/internal/store"
)

// ItemServiceError is a custom error type for item service errors.
type ItemServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ItemServiceError.
func (e *ItemServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("item service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("item service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ItemServiceError) Unwrap() error {
	return e.Err
}

// NewItemServiceError creates a new ItemServiceError.
func NewItemServiceError(operation, message string, err error) *ItemServiceError {
	return &ItemServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CreateItemInput carries the caller-supplied fields of a new listing.
type CreateItemInput struct {
	Title       string
	Description string
	Category    domain.ItemCategory
	Type        string
	Size        string
	Condition   domain.ItemCondition
	Tags        []string
	Images      []string
	PointsValue int
	Location    string
}

// MediaRemover removes stored upload files by their public URL paths. The
// item service uses it to clean up listing images on deletion.
type MediaRemover interface {
	Remove(urlPaths []string)
}

// ItemService manages the listing catalog: creation, queries, availability,
// and the admin moderation gate.
type ItemService interface {
	// CreateItem records a new listing for the uploader. New listings start
	// available but unapproved.
	CreateItem(ctx context.Context, uploaderID uuid.UUID, input CreateItemInput) (*domain.Item, error)

	// GetItem retrieves a single listing by ID.
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListItems returns listings matching the filter, in insertion order.
	ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error)

	// ListPendingItems returns listings awaiting admin approval.
	ListPendingItems(ctx context.Context) ([]*domain.Item, error)

	// SetAvailability toggles a listing's availability. Only the uploader or
	// an admin may do so.
	SetAvailability(ctx context.Context, id, actorID uuid.UUID, isAdmin, available bool) (*domain.Item, error)

	// ApproveItem marks a listing as approved. Idempotent; admin only
	// (enforced by the API layer).
	ApproveItem(ctx context.Context, id uuid.UUID) error

	// DeleteItem removes a listing and its stored images. Only the uploader
	// or an admin may do so. Swap records referencing the listing keep their
	// snapshot fields and are not touched.
	DeleteItem(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error
}

// itemServiceImpl implements the ItemService interface.
type itemServiceImpl struct {
	items  store.ItemStore
	users  store.UserStore
	media  MediaRemover
	logger *slog.Logger
}

var _ ItemService = (*itemServiceImpl)(nil)

// NewItemService creates a new ItemService.
// It returns an error if any of the required dependencies are nil.
func NewItemService(
	items store.ItemStore,
	users store.UserStore,
	media MediaRemover,
	log *slog.Logger,
) (ItemService, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if media == nil {
		return nil, domain.NewValidationError("media", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &itemServiceImpl{
		items:  items,
		users:  users,
		media:  media,
		logger: log.With(slog.String("component", "item_service")),
	}, nil
}

// CreateItem implements ItemService.CreateItem.
func (s *itemServiceImpl) CreateItem(
	ctx context.Context,
	uploaderID uuid.UUID,
	input CreateItemInput,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Snapshot the uploader's display name into the listing.
	uploaderName, err := s.uploaderName(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewItem(
		uploaderID,
		uploaderName,
		input.Title,
		input.Description,
		input.Category,
		input.Type,
		input.Size,
		input.Condition,
		input.Tags,
		input.Images,
		input.PointsValue,
		input.Location,
	)
	if err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		log.Error("failed to save item",
			slog.String("error", err.Error()),
			slog.String("uploader_id", uploaderID.String()))
		return nil, NewItemServiceError("create_item", "failed to save item", err)
	}

	log.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("uploader_id", uploaderID.String()),
		slog.String("category", string(item.Category)))

	return item, nil
}

// GetItem implements ItemService.GetItem.
func (s *itemServiceImpl) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		return nil, NewItemServiceError("get_item", "failed to retrieve item", err)
	}
	return item, nil
}

// ListItems implements ItemService.ListItems.
func (s *itemServiceImpl) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.items.List(ctx, filter)
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, NewItemServiceError("list_items", "failed to list items", err)
	}
	return items, nil
}

// ListPendingItems implements ItemService.ListPendingItems.
func (s *itemServiceImpl) ListPendingItems(ctx context.Context) ([]*domain.Item, error) {
	approved := false
	return s.ListItems(ctx, store.ItemFilter{Approved: &approved})
}

// SetAvailability implements ItemService.SetAvailability.
func (s *itemServiceImpl) SetAvailability(
	ctx context.Context,
	id, actorID uuid.UUID,
	isAdmin, available bool,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrItemNotFound
		}
		return nil, NewItemServiceError("set_availability", "failed to retrieve item", err)
	}

	if item.UploaderID != actorID && !isAdmin {
		return nil, ErrNotOwned
	}

	if err := s.items.SetAvailability(ctx, id, available); err != nil {
		return nil, NewItemServiceError("set_availability", "failed to update availability", err)
	}
	item.IsAvailable = available

	log.Info("item availability updated",
		slog.String("item_id", id.String()),
		slog.Bool("available", available))

	return item, nil
}

// ApproveItem implements ItemService.ApproveItem.
func (s *itemServiceImpl) ApproveItem(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.items.SetApproved(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrItemNotFound
		}
		return NewItemServiceError("approve_item", "failed to approve item", err)
	}

	log.Info("item approved", slog.String("item_id", id.String()))
	return nil
}

// DeleteItem implements ItemService.DeleteItem.
func (s *itemServiceImpl) DeleteItem(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrItemNotFound
		}
		return NewItemServiceError("delete_item", "failed to retrieve item", err)
	}

	if item.UploaderID != actorID && !isAdmin {
		return ErrNotOwned
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return NewItemServiceError("delete_item", "failed to delete item", err)
	}

	// Image cleanup is best effort and happens after the row is gone.
	s.media.Remove(item.Images)

	log.Info("item deleted",
		slog.String("item_id", id.String()),
		slog.String("actor_id", actorID.String()),
		slog.Int("images_removed", len(item.Images)))

	return nil
}

// uploaderName resolves the uploader's current display name for snapshotting.
func (s *itemServiceImpl) uploaderName(ctx context.Context, uploaderID uuid.UUID) (string, error) {
	user, err := s.users.GetByID(ctx, uploaderID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return "", store.ErrUserNotFound
		}
		return "", NewItemServiceError("create_item", "failed to load uploader", err)
	}
	return user.Name, nil
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rewear-app/rewear-api/internal/domain"
	"github.com/rewear-app/rewear-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newSwapServiceForTest builds a swap service whose transaction runner simply
// invokes the callback, so settlement logic runs against the mocks directly.
func newSwapServiceForTest(
	t *testing.T,
	swaps *MockSwapStore,
	items *MockItemStore,
	users *MockUserStore,
) *swapServiceImpl {
	t.Helper()

	svc, err := NewSwapService(nil, swaps, items, users, nil)
	require.NoError(t, err)

	impl := svc.(*swapServiceImpl)
	impl.txRunner = func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		return fn(ctx, nil)
	}
	return impl
}

func testUser(t *testing.T, name string, points int) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name+"@example.com", "hashed:pw", name)
	require.NoError(t, err)
	user.Points = points
	return user
}

func testItem(t *testing.T, owner *domain.User, pointsValue int) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(
		owner.ID, owner.Name,
		"Denim Jacket", "Lightly worn denim jacket",
		domain.CategoryOuterwear, "jacket", "M", domain.ConditionGood,
		nil, nil, pointsValue, "Berlin",
	)
	require.NoError(t, err)
	return item
}

func testPointsSwap(
	t *testing.T,
	requester, owner *domain.User,
	item *domain.Item,
	points int,
) *domain.SwapRequest {
	t.Helper()
	swap, err := domain.NewSwapRequest(
		requester.ID, requester.Name,
		owner.ID,
		item.ID, item.Title,
		nil, "",
		true, points,
		"interested!",
	)
	require.NoError(t, err)
	return swap
}

func TestProposeSwapWithPoints(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 40)

	items.On("GetByID", ctx, item.ID).Return(item, nil)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)
	swaps.On("Create", ctx, mock.AnythingOfType("*domain.SwapRequest")).Return(nil)

	swap, err := svc.ProposeSwap(ctx, requester.ID, ProposeSwapInput{
		ItemID:    item.ID,
		UsePoints: true,
		Message:   "interested!",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SwapStatusPending, swap.Status)
	assert.Equal(t, requester.ID, swap.RequesterID)
	assert.Equal(t, requester.Name, swap.RequesterName)
	assert.Equal(t, owner.ID, swap.OwnerID)
	assert.Equal(t, item.Title, swap.ItemTitle)
	// Unset offer defaults to the listing's valuation.
	assert.Equal(t, 40, swap.PointsOffered)

	swaps.AssertExpectations(t)
}

func TestProposeSwapWithOfferedItem(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 40)
	offered := testItem(t, requester, 30)

	items.On("GetByID", ctx, item.ID).Return(item, nil)
	items.On("GetByID", ctx, offered.ID).Return(offered, nil)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)
	swaps.On("Create", ctx, mock.AnythingOfType("*domain.SwapRequest")).Return(nil)

	swap, err := svc.ProposeSwap(ctx, requester.ID, ProposeSwapInput{
		ItemID:        item.ID,
		OfferedItemID: &offered.ID,
		UsePoints:     false,
	})
	require.NoError(t, err)

	require.NotNil(t, swap.OfferedItemID)
	assert.Equal(t, offered.ID, *swap.OfferedItemID)
	assert.Equal(t, offered.Title, swap.OfferedItemTitle)
}

func TestProposeSwapToleratesMissingOfferedItem(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 40)
	offeredID := uuid.New()

	items.On("GetByID", ctx, item.ID).Return(item, nil)
	items.On("GetByID", ctx, offeredID).Return(nil, store.ErrItemNotFound)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)
	swaps.On("Create", ctx, mock.AnythingOfType("*domain.SwapRequest")).Return(nil)

	swap, err := svc.ProposeSwap(ctx, requester.ID, ProposeSwapInput{
		ItemID:        item.ID,
		OfferedItemID: &offeredID,
		UsePoints:     false,
	})
	require.NoError(t, err)

	// The stale reference is kept but the title snapshot stays empty.
	require.NotNil(t, swap.OfferedItemID)
	assert.Equal(t, offeredID, *swap.OfferedItemID)
	assert.Empty(t, swap.OfferedItemTitle)
}

func TestProposeSwapItemNotFound(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	id := uuid.New()
	items.On("GetByID", ctx, id).Return(nil, store.ErrItemNotFound)

	_, err := svc.ProposeSwap(ctx, uuid.New(), ProposeSwapInput{ItemID: id, UsePoints: true})
	assert.ErrorIs(t, err, store.ErrItemNotFound)
}

func TestProposeSwapItemUnavailable(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	item := testItem(t, owner, 40)
	item.IsAvailable = false

	items.On("GetByID", ctx, item.ID).Return(item, nil)

	_, err := svc.ProposeSwap(ctx, uuid.New(), ProposeSwapInput{ItemID: item.ID, UsePoints: true})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestProposeSwapOwnItemForbidden(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	item := testItem(t, owner, 40)

	items.On("GetByID", ctx, item.ID).Return(item, nil)

	_, err := svc.ProposeSwap(ctx, owner.ID, ProposeSwapInput{ItemID: item.ID, UsePoints: true})
	assert.ErrorIs(t, err, ErrSelfSwap)
}

func TestProposeSwapInsufficientPoints(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 10)
	item := testItem(t, owner, 40)

	items.On("GetByID", ctx, item.ID).Return(item, nil)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)

	_, err := svc.ProposeSwap(ctx, requester.ID, ProposeSwapInput{ItemID: item.ID, UsePoints: true})
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	swaps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDecideSwapAcceptTransfersPoints(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 75)
	requester := testUser(t, "Bob", 125)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	items.On("GetForUpdate", ctx, item.ID).Return(item, nil)
	users.On("GetForUpdate", ctx, requester.ID).Return(requester, nil)
	users.On("GetForUpdate", ctx, owner.ID).Return(owner, nil)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)
	users.On("AdjustBalance", ctx, requester.ID, -50, 1).Return(nil)
	users.On("AdjustBalance", ctx, owner.ID, 50, 1).Return(nil)
	items.On("SetAvailability", ctx, item.ID, false).Return(nil)
	swaps.On("DeclinePendingForItem", ctx, item.ID, swap.ID).Return(int64(2), nil)
	swaps.On("UpdateStatus", ctx, swap.ID, domain.SwapStatusAccepted).Return(nil)

	decided, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusAccepted, decided.Status)

	users.AssertExpectations(t)
	items.AssertExpectations(t)
	swaps.AssertExpectations(t)
}

func TestDecideSwapAcceptDirectTrade(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	offered := testItem(t, requester, 30)

	swap, err := domain.NewSwapRequest(
		requester.ID, requester.Name, owner.ID,
		item.ID, item.Title,
		&offered.ID, offered.Title,
		false, 0, "",
	)
	require.NoError(t, err)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	items.On("GetForUpdate", ctx, item.ID).Return(item, nil)
	items.On("SetAvailability", ctx, item.ID, false).Return(nil)
	items.On("SetAvailability", ctx, offered.ID, false).Return(nil)
	swaps.On("DeclinePendingForItem", ctx, item.ID, swap.ID).Return(int64(0), nil)
	swaps.On("UpdateStatus", ctx, swap.ID, domain.SwapStatusAccepted).Return(nil)

	decided, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusAccepted, decided.Status)

	// A direct trade only flips availability; user records stay untouched.
	users.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestDecideSwapAcceptToleratesDeletedOfferedItem(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	offeredID := uuid.New()

	swap, err := domain.NewSwapRequest(
		requester.ID, requester.Name, owner.ID,
		item.ID, item.Title,
		&offeredID, "Gone Hoodie",
		false, 0, "",
	)
	require.NoError(t, err)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	items.On("GetForUpdate", ctx, item.ID).Return(item, nil)
	items.On("SetAvailability", ctx, item.ID, false).Return(nil)
	items.On("SetAvailability", ctx, offeredID, false).Return(store.ErrItemNotFound)
	swaps.On("DeclinePendingForItem", ctx, item.ID, swap.ID).Return(int64(0), nil)
	swaps.On("UpdateStatus", ctx, swap.ID, domain.SwapStatusAccepted).Return(nil)

	_, err = svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	require.NoError(t, err)
}

func TestDecideSwapNotOwner(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)

	_, err := svc.DecideSwap(ctx, swap.ID, requester.ID, domain.SwapStatusAccepted)
	assert.ErrorIs(t, err, ErrNotOwned)
	swaps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideSwapAlreadyDecided(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)
	swap.Status = domain.SwapStatusAccepted

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)

	// Re-accepting must not re-apply the transfer.
	_, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	swaps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideSwapAcceptRechecksBalance(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)

	// Balance drained between proposal and acceptance.
	requester.Points = 20

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	items.On("GetForUpdate", ctx, item.ID).Return(item, nil)
	users.On("GetForUpdate", ctx, requester.ID).Return(requester, nil)
	users.On("GetForUpdate", ctx, owner.ID).Return(owner, nil)
	users.On("GetByID", ctx, requester.ID).Return(requester, nil)

	_, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	swaps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideSwapAcceptItemNoLongerAvailable(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	item.IsAvailable = false
	swap := testPointsSwap(t, requester, owner, item, 50)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	items.On("GetForUpdate", ctx, item.ID).Return(item, nil)

	_, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusAccepted)
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestDecideSwapDeclineSkipsSettlement(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)

	swaps.On("GetForUpdate", ctx, swap.ID).Return(swap, nil)
	swaps.On("UpdateStatus", ctx, swap.ID, domain.SwapStatusDeclined).Return(nil)

	decided, err := svc.DecideSwap(ctx, swap.ID, owner.ID, domain.SwapStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusDeclined, decided.Status)

	users.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideSwapRejectsNonDecisionStatus(t *testing.T) {
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	_, err := svc.DecideSwap(context.Background(), uuid.New(), uuid.New(), domain.SwapStatusPending)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListSwapsForUser(t *testing.T) {
	ctx := context.Background()
	swaps := new(MockSwapStore)
	items := new(MockItemStore)
	users := new(MockUserStore)
	svc := newSwapServiceForTest(t, swaps, items, users)

	owner := testUser(t, "Alice", 100)
	requester := testUser(t, "Bob", 100)
	item := testItem(t, owner, 50)
	swap := testPointsSwap(t, requester, owner, item, 50)

	swaps.On("ListForUser", ctx, requester.ID).Return([]*domain.SwapRequest{swap}, nil)

	got, err := svc.ListSwapsForUser(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, swap.ID, got[0].ID)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsupply/supply-core/internal/domain"
	apperrors "github.com/smartsupply/supply-core/pkg/errors"
)

func newOrder(t *testing.T, id string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, []domain.LineItem{{ProductID: "P-001", Quantity: 1}}, "retailer1", "", nil)
	require.NoError(t, err)
	return order
}

func TestOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := newOrder(t, "ORD-1")
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", found.OrderID())

	_, err = repo.FindByID(ctx, "ORD-404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepository_FindByStatus(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	first := newOrder(t, "ORD-1")
	second := newOrder(t, "ORD-2")
	require.NoError(t, first.Transition(domain.StatusProcessing))
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	placed, err := repo.FindByStatus(ctx, domain.StatusPlaced)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, "ORD-2", placed[0].OrderID())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLedgerRegistry_GetOrCreate(t *testing.T) {
	registry := NewLedgerRegistry()

	_, err := registry.Ledger("WH-001")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)

	created := registry.GetOrCreate("WH-001", "warehouse")
	assert.Equal(t, "warehouse", created.LocationType())

	// Second call returns the same ledger and keeps its type
	again := registry.GetOrCreate("WH-001", "store")
	assert.Same(t, created, again)
	assert.Equal(t, "warehouse", again.LocationType())
}

func TestLedgerRegistry_AllSorted(t *testing.T) {
	registry := NewLedgerRegistry()
	registry.GetOrCreate("ST-001", "store")
	registry.GetOrCreate("WH-001", "warehouse")
	registry.GetOrCreate("DC-001", "warehouse")

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "DC-001", all[0].LocationID())
	assert.Equal(t, "ST-001", all[1].LocationID())
	assert.Equal(t, "WH-001", all[2].LocationID())
}

func TestLedgerRegistry_Restore(t *testing.T) {
	registry := NewLedgerRegistry()
	registry.GetOrCreate("WH-001", "warehouse")

	replacement := domain.NewLedger("ST-001", "store")
	registry.Restore([]*domain.Ledger{replacement})

	_, err := registry.Ledger("WH-001")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)

	restored, err := registry.Ledger("ST-001")
	require.NoError(t, err)
	assert.Same(t, replacement, restored)
}

func TestEventRecorder(t *testing.T) {
	recorder := NewEventRecorder()
	ctx := context.Background()

	event := &domain.StockAddedEvent{LocationID: "WH-001", ProductID: "P-001", Quantity: 5, AddedAt: time.Now()}
	require.NoError(t, recorder.Publish(ctx, event))
	require.NoError(t, recorder.PublishAll(ctx, []domain.DomainEvent{event, event}))

	assert.Len(t, recorder.Events(), 3)

	recorder.Reset()
	assert.Empty(t, recorder.Events())
}

func TestSnapshotStore(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)

	snapshot := &domain.Snapshot{TakenAt: time.Now().UTC()}
	require.NoError(t, store.Save(ctx, snapshot))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.TakenAt, loaded.TakenAt)
}

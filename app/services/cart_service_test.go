package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/notify"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type upsertCall struct {
	UserID    uint
	ProductID string
	Quantity  int
}

type fakeCartRows struct {
	mu         sync.Mutex
	rows       map[string]int // productID → quantity, single test user
	upserts    []upsertCall
	deletes    []string
	deleteAlls int
	failWrites bool
}

func newFakeCartRows() *fakeCartRows {
	return &fakeCartRows{rows: map[string]int{}}
}

func (f *fakeCartRows) Upsert(userID uint, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("db down")
	}
	f.rows[productID] = quantity
	f.upserts = append(f.upserts, upsertCall{userID, productID, quantity})
	return nil
}

func (f *fakeCartRows) Delete(userID uint, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, productID)
	f.deletes = append(f.deletes, productID)
	return nil
}

func (f *fakeCartRows) DeleteAll(userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = map[string]int{}
	f.deleteAlls++
	return nil
}

func (f *fakeCartRows) ListForUser(userID uint) ([]models.UserCart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.UserCart, 0, len(f.rows))
	for pid, qty := range f.rows {
		out = append(out, models.UserCart{UserID: userID, ProductID: pid, Quantity: qty})
	}
	return out, nil
}

func (f *fakeCartRows) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeCartRows) deleteAllCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteAlls
}

type fakeCatalog struct {
	products []models.Product
	err      error
}

func (f *fakeCatalog) All() ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeCatalog) Find(id string) (models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, errors.New("not found")
}

func testProducts() []models.Product {
	return []models.Product{
		{ID: "11111111-1111-1111-1111-111111111111", Name: "Smartphone X Pro", Price: 250000, Category: "Smartphones", Stock: 4},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Coluna Bluetooth Portátil", Price: 30000, Category: "Audio", Stock: 10},
	}
}

func newTestCart(rows CartRows, catalog Catalog) (*CartService, *notify.Hub) {
	hub := notify.NewHub()
	svc := NewCartService(rows, catalog, NewMemorySnapshots(), hub)
	svc.UpsertDelay = 20 * time.Millisecond
	svc.RemoveDelay = 10 * time.Millisecond
	return svc, hub
}

const (
	phoneID   = "11111111-1111-1111-1111-111111111111"
	speakerID = "22222222-2222-2222-2222-222222222222"
)

// ─── Anonymous realm ──────────────────────────────────────────────────────────

func TestAddToCartNewItemSnapshotsProduct(t *testing.T) {
	svc, hub := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}

	require.NoError(t, svc.AddToCart(anon, phoneID, 2))

	items := svc.Items(anon)
	require.Len(t, items, 1)
	assert.Equal(t, "Smartphone X Pro", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 250000.0, items[0].Price)

	toast := hub.Current(anon.Key())
	require.NotNil(t, toast)
	assert.Equal(t, notify.KindSuccess, toast.Kind)
	assert.Equal(t, "Smartphone X Pro adicionado ao carrinho!", toast.Message)
}

func TestAddToCartClampsNewItemToStock(t *testing.T) {
	svc, _ := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}

	require.NoError(t, svc.AddToCart(anon, phoneID, 99))

	items := svc.Items(anon)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity) // stock is 4
}

func TestAddToCartIncrementClampsAtStockCeiling(t *testing.T) {
	svc, hub := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}

	require.NoError(t, svc.AddToCart(anon, phoneID, 3))
	require.NoError(t, svc.AddToCart(anon, phoneID, 3))

	items := svc.Items(anon)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	// Third add cannot increase the quantity; only the info toast fires.
	require.NoError(t, svc.AddToCart(anon, phoneID, 1))
	assert.Equal(t, 4, svc.Items(anon)[0].Quantity)

	toast := hub.Current(anon.Key())
	require.NotNil(t, toast)
	assert.Equal(t, notify.KindInfo, toast.Kind)
	assert.Equal(t, "Quantidade máxima de Smartphone X Pro (4) já está no carrinho.", toast.Message)
}

func TestUpdateQuantityClampsToRange(t *testing.T) {
	svc, _ := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}
	require.NoError(t, svc.AddToCart(anon, phoneID, 1))

	svc.UpdateQuantity(anon, phoneID, 99)
	assert.Equal(t, 4, svc.Items(anon)[0].Quantity)

	svc.UpdateQuantity(anon, phoneID, 0)
	assert.Equal(t, 1, svc.Items(anon)[0].Quantity)

	// Unknown product ids are ignored.
	svc.UpdateQuantity(anon, "33333333-3333-3333-3333-333333333333", 2)
	assert.Len(t, svc.Items(anon), 1)
}

func TestRemoveFromCart(t *testing.T) {
	svc, hub := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}
	require.NoError(t, svc.AddToCart(anon, phoneID, 1))

	svc.RemoveFromCart(anon, phoneID)
	assert.Empty(t, svc.Items(anon))

	toast := hub.Current(anon.Key())
	require.NotNil(t, toast)
	assert.Equal(t, notify.KindInfo, toast.Kind)
	assert.Equal(t, "Smartphone X Pro removido do carrinho.", toast.Message)

	// Removing a missing line is silent.
	before := hub.Current(anon.Key())
	svc.RemoveFromCart(anon, phoneID)
	assert.Equal(t, before, hub.Current(anon.Key()))
}

func TestTotalsAndCounts(t *testing.T) {
	svc, _ := newTestCart(newFakeCartRows(), &fakeCatalog{products: testProducts()})
	anon := Identity{Token: "guest-1"}
	require.NoError(t, svc.AddToCart(anon, phoneID, 2))
	require.NoError(t, svc.AddToCart(anon, speakerID, 3))

	assert.Equal(t, 2*250000.0+3*30000.0, svc.TotalPrice(anon))
	assert.Equal(t, 5, svc.ItemCount(anon))
}

// ─── Authenticated realm: debounced write-back ────────────────────────────────

func TestAuthenticatedWritesAreDebounced(t *testing.T) {
	rows := newFakeCartRows()
	svc, _ := newTestCart(rows, &fakeCatalog{products: testProducts()})
	user := Identity{UserID: 7}

	require.NoError(t, svc.AddToCart(user, speakerID, 1))
	svc.UpdateQuantity(user, speakerID, 2)
	svc.UpdateQuantity(user, speakerID, 5)

	// Nothing hits the store inside the debounce window.
	assert.Equal(t, 0, rows.upsertCount())

	time.Sleep(80 * time.Millisecond)

	// The burst coalesced into one write carrying the final quantity.
	rows.mu.Lock()
	defer rows.mu.Unlock()
	require.Len(t, rows.upserts, 1)
	assert.Equal(t, upsertCall{UserID: 7, ProductID: speakerID, Quantity: 5}, rows.upserts[0])
}

func TestClearCartCancelsPendingUpserts(t *testing.T) {
	rows := newFakeCartRows()
	svc, hub := newTestCart(rows, &fakeCatalog{products: testProducts()})
	user := Identity{UserID: 7}

	require.NoError(t, svc.AddToCart(user, speakerID, 2))
	svc.ClearCart(user)

	assert.Empty(t, svc.Items(user))
	toast := hub.Current(user.Key())
	require.NotNil(t, toast)
	assert.Equal(t, "Carrinho esvaziado.", toast.Message)

	time.Sleep(80 * time.Millisecond)

	// The scheduled upsert was cancelled; only delete-all ran.
	assert.Equal(t, 0, rows.upsertCount())
	assert.Equal(t, 1, rows.deleteAllCount())
}

func TestRemoteWriteFailureKeepsLocalCart(t *testing.T) {
	rows := newFakeCartRows()
	rows.failWrites = true
	svc, hub := newTestCart(rows, &fakeCatalog{products: testProducts()})
	user := Identity{UserID: 7}

	require.NoError(t, svc.AddToCart(user, speakerID, 2))
	time.Sleep(80 * time.Millisecond)

	// The snapshot survives and an error toast replaced the success one.
	require.Len(t, svc.Items(user), 1)
	toast := hub.Current(user.Key())
	require.NotNil(t, toast)
	assert.Equal(t, notify.KindError, toast.Kind)
}

// ─── Merge on login ───────────────────────────────────────────────────────────

func TestMergeOnLoginLargerQuantityWins(t *testing.T) {
	rows := newFakeCartRows()
	rows.rows[phoneID] = 2 // remote has phone ×2
	svc, _ := newTestCart(rows, &fakeCatalog{products: testProducts()})

	anon := Identity{Token: "guest-1"}
	require.NoError(t, svc.AddToCart(anon, phoneID, 4))    // local phone ×4
	require.NoError(t, svc.AddToCart(anon, speakerID, 1))  // local speaker ×1

	require.NoError(t, svc.MergeOnLogin(7, "guest-1"))

	user := Identity{UserID: 7}
	merged := map[string]int{}
	for _, item := range svc.Items(user) {
		merged[item.ProductID] = item.Quantity
	}
	assert.Equal(t, map[string]int{phoneID: 4, speakerID: 1}, merged)

	// Quantities never sum across realms.
	rows.mu.Lock()
	assert.Equal(t, 4, rows.rows[phoneID])
	assert.Equal(t, 1, rows.rows[speakerID])
	rows.mu.Unlock()

	// The guest snapshot is gone.
	assert.Empty(t, svc.Items(anon))
}

func TestMergeOnLoginRemoteLargerWins(t *testing.T) {
	rows := newFakeCartRows()
	rows.rows[speakerID] = 5 // remote has speaker ×5
	rows.rows[phoneID] = 1
	svc, _ := newTestCart(rows, &fakeCatalog{products: testProducts()})

	anon := Identity{Token: "guest-2"}
	require.NoError(t, svc.AddToCart(anon, speakerID, 2)) // local speaker ×2

	require.NoError(t, svc.MergeOnLogin(8, "guest-2"))

	user := Identity{UserID: 8}
	merged := map[string]int{}
	for _, item := range svc.Items(user) {
		merged[item.ProductID] = item.Quantity
	}
	// Remote quantity beats the smaller local one; the remote-only
	// phone row carries over untouched.
	assert.Equal(t, map[string]int{speakerID: 5, phoneID: 1}, merged)

	rows.mu.Lock()
	assert.Equal(t, 5, rows.rows[speakerID])
	assert.Equal(t, 1, rows.rows[phoneID])
	rows.mu.Unlock()

	assert.Empty(t, svc.Items(anon))
}

func TestMergeOnLoginWithEmptyRemote(t *testing.T) {
	rows := newFakeCartRows()
	svc, _ := newTestCart(rows, &fakeCatalog{products: testProducts()})

	anon := Identity{Token: "guest-1"}
	require.NoError(t, svc.AddToCart(anon, phoneID, 3))

	require.NoError(t, svc.MergeOnLogin(7, "guest-1"))

	items := svc.Items(Identity{UserID: 7})
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 1, rows.upsertCount()) // one immediate write, not debounced
}

func TestMergeSkippedWhenCatalogEmpty(t *testing.T) {
	rows := newFakeCartRows()
	svc, _ := newTestCart(rows, &fakeCatalog{})

	anon := Identity{Token: "guest-1"}
	svc.snaps.Save(anon.Key(), []models.CartItem{{ProductID: phoneID, Name: "Smartphone X Pro", Quantity: 2, Stock: 4}})

	require.NoError(t, svc.MergeOnLogin(7, "guest-1"))

	// Nothing moved: guest snapshot intact, no remote writes.
	assert.Len(t, svc.Items(anon), 1)
	assert.Empty(t, svc.Items(Identity{UserID: 7}))
	assert.Equal(t, 0, rows.upsertCount())
}

func TestMergeDropsRowsForDelistedProducts(t *testing.T) {
	rows := newFakeCartRows()
	rows.rows["99999999-9999-9999-9999-999999999999"] = 3 // no longer in catalogue
	rows.rows[phoneID] = 1
	svc, _ := newTestCart(rows, &fakeCatalog{products: testProducts()})

	require.NoError(t, svc.MergeOnLogin(7, "guest-1"))

	items := svc.Items(Identity{UserID: 7})
	require.Len(t, items, 1)
	assert.Equal(t, phoneID, items[0].ProductID)
}

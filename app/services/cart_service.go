package services

import (
	"fmt"
	"time"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/collection"
	"github.com/angotech/angotech/pkg/debounce"
	"github.com/angotech/angotech/pkg/logger"
	"github.com/angotech/angotech/pkg/metrics"
	"github.com/angotech/angotech/pkg/notify"
)

// Debounce windows for authenticated-realm write-back. Quantity
// upserts coalesce over a longer window than removals and clears.
const (
	UpsertDebounce = 1000 * time.Millisecond
	RemoveDebounce = 500 * time.Millisecond
)

// Identity names the shopper: an account id once logged in, otherwise
// the guest cookie token. Exactly one realm is authoritative at a time.
type Identity struct {
	UserID uint
	Token  string
}

// Authenticated reports whether the identity has an account.
func (id Identity) Authenticated() bool { return id.UserID != 0 }

// Key returns the session key used for snapshots and toasts.
func (id Identity) Key() string {
	if id.Authenticated() {
		return fmt.Sprintf("user:%d", id.UserID)
	}
	return "anon:" + id.Token
}

// CartRows is the persisted authenticated realm (user_carts table).
type CartRows interface {
	Upsert(userID uint, productID string, quantity int) error
	Delete(userID uint, productID string) error
	DeleteAll(userID uint) error
	ListForUser(userID uint) ([]models.UserCart, error)
}

// Catalog resolves product ids against the live catalogue.
type Catalog interface {
	All() ([]models.Product, error)
	Find(id string) (models.Product, error)
}

// SnapshotStore holds the working cart state per session key. The
// anonymous realm lives here authoritatively; the authenticated realm
// uses it as the optimistic in-memory view ahead of debounced
// write-back.
type SnapshotStore interface {
	Load(key string) []models.CartItem
	Save(key string, items []models.CartItem)
	Drop(key string)
}

// CartService presents one unified cart per shopper regardless of
// authentication state and keeps the authoritative store consistent
// with in-memory mutations.
//
// Remote write failures are logged and surfaced as an error toast;
// the in-memory cart is never rolled back. The snapshot can diverge
// from user_carts until the next successful write.
type CartService struct {
	rows    CartRows
	catalog Catalog
	snaps   SnapshotStore
	toasts  *notify.Hub
	deb     *debounce.Debouncer

	// Overridable in tests; production uses the package constants.
	UpsertDelay time.Duration
	RemoveDelay time.Duration
}

func NewCartService(rows CartRows, catalog Catalog, snaps SnapshotStore, toasts *notify.Hub) *CartService {
	return &CartService{
		rows:        rows,
		catalog:     catalog,
		snaps:       snaps,
		toasts:      toasts,
		deb:         debounce.New(),
		UpsertDelay: UpsertDebounce,
		RemoveDelay: RemoveDebounce,
	}
}

// Items returns the shopper's current cart snapshot.
func (s *CartService) Items(id Identity) []models.CartItem {
	return s.snaps.Load(id.Key())
}

// AddToCart puts quantity units of a product in the cart. An existing
// line is raised to min(existing+requested, stock); the quantity never
// exceeds stock and never drops below 1. A success toast fires only
// when the quantity actually increased; hitting the stock ceiling
// yields an info toast instead.
func (s *CartService) AddToCart(id Identity, productID string, quantity int) error {
	product, err := s.catalog.Find(productID)
	if err != nil {
		logger.Error("cart: add: product lookup failed", "product_id", productID, "error", err)
		s.toasts.Error(id.Key(), "Não foi possível adicionar o produto.")
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	items := s.snaps.Load(id.Key())
	idx := indexOf(items, productID)

	if idx >= 0 {
		existing := items[idx].Quantity
		newQuantity := min(existing+quantity, product.Stock)
		if newQuantity > existing {
			items[idx].Quantity = newQuantity
			s.toasts.Success(id.Key(), fmt.Sprintf("%s adicionado ao carrinho!", product.Name))
			s.persistItem(id, items, items[idx])
		} else {
			s.toasts.Info(id.Key(), fmt.Sprintf("Quantidade máxima de %s (%d) já está no carrinho.", product.Name, product.Stock))
		}
		return nil
	}

	if product.Stock < 1 {
		s.toasts.Info(id.Key(), fmt.Sprintf("%s está sem stock.", product.Name))
		return nil
	}

	item := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		ImageURL:  product.FirstImage(),
		Stock:     product.Stock,
		Quantity:  min(quantity, product.Stock),
	}
	items = append(items, item)
	s.toasts.Success(id.Key(), fmt.Sprintf("%s adicionado ao carrinho!", product.Name))
	s.persistItem(id, items, item)
	return nil
}

// RemoveFromCart drops a line, with an info toast naming the product.
// A missing line is a silent no-op.
func (s *CartService) RemoveFromCart(id Identity, productID string) {
	items := s.snaps.Load(id.Key())
	idx := indexOf(items, productID)
	if idx < 0 {
		return
	}

	removed := items[idx]
	items = append(items[:idx], items[idx+1:]...)
	s.snaps.Save(id.Key(), items)
	s.toasts.Info(id.Key(), fmt.Sprintf("%s removido do carrinho.", removed.Name))

	if id.Authenticated() {
		s.scheduleRemove(id.UserID, productID)
	}
}

// UpdateQuantity clamps the requested quantity to [1, item stock].
// Unknown product ids are silently ignored.
func (s *CartService) UpdateQuantity(id Identity, productID string, quantity int) {
	items := s.snaps.Load(id.Key())
	idx := indexOf(items, productID)
	if idx < 0 {
		return
	}

	items[idx].Quantity = max(1, min(quantity, items[idx].Stock))
	s.persistItem(id, items, items[idx])
}

// ClearCart empties the cart and, when authenticated, schedules a
// remote delete-all. Pending per-item writes are cancelled so the
// clear cannot be undone by a stale timer.
func (s *CartService) ClearCart(id Identity) {
	s.snaps.Save(id.Key(), nil)
	s.toasts.Info(id.Key(), "Carrinho esvaziado.")

	if !id.Authenticated() {
		return
	}

	userID := id.UserID
	s.deb.CancelPrefix(fmt.Sprintf("upsert:%d:", userID))
	s.deb.CancelPrefix(fmt.Sprintf("remove:%d:", userID))
	s.deb.Do(fmt.Sprintf("clear:%d", userID), s.RemoveDelay, func() {
		if err := s.rows.DeleteAll(userID); err != nil {
			s.reportWriteFailure(id, err)
			return
		}
		metrics.CartFlushes.WithLabelValues("clear").Inc()
	})
}

// TotalPrice is a pure reduction over the current snapshot.
func (s *CartService) TotalPrice(id Identity) float64 {
	return collection.Sum(s.Items(id), func(i models.CartItem) float64 {
		return i.Price * float64(i.Quantity)
	})
}

// ItemCount is the total number of units across all lines.
func (s *CartService) ItemCount(id Identity) int {
	return collection.Reduce(s.Items(id), 0, func(count int, i models.CartItem) int {
		return count + i.Quantity
	})
}

// MergeOnLogin folds the guest cart into the account cart. Rows are
// resolved against the live catalogue; when no catalogue is loaded the
// merge is skipped entirely. Union by product id, larger quantity wins
// on conflict (never the sum). Every merged line is upserted remotely
// and the guest snapshot is dropped.
func (s *CartService) MergeOnLogin(userID uint, token string) error {
	products, err := s.catalog.All()
	if err != nil {
		logger.Error("cart: merge: catalog fetch failed", "error", err)
		return err
	}
	if len(products) == 0 {
		logger.Warn("cart: merge skipped, empty catalog", "user_id", userID)
		return nil
	}
	byID := collection.KeyBy(products, func(p models.Product) string { return p.ID })

	rows, err := s.rows.ListForUser(userID)
	if err != nil {
		logger.Error("cart: merge: remote read failed", "user_id", userID, "error", err)
		return err
	}

	userKey := Identity{UserID: userID}.Key()
	anonKey := Identity{Token: token}.Key()

	merged := map[string]models.CartItem{}
	for _, row := range rows {
		product, ok := byID[row.ProductID]
		if !ok {
			continue // product left the catalogue, drop the row from view
		}
		merged[row.ProductID] = models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Category:  product.Category,
			ImageURL:  product.FirstImage(),
			Stock:     product.Stock,
			Quantity:  row.Quantity,
		}
	}

	for _, local := range s.snaps.Load(anonKey) {
		if remote, ok := merged[local.ProductID]; !ok || local.Quantity > remote.Quantity {
			item := local
			if product, ok := byID[local.ProductID]; ok {
				item.Stock = product.Stock
				item.Price = product.Price
			}
			merged[local.ProductID] = item
		}
	}

	items := make([]models.CartItem, 0, len(merged))
	for _, item := range merged {
		items = append(items, item)
	}

	s.snaps.Save(userKey, items)
	for _, item := range items {
		if err := s.rows.Upsert(userID, item.ProductID, item.Quantity); err != nil {
			s.reportWriteFailure(Identity{UserID: userID}, err)
		}
	}
	s.snaps.Drop(anonKey)
	metrics.CartMerges.Inc()
	return nil
}

// Flush forces every pending debounced write through immediately.
// Called on shutdown so queued cart writes are not lost.
func (s *CartService) Flush() { s.deb.Flush() }

// Stop flushes and rejects further scheduling.
func (s *CartService) Stop() { s.deb.Stop() }

// persistItem saves the snapshot and schedules the realm-appropriate
// remote write for one line.
func (s *CartService) persistItem(id Identity, items []models.CartItem, item models.CartItem) {
	s.snaps.Save(id.Key(), items)
	if id.Authenticated() {
		s.scheduleUpsert(id.UserID, item.ProductID, item.Quantity)
	}
}

func (s *CartService) scheduleUpsert(userID uint, productID string, quantity int) {
	id := Identity{UserID: userID}
	s.deb.Do(fmt.Sprintf("upsert:%d:%s", userID, productID), s.UpsertDelay, func() {
		if err := s.rows.Upsert(userID, productID, quantity); err != nil {
			s.reportWriteFailure(id, err)
			return
		}
		metrics.CartFlushes.WithLabelValues("upsert").Inc()
	})
}

func (s *CartService) scheduleRemove(userID uint, productID string) {
	id := Identity{UserID: userID}
	s.deb.Do(fmt.Sprintf("remove:%d:%s", userID, productID), s.RemoveDelay, func() {
		if err := s.rows.Delete(userID, productID); err != nil {
			s.reportWriteFailure(id, err)
			return
		}
		metrics.CartFlushes.WithLabelValues("remove").Inc()
	})
}

// reportWriteFailure logs and toasts a failed remote write. The
// in-memory snapshot is kept as-is; this divergence is the accepted
// consistency model.
func (s *CartService) reportWriteFailure(id Identity, err error) {
	logger.Error("cart: remote write failed", "session", id.Key(), "error", err)
	s.toasts.Error(id.Key(), "Não foi possível sincronizar o carrinho.")
}

func indexOf(items []models.CartItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Package kernel assembles the HTTP side of the storefront: the
// repository/service/controller graph and the global middleware stack.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/angotech/angotech/app/controllers"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/app/routes"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/metrics"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/notify"
	"github.com/angotech/angotech/pkg/reqid"
	"github.com/angotech/angotech/pkg/router"
)

// Kernel is the assembled HTTP application. Cart and Catalog are
// exposed for shutdown flushing and scheduled cache warming.
type Kernel struct {
	Router  *router.Router
	Cart    *services.CartService
	Catalog *services.CatalogService
	Toasts  *notify.Hub
}

// NewHTTPKernel wires every layer against the given database handle.
func NewHTTPKernel(db *gorm.DB) *Kernel {
	toasts := notify.NewHub()

	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	catalog := services.NewCatalogService(productRepo)
	cart := services.NewCartService(cartRepo, catalog, services.NewRedisSnapshots(), toasts)
	checkout := services.NewCheckoutService(orderRepo, cart, userRepo)
	orders := services.NewOrderService(orderRepo, catalog)
	auth := services.NewAuthService(userRepo, cart)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, &routes.Controllers{
		Auth:          controllers.NewAuthController(auth),
		Products:      controllers.NewProductController(catalog),
		Cart:          controllers.NewCartController(cart, toasts),
		Checkout:      controllers.NewCheckoutController(checkout),
		Orders:        controllers.NewOrderController(orders),
		AdminProducts: controllers.NewAdminProductController(catalog),
		Notifications: controllers.NewNotificationController(toasts),
		OrderFeed:     controllers.NewOrderFeedController(),
		GraphQL:       controllers.NewGraphQLHandler(catalog),
	})

	return &Kernel{Router: r, Cart: cart, Catalog: catalog, Toasts: toasts}
}

func (k *Kernel) Handler() http.Handler {
	return k.Router.Handler()
}

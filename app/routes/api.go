// Package routes declares the HTTP surface of the AngoTech storefront.
package routes

import (
	"net/http"

	"github.com/angotech/angotech/app/controllers"
	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/pkg/metrics"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/rbac"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
)

// Controllers bundles the constructed handlers the route table wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Products      *controllers.ProductController
	Cart          *controllers.CartController
	Checkout      *controllers.CheckoutController
	Orders        *controllers.OrderController
	AdminProducts *controllers.AdminProductController
	Notifications *controllers.NotificationController
	OrderFeed     *controllers.OrderFeedController
	GraphQL       http.HandlerFunc
}

// RegisterAPI mounts every route. Cart and checkout routes take
// OptionalAuth: a cart exists for guests and account holders alike.
func RegisterAPI(r *router.Router, c *Controllers) {
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	}))

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler().ServeHTTP)

	api := r.Group("/api")

	// Auth
	api.Post("/auth/register", "auth.register", c.Auth.Register, middleware.OptionalAuth, rbac.Guest)
	api.Post("/auth/login", "auth.login", c.Auth.Login, middleware.OptionalAuth, rbac.Guest)
	api.Post("/auth/refresh", "auth.refresh", c.Auth.Refresh)
	api.Post("/auth/logout", "auth.logout", c.Auth.Logout, middleware.Auth)
	api.Get("/auth/me", "auth.me", c.Auth.Me, middleware.Auth)

	// Catalogue
	api.Get("/products", "products.index", c.Products.Index)
	api.Get("/products/categories", "products.categories", c.Products.Categories)
	api.Get("/products/{id}", "products.show", c.Products.Show)
	api.Post("/products/{id}/reviews", "products.reviews.create", c.Products.AddReview)

	// Cart — one unified cart across the auth boundary
	cart := api.Group("/cart", middleware.OptionalAuth)
	cart.Get("", "cart.show", c.Cart.Show)
	cart.Post("/items", "cart.add", c.Cart.Add)
	cart.Put("/items/{productId}", "cart.update", c.Cart.UpdateQuantity)
	cart.Delete("/items/{productId}", "cart.remove", c.Cart.Remove)
	cart.Delete("", "cart.clear", c.Cart.Clear)

	// Checkout and order history
	api.Post("/checkout", "checkout.place", c.Checkout.PlaceOrder, middleware.OptionalAuth)
	api.Get("/orders", "orders.index", c.Orders.Index, middleware.Auth)
	api.Get("/orders/{id}", "orders.show", c.Orders.Show, middleware.Auth)

	// Toast slot
	notifications := api.Group("/notifications", middleware.OptionalAuth)
	notifications.Get("", "notifications.current", c.Notifications.Current)
	notifications.Get("/stream", "notifications.stream", c.Notifications.Stream)
	notifications.Delete("/{id}", "notifications.dismiss", c.Notifications.Dismiss)

	// GraphQL catalogue queries
	api.Post("/graphql", "graphql", c.GraphQL)

	// Admin
	admin := api.Group("/admin", middleware.Auth, rbac.HasRole(models.RoleAdmin))
	admin.Post("/products", "admin.products.create", c.AdminProducts.Create)
	admin.Put("/products/{id}", "admin.products.update", c.AdminProducts.Update)
	admin.Delete("/products/{id}", "admin.products.delete", c.AdminProducts.Delete)
	admin.Post("/products/images", "admin.products.upload", c.AdminProducts.UploadImage)
	admin.Get("/orders/feed", "admin.orders.feed", c.OrderFeed.Feed)
}

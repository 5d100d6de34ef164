package controllers

import (
	"net/http"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/router"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Index returns the authenticated user's order history, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListForUser(middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	response.Success(w, orders)
}

// Show returns one order. Users only see their own; admins see any.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Find(router.Param(r, "id"))
	if repositories.IsNotFound(err) {
		response.NotFound(w, "Order not found")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load order")
		return
	}

	ctx := r.Context()
	if order.UserID != middleware.UserIDFromCtx(ctx) && middleware.RoleFromCtx(ctx) != models.RoleAdmin {
		response.NotFound(w, "Order not found")
		return
	}
	response.Success(w, order)
}

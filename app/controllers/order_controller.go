package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/response"
)

const orderNotFound = "Order not found"

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Place handles POST /api/orders.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	errs, err := bind.JSON(r, &order)
	if err != nil {
		response.BadRequest(w, "Invalid order: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	placed, err := c.orders.PlaceOrder(r.Context(), &order)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			response.BadRequest(w, "Order "+order.OrderID+" already exists")
			return
		}
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, placed)
}

// All handles GET /api/orders and the legacy GET /api/orders/debug/all.
func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.AllOrders(r.Context())
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, orders)
}

// Buyer handles GET /api/orders/buyer/{email}.
func (c *OrderController) Buyer(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.BuyerOrders(r.Context(), param(r, "email"))
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, orders)
}

// Pending handles GET /api/orders/pending.
func (c *OrderController) Pending(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.PendingOrders(r.Context())
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, orders)
}

// Show handles GET /api/orders/{orderId}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.OrderByID(r.Context(), param(r, "orderId"))
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, order)
}

// UpdateStatus handles PUT /api/orders/status/{orderId}?status=... The value
// is stored exactly as sent.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if strings.TrimSpace(status) == "" {
		response.BadRequest(w, "The status query parameter is required")
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), param(r, "orderId"), status)
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, order)
}

// ReplaceItems handles PUT /api/orders/{orderId}/items.
func (c *OrderController) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []models.OrderItem `json:"items"`
	}
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.BadRequest(w, "Invalid items: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.ReplaceItems(r.Context(), param(r, "orderId"), body.Items)
	if err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Success(w, order)
}

// Cancel handles DELETE /api/orders/cancel/{orderId}.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Cancel(r.Context(), param(r, "orderId")); err != nil {
		fail(w, r, err, orderNotFound)
		return
	}
	response.Message(w, "Order cancelled successfully")
}

package handlers

import (
	"erp/internal/apperrors"
	"erp/internal/middleware"
	"erp/internal/models"
	"erp/internal/repositories"
	"erp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Customers see and place their own orders;
// status changes and deletions are staff only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", middleware.StaffOnly(), h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", middleware.StaffOnly(), h.HandleDeleteOrder)
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped completed cancelled"`
}

// HandleGetOrders lists orders, latest first. Query: page, per_page, status, user_id (staff only).
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Page:   pageFrom(c),
		Status: models.OrderStatus(c.Query("status")),
		UserID: c.Query("user_id"),
	}
	if callerID, role := middleware.Identity(c); !role.IsStaff() {
		filter.UserID = callerID
	}

	result, err := h.service.ListOrders(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleGetOrderByID retrieves a single order with its items. Another customer's order
// answers 404, the same as a missing one.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id := c.Params("id")
	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !middleware.CanActFor(c, order.UserID) {
		return respondError(c, apperrors.NotFound("order", id))
	}
	return c.JSON(order)
}

// HandleCreateOrder places an order. Customers always order for themselves; staff may
// name the buyer with user_id.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderInput
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	callerID, role := middleware.Identity(c)
	if req.UserID == "" || !role.IsStaff() {
		req.UserID = callerID
	}

	order, err := h.service.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order along the status machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order " + order.OrderNumber + " status updated successfully to " + req.Status,
		"order":   order,
	})
}

// HandleDeleteOrder deletes an order, restoring stock when it was still cancellable.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	message := "Order " + deleted.Order.OrderNumber + " deleted successfully"
	if deleted.StockRestored {
		message += " and stock restored"
	}
	return c.JSON(fiber.Map{
		"message":        message,
		"stock_restored": deleted.StockRestored,
	})
}

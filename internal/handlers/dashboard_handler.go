package handlers

import (
	"erp/internal/middleware"
	"erp/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the back-office overview.
type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", middleware.StaffOnly(), h.HandleGetDashboard)
}

func (h *DashboardHandler) HandleGetDashboard(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

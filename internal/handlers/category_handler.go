package handlers

import (
	"erp/internal/middleware"
	"erp/internal/models"
	"erp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service, validate: validator.New()}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/all", h.HandleGetAllCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", middleware.StaffOnly(), h.HandleCreateCategory)
	categoryRoutes.Put("/:id", middleware.StaffOnly(), h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", middleware.StaffOnly(), h.HandleDeleteCategory)
}

// CategoryRequest is the body of create and update requests.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// HandleGetCategories lists categories with their product counts.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	result, err := h.service.ListCategories(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *CategoryHandler) HandleGetAllCategories(c *fiber.Ctx) error {
	categories, err := h.service.AllCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.service.CreateCategory(c.UserContext(), category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	category := &models.Category{ID: c.Params("id"), Name: req.Name, Description: req.Description}
	if err := h.service.UpdateCategory(c.UserContext(), category); err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category and, through the foreign key, its products.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category " + id + " deleted successfully",
	})
}

package handlers

import (
	"erp/internal/middleware"
	"erp/internal/models"
	"erp/internal/repositories"
	"erp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Writes are limited to staff.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/available", h.HandleGetAvailableProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", middleware.StaffOnly(), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.StaffOnly(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.StaffOnly(), h.HandleDeleteProduct)
}

// ProductRequest is the body of create and update requests.
type ProductRequest struct {
	CategoryID    string          `json:"category_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=2,max=255"`
	SKU           string          `json:"sku" validate:"required,max=64"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
}

func (r ProductRequest) product(id string) *models.Product {
	return &models.Product{
		ID:            id,
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		SKU:           r.SKU,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
	}
}

type productResponse struct {
	models.Product
	StockStatus string `json:"stock_status"`
}

func (h *ProductHandler) present(p models.Product) productResponse {
	return productResponse{Product: p, StockStatus: h.service.StockStatus(&p)}
}

// HandleGetProducts lists products. Query: page, per_page, category_id, stock.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	result, err := h.service.ListProducts(c.UserContext(), pageFrom(c), c.Query("category_id"),
		repositories.StockFilter(c.Query("stock")))
	if err != nil {
		return respondError(c, err)
	}

	data := make([]productResponse, 0, len(result.Data))
	for _, p := range result.Data {
		data = append(data, h.present(p))
	}
	return c.JSON(repositories.PageResult[productResponse]{
		Data:        data,
		Total:       result.Total,
		CurrentPage: result.CurrentPage,
		PerPage:     result.PerPage,
		LastPage:    result.LastPage,
	})
}

// HandleGetAvailableProducts lists every product with stock, for the order form.
func (h *ProductHandler) HandleGetAvailableProducts(c *fiber.Ctx) error {
	products, err := h.service.InStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	data := make([]productResponse, 0, len(products))
	for _, p := range products {
		data = append(data, h.present(p))
	}
	return c.JSON(data)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.present(*product))
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	product := req.product("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.present(*product))
}

// HandleUpdateProduct overwrites an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	product := req.product(c.Params("id"))
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.present(*product))
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product " + id + " deleted successfully",
	})
}

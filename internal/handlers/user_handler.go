package handlers

import (
	"erp/internal/middleware"
	"erp/internal/models"
	"erp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users and their addresses.
type UserHandler struct {
	users     *services.UserService
	addresses *services.AddressService
	validate  *validator.Validate
}

func NewUserHandler(users *services.UserService, addresses *services.AddressService) *UserHandler {
	return &UserHandler{users: users, addresses: addresses, validate: validator.New()}
}

// RegisterRoutes registers user administration and address routes. Address routes admit
// the owner and staff; everything else is staff only, except reading yourself.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", middleware.StaffOnly(), h.HandleGetUsers)
	userRoutes.Get("/:id", h.requireSelfOrStaff, h.HandleGetUserByID)
	userRoutes.Put("/:id", middleware.StaffOnly(), h.HandleUpdateUser)
	userRoutes.Delete("/:id", middleware.StaffOnly(), h.HandleDeleteUser)

	userRoutes.Get("/:id/addresses", h.requireSelfOrStaff, h.HandleGetAddresses)
	userRoutes.Post("/:id/addresses", h.requireSelfOrStaff, h.HandleCreateAddress)
	userRoutes.Put("/:id/addresses/:addressId", h.requireSelfOrStaff, h.HandleUpdateAddress)
	userRoutes.Delete("/:id/addresses/:addressId", h.requireSelfOrStaff, h.HandleDeleteAddress)
	userRoutes.Post("/:id/addresses/:addressId/default", h.requireSelfOrStaff, h.HandleSetDefaultAddress)
}

func (h *UserHandler) requireSelfOrStaff(c *fiber.Ctx) error {
	if !middleware.CanActFor(c, c.Params("id")) {
		return respondError(c, forbidden())
	}
	return c.Next()
}

// UpdateUserRequest is the body of PUT /users/:id.
type UpdateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	Role        string `json:"role" validate:"omitempty,oneof=admin staff customer"`
}

// AddressRequest is the body of address create and update requests.
type AddressRequest struct {
	Label       string `json:"label" validate:"required,max=100"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required,max=100"`
	Province    string `json:"province" validate:"required,max=100"`
	PostalCode  string `json:"postal_code" validate:"required,max=20"`
	Country     string `json:"country" validate:"omitempty,max=100"`
	IsDefault   bool   `json:"is_default"`
}

func (r AddressRequest) address(id string) *models.UserAddress {
	return &models.UserAddress{
		ID:          id,
		Label:       r.Label,
		AddressLine: r.AddressLine,
		City:        r.City,
		Province:    r.Province,
		PostalCode:  r.PostalCode,
		Country:     r.Country,
		IsDefault:   r.IsDefault,
	}
}

type addressResponse struct {
	models.UserAddress
	FullAddress string `json:"full_address"`
}

func presentAddress(a models.UserAddress) addressResponse {
	return addressResponse{UserAddress: a, FullAddress: a.FullAddress()}
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	result, err := h.users.ListUsers(c.UserContext(), pageFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.users.GetUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	user := &models.User{ID: c.Params("id"), Name: req.Name, PhoneNumber: req.PhoneNumber, Role: models.Role(req.Role)}
	if err := h.users.UpdateUser(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}
	updated, err := h.users.GetUserByID(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User " + id + " deleted successfully",
	})
}

// HandleGetAddresses lists the user's addresses, default first.
func (h *UserHandler) HandleGetAddresses(c *fiber.Ctx) error {
	addresses, err := h.addresses.ListAddresses(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	data := make([]addressResponse, 0, len(addresses))
	for _, a := range addresses {
		data = append(data, presentAddress(a))
	}
	return c.JSON(data)
}

func (h *UserHandler) HandleCreateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	address := req.address("")
	if err := h.addresses.CreateAddress(c.UserContext(), c.Params("id"), address); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(presentAddress(*address))
}

// HandleUpdateAddress edits an address. is_default in the body is ignored; use the default route.
func (h *UserHandler) HandleUpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	address := req.address(c.Params("addressId"))
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}
	if err := h.addresses.UpdateAddress(c.UserContext(), c.Params("id"), address); err != nil {
		return respondError(c, err)
	}
	return c.JSON(presentAddress(*address))
}

func (h *UserHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	addressID := c.Params("addressId")
	if err := h.addresses.DeleteAddress(c.UserContext(), c.Params("id"), addressID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Address " + addressID + " deleted successfully",
	})
}

// HandleSetDefaultAddress makes the address the user's only default.
func (h *UserHandler) HandleSetDefaultAddress(c *fiber.Ctx) error {
	address, err := h.addresses.SetAsDefault(c.UserContext(), c.Params("id"), c.Params("addressId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(presentAddress(*address))
}

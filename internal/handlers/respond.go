package handlers

import (
	"errors"
	"fmt"

	"erp/internal/apperrors"
	"erp/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error onto an HTTP status and a short message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusBadRequest, "Validation failed"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Authentication failed"
	case errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden, "You are not allowed to perform this action"
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return fiber.StatusConflict, "Insufficient stock"
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return fiber.StatusConflict, "Concurrent update, please retry"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return fiber.StatusConflict, "Invalid status transition"
	case errors.Is(err, apperrors.ErrConstraintViolation):
		return fiber.StatusConflict, "Conflicts with existing data"
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// respondError writes err as JSON with the status StatusFor picks.
func respondError(c *fiber.Ctx, err error) error {
	status, message := StatusFor(err)
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	if apperrors.IsRetryable(err) {
		body["retryable"] = true
	}
	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["product_id"] = stockErr.ProductID
		body["requested"] = stockErr.Requested
		body["available"] = stockErr.Available
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Str("path", c.Path()).Msg("request rejected")
	}
	return c.Status(status).JSON(body)
}

// bind parses the request body into out and validates it. When ok is false the error
// response has already been written and err is what the handler should return.
func bind(c *fiber.Ctx, validate *validator.Validate, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, respondError(c, err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// pageFrom reads the page and per_page query parameters.
func pageFrom(c *fiber.Ctx) repositories.Page {
	return repositories.Page{
		Number:  c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", repositories.DefaultPerPage),
	}
}

func forbidden() error {
	return fmt.Errorf("caller may not act for this user: %w", apperrors.ErrForbidden)
}

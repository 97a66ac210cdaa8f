package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erp/internal/apperrors"

	"github.com/google/uuid"
)

const (
	orderNumberPrefix      = "ORD-"
	orderNumberTokenLength = 13
	defaultMaxAttempts     = 5
)

// OrderNumberExists reports whether an order number is already taken.
type OrderNumberExists func(ctx context.Context, orderNumber string) (bool, error)

// OrderNumberGenerator hands out human-readable order numbers. It draws a short random
// token a bounded number of times, then falls back once to a timestamped long token.
type OrderNumberGenerator struct {
	maxAttempts int
	short       func() string
	long        func() string
}

// NewOrderNumberGenerator creates a generator that tries maxAttempts short tokens.
func NewOrderNumberGenerator(maxAttempts int) *OrderNumberGenerator {
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}
	return &OrderNumberGenerator{
		maxAttempts: maxAttempts,
		short:       shortOrderNumber,
		long:        longOrderNumber,
	}
}

// Generate returns an order number for which exists reported false.
func (g *OrderNumberGenerator) Generate(ctx context.Context, exists OrderNumberExists) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := g.short()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	candidate := g.long()
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("no free order number after %d attempts: %w", g.maxAttempts+1, apperrors.ErrConstraintViolation)
	}
	return candidate, nil
}

func hexToken() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// shortOrderNumber draws only random nibbles: index 12 of the UUID is the version
// and index 16 the variant, so the token is hex[0:12] plus hex[13].
func shortOrderNumber() string {
	hex := hexToken()
	return orderNumberPrefix + hex[:orderNumberTokenLength-1] + hex[orderNumberTokenLength:orderNumberTokenLength+1]
}

func longOrderNumber() string {
	return orderNumberPrefix + time.Now().UTC().Format("20060102150405") + "-" + hexToken()
}

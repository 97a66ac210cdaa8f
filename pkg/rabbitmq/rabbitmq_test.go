package rabbitmq_test

import (
	"encoding/json"
	"testing"
	"time"

	"erp/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderEvent_JSONShape(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	event := rabbitmq.OrderEvent{
		Type:          rabbitmq.EventOrderDeleted,
		OrderID:       "o-1",
		OrderNumber:   "ORD-0123456789ABC",
		UserID:        "u-1",
		Status:        "paid",
		TotalAmount:   decimal.RequireFromString("2399.98"),
		StockRestored: true,
		OccurredAt:    at,
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "order.deleted", raw["type"])
	assert.Equal(t, "ORD-0123456789ABC", raw["order_number"])
	assert.Equal(t, "2399.98", raw["total_amount"])
	assert.Equal(t, true, raw["stock_restored"])
	assert.NotContains(t, raw, "previous_status")

	decoded, err := rabbitmq.DecodeOrderEvent(body)
	require.NoError(t, err)
	assert.True(t, decoded.TotalAmount.Equal(event.TotalAmount))
	assert.True(t, decoded.OccurredAt.Equal(at))
	assert.Equal(t, event.OrderID, decoded.OrderID)
}

func TestDecodeOrderEvent_Rejects(t *testing.T) {
	_, err := rabbitmq.DecodeOrderEvent([]byte("not json"))
	assert.Error(t, err)

	_, err = rabbitmq.DecodeOrderEvent([]byte(`{"type":"order.placed"}`))
	assert.Error(t, err)
}

func TestLogOrderEvent(t *testing.T) {
	assert.NoError(t, rabbitmq.LogOrderEvent(rabbitmq.OrderEvent{Type: rabbitmq.EventOrderPlaced, OrderID: "o-1"}))
}

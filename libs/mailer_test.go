package libs

import (
	"context"
	"testing"

	"shop-api/config"
	"shop-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerRequiresSMTP(t *testing.T) {
	_, err := NewMailer(&config.Config{SMTPHost: "smtp.example.com"})
	assert.Error(t, err)

	m, err := NewMailer(&config.Config{
		SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "shop@example.com", SMTPPass: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", m.from)
}

func TestOrderConfirmationBody(t *testing.T) {
	order := models.Order{
		ID:         42,
		TotalPrice: decimal.RequireFromString("13.5"),
		Status:     models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: 7, Quantity: 3, UnitPrice: decimal.RequireFromString("4.5")},
		},
	}

	body := orderConfirmationBody(models.User{Username: "alice"}, order)
	assert.Contains(t, body, "Hello alice")
	assert.Contains(t, body, "<strong>Order Number:</strong> 42")
	assert.Contains(t, body, "13.50")
	assert.Contains(t, body, "<td>#7</td>")
	assert.Contains(t, body, "width: 100%;")
}

func TestOrderConfirmationBodyEscapesUsername(t *testing.T) {
	body := orderConfirmationBody(models.User{Username: `<img src=x onerror="alert(1)">`}, models.Order{ID: 1})
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "Hello &lt;img src=x onerror=&#34;alert(1)&#34;&gt;")
}

func TestOrderPlacedHonorsCancelledContext(t *testing.T) {
	m, err := NewMailer(&config.Config{
		SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "u", SMTPPass: "p",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.OrderPlaced(ctx, models.User{Email: "a@example.com"}, models.Order{}), context.Canceled)
}

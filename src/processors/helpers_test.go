package processors

import (
	"time"

	"github.com/username/vendalytics/backend/src/models"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

// saleWith builds a sale carrying the product attributes the financial
// calculator consumes.
func saleWith(id string, finalValue float64, quantity int, unitPrice, margin float64) models.Sale {
	return models.Sale{
		ID:         id,
		FinalValue: finalValue,
		Quantity:   quantity,
		Product: &models.Product{
			ID:           "p-" + id,
			Name:         "produto " + id,
			UnitPrice:    unitPrice,
			ProfitMargin: margin,
		},
		Customer: &models.Customer{ID: "c-" + id},
		Seller:   &models.Seller{ID: "v-" + id},
	}
}

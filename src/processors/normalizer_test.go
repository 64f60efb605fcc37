package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/vendalytics/backend/src/models"
)

func TestNormalizeString(t *testing.T) {
	testCases := []struct {
		name     string
		input    *string
		expected string
	}{
		{"nil becomes sentinel", nil, models.MissingString},
		{"empty becomes sentinel", strPtr(""), models.MissingString},
		{"blank becomes sentinel", strPtr("   "), models.MissingString},
		{"control bytes only become sentinel", strPtr("\x00\x07"), models.MissingString},
		{"trims and lower-cases", strPtr("  São Paulo  "), "são paulo"},
		{"already normalized", strPtr("cartão"), "cartão"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeString(tc.input))
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	// Gender deliberately bypasses trim and lower-casing.
	assert.Equal(t, models.MissingGender, NormalizeGender(nil))
	assert.Equal(t, "Feminino", NormalizeGender(strPtr("Feminino")))
	assert.Equal(t, "  M  ", NormalizeGender(strPtr("  M  ")))
}

func TestNormalizeNumericDefaults(t *testing.T) {
	assert.Equal(t, 0, NormalizeInt(nil))
	assert.Equal(t, 7, NormalizeInt(intPtr(7)))
	assert.Equal(t, 0.0, NormalizeFloat(nil))
	assert.Equal(t, 12.5, NormalizeFloat(floatPtr(12.5)))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, models.MissingDate, NormalizeDate(nil))
	d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, d, NormalizeDate(timePtr(d)))
}

func TestNormalizeFullRecord(t *testing.T) {
	raw := models.RawSaleRecord{
		TransactionID:  strPtr(" T-001 "),
		CustomerID:     strPtr("C-9"),
		ProductID:      strPtr("P-1"),
		SellerID:       strPtr("V-2"),
		CustomerGender: strPtr("Masculino"),
		FinalValue:     floatPtr(99.9),
	}
	rec := Normalize(raw)

	assert.Equal(t, "t-001", rec.TransactionID)
	assert.Equal(t, "c-9", rec.CustomerID)
	assert.Equal(t, "Masculino", rec.CustomerGender)
	assert.Equal(t, 99.9, rec.FinalValue)
	assert.Equal(t, models.MissingDate, rec.SaleDate)
	assert.Equal(t, models.MissingString, rec.Region)
	assert.Equal(t, models.MissingString, rec.ProductName)
	assert.Equal(t, 0, rec.Quantity)
	assert.Equal(t, 0.0, rec.Subtotal)
}

func TestMapEntitiesCarriesNilAge(t *testing.T) {
	raw := models.RawSaleRecord{
		CustomerID: strPtr("c1"),
		ProductID:  strPtr("p1"),
		SellerID:   strPtr("v1"),
	}
	rec := Normalize(raw)
	customer, product, seller := MapEntities(raw, rec)

	assert.Nil(t, customer.Age)
	assert.Equal(t, "c1", customer.ID)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "v1", seller.ID)
}

func TestMapEntitiesCopiesAgeValue(t *testing.T) {
	age := 30
	raw := models.RawSaleRecord{
		CustomerID:  strPtr("c1"),
		CustomerAge: &age,
		ProductID:   strPtr("p1"),
		SellerID:    strPtr("v1"),
	}
	customer, _, _ := MapEntities(raw, Normalize(raw))

	age = 99 // mutation of the source must not leak into the entity
	assert.Equal(t, 30, *customer.Age)
}

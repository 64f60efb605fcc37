package processors

import (
	"strings"
	"time"

	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/security/validation"
)

// NormalizeString maps a missing or blank string to the generic sentinel,
// otherwise trims and lower-cases it. Unprintable characters are stripped
// before the blank check so a row of control bytes counts as missing.
func NormalizeString(value *string) string {
	if value == nil {
		return models.MissingString
	}
	cleaned := strings.TrimSpace(validation.StripUnprintable(*value))
	if cleaned == "" {
		return models.MissingString
	}
	return strings.ToLower(cleaned)
}

// NormalizeGender is the one exception to NormalizeString: a missing gender
// gets its own sentinel and a present value passes through untouched (no trim,
// no lower-casing).
func NormalizeGender(value *string) string {
	if value == nil {
		return models.MissingGender
	}
	return *value
}

func NormalizeInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func NormalizeFloat(value *float64) float64 {
	if value == nil {
		return 0.0
	}
	return *value
}

func NormalizeDate(value *time.Time) time.Time {
	if value == nil {
		return models.MissingDate
	}
	return *value
}

// Normalize converts a raw row into a SaleRecord with every field defaulted.
// It is pure, performs no I/O and never fails.
func Normalize(raw models.RawSaleRecord) models.SaleRecord {
	return models.SaleRecord{
		TransactionID:   NormalizeString(raw.TransactionID),
		SaleDate:        NormalizeDate(raw.SaleDate),
		FinalValue:      NormalizeFloat(raw.FinalValue),
		Subtotal:        NormalizeFloat(raw.Subtotal),
		DiscountPercent: NormalizeFloat(raw.DiscountPercent),
		Channel:         NormalizeString(raw.Channel),
		PaymentMethod:   NormalizeString(raw.PaymentMethod),

		CustomerID:      NormalizeString(raw.CustomerID),
		CustomerName:    NormalizeString(raw.CustomerName),
		CustomerAge:     NormalizeInt(raw.CustomerAge),
		CustomerGender:  NormalizeGender(raw.CustomerGender),
		CustomerCity:    NormalizeString(raw.CustomerCity),
		CustomerState:   NormalizeString(raw.CustomerState),
		EstimatedIncome: NormalizeFloat(raw.EstimatedIncome),

		ProductID:    NormalizeString(raw.ProductID),
		ProductName:  NormalizeString(raw.ProductName),
		Category:     NormalizeString(raw.Category),
		Brand:        NormalizeString(raw.Brand),
		UnitPrice:    NormalizeFloat(raw.UnitPrice),
		Quantity:     NormalizeInt(raw.Quantity),
		ProfitMargin: NormalizeFloat(raw.ProfitMargin),

		Region:         NormalizeString(raw.Region),
		DeliveryStatus: NormalizeString(raw.DeliveryStatus),
		DeliveryDays:   NormalizeInt(raw.DeliveryDays),
		SellerID:       NormalizeString(raw.SellerID),
	}
}

// MapEntities builds the three reference entities for a normalized record. The
// age pointer is carried over from the raw row so an unknown age stays
// distinguishable from a real zero in the demographic brackets.
func MapEntities(raw models.RawSaleRecord, rec models.SaleRecord) (models.Customer, models.Product, models.Seller) {
	var age *int
	if raw.CustomerAge != nil {
		v := *raw.CustomerAge
		age = &v
	}

	customer := models.Customer{
		ID:              rec.CustomerID,
		Name:            rec.CustomerName,
		Age:             age,
		Gender:          rec.CustomerGender,
		City:            rec.CustomerCity,
		State:           rec.CustomerState,
		EstimatedIncome: rec.EstimatedIncome,
	}
	product := models.Product{
		ID:           rec.ProductID,
		Name:         rec.ProductName,
		Category:     rec.Category,
		Brand:        rec.Brand,
		UnitPrice:    rec.UnitPrice,
		Quantity:     rec.Quantity,
		ProfitMargin: rec.ProfitMargin,
	}
	seller := models.Seller{ID: rec.SellerID}

	return customer, product, seller
}

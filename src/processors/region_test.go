package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendalytics/backend/src/models"
)

func regionSale(region string, finalValue float64, quantity int) models.Sale {
	return models.Sale{Region: region, FinalValue: finalValue, Quantity: quantity}
}

func TestByRegion(t *testing.T) {
	a := NewRegionAggregator()
	sales := []models.Sale{
		regionSale("sul", 100.0, 2),
		regionSale("norte", 40.0, 1),
		regionSale("sul", 50.0, 1),
	}

	m := a.ByRegion(sales)
	require.Equal(t, []string{"sul", "norte"}, m.Keys())

	sul, ok := m.Get("sul")
	require.True(t, ok)
	assert.Equal(t, int64(2), sul.TransactionCount)
	assert.InDelta(t, 150.0, sul.TotalRevenue, 1e-9)
	assert.Equal(t, 3, sul.QuantitySold)
	assert.InDelta(t, 75.0, sul.AveragePerTransaction, 1e-9)

	norte, ok := m.Get("norte")
	require.True(t, ok)
	assert.Equal(t, int64(1), norte.TransactionCount)
	assert.InDelta(t, 40.0, norte.AveragePerTransaction, 1e-9)
}

func TestByRegionSkipsBlankRegion(t *testing.T) {
	a := NewRegionAggregator()
	sales := []models.Sale{
		regionSale("", 100.0, 1),
		regionSale("   ", 100.0, 1),
		regionSale("sul", 10.0, 1),
	}
	m := a.ByRegion(sales)
	assert.Equal(t, []string{"sul"}, m.Keys())
}

func TestByRegionEmptyInput(t *testing.T) {
	a := NewRegionAggregator()
	m := a.ByRegion(nil)
	assert.Equal(t, 0, m.Len())
}

func TestByStateUpperCasesKey(t *testing.T) {
	a := NewRegionAggregator()
	sales := []models.Sale{
		{FinalValue: 10, Quantity: 1, Customer: &models.Customer{ID: "c1", State: "sp"}},
		{FinalValue: 20, Quantity: 1, Customer: &models.Customer{ID: "c2", State: "SP"}},
		{FinalValue: 30, Quantity: 1, Customer: &models.Customer{ID: "c3", State: "rj"}},
	}
	m := a.ByState(sales)
	require.Equal(t, []string{"SP", "RJ"}, m.Keys())

	sp, _ := m.Get("SP")
	assert.Equal(t, int64(2), sp.TransactionCount)
	assert.InDelta(t, 30.0, sp.TotalRevenue, 1e-9)
}

func TestByStateSkipsMissingCustomerOrState(t *testing.T) {
	a := NewRegionAggregator()
	sales := []models.Sale{
		{FinalValue: 10, Quantity: 1},
		{FinalValue: 10, Quantity: 1, Customer: &models.Customer{ID: "c1", State: "  "}},
		{FinalValue: 10, Quantity: 1, Customer: &models.Customer{ID: "c2", State: "mg"}},
	}
	m := a.ByState(sales)
	assert.Equal(t, []string{"MG"}, m.Keys())
}

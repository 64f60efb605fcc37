package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendalytics/backend/src/models"
)

func newAssembler() *ReportAssembler {
	return NewReportAssembler(NewFinancialCalculator(), NewProductAggregator(), NewRegionAggregator())
}

func TestSummary(t *testing.T) {
	r := newAssembler()
	sales := []models.Sale{
		{FinalValue: 10, PaymentMethod: "pix", Channel: "online"},
		{FinalValue: 20, PaymentMethod: "pix", Channel: "loja"},
		{FinalValue: 30, PaymentMethod: "cartão", Channel: "online"},
	}
	summary := r.Summary(sales)

	assert.Equal(t, 3, summary.TotalSales)
	assert.InDelta(t, 20.0, summary.AveragePerTransaction, 1e-9)
	assert.Equal(t, "pix", summary.MostUsedPaymentMethod)
	assert.Equal(t, "cartão", summary.LeastUsedPaymentMethod)
	assert.Equal(t, "online", summary.MostUsedChannel)
	assert.Equal(t, "loja", summary.LeastUsedChannel)
}

func TestSummaryEmpty(t *testing.T) {
	r := newAssembler()
	summary := r.Summary(nil)
	assert.Equal(t, 0, summary.TotalSales)
	assert.Equal(t, "N/A", summary.MostUsedPaymentMethod)
	assert.Equal(t, "N/A", summary.LeastUsedChannel)
}

func TestAssemble(t *testing.T) {
	r := newAssembler()
	sales := []models.Sale{
		{
			ID: "t1", FinalValue: 100, Quantity: 1, Region: "sul",
			PaymentMethod: "pix", Channel: "online",
			Product: &models.Product{Name: "p1", UnitPrice: 50, ProfitMargin: 0},
		},
		{
			ID: "t2", FinalValue: 300, Quantity: 2, Region: "norte",
			PaymentMethod: "pix", Channel: "online",
			Product: &models.Product{Name: "p2", UnitPrice: 50, ProfitMargin: 0},
		},
	}

	before := time.Now()
	report := r.Assemble(sales)
	after := time.Now()

	require.NotNil(t, report)
	assert.False(t, report.GeneratedAt.Before(before))
	assert.False(t, report.GeneratedAt.After(after))

	assert.InDelta(t, 400.0, report.Financial.NetRevenue, 1e-9)

	// canonical product order: descending total collected
	require.Len(t, report.Products, 2)
	assert.Equal(t, "p2", report.Products[0].Name)
	assert.Equal(t, "p1", report.Products[1].Name)

	assert.Equal(t, []string{"sul", "norte"}, report.Regional.Keys())
	assert.Equal(t, 2, report.Summary.TotalSales)
}

package processors

import (
	"time"

	"github.com/username/vendalytics/backend/src/models"
)

// ReportAssembler composes the consolidated report from the other processors'
// outputs. It performs no numeric derivation of its own: every value comes
// from the financial calculator or the aggregators.
type ReportAssembler struct {
	financial *FinancialCalculator
	products  *ProductAggregator
	regions   *RegionAggregator
}

func NewReportAssembler(
	financial *FinancialCalculator,
	products *ProductAggregator,
	regions *RegionAggregator,
) *ReportAssembler {
	return &ReportAssembler{
		financial: financial,
		products:  products,
		regions:   regions,
	}
}

// Summary builds the sales summary: counts, averages and the most/least used
// payment method and channel.
func (r *ReportAssembler) Summary(sales []models.Sale) models.SalesSummary {
	return models.SalesSummary{
		TotalSales:             r.financial.TransactionCount(sales),
		AveragePerTransaction:  r.financial.AveragePerTransaction(sales),
		MostUsedPaymentMethod:  r.financial.MostUsed(sales, PaymentMethod),
		LeastUsedPaymentMethod: r.financial.LeastUsed(sales, PaymentMethod),
		MostUsedChannel:        r.financial.MostUsed(sales, Channel),
		LeastUsedChannel:       r.financial.LeastUsed(sales, Channel),
	}
}

// Assemble stamps the report and composes financial metrics, product analysis
// (canonical order: descending total collected), sales summary and the
// regional performance map.
func (r *ReportAssembler) Assemble(sales []models.Sale) *models.FullReport {
	return &models.FullReport{
		GeneratedAt: time.Now(),
		Financial:   r.financial.Metrics(sales),
		Products:    r.products.AggregateSorted(sales, SortByTotal),
		Summary:     r.Summary(sales),
		Regional:    r.regions.ByRegion(sales),
	}
}

package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/utils"
)

// unknownCategory is returned by most/least-used lookups over an empty input.
const unknownCategory = "N/A"

// FinancialCalculator derives per-transaction and fleet-wide financial
// metrics. Every operation defends against absent values by substituting zero
// (or "N/A" for categorical results); none of them return errors.
type FinancialCalculator struct{}

func NewFinancialCalculator() *FinancialCalculator {
	return &FinancialCalculator{}
}

// NetRevenue is the sale's final value; zero when the record carried none.
func (c *FinancialCalculator) NetRevenue(sale models.Sale) float64 {
	return sale.FinalValue
}

// UnitCost estimates the unit cost from the list price and the margin
// fraction: price / (1 + margin). A margin of exactly -1.0 would divide by
// zero, so it is short-circuited to a zero cost.
func (c *FinancialCalculator) UnitCost(product *models.Product) float64 {
	if product == nil {
		return 0.0
	}
	if product.ProfitMargin == -1.0 {
		return 0.0
	}
	return product.UnitPrice / (1 + product.ProfitMargin)
}

// TransactionCost is the estimated cost of the whole sale, zero when the
// product reference is absent.
func (c *FinancialCalculator) TransactionCost(sale models.Sale) float64 {
	if sale.Product == nil {
		return 0.0
	}
	return c.UnitCost(sale.Product) * float64(sale.Quantity)
}

func (c *FinancialCalculator) GrossProfit(sale models.Sale) float64 {
	return utils.Round2(c.NetRevenue(sale) - c.TransactionCost(sale))
}

// MarginPercent is the gross profit as a percentage of revenue. Zero revenue
// yields 0.0 rather than a division error; negative revenue is not
// special-cased.
func (c *FinancialCalculator) MarginPercent(sale models.Sale) float64 {
	revenue := c.NetRevenue(sale)
	if revenue <= 0 {
		return 0.0
	}
	return (c.GrossProfit(sale) / revenue) * 100
}

func (c *FinancialCalculator) TotalRevenue(sales []models.Sale) float64 {
	return utils.Round2(c.rawRevenue(sales))
}

func (c *FinancialCalculator) TotalCost(sales []models.Sale) float64 {
	return utils.Round2(c.rawCost(sales))
}

// TotalGrossProfit is computed from the unrounded revenue and cost sums, not
// from already-rounded per-transaction profits, so per-row rounding drift does
// not accumulate.
func (c *FinancialCalculator) TotalGrossProfit(sales []models.Sale) float64 {
	return utils.Round2(c.rawRevenue(sales) - c.rawCost(sales))
}

func (c *FinancialCalculator) TransactionCount(sales []models.Sale) int {
	return len(sales)
}

func (c *FinancialCalculator) AveragePerTransaction(sales []models.Sale) float64 {
	if len(sales) == 0 {
		return 0.0
	}
	return utils.Round2(c.TotalRevenue(sales) / float64(len(sales)))
}

// Metrics bundles the three fleet-wide monetary aggregates.
func (c *FinancialCalculator) Metrics(sales []models.Sale) models.FinancialMetrics {
	return models.FinancialMetrics{
		NetRevenue:  c.TotalRevenue(sales),
		TotalCost:   c.TotalCost(sales),
		GrossProfit: c.TotalGrossProfit(sales),
	}
}

func (c *FinancialCalculator) rawRevenue(sales []models.Sale) float64 {
	var sum float64
	for _, sale := range sales {
		sum += sale.FinalValue
	}
	return sum
}

func (c *FinancialCalculator) rawCost(sales []models.Sale) float64 {
	var sum float64
	for _, sale := range sales {
		sum += c.TransactionCost(sale)
	}
	return sum
}

// MostUsed returns the categorical value with the highest occurrence count.
// Blank values count under the "Não informado" label. Ties resolve to the
// first key seen in input order; that tie-break is deliberate and stable.
func (c *FinancialCalculator) MostUsed(sales []models.Sale, field func(models.Sale) string) string {
	keys, counts := countByCategory(sales, field)
	if len(keys) == 0 {
		return unknownCategory
	}
	best := keys[0]
	for _, key := range keys[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return best
}

// LeastUsed is the MostUsed counterpart for the minimum count, with the same
// first-seen tie-break.
func (c *FinancialCalculator) LeastUsed(sales []models.Sale, field func(models.Sale) string) string {
	keys, counts := countByCategory(sales, field)
	if len(keys) == 0 {
		return unknownCategory
	}
	best := keys[0]
	for _, key := range keys[1:] {
		if counts[key] < counts[best] {
			best = key
		}
	}
	return best
}

func countByCategory(sales []models.Sale, field func(models.Sale) string) ([]string, map[string]int) {
	var keys []string
	counts := make(map[string]int)
	for _, sale := range sales {
		value := strings.TrimSpace(field(sale))
		if value == "" {
			value = models.MissingCategory
		}
		if _, seen := counts[value]; !seen {
			keys = append(keys, value)
		}
		counts[value]++
	}
	return keys, counts
}

// PaymentMethod and Channel are the categorical selectors the sales summary
// uses with MostUsed/LeastUsed.
func PaymentMethod(sale models.Sale) string { return sale.PaymentMethod }

func Channel(sale models.Sale) string { return sale.Channel }

// TransactionProfits builds the per-transaction financial breakdown, one row
// per sale, and applies the requested sort order. Unrecognized sort selectors
// silently fall back to the default ordering by transaction id.
func (c *FinancialCalculator) TransactionProfits(sales []models.Sale, sortBy string) []models.TransactionProfit {
	rows := make([]models.TransactionProfit, 0, len(sales))
	for _, sale := range sales {
		productName := models.MissingString
		if sale.Product != nil {
			productName = sale.Product.Name
		}
		margin := c.MarginPercent(sale)
		rows = append(rows, models.TransactionProfit{
			TransactionID: sale.ID,
			Product:       productName,
			NetRevenue:    c.NetRevenue(sale),
			EstimatedCost: utils.Round2(c.TransactionCost(sale)),
			QuantitySold:  sale.Quantity,
			GrossProfit:   c.GrossProfit(sale),
			MarginValue:   margin,
			MarginPercent: fmt.Sprintf("%.2f%%", margin),
		})
	}

	switch strings.ToLower(sortBy) {
	case "lucro":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].GrossProfit > rows[j].GrossProfit })
	case "receita":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].NetRevenue > rows[j].NetRevenue })
	case "margem":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].MarginValue > rows[j].MarginValue })
	case "custo":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].EstimatedCost > rows[j].EstimatedCost })
	case "quantidade":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].QuantitySold > rows[j].QuantitySold })
	default:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].TransactionID < rows[j].TransactionID })
	}
	return rows
}

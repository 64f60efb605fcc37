package processors

import (
	"sort"
	"strings"

	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/utils"
)

// Product analysis sort selectors. Anything else falls back to SortByName.
const (
	SortByName     = "nome"
	SortByQuantity = "quantidade"
	SortByTotal    = "total"
)

// ProductAggregator groups sales by product name into quantity and revenue
// totals. Buckets are created lazily on first touch and keep first-seen order;
// revenue is rounded as it accumulates, matching the report's monetary rule.
type ProductAggregator struct{}

func NewProductAggregator() *ProductAggregator {
	return &ProductAggregator{}
}

func (a *ProductAggregator) Aggregate(sales []models.Sale) []models.ProductAnalysis {
	var order []string
	buckets := make(map[string]*models.ProductAnalysis)

	for _, sale := range sales {
		name := models.MissingString
		if sale.Product != nil {
			name = sale.Product.Name
		}

		bucket, ok := buckets[name]
		if !ok {
			bucket = &models.ProductAnalysis{Name: name}
			buckets[name] = bucket
			order = append(order, name)
		}
		bucket.QuantitySold += sale.Quantity
		bucket.TotalCollected = utils.Round2(bucket.TotalCollected + sale.FinalValue)
	}

	result := make([]models.ProductAnalysis, 0, len(order))
	for _, name := range order {
		result = append(result, *buckets[name])
	}
	return result
}

// Sort orders a product analysis in place. "quantidade" and "total" are
// descending; the default (and any unrecognized selector) is ascending by
// product name.
func (a *ProductAggregator) Sort(analysis []models.ProductAnalysis, sortBy string) {
	switch strings.ToLower(sortBy) {
	case SortByQuantity:
		sort.SliceStable(analysis, func(i, j int) bool {
			return analysis[i].QuantitySold > analysis[j].QuantitySold
		})
	case SortByTotal:
		sort.SliceStable(analysis, func(i, j int) bool {
			return analysis[i].TotalCollected > analysis[j].TotalCollected
		})
	default:
		sort.SliceStable(analysis, func(i, j int) bool {
			return analysis[i].Name < analysis[j].Name
		})
	}
}

// AggregateSorted is the common aggregate-then-sort path used by the handlers.
func (a *ProductAggregator) AggregateSorted(sales []models.Sale, sortBy string) []models.ProductAnalysis {
	analysis := a.Aggregate(sales)
	a.Sort(analysis, sortBy)
	return analysis
}

package processors

import (
	"strings"

	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/utils"
)

// RegionAggregator groups sales by region or by customer state. Both views
// share the same per-bucket metric computation; they differ only in the
// grouping key and in which rows get skipped.
type RegionAggregator struct{}

func NewRegionAggregator() *RegionAggregator {
	return &RegionAggregator{}
}

type regionBucket struct {
	count    int64
	revenue  float64
	quantity int
}

// ByRegion aggregates per region, skipping sales with a blank region. Keys
// keep first-seen order. An empty input yields an empty map, never an error.
func (a *RegionAggregator) ByRegion(sales []models.Sale) *models.RegionMetricsMap {
	return a.aggregate(sales, func(sale models.Sale) (string, bool) {
		region := strings.TrimSpace(sale.Region)
		if region == "" {
			return "", false
		}
		return sale.Region, true
	})
}

// ByState aggregates per customer state, upper-cased, skipping sales whose
// customer or state is absent.
func (a *RegionAggregator) ByState(sales []models.Sale) *models.RegionMetricsMap {
	return a.aggregate(sales, func(sale models.Sale) (string, bool) {
		if sale.Customer == nil || strings.TrimSpace(sale.Customer.State) == "" {
			return "", false
		}
		return strings.ToUpper(sale.Customer.State), true
	})
}

func (a *RegionAggregator) aggregate(sales []models.Sale, key func(models.Sale) (string, bool)) *models.RegionMetricsMap {
	var order []string
	buckets := make(map[string]*regionBucket)

	for _, sale := range sales {
		k, ok := key(sale)
		if !ok {
			continue
		}
		bucket, seen := buckets[k]
		if !seen {
			bucket = &regionBucket{}
			buckets[k] = bucket
			order = append(order, k)
		}
		bucket.count++
		bucket.revenue += sale.FinalValue
		bucket.quantity += sale.Quantity
	}

	result := models.NewRegionMetricsMap()
	for _, k := range order {
		bucket := buckets[k]
		average := 0.0
		if bucket.count > 0 {
			average = bucket.revenue / float64(bucket.count)
		}
		result.Set(k, models.RegionMetrics{
			TransactionCount:      bucket.count,
			TotalRevenue:          utils.Round2(bucket.revenue),
			QuantitySold:          bucket.quantity,
			AveragePerTransaction: utils.Round2(average),
		})
	}
	return result
}

// backend/src/services/report_service.go
package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/vendalytics/backend/src/database"
	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/processors"
)

// Cache keys for the derived reports. Sorted views are cached in canonical
// order and re-sorted per request, so one key per dataset is enough.
const (
	ckSales             = "sales"
	ckFinancialMetrics  = "financialMetrics"
	ckProductAnalysis   = "productAnalysis"
	ckTransactionProfit = "transactionProfit"
	ckSalesSummary      = "salesSummary"
	ckRegionalMetrics   = "regionalMetrics"
	ckStateMetrics      = "stateMetrics"
	ckCustomerProfile   = "customerProfile"
	ckFullReport        = "fullReport"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type reportServiceImpl struct {
	financial    *processors.FinancialCalculator
	products     *processors.ProductAggregator
	regions      *processors.RegionAggregator
	demographics *processors.DemographicsAggregator
	assembler    *processors.ReportAssembler
	reportCache  *cache.Cache
}

func NewReportService(reportCache *cache.Cache) ReportService {
	financial := processors.NewFinancialCalculator()
	products := processors.NewProductAggregator()
	regions := processors.NewRegionAggregator()
	return &reportServiceImpl{
		financial:    financial,
		products:     products,
		regions:      regions,
		demographics: processors.NewDemographicsAggregator(),
		assembler:    processors.NewReportAssembler(financial, products, regions),
		reportCache:  reportCache,
	}
}

func (s *reportServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
	logger.L.Info("Report cache invalidated")
}

// fetchSales loads the whole dataset with its joined entities, in insertion
// order. The aggregators depend on that order for their first-seen semantics.
func (s *reportServiceImpl) fetchSales() ([]models.Sale, error) {
	if cached, found := s.reportCache.Get(ckSales); found {
		if sales, ok := cached.([]models.Sale); ok {
			return sales, nil
		}
	}

	rows, err := database.DB.Query(`
		SELECT s.id, s.sale_date, s.final_value, s.subtotal, s.discount_percent,
			s.channel, s.payment_method, s.quantity, s.region,
			s.delivery_status, s.delivery_days,
			c.id, c.name, c.age, c.gender, c.city, c.state, c.estimated_income,
			p.id, p.name, p.category, p.brand, p.unit_price, p.quantity, p.profit_margin,
			sl.id
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		LEFT JOIN products p ON p.id = s.product_id
		LEFT JOIN sellers sl ON sl.id = s.seller_id
		ORDER BY s.rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var (
			sale     models.Sale
			saleDate string
			customer models.Customer
			product  models.Product
			seller   models.Seller
			age      sql.NullInt64
		)
		err := rows.Scan(
			&sale.ID, &saleDate, &sale.FinalValue, &sale.Subtotal, &sale.DiscountPercent,
			&sale.Channel, &sale.PaymentMethod, &sale.Quantity, &sale.Region,
			&sale.DeliveryStatus, &sale.DeliveryDays,
			&customer.ID, &customer.Name, &age, &customer.Gender,
			&customer.City, &customer.State, &customer.EstimatedIncome,
			&product.ID, &product.Name, &product.Category, &product.Brand,
			&product.UnitPrice, &product.Quantity, &product.ProfitMargin,
			&seller.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale row: %w", err)
		}
		if age.Valid {
			v := int(age.Int64)
			customer.Age = &v
		}
		sale.Date, err = time.Parse("2006-01-02", saleDate)
		if err != nil {
			return nil, fmt.Errorf("error parsing sale date %q: %w", saleDate, err)
		}
		sale.Customer = &customer
		sale.Product = &product
		sale.Seller = &seller
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	s.reportCache.Set(ckSales, sales, cache.DefaultExpiration)
	return sales, nil
}

func (s *reportServiceImpl) FinancialMetrics() (models.FinancialMetrics, error) {
	if cached, found := s.reportCache.Get(ckFinancialMetrics); found {
		if metrics, ok := cached.(models.FinancialMetrics); ok {
			return metrics, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return models.FinancialMetrics{}, err
	}
	metrics := s.financial.Metrics(sales)
	s.reportCache.Set(ckFinancialMetrics, metrics, cache.DefaultExpiration)
	return metrics, nil
}

// ProductAnalysis returns the product aggregation in the requested order. The
// canonical (first-seen) aggregation is what gets cached; sorting happens on a
// per-request copy.
func (s *reportServiceImpl) ProductAnalysis(sortBy string) ([]models.ProductAnalysis, error) {
	canonical, err := s.cachedProductAnalysis()
	if err != nil {
		return nil, err
	}
	analysis := make([]models.ProductAnalysis, len(canonical))
	copy(analysis, canonical)
	s.products.Sort(analysis, sortBy)
	return analysis, nil
}

func (s *reportServiceImpl) cachedProductAnalysis() ([]models.ProductAnalysis, error) {
	if cached, found := s.reportCache.Get(ckProductAnalysis); found {
		if analysis, ok := cached.([]models.ProductAnalysis); ok {
			return analysis, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return nil, err
	}
	analysis := s.products.Aggregate(sales)
	s.reportCache.Set(ckProductAnalysis, analysis, cache.DefaultExpiration)
	return analysis, nil
}

func (s *reportServiceImpl) TransactionAnalysis(sortBy string) ([]models.TransactionProfit, error) {
	// TransactionProfits sorts internally, so the cache key has to carry the
	// sort mode.
	key := ckTransactionProfit + ":" + sortBy
	if cached, found := s.reportCache.Get(key); found {
		if profits, ok := cached.([]models.TransactionProfit); ok {
			return profits, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return nil, err
	}
	profits := s.financial.TransactionProfits(sales, sortBy)
	s.reportCache.Set(key, profits, cache.DefaultExpiration)
	return profits, nil
}

func (s *reportServiceImpl) SalesSummary() (models.SalesSummary, error) {
	if cached, found := s.reportCache.Get(ckSalesSummary); found {
		if summary, ok := cached.(models.SalesSummary); ok {
			return summary, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return models.SalesSummary{}, err
	}
	summary := s.assembler.Summary(sales)
	s.reportCache.Set(ckSalesSummary, summary, cache.DefaultExpiration)
	return summary, nil
}

func (s *reportServiceImpl) RegionalPerformance() (*models.RegionMetricsMap, error) {
	if cached, found := s.reportCache.Get(ckRegionalMetrics); found {
		if metrics, ok := cached.(*models.RegionMetricsMap); ok {
			return metrics, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return nil, err
	}
	metrics := s.regions.ByRegion(sales)
	s.reportCache.Set(ckRegionalMetrics, metrics, cache.DefaultExpiration)
	return metrics, nil
}

func (s *reportServiceImpl) StatePerformance() (*models.RegionMetricsMap, error) {
	if cached, found := s.reportCache.Get(ckStateMetrics); found {
		if metrics, ok := cached.(*models.RegionMetricsMap); ok {
			return metrics, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return nil, err
	}
	metrics := s.regions.ByState(sales)
	s.reportCache.Set(ckStateMetrics, metrics, cache.DefaultExpiration)
	return metrics, nil
}

func (s *reportServiceImpl) CustomerProfile() (models.CustomerDistribution, error) {
	if cached, found := s.reportCache.Get(ckCustomerProfile); found {
		if profile, ok := cached.(models.CustomerDistribution); ok {
			return profile, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return models.CustomerDistribution{}, err
	}
	profile := s.demographics.Distribution(sales)
	s.reportCache.Set(ckCustomerProfile, profile, cache.DefaultExpiration)
	return profile, nil
}

func (s *reportServiceImpl) FullReport() (*models.FullReport, error) {
	if cached, found := s.reportCache.Get(ckFullReport); found {
		if report, ok := cached.(*models.FullReport); ok {
			return report, nil
		}
	}
	sales, err := s.fetchSales()
	if err != nil {
		return nil, err
	}
	report := s.assembler.Assemble(sales)
	s.reportCache.Set(ckFullReport, report, cache.DefaultExpiration)
	return report, nil
}

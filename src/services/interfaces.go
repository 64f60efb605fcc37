package services

import (
	"io"

	"github.com/username/vendalytics/backend/src/models"
)

// ImportService owns the upload pipeline: parse, validate, normalize and
// persist a file of sale rows as one all-or-nothing batch.
type ImportService interface {
	ProcessUpload(fileReader io.Reader, source string) (*models.ImportResult, error)
}

// ReportService serves the derived analytics. Results are cached until the
// next successful import.
type ReportService interface {
	FinancialMetrics() (models.FinancialMetrics, error)
	ProductAnalysis(sortBy string) ([]models.ProductAnalysis, error)
	TransactionAnalysis(sortBy string) ([]models.TransactionProfit, error)
	SalesSummary() (models.SalesSummary, error)
	RegionalPerformance() (*models.RegionMetricsMap, error)
	StatePerformance() (*models.RegionMetricsMap, error)
	CustomerProfile() (models.CustomerDistribution, error)
	FullReport() (*models.FullReport, error)
	InvalidateCache()
}

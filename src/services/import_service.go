// backend/src/services/import_service.go
package services

import (
	"fmt"
	"io"
	"time"

	"github.com/username/vendalytics/backend/src/database"
	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/parsers"
	"github.com/username/vendalytics/backend/src/processors"
)

type importServiceImpl struct {
	reportService ReportService
}

func NewImportService(reportService ReportService) ImportService {
	return &importServiceImpl{reportService: reportService}
}

// ProcessUpload runs the full ingestion pipeline. Validation happens for the
// whole batch before the database is touched: a single record with a missing
// identifier fails the upload and commits nothing.
func (s *importServiceImpl) ProcessUpload(fileReader io.Reader, source string) (*models.ImportResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "source", source)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", parsers.ErrInvalidFile, err)
	}

	rawRecords, err := parser.Parse(fileReader)
	if err != nil {
		return nil, err
	}

	sales, customers, products, sellers, err := buildBatch(rawRecords)
	if err != nil {
		return nil, err
	}

	if err := persistBatch(sales, customers, products, sellers); err != nil {
		return nil, err
	}

	if s.reportService != nil {
		s.reportService.InvalidateCache()
	}

	logger.L.Info("ProcessUpload END",
		"source", source,
		"rows", len(rawRecords),
		"duration", time.Since(overallStartTime))
	return &models.ImportResult{Status: "sucesso", RowsProcessed: len(rawRecords)}, nil
}

// buildBatch validates and normalizes every row, collecting entities into
// explicit keyed maps (id → latest attributes) so the last row wins for a
// repeated id, exactly like the upsert the database performs afterwards.
func buildBatch(rawRecords []models.RawSaleRecord) (
	[]models.Sale,
	map[string]*models.Customer,
	map[string]*models.Product,
	map[string]*models.Seller,
	error,
) {
	customers := make(map[string]*models.Customer)
	products := make(map[string]*models.Product)
	sellers := make(map[string]*models.Seller)
	sales := make([]models.Sale, 0, len(rawRecords))

	for i, raw := range rawRecords {
		if err := processors.ValidateIdentifiers(raw); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("registro %d: %w", i+1, err)
		}
		rec := processors.Normalize(raw)

		customer, product, seller := processors.MapEntities(raw, rec)
		customers[customer.ID] = &customer
		products[product.ID] = &product
		sellers[seller.ID] = &seller

		sale := models.Sale{
			ID:              rec.TransactionID,
			Date:            rec.SaleDate,
			FinalValue:      rec.FinalValue,
			Subtotal:        rec.Subtotal,
			DiscountPercent: rec.DiscountPercent,
			Channel:         rec.Channel,
			PaymentMethod:   rec.PaymentMethod,
			Quantity:        rec.Quantity,
			Region:          rec.Region,
			DeliveryStatus:  rec.DeliveryStatus,
			DeliveryDays:    rec.DeliveryDays,
			Customer:        customers[customer.ID],
			Product:         products[product.ID],
			Seller:          sellers[seller.ID],
		}
		if err := processors.ValidateReferences(sale); err != nil {
			// Should be unreachable once the identifier checks passed.
			return nil, nil, nil, nil, err
		}
		sales = append(sales, sale)
	}

	return sales, customers, products, sellers, nil
}

func persistBatch(
	sales []models.Sale,
	customers map[string]*models.Customer,
	products map[string]*models.Product,
	sellers map[string]*models.Seller,
) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	customerStmt, err := dbTx.Prepare(`
		INSERT INTO customers (id, name, age, gender, city, state, estimated_income)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, age = excluded.age, gender = excluded.gender,
			city = excluded.city, state = excluded.state,
			estimated_income = excluded.estimated_income`)
	if err != nil {
		return fmt.Errorf("error preparing customer upsert: %w", err)
	}
	defer customerStmt.Close()

	productStmt, err := dbTx.Prepare(`
		INSERT INTO products (id, name, category, brand, unit_price, quantity, profit_margin)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, category = excluded.category, brand = excluded.brand,
			unit_price = excluded.unit_price, quantity = excluded.quantity,
			profit_margin = excluded.profit_margin`)
	if err != nil {
		return fmt.Errorf("error preparing product upsert: %w", err)
	}
	defer productStmt.Close()

	sellerStmt, err := dbTx.Prepare(`INSERT INTO sellers (id) VALUES (?) ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("error preparing seller upsert: %w", err)
	}
	defer sellerStmt.Close()

	saleStmt, err := dbTx.Prepare(`
		INSERT INTO sales (id, sale_date, final_value, subtotal, discount_percent,
			channel, payment_method, quantity, region, delivery_status, delivery_days,
			customer_id, product_id, seller_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sale_date = excluded.sale_date, final_value = excluded.final_value,
			subtotal = excluded.subtotal, discount_percent = excluded.discount_percent,
			channel = excluded.channel, payment_method = excluded.payment_method,
			quantity = excluded.quantity, region = excluded.region,
			delivery_status = excluded.delivery_status, delivery_days = excluded.delivery_days,
			customer_id = excluded.customer_id, product_id = excluded.product_id,
			seller_id = excluded.seller_id`)
	if err != nil {
		return fmt.Errorf("error preparing sale upsert: %w", err)
	}
	defer saleStmt.Close()

	for _, c := range customers {
		if _, err := customerStmt.Exec(c.ID, c.Name, nullableInt(c.Age), c.Gender, c.City, c.State, c.EstimatedIncome); err != nil {
			return fmt.Errorf("error upserting customer %s: %w", c.ID, err)
		}
	}
	for _, p := range products {
		if _, err := productStmt.Exec(p.ID, p.Name, p.Category, p.Brand, p.UnitPrice, p.Quantity, p.ProfitMargin); err != nil {
			return fmt.Errorf("error upserting product %s: %w", p.ID, err)
		}
	}
	for _, sl := range sellers {
		if _, err := sellerStmt.Exec(sl.ID); err != nil {
			return fmt.Errorf("error upserting seller %s: %w", sl.ID, err)
		}
	}
	for _, sale := range sales {
		if _, err := saleStmt.Exec(
			sale.ID, sale.Date.Format("2006-01-02"), sale.FinalValue, sale.Subtotal,
			sale.DiscountPercent, sale.Channel, sale.PaymentMethod, sale.Quantity,
			sale.Region, sale.DeliveryStatus, sale.DeliveryDays,
			sale.Customer.ID, sale.Product.ID, sale.Seller.ID,
		); err != nil {
			return fmt.Errorf("error upserting sale %s: %w", sale.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing sales batch: %w", err)
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

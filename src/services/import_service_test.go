package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendalytics/backend/src/database"
	"github.com/username/vendalytics/backend/src/logger"
	"github.com/username/vendalytics/backend/src/models"
	"github.com/username/vendalytics/backend/src/parsers"
	"github.com/username/vendalytics/backend/src/processors"
	_ "modernc.org/sqlite"
)

const testCSVHeader = "id_transacao,data_venda,valor_final,subtotal,desconto_percent," +
	"canal_venda,forma_pagamento,cliente_id,nome_cliente,idade_cliente," +
	"genero_cliente,cidade_cliente,estado_cliente,renda_estimada,produto_id," +
	"nome_produto,categoria,marca,preco_unitario,quantidade,margem_lucro," +
	"regiao,status_entrega,tempo_entrega_dias,vendedor_id"

func setupTestDB(t *testing.T) {
	t.Helper()
	if logger.L == nil {
		logger.InitLogger("error")
	}
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))
	database.DB = db
	t.Cleanup(func() {
		db.Close()
		database.DB = nil
	})
}

func newTestServices() (ImportService, ReportService) {
	reportCache := cache.New(DefaultCacheExpiration, CacheCleanupInterval)
	reportService := NewReportService(reportCache)
	return NewImportService(reportService), reportService
}

func uploadCSV(t *testing.T, svc ImportService, rows ...string) *models.ImportResult {
	t.Helper()
	payload := testCSVHeader + "\n" + strings.Join(rows, "\n") + "\n"
	result, err := svc.ProcessUpload(strings.NewReader(payload), "csv")
	require.NoError(t, err)
	return result
}

func TestProcessUploadPersistsBatch(t *testing.T) {
	setupTestDB(t)
	importService, _ := newTestServices()

	result := uploadCSV(t, importService,
		"T-1,2024-03-15,250.00,260.00,3.8,online,pix,C-1,Ana,28,Feminino,Recife,pe,4500,P-1,Teclado,Periféricos,Logi,125.00,2,0.25,Nordeste,entregue,3,V-1",
		"T-2,2024-03-16,100.00,100.00,0,loja,cartão,C-2,Bruno,,Masculino,Natal,rn,3000,P-2,Mouse,Periféricos,Logi,50.00,1,0.25,Nordeste,entregue,2,V-1",
	)

	assert.Equal(t, "sucesso", result.Status)
	assert.Equal(t, 2, result.RowsProcessed)

	var salesCount, customersCount, sellersCount int
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM sales").Scan(&salesCount))
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM customers").Scan(&customersCount))
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM sellers").Scan(&sellersCount))
	assert.Equal(t, 2, salesCount)
	assert.Equal(t, 2, customersCount)
	assert.Equal(t, 1, sellersCount)

	// missing age persists as NULL
	var age sql.NullInt64
	require.NoError(t, database.DB.QueryRow("SELECT age FROM customers WHERE id = 'c-2'").Scan(&age))
	assert.False(t, age.Valid)
}

func TestProcessUploadRejectsWholeBatchOnMissingIdentifier(t *testing.T) {
	setupTestDB(t)
	importService, _ := newTestServices()

	payload := testCSVHeader + "\n" +
		"T-1,2024-03-15,10,10,0,online,pix,C-1,Ana,28,F,Recife,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1\n" +
		"T-2,2024-03-15,10,10,0,online,pix,,Bia,30,F,Recife,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1\n"

	_, err := importService.ProcessUpload(strings.NewReader(payload), "csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, processors.ErrInvalidData)
	assert.Contains(t, err.Error(), "registro 2")

	// nothing committed, including the valid first row
	var count int
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM sales").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestProcessUploadUnknownSource(t *testing.T) {
	setupTestDB(t)
	importService, _ := newTestServices()
	_, err := importService.ProcessUpload(strings.NewReader("x"), "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, parsers.ErrInvalidFile)
}

func TestProcessUploadUpsertLastWriteWins(t *testing.T) {
	setupTestDB(t)
	importService, _ := newTestServices()

	uploadCSV(t, importService,
		"T-1,2024-03-15,100,100,0,online,pix,C-1,Ana,28,F,Recife,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1")
	uploadCSV(t, importService,
		"T-1,2024-03-20,200,200,0,loja,cartão,C-1,Ana Maria,29,F,Olinda,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1")

	var salesCount int
	require.NoError(t, database.DB.QueryRow("SELECT COUNT(*) FROM sales").Scan(&salesCount))
	assert.Equal(t, 1, salesCount)

	var finalValue float64
	var name string
	require.NoError(t, database.DB.QueryRow("SELECT final_value FROM sales WHERE id = 't-1'").Scan(&finalValue))
	require.NoError(t, database.DB.QueryRow("SELECT name FROM customers WHERE id = 'c-1'").Scan(&name))
	assert.Equal(t, 200.0, finalValue)
	assert.Equal(t, "ana maria", name)
}

func TestReportsAfterUpload(t *testing.T) {
	setupTestDB(t)
	importService, reportService := newTestServices()

	uploadCSV(t, importService,
		"T-1,2024-03-15,250.00,260.00,3.8,online,pix,C-1,Ana,28,Feminino,Recife,pe,4500,P-1,Teclado,Periféricos,Logi,125.00,2,0.25,Nordeste,entregue,3,V-1",
		"T-2,2024-03-16,100.00,100.00,0,loja,cartão,C-2,Bruno,,Masculino,Natal,rn,3000,P-2,Mouse,Periféricos,Logi,50.00,1,0.25,Nordeste,entregue,2,V-1",
	)

	metrics, err := reportService.FinancialMetrics()
	require.NoError(t, err)
	assert.InDelta(t, 350.0, metrics.NetRevenue, 1e-9)
	// costs: 2*(125/1.25) + 1*(50/1.25) = 200 + 40
	assert.InDelta(t, 240.0, metrics.TotalCost, 1e-9)
	assert.InDelta(t, 110.0, metrics.GrossProfit, 1e-9)

	summary, err := reportService.SalesSummary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalSales)
	assert.InDelta(t, 175.0, summary.AveragePerTransaction, 1e-9)

	products, err := reportService.ProductAnalysis("total")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "teclado", products[0].Name)
	assert.InDelta(t, 250.0, products[0].TotalCollected, 1e-9)

	regional, err := reportService.RegionalPerformance()
	require.NoError(t, err)
	assert.Equal(t, []string{"nordeste"}, regional.Keys())

	states, err := reportService.StatePerformance()
	require.NoError(t, err)
	assert.Equal(t, []string{"PE", "RN"}, states.Keys())

	profile, err := reportService.CustomerProfile()
	require.NoError(t, err)
	bruno, ok := profile.ByAgeBracket.Get("Não informado")
	require.True(t, ok)
	assert.Equal(t, int64(1), bruno.Count)

	report, err := reportService.FullReport()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), report.GeneratedAt, 5*time.Second)
	assert.Equal(t, 2, report.Summary.TotalSales)
}

func TestUploadInvalidatesReportCache(t *testing.T) {
	setupTestDB(t)
	importService, reportService := newTestServices()

	uploadCSV(t, importService,
		"T-1,2024-03-15,100,100,0,online,pix,C-1,Ana,28,F,Recife,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1")

	metrics, err := reportService.FinancialMetrics()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, metrics.NetRevenue, 1e-9)

	uploadCSV(t, importService,
		"T-2,2024-03-16,50,50,0,online,pix,C-1,Ana,28,F,Recife,pe,0,P-1,Teclado,cat,m,10,1,0,sul,ok,1,V-1")

	metrics, err = reportService.FinancialMetrics()
	require.NoError(t, err)
	assert.InDelta(t, 150.0, metrics.NetRevenue, 1e-9)
}

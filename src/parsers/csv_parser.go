package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/username/vendalytics/backend/src/models"
)

// saleDateLayout is the wire format for the sale date column.
const saleDateLayout = "2006-01-02"

// requiredColumns is the full header contract. Every column must be present
// (any order); unknown extra columns are ignored.
var requiredColumns = []string{
	"id_transacao", "data_venda", "valor_final", "subtotal", "desconto_percent",
	"canal_venda", "forma_pagamento",
	"cliente_id", "nome_cliente", "idade_cliente", "genero_cliente",
	"cidade_cliente", "estado_cliente", "renda_estimada",
	"produto_id", "nome_produto", "categoria", "marca", "preco_unitario",
	"quantidade", "margem_lucro",
	"regiao", "status_entrega", "tempo_entrega_dias", "vendedor_id",
}

type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(file io.Reader) ([]models.RawSaleRecord, error) {
	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: falha ao ler o cabeçalho: %v", ErrInvalidFile, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: colunas obrigatórias ausentes: %s", ErrInvalidFile, strings.Join(missing, ", "))
	}

	var records []models.RawSaleRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: linha %d ilegível: %v", ErrInvalidFile, line, err)
		}

		record, err := p.buildRecord(row, columns, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (p *CSVParser) buildRecord(row []string, columns map[string]int, line int) (models.RawSaleRecord, error) {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	str := func(name string) *string {
		v := cell(name)
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return &v
	}

	var convErr error
	num := func(name string) *float64 {
		v := strings.TrimSpace(cell(name))
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil && convErr == nil {
			convErr = fmt.Errorf("%w: linha %d, coluna %q: valor numérico inválido %q", ErrInvalidFile, line, name, v)
		}
		return &f
	}
	integer := func(name string) *int {
		v := strings.TrimSpace(cell(name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil && convErr == nil {
			convErr = fmt.Errorf("%w: linha %d, coluna %q: valor inteiro inválido %q", ErrInvalidFile, line, name, v)
		}
		return &n
	}
	date := func(name string) *time.Time {
		v := strings.TrimSpace(cell(name))
		if v == "" {
			return nil
		}
		t, err := time.Parse(saleDateLayout, v)
		if err != nil && convErr == nil {
			convErr = fmt.Errorf("%w: linha %d, coluna %q: data inválida %q", ErrInvalidFile, line, name, v)
		}
		return &t
	}

	record := models.RawSaleRecord{
		TransactionID:   str("id_transacao"),
		SaleDate:        date("data_venda"),
		FinalValue:      num("valor_final"),
		Subtotal:        num("subtotal"),
		DiscountPercent: num("desconto_percent"),
		Channel:         str("canal_venda"),
		PaymentMethod:   str("forma_pagamento"),

		CustomerID:      str("cliente_id"),
		CustomerName:    str("nome_cliente"),
		CustomerAge:     integer("idade_cliente"),
		CustomerGender:  str("genero_cliente"),
		CustomerCity:    str("cidade_cliente"),
		CustomerState:   str("estado_cliente"),
		EstimatedIncome: num("renda_estimada"),

		ProductID:    str("produto_id"),
		ProductName:  str("nome_produto"),
		Category:     str("categoria"),
		Brand:        str("marca"),
		UnitPrice:    num("preco_unitario"),
		Quantity:     integer("quantidade"),
		ProfitMargin: num("margem_lucro"),

		Region:         str("regiao"),
		DeliveryStatus: str("status_entrega"),
		DeliveryDays:   integer("tempo_entrega_dias"),
		SellerID:       str("vendedor_id"),
	}
	if convErr != nil {
		return models.RawSaleRecord{}, convErr
	}
	return record, nil
}

package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/vendalytics/backend/src/models"
)

// JSONParser accepts the same rows as the CSV parser, as a JSON array of
// objects keyed by the column names. Dates use the same yyyy-mm-dd layout.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// jsonSaleRow mirrors RawSaleRecord but keeps the date as a string so the
// plain-date layout can be parsed explicitly.
type jsonSaleRow struct {
	models.RawSaleRecord
	SaleDate *string `json:"data_venda"`
}

func (p *JSONParser) Parse(file io.Reader) ([]models.RawSaleRecord, error) {
	var rows []jsonSaleRow
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: JSON malformado: %v", ErrInvalidFile, err)
	}

	records := make([]models.RawSaleRecord, 0, len(rows))
	for i, row := range rows {
		record := row.RawSaleRecord
		if row.SaleDate != nil && strings.TrimSpace(*row.SaleDate) != "" {
			t, err := time.Parse(saleDateLayout, strings.TrimSpace(*row.SaleDate))
			if err != nil {
				return nil, fmt.Errorf("%w: registro %d: data inválida %q", ErrInvalidFile, i+1, *row.SaleDate)
			}
			record.SaleDate = &t
		}
		records = append(records, record)
	}
	return records, nil
}

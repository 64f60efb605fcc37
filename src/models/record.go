package models

import "time"

// Sentinel values substituted for missing fields during normalization. These are
// part of the public data contract and must not change.
const (
	MissingString = "não informado/não cadastrado"
	MissingGender = "não especificado"

	// MissingCategory labels an absent categorical value (payment method,
	// channel) when counting usage.
	MissingCategory = "Não informado"
)

// MissingDate is the sentinel used when a sale record carries no date.
var MissingDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// RawSaleRecord is one input row exactly as the ingestion boundary produced it.
// Every field is optional at this stage; nil means the column was empty or
// absent. Only the four identifiers are mandatory, and that is enforced by the
// validator, not here.
type RawSaleRecord struct {
	// Sale
	TransactionID   *string    `json:"id_transacao"`
	SaleDate        *time.Time `json:"data_venda"`
	FinalValue      *float64   `json:"valor_final"`
	Subtotal        *float64   `json:"subtotal"`
	DiscountPercent *float64   `json:"desconto_percent"`
	Channel         *string    `json:"canal_venda"`
	PaymentMethod   *string    `json:"forma_pagamento"`

	// Customer
	CustomerID      *string  `json:"cliente_id"`
	CustomerName    *string  `json:"nome_cliente"`
	CustomerAge     *int     `json:"idade_cliente"`
	CustomerGender  *string  `json:"genero_cliente"`
	CustomerCity    *string  `json:"cidade_cliente"`
	CustomerState   *string  `json:"estado_cliente"`
	EstimatedIncome *float64 `json:"renda_estimada"`

	// Product
	ProductID    *string  `json:"produto_id"`
	ProductName  *string  `json:"nome_produto"`
	Category     *string  `json:"categoria"`
	Brand        *string  `json:"marca"`
	UnitPrice    *float64 `json:"preco_unitario"`
	Quantity     *int     `json:"quantidade"`
	ProfitMargin *float64 `json:"margem_lucro"`

	// Logistics
	Region         *string `json:"regiao"`
	DeliveryStatus *string `json:"status_entrega"`
	DeliveryDays   *int    `json:"tempo_entrega_dias"`
	SellerID       *string `json:"vendedor_id"`
}

// SaleRecord is a RawSaleRecord after normalization: every field carries a
// defined value, never a null. Missing strings become MissingString (gender is
// the exception, see MissingGender), missing numerics become zero and a missing
// date becomes MissingDate.
type SaleRecord struct {
	TransactionID   string
	SaleDate        time.Time
	FinalValue      float64
	Subtotal        float64
	DiscountPercent float64
	Channel         string
	PaymentMethod   string

	CustomerID      string
	CustomerName    string
	CustomerAge     int
	CustomerGender  string
	CustomerCity    string
	CustomerState   string
	EstimatedIncome float64

	ProductID    string
	ProductName  string
	Category     string
	Brand        string
	UnitPrice    float64
	Quantity     int
	ProfitMargin float64

	Region         string
	DeliveryStatus string
	DeliveryDays   int
	SellerID       string
}

// Customer is keyed by its natural id; re-importing a row with the same id
// overwrites all attributes (last write wins). Age stays a pointer so an
// unknown age can still land in its own demographic bucket.
type Customer struct {
	ID              string  `json:"cliente_id"`
	Name            string  `json:"nome_cliente"`
	Age             *int    `json:"idade_cliente"`
	Gender          string  `json:"genero_cliente"`
	City            string  `json:"cidade_cliente"`
	State           string  `json:"estado_cliente"`
	EstimatedIncome float64 `json:"renda_estimada"`
}

// Product is keyed by natural id, last write wins. ProfitMargin is a fraction
// (0.25 means 25%); Quantity is the last quantity seen for the product.
type Product struct {
	ID           string  `json:"produto_id"`
	Name         string  `json:"nome_produto"`
	Category     string  `json:"categoria"`
	Brand        string  `json:"marca"`
	UnitPrice    float64 `json:"preco_unitario"`
	Quantity     int     `json:"quantidade"`
	ProfitMargin float64 `json:"margem_lucro"`
}

type Seller struct {
	ID string `json:"vendedor_id"`
}

// Sale is a validated, normalized transaction with its resolved references.
// The aggregation engine consumes slices of these; it never mutates them and
// never retains them past a call.
type Sale struct {
	ID              string    `json:"id_transacao"`
	Date            time.Time `json:"data_venda"`
	FinalValue      float64   `json:"valor_final"`
	Subtotal        float64   `json:"subtotal"`
	DiscountPercent float64   `json:"desconto_percent"`
	Channel         string    `json:"canal_venda"`
	PaymentMethod   string    `json:"forma_pagamento"`
	Quantity        int       `json:"quantidade"`
	Region          string    `json:"regiao"`
	DeliveryStatus  string    `json:"status_entrega"`
	DeliveryDays    int       `json:"tempo_entrega_dias"`

	Customer *Customer `json:"cliente,omitempty"`
	Product  *Product  `json:"produto,omitempty"`
	Seller   *Seller   `json:"vendedor,omitempty"`
}

package models

import "time"

// FinancialMetrics holds the fleet-wide monetary aggregates, all rounded to two
// decimals with half-up rounding.
type FinancialMetrics struct {
	NetRevenue  float64 `json:"receita_liquida"`
	TotalCost   float64 `json:"custo_total"`
	GrossProfit float64 `json:"lucro_bruto"`
}

// ProductAnalysis is one aggregated product row.
type ProductAnalysis struct {
	Name           string  `json:"nome_produto"`
	QuantitySold   int     `json:"quantidade_vendida"`
	TotalCollected float64 `json:"total_arrecadado"`
}

// TransactionProfit is the per-transaction financial breakdown served by the
// transaction analysis view.
type TransactionProfit struct {
	TransactionID string  `json:"id_transacao"`
	Product       string  `json:"produto"`
	NetRevenue    float64 `json:"receita_liquida"`
	EstimatedCost float64 `json:"custo_estimado"`
	QuantitySold  int     `json:"quantidade_vendida"`
	GrossProfit   float64 `json:"lucro_bruto"`
	MarginValue   float64 `json:"margem_real_valor"`
	MarginPercent string  `json:"margem_real_percent"`
}

type SalesSummary struct {
	TotalSales             int     `json:"numero_total_vendas"`
	AveragePerTransaction  float64 `json:"valor_medio_por_transacao"`
	MostUsedPaymentMethod  string  `json:"forma_pagamento_mais_utilizada"`
	LeastUsedPaymentMethod string  `json:"forma_pagamento_menos_utilizada"`
	MostUsedChannel        string  `json:"canal_vendas_mais_utilizado"`
	LeastUsedChannel       string  `json:"canal_vendas_menos_utilizado"`
}

// RegionMetrics is the aggregate for one region or state bucket.
type RegionMetrics struct {
	TransactionCount      int64   `json:"totalTransacoes"`
	TotalRevenue          float64 `json:"receitaTotal"`
	QuantitySold          int     `json:"quantidadeVendida"`
	AveragePerTransaction float64 `json:"mediaValorTransacao"`
}

// DistributionItem is one demographic bucket: distinct-customer count and its
// share of all distinct customers.
type DistributionItem struct {
	Count   int64   `json:"contagem"`
	Percent float64 `json:"percentual"`
}

// CustomerDistribution groups distinct customers by gender, age bracket and
// city. Gender and age bracket keep first-seen order; city is sorted by count,
// descending.
type CustomerDistribution struct {
	ByGender     *DistributionMap `json:"por_genero"`
	ByAgeBracket *DistributionMap `json:"por_faixa_etaria"`
	ByCity       *DistributionMap `json:"por_cidade"`
}

// FullReport is the consolidated report. It is assembled once per request and
// immutable after that.
type FullReport struct {
	GeneratedAt time.Time         `json:"data_geracao"`
	Financial   FinancialMetrics  `json:"metricas_financeiras"`
	Products    []ProductAnalysis `json:"analise_produtos"`
	Summary     SalesSummary      `json:"resumo_vendas"`
	Regional    *RegionMetricsMap `json:"desempenho_regional"`
}

// ImportResult is the upload endpoint's success payload.
type ImportResult struct {
	Status        string `json:"status"`
	RowsProcessed int    `json:"linhas_processadas"`
}

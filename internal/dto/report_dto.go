package dto

type DailySales struct {
	Day        string `json:"day"`
	SalesCents int64  `json:"sales_cents"`
	SaleCount  int64  `json:"sale_count"`
}

type TopProduct struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type ComandaStats struct {
	Open   int64 `json:"open"`
	Paid   int64 `json:"paid"`
	Voided int64 `json:"voided"`
}

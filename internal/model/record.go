package model

import "github.com/shopspring/decimal"

// ShoppingRecord represents one purchase. Price is a whole currency amount,
// quantity supports fractional values (up to three decimal places, e.g.
// 0.5 kg). The store and product are always returned fully expanded.
type ShoppingRecord struct {
	ID           int64           `json:"id"`
	Price        int64           `json:"price"`
	PurchaseDate Date            `json:"purchase_date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Store        Store           `json:"store"`
	Product      Product         `json:"product"`
}

// ShoppingRecordRequest is the nested write payload for a shopping record.
// All fields are required on create and full update; a partial update
// supplies only the fields to change, and a supplied store or product
// payload is re-resolved through the cascade.
type ShoppingRecordRequest struct {
	Price        *int64           `json:"price"`
	PurchaseDate *Date            `json:"purchase_date"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Store        *StorePayload    `json:"store"`
	Product      *ProductPayload  `json:"product"`
}

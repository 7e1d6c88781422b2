// Package models holds the gorm records persisted by the repositories.
package models

import "github.com/shopspring/decimal"

func init() {
	// money is rendered as 12.5, not "12.5"
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every record kind, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Address{},
		&Product{},
		&Message{},
		&Order{},
		&OrderItem{},
		&Name{},
	}
}

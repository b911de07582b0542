package model

import "github.com/shopspring/decimal"

// 金額は JSON 上で数値として出力する（"1000" ではなく 1000）
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

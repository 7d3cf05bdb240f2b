package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// Bounds of the INTEGER quantity and NUMERIC(10, 2) money columns.
const maxQuantity = math.MaxInt32

var maxAmount = decimal.RequireFromString("99999999.99")

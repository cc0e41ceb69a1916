// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxAssetAmount bounds the absolute value of an asset amount.
const MaxAssetAmount = int64(1)<<62 - 1

// Asset is a fixed-point monetary amount: a signed integral amount scaled
// by the precision of its symbol. "1.0000 EOS" has amount 10000 and symbol
// "4,EOS".
type Asset struct {
	amount int64
	symbol Symbol
}

func NewAsset(amount int64, symbol Symbol) (Asset, error) {
	a := Asset{amount: amount, symbol: symbol}
	if !a.isAmountWithinRange() {
		return Asset{}, fmt.Errorf("asset amount out of range, max is 2^62-1: %d", amount)
	}
	return a, nil
}

// AssetFromString parses the "<amount> <CODE>" textual form. The amount may
// contain a single decimal point; the number of fractional digits sets the
// symbol precision.
func AssetFromString(s string) (Asset, error) {
	s = strings.TrimSpace(s)

	spacePos := strings.IndexByte(s, ' ')
	if spacePos < 0 {
		return Asset{}, fmt.Errorf("asset amount and symbol should be separated with space: %q", s)
	}
	amountStr := s[:spacePos]
	symbolStr := strings.TrimSpace(s[spacePos+1:])

	dotPos := strings.IndexByte(amountStr, '.')
	precision := 0
	if dotPos >= 0 {
		if dotPos == len(amountStr)-1 {
			return Asset{}, fmt.Errorf("missing decimal fraction after decimal point: %q", s)
		}
		precision = len(amountStr) - dotPos - 1
	}
	if precision > MaxSymbolPrecision {
		return Asset{}, fmt.Errorf("given precision %d should be <= max precision %d", precision, MaxSymbolPrecision)
	}

	symbol, err := SymbolFromPrecisionAndCode(uint8(precision), symbolStr)
	if err != nil {
		return Asset{}, fmt.Errorf("could not parse symbol from asset string: %w", err)
	}

	var amount int64
	if dotPos < 0 {
		amount, err = strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return Asset{}, fmt.Errorf("could not parse amount for asset: %w", err)
		}
	} else {
		intPart, err := strconv.ParseInt(amountStr[:dotPos], 10, 64)
		if err != nil {
			return Asset{}, fmt.Errorf("could not parse amount for asset: %w", err)
		}
		fracPart, err := strconv.ParseInt(amountStr[dotPos+1:], 10, 64)
		if err != nil || fracPart < 0 {
			return Asset{}, fmt.Errorf("could not parse amount for asset: %q", amountStr)
		}
		if strings.HasPrefix(amountStr, "-") {
			fracPart = -fracPart
		}
		scaled, ok := mulOverflow(intPart, symbol.Precision())
		if !ok {
			return Asset{}, fmt.Errorf("amount overflow for: %q", amountStr)
		}
		amount, ok = addOverflow(scaled, fracPart)
		if !ok {
			return Asset{}, fmt.Errorf("amount overflow for: %q", amountStr)
		}
	}

	return NewAsset(amount, symbol)
}

func (a Asset) Amount() int64      { return a.amount }
func (a Asset) Symbol() Symbol     { return a.symbol }
func (a Asset) SymbolCode() string { return a.symbol.Code() }
func (a Asset) Decimals() uint8    { return a.symbol.Decimals() }
func (a Asset) Precision() int64   { return a.symbol.Precision() }

// ToReal returns the amount scaled down by the symbol precision.
func (a Asset) ToReal() float64 {
	return float64(a.amount) / float64(a.Precision())
}

func (a Asset) isAmountWithinRange() bool {
	return -MaxAssetAmount <= a.amount && a.amount <= MaxAssetAmount
}

func (a Asset) IsValid() bool {
	return a.isAmountWithinRange() && a.symbol.IsValid()
}

func (a Asset) String() string {
	sign := ""
	if a.amount < 0 {
		sign = "-"
	}
	absAmount := a.amount
	if absAmount < 0 {
		absAmount = -absAmount
	}
	result := strconv.FormatInt(absAmount/a.Precision(), 10)
	if a.Decimals() != 0 {
		frac := absAmount % a.Precision()
		// format against precision+frac to keep the leading zeros
		result += "." + strconv.FormatInt(a.Precision()+frac, 10)[1:]
	}
	return fmt.Sprintf("%s%s %s", sign, result, a.SymbolCode())
}

// ExtendedAsset pairs an asset with the account name of its issuing
// contract.
type ExtendedAsset struct {
	Quantity Asset
	Contract Name
}

func mulOverflow(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	result := a * b
	if result/b != a {
		return 0, false
	}
	return result, true
}

func addOverflow(a, b int64) (int64, bool) {
	result := a + b
	if (b > 0 && result < a) || (b < 0 && result > a) {
		return 0, false
	}
	return result, true
}

// Package validation checks raw order parameters before anything reaches the
// exchange. Every check runs independently and every failure is collected, so
// the caller sees the complete list of problems in one pass rather than
// fixing them one at a time.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"futuresOrderBot/internal/domain"
)

// Failure codes, one per validation rule.
const (
	CodeInvalidSymbol       = "INVALID_SYMBOL"
	CodeInvalidSide         = "INVALID_SIDE"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInvalidType         = "INVALID_TYPE"
	CodeMissingPrice        = "MISSING_PRICE"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
)

// Futures symbols are 6-12 uppercase alphanumeric characters (e.g. BTCUSDT).
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)

// RawParams holds the unvalidated string parameters supplied by the CLI.
// Price is empty when the flag was not provided.
type RawParams struct {
	Symbol   string
	Side     string
	Quantity string
	Type     string
	Price    string
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errors is the full list of validation failures for one request.
// A request is never partially valid: the caller gets either a non-nil
// OrderRequest or a non-empty Errors, not both.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Codes returns the failure codes in field order, mainly for tests and logs.
func (e Errors) Codes() []string {
	codes := make([]string, 0, len(e))
	for _, fe := range e {
		codes = append(codes, fe.Code)
	}
	return codes
}

// Validate checks raw order parameters and assembles a domain.OrderRequest.
//
// limits and acct are both optional. When limits is non-nil the quantity and
// price are additionally checked against the exchange's lot size and price
// filters. When acct is non-nil a best-effort balance sufficiency check runs
// for buy orders; sells require no new margin.
func Validate(raw RawParams, limits *domain.SymbolLimits, acct *domain.AccountSnapshot) (*domain.OrderRequest, Errors) {
	var errs Errors

	symbol, symErr := validateSymbol(raw.Symbol)
	if symErr != nil {
		errs = append(errs, *symErr)
	}

	side, sideErr := validateSide(raw.Side)
	if sideErr != nil {
		errs = append(errs, *sideErr)
	}

	qty, qtyErr := validateQuantity(raw.Quantity, limits)
	if qtyErr != nil {
		errs = append(errs, *qtyErr)
	}

	orderType, typeErr := validateType(raw.Type)
	if typeErr != nil {
		errs = append(errs, *typeErr)
	}

	price, priceErr := validatePrice(raw.Price, orderType, typeErr == nil, limits)
	if priceErr != nil {
		errs = append(errs, *priceErr)
	}

	// The balance check only makes sense once the request is coherent enough
	// to cost: parsed quantity, valid side and type, and a price for limits.
	if acct != nil && qtyErr == nil && sideErr == nil && typeErr == nil && priceErr == nil {
		if balErr := validateBalance(side, orderType, qty, price, acct); balErr != nil {
			errs = append(errs, *balErr)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Type:     orderType,
		Price:    price,
	}, nil
}

func validateSymbol(raw string) (string, *FieldError) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", &FieldError{Field: "symbol", Code: CodeInvalidSymbol, Message: "symbol cannot be empty"}
	}
	if !symbolPattern.MatchString(symbol) {
		return "", &FieldError{
			Field: "symbol",
			Code:  CodeInvalidSymbol,
			Message: fmt.Sprintf("invalid symbol format %q: expected 6-12 uppercase letters and digits (e.g. BTCUSDT)",
				symbol),
		}
	}
	return symbol, nil
}

func validateSide(raw string) (domain.OrderSide, *FieldError) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return domain.Buy, nil
	case "sell":
		return domain.Sell, nil
	default:
		return "", &FieldError{
			Field:   "side",
			Code:    CodeInvalidSide,
			Message: fmt.Sprintf("side must be 'buy' or 'sell', got %q", raw),
		}
	}
}

func validateQuantity(raw string, limits *domain.SymbolLimits) (decimal.Decimal, *FieldError) {
	qty, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &FieldError{
			Field:   "quantity",
			Code:    CodeInvalidQuantity,
			Message: fmt.Sprintf("quantity must be a valid number, got %q", raw),
		}
	}
	if !qty.IsPositive() {
		return decimal.Zero, &FieldError{
			Field:   "quantity",
			Code:    CodeInvalidQuantity,
			Message: fmt.Sprintf("quantity must be positive, got %s", qty),
		}
	}
	if limits != nil {
		if limits.MinQty.IsPositive() && qty.LessThan(limits.MinQty) {
			return decimal.Zero, &FieldError{
				Field:   "quantity",
				Code:    CodeInvalidQuantity,
				Message: fmt.Sprintf("quantity %s below exchange minimum lot %s", qty, limits.MinQty),
			}
		}
		if limits.MaxQty.IsPositive() && qty.GreaterThan(limits.MaxQty) {
			return decimal.Zero, &FieldError{
				Field:   "quantity",
				Code:    CodeInvalidQuantity,
				Message: fmt.Sprintf("quantity %s above exchange maximum %s", qty, limits.MaxQty),
			}
		}
		if limits.StepSize.IsPositive() && !qty.Mod(limits.StepSize).IsZero() {
			return decimal.Zero, &FieldError{
				Field:   "quantity",
				Code:    CodeInvalidQuantity,
				Message: fmt.Sprintf("quantity %s is not a multiple of lot step %s", qty, limits.StepSize),
			}
		}
	}
	return qty, nil
}

func validateType(raw string) (domain.OrderType, *FieldError) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "market":
		return domain.Market, nil
	case "limit":
		return domain.Limit, nil
	default:
		return "", &FieldError{
			Field:   "type",
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("order type must be 'market' or 'limit', got %q", raw),
		}
	}
}

// validatePrice enforces the price ⟺ limit invariant. When the order type
// itself failed validation the price requirement is undecidable, so price
// checks are skipped (the type failure is already reported).
func validatePrice(raw string, orderType domain.OrderType, typeKnown bool, limits *domain.SymbolLimits) (*decimal.Decimal, *FieldError) {
	raw = strings.TrimSpace(raw)
	if !typeKnown {
		return nil, nil
	}

	if orderType == domain.Market {
		if raw != "" {
			return nil, &FieldError{
				Field:   "price",
				Code:    CodeInvalidPrice,
				Message: "market orders do not accept a price; use a limit order to set one",
			}
		}
		return nil, nil
	}

	// Limit order from here on.
	if raw == "" {
		return nil, &FieldError{
			Field:   "price",
			Code:    CodeMissingPrice,
			Message: "limit orders require a price",
		}
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &FieldError{
			Field:   "price",
			Code:    CodeInvalidPrice,
			Message: fmt.Sprintf("price must be a valid number, got %q", raw),
		}
	}
	if !price.IsPositive() {
		return nil, &FieldError{
			Field:   "price",
			Code:    CodeInvalidPrice,
			Message: fmt.Sprintf("price must be positive, got %s", price),
		}
	}
	if limits != nil {
		if limits.MinPrice.IsPositive() && price.LessThan(limits.MinPrice) {
			return nil, &FieldError{
				Field:   "price",
				Code:    CodeInvalidPrice,
				Message: fmt.Sprintf("price %s below exchange minimum %s", price, limits.MinPrice),
			}
		}
		if limits.MaxPrice.IsPositive() && price.GreaterThan(limits.MaxPrice) {
			return nil, &FieldError{
				Field:   "price",
				Code:    CodeInvalidPrice,
				Message: fmt.Sprintf("price %s above exchange maximum %s", price, limits.MaxPrice),
			}
		}
		if limits.TickSize.IsPositive() && !price.Mod(limits.TickSize).IsZero() {
			return nil, &FieldError{
				Field:   "price",
				Code:    CodeInvalidPrice,
				Message: fmt.Sprintf("price %s is not a multiple of tick size %s", price, limits.TickSize),
			}
		}
	}
	return &price, nil
}

// validateBalance estimates the margin a buy order requires and compares it
// against the available balance. Limit buys cost quantity x limit price;
// market buys are costed at the snapshot's mark price since the fill price is
// unknown. Sells free margin rather than consuming it.
func validateBalance(side domain.OrderSide, orderType domain.OrderType, qty decimal.Decimal, price *decimal.Decimal, acct *domain.AccountSnapshot) *FieldError {
	if side != domain.Buy {
		return nil
	}

	var required decimal.Decimal
	switch orderType {
	case domain.Limit:
		required = qty.Mul(*price)
	case domain.Market:
		if !acct.MarkPrice.IsPositive() {
			return nil // no usable price estimate, skip the check
		}
		required = qty.Mul(acct.MarkPrice)
	}

	if required.GreaterThan(acct.AvailableBalance) {
		return &FieldError{
			Field: "quantity",
			Code:  CodeInsufficientBalance,
			Message: fmt.Sprintf("insufficient balance: required %s USDT, available %s USDT",
				required, acct.AvailableBalance),
		}
	}
	return nil
}

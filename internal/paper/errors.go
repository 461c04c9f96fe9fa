package paper

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTriggerNotMet is returned by ExecuteOrder when the supplied price
// does not satisfy the order's limit/stop condition. The order stays
// pending; the caller retries on a later tick.
var ErrTriggerNotMet = errors.New("trigger condition not met")

// ValidationError rejects malformed input before any state change.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

// InsufficientHoldingsError rejects a sell whose qty exceeds the held
// qty. The ledger is left untouched.
type InsufficientHoldingsError struct {
	Symbol    string
	Requested decimal.Decimal
	Held      decimal.Decimal
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings for %s: requested %s, held %s", e.Symbol, e.Requested, e.Held)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInsufficientHoldings(err error) bool {
	var he *InsufficientHoldingsError
	return errors.As(err, &he)
}

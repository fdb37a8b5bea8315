package custody

import "errors"

var (
	// ErrInsufficientFunds indicates the source balance cannot cover the transfer.
	ErrInsufficientFunds = errors.New("custody: insufficient funds")

	// ErrZeroAmount indicates a transfer of zero value.
	ErrZeroAmount = errors.New("custody: transfer amount must be greater than zero")

	// ErrInvalidAuthority indicates a zero-valued or foreign group authority.
	ErrInvalidAuthority = errors.New("custody: invalid group authority")
)

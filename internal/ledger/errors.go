package ledger

import "errors"

var (
	ErrNegativeBalance   = errors.New("balance cannot be negative")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyLoaded     = errors.New("accounts already loaded")
	ErrBalanceLimit      = errors.New("balance exceeds the storable limit")
)

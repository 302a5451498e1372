package domain

import (
	"errors"
	"time"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID          int64
	Amount      float64
	Description *string
	Date        time.Time
	Type        TransactionType
	OwnerID     int64
	CategoryID  int64
}

// TransactionFilter narrows a list query. Nil fields are ignored.
type TransactionFilter struct {
	CategoryID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
	Type       *TransactionType
	Limit      int
	Offset     int
}

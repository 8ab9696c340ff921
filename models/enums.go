package models

import (
	"errors"
	"strconv"
)

type TransactionType string

const (
	TransactionTypeIn  TransactionType = "IN"
	TransactionTypeOut TransactionType = "OUT"
)

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *TransactionType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("transaction type must be string")
	}
	switch str {
	case "IN":
		*t = TransactionTypeIn
	case "OUT":
		*t = TransactionTypeOut
	default:
		return errors.New("invalid transaction type")
	}
	return nil
}

type TransactionCategory string

const (
	TransactionCategoryCustomer TransactionCategory = "CUSTOMER"
	TransactionCategorySupplier TransactionCategory = "SUPPLIER"
)

func (c TransactionCategory) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(c))), nil
}

func (c *TransactionCategory) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("transaction category must be string")
	}
	switch str {
	case "CUSTOMER":
		*c = TransactionCategoryCustomer
	case "SUPPLIER":
		*c = TransactionCategorySupplier
	default:
		return errors.New("invalid transaction category")
	}
	return nil
}

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeOnline PaymentMode = "ONLINE"
)

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(m))), nil
}

func (m *PaymentMode) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("payment mode must be string")
	}
	switch str {
	case "CASH":
		*m = PaymentModeCash
	case "ONLINE":
		*m = PaymentModeOnline
	default:
		return errors.New("invalid payment mode")
	}
	return nil
}

package models

import (
	"strings"

	"gorm.io/gorm"
)

// Company is the tenant scope of the ledger. Accounts, transactions and
// budgets always belong to exactly one company.
type Company struct {
	DefaultModel
	Name     string `gorm:"not null"`
	Note     string
	Currency string `gorm:"not null"`

	// TransactionSequence is the last transaction number issued
	TransactionSequence int64 `gorm:"not null;default:0"`
}

func (c *Company) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.Name == "" {
		return ErrCompanyNameRequired
	}

	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}

	code, err := ParseCurrency(c.Currency)
	if err != nil {
		return err
	}
	c.Currency = code

	return nil
}

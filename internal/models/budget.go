package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type BudgetType string

const (
	BudgetTypeAnnual     BudgetType = "annual"
	BudgetTypeQuarterly  BudgetType = "quarterly"
	BudgetTypeMonthly    BudgetType = "monthly"
	BudgetTypeProject    BudgetType = "project"
	BudgetTypeDepartment BudgetType = "department"
)

var BudgetTypes = []BudgetType{
	BudgetTypeAnnual,
	BudgetTypeQuarterly,
	BudgetTypeMonthly,
	BudgetTypeProject,
	BudgetTypeDepartment,
}

func (t BudgetType) Valid() bool {
	return slices.Contains(BudgetTypes, t)
}

// Budget is a budgeted amount for a period and an optional scope.
type Budget struct {
	DefaultModel
	Company        Company
	CompanyID      uuid.UUID  `gorm:"not null;index"`
	Name           string     `gorm:"not null"`
	Type           BudgetType `gorm:"not null"`
	PeriodStart    types.Date `gorm:"not null"`
	PeriodEnd      types.Date `gorm:"not null"`
	DepartmentID   string
	ProjectID      string
	Account        *Account
	AccountID      *uuid.UUID
	BudgetedAmount int64 `gorm:"not null;check:budgeted_amount_not_negative,budgeted_amount >= 0"`
	Description    string
	Items          []BudgetItem `gorm:"constraint:OnDelete:CASCADE"`
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Description = strings.TrimSpace(b.Description)
	b.DepartmentID = strings.TrimSpace(b.DepartmentID)
	b.ProjectID = strings.TrimSpace(b.ProjectID)

	return nil
}

// BudgetItem is one line of a budget's itemized allocation.
type BudgetItem struct {
	DefaultModel
	BudgetID    uuid.UUID `gorm:"not null;index"`
	Position    int       `gorm:"not null"`
	Name        string    `gorm:"not null"`
	Category    string    `gorm:"index"`
	Description string
	Quantity    int64 `gorm:"not null;check:quantity_positive,quantity >= 1"`
	UnitPrice   int64 `gorm:"not null;check:unit_price_not_negative,unit_price >= 0"`
}

func (i *BudgetItem) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Category = strings.TrimSpace(i.Category)
	i.Description = strings.TrimSpace(i.Description)

	return nil
}

// LineTotal returns quantity × unit price. The second return value is
// false if the product does not fit into an int64.
func (i BudgetItem) LineTotal() (int64, bool) {
	if i.Quantity == 0 || i.UnitPrice == 0 {
		return 0, true
	}

	total := i.Quantity * i.UnitPrice
	if total/i.Quantity != i.UnitPrice || total < 0 {
		return 0, false
	}

	return total, true
}

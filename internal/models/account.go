package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists all account types in chart of accounts order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

func (t AccountType) Valid() bool {
	return slices.Contains(AccountTypes, t)
}

type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "debit"
	NormalBalanceCredit NormalBalance = "credit"
)

// NormalBalanceFor returns the side on which accounts of the given type
// increase. It is the only source of an account's normal balance.
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}

type AccountSubtype string

var accountSubtypes = map[AccountType][]AccountSubtype{
	AccountTypeAsset:     {"current", "fixed", "intangible", "other"},
	AccountTypeLiability: {"current", "long_term", "other"},
	AccountTypeEquity:    {"capital", "retained_earnings", "drawings", "other"},
	AccountTypeRevenue:   {"operating", "other"},
	AccountTypeExpense:   {"operating", "cost_of_sales", "payroll", "other"},
}

// SubtypesFor returns the subtypes valid for an account type.
func SubtypesFor(t AccountType) []AccountSubtype {
	return accountSubtypes[t]
}

// ValidSubtype reports if the subtype may be used for the account type.
// The empty subtype is always valid.
func ValidSubtype(t AccountType, s AccountSubtype) bool {
	return s == "" || slices.Contains(accountSubtypes[t], s)
}

// Account is an entry in a company's chart of accounts.
//
// CurrentBalance is kept in the account's normal balance terms, i.e. a
// positive balance on a credit-normal account is a credit balance.
type Account struct {
	DefaultModel
	Company         Company
	CompanyID       uuid.UUID `gorm:"uniqueIndex:account_company_code;not null"`
	Code            string    `gorm:"uniqueIndex:account_company_code;not null"`
	Name            string    `gorm:"not null"`
	Description     string
	Type            AccountType `gorm:"not null;index"`
	Subtype         AccountSubtype
	NormalBalance   NormalBalance `gorm:"not null"`
	ParentAccountID *uuid.UUID    `gorm:"index"`
	CurrentBalance  int64         `gorm:"not null;default:0"`
	IsActive        bool          `gorm:"not null"`
	IsSystem        bool          `gorm:"not null"`
	IsBankAccount   bool          `gorm:"not null"`
}

func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Code = strings.TrimSpace(a.Code)
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)

	if !a.Type.Valid() {
		return ErrAccountTypeInvalid
	}

	a.NormalBalance = NormalBalanceFor(a.Type)
	return nil
}

// DebitEffect converts a delta in debit terms into the change of the
// account's balance.
func (a Account) DebitEffect(debitDelta int64) int64 {
	if a.NormalBalance == NormalBalanceDebit {
		return debitDelta
	}
	return -debitDelta
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeJournal    TransactionType = "journal"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeReceipt    TransactionType = "receipt"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

var TransactionTypes = []TransactionType{
	TransactionTypeJournal,
	TransactionTypePayment,
	TransactionTypeReceipt,
	TransactionTypeTransfer,
	TransactionTypeAdjustment,
}

func (t TransactionType) Valid() bool {
	return slices.Contains(TransactionTypes, t)
}

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
	TransactionStatusPosted   TransactionStatus = "posted"
)

var TransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusApproved,
	TransactionStatusRejected,
	TransactionStatusPosted,
}

func (s TransactionStatus) Valid() bool {
	return slices.Contains(TransactionStatuses, s)
}

// Reference types that budgets match transactions on.
const (
	ReferenceTypeDepartment = "department"
	ReferenceTypeProject    = "project"
)

// Transaction is a double-entry transaction moving Amount from the
// credit account to the debit account.
//
// Amount is in minor units of the company currency. Currency and
// ExchangeRate describe the source document.
type Transaction struct {
	DefaultModel
	Company         Company
	CompanyID       uuid.UUID       `gorm:"uniqueIndex:transaction_company_number;not null"`
	Number          int64           `gorm:"uniqueIndex:transaction_company_number;not null"`
	Type            TransactionType `gorm:"not null"`
	Date            types.Date      `gorm:"not null;index"`
	Description     string
	DebitAccount    Account         `gorm:"foreignKey:DebitAccountID"`
	DebitAccountID  uuid.UUID       `gorm:"not null;index;check:debit_credit_different,debit_account_id != credit_account_id"`
	CreditAccount   Account         `gorm:"foreignKey:CreditAccountID"`
	CreditAccountID uuid.UUID       `gorm:"not null;index"`
	Amount          int64           `gorm:"not null;check:amount_positive,amount > 0"`
	Currency        string          `gorm:"not null"`
	ExchangeRate    decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`

	ReferenceType   string `gorm:"index:transaction_reference"`
	ReferenceID     string `gorm:"index:transaction_reference"`
	ReferenceNumber string

	Status          TransactionStatus `gorm:"not null;index"`
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	PostedAt        *time.Time
	RejectedAt      *time.Time
	RejectionReason string

	ReversalOfID *uuid.UUID
	ReversedByID *uuid.UUID
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.ReferenceType = strings.TrimSpace(t.ReferenceType)
	t.ReferenceID = strings.TrimSpace(t.ReferenceID)
	t.ReferenceNumber = strings.TrimSpace(t.ReferenceNumber)
	t.CreatedBy = strings.TrimSpace(t.CreatedBy)

	if t.ExchangeRate.IsZero() {
		t.ExchangeRate = decimal.NewFromInt(1)
	}

	if t.Date.IsZero() {
		t.Date = types.Today()
	}

	return nil
}

// Editable reports if the transaction may still be changed. Posted
// transactions are immutable, approved and rejected ones are past the
// editing stage.
func (t Transaction) Editable() error {
	switch t.Status {
	case TransactionStatusPending:
		return nil
	case TransactionStatusPosted:
		return ErrTransactionPosted
	default:
		return ErrTransactionNotPending
	}
}

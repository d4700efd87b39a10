package ledger

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger validates, approves and posts transactions.
//
// Every transaction follows the same state machine:
//
//	pending → approved → posted
//	pending → rejected
//
// Balances change only on the transition to posted. Posted transactions
// are corrected with a reversing transaction.
type Ledger struct {
	db *gorm.DB
}

type TransactionInput struct {
	Type            models.TransactionType // defaults to journal
	Date            types.Date             // defaults to today
	Description     string
	DebitAccountID  uuid.UUID
	CreditAccountID uuid.UUID
	Amount          int64
	Currency        string          // defaults to the company currency
	ExchangeRate    decimal.Decimal // defaults to 1
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	CreatedBy       string
}

// TransactionPatch changes a pending transaction. Only non-nil fields are applied.
type TransactionPatch struct {
	Type            *models.TransactionType
	Date            *types.Date
	Description     *string
	DebitAccountID  *uuid.UUID
	CreditAccountID *uuid.UUID
	Amount          *int64
	Currency        *string
	ExchangeRate    *decimal.Decimal
	ReferenceType   *string
	ReferenceID     *string
	ReferenceNumber *string
}

// ReversalInput describes the reversal of a posted transaction.
type ReversalInput struct {
	Reason    string
	CreatedBy string
	Date      types.Date // defaults to today
}

// CreateTransaction records a new pending transaction and assigns it the
// next transaction number of the company.
func (l *Ledger) CreateTransaction(ctx context.Context, companyID uuid.UUID, in TransactionInput) (models.Transaction, error) {
	transaction := models.Transaction{
		CompanyID:       companyID,
		Type:            in.Type,
		Date:            in.Date,
		Description:     in.Description,
		DebitAccountID:  in.DebitAccountID,
		CreditAccountID: in.CreditAccountID,
		Amount:          in.Amount,
		Currency:        in.Currency,
		ExchangeRate:    in.ExchangeRate,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		Status:          models.TransactionStatusPending,
		CreatedBy:       in.CreatedBy,
	}

	if transaction.Type == "" {
		transaction.Type = models.TransactionTypeJournal
	}

	if transaction.Date.IsZero() {
		transaction.Date = types.Today()
	}

	if transaction.ExchangeRate.IsZero() {
		transaction.ExchangeRate = decimal.NewFromInt(1)
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := findCompany(tx, companyID)
		if err != nil {
			return err
		}

		if transaction.Currency == "" {
			transaction.Currency = company.Currency
		}

		if err := validateTransaction(tx, &transaction); err != nil {
			return err
		}

		transaction.Number, err = nextNumber(tx, companyID)
		if err != nil {
			return err
		}

		return tx.Create(&transaction).Error
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// UpdateTransaction changes a transaction that is still pending.
func (l *Ledger) UpdateTransaction(ctx context.Context, companyID, id uuid.UUID, patch TransactionPatch) (models.Transaction, error) {
	var transaction models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = findTransaction(tx, companyID, id)
		if err != nil {
			return err
		}

		if err := transaction.Editable(); err != nil {
			return err
		}

		if patch.Type != nil {
			transaction.Type = *patch.Type
		}
		if patch.Date != nil && !patch.Date.IsZero() {
			transaction.Date = *patch.Date
		}
		if patch.Description != nil {
			transaction.Description = *patch.Description
		}
		if patch.DebitAccountID != nil {
			transaction.DebitAccountID = *patch.DebitAccountID
		}
		if patch.CreditAccountID != nil {
			transaction.CreditAccountID = *patch.CreditAccountID
		}
		if patch.Amount != nil {
			transaction.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			transaction.Currency = *patch.Currency
		}
		if transaction.Currency == "" {
			company, err := findCompany(tx, companyID)
			if err != nil {
				return err
			}
			transaction.Currency = company.Currency
		}
		if patch.ExchangeRate != nil {
			transaction.ExchangeRate = *patch.ExchangeRate
		}
		if patch.ReferenceType != nil {
			transaction.ReferenceType = *patch.ReferenceType
		}
		if patch.ReferenceID != nil {
			transaction.ReferenceID = *patch.ReferenceID
		}
		if patch.ReferenceNumber != nil {
			transaction.ReferenceNumber = *patch.ReferenceNumber
		}

		if err := validateTransaction(tx, &transaction); err != nil {
			return err
		}

		res := tx.Where("status = ?", models.TransactionStatusPending).
			Select("Type", "Date", "Description", "DebitAccountID", "CreditAccountID", "Amount", "Currency", "ExchangeRate", "ReferenceType", "ReferenceID", "ReferenceNumber").
			Updates(&transaction)
		if res.Error != nil {
			return res.Error
		}

		// The transaction left pending after we read it
		if res.RowsAffected != 1 {
			return models.ErrTransactionNotPending
		}

		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// ApproveTransaction moves a pending transaction to approved.
func (l *Ledger) ApproveTransaction(ctx context.Context, companyID, id uuid.UUID, approvedBy string) (models.Transaction, error) {
	var transaction models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = findTransaction(tx, companyID, id)
		if err != nil {
			return err
		}

		if err := transaction.Editable(); err != nil {
			return err
		}

		now := time.Now().UTC()
		err = transition(tx, transaction.ID, models.TransactionStatusPending, map[string]any{
			"status":      models.TransactionStatusApproved,
			"approved_by": strings.TrimSpace(approvedBy),
			"approved_at": now,
		})
		if err != nil {
			return err
		}

		transaction, err = findTransaction(tx, companyID, id)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// RejectTransaction moves a pending transaction to rejected. Rejected
// transactions never affect balances.
func (l *Ledger) RejectTransaction(ctx context.Context, companyID, id uuid.UUID, reason string) (models.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Transaction{}, models.ErrRejectionReasonRequired
	}

	var transaction models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = findTransaction(tx, companyID, id)
		if err != nil {
			return err
		}

		if err := transaction.Editable(); err != nil {
			return err
		}

		now := time.Now().UTC()
		err = transition(tx, transaction.ID, models.TransactionStatusPending, map[string]any{
			"status":           models.TransactionStatusRejected,
			"rejected_at":      now,
			"rejection_reason": reason,
		})
		if err != nil {
			return err
		}

		transaction, err = findTransaction(tx, companyID, id)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// PostTransaction applies an approved transaction to the balances of its
// two accounts. Posting is all or nothing and happens exactly once, a
// second call fails with ErrTransactionPosted.
func (l *Ledger) PostTransaction(ctx context.Context, companyID, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = findTransaction(tx, companyID, id)
		if err != nil {
			return err
		}

		switch transaction.Status {
		case models.TransactionStatusApproved:
		case models.TransactionStatusPosted:
			return models.ErrTransactionPosted
		default:
			return models.ErrTransactionNotApproved
		}

		debit, credit, err := transactionAccounts(tx, transaction)
		if err != nil {
			return err
		}

		if !debit.IsActive || !credit.IsActive {
			return models.ErrAccountInactive
		}

		if err := post(tx, transaction, debit, credit); err != nil {
			return err
		}

		transaction, err = findTransaction(tx, companyID, id)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	transactionsPosted.Inc()
	log.Info().
		Str("company", companyID.String()).
		Str("transaction", transaction.ID.String()).
		Int64("number", transaction.Number).
		Int64("amount", transaction.Amount).
		Msg("transaction posted")

	return transaction, nil
}

// ReverseTransaction corrects a posted transaction by posting a new
// adjustment transaction with debit and credit swapped. The original
// transaction keeps its history and links to the reversal.
func (l *Ledger) ReverseTransaction(ctx context.Context, companyID, id uuid.UUID, in ReversalInput) (models.Transaction, error) {
	var reversal models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := findTransaction(tx, companyID, id)
		if err != nil {
			return err
		}

		if original.Status != models.TransactionStatusPosted {
			return models.ErrTransactionNotPosted
		}

		if original.ReversedByID != nil {
			return models.ErrTransactionAlreadyReversed
		}

		if original.ReversalOfID != nil {
			return models.ErrTransactionIsReversal
		}

		debit, credit, err := transactionAccounts(tx, original)
		if err != nil {
			return err
		}

		date := in.Date
		if date.IsZero() {
			date = types.Today()
		}

		description := fmt.Sprintf("Reversal of transaction %d", original.Number)
		if reason := strings.TrimSpace(in.Reason); reason != "" {
			description = fmt.Sprintf("%s: %s", description, reason)
		}

		now := time.Now().UTC()
		reversal = models.Transaction{
			CompanyID:       companyID,
			Type:            models.TransactionTypeAdjustment,
			Date:            date,
			Description:     description,
			DebitAccountID:  original.CreditAccountID,
			CreditAccountID: original.DebitAccountID,
			Amount:          original.Amount,
			Currency:        original.Currency,
			ExchangeRate:    original.ExchangeRate,
			ReferenceType:   original.ReferenceType,
			ReferenceID:     original.ReferenceID,
			ReferenceNumber: original.ReferenceNumber,
			Status:          models.TransactionStatusApproved,
			CreatedBy:       in.CreatedBy,
			ApprovedBy:      in.CreatedBy,
			ApprovedAt:      &now,
			ReversalOfID:    &original.ID,
		}

		reversal.Number, err = nextNumber(tx, companyID)
		if err != nil {
			return err
		}

		if err := tx.Create(&reversal).Error; err != nil {
			return err
		}

		// Accounts are swapped for the reversal. Inactive accounts are
		// accepted here so that mistakes on deactivated accounts can be fixed.
		if err := post(tx, reversal, credit, debit); err != nil {
			return err
		}

		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND reversed_by_id IS NULL", original.ID).
			UpdateColumns(map[string]any{"reversed_by_id": reversal.ID, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.ErrTransactionAlreadyReversed
		}

		reversal, err = findTransaction(tx, companyID, reversal.ID)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	transactionsPosted.Inc()
	transactionsReversed.Inc()
	log.Info().
		Str("company", companyID.String()).
		Str("transaction", id.String()).
		Str("reversal", reversal.ID.String()).
		Int64("amount", reversal.Amount).
		Msg("transaction reversed")

	return reversal, nil
}

// Transaction returns a transaction of the company.
func (l *Ledger) Transaction(ctx context.Context, companyID, id uuid.UUID) (models.Transaction, error) {
	return findTransaction(l.db.WithContext(ctx), companyID, id)
}

type balanceDelta struct {
	account    models.Account
	debitDelta int64
}

// balanceDeltas returns the balance changes of a posting ordered by account
// ID. Concurrent postings then lock the account rows in the same order.
func balanceDeltas(transaction models.Transaction, debit, credit models.Account) []balanceDelta {
	deltas := []balanceDelta{
		{account: debit, debitDelta: transaction.Amount},
		{account: credit, debitDelta: -transaction.Amount},
	}

	if bytes.Compare(credit.ID[:], debit.ID[:]) < 0 {
		deltas[0], deltas[1] = deltas[1], deltas[0]
	}

	return deltas
}

// post moves an approved transaction to posted and applies the balance
// deltas. It must run inside a database transaction.
func post(tx *gorm.DB, transaction models.Transaction, debit, credit models.Account) error {
	now := time.Now().UTC()
	err := transition(tx, transaction.ID, models.TransactionStatusApproved, map[string]any{
		"status":    models.TransactionStatusPosted,
		"posted_at": now,
	})
	if err != nil {
		return err
	}

	for _, d := range balanceDeltas(transaction, debit, credit) {
		if err := adjustBalance(tx, d.account, d.debitDelta); err != nil {
			return err
		}
	}

	sum, err := ledgerSum(tx, transaction.CompanyID)
	if err != nil {
		return err
	}

	if sum != 0 {
		integrityFailures.WithLabelValues("zero_sum").Inc()
		log.Error().
			Str("company", transaction.CompanyID.String()).
			Str("transaction", transaction.ID.String()).
			Int64("sum", sum).
			Msg("ledger does not sum to zero, posting aborted")

		return fmt.Errorf("%w: signed balances sum to %d", models.ErrLedgerUnbalanced, sum)
	}

	return nil
}

// transition changes the status of a transaction if it still has the
// expected status. A concurrent transition makes it fail.
func transition(tx *gorm.DB, id uuid.UUID, from models.TransactionStatus, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()

	res := tx.Model(&models.Transaction{}).Where("id = ? AND status = ?", id, from).UpdateColumns(fields)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 1 {
		return nil
	}

	// Someone else changed the status in between
	var current models.Transaction
	if err := tx.Select("status").First(&current, "id = ?", id).Error; err != nil {
		return err
	}

	if current.Status == models.TransactionStatusPosted {
		return models.ErrTransactionPosted
	}

	return models.ErrTransactionNotPending
}

// ledgerSum returns the sum of all balances of a company in debit terms.
// For a consistent ledger, it is always zero.
func ledgerSum(db *gorm.DB, companyID uuid.UUID) (int64, error) {
	var sum int64
	err := db.Model(&models.Account{}).
		Select("COALESCE(CAST(SUM(CASE WHEN normal_balance = ? THEN current_balance ELSE -current_balance END) AS BIGINT), 0)", models.NormalBalanceDebit).
		Where("company_id = ?", companyID).
		Scan(&sum).Error

	return sum, err
}

func nextNumber(tx *gorm.DB, companyID uuid.UUID) (int64, error) {
	err := tx.Model(&models.Company{}).
		Where("id = ?", companyID).
		UpdateColumn("transaction_sequence", gorm.Expr("transaction_sequence + 1")).Error
	if err != nil {
		return 0, err
	}

	var company models.Company
	if err := tx.Select("transaction_sequence").First(&company, "id = ?", companyID).Error; err != nil {
		return 0, err
	}

	return company.TransactionSequence, nil
}

func findTransaction(db *gorm.DB, companyID, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := db.Where("company_id = ?", companyID).First(&transaction, "id = ?", id).Error
	return transaction, err
}

func transactionAccounts(db *gorm.DB, transaction models.Transaction) (models.Account, models.Account, error) {
	debit, err := findAccount(db, transaction.CompanyID, transaction.DebitAccountID)
	if err != nil {
		return models.Account{}, models.Account{}, err
	}

	credit, err := findAccount(db, transaction.CompanyID, transaction.CreditAccountID)
	if err != nil {
		return models.Account{}, models.Account{}, err
	}

	return debit, credit, nil
}

// validateTransaction checks a transaction before it is written and
// normalizes its currency.
func validateTransaction(db *gorm.DB, transaction *models.Transaction) error {
	if !transaction.Type.Valid() {
		return models.ErrTransactionTypeInvalid
	}

	if transaction.Amount <= 0 {
		return models.ErrTransactionAmountNotPositive
	}

	if transaction.DebitAccountID == uuid.Nil || transaction.CreditAccountID == uuid.Nil {
		return models.ErrTransactionAccountsRequired
	}

	if transaction.DebitAccountID == transaction.CreditAccountID {
		return models.ErrTransactionAccountsIdentical
	}

	if !transaction.ExchangeRate.IsPositive() {
		return models.ErrExchangeRateNotPositive
	}

	code, err := models.ParseCurrency(transaction.Currency)
	if err != nil {
		return err
	}
	transaction.Currency = code

	debit, credit, err := transactionAccounts(db, *transaction)
	if err != nil {
		return err
	}

	if !debit.IsActive || !credit.IsActive {
		return models.ErrAccountInactive
	}

	return nil
}

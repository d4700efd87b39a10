package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"gorm.io/gorm"
)

// Registry is the chart of accounts of all companies.
type Registry struct {
	db *gorm.DB
}

// AccountInput defines a new account.
type AccountInput struct {
	Code            string
	Name            string
	Description     string
	Type            models.AccountType
	Subtype         models.AccountSubtype
	ParentAccountID *uuid.UUID
	IsActive        *bool // defaults to true
	IsSystem        bool
	IsBankAccount   bool
}

// AccountPatch changes an account. Only non-nil fields are applied.
type AccountPatch struct {
	Code          *string
	Name          *string
	Description   *string
	Type          *models.AccountType
	Subtype       *models.AccountSubtype
	IsActive      *bool
	IsBankAccount *bool

	// ParentAccountID is applied if SetParent is true, nil removes the parent
	SetParent       bool
	ParentAccountID *uuid.UUID
}

// CreateAccount adds an account to the chart of accounts of the company.
// The normal balance is derived from the type, the balance starts at zero.
func (r *Registry) CreateAccount(ctx context.Context, companyID uuid.UUID, in AccountInput) (models.Account, error) {
	account := models.Account{
		CompanyID:       companyID,
		Code:            strings.TrimSpace(in.Code),
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Type:            in.Type,
		Subtype:         in.Subtype,
		NormalBalance:   models.NormalBalanceFor(in.Type),
		ParentAccountID: in.ParentAccountID,
		IsActive:        true,
		IsSystem:        in.IsSystem,
		IsBankAccount:   in.IsBankAccount,
	}

	if in.IsActive != nil {
		account.IsActive = *in.IsActive
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCompany(tx, companyID); err != nil {
			return err
		}

		if err := validateAccount(tx, account); err != nil {
			return err
		}

		return tx.Create(&account).Error
	})
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// UpdateAccount applies a patch to an account.
//
// The type of an account can only change while no transaction references
// it and it has no child accounts.
func (r *Registry) UpdateAccount(ctx context.Context, companyID, id uuid.UUID, patch AccountPatch) (models.Account, error) {
	var account models.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = findAccount(tx, companyID, id)
		if err != nil {
			return err
		}

		if patch.Type != nil && *patch.Type != account.Type {
			referenced, err := isReferenced(tx, account.ID)
			if err != nil {
				return err
			}
			if referenced {
				return models.ErrAccountTypeLocked
			}

			children, err := countChildren(tx, account.ID)
			if err != nil {
				return err
			}
			if children > 0 {
				return models.ErrAccountHasChildren
			}

			account.Type = *patch.Type
			account.NormalBalance = models.NormalBalanceFor(account.Type)

			// The old subtype does not necessarily exist for the new type
			if patch.Subtype == nil && !models.ValidSubtype(account.Type, account.Subtype) {
				account.Subtype = ""
			}
		}

		if patch.Code != nil {
			account.Code = strings.TrimSpace(*patch.Code)
		}
		if patch.Name != nil {
			account.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			account.Description = *patch.Description
		}
		if patch.Subtype != nil {
			account.Subtype = *patch.Subtype
		}
		if patch.IsActive != nil {
			account.IsActive = *patch.IsActive
		}
		if patch.IsBankAccount != nil {
			account.IsBankAccount = *patch.IsBankAccount
		}
		if patch.SetParent {
			account.ParentAccountID = patch.ParentAccountID
		}

		if err := validateAccount(tx, account); err != nil {
			return err
		}

		return tx.Select("Code", "Name", "Description", "Type", "Subtype", "NormalBalance", "ParentAccountID", "IsActive", "IsBankAccount").Updates(&account).Error
	})
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// DeleteAccount removes an account. Only accounts that have never been
// used may be deleted, all others need to be deactivated.
func (r *Registry) DeleteAccount(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, companyID, id)
		if err != nil {
			return err
		}

		if account.IsSystem {
			return models.ErrAccountSystem
		}

		if account.CurrentBalance != 0 {
			return models.ErrAccountBalanceNotZero
		}

		referenced, err := isReferenced(tx, account.ID)
		if err != nil {
			return err
		}
		if referenced {
			return models.ErrAccountReferenced
		}

		children, err := countChildren(tx, account.ID)
		if err != nil {
			return err
		}
		if children > 0 {
			return models.ErrAccountHasChildren
		}

		var budgets int64
		if err := tx.Model(&models.Budget{}).Where("account_id = ?", account.ID).Count(&budgets).Error; err != nil {
			return err
		}
		if budgets > 0 {
			return models.ErrAccountBudgetScope
		}

		return tx.Delete(&account).Error
	})
}

// Account returns an account of the company.
func (r *Registry) Account(ctx context.Context, companyID, id uuid.UUID) (models.Account, error) {
	return findAccount(r.db.WithContext(ctx), companyID, id)
}

// Accounts returns the chart of accounts of the company, ordered by code.
func (r *Registry) Accounts(ctx context.Context, companyID uuid.UUID) ([]models.Account, error) {
	return companyAccounts(r.db.WithContext(ctx), companyID)
}

// Descendants returns the account and all accounts below it.
func (r *Registry) Descendants(ctx context.Context, companyID, id uuid.UUID) ([]models.Account, error) {
	return descendants(r.db.WithContext(ctx), companyID, id)
}

// Balance returns the balance of an account in its normal balance terms.
//
// Without asOf, the stored current balance is returned. With asOf, the
// balance is replayed from all transactions posted up to and including
// that date.
func (r *Registry) Balance(ctx context.Context, companyID, id uuid.UUID, asOf *types.Date) (int64, error) {
	db := r.db.WithContext(ctx)

	account, err := findAccount(db, companyID, id)
	if err != nil {
		return 0, err
	}

	if asOf == nil {
		return account.CurrentBalance, nil
	}

	var debitNet int64
	err = db.Model(&models.Transaction{}).
		Select("COALESCE(CAST(SUM(CASE WHEN debit_account_id = ? THEN amount ELSE -amount END) AS BIGINT), 0)", account.ID).
		Where("company_id = ? AND status = ? AND date <= ?", companyID, models.TransactionStatusPosted, *asOf).
		Where("(debit_account_id = ? OR credit_account_id = ?)", account.ID, account.ID).
		Scan(&debitNet).Error
	if err != nil {
		return 0, err
	}

	return account.DebitEffect(debitNet), nil
}

// adjustBalance changes the balance of an account by a delta in debit
// terms. It is a single atomic statement and must only be called by the
// ledger while posting.
func adjustBalance(tx *gorm.DB, account models.Account, debitDelta int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND company_id = ?", account.ID, account.CompanyID).
		UpdateColumns(map[string]any{
			"current_balance": gorm.Expr("current_balance + ?", account.DebitEffect(debitDelta)),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: balance of account %s could not be adjusted", models.ErrIntegrity, account.ID)
	}

	return nil
}

func findCompany(db *gorm.DB, id uuid.UUID) (models.Company, error) {
	var company models.Company
	err := db.First(&company, "id = ?", id).Error
	return company, err
}

func findAccount(db *gorm.DB, companyID, id uuid.UUID) (models.Account, error) {
	var account models.Account
	err := db.Where("company_id = ?", companyID).First(&account, "id = ?", id).Error
	return account, err
}

func companyAccounts(db *gorm.DB, companyID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := db.Where("company_id = ?", companyID).Order("code").Find(&accounts).Error
	return accounts, err
}

func isReferenced(db *gorm.DB, accountID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Transaction{}).
		Where("(debit_account_id = ? OR credit_account_id = ?)", accountID, accountID).
		Count(&count).Error

	return count > 0, err
}

func countChildren(db *gorm.DB, accountID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Account{}).Where("parent_account_id = ?", accountID).Count(&count).Error
	return count, err
}

// validateAccount checks an account before it is written.
func validateAccount(db *gorm.DB, account models.Account) error {
	if account.Code == "" {
		return models.ErrAccountCodeRequired
	}

	if account.Name == "" {
		return models.ErrAccountNameRequired
	}

	if !account.Type.Valid() {
		return models.ErrAccountTypeInvalid
	}

	if !models.ValidSubtype(account.Type, account.Subtype) {
		return fmt.Errorf("%w: %q, use one of %v", models.ErrAccountSubtypeInvalid, account.Subtype, models.SubtypesFor(account.Type))
	}

	if account.IsBankAccount && account.Type != models.AccountTypeAsset {
		return models.ErrAccountBankNotAsset
	}

	query := db.Model(&models.Account{}).Where("company_id = ? AND code = ?", account.CompanyID, account.Code)
	if account.ID != uuid.Nil {
		query = query.Where("id != ?", account.ID)
	}

	var duplicates int64
	if err := query.Count(&duplicates).Error; err != nil {
		return err
	}
	if duplicates > 0 {
		return models.ErrAccountCodeNotUnique
	}

	if account.ParentAccountID == nil {
		return nil
	}

	if *account.ParentAccountID == account.ID {
		return models.ErrAccountParentSelf
	}

	parent, err := findAccount(db, account.CompanyID, *account.ParentAccountID)
	if err != nil {
		return err
	}

	if parent.Type != account.Type {
		return models.ErrAccountParentTypeMismatch
	}

	// New accounts cannot be an ancestor of anything yet
	if account.ID == uuid.Nil {
		return nil
	}

	// A stored hierarchy that already loops ends the walk as well
	visited := map[uuid.UUID]bool{account.ID: true, parent.ID: true}
	current := parent
	for current.ParentAccountID != nil {
		if visited[*current.ParentAccountID] {
			return models.ErrAccountParentCycle
		}
		visited[*current.ParentAccountID] = true

		current, err = findAccount(db, account.CompanyID, *current.ParentAccountID)
		if errors.Is(err, models.ErrResourceNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// descendants returns the account with the given ID and all its
// descendants, ordered by code.
func descendants(db *gorm.DB, companyID, id uuid.UUID) ([]models.Account, error) {
	root, err := findAccount(db, companyID, id)
	if err != nil {
		return nil, err
	}

	accounts, err := companyAccounts(db, companyID)
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]models.Account)
	for _, a := range accounts {
		if a.ParentAccountID != nil {
			children[*a.ParentAccountID] = append(children[*a.ParentAccountID], a)
		}
	}

	result := []models.Account{root}
	seen := map[uuid.UUID]bool{root.ID: true}
	for i := 0; i < len(result); i++ {
		for _, child := range children[result[i].ID] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			result = append(result, child)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})

	return result, nil
}

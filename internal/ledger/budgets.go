package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tracker compares budgets with the actual spending posted to the ledger.
type Tracker struct {
	db *gorm.DB
}

type BudgetInput struct {
	Name           string
	Type           models.BudgetType
	PeriodStart    types.Date
	PeriodEnd      types.Date // derived for annual, quarterly and monthly budgets if zero
	DepartmentID   string
	ProjectID      string
	AccountID      *uuid.UUID
	BudgetedAmount int64
	Description    string
	Items          []BudgetItemInput
}

type BudgetItemInput struct {
	Name        string
	Category    string
	Description string
	Quantity    int64 // defaults to 1
	UnitPrice   int64
}

// BudgetPatch changes a budget. Only non-nil fields are applied.
type BudgetPatch struct {
	Name           *string
	Type           *models.BudgetType
	PeriodStart    *types.Date
	PeriodEnd      *types.Date
	DepartmentID   *string
	ProjectID      *string
	BudgetedAmount *int64
	Description    *string

	// AccountID is applied if SetAccount is true, nil removes the account scope
	SetAccount bool
	AccountID  *uuid.UUID
}

// BudgetItemPatch changes a budget item. Only non-nil fields are applied.
type BudgetItemPatch struct {
	Name        *string
	Category    *string
	Description *string
	Quantity    *int64
	UnitPrice   *int64
	Position    *int
}

// UtilizationStatus classifies how much of a budget has been spent.
type UtilizationStatus string

const (
	UtilizationGood    UtilizationStatus = "good"
	UtilizationWarning UtilizationStatus = "warning"
	UtilizationOver    UtilizationStatus = "over"
)

// warningThreshold is the utilization in percent above which a budget is
// in warning state.
var warningThreshold = decimal.NewFromInt(90)

var hundred = decimal.NewFromInt(100)

// CategoryAllocation is the itemized allocation of one budget category.
type CategoryAllocation struct {
	Category  string `json:"category" example:"Hardware"`
	Allocated int64  `json:"allocated" example:"120000"`
	Items     int    `json:"items" example:"3"`
}

// Progress is the comparison of a budget with the actual spending in its
// scope and period.
type Progress struct {
	BudgetID           uuid.UUID            `json:"budgetId"`
	PeriodStart        types.Date           `json:"periodStart"`
	PeriodEnd          types.Date           `json:"periodEnd"`
	Budgeted           int64                `json:"budgeted" example:"100000"`
	Allocated          int64                `json:"allocated" example:"90000"`          // Sum of all item line totals
	AllocationVariance int64                `json:"allocationVariance" example:"10000"` // Budgeted minus allocated
	Categories         []CategoryAllocation `json:"categories"`
	Actual             int64                `json:"actual" example:"95000"`
	Remaining          int64                `json:"remaining" example:"5000"`
	Utilization        decimal.Decimal      `json:"utilization" example:"95"` // Percentage, between 0 and 100
	Status             UtilizationStatus    `json:"status" example:"warning"`
	Transactions       int64                `json:"transactions" example:"12"`
}

// ClassifyUtilization returns the utilization in percent and the status of
// a budget.
//
// A budget of zero has a utilization of 0 and is always good. Otherwise the
// status is over if more than the budget has been spent and warning if more
// than 90 percent of it has been spent. The utilization is capped at 100 and
// never negative, it is rounded to two decimal places.
func ClassifyUtilization(actual, budgeted int64) (decimal.Decimal, UtilizationStatus) {
	if budgeted <= 0 {
		return decimal.Zero, UtilizationGood
	}

	raw := decimal.NewFromInt(actual).Mul(hundred).Div(decimal.NewFromInt(budgeted))

	status := UtilizationGood
	if actual > budgeted {
		status = UtilizationOver
	} else if raw.GreaterThan(warningThreshold) {
		status = UtilizationWarning
	}

	utilization := decimal.Min(decimal.Max(raw, decimal.Zero), hundred).Round(2)
	return utilization, status
}

// CreateBudget creates a budget with its items.
func (t *Tracker) CreateBudget(ctx context.Context, companyID uuid.UUID, in BudgetInput) (models.Budget, error) {
	budget := models.Budget{
		CompanyID:      companyID,
		Name:           in.Name,
		Type:           in.Type,
		PeriodStart:    in.PeriodStart,
		PeriodEnd:      in.PeriodEnd,
		DepartmentID:   in.DepartmentID,
		ProjectID:      in.ProjectID,
		AccountID:      in.AccountID,
		BudgetedAmount: in.BudgetedAmount,
		Description:    in.Description,
	}

	if budget.PeriodEnd.IsZero() {
		budget.PeriodEnd = derivePeriodEnd(budget.Type, budget.PeriodStart)
	}

	for i, item := range in.Items {
		budget.Items = append(budget.Items, models.BudgetItem{
			Position:    i,
			Name:        item.Name,
			Category:    item.Category,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCompany(tx, companyID); err != nil {
			return err
		}

		if err := validateBudget(tx, budget); err != nil {
			return err
		}

		for i := range budget.Items {
			if err := normalizeItem(&budget.Items[i]); err != nil {
				return err
			}
		}

		return tx.Create(&budget).Error
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// UpdateBudget applies a patch to a budget. Items are not changed.
func (t *Tracker) UpdateBudget(ctx context.Context, companyID, id uuid.UUID, patch BudgetPatch) (models.Budget, error) {
	var budget models.Budget

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = findBudget(tx, companyID, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			budget.Name = *patch.Name
		}
		if patch.Type != nil {
			budget.Type = *patch.Type
		}
		if patch.PeriodStart != nil {
			budget.PeriodStart = *patch.PeriodStart
		}
		if patch.PeriodEnd != nil {
			budget.PeriodEnd = *patch.PeriodEnd
		}
		if patch.DepartmentID != nil {
			budget.DepartmentID = *patch.DepartmentID
		}
		if patch.ProjectID != nil {
			budget.ProjectID = *patch.ProjectID
		}
		if patch.BudgetedAmount != nil {
			budget.BudgetedAmount = *patch.BudgetedAmount
		}
		if patch.Description != nil {
			budget.Description = *patch.Description
		}
		if patch.SetAccount {
			budget.AccountID = patch.AccountID
		}

		if err := validateBudget(tx, budget); err != nil {
			return err
		}

		err = tx.Select("Name", "Type", "PeriodStart", "PeriodEnd", "DepartmentID", "ProjectID", "AccountID", "BudgetedAmount", "Description").
			Omit("Items").
			Updates(&budget).Error
		if err != nil {
			return err
		}

		budget, err = findBudget(tx, companyID, id)
		return err
	})
	if err != nil {
		return models.Budget{}, err
	}

	return budget, nil
}

// DeleteBudget deletes a budget and its items.
func (t *Tracker) DeleteBudget(ctx context.Context, companyID, id uuid.UUID) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, companyID, id)
		if err != nil {
			return err
		}

		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(&budget).Error
	})
}

// Budget returns a budget with its items.
func (t *Tracker) Budget(ctx context.Context, companyID, id uuid.UUID) (models.Budget, error) {
	return findBudget(t.db.WithContext(ctx), companyID, id)
}

// Budgets returns all budgets of the company, latest period first.
func (t *Tracker) Budgets(ctx context.Context, companyID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	err := t.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("period_start DESC, name ASC").
		Find(&budgets).Error

	return budgets, err
}

// Items returns the items of a budget, ordered by position.
func (t *Tracker) Items(ctx context.Context, companyID, budgetID uuid.UUID) ([]models.BudgetItem, error) {
	budget, err := findBudget(t.db.WithContext(ctx), companyID, budgetID)
	if err != nil {
		return nil, err
	}

	return budget.Items, nil
}

// AddItem appends an item to a budget. The budgeted amount is not changed.
func (t *Tracker) AddItem(ctx context.Context, companyID, budgetID uuid.UUID, in BudgetItemInput) (models.BudgetItem, error) {
	item := models.BudgetItem{
		BudgetID:    budgetID,
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, companyID, budgetID)
		if err != nil {
			return err
		}

		if err := normalizeItem(&item); err != nil {
			return err
		}

		item.Position = len(budget.Items)
		if n := len(budget.Items); n > 0 && budget.Items[n-1].Position >= item.Position {
			item.Position = budget.Items[n-1].Position + 1
		}

		return tx.Create(&item).Error
	})
	if err != nil {
		return models.BudgetItem{}, err
	}

	return item, nil
}

// UpdateItem applies a patch to a budget item.
func (t *Tracker) UpdateItem(ctx context.Context, companyID, budgetID, id uuid.UUID, patch BudgetItemPatch) (models.BudgetItem, error) {
	var item models.BudgetItem

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = findItem(tx, companyID, budgetID, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Category != nil {
			item.Category = *patch.Category
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = *patch.UnitPrice
		}
		if patch.Position != nil {
			item.Position = *patch.Position
		}

		if err := normalizeItem(&item); err != nil {
			return err
		}

		return tx.Select("Name", "Category", "Description", "Quantity", "UnitPrice", "Position").Updates(&item).Error
	})
	if err != nil {
		return models.BudgetItem{}, err
	}

	return item, nil
}

// DeleteItem removes an item from a budget.
func (t *Tracker) DeleteItem(ctx context.Context, companyID, budgetID, id uuid.UUID) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := findItem(tx, companyID, budgetID, id)
		if err != nil {
			return err
		}

		return tx.Delete(&item).Error
	})
}

// ComputeProgress sums the actual spending in the scope and period of a
// budget and compares it with the budgeted amount.
//
// The scope is the budget account and all its descendants or, without an
// account, all expense accounts of the company. With a department or
// project, only transactions referencing it are included. Credits to the
// scope reduce the actual amount, so reversals cancel out.
func (t *Tracker) ComputeProgress(ctx context.Context, companyID, budgetID uuid.UUID) (Progress, error) {
	db := t.db.WithContext(ctx)

	budget, err := findBudget(db, companyID, budgetID)
	if err != nil {
		return Progress{}, err
	}

	scope, err := budgetScope(db, budget)
	if err != nil {
		return Progress{}, err
	}

	progress := Progress{
		BudgetID:    budget.ID,
		PeriodStart: budget.PeriodStart,
		PeriodEnd:   budget.PeriodEnd,
		Budgeted:    budget.BudgetedAmount,
		Categories:  []CategoryAllocation{},
	}

	categories := make(map[string]*CategoryAllocation)
	for _, item := range budget.Items {
		total, _ := item.LineTotal()
		progress.Allocated += total

		c, ok := categories[item.Category]
		if !ok {
			c = &CategoryAllocation{Category: item.Category}
			categories[item.Category] = c
		}
		c.Allocated += total
		c.Items++
	}
	for _, c := range categories {
		progress.Categories = append(progress.Categories, *c)
	}
	sort.Slice(progress.Categories, func(i, j int) bool {
		return progress.Categories[i].Category < progress.Categories[j].Category
	})
	progress.AllocationVariance = progress.Budgeted - progress.Allocated

	if len(scope) > 0 {
		base := db.Model(&models.Transaction{}).
			Where("company_id = ? AND status = ?", companyID, models.TransactionStatusPosted).
			Where("date >= ? AND date <= ?", budget.PeriodStart, budget.PeriodEnd)

		if budget.DepartmentID != "" {
			base = base.Where("reference_type = ? AND reference_id = ?", models.ReferenceTypeDepartment, budget.DepartmentID)
		}
		if budget.ProjectID != "" {
			base = base.Where("reference_type = ? AND reference_id = ?", models.ReferenceTypeProject, budget.ProjectID)
		}

		var debited, credited int64
		err = base.Session(&gorm.Session{}).
			Select("COALESCE(CAST(SUM(amount) AS BIGINT), 0)").
			Where("debit_account_id IN ?", scope).
			Scan(&debited).Error
		if err != nil {
			return Progress{}, err
		}

		err = base.Session(&gorm.Session{}).
			Select("COALESCE(CAST(SUM(amount) AS BIGINT), 0)").
			Where("credit_account_id IN ?", scope).
			Scan(&credited).Error
		if err != nil {
			return Progress{}, err
		}

		err = base.Session(&gorm.Session{}).
			Where("(debit_account_id IN ? OR credit_account_id IN ?)", scope, scope).
			Count(&progress.Transactions).Error
		if err != nil {
			return Progress{}, err
		}

		progress.Actual = debited - credited
	}

	progress.Remaining = progress.Budgeted - progress.Actual
	progress.Utilization, progress.Status = ClassifyUtilization(progress.Actual, progress.Budgeted)

	return progress, nil
}

// budgetScope returns the IDs of all accounts whose spending counts
// towards the budget.
func budgetScope(db *gorm.DB, budget models.Budget) ([]uuid.UUID, error) {
	var accounts []models.Account
	var err error

	if budget.AccountID != nil {
		accounts, err = descendants(db, budget.CompanyID, *budget.AccountID)
	} else {
		err = db.Where("company_id = ? AND type = ?", budget.CompanyID, models.AccountTypeExpense).Find(&accounts).Error
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}

	return ids, nil
}

// derivePeriodEnd returns the last day of a period starting at start for
// budget types with a fixed length. For all others, it returns the zero date.
func derivePeriodEnd(budgetType models.BudgetType, start types.Date) types.Date {
	if start.IsZero() {
		return types.Date{}
	}

	switch budgetType {
	case models.BudgetTypeAnnual:
		return start.AddDate(1, 0, -1)
	case models.BudgetTypeQuarterly:
		return start.AddDate(0, 3, -1)
	case models.BudgetTypeMonthly:
		return start.AddDate(0, 1, -1)
	default:
		return types.Date{}
	}
}

func validateBudget(db *gorm.DB, budget models.Budget) error {
	if strings.TrimSpace(budget.Name) == "" {
		return models.ErrBudgetNameRequired
	}

	if !budget.Type.Valid() {
		return models.ErrBudgetTypeInvalid
	}

	if budget.PeriodStart.IsZero() || budget.PeriodEnd.IsZero() {
		return models.ErrBudgetPeriodRequired
	}

	if !budget.PeriodEnd.After(budget.PeriodStart) {
		return models.ErrBudgetPeriodInvalid
	}

	if budget.BudgetedAmount < 0 {
		return models.ErrBudgetAmountNegative
	}

	if budget.AccountID != nil {
		if _, err := findAccount(db, budget.CompanyID, *budget.AccountID); err != nil {
			return err
		}
	}

	return nil
}

// normalizeItem defaults and validates a budget item.
func normalizeItem(item *models.BudgetItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return models.ErrBudgetItemNameRequired
	}

	if item.Quantity == 0 {
		item.Quantity = 1
	}

	if item.Quantity < 1 {
		return models.ErrBudgetItemQuantity
	}

	if item.UnitPrice < 0 {
		return models.ErrBudgetItemUnitPrice
	}

	if _, ok := item.LineTotal(); !ok {
		return models.ErrBudgetItemTotalOverflows
	}

	return nil
}

func findBudget(db *gorm.DB, companyID, id uuid.UUID) (models.Budget, error) {
	var budget models.Budget
	err := db.Where("company_id = ?", companyID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&budget, "id = ?", id).Error

	return budget, err
}

func findItem(db *gorm.DB, companyID, budgetID, id uuid.UUID) (models.BudgetItem, error) {
	if _, err := findBudget(db, companyID, budgetID); err != nil {
		return models.BudgetItem{}, err
	}

	var item models.BudgetItem
	err := db.Where("budget_id = ?", budgetID).First(&item, "id = ?", id).Error
	return item, err
}

package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"gorm.io/gorm"
)

// ChartEntry is one account of a chart of accounts template.
// Parent references the code of an entry defined earlier in the template.
type ChartEntry struct {
	Code        string                `yaml:"code"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description,omitempty"`
	Type        models.AccountType    `yaml:"type"`
	Subtype     models.AccountSubtype `yaml:"subtype,omitempty"`
	Parent      string                `yaml:"parent,omitempty"`
	System      bool                  `yaml:"system,omitempty"`
	Bank        bool                  `yaml:"bank,omitempty"`
}

// DefaultChart returns the chart of accounts for a small business.
func DefaultChart() []ChartEntry {
	return []ChartEntry{
		{Code: "1000", Name: "Cash at Bank", Type: models.AccountTypeAsset, Subtype: "current", Bank: true, Description: "Primary business bank account"},
		{Code: "1100", Name: "Accounts Receivable", Type: models.AccountTypeAsset, Subtype: "current"},
		{Code: "1500", Name: "Equipment", Type: models.AccountTypeAsset, Subtype: "fixed"},
		{Code: "2000", Name: "Accounts Payable", Type: models.AccountTypeLiability, Subtype: "current"},
		{Code: "2100", Name: "Credit Card", Type: models.AccountTypeLiability, Subtype: "current"},
		{Code: "2500", Name: "Loans", Type: models.AccountTypeLiability, Subtype: "long_term"},
		{Code: "3000", Name: "Owner's Capital", Type: models.AccountTypeEquity, Subtype: "capital"},
		{Code: "3100", Name: "Retained Earnings", Type: models.AccountTypeEquity, Subtype: "retained_earnings", System: true},
		{Code: "4000", Name: "Sales Revenue", Type: models.AccountTypeRevenue, Subtype: "operating"},
		{Code: "4100", Name: "Service Revenue", Type: models.AccountTypeRevenue, Subtype: "operating"},
		{Code: "4900", Name: "Other Income", Type: models.AccountTypeRevenue, Subtype: "other"},
		{Code: "5000", Name: "Cost of Goods Sold", Type: models.AccountTypeExpense, Subtype: "cost_of_sales"},
		{Code: "6000", Name: "Operating Expenses", Type: models.AccountTypeExpense, Subtype: "operating"},
		{Code: "6100", Name: "Salaries", Type: models.AccountTypeExpense, Subtype: "payroll", Parent: "6000"},
		{Code: "6200", Name: "Rent", Type: models.AccountTypeExpense, Subtype: "operating", Parent: "6000"},
		{Code: "6300", Name: "Software & SaaS", Type: models.AccountTypeExpense, Subtype: "operating", Parent: "6000"},
		{Code: "6400", Name: "Travel", Type: models.AccountTypeExpense, Subtype: "operating", Parent: "6000"},
	}
}

// SeedChart creates the accounts of a chart of accounts template for a
// company. All accounts are created or none.
func (r *Registry) SeedChart(ctx context.Context, companyID uuid.UUID, chart []ChartEntry) ([]models.Account, error) {
	var accounts []models.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCompany(tx, companyID); err != nil {
			return err
		}

		var err error
		accounts, err = seedChart(tx, companyID, chart)
		return err
	})

	return accounts, err
}

func seedChart(tx *gorm.DB, companyID uuid.UUID, chart []ChartEntry) ([]models.Account, error) {
	accounts := make([]models.Account, 0, len(chart))
	byCode := make(map[string]uuid.UUID, len(chart))

	for _, entry := range chart {
		account := models.Account{
			CompanyID:     companyID,
			Code:          entry.Code,
			Name:          entry.Name,
			Description:   entry.Description,
			Type:          entry.Type,
			Subtype:       entry.Subtype,
			NormalBalance: models.NormalBalanceFor(entry.Type),
			IsActive:      true,
			IsSystem:      entry.System,
			IsBankAccount: entry.Bank,
		}

		if entry.Parent != "" {
			parentID, ok := byCode[entry.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: parent %q of account %q must be defined before it", models.ErrValidation, entry.Parent, entry.Code)
			}
			account.ParentAccountID = &parentID
		}

		if err := validateAccount(tx, account); err != nil {
			return nil, fmt.Errorf("account %q: %w", entry.Code, err)
		}

		if err := tx.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("account %q: %w", entry.Code, err)
		}

		byCode[account.Code] = account.ID
		accounts = append(accounts, account)
	}

	return accounts, nil
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"gorm.io/gorm"
)

// Companies manages the companies the ledger is kept for.
type Companies struct {
	db *gorm.DB
}

type CompanyInput struct {
	Name     string
	Note     string
	Currency string
}

// CompanyPatch changes a company. Only non-nil fields are applied.
type CompanyPatch struct {
	Name     *string
	Note     *string
	Currency *string
}

// CreateCompany creates a company. If chart is not empty, its accounts
// are created in the same database transaction.
func (c *Companies) CreateCompany(ctx context.Context, in CompanyInput, chart []ChartEntry) (models.Company, error) {
	company := models.Company{
		Name:     in.Name,
		Note:     in.Note,
		Currency: in.Currency,
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		_, err := seedChart(tx, company.ID, chart)
		return err
	})
	if err != nil {
		return models.Company{}, err
	}

	return company, nil
}

// UpdateCompany applies a patch. The currency is fixed once the company
// has transactions since all amounts are kept in its minor unit.
func (c *Companies) UpdateCompany(ctx context.Context, id uuid.UUID, patch CompanyPatch) (models.Company, error) {
	var company models.Company

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		company, err = findCompany(tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			company.Name = *patch.Name
		}
		if patch.Note != nil {
			company.Note = *patch.Note
		}
		if patch.Currency != nil {
			code, err := models.ParseCurrency(*patch.Currency)
			if err != nil {
				return err
			}

			if code != company.Currency {
				count, err := countTransactions(tx, company.ID)
				if err != nil {
					return err
				}
				if count > 0 {
					return models.ErrCurrencyLocked
				}
			}
			company.Currency = code
		}

		return tx.Select("Name", "Note", "Currency").Updates(&company).Error
	})
	if err != nil {
		return models.Company{}, err
	}

	return company, nil
}

// DeleteCompany deletes a company with its accounts and budgets. Companies
// with transactions cannot be deleted.
func (c *Companies) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := findCompany(tx, id)
		if err != nil {
			return err
		}

		count, err := countTransactions(tx, company.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrCompanyHasLedger
		}

		budgets := tx.Model(&models.Budget{}).Select("id").Where("company_id = ?", company.ID)
		if err := tx.Where("budget_id IN (?)", budgets).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", company.ID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", company.ID).Delete(&models.Account{}).Error; err != nil {
			return err
		}

		return tx.Delete(&company).Error
	})
}

// Company returns a company.
func (c *Companies) Company(ctx context.Context, id uuid.UUID) (models.Company, error) {
	return findCompany(c.db.WithContext(ctx), id)
}

func countTransactions(db *gorm.DB, companyID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Transaction{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

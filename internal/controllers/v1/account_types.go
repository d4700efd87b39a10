package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	ez_uuid "github.com/hubworks/ledger/internal/uuid"
	"golang.org/x/exp/slices"
)

type AccountEditable struct {
	Code            string                `json:"code" example:"1000"`                                                 // Code of the account, unique within the company
	Name            string                `json:"name" example:"Cash"`                                                 // Name of the account
	Description     string                `json:"description" example:"Petty cash in the office safe" default:""`      // A longer description of the account
	Type            models.AccountType    `json:"type" example:"asset" enums:"asset,liability,equity,revenue,expense"` // Type of the account
	Subtype         models.AccountSubtype `json:"subtype" example:"current" default:""`                                // Subtype of the account, must be valid for the type
	ParentAccountID *uuid.UUID            `json:"parentAccountId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`      // ID of the parent account, must have the same type
	IsActive        bool                  `json:"isActive" example:"true" default:"true"`                              // Inactive accounts cannot be used by new transactions
	IsBankAccount   bool                  `json:"isBankAccount" example:"true" default:"false"`                        // Bank accounts are part of the cash flow statement. Only asset accounts can be bank accounts.
}

type AccountCreate struct {
	AccountEditable
	IsSystem bool `json:"isSystem" example:"false" default:"false"` // System accounts cannot be deleted
}

// input returns the ledger input for a new account. Only fields set
// in the request body override the defaults.
func (create AccountCreate) input(fields []string) ledger.AccountInput {
	in := ledger.AccountInput{
		Code:            create.Code,
		Name:            create.Name,
		Description:     create.Description,
		Type:            create.Type,
		Subtype:         create.Subtype,
		ParentAccountID: create.ParentAccountID,
		IsSystem:        create.IsSystem,
		IsBankAccount:   create.IsBankAccount,
	}

	if slices.Contains(fields, "IsActive") {
		in.IsActive = &create.IsActive
	}

	return in
}

// patch returns the ledger patch for all fields set in the request.
func (editable AccountEditable) patch(fields []string) ledger.AccountPatch {
	var patch ledger.AccountPatch

	if slices.Contains(fields, "Code") {
		patch.Code = &editable.Code
	}
	if slices.Contains(fields, "Name") {
		patch.Name = &editable.Name
	}
	if slices.Contains(fields, "Description") {
		patch.Description = &editable.Description
	}
	if slices.Contains(fields, "Type") {
		patch.Type = &editable.Type
	}
	if slices.Contains(fields, "Subtype") {
		patch.Subtype = &editable.Subtype
	}
	if slices.Contains(fields, "IsActive") {
		patch.IsActive = &editable.IsActive
	}
	if slices.Contains(fields, "IsBankAccount") {
		patch.IsBankAccount = &editable.IsBankAccount
	}
	if slices.Contains(fields, "ParentAccountID") {
		patch.SetParent = true
		patch.ParentAccountID = editable.ParentAccountID
	}

	return patch
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                     // The account itself
	Balance      string `json:"balance" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/balance"`          // Balance of the account, accepts the asOf query parameter
	Children     string `json:"children" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts?parent=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`          // Direct child accounts
	Transactions string `json:"transactions" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions on either side of the account
}

// Account is the API representation of an account.
type Account struct {
	models.DefaultModel
	AccountEditable
	CompanyID      uuid.UUID            `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company the account belongs to
	NormalBalance  models.NormalBalance `json:"normalBalance" example:"debit" enums:"debit,credit"`       // The side on which the account increases. Derived from the type.
	CurrentBalance int64                `json:"currentBalance" example:"25000"`                           // Balance in minor units of the company currency, in terms of the normal balance
	IsSystem       bool                 `json:"isSystem" example:"false"`                                 // System accounts cannot be deleted
	Links          AccountLinks         `json:"links"`
}

func newAccount(c *gin.Context, model models.Account) Account {
	url := fmt.Sprintf("%s/accounts/%s", companyURL(c, model.CompanyID), model.ID)

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Code:            model.Code,
			Name:            model.Name,
			Description:     model.Description,
			Type:            model.Type,
			Subtype:         model.Subtype,
			ParentAccountID: model.ParentAccountID,
			IsActive:        model.IsActive,
			IsBankAccount:   model.IsBankAccount,
		},
		CompanyID:      model.CompanyID,
		NormalBalance:  model.NormalBalance,
		CurrentBalance: model.CurrentBalance,
		IsSystem:       model.IsSystem,
		Links: AccountLinks{
			Self:         url,
			Balance:      url + "/balance",
			Children:     fmt.Sprintf("%s/accounts?parent=%s", companyURL(c, model.CompanyID), model.ID),
			Transactions: fmt.Sprintf("%s/transactions?account=%s", companyURL(c, model.CompanyID), model.ID),
		},
	}
}

type AccountResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *Account              `json:"data"`  // Data for the account
}

type AccountListResponse struct {
	Error      *httputil.ErrorObject `json:"error"`      // The error, if any occurred
	Data       []Account             `json:"data"`       // List of accounts
	Pagination *Pagination           `json:"pagination"` // Pagination information
}

type AccountQueryFilter struct {
	Type          models.AccountType    `form:"type"`                            // Filter by type
	Subtype       models.AccountSubtype `form:"subtype"`                         // Filter by subtype
	IsActive      bool                  `form:"isActive"`                        // Filter by active state
	IsBankAccount bool                  `form:"isBankAccount"`                   // Filter by bank account flag
	Parent        ez_uuid.UUID          `form:"parent" filterField:"false"`      // Filter by parent account ID. An empty value returns top level accounts.
	Name          string                `form:"name" filterField:"false"`        // Fuzzy filter for the account name
	CodePattern   string                `form:"codePattern" filterField:"false"` // Glob pattern for the account code, e.g. 1*
	Offset        uint                  `form:"offset" filterField:"false"`      // The offset of the first account returned. Defaults to 0.
	Limit         int                   `form:"limit" filterField:"false"`       // Maximum number of accounts to return. Defaults to 50.
}

// model returns the account fields that are filtered on directly.
func (f AccountQueryFilter) model() models.Account {
	return models.Account{
		Type:          f.Type,
		Subtype:       f.Subtype,
		IsActive:      f.IsActive,
		IsBankAccount: f.IsBankAccount,
	}
}

type AccountBalanceQuery struct {
	AsOf types.Date `form:"asOf"` // Date to compute the balance for. Defaults to the current balance.
}

// AccountBalance is the balance of an account at a point in time.
type AccountBalance struct {
	AccountID     uuid.UUID            `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	AsOf          types.Date           `json:"asOf" example:"2024-03-31"`                                // Date of the balance, null for the current balance
	Balance       int64                `json:"balance" example:"25000"`                                  // Balance in minor units, in terms of the normal balance
	NormalBalance models.NormalBalance `json:"normalBalance" example:"debit" enums:"debit,credit"`       // The side on which the account increases
}

type AccountBalanceResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *AccountBalance       `json:"data"`  // The balance
}

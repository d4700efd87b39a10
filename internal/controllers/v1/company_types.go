package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"golang.org/x/exp/slices"
)

// Chart is the chart of accounts that new companies are seeded with
// when requested.
var Chart = ledger.DefaultChart()

type CompanyEditable struct {
	Name     string `json:"name" example:"Hubworks Ltd"`                 // Name of the company
	Note     string `json:"note" example:"Consulting branch" default:""` // A longer description of the company
	Currency string `json:"currency" example:"EUR" default:"USD"`        // ISO 4217 code of the currency all amounts are kept in
}

type CompanyCreate struct {
	CompanyEditable
	SeedChart bool `json:"seedChart" example:"true" default:"false"` // Create the default chart of accounts for the company
}

// patch returns the ledger patch for all fields set in the request.
func (editable CompanyEditable) patch(fields []string) ledger.CompanyPatch {
	var patch ledger.CompanyPatch

	if slices.Contains(fields, "Name") {
		patch.Name = &editable.Name
	}
	if slices.Contains(fields, "Note") {
		patch.Note = &editable.Note
	}
	if slices.Contains(fields, "Currency") {
		patch.Currency = &editable.Currency
	}

	return patch
}

type CompanyLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                                  // The company itself
	Accounts     string `json:"accounts" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts"`                     // Chart of accounts
	Transactions string `json:"transactions" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions"`             // Transactions
	Budgets      string `json:"budgets" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets"`                       // Budgets
	ProfitLoss   string `json:"profitAndLoss" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/reports/profit-and-loss"` // Profit and loss statement, requires from and to query parameters
	BalanceSheet string `json:"balanceSheet" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/reports/balance-sheet"`    // Balance sheet, requires the asOf query parameter
	CashFlow     string `json:"cashFlow" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/reports/cash-flow"`            // Cash flow statement, requires from and to query parameters
	Integrity    string `json:"integrity" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/integrity"`                   // Ledger verification
}

// Company is the API representation of a company.
type Company struct {
	models.DefaultModel
	CompanyEditable
	Links CompanyLinks `json:"links"`
}

func newCompany(c *gin.Context, model models.Company) Company {
	url := companyURL(c, model.ID)

	return Company{
		DefaultModel: model.DefaultModel,
		CompanyEditable: CompanyEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: CompanyLinks{
			Self:         url,
			Accounts:     url + "/accounts",
			Transactions: url + "/transactions",
			Budgets:      url + "/budgets",
			ProfitLoss:   url + "/reports/profit-and-loss",
			BalanceSheet: url + "/reports/balance-sheet",
			CashFlow:     url + "/reports/cash-flow",
			Integrity:    url + "/integrity",
		},
	}
}

type CompanyResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *Company              `json:"data"`  // Data for the company
}

type CompanyListResponse struct {
	Error      *httputil.ErrorObject `json:"error"`      // The error, if any occurred
	Data       []Company             `json:"data"`       // List of companies
	Pagination *Pagination           `json:"pagination"` // Pagination information
}

type CompanyQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // Fuzzy filter for the company name
	Currency string `form:"currency"`                   // Filter by currency
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first company returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of companies to return. Defaults to 50.
}

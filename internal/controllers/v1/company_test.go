package v1_test

import (
	"net/http"
	"strings"

	v1 "github.com/hubworks/ledger/internal/controllers/v1"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/test"
)

func (suite *TestSuiteStandard) TestCompaniesCreate() {
	tests := []struct {
		name     string
		company  v1.CompanyCreate
		status   int
		currency string
	}{
		{"Default currency", v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Hubworks Ltd"}}, http.StatusCreated, "USD"},
		{"Lower case currency", v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Hubworks GmbH", Currency: "eur"}}, http.StatusCreated, "EUR"},
		{"Name with spaces", v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "   "}}, http.StatusBadRequest, ""},
		{"Unknown currency", v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Hubworks Inc", Currency: "EURO"}}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/companies", tt.company)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)

			var company v1.CompanyResponse
			test.DecodeResponse(suite.T(), &r, &company)

			if tt.status != http.StatusCreated {
				suite.Require().NotNil(company.Error)
				suite.Assert().Equal("validation", company.Error.Kind)
				return
			}

			suite.Assert().Equal(tt.currency, company.Data.Currency)
			suite.Assert().True(strings.HasPrefix(company.Data.Links.Self, "http://example.com/v1/companies/"))
		})
	}
}

func (suite *TestSuiteStandard) TestCompaniesCreateBrokenBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/companies", `{ "name": 2 }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/companies", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the request body must not be empty", test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestCompaniesCreateSeedChart() {
	company, accounts := suite.seededCompany()

	suite.Assert().Len(accounts, 17)
	suite.Assert().True(accounts["1000"].IsBankAccount)
	suite.Assert().True(accounts["3100"].IsSystem)
	suite.Require().NotNil(accounts["6100"].ParentAccountID)
	suite.Assert().Equal(accounts["6000"].ID, *accounts["6100"].ParentAccountID)

	for _, account := range accounts {
		suite.Assert().Equal(company.ID, account.CompanyID)
	}
}

func (suite *TestSuiteStandard) TestCompaniesGet() {
	created := suite.createTestCompany(v1.CompanyCreate{})

	r := test.Request(suite.T(), http.MethodGet, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var company v1.CompanyResponse
	test.DecodeResponse(suite.T(), &r, &company)
	suite.Assert().Equal(created.Data.ID, company.Data.ID)
	suite.Assert().Equal(created.Data.Links, company.Data.Links)
}

func (suite *TestSuiteStandard) TestCompaniesGetNonExisting() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/companies/6a463e0b-5f16-4b8c-9f4b-2a6d7c5b0a3b", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	var company v1.CompanyResponse
	test.DecodeResponse(suite.T(), &r, &company)
	suite.Assert().Equal("not_found", company.Error.Kind)
	suite.Assert().Equal("there is no company matching your query", company.Error.Message)
}

func (suite *TestSuiteStandard) TestCompaniesInvalidUUID() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/companies/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var company v1.CompanyResponse
	test.DecodeResponse(suite.T(), &r, &company)
	suite.Assert().Equal("validation", company.Error.Kind)
}

func (suite *TestSuiteStandard) TestCompaniesGetFilter() {
	suite.createTestCompany(v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Alpha Consulting", Currency: "EUR"}})
	suite.createTestCompany(v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Beta Consulting", Currency: "USD"}})
	suite.createTestCompany(v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Gamma Trading", Currency: "EUR"}})

	tests := []struct {
		name  string
		query string
		len   int
		total int64
	}{
		{"All", "", 3, 3},
		{"Currency", "currency=eur", 2, 2},
		{"Name", "name=consulting", 2, 2},
		{"Name and currency", "name=consulting&currency=EUR", 1, 1},
		{"Limit", "limit=1", 1, 3},
		{"Offset", "offset=2", 1, 3},
		{"No match", "name=bank", 0, 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/companies?"+tt.query, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var companies v1.CompanyListResponse
			test.DecodeResponse(suite.T(), &r, &companies)

			suite.Assert().Len(companies.Data, tt.len)
			suite.Assert().Equal(tt.total, companies.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestCompaniesUpdate() {
	company := suite.createTestCompany(v1.CompanyCreate{CompanyEditable: v1.CompanyEditable{Name: "Hubworks", Note: "Main branch"}})

	r := test.Request(suite.T(), http.MethodPatch, company.Data.Links.Self, map[string]any{
		"name":     "Hubworks Ltd",
		"currency": "GBP",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CompanyResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Hubworks Ltd", updated.Data.Name)
	suite.Assert().Equal("GBP", updated.Data.Currency)
	suite.Assert().Equal("Main branch", updated.Data.Note, "Fields not in the body must not be changed")
}

func (suite *TestSuiteStandard) TestCompaniesUpdateCurrencyLocked() {
	company, accounts := suite.seededCompany()

	suite.createTestTransaction(company.ID, v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
		DebitAccountID:  accounts["6200"].ID,
		CreditAccountID: accounts["1000"].ID,
		Amount:          1000,
	}})

	r := test.Request(suite.T(), http.MethodPatch, company.Links.Self, map[string]any{"currency": "EUR"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
	suite.Assert().Equal(models.ErrCurrencyLocked.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	// Setting the same currency again is fine
	r = test.Request(suite.T(), http.MethodPatch, company.Links.Self, map[string]any{"currency": "usd"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestCompaniesUpdateBrokenBody() {
	company := suite.createTestCompany(v1.CompanyCreate{})

	r := test.Request(suite.T(), http.MethodPatch, company.Data.Links.Self, `{ "name": 2 }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPatch, company.Data.Links.Self, `not json`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCompaniesDelete() {
	company := suite.createTestCompany(v1.CompanyCreate{SeedChart: true})

	r := test.Request(suite.T(), http.MethodDelete, company.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, company.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCompaniesDeleteWithLedger() {
	company, accounts := suite.seededCompany()

	suite.createTestTransaction(company.ID, v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
		DebitAccountID:  accounts["6200"].ID,
		CreditAccountID: accounts["1000"].ID,
		Amount:          1000,
	}})

	r := test.Request(suite.T(), http.MethodDelete, company.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
	suite.Assert().Equal(models.ErrCompanyHasLedger.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestCompaniesDatabaseError() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/companies", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	var companies v1.CompanyListResponse
	test.DecodeResponse(suite.T(), &r, &companies)
	suite.Assert().Equal("general", companies.Error.Kind)
	suite.Assert().Equal(models.ErrGeneral.Error(), companies.Error.Message)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/models"
	ez_uuid "github.com/hubworks/ledger/internal/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

func RegisterAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAccounts)
		r.GET("", GetAccounts)
		r.POST("", CreateAccount)
	}
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", GetAccount)
		r.PATCH("/:id", UpdateAccount)
		r.DELETE("/:id", DeleteAccount)
	}
	{
		r.OPTIONS("/:id/balance", OptionsAccountBalance)
		r.GET("/:id/balance", GetAccountBalance)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/accounts [options]
func OptionsAccounts(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := requireCompany(c, uri.CompanyID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the account"
// @Router			/v1/companies/{companyId}/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Accounts.Account(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the account"
// @Router			/v1/companies/{companyId}/accounts/{id}/balance [options]
func OptionsAccountBalance(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Accounts.Account(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create account
// @Description	Adds an account to the chart of accounts. The normal balance is derived from the type.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		201			{object}	AccountResponse
// @Failure		400			{object}	AccountResponse
// @Failure		404			{object}	AccountResponse
// @Failure		409			{object}	AccountResponse
// @Failure		500			{object}	AccountResponse
// @Param			companyId	path		string			true	"ID of the company"
// @Param			account		body		AccountCreate	true	"Account"
// @Router			/v1/companies/{companyId}/accounts [post]
func CreateAccount(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	// isActive defaults to true, so we need to know if it is set
	fields, err := httputil.GetBodyFields(c, AccountEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	var create AccountCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	account, err := engine().Accounts.CreateAccount(c, uri.CompanyID.UUID, create.input(fields))
	if err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusCreated, AccountResponse{Data: &apiResource})
}

// @Summary		Get accounts
// @Description	Returns the chart of accounts of a company, ordered by code
// @Tags			Accounts
// @Produce		json
// @Success		200				{object}	AccountListResponse
// @Failure		400				{object}	AccountListResponse
// @Failure		404				{object}	AccountListResponse
// @Failure		500				{object}	AccountListResponse
// @Param			companyId		path		string	true	"ID of the company"
// @Param			type			query		string	false	"Filter by type"
// @Param			subtype			query		string	false	"Filter by subtype"
// @Param			isActive		query		bool	false	"Filter by active state"
// @Param			isBankAccount	query		bool	false	"Filter by bank account flag"
// @Param			parent			query		string	false	"Filter by parent account ID. An empty value returns top level accounts."
// @Param			name			query		string	false	"Filter by name, matches all accounts containing the text"
// @Param			codePattern		query		string	false	"Glob pattern for the account code, e.g. 1*"
// @Param			offset			query		uint	false	"The offset of the first account returned. Defaults to 0."
// @Param			limit			query		int		false	"Maximum number of accounts to return. Defaults to 50."
// @Router			/v1/companies/{companyId}/accounts [get]
func GetAccounts(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), AccountListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var filter AccountQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, AccountListResponse{Error: httputil.NewError(c, err)})
		return
	}

	if err := requireCompany(c, uri.CompanyID.UUID); err != nil {
		c.JSON(httputil.Status(err), AccountListResponse{Error: httputil.NewError(c, err)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := models.DB.WithContext(c).
		Order("code ASC").
		Where("company_id = ?", uri.CompanyID.UUID).
		Where(&where, queryFields...)

	if slices.Contains(setFields, "Parent") {
		if filter.Parent == ez_uuid.Nil {
			q = q.Where("parent_account_id IS NULL")
		} else {
			q = q.Where("parent_account_id = ?", filter.Parent.UUID)
		}
	}

	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	limit := pageLimit(setFields, filter.Limit)

	var (
		accounts []models.Account
		count    int64
	)

	// Glob patterns cannot be expressed in SQL portably, the
	// pattern is therefore matched after loading the accounts
	if filter.CodePattern != "" {
		var all []models.Account
		if err := q.Find(&all).Error; err != nil {
			c.JSON(httputil.Status(err), AccountListResponse{Error: httputil.NewError(c, err)})
			return
		}

		for _, account := range all {
			if glob.Glob(filter.CodePattern, account.Code) {
				accounts = append(accounts, account)
			}
		}

		count = int64(len(accounts))
		accounts = page(accounts, filter.Offset, limit)
	} else {
		if err := q.Offset(int(filter.Offset)).Limit(limit).Find(&accounts).Error; err != nil {
			c.JSON(httputil.Status(err), AccountListResponse{Error: httputil.NewError(c, err)})
			return
		}

		if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
			c.JSON(httputil.Status(err), AccountListResponse{Error: httputil.NewError(c, err)})
			return
		}
	}

	data := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, newAccount(c, account))
	}

	c.JSON(http.StatusOK, AccountListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// page returns the resources for the requested offset and limit.
// A negative limit returns all resources after the offset.
func page[T any](resources []T, offset uint, limit int) []T {
	if int(offset) >= len(resources) {
		return []T{}
	}

	resources = resources[offset:]
	if limit >= 0 && limit < len(resources) {
		resources = resources[:limit]
	}

	return resources
}

// @Summary		Get account
// @Description	Returns a specific account
// @Tags			Accounts
// @Produce		json
// @Success		200			{object}	AccountResponse
// @Failure		400			{object}	AccountResponse
// @Failure		404			{object}	AccountResponse
// @Failure		500			{object}	AccountResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the account"
// @Router			/v1/companies/{companyId}/accounts/{id} [get]
func GetAccount(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	account, err := engine().Accounts.Account(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Update account
// @Description	Updates an existing account. Only values to be updated need to be specified. Setting parentAccountId to null removes the parent.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200			{object}	AccountResponse
// @Failure		400			{object}	AccountResponse
// @Failure		404			{object}	AccountResponse
// @Failure		409			{object}	AccountResponse
// @Failure		500			{object}	AccountResponse
// @Param			companyId	path		string			true	"ID of the company"
// @Param			id			path		string			true	"ID of the account"
// @Param			account		body		AccountEditable	true	"Account"
// @Router			/v1/companies/{companyId}/accounts/{id} [patch]
func UpdateAccount(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, AccountEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data AccountEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	account, err := engine().Accounts.UpdateAccount(c, uri.CompanyID.UUID, uri.ID.UUID, data.patch(updateFields))
	if err != nil {
		c.JSON(httputil.Status(err), AccountResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &apiResource})
}

// @Summary		Delete account
// @Description	Deletes an account. Accounts with a balance, child accounts or transactions cannot be deleted.
// @Tags			Accounts
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the account"
// @Router			/v1/companies/{companyId}/accounts/{id} [delete]
func DeleteAccount(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := engine().Accounts.DeleteAccount(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get account balance
// @Description	Returns the balance of an account. With asOf, only transactions posted up to and including that date are summed.
// @Tags			Accounts
// @Produce		json
// @Success		200			{object}	AccountBalanceResponse
// @Failure		400			{object}	AccountBalanceResponse
// @Failure		404			{object}	AccountBalanceResponse
// @Failure		500			{object}	AccountBalanceResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the account"
// @Param			asOf		query		string	false	"Date of the balance, YYYY-MM-DD"
// @Router			/v1/companies/{companyId}/accounts/{id}/balance [get]
func GetAccountBalance(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), AccountBalanceResponse{Error: httputil.NewError(c, err)})
		return
	}

	var query AccountBalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, AccountBalanceResponse{Error: httputil.NewError(c, err)})
		return
	}

	e := engine()
	account, err := e.Accounts.Account(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), AccountBalanceResponse{Error: httputil.NewError(c, err)})
		return
	}

	asOf := &query.AsOf
	if query.AsOf.IsZero() {
		asOf = nil
	}

	balance, err := e.Accounts.Balance(c, uri.CompanyID.UUID, uri.ID.UUID, asOf)
	if err != nil {
		c.JSON(httputil.Status(err), AccountBalanceResponse{Error: httputil.NewError(c, err)})
		return
	}

	c.JSON(http.StatusOK, AccountBalanceResponse{Data: &AccountBalance{
		AccountID:     account.ID,
		AsOf:          query.AsOf,
		Balance:       balance,
		NormalBalance: account.NormalBalance,
	}})
}

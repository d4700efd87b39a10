package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
)

func RegisterCompanyRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsCompanies)
		r.GET("", GetCompanies)
		r.POST("", CreateCompany)
	}
	{
		r.OPTIONS("/:companyId", OptionsCompanyDetail)
		r.GET("/:companyId", GetCompany)
		r.PATCH("/:companyId", UpdateCompany)
		r.DELETE("/:companyId", DeleteCompany)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Companies
// @Success		204
// @Router			/v1/companies [options]
func OptionsCompanies(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Companies
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId} [options]
func OptionsCompanyDetail(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Companies.Company(c, uri.CompanyID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create company
// @Description	Creates a new company. If seedChart is set, the default chart of accounts is created with it.
// @Tags			Companies
// @Accept			json
// @Produce		json
// @Success		201		{object}	CompanyResponse
// @Failure		400		{object}	CompanyResponse
// @Failure		500		{object}	CompanyResponse
// @Param			company	body		CompanyCreate	true	"Company"
// @Router			/v1/companies [post]
func CreateCompany(c *gin.Context) {
	var create CompanyCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	var chart []ledger.ChartEntry
	if create.SeedChart {
		chart = Chart
	}

	company, err := engine().Companies.CreateCompany(c, ledger.CompanyInput{
		Name:     create.Name,
		Note:     create.Note,
		Currency: create.Currency,
	}, chart)
	if err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newCompany(c, company)
	c.JSON(http.StatusCreated, CompanyResponse{Data: &apiResource})
}

// @Summary		Get companies
// @Description	Returns a list of companies
// @Tags			Companies
// @Produce		json
// @Success		200			{object}	CompanyListResponse
// @Failure		400			{object}	CompanyListResponse
// @Failure		500			{object}	CompanyListResponse
// @Param			name		query		string	false	"Filter by name, matches all companies containing the text"
// @Param			currency	query		string	false	"Filter by currency"
// @Param			offset		query		uint	false	"The offset of the first company returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of companies to return. Defaults to 50."
// @Router			/v1/companies [get]
func GetCompanies(c *gin.Context) {
	var filter CompanyQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, CompanyListResponse{Error: httputil.NewError(c, err)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := models.Company{Currency: strings.ToUpper(filter.Currency)}
	q := models.DB.WithContext(c).
		Order("name ASC").
		Where(&where, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	limit := pageLimit(setFields, filter.Limit)

	var companies []models.Company
	if err := q.Offset(int(filter.Offset)).Limit(limit).Find(&companies).Error; err != nil {
		c.JSON(httputil.Status(err), CompanyListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		c.JSON(httputil.Status(err), CompanyListResponse{Error: httputil.NewError(c, err)})
		return
	}

	data := make([]Company, 0, len(companies))
	for _, company := range companies {
		data = append(data, newCompany(c, company))
	}

	c.JSON(http.StatusOK, CompanyListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get company
// @Description	Returns a specific company
// @Tags			Companies
// @Produce		json
// @Success		200			{object}	CompanyResponse
// @Failure		400			{object}	CompanyResponse
// @Failure		404			{object}	CompanyResponse
// @Failure		500			{object}	CompanyResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId} [get]
func GetCompany(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	company, err := engine().Companies.Company(c, uri.CompanyID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newCompany(c, company)
	c.JSON(http.StatusOK, CompanyResponse{Data: &apiResource})
}

// @Summary		Update company
// @Description	Updates an existing company. Only values to be updated need to be specified. The currency cannot be changed once transactions exist.
// @Tags			Companies
// @Accept			json
// @Produce		json
// @Success		200			{object}	CompanyResponse
// @Failure		400			{object}	CompanyResponse
// @Failure		404			{object}	CompanyResponse
// @Failure		409			{object}	CompanyResponse
// @Failure		500			{object}	CompanyResponse
// @Param			companyId	path		string			true	"ID of the company"
// @Param			company		body		CompanyEditable	true	"Company"
// @Router			/v1/companies/{companyId} [patch]
func UpdateCompany(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, CompanyEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data CompanyEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	company, err := engine().Companies.UpdateCompany(c, uri.CompanyID.UUID, data.patch(updateFields))
	if err != nil {
		c.JSON(httputil.Status(err), CompanyResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newCompany(c, company)
	c.JSON(http.StatusOK, CompanyResponse{Data: &apiResource})
}

// @Summary		Delete company
// @Description	Deletes a company with its accounts and budgets. Companies with transactions cannot be deleted.
// @Tags			Companies
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		409			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId} [delete]
func DeleteCompany(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := engine().Companies.DeleteCompany(c, uri.CompanyID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

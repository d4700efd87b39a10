package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/models"
)

func RegisterBudgetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBudgets)
		r.GET("", GetBudgets)
		r.POST("", CreateBudget)
	}
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
	}
	{
		r.OPTIONS("/:id/items", OptionsBudgetItems)
		r.GET("/:id/items", GetBudgetItems)
		r.POST("/:id/items", CreateBudgetItem)
		r.OPTIONS("/:id/items/:itemId", OptionsBudgetItemDetail)
		r.PATCH("/:id/items/:itemId", UpdateBudgetItem)
		r.DELETE("/:id/items/:itemId", DeleteBudgetItem)
	}
	{
		r.OPTIONS("/:id/progress", OptionsBudgetProgress)
		r.GET("/:id/progress", GetBudgetProgress)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/budgets [options]
func OptionsBudgets(c *gin.Context) {
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
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	if !budgetExists(c) {
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id}/items [options]
func OptionsBudgetItems(c *gin.Context) {
	if !budgetExists(c) {
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Param			itemId		path		string	true	"ID of the budget item"
// @Router			/v1/companies/{companyId}/budgets/{id}/items/{itemId} [options]
func OptionsBudgetItemDetail(c *gin.Context) {
	var uri URIItem
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Budgets.Budget(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	err := models.DB.WithContext(c).
		Where("budget_id = ?", uri.ID.UUID).
		First(&models.BudgetItem{}, "id = ?", uri.ItemID.UUID).Error
	if err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id}/progress [options]
func OptionsBudgetProgress(c *gin.Context) {
	if !budgetExists(c) {
		return
	}

	httputil.OptionsGet(c)
}

// budgetExists aborts the request with an error if the budget
// does not exist.
func budgetExists(c *gin.Context) bool {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return false
	}

	if _, err := engine().Budgets.Budget(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return false
	}

	return true
}

// @Summary		Create budget
// @Description	Creates a budget with its items. The budgeted amount is independent of the item totals.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201			{object}	BudgetResponse
// @Failure		400			{object}	BudgetResponse
// @Failure		404			{object}	BudgetResponse
// @Failure		500			{object}	BudgetResponse
// @Param			companyId	path		string			true	"ID of the company"
// @Param			budget		body		BudgetCreate	true	"Budget"
// @Router			/v1/companies/{companyId}/budgets [post]
func CreateBudget(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	var create BudgetCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	budget, err := engine().Budgets.CreateBudget(c, uri.CompanyID.UUID, create.input())
	if err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusCreated, BudgetResponse{Data: &apiResource})
}

// @Summary		Get budgets
// @Description	Returns the budgets of a company, latest period first
// @Tags			Budgets
// @Produce		json
// @Success		200				{object}	BudgetListResponse
// @Failure		400				{object}	BudgetListResponse
// @Failure		404				{object}	BudgetListResponse
// @Failure		500				{object}	BudgetListResponse
// @Param			companyId		path		string	true	"ID of the company"
// @Param			type			query		string	false	"Filter by type"
// @Param			departmentId	query		string	false	"Filter by department"
// @Param			projectId		query		string	false	"Filter by project"
// @Param			account			query		string	false	"Filter by account ID. An empty value returns budgets without account scope."
// @Param			name			query		string	false	"Filter by name, matches all budgets containing the text"
// @Param			activeOn		query		string	false	"Budgets whose period contains this date, YYYY-MM-DD"
// @Param			offset			query		uint	false	"The offset of the first budget returned. Defaults to 0."
// @Param			limit			query		int		false	"Maximum number of budgets to return. Defaults to 50."
// @Router			/v1/companies/{companyId}/budgets [get]
func GetBudgets(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var filter BudgetQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, BudgetListResponse{Error: httputil.NewError(c, err)})
		return
	}

	if err := requireCompany(c, uri.CompanyID.UUID); err != nil {
		c.JSON(httputil.Status(err), BudgetListResponse{Error: httputil.NewError(c, err)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := models.DB.WithContext(c).
		Order("period_start DESC, name ASC").
		Where("company_id = ?", uri.CompanyID.UUID).
		Where(&where, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	if !filter.ActiveOn.IsZero() {
		q = q.Where("period_start <= ? AND period_end >= ?", filter.ActiveOn, filter.ActiveOn)
	}

	limit := pageLimit(setFields, filter.Limit)

	var budgets []models.Budget
	if err := q.Offset(int(filter.Offset)).Limit(limit).Find(&budgets).Error; err != nil {
		c.JSON(httputil.Status(err), BudgetListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		c.JSON(httputil.Status(err), BudgetListResponse{Error: httputil.NewError(c, err)})
		return
	}

	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		data = append(data, newBudget(c, budget))
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200			{object}	BudgetResponse
// @Failure		400			{object}	BudgetResponse
// @Failure		404			{object}	BudgetResponse
// @Failure		500			{object}	BudgetResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	budget, err := engine().Budgets.Budget(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// @Summary		Update budget
// @Description	Updates an existing budget. Only values to be updated need to be specified. Setting accountId to null removes the account scope.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetResponse
// @Failure		400			{object}	BudgetResponse
// @Failure		404			{object}	BudgetResponse
// @Failure		500			{object}	BudgetResponse
// @Param			companyId	path		string			true	"ID of the company"
// @Param			id			path		string			true	"ID of the budget"
// @Param			budget		body		BudgetEditable	true	"Budget"
// @Router			/v1/companies/{companyId}/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data BudgetEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	budget, err := engine().Budgets.UpdateBudget(c, uri.CompanyID.UUID, uri.ID.UUID, data.patch(updateFields))
	if err != nil {
		c.JSON(httputil.Status(err), BudgetResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newBudget(c, budget)
	c.JSON(http.StatusOK, BudgetResponse{Data: &apiResource})
}

// @Summary		Delete budget
// @Description	Deletes a budget and its items
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := engine().Budgets.DeleteBudget(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get budget items
// @Description	Returns the items of a budget, ordered by position
// @Tags			Budgets
// @Produce		json
// @Success		200			{object}	BudgetItemListResponse
// @Failure		400			{object}	BudgetItemListResponse
// @Failure		404			{object}	BudgetItemListResponse
// @Failure		500			{object}	BudgetItemListResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id}/items [get]
func GetBudgetItems(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetItemListResponse{Error: httputil.NewError(c, err)})
		return
	}

	items, err := engine().Budgets.Items(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), BudgetItemListResponse{Error: httputil.NewError(c, err)})
		return
	}

	data := make([]BudgetItem, 0, len(items))
	for _, item := range items {
		data = append(data, newBudgetItem(c, uri.CompanyID.UUID, item))
	}

	c.JSON(http.StatusOK, BudgetItemListResponse{Data: data})
}

// @Summary		Create budget item
// @Description	Appends an item to a budget. The budgeted amount is not changed.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201			{object}	BudgetItemResponse
// @Failure		400			{object}	BudgetItemResponse
// @Failure		404			{object}	BudgetItemResponse
// @Failure		500			{object}	BudgetItemResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the budget"
// @Param			item		body		BudgetItemEditable	true	"Budget item"
// @Router			/v1/companies/{companyId}/budgets/{id}/items [post]
func CreateBudgetItem(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data BudgetItemEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	item, err := engine().Budgets.AddItem(c, uri.CompanyID.UUID, uri.ID.UUID, data.input())
	if err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newBudgetItem(c, uri.CompanyID.UUID, item)
	c.JSON(http.StatusCreated, BudgetItemResponse{Data: &apiResource})
}

// @Summary		Update budget item
// @Description	Updates a budget item. Only values to be updated need to be specified. The budgeted amount is not changed.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetItemResponse
// @Failure		400			{object}	BudgetItemResponse
// @Failure		404			{object}	BudgetItemResponse
// @Failure		500			{object}	BudgetItemResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the budget"
// @Param			itemId		path		string				true	"ID of the budget item"
// @Param			item		body		BudgetItemEditable	true	"Budget item"
// @Router			/v1/companies/{companyId}/budgets/{id}/items/{itemId} [patch]
func UpdateBudgetItem(c *gin.Context) {
	var uri URIItem
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, BudgetItemEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data BudgetItemEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	item, err := engine().Budgets.UpdateItem(c, uri.CompanyID.UUID, uri.ID.UUID, uri.ItemID.UUID, data.patch(updateFields))
	if err != nil {
		c.JSON(httputil.Status(err), BudgetItemResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newBudgetItem(c, uri.CompanyID.UUID, item)
	c.JSON(http.StatusOK, BudgetItemResponse{Data: &apiResource})
}

// @Summary		Delete budget item
// @Description	Deletes a budget item. The budgeted amount is not changed.
// @Tags			Budgets
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Param			itemId		path		string	true	"ID of the budget item"
// @Router			/v1/companies/{companyId}/budgets/{id}/items/{itemId} [delete]
func DeleteBudgetItem(c *gin.Context) {
	var uri URIItem
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := engine().Budgets.DeleteItem(c, uri.CompanyID.UUID, uri.ID.UUID, uri.ItemID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get budget progress
// @Description	Compares the budget with the posted spending in its scope and period
// @Tags			Budgets
// @Produce		json
// @Success		200			{object}	BudgetProgressResponse
// @Failure		400			{object}	BudgetProgressResponse
// @Failure		404			{object}	BudgetProgressResponse
// @Failure		500			{object}	BudgetProgressResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the budget"
// @Router			/v1/companies/{companyId}/budgets/{id}/progress [get]
func GetBudgetProgress(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BudgetProgressResponse{Error: httputil.NewError(c, err)})
		return
	}

	progress, err := engine().Budgets.ComputeProgress(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), BudgetProgressResponse{Error: httputil.NewError(c, err)})
		return
	}

	c.JSON(http.StatusOK, BudgetProgressResponse{Data: &progress})
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	ez_uuid "github.com/hubworks/ledger/internal/uuid"
)

func RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
	}
	{
		r.OPTIONS("/:id/approve", OptionsTransactionAction)
		r.POST("/:id/approve", ApproveTransaction)
		r.OPTIONS("/:id/reject", OptionsTransactionAction)
		r.POST("/:id/reject", RejectTransaction)
		r.OPTIONS("/:id/post", OptionsTransactionAction)
		r.POST("/:id/post", PostTransaction)
		r.OPTIONS("/:id/reverse", OptionsTransactionAction)
		r.POST("/:id/reverse", ReverseTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/transactions [options]
func OptionsTransactions(c *gin.Context) {
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
// @Tags			Transactions
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the transaction"
// @Router			/v1/companies/{companyId}/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Transactions.Transaction(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the transaction"
// @Router			/v1/companies/{companyId}/transactions/{id}/approve [options]
// @Router			/v1/companies/{companyId}/transactions/{id}/reject [options]
// @Router			/v1/companies/{companyId}/transactions/{id}/post [options]
// @Router			/v1/companies/{companyId}/transactions/{id}/reverse [options]
func OptionsTransactionAction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if _, err := engine().Transactions.Transaction(c, uri.CompanyID.UUID, uri.ID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create transaction
// @Description	Records a new pending transaction. It is assigned the next transaction number of the company.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			transaction	body		TransactionCreate	true	"Transaction"
// @Router			/v1/companies/{companyId}/transactions [post]
func CreateTransaction(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	var create TransactionCreate
	if err := httputil.BindData(c, &create); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.CreateTransaction(c, uri.CompanyID.UUID, create.input())
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &apiResource})
}

// @Summary		Get transactions
// @Description	Returns the transactions of a company, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200				{object}	TransactionListResponse
// @Failure		400				{object}	TransactionListResponse
// @Failure		404				{object}	TransactionListResponse
// @Failure		500				{object}	TransactionListResponse
// @Param			companyId		path		string	true	"ID of the company"
// @Param			status			query		string	false	"Filter by status"
// @Param			type			query		string	false	"Filter by type"
// @Param			referenceType	query		string	false	"Filter by reference type"
// @Param			referenceId		query		string	false	"Filter by reference ID"
// @Param			debit			query		string	false	"Filter by debit account ID"
// @Param			credit			query		string	false	"Filter by credit account ID"
// @Param			account			query		string	false	"Filter by account ID on either side"
// @Param			fromDate		query		string	false	"Transactions on and after this date, YYYY-MM-DD"
// @Param			untilDate		query		string	false	"Transactions on and before this date, YYYY-MM-DD"
// @Param			description		query		string	false	"Filter by description, matches all transactions containing the text"
// @Param			offset			query		uint	false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit			query		int		false	"Maximum number of transactions to return. Defaults to 50."
// @Router			/v1/companies/{companyId}/transactions [get]
func GetTransactions(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var filter TransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: httputil.NewError(c, err)})
		return
	}

	if err := requireCompany(c, uri.CompanyID.UUID); err != nil {
		c.JSON(httputil.Status(err), TransactionListResponse{Error: httputil.NewError(c, err)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := models.DB.WithContext(c).
		Order("date DESC, number DESC").
		Where("company_id = ?", uri.CompanyID.UUID).
		Where(&where, queryFields...)

	if filter.AccountID != ez_uuid.Nil {
		q = q.Where("(debit_account_id = ? OR credit_account_id = ?)", filter.AccountID.UUID, filter.AccountID.UUID)
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("date >= ?", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("date <= ?", filter.UntilDate)
	}

	if filter.Description != "" {
		q = q.Where("description LIKE ?", "%"+filter.Description+"%")
	}

	limit := pageLimit(setFields, filter.Limit)

	var transactions []models.Transaction
	if err := q.Offset(int(filter.Offset)).Limit(limit).Find(&transactions).Error; err != nil {
		c.JSON(httputil.Status(err), TransactionListResponse{Error: httputil.NewError(c, err)})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		c.JSON(httputil.Status(err), TransactionListResponse{Error: httputil.NewError(c, err)})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the transaction"
// @Router			/v1/companies/{companyId}/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.Transaction(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Update transaction
// @Description	Updates a pending transaction. Only values to be updated need to be specified. Posted transactions cannot be changed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the transaction"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/companies/{companyId}/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.UpdateTransaction(c, uri.CompanyID.UUID, uri.ID.UUID, data.patch(updateFields))
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Approve transaction
// @Description	Approves a pending transaction
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the transaction"
// @Param			approval	body		TransactionApprove	true	"Approval"
// @Router			/v1/companies/{companyId}/transactions/{id}/approve [post]
func ApproveTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data TransactionApprove
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.ApproveTransaction(c, uri.CompanyID.UUID, uri.ID.UUID, data.ApprovedBy)
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Reject transaction
// @Description	Rejects a pending transaction. A reason is required.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the transaction"
// @Param			rejection	body		TransactionReject	true	"Rejection"
// @Router			/v1/companies/{companyId}/transactions/{id}/reject [post]
func RejectTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data TransactionReject
	if err := httputil.BindData(c, &data); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.RejectTransaction(c, uri.CompanyID.UUID, uri.ID.UUID, data.Reason)
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Post transaction
// @Description	Posts an approved transaction and updates the balances of both accounts. Posting a posted transaction again has no effect.
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			id			path		string	true	"ID of the transaction"
// @Router			/v1/companies/{companyId}/transactions/{id}/post [post]
func PostTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	transaction, err := engine().Transactions.PostTransaction(c, uri.CompanyID.UUID, uri.ID.UUID)
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Reverse transaction
// @Description	Reverses a posted transaction with a new, posted transaction that swaps debit and credit account. The body is optional.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		409			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			companyId	path		string				true	"ID of the company"
// @Param			id			path		string				true	"ID of the transaction"
// @Param			reversal	body		TransactionReverse	false	"Reversal"
// @Router			/v1/companies/{companyId}/transactions/{id}/reverse [post]
func ReverseTransaction(c *gin.Context) {
	var uri URIID
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	var data TransactionReverse
	if c.Request.ContentLength != 0 {
		if err := httputil.BindData(c, &data); err != nil {
			c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
			return
		}
	}

	reversal, err := engine().Transactions.ReverseTransaction(c, uri.CompanyID.UUID, uri.ID.UUID, ledger.ReversalInput{
		Reason:    data.Reason,
		CreatedBy: data.CreatedBy,
		Date:      data.Date,
	})
	if err != nil {
		c.JSON(httputil.Status(err), TransactionResponse{Error: httputil.NewError(c, err)})
		return
	}

	apiResource := newTransaction(c, reversal)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &apiResource})
}

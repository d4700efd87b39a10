package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	ez_uuid "github.com/hubworks/ledger/internal/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

type TransactionEditable struct {
	Type            models.TransactionType `json:"type" example:"payment" enums:"journal,payment,receipt,transfer,adjustment" default:"journal"` // Type of the transaction
	Date            types.Date             `json:"date" example:"2024-03-31" format:"date"`                                                      // Date of the transaction. Defaults to today.
	Description     string                 `json:"description" example:"Office rent March" default:""`                                           // Description of the transaction
	DebitAccountID  uuid.UUID              `json:"debitAccountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                                // ID of the account that is debited
	CreditAccountID uuid.UUID              `json:"creditAccountId" example:"1e777d24-3f5b-4c43-8000-04f65f895578"`                               // ID of the account that is credited
	Amount          int64                  `json:"amount" example:"150000" minimum:"1"`                                                          // Amount in minor units of the company currency
	Currency        string                 `json:"currency" example:"EUR"`                                                                       // Currency of the source document. Defaults to the company currency.
	ExchangeRate    decimal.Decimal        `json:"exchangeRate" example:"1" swaggertype:"string"`                                                // Exchange rate of the source document currency to the company currency
	ReferenceType   string                 `json:"referenceType" example:"project" default:""`                                                   // Type of the referenced entity, e.g. project or department
	ReferenceID     string                 `json:"referenceId" example:"website-relaunch" default:""`                                            // ID of the referenced entity
	ReferenceNumber string                 `json:"referenceNumber" example:"INV-2024-0042" default:""`                                           // Number of the source document, e.g. an invoice number
}

type TransactionCreate struct {
	TransactionEditable
	CreatedBy string `json:"createdBy" example:"jane.doe"` // User that recorded the transaction
}

func (create TransactionCreate) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Type:            create.Type,
		Date:            create.Date,
		Description:     create.Description,
		DebitAccountID:  create.DebitAccountID,
		CreditAccountID: create.CreditAccountID,
		Amount:          create.Amount,
		Currency:        create.Currency,
		ExchangeRate:    create.ExchangeRate,
		ReferenceType:   create.ReferenceType,
		ReferenceID:     create.ReferenceID,
		ReferenceNumber: create.ReferenceNumber,
		CreatedBy:       create.CreatedBy,
	}
}

// patch returns the ledger patch for all fields set in the request.
func (editable TransactionEditable) patch(fields []string) ledger.TransactionPatch {
	var patch ledger.TransactionPatch

	if slices.Contains(fields, "Type") {
		patch.Type = &editable.Type
	}
	if slices.Contains(fields, "Date") {
		patch.Date = &editable.Date
	}
	if slices.Contains(fields, "Description") {
		patch.Description = &editable.Description
	}
	if slices.Contains(fields, "DebitAccountID") {
		patch.DebitAccountID = &editable.DebitAccountID
	}
	if slices.Contains(fields, "CreditAccountID") {
		patch.CreditAccountID = &editable.CreditAccountID
	}
	if slices.Contains(fields, "Amount") {
		patch.Amount = &editable.Amount
	}
	if slices.Contains(fields, "Currency") {
		patch.Currency = &editable.Currency
	}
	if slices.Contains(fields, "ExchangeRate") {
		patch.ExchangeRate = &editable.ExchangeRate
	}
	if slices.Contains(fields, "ReferenceType") {
		patch.ReferenceType = &editable.ReferenceType
	}
	if slices.Contains(fields, "ReferenceID") {
		patch.ReferenceID = &editable.ReferenceID
	}
	if slices.Contains(fields, "ReferenceNumber") {
		patch.ReferenceNumber = &editable.ReferenceNumber
	}

	return patch
}

type TransactionApprove struct {
	ApprovedBy string `json:"approvedBy" binding:"required" example:"john.doe"` // User approving the transaction
}

type TransactionReject struct {
	Reason string `json:"reason" example:"Duplicate of invoice INV-2024-0041"` // Reason for the rejection
}

type TransactionReverse struct {
	Reason    string     `json:"reason" example:"Booked on the wrong account"` // Reason for the reversal, becomes part of the description
	CreatedBy string     `json:"createdBy" example:"jane.doe"`                 // User that reverses the transaction
	Date      types.Date `json:"date" example:"2024-04-02" format:"date"`      // Date of the reversing transaction. Defaults to today.
}

type TransactionLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions/88f9a3a6-8c0e-4d4c-9b0e-8c0a0f8d1a1b"`            // The transaction itself
	Approve       string `json:"approve" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions/88f9a3a6-8c0e-4d4c-9b0e-8c0a0f8d1a1b/approve"` // Approves a pending transaction
	Reject        string `json:"reject" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions/88f9a3a6-8c0e-4d4c-9b0e-8c0a0f8d1a1b/reject"`   // Rejects a pending transaction
	Post          string `json:"post" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions/88f9a3a6-8c0e-4d4c-9b0e-8c0a0f8d1a1b/post"`       // Posts an approved transaction
	Reverse       string `json:"reverse" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/transactions/88f9a3a6-8c0e-4d4c-9b0e-8c0a0f8d1a1b/reverse"` // Reverses a posted transaction
	DebitAccount  string `json:"debitAccount" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`        // The debit account
	CreditAccount string `json:"creditAccount" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/accounts/1e777d24-3f5b-4c43-8000-04f65f895578"`       // The credit account
}

// Transaction is the API representation of a transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	CompanyID       uuid.UUID                `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`         // ID of the company
	Number          int64                    `json:"number" example:"42"`                                              // Sequential number of the transaction within the company
	Status          models.TransactionStatus `json:"status" example:"posted" enums:"pending,approved,rejected,posted"` // Status of the transaction
	CreatedBy       string                   `json:"createdBy" example:"jane.doe"`                                     // User that recorded the transaction
	ApprovedBy      string                   `json:"approvedBy" example:"john.doe"`                                    // User that approved the transaction
	ApprovedAt      *time.Time               `json:"approvedAt" example:"2024-04-01T09:12:44Z"`                        // Time of the approval
	PostedAt        *time.Time               `json:"postedAt" example:"2024-04-01T09:13:02Z"`                          // Time of the posting
	RejectedAt      *time.Time               `json:"rejectedAt" example:"2024-04-01T09:12:44Z"`                        // Time of the rejection
	RejectionReason string                   `json:"rejectionReason" example:"Duplicate of invoice INV-2024-0041"`     // Reason for the rejection
	ReversalOfID    *uuid.UUID               `json:"reversalOfId" example:"e1e5f4d2-65f3-4b1a-8a47-5a0e2b3a5c8e"`      // ID of the transaction this transaction reverses
	ReversedByID    *uuid.UUID               `json:"reversedById" example:"9b2b8a3e-0a1c-4e0e-a1f9-0d1c7d9e6f55"`      // ID of the transaction reversing this transaction
	Links           TransactionLinks         `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	company := companyURL(c, model.CompanyID)
	url := fmt.Sprintf("%s/transactions/%s", company, model.ID)

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Type:            model.Type,
			Date:            model.Date,
			Description:     model.Description,
			DebitAccountID:  model.DebitAccountID,
			CreditAccountID: model.CreditAccountID,
			Amount:          model.Amount,
			Currency:        model.Currency,
			ExchangeRate:    model.ExchangeRate,
			ReferenceType:   model.ReferenceType,
			ReferenceID:     model.ReferenceID,
			ReferenceNumber: model.ReferenceNumber,
		},
		CompanyID:       model.CompanyID,
		Number:          model.Number,
		Status:          model.Status,
		CreatedBy:       model.CreatedBy,
		ApprovedBy:      model.ApprovedBy,
		ApprovedAt:      model.ApprovedAt,
		PostedAt:        model.PostedAt,
		RejectedAt:      model.RejectedAt,
		RejectionReason: model.RejectionReason,
		ReversalOfID:    model.ReversalOfID,
		ReversedByID:    model.ReversedByID,
		Links: TransactionLinks{
			Self:          url,
			Approve:       url + "/approve",
			Reject:        url + "/reject",
			Post:          url + "/post",
			Reverse:       url + "/reverse",
			DebitAccount:  fmt.Sprintf("%s/accounts/%s", company, model.DebitAccountID),
			CreditAccount: fmt.Sprintf("%s/accounts/%s", company, model.CreditAccountID),
		},
	}
}

type TransactionResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *Transaction          `json:"data"`  // Data for the transaction
}

type TransactionListResponse struct {
	Error      *httputil.ErrorObject `json:"error"`      // The error, if any occurred
	Data       []Transaction         `json:"data"`       // List of transactions
	Pagination *Pagination           `json:"pagination"` // Pagination information
}

type TransactionQueryFilter struct {
	Status          models.TransactionStatus `form:"status"`                          // Filter by status
	Type            models.TransactionType   `form:"type"`                            // Filter by type
	ReferenceType   string                   `form:"referenceType"`                   // Filter by reference type
	ReferenceID     string                   `form:"referenceId"`                     // Filter by reference ID
	DebitAccountID  ez_uuid.UUID             `form:"debit"`                           // Filter by debit account ID
	CreditAccountID ez_uuid.UUID             `form:"credit"`                          // Filter by credit account ID
	AccountID       ez_uuid.UUID             `form:"account" filterField:"false"`     // Filter by account ID on either side
	FromDate        types.Date               `form:"fromDate" filterField:"false"`    // Transactions on and after this date
	UntilDate       types.Date               `form:"untilDate" filterField:"false"`   // Transactions on and before this date
	Description     string                   `form:"description" filterField:"false"` // Fuzzy filter for the description
	Offset          uint                     `form:"offset" filterField:"false"`      // The offset of the first transaction returned. Defaults to 0.
	Limit           int                      `form:"limit" filterField:"false"`       // Maximum number of transactions to return. Defaults to 50.
}

// model returns the transaction fields that are filtered on directly.
func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		Status:          f.Status,
		Type:            f.Type,
		ReferenceType:   f.ReferenceType,
		ReferenceID:     f.ReferenceID,
		DebitAccountID:  f.DebitAccountID.UUID,
		CreditAccountID: f.CreditAccountID.UUID,
	}
}

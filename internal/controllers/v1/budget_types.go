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

type BudgetEditable struct {
	Name           string            `json:"name" example:"Marketing 2024"`                                             // Name of the budget
	Type           models.BudgetType `json:"type" example:"annual" enums:"annual,quarterly,monthly,project,department"` // Type of the budget
	PeriodStart    types.Date        `json:"periodStart" example:"2024-01-01" format:"date"`                            // First day of the budget period
	PeriodEnd      types.Date        `json:"periodEnd" example:"2024-12-31" format:"date"`                              // Last day of the budget period. Derived from the type for annual, quarterly and monthly budgets if not set.
	DepartmentID   string            `json:"departmentId" example:"marketing" default:""`                               // Only transactions referencing this department are counted
	ProjectID      string            `json:"projectId" example:"website-relaunch" default:""`                           // Only transactions referencing this project are counted
	AccountID      *uuid.UUID        `json:"accountId" example:"d2525c7a-8d9a-4a7e-a5b3-0b7d3f8a1c2e"`                  // Account the budget is scoped to, including its descendants. Defaults to all expense accounts.
	BudgetedAmount int64             `json:"budgetedAmount" example:"1000000" minimum:"0"`                              // Budgeted amount in minor units of the company currency
	Description    string            `json:"description" example:"Online and print campaigns" default:""`               // A longer description of the budget
}

type BudgetCreate struct {
	BudgetEditable
	Items []BudgetItemEditable `json:"items"` // Itemized allocation of the budget
}

func (create BudgetCreate) input() ledger.BudgetInput {
	in := ledger.BudgetInput{
		Name:           create.Name,
		Type:           create.Type,
		PeriodStart:    create.PeriodStart,
		PeriodEnd:      create.PeriodEnd,
		DepartmentID:   create.DepartmentID,
		ProjectID:      create.ProjectID,
		AccountID:      create.AccountID,
		BudgetedAmount: create.BudgetedAmount,
		Description:    create.Description,
	}

	for _, item := range create.Items {
		in.Items = append(in.Items, item.input())
	}

	return in
}

// patch returns the ledger patch for all fields set in the request.
func (editable BudgetEditable) patch(fields []string) ledger.BudgetPatch {
	var patch ledger.BudgetPatch

	if slices.Contains(fields, "Name") {
		patch.Name = &editable.Name
	}
	if slices.Contains(fields, "Type") {
		patch.Type = &editable.Type
	}
	if slices.Contains(fields, "PeriodStart") {
		patch.PeriodStart = &editable.PeriodStart
	}
	if slices.Contains(fields, "PeriodEnd") {
		patch.PeriodEnd = &editable.PeriodEnd
	}
	if slices.Contains(fields, "DepartmentID") {
		patch.DepartmentID = &editable.DepartmentID
	}
	if slices.Contains(fields, "ProjectID") {
		patch.ProjectID = &editable.ProjectID
	}
	if slices.Contains(fields, "BudgetedAmount") {
		patch.BudgetedAmount = &editable.BudgetedAmount
	}
	if slices.Contains(fields, "Description") {
		patch.Description = &editable.Description
	}
	if slices.Contains(fields, "AccountID") {
		patch.SetAccount = true
		patch.AccountID = editable.AccountID
	}

	return patch
}

type BudgetLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets/5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1"`              // The budget itself
	Items    string `json:"items" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets/5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1/items"`       // Items of the budget
	Progress string `json:"progress" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets/5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1/progress"` // Progress of the budget
}

// Budget is the API representation of a budget.
type Budget struct {
	models.DefaultModel
	BudgetEditable
	CompanyID uuid.UUID   `json:"companyId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the company
	Links     BudgetLinks `json:"links"`
}

func newBudget(c *gin.Context, model models.Budget) Budget {
	url := fmt.Sprintf("%s/budgets/%s", companyURL(c, model.CompanyID), model.ID)

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Name:           model.Name,
			Type:           model.Type,
			PeriodStart:    model.PeriodStart,
			PeriodEnd:      model.PeriodEnd,
			DepartmentID:   model.DepartmentID,
			ProjectID:      model.ProjectID,
			AccountID:      model.AccountID,
			BudgetedAmount: model.BudgetedAmount,
			Description:    model.Description,
		},
		CompanyID: model.CompanyID,
		Links: BudgetLinks{
			Self:     url,
			Items:    url + "/items",
			Progress: url + "/progress",
		},
	}
}

type BudgetResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *Budget               `json:"data"`  // Data for the budget
}

type BudgetListResponse struct {
	Error      *httputil.ErrorObject `json:"error"`      // The error, if any occurred
	Data       []Budget              `json:"data"`       // List of budgets
	Pagination *Pagination           `json:"pagination"` // Pagination information
}

type BudgetQueryFilter struct {
	Type         models.BudgetType `form:"type"`                         // Filter by type
	DepartmentID string            `form:"departmentId"`                 // Filter by department
	ProjectID    string            `form:"projectId"`                    // Filter by project
	AccountID    ez_uuid.UUID      `form:"account"`                      // Filter by account ID
	Name         string            `form:"name" filterField:"false"`     // Fuzzy filter for the budget name
	ActiveOn     types.Date        `form:"activeOn" filterField:"false"` // Budgets whose period contains this date
	Offset       uint              `form:"offset" filterField:"false"`   // The offset of the first budget returned. Defaults to 0.
	Limit        int               `form:"limit" filterField:"false"`    // Maximum number of budgets to return. Defaults to 50.
}

// model returns the budget fields that are filtered on directly.
func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		Type:         f.Type,
		DepartmentID: f.DepartmentID,
		ProjectID:    f.ProjectID,
		AccountID:    f.AccountID.Ptr(),
	}
}

type BudgetItemEditable struct {
	Name        string `json:"name" example:"Laptop"`                                 // Name of the item
	Category    string `json:"category" example:"Hardware" default:""`                // Category the item is grouped by
	Description string `json:"description" example:"For the new designer" default:""` // A longer description of the item
	Quantity    int64  `json:"quantity" example:"2" default:"1" minimum:"1"`          // Quantity of the item
	UnitPrice   int64  `json:"unitPrice" example:"150000" minimum:"0"`                // Price per unit in minor units of the company currency
	Position    int    `json:"position" example:"0"`                                  // Position of the item in the budget. New items are always appended.
}

func (editable BudgetItemEditable) input() ledger.BudgetItemInput {
	return ledger.BudgetItemInput{
		Name:        editable.Name,
		Category:    editable.Category,
		Description: editable.Description,
		Quantity:    editable.Quantity,
		UnitPrice:   editable.UnitPrice,
	}
}

// patch returns the ledger patch for all fields set in the request.
func (editable BudgetItemEditable) patch(fields []string) ledger.BudgetItemPatch {
	var patch ledger.BudgetItemPatch

	if slices.Contains(fields, "Name") {
		patch.Name = &editable.Name
	}
	if slices.Contains(fields, "Category") {
		patch.Category = &editable.Category
	}
	if slices.Contains(fields, "Description") {
		patch.Description = &editable.Description
	}
	if slices.Contains(fields, "Quantity") {
		patch.Quantity = &editable.Quantity
	}
	if slices.Contains(fields, "UnitPrice") {
		patch.UnitPrice = &editable.UnitPrice
	}
	if slices.Contains(fields, "Position") {
		patch.Position = &editable.Position
	}

	return patch
}

type BudgetItemLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets/5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1/items/0c2e6a3f-8a0d-4c55-9d7e-1f2b3c4d5e6f"` // The item itself
	Budget string `json:"budget" example:"https://example.com/api/v1/companies/550dc009-cea6-4c12-b2a5-03446eb7b7cf/budgets/5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1"`                                          // The budget the item belongs to
}

// BudgetItem is the API representation of a budget item.
type BudgetItem struct {
	models.DefaultModel
	BudgetItemEditable
	BudgetID  uuid.UUID       `json:"budgetId" example:"5b95e1a9-522e-4e2f-b4a8-4ef6a5e1d9c1"` // ID of the budget
	LineTotal int64           `json:"lineTotal" example:"300000"`                              // Quantity times unit price
	Links     BudgetItemLinks `json:"links"`
}

func newBudgetItem(c *gin.Context, companyID uuid.UUID, model models.BudgetItem) BudgetItem {
	budget := fmt.Sprintf("%s/budgets/%s", companyURL(c, companyID), model.BudgetID)
	total, _ := model.LineTotal()

	return BudgetItem{
		DefaultModel: model.DefaultModel,
		BudgetItemEditable: BudgetItemEditable{
			Name:        model.Name,
			Category:    model.Category,
			Description: model.Description,
			Quantity:    model.Quantity,
			UnitPrice:   model.UnitPrice,
			Position:    model.Position,
		},
		BudgetID:  model.BudgetID,
		LineTotal: total,
		Links: BudgetItemLinks{
			Self:   fmt.Sprintf("%s/items/%s", budget, model.ID),
			Budget: budget,
		},
	}
}

type BudgetItemResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *BudgetItem           `json:"data"`  // Data for the budget item
}

type BudgetItemListResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  []BudgetItem          `json:"data"`  // Items of the budget, ordered by position
}

type BudgetProgressResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *ledger.Progress      `json:"data"`  // Progress of the budget
}

// Package api registers the OpenAPI description of the ledger API with swag.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {"get": {"tags": ["General"], "summary": "API root", "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["General"], "summary": "Get health", "responses": {"204": {"description": "No Content"}, "500": {"description": "Internal Server Error"}}}},
        "/version": {"get": {"tags": ["General"], "summary": "API version", "responses": {"200": {"description": "OK"}}}},
        "/v1": {"get": {"tags": ["v1"], "summary": "v1 API", "responses": {"200": {"description": "OK"}}}},
        "/v1/companies": {
            "get": {"tags": ["Companies"], "summary": "Get companies", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Companies"], "summary": "Create company", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/companies/{companyId}": {
            "get": {"tags": ["Companies"], "summary": "Get company", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Companies"], "summary": "Update company", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["Companies"], "summary": "Delete company", "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/v1/companies/{companyId}/accounts": {
            "get": {"tags": ["Accounts"], "summary": "Get accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Accounts"], "summary": "Create account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/v1/companies/{companyId}/accounts/{id}": {
            "get": {"tags": ["Accounts"], "summary": "Get account", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Accounts"], "summary": "Update account", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Accounts"], "summary": "Delete account", "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/v1/companies/{companyId}/accounts/{id}/balance": {"get": {"tags": ["Accounts"], "summary": "Get account balance", "responses": {"200": {"description": "OK"}}}},
        "/v1/companies/{companyId}/transactions": {
            "get": {"tags": ["Transactions"], "summary": "Get transactions", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Transactions"], "summary": "Create transaction", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/companies/{companyId}/transactions/{id}": {
            "get": {"tags": ["Transactions"], "summary": "Get transaction", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Transactions"], "summary": "Update transaction", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/v1/companies/{companyId}/transactions/{id}/approve": {"post": {"tags": ["Transactions"], "summary": "Approve transaction", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/v1/companies/{companyId}/transactions/{id}/reject": {"post": {"tags": ["Transactions"], "summary": "Reject transaction", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/v1/companies/{companyId}/transactions/{id}/post": {"post": {"tags": ["Transactions"], "summary": "Post transaction", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/v1/companies/{companyId}/transactions/{id}/reverse": {"post": {"tags": ["Transactions"], "summary": "Reverse transaction", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/v1/companies/{companyId}/budgets": {
            "get": {"tags": ["Budgets"], "summary": "Get budgets", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Budgets"], "summary": "Create budget", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/companies/{companyId}/budgets/{id}": {
            "get": {"tags": ["Budgets"], "summary": "Get budget", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Budgets"], "summary": "Update budget", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Budgets"], "summary": "Delete budget", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/companies/{companyId}/budgets/{id}/items": {
            "get": {"tags": ["Budgets"], "summary": "Get budget items", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Budgets"], "summary": "Create budget item", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/companies/{companyId}/budgets/{id}/items/{itemId}": {
            "patch": {"tags": ["Budgets"], "summary": "Update budget item", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Budgets"], "summary": "Delete budget item", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/companies/{companyId}/budgets/{id}/progress": {"get": {"tags": ["Budgets"], "summary": "Get budget progress", "responses": {"200": {"description": "OK"}}}},
        "/v1/companies/{companyId}/reports/profit-and-loss": {"get": {"tags": ["Reports"], "summary": "Profit and loss statement", "responses": {"200": {"description": "OK"}}}},
        "/v1/companies/{companyId}/reports/balance-sheet": {"get": {"tags": ["Reports"], "summary": "Balance sheet", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
        "/v1/companies/{companyId}/reports/cash-flow": {"get": {"tags": ["Reports"], "summary": "Cash flow statement", "responses": {"200": {"description": "OK"}}}},
        "/v1/companies/{companyId}/integrity": {"get": {"tags": ["Integrity"], "summary": "Verify ledger integrity", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

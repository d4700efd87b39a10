package models

import (
	"errors"
)

// Error kinds. Every error returned by the ledger wraps exactly one of them.
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrImmutableState   = errors.New("immutable state")
	ErrIntegrity        = errors.New("ledger integrity violated")
)

// Error is a concrete ledger error. It unwraps to its kind so that
// callers can match both the concrete error and the kind with errors.Is.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the name of the error kind for API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrImmutableState):
		return "immutable_state"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	default:
		return "general"
	}
}

// Company
var (
	ErrCompanyNameRequired = newError(ErrValidation, "the company name must not be empty")
	ErrCurrencyInvalid     = newError(ErrValidation, "the currency must be a valid ISO 4217 code")
	ErrCompanyHasLedger    = newError(ErrConflict, "the company cannot be deleted while transactions exist for it")
	ErrCurrencyLocked      = newError(ErrConflict, "the currency cannot be changed once transactions exist for the company")
)

// Account
var (
	ErrAccountCodeRequired       = newError(ErrValidation, "the account code must not be empty")
	ErrAccountNameRequired       = newError(ErrValidation, "the account name must not be empty")
	ErrAccountTypeInvalid        = newError(ErrValidation, "the account type must be one of asset, liability, equity, revenue, expense")
	ErrAccountSubtypeInvalid     = newError(ErrValidation, "the account subtype is not valid for the account type")
	ErrAccountParentSelf         = newError(ErrValidation, "an account cannot be its own parent")
	ErrAccountParentTypeMismatch = newError(ErrValidation, "the parent account must have the same type as the account")
	ErrAccountParentCycle        = newError(ErrValidation, "the parent account assignment would create a cycle")
	ErrAccountBankNotAsset       = newError(ErrValidation, "only asset accounts can be bank accounts")
	ErrAccountCodeNotUnique      = newError(ErrConflict, "the account code must be unique within the company")
	ErrAccountTypeLocked         = newError(ErrConflict, "the account type cannot be changed once transactions reference the account")
	ErrAccountHasChildren        = newError(ErrConflict, "the account has child accounts")
	ErrAccountSystem             = newError(ErrConflict, "system accounts cannot be deleted")
	ErrAccountBalanceNotZero     = newError(ErrConflict, "accounts with a balance other than zero cannot be deleted")
	ErrAccountReferenced         = newError(ErrConflict, "accounts referenced by transactions cannot be deleted, deactivate them instead")
	ErrAccountInactive           = newError(ErrConflict, "transactions cannot use inactive accounts")
	ErrAccountBudgetScope        = newError(ErrConflict, "the account is the scope of a budget")
)

// Transaction
var (
	ErrTransactionAmountNotPositive = newError(ErrValidation, "the transaction amount must be positive")
	ErrTransactionAccountsIdentical = newError(ErrValidation, "debit and credit account must be different")
	ErrTransactionAccountsRequired  = newError(ErrValidation, "debit and credit account must be set")
	ErrTransactionTypeInvalid       = newError(ErrValidation, "the transaction type must be one of journal, payment, receipt, transfer, adjustment")
	ErrExchangeRateNotPositive      = newError(ErrValidation, "the exchange rate must be positive")
	ErrRejectionReasonRequired      = newError(ErrValidation, "a reason is required to reject a transaction")
	ErrTransactionNumberNotUnique   = newError(ErrConflict, "the transaction number is already in use")
	ErrTransactionAlreadyReversed   = newError(ErrConflict, "the transaction has already been reversed")
	ErrTransactionIsReversal        = newError(ErrConflict, "reversing transactions cannot be reversed, post a new transaction instead")
	ErrTransactionNotPending        = newError(ErrInvalidState, "the transaction is not pending")
	ErrTransactionNotApproved       = newError(ErrInvalidState, "only approved transactions can be posted")
	ErrTransactionNotPosted         = newError(ErrInvalidState, "only posted transactions can be reversed")
	ErrTransactionPosted            = newError(ErrImmutableState, "the transaction is posted and cannot be changed, post a reversing transaction instead")
)

// Budget
var (
	ErrBudgetNameRequired       = newError(ErrValidation, "the budget name must not be empty")
	ErrBudgetTypeInvalid        = newError(ErrValidation, "the budget type must be one of annual, quarterly, monthly, project, department")
	ErrBudgetPeriodInvalid      = newError(ErrValidation, "the period end must be after the period start")
	ErrBudgetPeriodRequired     = newError(ErrValidation, "the budget period must be set")
	ErrBudgetAmountNegative     = newError(ErrValidation, "the budgeted amount must not be negative")
	ErrBudgetItemNameRequired   = newError(ErrValidation, "the budget item name must not be empty")
	ErrBudgetItemQuantity       = newError(ErrValidation, "the budget item quantity must be at least 1")
	ErrBudgetItemUnitPrice      = newError(ErrValidation, "the budget item unit price must not be negative")
	ErrBudgetItemTotalOverflows = newError(ErrValidation, "the budget item line total is too large")
)

// Reports
var (
	ErrReportPeriodInvalid = newError(ErrValidation, "the report end date must not be before its start date")
	ErrReportDateRequired  = newError(ErrValidation, "the report dates must be set")
)

// Integrity
var (
	ErrLedgerUnbalanced       = newError(ErrIntegrity, "the ledger does not sum to zero")
	ErrBalanceDrift           = newError(ErrIntegrity, "stored account balances do not match the posted transactions")
	ErrBalanceSheetUnbalanced = newError(ErrIntegrity, "assets do not equal liabilities plus equity")
)

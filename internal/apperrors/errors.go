package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAssetNotFound indicates that an asset with the given ID does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrUnknownCurrency indicates a currency code that is not part of the
	// fixed currency table. Validation rejects unknown codes at the boundary,
	// so hitting this deeper in the stack is a programming error.
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business
// rules. All of them are caller-recoverable; a rejected operation leaves the
// ledger completely unchanged.
var (
	// ErrInvalidQuantity indicates a zero, negative, or non-finite quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")

	// ErrInvalidPrice indicates a zero, negative, or non-finite price.
	ErrInvalidPrice = errors.New("price must be a positive number")

	// ErrInsufficientBalance indicates that a buy would make the cash balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance for this purchase")

	// ErrInsufficientShares indicates that a sell exceeds the asset's held quantity.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrDuplicateSymbol indicates that a new asset's symbol already exists in
	// the portfolio. Depleted (zero-quantity) assets count as existing.
	ErrDuplicateSymbol = errors.New("asset symbol already exists in portfolio")

	// ErrNothingToSell indicates a sell-all on an asset whose quantity is already zero.
	ErrNothingToSell = errors.New("no shares to sell for this asset")

	// ErrMalformedImport indicates that an import document does not match the
	// expected backup format.
	ErrMalformedImport = errors.New("malformed import document")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrieveAssets       = errors.New("failed to retrieve assets")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveSettings     = errors.New("failed to retrieve settings")
	ErrFailedToGetSummary           = errors.New("failed to get portfolio summary")
	ErrFailedToExportData           = errors.New("failed to export portfolio data")
	ErrFailedToImportData           = errors.New("failed to import portfolio data")

	// ErrQuoteUnavailable indicates a best-effort price lookup returned no
	// usable data. Callers must treat this as "ask the user", never as zero.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

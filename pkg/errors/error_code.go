package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidTrade         ErrorCode = 103
	ErrCodeInvalidQuantity      ErrorCode = 104
	ErrCodeInvalidPrice         ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106

	// Market data errors (200-299)
	ErrCodeQuoteNotFound         ErrorCode = 200
	ErrCodeMarketDataUnavailable ErrorCode = 201
	ErrCodeNewsUnavailable       ErrorCode = 202
	ErrCodeUnknownSymbol         ErrorCode = 203

	// Trading errors (300-399)
	ErrCodeOrderFailed          ErrorCode = 300
	ErrCodePositionNotFound     ErrorCode = 301
	ErrCodeInsufficientCash     ErrorCode = 302
	ErrCodeInsufficientPosition ErrorCode = 303
	ErrCodeTradeAlreadySettled  ErrorCode = 304

	// Risk errors (400-499)
	ErrCodeDailyLossLimit ErrorCode = 400
	ErrCodeDrawdownLimit  ErrorCode = 401

	// Loop errors (500-599)
	ErrCodeCycleFailed    ErrorCode = 500
	ErrCodeShutdownFailed ErrorCode = 501
	ErrCodeNotRunning     ErrorCode = 502
)

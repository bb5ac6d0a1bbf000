package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidQuantity      ErrorCode = 104
	ErrCodeInvalidPrice         ErrorCode = 105

	// Data errors (200-299)
	ErrCodeDataLoadFailed     ErrorCode = 200
	ErrCodeDataQueryFailed    ErrorCode = 201
	ErrCodeNoDataFound        ErrorCode = 202
	ErrCodeMissingTimestamp   ErrorCode = 203
	ErrCodeUnsupportedFormat  ErrorCode = 204
	ErrCodePriceNotAvailable  ErrorCode = 205
	ErrCodeMalformedTimestamp ErrorCode = 206

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyRuntimeError ErrorCode = 400
	ErrCodeVersionMismatch      ErrorCode = 401

	// Risk errors (500-599)
	ErrCodePositionLimitExceeded ErrorCode = 500
	ErrCodeInsufficientMargin    ErrorCode = 501
	ErrCodeDrawdownExceeded      ErrorCode = 502

	// Backtest errors (600-699)
	ErrCodeNoDataLoaded   ErrorCode = 600
	ErrCodeEmptyDateRange ErrorCode = 601
	ErrCodeEngineState    ErrorCode = 602
)

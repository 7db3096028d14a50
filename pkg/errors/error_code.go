package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// ErrCodeUnknown represents a general unknown error (1-99 range).
	ErrCodeUnknown ErrorCode = 1

	// Config errors (100-199 range): duplicate/unknown schema name, bad interval,
	// non-positive numeric configuration value. Fatal to the call that caused it.
	ErrCodeConfigDuplicateName   ErrorCode = 100
	ErrCodeConfigUnknownName     ErrorCode = 101
	ErrCodeConfigInvalidValue    ErrorCode = 102
	ErrCodeConfigInvalidInterval ErrorCode = 103

	// Validation errors (200-299 range): a SignalDto failed the signal
	// validation rules. Logged, emitted on the error topic, signal dropped.
	ErrCodeValidationFailed        ErrorCode = 200
	ErrCodeValidationMissingField  ErrorCode = 201
	ErrCodeValidationBadPrice      ErrorCode = 202
	ErrCodeValidationBadLifetime   ErrorCode = 203
	ErrCodeValidationTPDistance    ErrorCode = 204
	ErrCodeValidationSLDistance    ErrorCode = 205
	ErrCodeValidationAlreadyPassed ErrorCode = 206

	// Data errors (300-399 range): empty candle response, undefined VWAP,
	// any error surfaced from an exchange callback.
	ErrCodeDataNoCandles ErrorCode = 300
	ErrCodeDataNoVWAP    ErrorCode = 301
	ErrCodeDataExchange  ErrorCode = 302

	// Persistence errors (400-499 range): read/write/rename failure.
	ErrCodePersistenceWrite  ErrorCode = 400
	ErrCodePersistenceRead   ErrorCode = 401
	ErrCodePersistenceDelete ErrorCode = 402

	// Risk errors (500-599 range): risk profile lookup/evaluation failures that
	// are not a plain rejection (rejections are carried as values, not errors).
	ErrCodeRiskUnknownProfile ErrorCode = 500
	ErrCodeRiskValidatorError ErrorCode = 501

	// Callback errors (600-699 range): a strategy/exchange/risk callback
	// returned an error that must be converted before reaching the event bus.
	ErrCodeCallbackFailed ErrorCode = 600

	// Background task errors (700-799 range): a background run died unrecoverably.
	ErrCodeFatalBackground ErrorCode = 700
)

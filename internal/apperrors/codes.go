package apperrors

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeEmailExists       ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUserNotVerified   ErrorCode = "USER_NOT_VERIFIED"
	CodeUserBlocked       ErrorCode = "USER_BLOCKED"
	CodeWeakPassword      ErrorCode = "WEAK_PASSWORD"
	CodeCannotModifySelf  ErrorCode = "CANNOT_MODIFY_SELF"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeFileTooLarge      ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidFileType   ErrorCode = "INVALID_FILE_TYPE"
	CodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	CodeEmailSendFailed   ErrorCode = "EMAIL_SEND_FAILED"
	CodeAIUnavailable     ErrorCode = "AI_UNAVAILABLE"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest        ErrorCode = "BAD_REQUEST"
)

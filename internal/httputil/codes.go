package httputil

// Machine-readable error codes returned alongside error messages.
// Clients should branch on these, not on message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
	CodeMissingAuth       = "MISSING_AUTH"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"

	CodeTitleRequired = "TITLE_REQUIRED"
	CodeTitleTooLong  = "TITLE_TOO_LONG"
	CodeInvalidTaskID = "INVALID_TASK_ID"
	CodeTaskNotFound  = "TASK_NOT_FOUND"

	CodeInternalError = "INTERNAL_ERROR"
)

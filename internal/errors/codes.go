package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// Frontends map these codes onto their own messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token past expiry
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or bad signature
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // wrong reset code
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"        // reset code past expiry

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad field format
	ValidationTooShort      = "VALIDATION_TOO_SHORT"      // length policy violated
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // record absent
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // already present

	// ==================== Mail (MAIL_) ====================
	MailAuthFailed  = "MAIL_AUTH_FAILED"  // SMTP credentials rejected
	MailUnreachable = "MAIL_UNREACHABLE"  // SMTP server unreachable
	MailSendFailed  = "MAIL_SEND_FAILED"  // unclassified delivery failure

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // store failure
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // missing configuration
)

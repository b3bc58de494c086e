package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"

	// Authentication
	CodeMissingIDToken     = "MISSING_ID_TOKEN"
	CodeInvalidIDToken     = "INVALID_ID_TOKEN"
	CodeSessionCreation    = "SESSION_CREATION_FAILED"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidSession     = "INVALID_SESSION"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeIdentityKeysFailed = "IDENTITY_KEYS_UNAVAILABLE"

	// Data access
	CodeNotFound        = "NOT_FOUND"
	CodeOperationFailed = "OPERATION_FAILED"

	// Photos
	CodePhotoTooLarge      = "PHOTO_TOO_LARGE"
	CodePhotoUnsupported   = "PHOTO_UNSUPPORTED_TYPE"
	CodePhotoUnavailable   = "PHOTO_UPLOADS_UNAVAILABLE"
	CodeGeocodeUnavailable = "GEOCODE_UNAVAILABLE"
	CodeGeocodeNoResult    = "GEOCODE_NO_RESULT"
	CodeInvalidCoordinates = "INVALID_COORDINATES"
)

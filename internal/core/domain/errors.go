package domain

import "errors"

var (
	ErrUnknownEntityKind    = errors.New("unknown entity kind")
	ErrSessionNotFound      = errors.New("draft session not found")
	ErrSessionConflict      = errors.New("draft session was modified concurrently")
	ErrPropertyNotFound     = errors.New("property not found in draft")
	ErrImageNotFound        = errors.New("image not found")
	ErrUnknownPropertyType  = errors.New("unknown property type")
	ErrUnknownPropertyField = errors.New("unknown property field")
	ErrFieldNotApplicable   = errors.New("field is not applicable to this property type")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrReservedField        = errors.New("field name is reserved")
	ErrPropertiesNotAllowed = errors.New("entity kind has no properties")
	ErrUploadsPending       = errors.New("image uploads are still in flight")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrNoFiles              = errors.New("no files provided")

	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidRecord    = errors.New("record payload is invalid")
	ErrPersistenceAPI   = errors.New("persistence api request failed")
	ErrUploadFailed     = errors.New("image upload failed")
	ErrInvalidMediaFile = errors.New("invalid media file")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrTokenInvalid       = errors.New("invalid jwt token")
	ErrForbidden          = errors.New("admin role required")
)

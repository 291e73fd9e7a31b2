package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrDeviceMismatch      = errors.New("request device does not match the access token")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrRefreshRejected         = errors.New("refresh token is invalid or expired")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

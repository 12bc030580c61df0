package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrOutsideUploadRoot  = errors.New("url is outside the upload root")
	ErrInvalidPath        = errors.New("invalid media path")
	ErrStorageUnavailable = errors.New("storage client is not configured")
	ErrStorageOperation   = errors.New("storage operation failed")
	ErrInfectedFile       = errors.New("file failed malware scan")
	ErrInvalidPayload     = errors.New("invalid hook payload")
)

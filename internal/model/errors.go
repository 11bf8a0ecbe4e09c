package model

import "errors"

// Lookup errors shared by the storage layer and its callers
var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrOutputNotFound = errors.New("output not found")
)

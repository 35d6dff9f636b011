package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUndefinedColumn = errors.New("undefined column")
	ErrInvalidInput    = errors.New("invalid input")
)

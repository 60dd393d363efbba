package usecase

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrStoreNotFound = errors.New("store not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrInternal      = errors.New("internal error")
)

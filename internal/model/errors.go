package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrExists       = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

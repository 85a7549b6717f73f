package domain

import "errors"

// Error kinds shared by all layers; layer-specific errors wrap them so the
// HTTP layer can choose a status code with errors.Is
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

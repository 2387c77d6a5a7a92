package repositories

import "errors"

// Sentinel errors shared by the repositories. Handlers map these onto HTTP
// statuses; gorm.ErrRecordNotFound is translated to ErrNotFound at the
// repository boundary so callers deal with one vocabulary.
var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("operation not permitted")
)

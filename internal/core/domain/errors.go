package domain

import "errors"

// ErrDuplicateKey is returned by stores when a unique constraint rejects an insert.
var ErrDuplicateKey = errors.New("duplicate key")

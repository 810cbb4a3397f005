package folders

import (
	"errors"
	"fmt"
)

// ErrPasswordMismatch reports a failed member password check against a folder.
var ErrPasswordMismatch = errors.New("folders: password mismatch")

// NotFoundError captures a missing folder lookup by id or share key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("folders: folder %s not found", e.Key)
}

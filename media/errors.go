package media

import "fmt"

// NotFoundError captures a missing media lookup.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("media: asset %s not found", e.Key)
}

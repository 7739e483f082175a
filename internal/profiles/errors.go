package profiles

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a profile ID is not registered
type NotFoundError struct {
	ID    string
	Valid []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown profile %q (valid profiles: %s)", e.ID, strings.Join(e.Valid, ", "))
}

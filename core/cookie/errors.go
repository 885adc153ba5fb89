package cookie

import (
	"errors"
	"fmt"
)

// ErrInvalidCookie indicates the cookie could not be serialized, typically
// because the name or value contains bytes forbidden by RFC 6265.
var ErrInvalidCookie = errors.New("cookie: invalid cookie")

// ErrCookieTooLarge indicates the serialized cookie exceeds the maximum
// allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

// Error implements the error interface.
func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}

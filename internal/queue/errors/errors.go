package errors

import "errors"

var ErrTokenNotFound = errors.New("token not found")

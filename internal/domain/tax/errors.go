package tax

import "errors"

var ErrEmptyPolicy = errors.New("tax policy has no brackets")

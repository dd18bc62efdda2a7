package commission

import "errors"

var (
	ErrRuleNotFound      = errors.New("no active commission rule for order type")
	ErrRuleAlreadyClosed = errors.New("commission rule effective window already closed")
)

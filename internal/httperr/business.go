package httperr

import "errors"

// BusinessError is an expected rule violation surfaced by a use case, e.g.
// "already_checked_in" or "too_soon". The code doubles as the HTTP error
// code clients branch on; it is never a free-form message.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err is a BusinessError carrying code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

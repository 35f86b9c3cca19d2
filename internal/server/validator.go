package server

import "github.com/go-playground/validator/v10"

// requestValidator plugs go-playground/validator into echo's Validator
// interface so handlers can call c.Validate on bound requests.
type requestValidator struct {
	validate *validator.Validate
}

func newValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

package rjsconfig

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// fieldValidator wraps go-playground/validator/v10, grounded on the
// toolkit's pkg/config.ConfigValidator: struct-tag checks for the numeric
// ranges and verb enum §10.3 requires of the decoded route configuration.
type fieldValidator struct {
	validate *validator.Validate
}

func newFieldValidator() *fieldValidator {
	return &fieldValidator{validate: validator.New()}
}

type portShape struct {
	Port int `validate:"gte=1,lte=65535"`
}

func (fv *fieldValidator) validatePort(port int) error {
	if err := fv.validate.Struct(portShape{Port: port}); err != nil {
		return fmt.Errorf("port %d out of range 1-65535", port)
	}
	return nil
}

type verbShape struct {
	Verb string `validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
}

func (fv *fieldValidator) validateVerb(verb string) error {
	if err := fv.validate.Struct(verbShape{Verb: verb}); err != nil {
		return fmt.Errorf("unknown method verb %q", verb)
	}
	return nil
}

type statusShape struct {
	Status int `validate:"gte=100,lte=599"`
}

func (fv *fieldValidator) validateStatus(status int) error {
	if err := fv.validate.Struct(statusShape{Status: status}); err != nil {
		return fmt.Errorf("status %d out of range 100-599", status)
	}
	return nil
}

package commands

import (
	"fmt"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateInput(name string, msg any) error {
	if err := validate.Struct(msg); err != nil {
		return fmt.Errorf("%s command: invalid input: %w", name, err)
	}
	return nil
}

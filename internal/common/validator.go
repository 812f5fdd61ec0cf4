package common

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// ValidateStruct checks the `validate` tags of i.
func ValidateStruct(i interface{}) error {
	structValidatorOnce.Do(func() {
		structValidator = validator.New()
	})
	if err := structValidator.Struct(i); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

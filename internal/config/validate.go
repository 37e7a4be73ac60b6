package config

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks cfg against its struct tags (required fields, enum
// membership, numeric ranges) after defaults have been applied.
func Validate(cfg *Config) error {
	return validate.Struct(cfg)
}

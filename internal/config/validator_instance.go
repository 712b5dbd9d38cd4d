package config

import (
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	itemTokenPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]*$`)
	presetNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("abs_path", func(fl validator.FieldLevel) bool {
			return isAbsPath(fl.Field().String())
		})

		_ = v.RegisterValidation("item_token", func(fl validator.FieldLevel) bool {
			return itemTokenPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("preset_name", func(fl validator.FieldLevel) bool {
			return presetNamePattern.MatchString(strings.ToLower(fl.Field().String()))
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// isAbsPath performs syntactic validation of absolute paths without filesystem access.
func isAbsPath(p string) bool {
	if p == "" || strings.Contains(p, "\x00") {
		return false
	}
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return path.Clean(p) == strings.TrimSuffix(p, "/") || p == "/"
}

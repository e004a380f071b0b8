package handler

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxGameIDLength = 64

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding rules used by request types.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		registerErr = v.RegisterValidation("gameid", validateGameID)
	})
	return registerErr
}

// validateGameID accepts a non-blank account id without inner whitespace
func validateGameID(fl validator.FieldLevel) bool {
	return ValidGameID(fl.Field().String())
}

// ValidGameID reports whether s is a plausible game account id
func ValidGameID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxGameIDLength {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

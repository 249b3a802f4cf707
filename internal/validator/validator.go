package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

var format = playground.New()

// UsernameRX allows the characters a username may contain in a profile URL.
var UsernameRX = regexp.MustCompile(`^[\w.+-]+$`)

type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError keeps the first message recorded for key.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func (v *Validator) CheckNotBlank(value, key, message string) {
	v.Check(strings.TrimSpace(value) != "", key, message)
}

func (v *Validator) CheckMaxLength(value string, n int, key string) {
	v.Check(utf8.RuneCountInString(value) <= n, key, fmt.Sprintf("must not be more than %d characters long", n))
}

func (v *Validator) CheckEmail(value, key, message string) {
	v.Check(format.Var(value, "email") == nil, key, message)
}

func (v *Validator) CheckMatch(value string, rx *regexp.Regexp, key, message string) {
	v.Check(rx.MatchString(value), key, message)
}

package core

import (
	"strings"

	"github.com/siahsang/conduit/internal/validator"
)

type ArticleInput struct {
	Title       string
	Description string
	Body        string
}

func (in *ArticleInput) Validate(v *validator.Validator) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	v.CheckNotBlank(in.Title, "title", "must be provided")
	v.CheckMaxLength(in.Title, 255, "title")
	v.CheckNotBlank(in.Description, "description", "must be provided")
	v.CheckMaxLength(in.Description, 2000, "description")
	v.CheckNotBlank(in.Body, "body", "must be provided")
}

type CommentInput struct {
	Body string
}

func (in *CommentInput) Validate(v *validator.Validator) {
	v.CheckNotBlank(in.Body, "body", "must be provided")
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

func (in *SignupInput) Validate(v *validator.Validator) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	checkUsername(v, in.Username)
	checkEmail(v, in.Email)
	checkPassword(v, in.Password)
}

type LoginInput struct {
	Email    string
	Password string
}

func (in *LoginInput) Validate(v *validator.Validator) {
	in.Email = strings.TrimSpace(in.Email)

	checkEmail(v, in.Email)
	v.CheckNotBlank(in.Password, "password", "must be provided")
}

// SettingsInput replaces the account and profile fields. An empty Password
// keeps the current one.
type SettingsInput struct {
	Image    string
	Bio      string
	Username string
	Email    string
	Password string
}

func (in *SettingsInput) Validate(v *validator.Validator) {
	in.Image = strings.TrimSpace(in.Image)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	v.CheckMaxLength(in.Image, 2048, "image")
	checkUsername(v, in.Username)
	checkEmail(v, in.Email)
	if in.Password != "" {
		checkPassword(v, in.Password)
	}
}

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "must be provided")
	v.CheckEmail(email, "email", "must be a valid email address")
}

func checkUsername(v *validator.Validator, username string) {
	v.CheckNotBlank(username, "username", "must be provided")
	v.CheckMaxLength(username, 150, "username")
	v.CheckMatch(username, validator.UsernameRX, "username", "may contain only letters, digits and . + - _")
}

func checkPassword(v *validator.Validator, password string) {
	v.CheckNotBlank(password, "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

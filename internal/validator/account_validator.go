package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"fooddash/internal/domain/model"
	"fooddash/internal/usecase"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type accountValidator struct{}

// Usecaseは interface を依存注入
func NewAccountValidator() usecase.AccountValidator {
	return &accountValidator{}
}

// ログインの入力を検証
func (v *accountValidator) ValidateLogin(ctx context.Context, in model.Credentials) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return invalid("email and password are required")
	}
	if !isEmailLike(in.Email) {
		return invalid("invalid email")
	}
	return nil
}

func (v *accountValidator) ValidateCustomerSignup(ctx context.Context, in model.CustomerSignup) error {
	if err := required(map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
	}); err != nil {
		return err
	}
	return validateSignupCredentials(in.Email, in.Password)
}

func (v *accountValidator) ValidateDasherSignup(ctx context.Context, in model.DasherSignup) error {
	if err := required(map[string]string{
		"firstName":     in.FirstName,
		"lastName":      in.LastName,
		"licenseNumber": in.LicenseNumber,
	}); err != nil {
		return err
	}
	return validateSignupCredentials(in.Email, in.Password)
}

func (v *accountValidator) ValidateRestaurantSignup(ctx context.Context, in model.RestaurantSignup) error {
	if err := required(map[string]string{
		"name":    in.Name,
		"address": in.Address,
	}); err != nil {
		return err
	}
	return validateSignupCredentials(in.Email, in.Password)
}

func validateSignupCredentials(email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return invalid("email and password are required")
	}
	if !isEmailLike(email) {
		return invalid("invalid email")
	}
	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

// 必須項目。メッセージを安定させるためキー順に見る
func required(fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(fields[k]) == "" {
			return invalid(k + " is required")
		}
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}

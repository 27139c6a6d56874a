package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// ParseDecimal parses a money amount as written in spreadsheets: thousands
// separators and surrounding whitespace are tolerated, anything else is not.
func ParseDecimal(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty decimal value")
	}
	return decimal.NewFromString(cleaned)
}

func ValidatePhoneNumber(phone string) (string, error) {
	num, err := libphonenumber.Parse(phone, "MM")
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func ProcessValidationErrors(err error) []string {
	var messages []string
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			switch fieldErr.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
			case "min":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param()))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of [%s]", fieldErr.Field(), fieldErr.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", fieldErr.Field()))
			}
		}
	} else {
		messages = append(messages, err.Error())
	}
	return messages
}

func GenerateUniqueFilename(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	return fmt.Sprintf("%s_%s_%s%s", base, time.Now().Format("20060102T150405"), uuid.NewString()[:8], ext)
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func UniqueSlice[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func DereferencePtr[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}

package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxEventNameLength   = 255
	MaxChoiceLength      = 255
	MaxDescriptionLength = 255
	DefaultLeaderboard   = 10
)

// ValidateAmount checks that amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateAmountLimit checks 0 < amount <= limit. A non-positive limit disables the cap.
func ValidateAmountLimit(amount, limit decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if limit.IsPositive() && amount.GreaterThan(limit) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, limit)
	}
	return nil
}

// ValidateEventName validates an event question.
func ValidateEventName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEventName)
	}
	if utf8.RuneCountInString(name) > MaxEventNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrMessageTooLong, MaxEventNameLength)
	}
	return nil
}

// ValidateChoiceDescription validates the free text of one event side.
func ValidateChoiceDescription(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidChoice)
	}
	if utf8.RuneCountInString(desc) > MaxChoiceLength {
		return fmt.Errorf("%w: choice exceeds %d characters", ErrMessageTooLong, MaxChoiceLength)
	}
	return nil
}

// ValidateMessage rejects empty text and text longer than max bytes.
func ValidateMessage(msg string, max int) error {
	if strings.TrimSpace(msg) == "" {
		return ErrEmptyMessage
	}
	if len(msg) > max {
		return fmt.Errorf("%w: limit is %d", ErrMessageTooLong, max)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrAlreadySubmitted = errors.New("payment intent already used for an entry")
	ErrPersistence      = errors.New("persistence error")

	// Ownership check on delete.
	ErrorUnauthorized = errors.New("unauthorized")

	// Input errors. All of them wrap ErrInvalidInput.
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingField     = fmt.Errorf("%w: missing field", ErrInvalidInput)
	ErrInvalidCategory  = fmt.Errorf("%w: invalid category", ErrInvalidInput)
	ErrInvalidEntryType = fmt.Errorf("%w: invalid entry type", ErrInvalidInput)

	// Entry content rules.
	ErrValidation = errors.New("validation failed")

	// Payment-side errors.
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentIncomplete      = errors.New("payment not completed")
	ErrPaymentMismatch        = errors.New("payment does not match entry")
	ErrCorruptPaymentMetadata = errors.New("corrupt payment metadata")
	ErrPaymentProvider        = errors.New("payment provider error")
	ErrWebhookSignature       = errors.New("invalid webhook signature")

	// Dependencies left unconfigured at startup.
	ErrStoreNotConfigured    = errors.New("entry store is not configured")
	ErrPaymentsNotConfigured = errors.New("payments are not configured")
)

// PaymentIncompleteError reports the status of an intent that has not succeeded.
type PaymentIncompleteError struct {
	Status string
}

func (e *PaymentIncompleteError) Error() string {
	return ErrPaymentIncomplete.Error() + ": " + e.Status
}

func (e *PaymentIncompleteError) Unwrap() error {
	return ErrPaymentIncomplete
}

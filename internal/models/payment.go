package models

import (
	"fmt"
	"time"
)

// PaymentRecord is a card used on the checkout payment form.
type PaymentRecord struct {
	NameOnCard  string `json:"name_on_card" validate:"required"`
	CardNumber  string `json:"card_number" validate:"required,credit_card"`
	CVC         string `json:"cvc" validate:"numeric,min=3,max=4"`
	ExpiryMonth int    `json:"expiry_month" validate:"min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required"`
}

// Validate checks field syntax and that the card has not expired as of now.
func (p PaymentRecord) Validate(now time.Time) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid payment record: %w", err)
	}
	if p.ExpiryYear < now.Year() {
		return fmt.Errorf("invalid payment record: %w", ErrCardExpired)
	}
	return nil
}

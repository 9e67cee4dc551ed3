package models

import (
	"testing"
	"time"
)

func validUser() UserRecord {
	return UserRecord{
		DisplayName:  "Test User",
		Email:        "test.user@example.com",
		Password:     "password123",
		Title:        TitleMr,
		BirthDay:     1,
		BirthMonth:   time.January,
		BirthYear:    1990,
		FirstName:    "Test",
		LastName:     "User",
		Company:      "Test Company",
		Address1:     "123 Test Street",
		Address2:     "Apt 456",
		Country:      DefaultCountry,
		State:        "California",
		City:         "Los Angeles",
		Zipcode:      "90001",
		MobileNumber: "1234567890",
	}
}

func TestUserRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *UserRecord)
		wantErr bool
	}{
		{"valid user", func(u *UserRecord) {}, false},
		{"bad email", func(u *UserRecord) { u.Email = "not-an-email" }, true},
		{"unknown title", func(u *UserRecord) { u.Title = "Dr" }, true},
		{"short zipcode", func(u *UserRecord) { u.Zipcode = "9000" }, true},
		{"letters in zipcode", func(u *UserRecord) { u.Zipcode = "9000A" }, true},
		{"letters in phone", func(u *UserRecord) { u.MobileNumber = "555-CALL-NOW" }, true},
		{"month out of range", func(u *UserRecord) { u.BirthMonth = 13 }, true},
		{"day zero", func(u *UserRecord) { u.BirthDay = 0 }, true},
		{"missing country", func(u *UserRecord) { u.Country = "" }, true},
		// the form does not cross-check dates
		{"february 31st", func(u *UserRecord) { u.BirthDay = 31; u.BirthMonth = time.February }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)

			err := u.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentRecord_Validate(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		record  PaymentRecord
		wantErr bool
	}{
		{
			name:   "valid card",
			record: PaymentRecord{NameOnCard: "Test User", CardNumber: "4111111111111111", CVC: "737", ExpiryMonth: 3, ExpiryYear: 2030},
		},
		{
			name:    "fails luhn check",
			record:  PaymentRecord{NameOnCard: "Test User", CardNumber: "4111111111111112", CVC: "737", ExpiryMonth: 3, ExpiryYear: 2030},
			wantErr: true,
		},
		{
			name:    "expired",
			record:  PaymentRecord{NameOnCard: "Test User", CardNumber: "4111111111111111", CVC: "737", ExpiryMonth: 3, ExpiryYear: 2025},
			wantErr: true,
		},
		{
			name:   "expires this year",
			record: PaymentRecord{NameOnCard: "Test User", CardNumber: "4111111111111111", CVC: "737", ExpiryMonth: 12, ExpiryYear: 2026},
		},
		{
			name:    "short cvc",
			record:  PaymentRecord{NameOnCard: "Test User", CardNumber: "4111111111111111", CVC: "73", ExpiryMonth: 3, ExpiryYear: 2030},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate(now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

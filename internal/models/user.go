package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Title is the honorific offered by the signup form.
type Title string

// Titles accepted by the signup form
const (
	TitleMr   Title = "Mr"
	TitleMrs  Title = "Mrs"
	TitleMiss Title = "Miss"
)

// Titles lists every Title in form order.
var Titles = []Title{TitleMr, TitleMrs, TitleMiss}

// DefaultCountry keeps the address form's country dropdown deterministic.
const DefaultCountry = "United States"

var validate = validator.New(validator.WithRequiredStructEnabled())

// UserRecord holds everything the signup flow and the account API need to
// create one user.
type UserRecord struct {
	DisplayName  string     `json:"name" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	Title        Title      `json:"title" validate:"oneof=Mr Mrs Miss"`
	BirthDay     int        `json:"birth_date" validate:"min=1,max=31"`
	BirthMonth   time.Month `json:"birth_month" validate:"min=1,max=12"`
	BirthYear    int        `json:"birth_year" validate:"min=1900"`
	FirstName    string     `json:"firstname" validate:"required"`
	LastName     string     `json:"lastname" validate:"required"`
	Company      string     `json:"company"`
	Address1     string     `json:"address1" validate:"required"`
	Address2     string     `json:"address2"`
	Country      string     `json:"country" validate:"required"`
	State        string     `json:"state" validate:"required"`
	City         string     `json:"city" validate:"required"`
	Zipcode      string     `json:"zipcode" validate:"numeric,len=5"`
	MobileNumber string     `json:"mobile_number" validate:"numeric,min=7,max=15"`
}

// Validate checks that every field is syntactically valid for the signup form.
func (u UserRecord) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("invalid user record: %w", err)
	}
	return nil
}

// FullName returns "First Last".
func (u UserRecord) FullName() string {
	return u.FirstName + " " + u.LastName
}

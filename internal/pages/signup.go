package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/models"
)

// SignupPage is the account information form reached after the first
// signup step.
type SignupPage struct {
	p Primitives

	AccountInfoTitle      browser.Selector
	TitleMr               browser.Selector
	TitleMrs              browser.Selector
	Name                  browser.Selector
	Email                 browser.Selector
	Password              browser.Selector
	DayOfBirth            browser.Selector
	MonthOfBirth          browser.Selector
	YearOfBirth           browser.Selector
	NewsletterCheckbox    browser.Selector
	SpecialOffersCheckbox browser.Selector
	FirstName             browser.Selector
	LastName              browser.Selector
	Company               browser.Selector
	Address1              browser.Selector
	Address2              browser.Selector
	Country               browser.Selector
	State                 browser.Selector
	City                  browser.Selector
	Zipcode               browser.Selector
	MobileNumber          browser.Selector
	CreateAccountButton   browser.Selector
	AccountCreatedMessage browser.Selector
	ContinueButton        browser.Selector
	ExistingEmailError    browser.Selector
}

// NewSignupPage creates the signup form representation.
func NewSignupPage(p Primitives) *SignupPage {
	return &SignupPage{
		p:                     p,
		AccountInfoTitle:      browser.CSS("h2.title").WithText("Enter Account Information"),
		TitleMr:               browser.CSS("#id_gender1"),
		TitleMrs:              browser.CSS("#id_gender2"),
		Name:                  browser.CSS("#name"),
		Email:                 browser.CSS("#email"),
		Password:              browser.CSS("#password"),
		DayOfBirth:            browser.CSS("#days"),
		MonthOfBirth:          browser.CSS("#months"),
		YearOfBirth:           browser.CSS("#years"),
		NewsletterCheckbox:    browser.CSS("#newsletter"),
		SpecialOffersCheckbox: browser.CSS("#optin"),
		FirstName:             browser.CSS("#first_name"),
		LastName:              browser.CSS("#last_name"),
		Company:               browser.CSS("#company"),
		Address1:              browser.CSS("#address1"),
		Address2:              browser.CSS("#address2"),
		Country:               browser.CSS("#country"),
		State:                 browser.CSS("#state"),
		City:                  browser.CSS("#city"),
		Zipcode:               browser.CSS("#zipcode"),
		MobileNumber:          browser.CSS("#mobile_number"),
		CreateAccountButton:   browser.DataQA("create-account"),
		AccountCreatedMessage: browser.CSS("h2.title").WithText("Account Created!"),
		ContinueButton:        browser.DataQA("continue-button"),
		ExistingEmailError:    browser.CSS(".signup-form p").WithText("Email Address already exist!"),
	}
}

type formStep struct {
	name string
	run  func(ctx context.Context) error
}

// FillAccountInformation fills every field of the form from user and submits
// it. The form heading must be visible and the name and email carried over
// from the first step must match user. Day, month and year are selected
// independently; the site decides whether the date is valid.
func (s *SignupPage) FillAccountInformation(ctx context.Context, user models.UserRecord) error {
	title := s.TitleMrs
	if user.Title == models.TitleMr {
		title = s.TitleMr
	}

	fill := func(sel browser.Selector, v string) func(context.Context) error {
		return func(ctx context.Context) error { return s.p.Fill(ctx, sel, v) }
	}
	choose := func(sel browser.Selector, v string) func(context.Context) error {
		return func(ctx context.Context) error { return s.p.Select(ctx, sel, v) }
	}
	check := func(sel browser.Selector) func(context.Context) error {
		return func(ctx context.Context) error { return s.p.Check(ctx, sel) }
	}
	expectValue := func(sel browser.Selector, v string) func(context.Context) error {
		return func(ctx context.Context) error { return s.p.ExpectValue(ctx, sel, v) }
	}

	steps := []formStep{
		{"heading", func(ctx context.Context) error { return s.p.ExpectVisible(ctx, s.AccountInfoTitle) }},
		{"title", check(title)},
		{"prefilled name", expectValue(s.Name, user.DisplayName)},
		{"prefilled email", expectValue(s.Email, user.Email)},
		{"password", fill(s.Password, user.Password)},
		{"birth day", choose(s.DayOfBirth, strconv.Itoa(user.BirthDay))},
		{"birth month", choose(s.MonthOfBirth, strconv.Itoa(int(user.BirthMonth)))},
		{"birth year", choose(s.YearOfBirth, strconv.Itoa(user.BirthYear))},
		{"newsletter", check(s.NewsletterCheckbox)},
		{"special offers", check(s.SpecialOffersCheckbox)},
		{"first name", fill(s.FirstName, user.FirstName)},
		{"last name", fill(s.LastName, user.LastName)},
		{"company", fill(s.Company, user.Company)},
		{"address", fill(s.Address1, user.Address1)},
		{"address line 2", fill(s.Address2, user.Address2)},
		{"country", choose(s.Country, user.Country)},
		{"state", fill(s.State, user.State)},
		{"city", fill(s.City, user.City)},
		{"zipcode", fill(s.Zipcode, user.Zipcode)},
		{"mobile number", fill(s.MobileNumber, user.MobileNumber)},
		{"submit", func(ctx context.Context) error { return s.p.Click(ctx, s.CreateAccountButton) }},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("account information %s: %w", step.name, err)
		}
	}
	return nil
}

// IsAccountCreatedMessageVisible checks once for the creation confirmation.
func (s *SignupPage) IsAccountCreatedMessageVisible(ctx context.Context) (bool, error) {
	return s.p.IsVisible(ctx, s.AccountCreatedMessage)
}

// ContinueAfterAccountCreation dismisses the creation confirmation.
func (s *SignupPage) ContinueAfterAccountCreation(ctx context.Context) error {
	return s.p.Click(ctx, s.ContinueButton)
}

// IsEmailExistsErrorVisible checks once for the duplicate email message.
func (s *SignupPage) IsEmailExistsErrorVisible(ctx context.Context) (bool, error) {
	return s.p.IsVisible(ctx, s.ExistingEmailError)
}

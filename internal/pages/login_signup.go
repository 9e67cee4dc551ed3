package pages

import (
	"context"

	"github.com/qaforge/exercise-e2e/internal/browser"
)

// LoginSignupPage is /login, which holds both the login and the signup form.
type LoginSignupPage struct {
	p Primitives

	SignupNameInput    browser.Selector
	SignupEmailInput   browser.Selector
	SignupButton       browser.Selector
	LoginEmailInput    browser.Selector
	LoginPasswordInput browser.Selector
	LoginButton        browser.Selector
	LoginForm          browser.Selector
	SignupForm         browser.Selector
	ErrorMessage       browser.Selector
	NewUserSignupText  browser.Selector
	LoginToAccountText browser.Selector
	LogoutLink         browser.Selector
	DeleteAccountLink  browser.Selector
}

// NewLoginSignupPage creates the login/signup page representation.
func NewLoginSignupPage(p Primitives) *LoginSignupPage {
	return &LoginSignupPage{
		p:                  p,
		SignupNameInput:    browser.DataQA("signup-name"),
		SignupEmailInput:   browser.DataQA("signup-email"),
		SignupButton:       browser.DataQA("signup-button"),
		LoginEmailInput:    browser.DataQA("login-email"),
		LoginPasswordInput: browser.DataQA("login-password"),
		LoginButton:        browser.DataQA("login-button"),
		LoginForm:          browser.CSS(".login-form"),
		SignupForm:         browser.CSS(".signup-form"),
		ErrorMessage:       browser.CSS(".login-form p").WithText("Your email or password is incorrect!"),
		NewUserSignupText:  browser.CSS("h2").WithText("New User Signup!"),
		LoginToAccountText: browser.CSS("h2").WithText("Login to your account"),
		LogoutLink:         browser.CSS("a").WithText(" Logout"),
		DeleteAccountLink:  browser.CSS("a").WithText(" Delete Account"),
	}
}

// GoToLoginSignupPage opens /login and waits for both form headings.
func (l *LoginSignupPage) GoToLoginSignupPage(ctx context.Context) error {
	if err := l.p.Navigate(ctx, "/login"); err != nil {
		return err
	}
	if err := l.p.ExpectVisible(ctx, l.NewUserSignupText); err != nil {
		return err
	}
	return l.p.ExpectVisible(ctx, l.LoginToAccountText)
}

// SignupWithNameAndEmail submits the first signup step.
func (l *LoginSignupPage) SignupWithNameAndEmail(ctx context.Context, name, email string) error {
	if err := l.p.Fill(ctx, l.SignupNameInput, name); err != nil {
		return err
	}
	if err := l.p.Fill(ctx, l.SignupEmailInput, email); err != nil {
		return err
	}
	return l.p.Click(ctx, l.SignupButton)
}

// Login submits the login form.
func (l *LoginSignupPage) Login(ctx context.Context, email, password string) error {
	if err := l.p.Fill(ctx, l.LoginEmailInput, email); err != nil {
		return err
	}
	if err := l.p.Fill(ctx, l.LoginPasswordInput, password); err != nil {
		return err
	}
	return l.p.Click(ctx, l.LoginButton)
}

// IsErrorMessageDisplayed checks once for the bad-credentials message.
func (l *LoginSignupPage) IsErrorMessageDisplayed(ctx context.Context) (bool, error) {
	return l.p.IsVisible(ctx, l.ErrorMessage)
}

// Logout follows the logout link.
func (l *LoginSignupPage) Logout(ctx context.Context) error {
	return l.p.Click(ctx, l.LogoutLink)
}

// DeleteAccount follows the delete link without confirming.
func (l *LoginSignupPage) DeleteAccount(ctx context.Context) error {
	return l.p.Click(ctx, l.DeleteAccountLink)
}

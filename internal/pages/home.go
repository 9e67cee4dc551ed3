package pages

import (
	"context"

	"github.com/qaforge/exercise-e2e/internal/browser"
)

// HomePage is the landing page and its navigation bar, which every page shares.
type HomePage struct {
	p Primitives

	HomeLink              browser.Selector
	ProductsLink          browser.Selector
	CartLink              browser.Selector
	LoginLink             browser.Selector
	TestCasesLink         browser.Selector
	APITestingLink        browser.Selector
	VideoTutorialsLink    browser.Selector
	ContactUsLink         browser.Selector
	LoggedInAsText        browser.Selector
	LogoutLink            browser.Selector
	DeleteAccountLink     browser.Selector
	AccountDeletedMessage browser.Selector
	ContinueButton        browser.Selector
}

// NewHomePage creates the home page representation.
func NewHomePage(p Primitives) *HomePage {
	return &HomePage{
		p:                     p,
		HomeLink:              browser.CSS("a").WithText(" Home"),
		ProductsLink:          browser.CSS("a").WithText(" Products"),
		CartLink:              browser.CSS("a").WithText(" Cart"),
		LoginLink:             browser.CSS("a").WithText(" Signup / Login"),
		TestCasesLink:         browser.CSS("a").WithText(" Test Cases"),
		APITestingLink:        browser.CSS("a").WithText(" API Testing"),
		VideoTutorialsLink:    browser.CSS("a").WithText(" Video Tutorials"),
		ContactUsLink:         browser.CSS("a").WithText(" Contact us"),
		LoggedInAsText:        browser.CSS("a").WithText(" Logged in as "),
		LogoutLink:            browser.CSS("a").WithText(" Logout"),
		DeleteAccountLink:     browser.CSS("a").WithText(" Delete Account"),
		AccountDeletedMessage: browser.CSS("h2.title").WithText("Account Deleted!"),
		ContinueButton:        browser.DataQA("continue-button"),
	}
}

// LoggedInAs returns the marker shown for username, or the generic marker
// when username is empty.
func (h *HomePage) LoggedInAs(username string) browser.Selector {
	if username == "" {
		return h.LoggedInAsText
	}
	return browser.CSS("a").WithText(" Logged in as " + username)
}

// GoToHomePage opens the landing page.
func (h *HomePage) GoToHomePage(ctx context.Context) error {
	return h.p.Navigate(ctx, "/")
}

// GoToLoginSignupPage follows the navigation link.
func (h *HomePage) GoToLoginSignupPage(ctx context.Context) error {
	return h.p.Click(ctx, h.LoginLink)
}

// IsUserLoggedIn checks once whether the logged-in marker is shown.
func (h *HomePage) IsUserLoggedIn(ctx context.Context, username string) (bool, error) {
	return h.p.IsVisible(ctx, h.LoggedInAs(username))
}

// Logout follows the logout link.
func (h *HomePage) Logout(ctx context.Context) error {
	return h.p.Click(ctx, h.LogoutLink)
}

// DeleteAccount deletes the logged-in account and dismisses the confirmation.
func (h *HomePage) DeleteAccount(ctx context.Context) error {
	if err := h.p.Click(ctx, h.DeleteAccountLink); err != nil {
		return err
	}
	return h.p.Click(ctx, h.ContinueButton)
}

// IsAccountDeletedMessageVisible checks once for the deletion confirmation.
func (h *HomePage) IsAccountDeletedMessageVisible(ctx context.Context) (bool, error) {
	return h.p.IsVisible(ctx, h.AccountDeletedMessage)
}

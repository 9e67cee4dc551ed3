package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/browser/browsertest"
)

func TestLoginSignupPage_GoToLoginSignupPage(t *testing.T) {
	tests := []struct {
		name         string
		showSignup   bool
		showLogin    bool
		wantErr      bool
		wantAssertOn string
	}{
		{"both headings", true, true, false, ""},
		{"signup heading missing", false, true, true, `h2:has-text("New User Signup!")`},
		{"login heading missing", true, false, true, `h2:has-text("Login to your account")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := browsertest.NewPage()
			login := NewLoginSignupPage(newTestBase(page, ""))
			page.OnGoto = func(p *browsertest.Page, url string) error {
				if tt.showSignup {
					p.Show(login.NewUserSignupText)
				}
				if tt.showLogin {
					p.Show(login.LoginToAccountText)
				}
				return nil
			}

			err := login.GoToLoginSignupPage(context.Background())

			if page.URL() != testBaseURL+"/login" {
				t.Errorf("URL = %s", page.URL())
			}
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("GoToLoginSignupPage() unexpected error = %v", err)
				}
				return
			}
			var assertErr *browser.AssertionError
			if !errors.As(err, &assertErr) {
				t.Fatalf("GoToLoginSignupPage() error = %v, want *AssertionError", err)
			}
			if assertErr.Target != tt.wantAssertOn {
				t.Errorf("assertion target = %s, want %s", assertErr.Target, tt.wantAssertOn)
			}
		})
	}
}

func TestLoginSignupPage_Login(t *testing.T) {
	page := browsertest.NewPage()
	login := NewLoginSignupPage(newTestBase(page, ""))
	email := page.Add(login.LoginEmailInput, visible())
	password := page.Add(login.LoginPasswordInput, visible())
	page.Add(login.LoginButton, &browsertest.Element{
		Visible: true,
		OnClick: func(p *browsertest.Page) { p.Show(login.ErrorMessage) },
	})

	before, err := login.IsErrorMessageDisplayed(context.Background())
	if err != nil || before {
		t.Fatalf("error message before login = %v, %v", before, err)
	}

	if err := login.Login(context.Background(), "incorrect@example.com", "wrongpassword"); err != nil {
		t.Fatalf("Login() unexpected error = %v", err)
	}

	if email.Value != "incorrect@example.com" || password.Value != "wrongpassword" {
		t.Errorf("filled email=%q password=%q", email.Value, password.Value)
	}
	after, err := login.IsErrorMessageDisplayed(context.Background())
	if err != nil || !after {
		t.Errorf("error message after login = %v, %v", after, err)
	}
}

func TestLoginSignupPage_SignupWithNameAndEmail(t *testing.T) {
	page := browsertest.NewPage()
	login := NewLoginSignupPage(newTestBase(page, ""))
	name := page.Add(login.SignupNameInput, visible())
	email := page.Add(login.SignupEmailInput, visible())
	button := page.Add(login.SignupButton, visible())

	if err := login.SignupWithNameAndEmail(context.Background(), "Ada Lovelace", "ada@example.com"); err != nil {
		t.Fatalf("SignupWithNameAndEmail() unexpected error = %v", err)
	}

	if name.Value != "Ada Lovelace" || email.Value != "ada@example.com" || button.Clicks != 1 {
		t.Errorf("name=%q email=%q clicks=%d", name.Value, email.Value, button.Clicks)
	}
}

func TestLoginSignupPage_LogoutAndDelete(t *testing.T) {
	page := browsertest.NewPage()
	login := NewLoginSignupPage(newTestBase(page, ""))
	logout := page.Add(login.LogoutLink, visible())
	del := page.Add(login.DeleteAccountLink, visible())

	if err := login.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := login.DeleteAccount(context.Background()); err != nil {
		t.Fatal(err)
	}
	if logout.Clicks != 1 || del.Clicks != 1 {
		t.Errorf("logout clicks=%d delete clicks=%d", logout.Clicks, del.Clicks)
	}
}

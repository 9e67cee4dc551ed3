package pages

import (
	"time"

	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/browser/browsertest"
)

const testBaseURL = "https://www.automationexercise.com"

var testPolicy = browser.WaitPolicy{Timeout: 100 * time.Millisecond, Interval: 5 * time.Millisecond}

func newTestBase(page *browsertest.Page, screenshotDir string) *Base {
	return NewBase(page, Options{
		BaseURL:       testBaseURL + "/",
		ScreenshotDir: screenshotDir,
		Action:        testPolicy,
		Expect:        testPolicy,
	})
}

func visible() *browsertest.Element {
	return &browsertest.Element{Visible: true}
}

package fixture

import (
	"errors"
	"testing"

	"github.com/qaforge/exercise-e2e/internal/browser"
)

// Run executes scenario as the test t. The test fails with the final error
// and is skipped when the engine cannot serve profile.
func Run(t *testing.T, env *Environment, profile browser.Profile, name string, scenario Scenario) {
	t.Helper()

	res, err := env.Execute(t.Context(), name, profile, scenario)
	switch {
	case errors.Is(err, browser.ErrUnsupported):
		t.Skipf("%s on %s: %v", name, profile.Name, err)
	case err != nil && res == nil:
		t.Fatalf("%s on %s: %v", name, profile.Name, err)
	case err != nil:
		for _, a := range res.Artifacts {
			t.Logf("artifact: %s", a)
		}
		t.Fatalf("%s on %s failed after %d attempt(s): %v", name, profile.Name, res.Attempt+1, err)
	case res.IsFlaky():
		t.Logf("%s on %s is flaky: passed on retry #%d", name, profile.Name, res.Attempt)
	}
}

// ForEachProfile runs scenario once per configured profile as subtests named
// after the profile. Subtests run in parallel when the configuration is
// fully parallel.
func ForEachProfile(t *testing.T, env *Environment, name string, scenario Scenario) {
	t.Helper()

	for _, profile := range env.Profiles() {
		t.Run(profile.Name, func(t *testing.T) {
			if env.Config.FullyParallel {
				t.Parallel()
			}
			Run(t, env, profile, name, scenario)
		})
	}
}

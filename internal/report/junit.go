package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/qaforge/exercise-e2e/internal/models"
)

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	ID       string           `xml:"id,attr"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Errors   int              `xml:"errors,attr"`
	Time     float64          `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	Hostname  string          `xml:"hostname,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Errors    int             `xml:"errors,attr"`
	Cases     []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *struct{}     `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// WriteJUnit writes the final results as a JUnit XML document, one testsuite
// per profile.
func WriteJUnit(path string, run *models.Run, final []*models.ScenarioResult) error {
	doc := buildJUnit(run, final)

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create junit report dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(xml.Header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write junit report: %w", err)
	}
	return nil
}

func buildJUnit(run *models.Run, final []*models.ScenarioResult) junitTestSuites {
	byProfile := make(map[string]*junitTestSuite)
	var profiles []string

	doc := junitTestSuites{ID: run.ID, Name: "automationexercise e2e"}
	for _, res := range final {
		suite, ok := byProfile[res.Profile]
		if !ok {
			suite = &junitTestSuite{
				Name:      res.Profile,
				Timestamp: run.StartedAt.UTC().Format("2006-01-02T15:04:05"),
				Hostname:  res.Profile,
			}
			byProfile[res.Profile] = suite
			profiles = append(profiles, res.Profile)
		}

		tc := junitTestCase{
			Name:      res.Scenario,
			ClassName: res.Profile,
			Time:      res.Duration.Seconds(),
		}
		switch res.Status {
		case models.ResultFailed:
			tc.Failure = &junitFailure{Message: res.Error, Type: "FAILURE", Text: res.Error}
			suite.Failures++
			doc.Failures++
		case models.ResultSkipped:
			tc.Skipped = &struct{}{}
			suite.Skipped++
			doc.Skipped++
		}
		for _, a := range res.Artifacts {
			tc.SystemOut += fmt.Sprintf("[[ATTACHMENT|%s]]\n", a)
		}

		suite.Cases = append(suite.Cases, tc)
		suite.Tests++
		suite.Time += tc.Time
		doc.Tests++
	}

	sort.Strings(profiles)
	for _, p := range profiles {
		doc.Suites = append(doc.Suites, *byProfile[p])
	}
	if !run.FinishedAt.IsZero() {
		doc.Time = run.FinishedAt.Sub(run.StartedAt).Seconds()
	}
	return doc
}

package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/qaforge/exercise-e2e/internal/models"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"duration": func(d time.Duration) string { return d.Round(time.Millisecond).String() },
	"when":     func(t time.Time) string { return t.Format(time.RFC1123) },
}).ParseFS(templateFS, "templates/report.html"))

// Artifact is a link from the report to a file produced by an attempt.
type Artifact struct {
	Name string
	Href string
}

// Row is one attempt as shown in the HTML report.
type Row struct {
	*models.ScenarioResult
	Links []Artifact
}

// Page is the data rendered into index.html.
type Page struct {
	Run     *models.Run
	Summary Summary
	Rows    []Row
}

// WriteHTML renders index.html into dir. Every attempt is listed; artifact
// links are relative to dir so the report also works from the filesystem.
func WriteHTML(dir string, run *models.Run, all []*models.ScenarioResult, summary Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create html report dir: %w", err)
	}

	page := Page{Run: run, Summary: summary}
	for _, res := range all {
		page.Rows = append(page.Rows, Row{ScenarioResult: res, Links: ArtifactLinks(dir, res.Artifacts)})
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create html report: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, page); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

// ArtifactLinks links each path relative to dir.
func ArtifactLinks(dir string, paths []string) []Artifact {
	links := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		href := p
		if rel, err := filepath.Rel(dir, p); err == nil {
			href = filepath.ToSlash(rel)
		}
		links = append(links, Artifact{Name: filepath.Base(p), Href: href})
	}
	return links
}

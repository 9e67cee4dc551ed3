package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/report"
	"github.com/qaforge/exercise-e2e/internal/repository"
)

// ArtifactsPath is where the results directory is served.
const ArtifactsPath = "/artifacts/"

var templateFuncs = template.FuncMap{
	"duration": func(d time.Duration) string { return d.Round(time.Millisecond).String() },
	"when":     func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}

// RunDetailHandler shows every attempt of one run.
type RunDetailHandler struct {
	template  *template.Template
	store     RunStore
	outputDir string
}

// NewRunDetailHandler creates a new RunDetailHandler. Artifacts under
// outputDir are linked through ArtifactsPath.
func NewRunDetailHandler(templatePath string, store RunStore, outputDir string) (*RunDetailHandler, error) {
	tmpl, err := template.New("run.html").Funcs(templateFuncs).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &RunDetailHandler{
		template:  tmpl,
		store:     store,
		outputDir: outputDir,
	}, nil
}

// RunDetailData represents the data for the run detail template
type RunDetailData struct {
	Run     *models.Run
	Summary report.Summary
	Rows    []report.Row
}

// ServeHTTP handles the GET /runs/{id} request
func (h *RunDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.Error(w, "Run history is not configured", http.StatusNotFound)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "Missing run id", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("run_id", id).Msg("failed to load run")
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	results, err := h.store.ListResults(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("run_id", id).Msg("failed to load results")
		http.Error(w, "Failed to load results", http.StatusInternalServerError)
		return
	}

	data := RunDetailData{Run: run, Summary: report.Summarize(report.FinalResults(results))}
	for _, res := range results {
		data.Rows = append(data.Rows, report.Row{ScenarioResult: res, Links: h.links(res.Artifacts)})
	}

	if err := h.template.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("error rendering template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// links maps artifact paths inside the output directory to ArtifactsPath.
// Paths outside it are listed without a link.
func (h *RunDetailHandler) links(paths []string) []report.Artifact {
	links := make([]report.Artifact, 0, len(paths))
	for _, p := range paths {
		a := report.Artifact{Name: filepath.Base(p)}
		if rel, err := filepath.Rel(h.outputDir, p); err == nil && !strings.HasPrefix(rel, "..") {
			a.Href = ArtifactsPath + filepath.ToSlash(rel)
		}
		links = append(links, a)
	}
	return links
}

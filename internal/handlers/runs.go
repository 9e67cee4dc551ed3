package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/repository"
)

// DefaultRunLimit is how many runs the list shows without ?limit=.
const DefaultRunLimit = 20

// ReportPath is where the static HTML report is served.
const ReportPath = "/report/"

// RunListHandler lists recent runs. Without a store it redirects to the
// static HTML report.
type RunListHandler struct {
	template *template.Template
	store    RunStore
}

// NewRunListHandler creates a new RunListHandler
func NewRunListHandler(templatePath string, store RunStore) (*RunListHandler, error) {
	tmpl, err := template.New("runs.html").Funcs(templateFuncs).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &RunListHandler{
		template: tmpl,
		store:    store,
	}, nil
}

// RunListData represents the data for the run list template
type RunListData struct {
	Runs  []repository.RunSummary
	Limit int
}

// ServeHTTP handles the GET / request
func (h *RunListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.store == nil {
		http.Redirect(w, r, ReportPath, http.StatusFound)
		return
	}

	limit := DefaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}

	if err := h.template.Execute(w, RunListData{Runs: runs, Limit: limit}); err != nil {
		log.Error().Err(err).Msg("error rendering template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

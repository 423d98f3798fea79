package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"devpulse/internal/bootstrap"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/errs"
	"devpulse/internal/usecase/review"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for triggering analyses and reading dashboards",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.Server.Addr
		}

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		server := &http.Server{
			Addr:    addr,
			Handler: newAPIRouter(ctx, svc),
		}

		logging.Info(ctx, "api server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "api server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
}

type analyzeRequest struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"prNumber"`
}

type apiErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type analyzeResponse struct {
	Success bool `json:"success"`
	review.WorkflowResult
}

type apiService interface {
	AnalyzePullRequest(ctx context.Context, input review.WorkflowInput) (review.WorkflowResult, error)
	Dashboard(ctx context.Context) (review.DashboardView, error)
	Analytics(ctx context.Context) (review.AnalyticsView, error)
}

type apiHandler struct {
	svc apiService
}

func newAPIRouter(baseCtx context.Context, svc apiService) http.Handler {
	h := &apiHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(requestLogging(baseCtx))
	r.Get("/health", h.handleHealth)
	r.Post("/api/analyze-pr", h.handleAnalyzePR)
	r.Get("/api/dashboard", h.handleDashboard)
	r.Get("/api/analytics", h.handleAnalytics)
	return r
}

// requestLogging attaches the command context plus a request id to every
// request so handler logs carry the same attrs as the rest of the app.
func requestLogging(baseCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithAttrs(baseCtx,
				slog.String("request_id", uuid.NewString()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			logging.Info(ctx, "request received")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (h *apiHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *apiHandler) handleAnalyzePR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiErrorResponse{Error: "invalid JSON body"})
		return
	}

	if missing := missingFields(req); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, apiErrorResponse{Error: "missing: " + strings.Join(missing, ", ")})
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, workflowTimeout)
	defer cancel()

	result, err := h.svc.AnalyzePullRequest(runCtx, review.WorkflowInput{
		Owner:    req.Owner,
		Repo:     req.Repo,
		PRNumber: req.PRNumber,
	})
	if err != nil {
		logging.Error(ctx, "analyze request failed", slog.Any("err", errs.Loggable(err)))

		var validationErr *review.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, apiErrorResponse{Error: validationErr.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, WorkflowResult: result})
}

func (h *apiHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.svc.Dashboard(ctx)
	if err != nil {
		logging.Error(ctx, "dashboard request failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, apiErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.svc.Analytics(ctx)
	if err != nil {
		logging.Error(ctx, "analytics request failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, apiErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func missingFields(req analyzeRequest) []string {
	var missing []string
	if strings.TrimSpace(req.Owner) == "" {
		missing = append(missing, "owner")
	}
	if strings.TrimSpace(req.Repo) == "" {
		missing = append(missing, "repo")
	}
	if req.PRNumber <= 0 {
		missing = append(missing, "prNumber")
	}
	return missing
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/events"
	"github.com/ganot/docflow/internal/export"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error)
}

// ExportService provides the data behind the download routes.
type ExportService interface {
	Timeline(ctx context.Context, tenantID, documentID string) (*document.Document, []events.Event, error)
	Checklist(ctx context.Context, tenantID, documentID string) (*document.Document, []item.Item, error)
	RecordExport(ctx context.Context, tenantID, documentID string, kind activity.ActivityType, count int)
}

// Options configures the HTTP router. Auth, Limiter and MCP are optional.
// Without Auth every request runs as DefaultTenant.
type Options struct {
	Handler       MCPHandler
	Exports       ExportService
	MCP           http.Handler
	Auth          func(http.Handler) http.Handler
	DefaultTenant string
	Limiter       *RateLimiter
	CalendarName  string
	Logger        *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler      MCPHandler
	exports      ExportService
	calendarName string
	logger       *slog.Logger
	now          func() time.Time
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		handler:      opts.Handler,
		exports:      opts.Exports,
		calendarName: opts.CalendarName,
		logger:       logger,
		now:          time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		} else {
			r.Use(DefaultTenantMiddleware(opts.DefaultTenant))
		}
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		r.Post("/rpc", srv.handleRPC)
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
		r.Get("/documents/{id}/calendar.ics", srv.handleCalendar)
		r.Get("/documents/{id}/checklist.csv", srv.handleChecklist)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		rpcErr, _ := errorFor(err)
		WriteError(w, nil, rpcErr)
		return
	}

	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), tenantID, req.Method, req.Params)
	if err != nil {
		rpcErr, unexpected := errorFor(err)
		if unexpected {
			s.logger.Error("rpc method failed", "method", req.Method, "tenant", tenantID, "error", err)
		}
		if !req.IsNotification() {
			WriteError(w, req.ID, rpcErr)
			return
		}
	}
	if req.IsNotification() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantFromContext(r.Context())
	doc, evs, err := s.exports.Timeline(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	name := doc.Title
	if s.calendarName != "" {
		name = s.calendarName
	}
	body := export.Calendar(evs, export.Options{Name: name, Now: s.now()})
	s.exports.RecordExport(r.Context(), tenantID, doc.ID, activity.TypeCalendarExported, len(evs))

	writeAttachment(w, "text/calendar; charset=utf-8", export.Filename(doc.Title), body)
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := TenantFromContext(r.Context())
	doc, items, err := s.exports.Checklist(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	body := export.ChecklistCSV(items)
	s.exports.RecordExport(r.Context(), tenantID, doc.ID, activity.TypeChecklistExported, len(items))

	writeAttachment(w, "text/csv; charset=utf-8", export.ChecklistFilename(doc.Title), body)
}

func (s *Server) writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, document.ErrDocumentNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	s.logger.Error("export failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeAttachment(w http.ResponseWriter, contentType, filename, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start),
			)
		})
	}
}

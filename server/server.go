// Copyright 2025 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the coverage analysis over HTTP.
//
// Every request is an independent run: the two reports are uploaded as
// multipart fields, analyzed, and the result is returned as JSON or as
// the analysis workbook.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/UNO-SOFT/stockcover"
	"github.com/UNO-SOFT/stockcover/coverage"
	"github.com/UNO-SOFT/stockcover/report"
	"github.com/UNO-SOFT/stockcover/source"
)

// DefaultMaxUpload is the default limit of a request body.
const DefaultMaxUpload = 32 << 20

// Multipart field names of the uploaded reports.
const (
	FieldCurve = "curve"
	FieldStock = "stock"
)

// Config of the handler.
type Config struct {
	Logger *slog.Logger
	// Run is the template of the per-request run options.
	Run coverage.RunOptions
	// Charset of CSV uploads.
	Charset   string
	MaxUpload int64
}

// ErrorResponse is the body of a failed analysis.
type ErrorResponse struct {
	Category stockcover.Category `json:"category"`
	Message  string              `json:"message"`
	Hint     string              `json:"hint,omitempty"`
}

type handler struct {
	Config
}

// New returns the HTTP handler of the analysis API.
func New(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	h := handler{Config: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequest)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.analyze)
	})
	return r
}

func (h handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Logger.Info("request",
			slog.String("id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("dur", time.Since(start)))
	})
}

func (h handler) analyze(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil || !(format == report.FormatJSON || format == report.FormatXLSX) {
		h.fail(w, r, http.StatusBadRequest,
			stockcover.NewError(stockcover.CategoryInput, "format", "format must be json or xlsx"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		h.fail(w, r, http.StatusBadRequest,
			stockcover.WrapError(stockcover.CategoryInput, "request", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	curve, err := h.readField(r, FieldCurve)
	if err != nil {
		h.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	stock, err := h.readField(r, FieldStock)
	if err != nil {
		h.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	opts := h.Run
	opts.Logger = h.Logger.With("request", middleware.GetReqID(r.Context()))
	res, err := coverage.Run(r.Context(), curve, stock, opts)
	if err != nil {
		h.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	if format == report.FormatXLSX {
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="cobertura-%s.xlsx"`, res.RunID))
		if err := report.Write(w, format, res, report.Options{}); err != nil {
			h.Logger.Error("write workbook", "run", res.RunID, "error", err)
		}
		return
	}
	render.JSON(w, r, res)
}

func (h handler) readField(r *http.Request, field string) (stockcover.Grid, error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		return nil, stockcover.WrapError(stockcover.CategoryInput, field,
			fmt.Errorf("missing %q file: %w", field, err))
	}
	defer f.Close()
	return source.Read(fh.Filename, f, h.Charset)
}

func (h handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	cat := stockcover.CategoryOf(err)
	h.Logger.Warn("analysis failed",
		slog.String("id", middleware.GetReqID(r.Context())),
		slog.String("category", string(cat)),
		slog.Any("error", err))
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Category: cat, Message: err.Error(), Hint: cat.Hint()})
}

// ListenAndServe serves handler on addr until ctx is canceled,
// then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

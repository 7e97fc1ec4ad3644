package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"symptom-checker/internal/core"
	"symptom-checker/internal/logging"
	"symptom-checker/internal/metrics"
	"symptom-checker/pkg"
)

// User facing validation messages.
const (
	MsgInvalidBody      = "Request body must be a JSON object."
	MsgMoreDetail       = "Please provide a more detailed description of your symptoms."
	MsgInsufficientInfo = "Sufficient information not provided."

	// MinSymptomsLength is the shortest accepted description, counted in
	// characters after trimming surrounding whitespace.
	MinSymptomsLength = 10

	maxBodyBytes = 1 << 20
)

// HistoryAppender records a query and the text returned for it.
type HistoryAppender interface {
	Append(ctx context.Context, symptoms, response string) (*pkg.LogRecord, error)
}

// Pinger reports whether the history store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.Server.
type Server struct {
	Advisor *core.Advisor
	History HistoryAppender
	DB      Pinger
	Logger  logrus.FieldLogger

	router chi.Router
}

// NewServer constructs a Server and its routes.  db may be nil, in which case
// the health check only reports that the process is up.
func NewServer(advisor *core.Advisor, history HistoryAppender, db Pinger, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		Advisor: advisor,
		History: history,
		DB:      db,
		Logger:  logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP dispatches to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(allowAnyOrigin())

	r.Post("/check_symptoms", s.handleCheckSymptoms)
	r.Post("/prepare_questions", s.handlePrepareQuestions)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// handleCheckSymptoms analyses a free-form symptom description.  Short or
// blank input is rejected before any provider call or history write.
func (s *Server) handleCheckSymptoms(w http.ResponseWriter, r *http.Request) {
	var req pkg.SymptomsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !detailedEnough(req.Symptoms) {
		writeJSON(w, http.StatusBadRequest, pkg.ErrorResponse{Error: MsgMoreDetail})
		return
	}
	// Finish the provider call and the history write even if the client
	// goes away.
	ctx := context.WithoutCancel(r.Context())
	text := s.Advisor.AnalyzeSymptoms(ctx, req.Symptoms).Text()
	s.record(ctx, req.Symptoms, text)
	writeJSON(w, http.StatusOK, pkg.Response{Response: text})
}

// handlePrepareQuestions turns symptoms plus an earlier analysis into a list
// of questions for a doctor.
func (s *Server) handlePrepareQuestions(w http.ResponseWriter, r *http.Request) {
	var req pkg.QuestionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Symptoms == "" || req.Analysis == "" {
		writeJSON(w, http.StatusBadRequest, pkg.ErrorResponse{Error: MsgInsufficientInfo})
		return
	}
	ctx := context.WithoutCancel(r.Context())
	text := s.Advisor.PrepareQuestions(ctx, req.Symptoms, req.Analysis).Text()
	s.record(ctx, core.QuestionsLogPrefix+req.Symptoms, text)
	writeJSON(w, http.StatusOK, pkg.Response{Response: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			logging.FromContext(r.Context(), s.Logger).WithError(err).Warn("health check: database unreachable")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record appends to the history.  A failed write is logged and counted but
// does not change the response: the caller already has a valid answer and
// the provider call cannot be replayed.
func (s *Server) record(ctx context.Context, symptoms, response string) {
	rec, err := s.History.Append(ctx, symptoms, response)
	log := logging.FromContext(ctx, s.Logger)
	if err != nil {
		metrics.HistoryAppendsTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("failed to append history")
		return
	}
	metrics.HistoryAppendsTotal.WithLabelValues("ok").Inc()
	log.WithField("history_id", rec.ID).Debug("history appended")
}

// decode reads a JSON object body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); extra != io.EOF {
			err = errors.New("unexpected data after JSON object")
		}
	}
	if err != nil {
		logging.FromContext(r.Context(), s.Logger).WithError(err).Debug("invalid request body")
		writeJSON(w, http.StatusBadRequest, pkg.ErrorResponse{Error: MsgInvalidBody})
		return false
	}
	return true
}

func detailedEnough(symptoms string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(symptoms)) >= MinSymptomsLength
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

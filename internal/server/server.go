package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 2 << 20

// ResumeStore persists saved resumes scoped to their owner.
type ResumeStore interface {
	ListResumes(ctx context.Context, userID uuid.UUID) ([]types.ResumeSummary, error)
	CreateResume(ctx context.Context, userID uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*types.SavedResume, error)
	UpdateResume(ctx context.Context, userID, id uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error)
	DeleteResume(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// GenerationStore persists generation audit records.
type GenerationStore interface {
	SaveGeneration(ctx context.Context, record *types.GenerationRecord) error
	ListGenerations(ctx context.Context, userID uuid.UUID, limit int) ([]types.GenerationRecord, error)
}

// JobDescriptionStore persists processed job descriptions.
type JobDescriptionStore interface {
	SaveJobDescription(ctx context.Context, jd *types.JobDescription) error
	ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]types.JobDescription, error)
}

// Store is everything the API persists. *db.DB implements it.
type Store interface {
	DBClient
	ResumeStore
	GenerationStore
	JobDescriptionStore
}

// ResumeGenerator produces ATS content for a draft.
type ResumeGenerator interface {
	Generate(ctx context.Context, draft types.ResumeDraft, jobDescription string) (*types.GeneratedContent, error)
}

// SectionRefiner revises one resume section.
type SectionRefiner interface {
	Refine(ctx context.Context, req types.RefineSectionRequest) (*types.RefineSectionResponse, error)
}

// ResumeChat streams a conversational reply.
type ResumeChat interface {
	Stream(ctx context.Context, req types.ChatRequest, onChunk func(string) error) error
}

// ProfileScraper extracts a profile from a public profile URL.
type ProfileScraper interface {
	Scrape(ctx context.Context, url string) (*types.ExtractedProfile, error)
}

// ProfileEnhancer never fails; degraded results carry Error or RawAIResponse.
type ProfileEnhancer interface {
	Enhance(ctx context.Context, profile types.ExtractedProfile) types.EnhancedProfile
}

// PDFPrinter turns an HTML document into PDF bytes.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// CallMetrics is the read side of the model call monitor.
type CallMetrics interface {
	RecentMetrics(window time.Duration) []monitor.CallMetric
	SuccessRate(window time.Duration) float64
	ShouldUseBackup() bool
}

// Deps are the collaborators a Server is built from. Store, JWT and
// Passwords are required.
type Deps struct {
	Store     Store
	JWT       *JWTService
	Passwords *config.PasswordConfig
	Limiter   *ratelimit.Limiter

	Generator ResumeGenerator
	Refiner   SectionRefiner
	Chat      ResumeChat
	Scraper   ProfileScraper
	Enhancer  ProfileEnhancer
	Printer   PDFPrinter
	Metrics   CallMetrics

	// ExtractPDF defaults to linkedin.ExtractFromPDF.
	ExtractPDF func(data []byte) (*types.ExtractedProfile, error)
	// FetchJobPosting defaults to ingestion.FromURL with default fetch options.
	FetchJobPosting func(ctx context.Context, url string) (*ingestion.JobDescription, error)
}

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	deps       Deps
	auth       *AuthHandler
	handler    http.Handler
	httpServer *http.Server
	now        func() time.Time
}

// New wires routes and middleware. It does not start listening.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		defaults := config.Defaults()
		cfg = &defaults
	}
	switch {
	case deps.Store == nil:
		return nil, errors.New("server: store is required")
	case deps.JWT == nil:
		return nil, errors.New("server: JWT service is required")
	case deps.Passwords == nil:
		return nil, errors.New("server: password config is required")
	}
	if deps.ExtractPDF == nil {
		deps.ExtractPDF = linkedin.ExtractFromPDF
	}
	if deps.FetchJobPosting == nil {
		deps.FetchJobPosting = func(ctx context.Context, url string) (*ingestion.JobDescription, error) {
			return ingestion.FromURL(ctx, url, nil)
		}
	}

	s := &Server{
		cfg:  cfg,
		deps: deps,
		auth: NewAuthHandler(NewUserService(deps.Store, deps.Passwords), deps.JWT),
		now:  time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.auth.Register)
	mux.HandleFunc("POST /auth/login", s.auth.Login)

	protected := middleware.AuthMiddleware(deps.JWT.AsTokenValidator())
	authed := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protected(h))
	}

	authed("POST /generate-resume", s.handleGenerateResume)
	authed("POST /refine-section", s.handleRefineSection)
	authed("POST /chat-resume", s.handleChatResume)
	authed("POST /linkedin-import", s.handleLinkedInImport)

	authed("GET /job-descriptions", s.handleListJobDescriptions)
	authed("POST /job-descriptions", s.handleUploadJobDescription)

	authed("GET /resumes", s.handleListResumes)
	authed("POST /resumes", s.handleCreateResume)
	authed("GET /resumes/{id}", s.handleGetResume)
	authed("PUT /resumes/{id}", s.handleUpdateResume)
	authed("DELETE /resumes/{id}", s.handleDeleteResume)
	authed("GET /resumes/{id}/pdf", s.handleResumePDF)
	authed("POST /export/pdf", s.handleExportPDF)

	authed("GET /generations", s.handleListGenerations)
	authed("GET /metrics/ai", s.handleAIMetrics)

	var h http.Handler = s.withCORS(mux)
	h = s.withLogging(h)
	if deps.Limiter != nil {
		h = s.withRateLimit(h)
	}
	s.handler = h

	s.httpServer = &http.Server{
		Addr:        cfg.Addr(),
		Handler:     h,
		ReadTimeout: 30 * time.Second,
		// primary and fallback model calls run back to back
		WriteTimeout: 2*cfg.ModelTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.deps.Limiter != nil {
		s.deps.Limiter.Stop()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-endpoint budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.deps.Limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %s %d in %v", r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// clientID is the remote IP. Forwarded headers are not trusted.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int((info.RetryAfter + time.Second - 1) / time.Second)
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	log.Printf("[rate-limit] limit=%d reset=%s", info.Limit, info.ResetTime.Format(time.RFC3339))
	jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":      "Rate limit exceeded. Please try again later.",
		"retryAfter": retryAfter,
	})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// errorResponse writes {"error": message}.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// errorDetails writes {"error": message, "details": details}.
func errorDetails(w http.ResponseWriter, status int, message, details string) {
	jsonResponse(w, status, errorBody{Error: message, Details: details})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &ErrValidation{Message: "Invalid request body"}
	}
	return nil
}

// userID returns the authenticated caller. Handlers behind AuthMiddleware
// always have one; a miss answers 401.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, (&ErrUnauthorized{}).Error())
		return uuid.Nil, false
	}
	return id, true
}

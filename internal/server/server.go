package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-paginator/internal/db"
	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/preview"
	"github.com/jonathan/resume-paginator/internal/server/ratelimit"
)

// maxPreviewSessions bounds the number of preview engines kept in memory
const maxPreviewSessions = 256

// Store is the persistence the résumé endpoints need. *db.DB implements it.
type Store interface {
	CreateResume(ctx context.Context, in *db.ResumeInput) (*db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	UpdateResume(ctx context.Context, id uuid.UUID, in *db.ResumeInput) (*db.Resume, error)
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
	ListResumes(ctx context.Context, opts db.ListOptions) ([]db.Resume, error)
	SaveExport(ctx context.Context, in *db.ExportInput) (*db.Export, error)
	GetExport(ctx context.Context, id uuid.UUID) (*db.Export, error)
	ListExports(ctx context.Context, resumeID uuid.UUID) ([]db.Export, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	closeStore  func()
	exporter    *export.Service
	measurer    measure.Measurer
	constants   estimate.Constants
	defaults    Config
	rateLimiter *ratelimit.Limiter

	previewMu   sync.Mutex
	previews    map[string]*previewSession
	previewTick uint64
}

// previewSession is one editing session's engine. active counts requests still running on it.
type previewSession struct {
	engine   *preview.Engine
	lastUsed uint64
	active   int
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	ChromePath     string
	RasterizerURL  string
	ConstantsPath  string
	PageSize       string // default page size for requests that omit one
	Template       string // default template for requests that omit one
	Preset         string // preset applied when a request carries no style at all
	MeasureTimeout time.Duration
	ExportTimeout  time.Duration
	Verbose        bool
}

// New creates a new server instance. Résumé storage is enabled only when DatabaseURL is set.
func New(cfg Config) (*Server, error) {
	constants := estimate.DefaultConstants()
	if cfg.ConstantsPath != "" {
		c, err := estimate.LoadConstants(cfg.ConstantsPath)
		if err != nil {
			return nil, err
		}
		constants = c
	}

	var rasterizer export.Rasterizer
	if cfg.RasterizerURL != "" {
		rasterizer = export.NewRemoteRasterizer(cfg.RasterizerURL, cfg.ExportTimeout)
	} else {
		rasterizer = export.NewChromeRasterizer(cfg.ChromePath, cfg.ExportTimeout, cfg.Verbose)
	}
	measurer := measure.NewChromeMeasurer(cfg.ChromePath, cfg.MeasureTimeout, cfg.Verbose)

	var store Store
	var closeStore func()
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(context.Background()); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		store = database
		closeStore = database.Close
	} else {
		log.Printf("[server] DATABASE_URL not set, résumé storage endpoints are disabled")
	}

	s := newServer(cfg, constants, store, rasterizer, measurer)
	s.closeStore = closeStore
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // measurement and rasterization drive a browser
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires the collaborators without touching the network.
func newServer(cfg Config, c estimate.Constants, store Store, r export.Rasterizer, m measure.Measurer) *Server {
	c = c.WithDefaults()
	return &Server{
		store:     store,
		exporter:  export.NewService(estimate.New(c), r, cfg.Verbose),
		measurer:  m,
		constants: c,
		defaults:  cfg,
		previews:  make(map[string]*previewSession),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /presets", s.handlePresets)

	// Layout endpoints
	mux.HandleFunc("POST /layout", s.handleLayout)
	mux.HandleFunc("POST /preview", s.handlePreview)
	mux.HandleFunc("POST /export", s.handleExport)

	// Stored résumés
	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("PUT /resumes/{id}", s.handleUpdateResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	// Stored exports
	mux.HandleFunc("POST /resumes/{id}/exports", s.handleCreateResumeExport)
	mux.HandleFunc("GET /resumes/{id}/exports", s.handleListResumeExports)
	mux.HandleFunc("GET /exports/{id}", s.handleGetExport)
	return mux
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.closeStore != nil {
		s.closeStore()
	}
	log.Println("Server stopped")
	return nil
}

// previewEngine returns the engine for one editing session and marks it in use until release
// is called. Runs within a session supersede each other; separate sessions never do.
func (s *Server) previewEngine(key string) (e *preview.Engine, release func()) {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()

	s.previewTick++
	sess, ok := s.previews[key]
	if !ok {
		if len(s.previews) >= maxPreviewSessions {
			s.evictPreviewLocked()
		}
		sess = &previewSession{engine: preview.NewEngine(s.measurer, s.constants, s.defaults.Verbose)}
		s.previews[key] = sess
	}
	sess.lastUsed = s.previewTick
	sess.active++

	var once sync.Once
	return sess.engine, func() {
		once.Do(func() {
			s.previewMu.Lock()
			sess.active--
			s.previewMu.Unlock()
		})
	}
}

// evictPreviewLocked drops the least recently used idle session. Sessions with a run in
// flight are never evicted, so the map may briefly exceed maxPreviewSessions.
func (s *Server) evictPreviewLocked() {
	var victim string
	var oldest *previewSession
	for k, sess := range s.previews {
		if sess.active > 0 {
			continue
		}
		if oldest == nil || sess.lastUsed < oldest.lastUsed {
			victim, oldest = k, sess
		}
	}
	if oldest != nil {
		delete(s.previews, victim)
	}
}

// previewSession identifies the editing session of a preview request.
func (s *Server) previewSession(r *http.Request) string {
	if id := r.Header.Get("X-Preview-Session"); id != "" {
		return id
	}
	return s.extractClientID(r)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Preview-Session")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status. A store that can be pinged reports
// "degraded" when the database is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			log.Printf("[server] Database ping failed: %v", err)
			status = "degraded"
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  status,
		"storage": s.store != nil,
		"measure": s.measurer != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

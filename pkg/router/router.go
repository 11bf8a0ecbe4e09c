package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc = http.HandlerFunc

// Router wraps a chi mux with request IDs, panic recovery and a coloured
// one-line access log. Middleware added with Use must come before routes.
type Router struct {
	mux    chi.Router
	logger *log.Logger
}

// Option configures a Router
type Option func(*Router)

// WithLogOutput sends the access log to w
func WithLogOutput(w io.Writer) Option {
	return func(r *Router) { r.logger = log.New(w, "", 0) }
}

func New(opts ...Option) *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		logger: log.New(os.Stderr, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.mux.Use(middleware.RequestID, middleware.RealIP, r.accessLog, middleware.Recoverer)

	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// accessLog prints one coloured line per request
func (r *Router) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(lrw, req)

		status := lrw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		r.logger.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor(req.Method), req.Method, colorReset,
			req.URL.Path,
			statusColor(status), status, colorReset,
			colorBlue, duration, colorReset,
		)
	})
}

// --- Register paths ---
func (r *Router) Use(mw ...func(http.Handler) http.Handler) { r.mux.Use(mw...) }

func (r *Router) GET(path string, handler HandlerFunc)    { r.mux.Get(path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)   { r.mux.Post(path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) { r.mux.Delete(path, handler) }

// Handle registers handler for every method on path
func (r *Router) Handle(path string, handler http.Handler) { r.mux.Handle(path, handler) }

// Mount attaches a sub-handler under pattern
func (r *Router) Mount(pattern string, handler http.Handler) { r.mux.Mount(pattern, handler) }

// Routes lists registered routes as "METHOD PATH", sorted
func (r *Router) Routes() []string {
	var routes []string
	chi.Walk(r.mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	sort.Strings(routes)
	return routes
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// ServerConfig holds the http.Server timeouts used by Start
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// --- Start server ---

// Start serves until ctx is cancelled, then shuts down gracefully
func (r *Router) Start(ctx context.Context, addr string, cfg ServerConfig) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut, http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}

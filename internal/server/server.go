package server

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/osse101/posrelay/docs"
	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/database"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/handler"
	"github.com/osse101/posrelay/internal/logger"
	"github.com/osse101/posrelay/internal/metrics"
	"github.com/osse101/posrelay/internal/relay"
	"github.com/osse101/posrelay/internal/sse"
)

// Options configures the HTTP surface
type Options struct {
	Port        int
	Info        handler.ServerInfo
	ServiceName string
	Version     string
	CORSOrigins []string
}

// Services are the collaborators the routes call into
type Services struct {
	Catalog   handler.CatalogService
	Sales     handler.SalesService
	Stores    handler.StoreService
	Customers handler.CustomerService
	Auth      handler.Authenticator
	Tokens    *auth.TokenIssuer
	Relay     *relay.Hub
	Events    *sse.Hub
	DBPool    database.Pool
}

type Server struct {
	httpServer *http.Server
	detector   *SuspiciousActivityDetector
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(SecurityHeadersMiddleware())
	r.Use(CORSMiddleware(opts.CORSOrigins))
	r.Use(SecurityLoggingMiddleware(detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Register relay channel
	r.Get("/ws", svc.Relay.ServeWS)

	// Catalog edits and store management need a master or admin token
	privileged := auth.RequireRole(svc.Tokens, detector, domain.RoleMaster, domain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", handler.HandleGetConfig(svc.Catalog, opts.Info))
		r.With(privileged).Post("/config", handler.HandleSaveConfig(svc.Catalog))

		r.Get("/sales", handler.HandleListSales(svc.Sales))
		r.Post("/sales", handler.HandleRecordSale(svc.Sales))
		r.Post("/sync", handler.HandleSync(svc.Sales))

		r.Post("/login", handler.HandleLogin(svc.Auth, detector))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", handler.HandleListStores(svc.Stores))
			r.With(privileged).Post("/", handler.HandleSaveStore(svc.Stores))
			r.With(privileged).Delete("/{id}", handler.HandleDeleteStore(svc.Stores))
			r.Post("/{id}/verify", handler.HandleVerifyStore(svc.Stores))
		})

		r.Get("/clients", handler.HandleSearchClients(svc.Customers))
		r.Post("/clients", handler.HandleSaveClient(svc.Customers))

		// Read-only mirror of relay broadcasts for dashboards
		r.Get("/events", sse.Handler(svc.Events))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		detector: detector,
	}
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps /api/events streaming
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets /ws upgrade through the logging wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	rw.written = true
	return h.Hijack()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		for _, p := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

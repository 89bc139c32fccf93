package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/query"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	queryService   QueryService
	clientConfig   common.ClientConfig
	listenAddr     string
	staticDir      string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	StaticDir      string
	QueryService   QueryService
	ClientConfig   common.ClientConfig
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.QueryService) {
		return nil, errors.New("query service is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		queryService:   args.QueryService,
		clientConfig:   args.ClientConfig,
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/metrics", s.handleGetMetrics)
	api.GET("/metrics/:id", s.handleGetMetric)
	api.GET("/metrics/:id/history", s.handleGetMetricHistory)
	api.GET("/client-config", s.handleClientConfig)

	// Serve static files from the frontend build if configured
	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", path.Join(s.staticDir, "static"))
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		// NoRoute for SPA fallback
		s.router.NoRoute(func(c *gin.Context) {
			// If request is for an /api route that doesn't exist, return 404
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			// Otherwise serve index.html for CSR
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// CORSMiddleware adds the permissive CORS headers the dashboard frontend relies on
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func includeHistory(c *gin.Context) bool {
	return c.DefaultQuery("history", "0") == "1"
}

func (s *server) handleGetMetrics(c *gin.Context) {
	entries := s.queryService.Metrics(c.Request.Context(), includeHistory(c))

	c.JSON(http.StatusOK, entries)
}

func (s *server) handleGetMetric(c *gin.Context) {
	entry, err := s.queryService.Metric(c.Request.Context(), c.Param("id"), includeHistory(c), 0)
	if errors.Is(err, query.ErrUnknownMetric) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *server) handleGetMetricHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	history, err := s.queryService.History(c.Request.Context(), c.Param("id"), limit)
	if errors.Is(err, query.ErrUnknownMetric) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (s *server) handleClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.clientConfig)
}

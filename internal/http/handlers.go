package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anupam1005/SmartFarmAI/internal/db"
	"github.com/anupam1005/SmartFarmAI/pkg/logger"
	"github.com/anupam1005/SmartFarmAI/pkg/metrics"
)

// RootMessage is the body served on GET /.
const RootMessage = "SmartFarmAI API is running!"

const readyTimeout = 2 * time.Second

// Store is what the handlers need from the database pool.
type Store interface {
	db.Querier
	Ping(ctx context.Context) error
}

// Options tune the server; zero values disable the feature.
type Options struct {
	QueryTimeout time.Duration
	JWTSecret    string
	CORSOrigin   string
}

type Server struct {
	R   *gin.Engine
	DB  Store
	Now func() time.Time

	log  logger.Logger
	opts Options
}

func NewServer(store Store, opts Options, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log), Metrics())
	if opts.CORSOrigin != "" {
		r.Use(CORS(opts.CORSOrigin))
	}

	s := &Server{R: r, DB: store, Now: time.Now, log: log, opts: opts}

	r.GET("/", s.root)
	r.GET("/healthz", s.health)
	r.GET("/readyz", s.ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	users := r.Group("/users")
	if opts.JWTSecret != "" {
		users.Use(AuthRequired(opts.JWTSecret))
	}
	users.GET("", s.listUsers)

	return s
}

func (s *Server) root(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": s.Now().UTC()})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := s.DB.Ping(ctx); err != nil {
		s.fail(c, http.StatusServiceUnavailable, codeDatabaseUnavailable, "database is not reachable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) listUsers(c *gin.Context) {
	ctx := c.Request.Context()
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	rows, err := db.ListUsers(ctx, s.DB)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.fail(c, http.StatusGatewayTimeout, codeDatabaseTimeout, "database query timed out", err)
			return
		}
		s.fail(c, http.StatusInternalServerError, codeDatabaseError, "failed to list users", err)
		return
	}
	// the status is only committed once the body has encoded
	body, err := json.Marshal(rows)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, codeEncodingError, "failed to encode users", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

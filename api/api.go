package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CName = "api"

var log = logger.NewNamed(CName)

type Config struct {
	ListenAddr string `yaml:"listenAddr"`
}

type configSource interface {
	GetApi() Config
}

func New() Api {
	return new(service)
}

// Api owns the gin engine. Other components register their routes on it
// during Init, the server starts listening in Run.
type Api interface {
	Router() *gin.Engine
	app.ComponentRunnable
}

type service struct {
	conf   Config
	engine *gin.Engine
	server *http.Server
}

func (s *service) Init(a *app.App) (err error) {
	s.conf = a.MustComponent("config").(configSource).GetApi()
	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(requestLog(), recovery())
	return
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Router() *gin.Engine {
	return s.engine
}

func (s *service) Run(ctx context.Context) (err error) {
	ln, err := net.Listen("tcp", s.conf.ListenAddr)
	if err != nil {
		return
	}
	s.server = &http.Server{Handler: s.engine}
	log.Info("api server started", zap.String("addr", ln.Addr().String()))
	go func() {
		if serveErr := s.server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("api server failed", zap.Error(serveErr))
		}
	}()
	return
}

func (s *service) Close(ctx context.Context) (err error) {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := time.Now()
		reqId := uuid.NewString()
		c.Set("requestId", reqId)
		c.Next()
		log.Debug("request",
			zap.String("requestId", reqId),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(st)),
		)
	}
}

// recovery converts panics to a generic 500 without leaking internal detail.
func recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal server error",
		})
	})
}

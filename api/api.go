package api

import (
	"errors"
	"fmt"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	l3_service "macrobacktest/internal/service/l3"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	BacktestService l3_service.BacktestService
	SeriesService   l1_service.SeriesService

	JwtSecret          string
	AllowedOrigins     []string
	IngestLookbackDays int

	Logger *zap.SugaredLogger
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(m.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = m.AllowedOrigins
	}
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to macrobacktest"})
	})
	router.GET("/presets", m.listPresets)
	router.GET("/symbols", m.listSymbols)
	router.POST("/backtest", m.backtest)
	router.POST("/diagnostics", m.diagnostics)
	router.GET("/runs", m.listRuns)
	router.GET("/runs/:id", m.getRun)
	router.POST("/updatePrices", m.authMiddleware(), m.updatePrices)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) logger() *zap.SugaredLogger {
	if m.Logger != nil {
		return m.Logger
	}
	return zap.S()
}

// errorStatus maps engine and storage errors to the status the client
// should see. input problems are 400s, everything else is ours
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrInvalidSeries),
		errors.Is(err, l3_service.ErrMissingSeries):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrRunNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, errorStatus(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c)
	if code >= 500 {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Infof("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware scopes a logger to the request and stores it on
// the gin context, where logger.FromContext can find it
func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	start := time.Now()
	log := m.logger().With(
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
		"ip", c.ClientIP(),
	)
	c.Set(logger.ContextKey, log)

	c.Next()

	log.Infow("request completed",
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}

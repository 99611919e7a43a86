package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"myflix-api/internal/auth"
	"myflix-api/internal/service"
	"myflix-api/internal/validation"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	catalog service.CatalogService
	jwt     *auth.JWTManager
	limiter *RateLimiter
	logger  *logrus.Logger
}

func NewHandler(users service.UserService, catalog service.CatalogService, jwt *auth.JWTManager, limiter *RateLimiter, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:   users,
		catalog: catalog,
		jwt:     jwt,
		limiter: limiter,
		logger:  logger,
	}
}

// NewRouter builds a gin engine with the handler's routes and middleware.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	// keep %2F inside path parameters, e.g. genre names like "Action/Sci-fi"
	router.UseRawPath = true
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), requestLogger(h.logger), metricsMiddleware(), corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to MyFlix API!")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := h.limiter.Middleware()
	router.POST("/login", limited, h.login)
	router.POST("/users", limited, h.registerUser)

	secured := router.Group("/", auth.Middleware(h.jwt))
	{
		secured.GET("/users", h.listUsers)
		secured.GET("/users/:username", h.getUser)
		secured.PUT("/users/:username", h.updateUser)
		secured.DELETE("/users/:username", h.deleteUser)
		secured.POST("/users/:username/movies/:movieId", h.addFavorite)
		secured.DELETE("/users/:username/movies/:movieId", h.removeFavorite)

		secured.GET("/movies", h.listMovies)
		secured.GET("/movies/:title", h.getMovie)
		secured.GET("/movies/genre/:name", h.listMoviesByGenre)
		secured.GET("/movies/directors/:name", h.listMoviesByDirector)
		secured.GET("/genres/:name", h.getGenre)
		secured.GET("/directors/:name", h.getDirector)
	}
}

// respondError maps service errors onto status codes. Store failures are
// logged with their cause and reported to the client without it.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		invalid  *validation.RequestValidationError
		storeErr *service.StoreError
	)
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": invalid.Fields})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrNotFavorited):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrEmptyCatalog):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		entry := h.logger.WithError(err).WithField("request_id", requestID(c))
		if errors.As(err, &storeErr) {
			entry = entry.WithField("op", storeErr.Op)
		}
		entry.Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

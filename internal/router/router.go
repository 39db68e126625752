package router

import (
	"net/http"
	"time"

	"adaptui/internal/config"
	"adaptui/internal/handlers"
	"adaptui/internal/models"
	"adaptui/internal/personalize"
	"adaptui/internal/tracker"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, survey *models.Survey, engine *personalize.Engine, registry *tracker.Registry) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	router.Use(sessions.Sessions("adaptui_session", store))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	router.Static("/assets", "./assets")

	// Handlers and routes
	sessionHandler := handlers.NewSessionHandler(log, registry, survey)
	surveyHandler := handlers.NewSurveyHandler(log, registry, engine, survey)
	eventsHandler := handlers.NewEventsHandler(log, registry)
	resultsHandler := handlers.NewResultsHandler(log, registry)

	// The pre-survey endpoint fans out to the model API; rate limit it so a
	// stuck client cannot burn through the quota.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.GET("/session", sessionHandler.Init)
		api.POST("/survey/pre", limiter, surveyHandler.SubmitPre)
		api.POST("/survey/post", surveyHandler.SubmitPost)
		api.POST("/events/click", eventsHandler.Click)
		api.POST("/tasks/:key/start", eventsHandler.TaskStart)
		api.POST("/tasks/:key/complete", eventsHandler.TaskComplete)
		api.POST("/tasks/completion", eventsHandler.Completion)
		api.GET("/state", eventsHandler.State)
	}

	router.GET("/results", resultsHandler.Show)

	return router
}

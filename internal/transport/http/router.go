package http

import (
	"net/http"
	"strings"
	"time"

	"trivia-quiz-service/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions tunes the HTTP surface.
type RouterOptions struct {
	// AllowedOrigins lists CORS origins. Empty allows any http://localhost:PORT.
	AllowedOrigins []string
}

// NewRouter mounts the REST API, the play websocket and the health check.
func NewRouter(service *app.QuizService, auth *Authenticator, ws *WSHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, allowed := range opts.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return len(opts.AllowedOrigins) == 0 && strings.HasPrefix(origin, "http://localhost:")
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/ws/play", gin.WrapF(ws.ServeWS))

	h := &handlers{service: service}
	api := r.Group("/api", auth.Identify())
	{
		api.GET("/categories", h.listCategories)
		api.GET("/categories/root", h.listRootCategories)
		api.GET("/categories/:id/children", h.listSubCategories)
		api.GET("/categories/:id/questions", h.fetchQuestions)
		api.GET("/questions/:id", h.questionDetails)
		api.GET("/results/:token", h.takeResult)
		api.GET("/leaderboard/global", h.globalLeaderboard)
	}

	authed := api.Group("", RequirePlayer(service))
	{
		authed.POST("/games", h.submitGame)
		authed.GET("/leaderboard/friends", h.friendsLeaderboard)
		authed.GET("/me/history", h.history)
		authed.GET("/me/stats", h.stats)
		authed.GET("/me/friends", h.friends)
		authed.POST("/me/friends", h.addFriend)
	}
	return r
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/config"
	"github.com/abhikumar45444/movie-night-decider/internal/handler"
	"github.com/abhikumar45444/movie-night-decider/internal/metrics"
	"github.com/abhikumar45444/movie-night-decider/internal/middleware"
)

// Setup builds the gin engine with all middleware and routes wired
func Setup(
	cfg *config.Config,
	roomHandler *handler.RoomHandler,
	voteHandler *handler.VoteHandler,
	wsHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	m *metrics.Metrics,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSOriginList()))
	r.Use(middleware.Metrics(m))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.Server.BasePath)
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.POST("/join", roomHandler.JoinRoom)
			rooms.GET("/:code/participants", roomHandler.Participants)
			rooms.GET("/:code/movies", roomHandler.Movies)
			rooms.GET("/:code/matches", roomHandler.Matches)
		}

		api.POST("/vote", voteHandler.CastVote)
		api.GET("/movies/search", roomHandler.SearchMovies)

		api.GET("/ws/:code/:userId", wsHandler.Connect)
	}

	return r
}

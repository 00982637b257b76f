package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drawdash/drawdash-server/internal/audit"
	"github.com/drawdash/drawdash-server/internal/config"
	"github.com/drawdash/drawdash-server/internal/game"
	"github.com/drawdash/drawdash-server/internal/guard"
	"github.com/drawdash/drawdash-server/internal/words"
)

func main() {
	cfg := config.Load()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	tiers := words.DefaultTiers()
	if cfg.WordsDir != "" {
		loaded, err := words.LoadDir(cfg.WordsDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.WordsDir).Msg("could not load word lists")
		}
		tiers = loaded
	}
	pool, err := words.NewPool(tiers)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid word configuration")
	}

	registry := game.NewRegistry(pool, audit.New(cfg.KafkaBroker))
	gateway := game.NewGateway(registry, guard.New())

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	allowedOrigins := []string{"*"}
	if cfg.FrontendOrigin != "" {
		allowedOrigins = []string{cfg.FrontendOrigin}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: cfg.FrontendOrigin != "",
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": registry.RoomCount()})
	})
	router.GET("/ws", gateway.HandleWS)

	log.Info().Str("port", cfg.Port).Msg("🚀 starting drawdash server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

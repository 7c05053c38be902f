package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"lexouli/internal/daily"
	"lexouli/internal/game"
	"lexouli/internal/leaderboard"
	"lexouli/internal/storage"
	"lexouli/internal/words"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Lexouli in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	dataDir := getEnvString("DATA_DIR", "data")
	if !dirExists(dataDir) {
		logInfo("Data directory %s does not exist yet, it will be created on first write", dataDir)
	}

	app, err := newApp(dataDir, getEnvString("LEADERBOARD_DB", "data/leaderboard.db"), isProduction)
	if err != nil {
		logFatal("Failed to initialise application: %v", err)
	}
	defer app.Boards.Close()

	for _, lang := range app.Dict.Languages() {
		logInfo("Dictionary %s: %v solutions per length", lang, app.Dict.Stats(lang))
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go app.purgeLoop(purgeCtx)

	startServer(app.buildRouter())
}

// newApp wires the dictionary, the daily selector, the session manager, the
// player store, and the leaderboard database.
func newApp(dataDir, leaderboardDSN string, isProduction bool) (*App, error) {
	dict, err := words.Load()
	if err != nil {
		return nil, err
	}

	boards, err := leaderboard.Open(leaderboardDSN)
	if err != nil {
		return nil, err
	}

	selector := daily.NewSelector(dict)
	return &App{
		Dict:           dict,
		Selector:       selector,
		Games:          game.NewManager(dict, selector),
		Store:          storage.NewFileStore(dataDir),
		Boards:         boards,
		IsProduction:   isProduction,
		StartTime:      time.Now(),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 365*24*time.Hour),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		LimiterMap:     make(map[string]*rate.Limiter),
		LimiterMutex:   sync.Mutex{},
	}, nil
}

// buildRouter assembles the gin engine with middleware and routes.
func (app *App) buildRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(requestIDMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	// Game state is per-cookie and changes on every accepted guess, so no
	// response may be cached.
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	router.GET(RouteState, app.stateHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.GET(RouteShare, app.shareHandler)
	router.GET(RouteLeaderboard, app.leaderboardGetHandler)
	router.POST(RouteLeaderboard, app.rateLimitMiddleware(), app.leaderboardPostHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

// purgeLoop drops expired leaderboard rows once an hour.
func (app *App) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := app.Boards.Purge(ctx, now); err != nil {
				logWarn("Leaderboard purge failed: %v", err)
			}
		}
	}
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

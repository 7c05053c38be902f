package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lexouli/internal/storage"
)

// getOrCreatePlayer retrieves the player ID from the cookie or creates a new
// one.
func (app *App) getOrCreatePlayer(c *gin.Context) string {
	playerID, err := c.Cookie(PlayerCookieName)
	if err != nil || len(playerID) < 10 {
		playerID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(PlayerCookieName, playerID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new player: %s", playerID)
	}
	return playerID
}

// playerStore scopes the shared store to the requesting player, so sessions
// and stats never leak between cookies.
func (app *App) playerStore(c *gin.Context) storage.Store {
	return storage.Namespaced(app.Store, "players/"+app.getOrCreatePlayer(c))
}

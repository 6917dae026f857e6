package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/playpong/backend/internal/config"
)

// ServeIndex serves the static client page.
func ServeIndex(cfg *config.Config) gin.HandlerFunc {
	page := filepath.Join(cfg.StaticDir, "index.html")
	return func(c *gin.Context) {
		if _, err := os.Stat(page); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "client page not found"})
			return
		}
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.File(page)
	}
}

package main

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/dileep-u-k/weather-chat/internal/api"
	"github.com/dileep-u-k/weather-chat/internal/chat"
	"github.com/dileep-u-k/weather-chat/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed web
var webAssets embed.FS

// newRouter assembles the gin engine: middleware, the query API, a health
// check and the embedded chat page as the catch-all.
func newRouter(logger zerolog.Logger, handler *chat.Handler, build BuildInfo) (*gin.Engine, error) {
	site, err := fs.Sub(webAssets, "web")
	if err != nil {
		return nil, err
	}
	index, err := fs.ReadFile(site, "index.html")
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Middleware(logger), cors.Default())

	handler.Register(engine)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Version: build.Version})
	})

	assets := http.FS(site)
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Not found."})
			return
		}
		name := strings.TrimPrefix(c.Request.URL.Path, "/")
		if name != "" && name != "index.html" {
			if info, err := fs.Stat(site, name); err == nil && !info.IsDir() {
				c.FileFromFS(name, assets)
				return
			}
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	return engine, nil
}

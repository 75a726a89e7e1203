// Package server exposes the feed endpoints over HTTP.
package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"woolfeed/config"
	"woolfeed/internal/feed"
	"woolfeed/internal/pipeline"
	"woolfeed/logger"
)

const (
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// Server holds the HTTP handlers around the pipeline.
type Server struct {
	cfg  config.Config
	pipe *pipeline.Pipeline
	log  *logger.Logger
}

// New creates a server
func New(cfg config.Config, pipe *pipeline.Pipeline) *Server {
	return &Server{
		cfg:  cfg,
		pipe: pipe,
		log:  logger.ForServer(),
	}
}

// Engine builds the gin engine with all routes registered
func (s *Server) Engine() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(corsMiddleware())
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		s.log.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("handler panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(err)})
	}))

	s.registerRoutes(r)
	return r
}

// registerRoutes attaches the feed routes. Called once per engine;
// gin panics on duplicate method+path registration.
func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/feed", s.feedXML)
	r.GET("/posts", s.postsJSON)

	// Static passthrough for the prerendered files
	r.GET("/feed.xml", s.static("feed.xml", contentTypeXML))
	r.GET("/feed.json", s.static("feed.json", contentTypeJSON))

	// Preflight for any path
	r.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

// corsMiddleware sets the allow-all CORS headers on every response
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}

// requestMode decides what a request's flags ask for. Priority:
// reset > all > incremental.
func requestMode(c *gin.Context) (reset bool, mode pipeline.Mode) {
	if c.Query("reset") == "true" {
		return true, pipeline.ModeIncremental
	}
	if c.Query("all") == "true" {
		return false, pipeline.ModeAll
	}
	return false, pipeline.ModeIncremental
}

func (s *Server) feedXML(c *gin.Context) {
	reset, mode := requestMode(c)
	if reset {
		s.reset(c)
		return
	}

	res, err := s.pipe.Run(c.Request.Context(), mode, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	xml := feed.RenderRSS(res.Posts, s.renderOptions(res, mode))

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", s.cfg.FeedMaxAge))
	c.Data(http.StatusOK, contentTypeXML, []byte(xml))
}

func (s *Server) postsJSON(c *gin.Context) {
	reset, mode := requestMode(c)
	if reset {
		s.reset(c)
		return
	}

	res, err := s.pipe.Run(c.Request.Context(), mode, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body, err := feed.RenderJSON(res.Posts, s.renderOptions(res, mode))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Randomized TTL de-synchronizes cache expiry across clients
	maxAge := 60 + rand.Intn(540)
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	c.Data(http.StatusOK, contentTypeJSON, body)
}

func (s *Server) reset(c *gin.Context) {
	if err := s.pipe.Reset(c.Request.Context()); err != nil {
		s.log.Warn().Err(err).Msg("ledger reset failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "已重置发布记录"})
}

func (s *Server) renderOptions(res *pipeline.Result, mode pipeline.Mode) feed.Options {
	return feed.Options{
		Title:        s.cfg.FeedTitle,
		Description:  s.cfg.FeedDescription,
		Link:         s.cfg.SourceURL,
		SelfLink:     "/feed",
		Language:     "zh-CN",
		ShowAll:      mode == pipeline.ModeAll,
		Incremental:  res.Incremental,
		NewCount:     res.NewCount,
		TotalTracked: res.TotalTracked,
		LastUpdate:   res.LastUpdate,
		Location:     s.cfg.Location(),
		Now:          res.Now,
	}
}

// static serves a prerendered feed file with a flat cache TTL
func (s *Server) static(name, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := os.ReadFile(filepath.Join(s.cfg.OutputDir, name))
		if err != nil {
			c.String(http.StatusNotFound, "Feed not found")
			return
		}
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", s.cfg.StaticMaxAge))
		c.Data(http.StatusOK, contentType, data)
	}
}

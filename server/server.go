// Package server exposes the HTTP surface: the sync triggers plus the read
// endpoints over the ingested listings.
package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cari_magang/config"
	"cari_magang/models"
)

type Syncer interface {
	Sync(ctx context.Context, trigger models.SyncTrigger, filters models.SyncFilters) models.SyncSummary
}

type StatsProvider interface {
	Summary(ctx context.Context) (models.StatsSummary, error)
}

type ListingReader interface {
	ListInternships(ctx context.Context, f models.ListFilters) ([]models.Internship, int64, error)
	GetInternshipByID(ctx context.Context, id int64) (*models.Internship, error)
	PopularInternships(ctx context.Context, limit int) ([]models.Internship, error)
	ListOrganizations(ctx context.Context) ([]models.OrganizationSummary, error)
}

type Server struct {
	cfg      *config.Config
	syncer   Syncer
	stats    StatsProvider
	listings ListingReader
}

func New(cfg *config.Config, syncer Syncer, stats StatsProvider, listings ListingReader) *Server {
	return &Server{cfg: cfg, syncer: syncer, stats: stats, listings: listings}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)

	api := r.Group("/api/job-board")
	{
		api.GET("", s.handleList)
		api.GET("/popular", s.handlePopular)
		api.GET("/organizations", s.handleOrganizations)
		api.GET("/stats/summary", s.handleStats)
		api.POST("/sync", s.handleSync)
		api.POST("/cron-sync", s.handleCronSync)
		api.GET("/:id", s.handleDetail)
	}

	return r
}

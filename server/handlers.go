package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cari_magang/models"
	"cari_magang/services"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "cari_magang",
	})
}

// handleSync triggers one sync run with the filters from the request body.
// An empty body means default (unfiltered) options.
func (s *Server) handleSync(c *gin.Context) {
	var filters models.SyncFilters
	if err := c.ShouldBindJSON(&filters); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body: " + err.Error(),
		})
		return
	}

	summary := s.syncer.Sync(c.Request.Context(), models.TriggerManual, filters)
	if errors.Is(summary.Err, services.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": summary.Message,
		})
		return
	}
	if !summary.Success {
		c.JSON(http.StatusInternalServerError, s.failureEnvelope(summary))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": summary.Message,
		"data": gin.H{
			"savedCount":   summary.SavedCount,
			"skippedCount": summary.SkippedCount,
		},
	})
}

// handleCronSync is hit by the external cron relay. It uses the configured
// default filter set and must stay green for the caller's health check:
// missing credentials and overlapping runs both answer 200 with zero counts.
func (s *Server) handleCronSync(c *gin.Context) {
	log.Printf("[server] cron sync triggered at %s", time.Now().Format(time.RFC3339))

	summary := s.syncer.Sync(c.Request.Context(), models.TriggerCron, s.cfg.Scheduler.Defaults)
	if errors.Is(summary.Err, services.ErrSyncInProgress) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "sync already in progress, tick skipped",
			"data":      gin.H{"savedCount": 0, "skippedCount": 0},
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}
	if !summary.Success {
		c.JSON(http.StatusInternalServerError, s.failureEnvelope(summary))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": summary.Message,
		"data": gin.H{
			"savedCount":   summary.SavedCount,
			"skippedCount": summary.SkippedCount,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	out, err := s.stats.Summary(c.Request.Context())
	if err != nil {
		log.Printf("[server] stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could not load stats summary",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func (s *Server) handleList(c *gin.Context) {
	filters := models.ListFilters{
		Search:         c.Query("search"),
		Location:       c.Query("location"),
		Organization:   c.Query("organization"),
		EmploymentType: c.Query("employment_type"),
		Page:           queryInt(c, "page", 1),
		Limit:          queryInt(c, "limit", 10),
	}
	if v := c.Query("remote"); v != "" {
		remote := v == "true"
		filters.Remote = &remote
	}

	internships, total, err := s.listings.ListInternships(c.Request.Context(), filters)
	if err != nil {
		log.Printf("[server] list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could not load internships",
		})
		return
	}

	totalPages := total / int64(filters.Limit)
	if total%int64(filters.Limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    internships,
		"pagination": models.Pagination{
			Page:       filters.Page,
			Limit:      filters.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (s *Server) handlePopular(c *gin.Context) {
	internships, err := s.listings.PopularInternships(c.Request.Context(), 3)
	if err != nil {
		log.Printf("[server] popular error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could not load popular internships",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": internships})
}

func (s *Server) handleOrganizations(c *gin.Context) {
	orgs, err := s.listings.ListOrganizations(c.Request.Context())
	if err != nil {
		log.Printf("[server] organizations error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could not load organizations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orgs})
}

func (s *Server) handleDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid internship id",
		})
		return
	}

	in, err := s.listings.GetInternshipByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[server] detail error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could not load internship",
		})
		return
	}
	if in == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "internship not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": in})
}

// failureEnvelope hides internal error detail in production; the full cause
// still lands in the logs.
func (s *Server) failureEnvelope(summary models.SyncSummary) gin.H {
	env := gin.H{
		"success": false,
		"message": "Internal server error during job sync",
	}
	if !s.cfg.IsProduction() {
		env["message"] = summary.Message
		if summary.Err != nil {
			env["error"] = summary.Err.Error()
		}
	}
	return env
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/expungepa/petition-builder/internal/cache"
	"github.com/expungepa/petition-builder/internal/config"
	"github.com/expungepa/petition-builder/internal/docket"
	"github.com/expungepa/petition-builder/internal/grades"
	"github.com/expungepa/petition-builder/internal/store"
	"github.com/expungepa/petition-builder/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, st *store.Store, db *gorm.DB, cache cache.Cache, gradeClient *grades.Client, searcher *docket.Searcher, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(st, db, cache, gradeClient, searcher, logger, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// Criminal record
		api.POST("/record", h.IngestRecord)
		api.GET("/record", h.GetRecord)
		api.PATCH("/record/:type/:id", h.EditEntity)
		api.POST("/record/cases/:id/editing", h.ToggleCaseEditing)
		api.PATCH("/record/sentences/:id/length", h.EditSentenceLength)
		api.POST("/record/entities", h.AddEntity)

		// Petitions
		api.GET("/petitions", h.ListPetitions)
		api.POST("/petitions", h.CreatePetition)
		api.PUT("/petitions/editing", h.SetEditingPetition)
		api.POST("/petitions/generate", h.GeneratePackage)
		api.PATCH("/petitions/:id", h.UpdatePetition)
		api.DELETE("/petitions/:id", h.DeletePetition)
		api.POST("/petitions/:id/cases", h.AddCaseToPetition)

		// Grade predictions
		api.POST("/charges/:id/grade", h.PredictGrade)
		api.GET("/grades/:chargeId", h.GetGrades)

		// Source records
		api.GET("/sourcerecords", h.ListSourceRecords)
		api.POST("/sourcerecords", h.MergeSourceRecords)

		// Docket search
		api.POST("/search", h.SearchDockets)

		// Cache stats
		api.GET("/cache/stats", h.CacheStats)
	}
}

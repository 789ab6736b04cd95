package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/expungepa/petition-builder/internal/cache"
	"github.com/expungepa/petition-builder/internal/config"
	"github.com/expungepa/petition-builder/internal/database"
	"github.com/expungepa/petition-builder/internal/docket"
	"github.com/expungepa/petition-builder/internal/grades"
	"github.com/expungepa/petition-builder/internal/normalize"
	"github.com/expungepa/petition-builder/internal/store"
	"github.com/expungepa/petition-builder/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	store    *store.Store
	db       *gorm.DB
	cache    cache.Cache
	grades   *grades.Client
	searcher *docket.Searcher
	logger   *logger.Logger
	cfg      *config.Config
}

// NewHandlers creates a new handlers instance. searcher may be nil when
// no browser is available; search endpoints then return 503.
func NewHandlers(st *store.Store, db *gorm.DB, cache cache.Cache, gradeClient *grades.Client, searcher *docket.Searcher, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		store:    st,
		db:       db,
		cache:    cache,
		grades:   gradeClient,
		searcher: searcher,
		logger:   logger,
		cfg:      cfg,
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&database.RecordUpload{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// IngestRecord accepts a raw criminal-record document and merges it
// into the record slice.
func (h *Handlers) IngestRecord(c *gin.Context) {
	var record store.Document
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid record document: " + err.Error(),
		})
		return
	}

	upload := &database.RecordUpload{
		Source:     c.DefaultQuery("source", "upload"),
		UploadTime: time.Now(),
		IPAddress:  c.ClientIP(),
	}
	if raw, err := json.Marshal(record); err == nil {
		upload.RawDocument = string(raw)
	}

	state := h.store.Dispatch(store.RecordFetchSucceeded{Record: record})

	upload.Success = true
	upload.CaseCount = len(state.CRecord.Cases)
	if docketNumber, ok := record["docket_number"].(string); ok {
		upload.DocketNumber = docketNumber
	}
	if err := h.db.Create(upload).Error; err != nil {
		h.logger.Error("Failed to log record upload", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.CRecord,
	})
}

// GetRecord returns the criminal-record slice snapshot.
func (h *Handlers) GetRecord(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.store.State().CRecord,
	})
}

// EditEntity replaces one field of one record entity.
func (h *Handlers) EditEntity(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value any    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.EditEntityValue{
		EntityType: c.Param("type"),
		EntityID:   c.Param("id"),
		Field:      req.Field,
		Value:      req.Value,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.CRecord,
	})
}

// ToggleCaseEditing flips a case's editing flag.
func (h *Handlers) ToggleCaseEditing(c *gin.Context) {
	state := h.store.Dispatch(store.ToggleEditing{CaseID: c.Param("id")})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.CRecord,
	})
}

// EditSentenceLength edits one field of a sentence's length sub-object.
func (h *Handlers) EditSentenceLength(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value any    `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.EditSentenceLength{
		SentenceID: c.Param("id"),
		Field:      req.Field,
		Value:      req.Value,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.CRecord,
	})
}

// AddEntity inserts a new entity and links it to its parent.
func (h *Handlers) AddEntity(c *gin.Context) {
	var req struct {
		EntityType      string         `json:"entity_type" binding:"required"`
		Entity          store.Document `json:"entity" binding:"required"`
		ParentID        string         `json:"parent_id" binding:"required"`
		ParentType      string         `json:"parent_type" binding:"required"`
		ParentListField string         `json:"parent_list_field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.AddEntity{
		EntityType:      req.EntityType,
		Entity:          req.Entity,
		ParentID:        req.ParentID,
		ParentType:      req.ParentType,
		ParentListField: req.ParentListField,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.CRecord,
	})
}

// ListPetitions returns the petition slice snapshot.
func (h *Handlers) ListPetitions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.store.State().Petitions,
	})
}

// CreatePetition creates a petition from a seed document.
func (h *Handlers) CreatePetition(c *gin.Context) {
	var seed store.Document
	if err := c.ShouldBindJSON(&seed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid petition seed: " + err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.NewPetition{Petition: seed})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    state.Petitions.PetitionCollection,
	})
}

// UpdatePetition deep-merges a partial update into a petition.
func (h *Handlers) UpdatePetition(c *gin.Context) {
	var update store.Document
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid petition update: " + err.Error(),
		})
		return
	}

	petitionID := c.Param("id")
	state := h.store.Dispatch(store.UpdatePetition{PetitionID: petitionID, Update: update})

	if _, ok := state.Petitions.PetitionCollection.Entities.Petitions[petitionID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Petition not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.Petitions.PetitionCollection,
	})
}

// DeletePetition removes a petition. Deleting an absent id still
// succeeds.
func (h *Handlers) DeletePetition(c *gin.Context) {
	state := h.store.Dispatch(store.DeletePetition{PetitionID: c.Param("id")})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.Petitions.PetitionCollection,
	})
}

// AddCaseToPetition attaches a case, and optionally its first charge,
// to a petition.
func (h *Handlers) AddCaseToPetition(c *gin.Context) {
	var req struct {
		CaseID       string         `json:"case_id" binding:"required"`
		CaseDefaults store.Document `json:"case_defaults"`
		ChargeInfo   store.Document `json:"charge_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.NewCaseForPetition{
		PetitionID:   c.Param("id"),
		CaseID:       req.CaseID,
		CaseDefaults: req.CaseDefaults,
		ChargeInfo:   req.ChargeInfo,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.Petitions.PetitionCollection,
	})
}

// SetEditingPetition marks which petition the edit form is open on.
func (h *Handlers) SetEditingPetition(c *gin.Context) {
	var req struct {
		PetitionID *string `json:"petition_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.SetPetitionToEdit{PetitionID: req.PetitionID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.Petitions.PetitionCollection,
	})
}

// GeneratePackage denormalizes the petition slice back into nested
// petition documents ready for document rendering, and logs the
// generation.
func (h *Handlers) GeneratePackage(c *gin.Context) {
	state := h.store.State()
	collection := state.Petitions.PetitionCollection

	entities := normalize.Entities{
		"petitions": collection.Entities.Petitions,
		"cases":     collection.Entities.Cases,
		"charges":   collection.Entities.Charges,
	}

	petitions, err := normalize.DenormalizeList(collection.PetitionIDs, normalize.PetitionSchema, entities)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Petition collection is incomplete: " + err.Error(),
		})
		return
	}

	record := &database.GeneratedPackage{
		PetitionIDs:   strings.Join(collection.PetitionIDs, ","),
		PetitionCount: len(petitions),
		GeneratedAt:   time.Now(),
		IPAddress:     c.ClientIP(),
	}
	if err := h.db.Create(record).Error; err != nil {
		h.logger.Error("Failed to log package generation", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"petitions": petitions,
	})
}

// PredictGrade asks the grade oracle for a charge's likely grades and
// stores the answer against the charge id.
func (h *Handlers) PredictGrade(c *gin.Context) {
	chargeID := c.Param("id")

	charge, ok := h.store.State().CRecord.Charges[chargeID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Charge not found",
		})
		return
	}

	offense, _ := charge["offense"].(string)
	statute, _ := charge["statute"].(string)
	components := grades.SplitStatute(statute)

	cacheKey := cache.PredictionKey(offense, components.Title, components.Section, components.Subsection)
	if cached, found := h.cache.Get(cacheKey); found {
		if probabilities, ok := cached.(store.GradeProbabilities); ok {
			h.logger.Info("Prediction cache hit", "charge_id", chargeID)
			state := h.store.Dispatch(store.GuessGradeSucceeded{
				ChargeID:           chargeID,
				GradeProbabilities: probabilities,
			})
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"data":      state.Grades[chargeID].SortedByProbability(),
				"fromCache": true,
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.GradeServiceTimeout)
	defer cancel()

	probabilities, err := h.grades.Predict(ctx, offense, components)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Grade prediction failed: " + err.Error(),
		})
		return
	}

	h.cache.Set(cacheKey, probabilities)

	state := h.store.Dispatch(store.GuessGradeSucceeded{
		ChargeID:           chargeID,
		GradeProbabilities: probabilities,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      state.Grades[chargeID].SortedByProbability(),
		"fromCache": false,
	})
}

// GetGrades returns a charge's predictions sorted by descending
// probability.
func (h *Handlers) GetGrades(c *gin.Context) {
	chargeID := c.Param("chargeId")

	probabilities, ok := h.store.State().Grades[chargeID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "No predictions for charge",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    probabilities.SortedByProbability(),
	})
}

// ListSourceRecords returns the source records in insertion order.
func (h *Handlers) ListSourceRecords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    store.SourceRecordList(h.store.State().SourceRecords),
	})
}

// MergeSourceRecords merges fetched source records into the slice.
func (h *Handlers) MergeSourceRecords(c *gin.Context) {
	var req struct {
		SourceRecords []store.Document `json:"source_records" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	state := h.store.Dispatch(store.SourceRecordsFetchSucceeded{SourceRecords: req.SourceRecords})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    state.SourceRecords,
	})
}

// SearchDockets runs a UJS portal search by participant name and
// returns the raw case documents found.
func (h *Handlers) SearchDockets(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Docket search is not available",
		})
		return
	}

	var query docket.NameQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	cacheKey := cache.SearchKey(query.FirstName, query.LastName, query.DOB)
	if cached, found := h.cache.Get(cacheKey); found {
		h.logger.Info("Search cache hit", "key", cacheKey)
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"data":      cached,
			"fromCache": true,
		})
		return
	}

	searchLog := &database.SearchLog{
		FirstName: query.FirstName,
		LastName:  query.LastName,
		DOB:       query.DOB,
		QueryTime: time.Now(),
		IPAddress: c.ClientIP(),
	}

	cases, _, err := h.searcher.SearchByName(c.Request.Context(), query)
	if err != nil {
		searchLog.Success = false
		searchLog.ErrorMessage = err.Error()
		h.db.Create(searchLog)

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Docket search failed: " + err.Error(),
		})
		return
	}

	searchLog.Success = true
	searchLog.ResultCount = len(cases)
	h.db.Create(searchLog)

	h.cache.Set(cacheKey, cases)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      cases,
		"fromCache": false,
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	stats := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
	"muscledynamics/workout-builder/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ObjectID         string   `json:"_id,omitempty"`
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Force            string   `json:"force,omitempty"`
	Level            string   `json:"level,omitempty"`
	Mechanic         string   `json:"mechanic,omitempty"`
	Equipment        string   `json:"equipment,omitempty"`
	Category         string   `json:"category,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Instructions     []string `json:"instructions,omitempty"`
	Images           []string `json:"images,omitempty"`
	ImageURLs        []string `json:"imageUrls,omitempty"`
}

// ExerciseListResponse is the body of GET /api/exercises.
type ExerciseListResponse struct {
	Exercises  []ExerciseResponse `json:"exercises"`
	Pagination domain.Pagination  `json:"pagination"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:               ex.ID,
		Name:             ex.Name,
		Force:            ex.Force,
		Level:            ex.Level,
		Mechanic:         ex.Mechanic,
		Equipment:        ex.Equipment,
		Category:         ex.Category,
		PrimaryMuscles:   ex.PrimaryMuscles,
		SecondaryMuscles: ex.SecondaryMuscles,
		Instructions:     ex.Instructions,
		Images:           ex.Images,
		ImageURLs:        ex.ImageURLs,
	}
	if !ex.ObjectID.IsZero() {
		resp.ObjectID = ex.ObjectID.Hex()
	}
	if resp.PrimaryMuscles == nil {
		resp.PrimaryMuscles = []string{}
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// filterFromQuery reads the filter dimensions. List parameters may be
// repeated, comma-separated, or both.
func filterFromQuery(c *gin.Context) domain.ExerciseFilter {
	return domain.ExerciseFilter{
		Muscles:   domain.SplitList(c.QueryArray("muscles")...),
		Equipment: domain.SplitList(c.QueryArray("equipment")...),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
	}
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List exercises
// @Description Filters by muscles (primary or secondary), equipment, category and name search; sorted by name and paginated.
// @Tags Exercises
// @Produce json
// @Param muscles query string false "Comma-separated muscle groups"
// @Param equipment query string false "Comma-separated equipment"
// @Param category query string false "Exact category"
// @Param search query string false "Case-insensitive name substring"
// @Param limit query int false "Page size" default(50)
// @Param page query int false "1-based page" default(1)
// @Success 200 {object} ExerciseListResponse
// @Failure 500 {object} gin.H "Error fetching exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	page, limit := service.CoercePagination(c.Query("page"), c.Query("limit"))

	result, err := h.exerciseService.ListExercises(c.Request.Context(), filterFromQuery(c), page, limit)
	if err != nil {
		h.serverFault(c, "Error fetching exercises", err)
		return
	}

	c.JSON(http.StatusOK, ExerciseListResponse{
		Exercises:  MapExercisesToResponse(result.Exercises),
		Pagination: result.Pagination,
	})
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Storage key or dataset id"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 500 {object} gin.H "Error fetching exercise"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found")
			return
		}
		h.serverFault(c, "Error fetching exercise", err)
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetEquipment godoc
// @Summary Distinct equipment values
// @Tags Exercises
// @Produce json
// @Success 200 {array} string
// @Router /exercises/equipment [get]
func (h *ExerciseHandler) GetEquipment(c *gin.Context) {
	equipment, err := h.exerciseService.EquipmentVocabulary(c.Request.Context())
	if err != nil {
		h.serverFault(c, "Error fetching equipment", err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// GetMuscles godoc
// @Summary Sorted distinct muscle groups across primary and secondary muscles
// @Tags Exercises
// @Produce json
// @Success 200 {array} string
// @Router /exercises/muscles [get]
func (h *ExerciseHandler) GetMuscles(c *gin.Context) {
	muscles, err := h.exerciseService.MuscleVocabulary(c.Request.Context())
	if err != nil {
		h.serverFault(c, "Error fetching muscles", err)
		return
	}
	c.JSON(http.StatusOK, muscles)
}

// GetRandomExercises godoc
// @Summary Uniform random sample of the whole collection
// @Tags Exercises
// @Produce json
// @Param count path int true "Sample size" default(10)
// @Success 200 {array} ExerciseResponse
// @Router /exercises/random/{count} [get]
func (h *ExerciseHandler) GetRandomExercises(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		count = service.DefaultSampleSize
	}

	exercises, err := h.exerciseService.RandomExercises(c.Request.Context(), count)
	if err != nil {
		h.serverFault(c, "Error fetching random exercises", err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// serverFault logs the cause and answers 500 with a generic message plus detail.
func (h *ExerciseHandler) serverFault(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		zap.String("path", c.Request.URL.Path),
		zap.String("requestId", c.GetString(ContextRequestIDKey)),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
}

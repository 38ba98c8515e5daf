package api

import (
	"alcyxob/coachplan/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressHandler holds the workout logging and aggregation service.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- Request Structs ---

// LogEntryRequest is one set (or rest-day marker) in a submitted
// workout. Numeric fields are pointers: absent means not recorded, and
// absent fields are excluded from averages.
type LogEntryRequest struct {
	ExerciseID      *string    `json:"exerciseId"`
	WeekID          string     `json:"weekId" binding:"required"`
	DayID           string     `json:"dayId" binding:"required"`
	Weight          *float64   `json:"weight"`
	Reps            *int       `json:"reps"`
	TimeSeconds     *int       `json:"timeSeconds"`
	RPE             *float64   `json:"rpe"`
	WorkoutDuration *int       `json:"workoutDurationSeconds"`
	IsRestDay       bool       `json:"isRestDay"`
	CompletedAt     *time.Time `json:"completedAt"`
}

type LogWorkoutRequest struct {
	Entries []LogEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

type UpdateLogRequest struct {
	Weight      *float64 `json:"weight"`
	Reps        *int     `json:"reps"`
	TimeSeconds *int     `json:"timeSeconds"`
	RPE         *float64 `json:"rpe"`
}

// --- Handler Methods ---

// GetMyPrograms godoc
// @Summary List programs assigned to the requesting client
// @Tags Progress
// @Security BearerAuth
// @Success 200 {array} domain.Program
// @Router /my/programs [get]
func (h *ProgressHandler) GetMyPrograms(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}

	programs, err := h.progressService.GetClientPrograms(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// LogWorkout godoc
// @Summary Submit completed sets for one program
// @Description One log row is written per entry; the batch commits or
// @Description fails as a whole.
// @Tags Progress
// @Security BearerAuth
// @Param log body LogWorkoutRequest true "Workout entries"
// @Success 201 {array} domain.ProgressLog
// @Router /my/programs/{programId}/logs [post]
func (h *ProgressHandler) LogWorkout(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries := make([]service.LogEntry, 0, len(req.Entries))
	for i, raw := range req.Entries {
		weekID, err := primitive.ObjectIDFromHex(raw.WeekID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid weekId format in entry %d", i))
			return
		}
		dayID, err := primitive.ObjectIDFromHex(raw.DayID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid dayId format in entry %d", i))
			return
		}
		entry := service.LogEntry{
			WeekID:          weekID,
			DayID:           dayID,
			Weight:          raw.Weight,
			Reps:            raw.Reps,
			TimeSeconds:     raw.TimeSeconds,
			RPE:             raw.RPE,
			WorkoutDuration: raw.WorkoutDuration,
			IsRestDay:       raw.IsRestDay,
		}
		if raw.ExerciseID != nil {
			exerciseID, err := primitive.ObjectIDFromHex(*raw.ExerciseID)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid exerciseId format in entry %d", i))
				return
			}
			entry.ExerciseID = &exerciseID
		}
		if raw.CompletedAt != nil {
			entry.CompletedAt = *raw.CompletedAt
		}
		entries = append(entries, entry)
	}

	logs, err := h.progressService.LogWorkout(c.Request.Context(), actor, programID, entries)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, logs)
}

// UpdateLog godoc
// @Summary Amend a previously submitted log row
// @Tags Progress
// @Security BearerAuth
// @Router /my/logs/{logId} [patch]
func (h *ProgressHandler) UpdateLog(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	logID, ok := parseObjectIDParam(c, "logId")
	if !ok {
		return
	}
	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	logRow, err := h.progressService.UpdateLog(c.Request.Context(), actor, logID, service.LogUpdate{
		Weight:      req.Weight,
		Reps:        req.Reps,
		TimeSeconds: req.TimeSeconds,
		RPE:         req.RPE,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logRow)
}

// Summarize godoc
// @Summary Aggregated progress view over a program
// @Description Groups logs by week, then by (day, completion date),
// @Description then by exercise. Pass ?weekId= to narrow to one week.
// @Tags Progress
// @Security BearerAuth
// @Success 200 {object} service.ProgramSummary
// @Router /programs/{programId}/progress [get]
func (h *ProgressHandler) Summarize(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	var weekID *primitive.ObjectID
	if raw := c.Query("weekId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid weekId format")
			return
		}
		weekID = &id
	}

	summary, err := h.progressService.Summarize(c.Request.Context(), actor, programID, weekID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

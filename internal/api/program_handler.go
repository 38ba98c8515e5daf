package api

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the structural editing service dependency.
type ProgramHandler struct {
	editorService service.EditorService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(editorService service.EditorService) *ProgramHandler {
	return &ProgramHandler{editorService: editorService}
}

// --- Request Structs ---

type CreateProgramRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CoachID     *string `json:"coachId"` // admins only; coaches author for themselves
	ClientID    *string `json:"clientId"`
	TotalWeeks  int     `json:"totalWeeks" binding:"required,min=1"`
}

type UpdateProgramRequest struct {
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	Status         *domain.ProgramStatus `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	ClientID       *string               `json:"clientId"`
	CompletedWeeks *int                  `json:"completedWeeks"`
}

type SetTotalWeeksRequest struct {
	TotalWeeks int `json:"totalWeeks" binding:"required,min=1"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type AssignmentParamsRequest struct {
	Sets        int                `json:"sets" binding:"required,min=1"`
	Target      domain.Target      `json:"target" binding:"required"`
	Measurement domain.Measurement `json:"measurement" binding:"required"`
}

type AttachExerciseRequest struct {
	ExerciseID  *string                 `json:"exerciseId"` // either an existing entry...
	Name        string                  `json:"name"`       // ...or first-or-create by name
	Description string                  `json:"description"`
	VideoURL    string                  `json:"videoUrl"`
	Params      AssignmentParamsRequest `json:"params" binding:"required"`
}

// --- Program Methods ---

// CreateProgram godoc
// @Summary Create a new training program
// @Tags Programs
// @Security BearerAuth
// @Param program body CreateProgramRequest true "Program details"
// @Success 201 {object} domain.Program
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.CreateProgramInput{
		Title:       req.Title,
		Description: req.Description,
		TotalWeeks:  req.TotalWeeks,
	}
	if req.CoachID != nil {
		id, err := primitive.ObjectIDFromHex(*req.CoachID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid coachId format")
			return
		}
		input.CoachID = &id
	}
	if req.ClientID != nil {
		id, err := primitive.ObjectIDFromHex(*req.ClientID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		input.ClientID = &id
	}

	program, err := h.editorService.CreateProgram(c.Request.Context(), actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// GetProgram godoc
// @Summary Get one program with its full week/day tree
// @Tags Programs
// @Security BearerAuth
// @Success 200 {object} service.ProgramTree
// @Router /programs/{programId} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	tree, err := h.editorService.GetProgram(c.Request.Context(), actor, programID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetMyPrograms godoc
// @Summary List programs authored by the requesting coach
// @Tags Programs
// @Security BearerAuth
// @Success 200 {array} domain.Program
// @Router /programs [get]
func (h *ProgramHandler) GetMyPrograms(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	coachID := actor.ID
	// Admins may inspect another coach's list.
	if raw := c.Query("coachId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid coachId format")
			return
		}
		coachID = id
	}

	programs, err := h.editorService.GetCoachPrograms(c.Request.Context(), actor, coachID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// UpdateProgram godoc
// @Summary Update program metadata, status or assigned client
// @Tags Programs
// @Security BearerAuth
// @Router /programs/{programId} [patch]
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.UpdateProgramInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		CompletedWeeks: req.CompletedWeeks,
	}
	if req.ClientID != nil {
		id, err := primitive.ObjectIDFromHex(*req.ClientID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		input.ClientID = &id
	}

	program, err := h.editorService.UpdateProgram(c.Request.Context(), actor, programID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// SetTotalWeeks godoc
// @Summary Resize the planned week capacity of a program
// @Tags Programs
// @Security BearerAuth
// @Router /programs/{programId}/total-weeks [put]
func (h *ProgramHandler) SetTotalWeeks(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req SetTotalWeeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.editorService.SetTotalWeeks(c.Request.Context(), actor, programID, req.TotalWeeks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram godoc
// @Summary Delete a program and its whole structural tree
// @Tags Programs
// @Security BearerAuth
// @Router /programs/{programId} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}

	if err := h.editorService.DeleteProgram(c.Request.Context(), actor, programID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Week Methods ---

// AddWeek appends a week at the end of the program.
func (h *ProgramHandler) AddWeek(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	week, err := h.editorService.AddWeek(c.Request.Context(), actor, programID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, week)
}

func (h *ProgramHandler) UpdateWeek(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	weekID, ok := parseObjectIDParam(c, "weekId")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	week, err := h.editorService.UpdateWeek(c.Request.Context(), actor, programID, weekID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *ProgramHandler) RemoveWeek(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	weekID, ok := parseObjectIDParam(c, "weekId")
	if !ok {
		return
	}

	if err := h.editorService.RemoveWeek(c.Request.Context(), actor, programID, weekID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DuplicateWeek copies a week (days and assignments included) and
// places the copy directly after its source.
func (h *ProgramHandler) DuplicateWeek(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	weekID, ok := parseObjectIDParam(c, "weekId")
	if !ok {
		return
	}

	week, err := h.editorService.DuplicateWeek(c.Request.Context(), actor, programID, weekID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, week)
}

// --- Day Methods ---

func (h *ProgramHandler) AddDay(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	weekID, ok := parseObjectIDParam(c, "weekId")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	day, err := h.editorService.AddDay(c.Request.Context(), actor, programID, weekID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

func (h *ProgramHandler) UpdateDay(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	day, err := h.editorService.UpdateDay(c.Request.Context(), actor, programID, dayID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *ProgramHandler) RemoveDay(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}

	if err := h.editorService.RemoveDay(c.Request.Context(), actor, programID, dayID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) DuplicateDay(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}

	day, err := h.editorService.DuplicateDay(c.Request.Context(), actor, programID, dayID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

// --- Assignment Methods ---

// AttachExercise adds one exercise assignment to a day. The exercise is
// referenced by id or resolved first-or-create by name.
func (h *ProgramHandler) AttachExercise(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	var req AttachExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.ExerciseID == nil && req.Name == "" {
		abortWithError(c, http.StatusBadRequest, "Either exerciseId or name is required")
		return
	}

	input := service.AttachExerciseInput{
		Name:        req.Name,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Params: service.AssignmentParams{
			Sets:        req.Params.Sets,
			Target:      req.Params.Target,
			Measurement: req.Params.Measurement,
		},
	}
	if req.ExerciseID != nil {
		id, err := primitive.ObjectIDFromHex(*req.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
			return
		}
		input.ExerciseID = &id
	}

	day, err := h.editorService.AttachExercise(c.Request.Context(), actor, programID, dayID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

func (h *ProgramHandler) UpdateAssignment(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "assignmentId")
	if !ok {
		return
	}
	var req AssignmentParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	day, err := h.editorService.UpdateAssignment(c.Request.Context(), actor, programID, dayID, assignmentID, service.AssignmentParams{
		Sets:        req.Sets,
		Target:      req.Target,
		Measurement: req.Measurement,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *ProgramHandler) DetachExercise(c *gin.Context) {
	actor, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not identify requesting user")
		return
	}
	programID, ok := parseObjectIDParam(c, "programId")
	if !ok {
		return
	}
	dayID, ok := parseObjectIDParam(c, "dayId")
	if !ok {
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.editorService.DetachExercise(c.Request.Context(), actor, programID, dayID, assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

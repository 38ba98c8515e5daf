package api

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/service"
	"alcyxob/coachplan/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	editorService service.EditorService,
	progressService service.ProgressService,
	catalogService service.CatalogService,
	rosterService service.RosterService,
	blobStore storage.BlobStore,
) {

	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(editorService)
	progressHandler := NewProgressHandler(progressService)
	catalogHandler := NewCatalogHandler(catalogService, blobStore)
	rosterHandler := NewRosterHandler(rosterService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			actor, err := getActorFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to resolve actor from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": actor.ID.Hex(), "role": actor.Role})
		})

		// --- Exercise Catalog Routes ---
		// The catalog is shared: every authenticated user can read it,
		// only coaches (and admins) can change it.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", catalogHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", catalogHandler.GetExercise)
			exerciseGroup.GET("/:exerciseId/video-url", catalogHandler.GetVideoDownloadURL)
			exerciseGroup.PUT("/:exerciseId", RoleMiddleware(domain.RoleCoach), catalogHandler.UpdateExercise)
			exerciseGroup.POST("/upload-url", RoleMiddleware(domain.RoleCoach), catalogHandler.RequestUploadURL)
		}

		// --- Program Authoring Routes ---
		// Structural edits are coach/admin only; per-program ownership is
		// enforced again in the service layer.
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.GET("/:programId/progress", progressHandler.Summarize)

			coachOnly := programGroup.Group("")
			coachOnly.Use(RoleMiddleware(domain.RoleCoach))
			{
				coachOnly.POST("", programHandler.CreateProgram)
				coachOnly.GET("", programHandler.GetMyPrograms)
				coachOnly.PATCH("/:programId", programHandler.UpdateProgram)
				coachOnly.PUT("/:programId/total-weeks", programHandler.SetTotalWeeks)
				coachOnly.DELETE("/:programId", programHandler.DeleteProgram)

				coachOnly.POST("/:programId/weeks", programHandler.AddWeek)
				coachOnly.PATCH("/:programId/weeks/:weekId", programHandler.UpdateWeek)
				coachOnly.DELETE("/:programId/weeks/:weekId", programHandler.RemoveWeek)
				coachOnly.POST("/:programId/weeks/:weekId/duplicate", programHandler.DuplicateWeek)

				coachOnly.POST("/:programId/weeks/:weekId/days", programHandler.AddDay)
				coachOnly.PATCH("/:programId/days/:dayId", programHandler.UpdateDay)
				coachOnly.DELETE("/:programId/days/:dayId", programHandler.RemoveDay)
				coachOnly.POST("/:programId/days/:dayId/duplicate", programHandler.DuplicateDay)

				coachOnly.POST("/:programId/days/:dayId/exercises", programHandler.AttachExercise)
				coachOnly.PUT("/:programId/days/:dayId/exercises/:assignmentId", programHandler.UpdateAssignment)
				coachOnly.DELETE("/:programId/days/:dayId/exercises/:assignmentId", programHandler.DetachExercise)
			}
		}

		// --- Coach Roster Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/clients", rosterHandler.AddClient)
			coachGroup.GET("/clients", rosterHandler.GetClients)
		}

		// --- Client Progress Routes ---
		clientGroup := protected.Group("/my")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/programs", progressHandler.GetMyPrograms)
			clientGroup.POST("/programs/:programId/logs", progressHandler.LogWorkout)
			clientGroup.PATCH("/logs/:logId", progressHandler.UpdateLog)
		}
	}
}

package api

import (
	"net/http"

	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. Everything except the
// auth endpoints requires a valid session JWT.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	workoutService service.WorkoutService,
	clientService service.ClientService,
	glossaryService service.GlossaryService,
	profileService service.ProfileService,
	backupService service.BackupService,
	billingService service.BillingService,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)
	clientHandler := NewClientHandler(clientService)
	glossaryHandler := NewGlossaryHandler(glossaryService)
	profileHandler := NewProfileHandler(profileService)
	backupHandler := NewBackupHandler(backupService)
	billingHandler := NewBillingHandler(billingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkoutByID)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/reorder", workoutHandler.ReorderWorkout)
			workoutGroup.GET("/:id/pdf", workoutHandler.ExportWorkoutPDF)
		}

		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("", clientHandler.GetClients)
			clientGroup.GET("/:id", clientHandler.GetClientByID)
			clientGroup.PUT("/:id", clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", clientHandler.DeleteClient)
		}

		glossaryGroup := protected.Group("/glossary")
		{
			glossaryGroup.POST("", glossaryHandler.CreateEntry)
			glossaryGroup.GET("", glossaryHandler.GetEntries)
			glossaryGroup.GET("/:id", glossaryHandler.GetEntryByID)
			glossaryGroup.PUT("/:id", glossaryHandler.UpdateEntry)
			glossaryGroup.DELETE("/:id", glossaryHandler.DeleteEntry)
		}

		profileGroup := protected.Group("/coach-profile")
		{
			profileGroup.POST("", profileHandler.CreateProfile)
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.GET("/:id", profileHandler.GetProfileByID)
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.PUT("/:id", profileHandler.UpdateProfile)
			profileGroup.POST("/logo-upload-url", profileHandler.LogoUploadURL)
		}

		backupGroup := protected.Group("/backup")
		{
			backupGroup.GET("/export", backupHandler.Export)
			backupGroup.POST("/import", backupHandler.Import)
			backupGroup.POST("/cloud/export", backupHandler.CloudExport)
			backupGroup.POST("/cloud/restore", backupHandler.CloudRestore)
		}

		protected.POST("/create-checkout-session", billingHandler.CreateCheckoutSession)
		protected.GET("/subscription-success", billingHandler.SubscriptionSuccess)
	}
}

package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/nestly/backend/api/handler"
)

type Handlers struct {
	Auth       *apiHandler.AuthHandler
	Profile    *apiHandler.ProfileHandler
	Task       *apiHandler.TaskHandler
	Project    *apiHandler.ProjectHandler
	Views      *apiHandler.ViewsHandler
	Suggest    *apiHandler.SuggestHandler
	Recurrence *apiHandler.RecurrenceHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))
	r.GET("/api/v1/preferences", authMiddleware(handlers.Profile.GetPreferences))
	r.PUT("/api/v1/preferences", authMiddleware(handlers.Profile.UpdatePreferences))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Edit))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Archive))
	r.DELETE("/api/v1/tasks/{id}/permanent", authMiddleware(handlers.Task.DeletePermanently))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.Complete))
	r.POST("/api/v1/tasks/{id}/uncomplete", authMiddleware(handlers.Task.Uncomplete))
	r.POST("/api/v1/tasks/{id}/snooze", authMiddleware(handlers.Task.Snooze))
	r.POST("/api/v1/tasks/{id}/dismiss", authMiddleware(handlers.Task.Dismiss))
	r.POST("/api/v1/tasks/bulk/complete", authMiddleware(handlers.Task.BulkComplete))

	r.POST("/api/v1/tasks/{id}/convert", authMiddleware(handlers.Project.Convert))
	r.POST("/api/v1/projects/{id}/subtasks", authMiddleware(handlers.Project.AddSubtask))
	r.PUT("/api/v1/projects/{id}/subtasks/{subtaskId}", authMiddleware(handlers.Project.UpdateSubtask))

	r.GET("/api/v1/views/active", authMiddleware(handlers.Views.Active))
	r.GET("/api/v1/views/completed", authMiddleware(handlers.Views.Completed))
	r.GET("/api/v1/views/projects", authMiddleware(handlers.Views.Projects))
	r.GET("/api/v1/views/past-promises", authMiddleware(handlers.Views.PastPromises))
	r.GET("/api/v1/views/dashboard", authMiddleware(handlers.Views.Dashboard))

	r.GET("/api/v1/suggestions/daily", authMiddleware(handlers.Suggest.Daily))
	r.POST("/api/v1/recurrence/evaluate", authMiddleware(handlers.Recurrence.Evaluate))

	return r
}

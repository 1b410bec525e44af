package tasks

import (
	"codeberg.org/taskflow/server/taskflow/tasks"
	"github.com/gin-gonic/gin"
)

// registers task routes on a group that is already authenticated
func RegisterRoutes(router *gin.RouterGroup, service *tasks.Service) {
	tasksGroup := router.Group("/tasks")
	{
		tasksGroup.GET("", ListTasksHandler(service))
		tasksGroup.POST("", CreateTaskHandler(service))
		tasksGroup.GET("/:id", GetTaskHandler(service))
		tasksGroup.PUT("/:id", UpdateTaskHandler(service))
		tasksGroup.DELETE("/:id", DeleteTaskHandler(service))
		tasksGroup.PATCH("/:id/status", UpdateStatusHandler(service))
	}

	router.GET("/stats", StatsHandler(service))
}

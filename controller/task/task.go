package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todochat/apperr"
	"todochat/dto"
	"todochat/model"
	"todochat/services"
)

func TaskController(router *gin.Engine, taskService *services.TaskService) {
	routes := router.Group("/tasks")
	{
		routes.GET("", func(c *gin.Context) {
			ListTasks(c, taskService)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, taskService)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateTask(c, taskService)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTask(c, taskService)
		})
	}
}

func ListTasks(c *gin.Context, taskService *services.TaskService) {
	tasks, err := taskService.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, taskService *services.TaskService) {
	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := taskService.Create(c.Request.Context(), taskReq.Title, taskReq.UserEmail, taskReq.UserName)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, taskService *services.TaskService) {
	var updateReq dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := taskService.Update(c.Request.Context(), c.Param("id"), model.TaskUpdate{
		Title:     updateReq.Title,
		Completed: updateReq.Completed,
	})
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, taskService *services.TaskService) {
	if err := taskService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Success: true})
}

package routes

import (
	"carewatch/controllers"

	"github.com/gin-gonic/gin"
)

// SetupSubjectRoutes configures subject profile management endpoints
func SetupSubjectRoutes(router *gin.RouterGroup, subjectController *controllers.SubjectController) {
	subjects := router.Group("/subjects")
	{
		subjects.GET("/", subjectController.ListSubjects)
		subjects.POST("/", subjectController.CreateSubject)
		subjects.GET("/:subjectId", subjectController.GetSubject)
		subjects.PUT("/:subjectId", subjectController.UpdateSubject)
		subjects.DELETE("/:subjectId", subjectController.DeleteSubject)
	}
}

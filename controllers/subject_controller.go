package controllers

import (
	"carewatch/models"
	"carewatch/services"
	"carewatch/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SubjectController struct {
	subjectService *services.SubjectService
}

func NewSubjectController(subjectService *services.SubjectService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
	}
}

func (sc *SubjectController) CreateSubject(c *gin.Context) {
	var req models.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	subject, err := sc.subjectService.CreateSubject(c.Request.Context(), req)
	if err != nil {
		logrus.Errorf("Create subject failed: %v", err)
		utils.ServiceErrorResponse(c, err, "Failed to create subject")
		return
	}

	utils.CreatedResponse(c, "Subject created", subject)
}

func (sc *SubjectController) UpdateSubject(c *gin.Context) {
	subjectID := c.Param("subjectId")

	var req models.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	subject, err := sc.subjectService.UpdateSubject(c.Request.Context(), subjectID, req)
	if err != nil {
		logrus.Errorf("Update subject %s failed: %v", subjectID, err)
		utils.ServiceErrorResponse(c, err, "Failed to update subject")
		return
	}

	utils.SuccessResponse(c, "Subject updated", subject)
}

func (sc *SubjectController) GetSubject(c *gin.Context) {
	subjectID := c.Param("subjectId")

	subject, err := sc.subjectService.GetSubject(c.Request.Context(), subjectID)
	if err != nil {
		utils.ServiceErrorResponse(c, err, "Failed to get subject")
		return
	}

	utils.SuccessResponse(c, "Subject retrieved", subject)
}

func (sc *SubjectController) DeleteSubject(c *gin.Context) {
	subjectID := c.Param("subjectId")

	if err := sc.subjectService.DeleteSubject(c.Request.Context(), subjectID); err != nil {
		utils.ServiceErrorResponse(c, err, "Failed to delete subject")
		return
	}

	utils.SuccessResponse(c, "Subject deleted", gin.H{"subjectId": subjectID})
}

func (sc *SubjectController) ListSubjects(c *gin.Context) {
	subjects, err := sc.subjectService.ListSubjects(c.Request.Context())
	if err != nil {
		logrus.Errorf("List subjects failed: %v", err)
		utils.ServiceErrorResponse(c, err, "Failed to list subjects")
		return
	}

	utils.SuccessResponse(c, "Subjects retrieved", subjects)
}

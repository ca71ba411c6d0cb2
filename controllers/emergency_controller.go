package controllers

import (
	"time"

	"carewatch/interfaces"
	"carewatch/models"
	"carewatch/services"
	"carewatch/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type EmergencyController struct {
	emergencyService *services.EmergencyService
	locationReports  interfaces.LocationReportStore
	validator        *utils.ValidationService
}

func NewEmergencyController(emergencyService *services.EmergencyService, locationReports interfaces.LocationReportStore) *EmergencyController {
	return &EmergencyController{
		emergencyService: emergencyService,
		locationReports:  locationReports,
		validator:        utils.NewValidationService(),
	}
}

// TriggerSOS starts the emergency pipeline for a subject
func (ec *EmergencyController) TriggerSOS(c *gin.Context) {
	var req models.TriggerSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	reason := models.AlertReason{
		Kind:        req.Reason,
		ServiceName: req.ServiceName,
	}

	outcome, err := ec.emergencyService.StartEmergency(c.Request.Context(), req.SubjectID, reason)
	if err != nil {
		logrus.Errorf("Trigger SOS failed for subject %s: %v", req.SubjectID, err)
		utils.ServiceErrorResponse(c, err, "Failed to trigger emergency alert")
		return
	}

	switch {
	case outcome.Duplicate:
		utils.SuccessResponse(c, "An alert is already active for this subject", outcome)
	case outcome.Status == models.AlertStatusSent:
		utils.CreatedResponse(c, "Emergency alert sent", outcome)
	default:
		// SMS failed but the emergency call was still placed; the caller
		// must see a determinate partial-success outcome.
		utils.CreatedResponse(c, "SMS delivery failed, emergency call placed", outcome)
	}
}

// ResolveAlert marks an active alert resolved
func (ec *EmergencyController) ResolveAlert(c *gin.Context) {
	alertID := c.Param("alertId")

	var req models.ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := ec.emergencyService.StopEmergency(c.Request.Context(), alertID); err != nil {
		logrus.Errorf("Resolve alert %s failed: %v", alertID, err)
		utils.ServiceErrorResponse(c, err, "Failed to resolve alert")
		return
	}

	utils.SuccessResponse(c, "Alert resolved", gin.H{"alertId": alertID})
}

// GetSOSStatus reports whether a subject has an active alert
func (ec *EmergencyController) GetSOSStatus(c *gin.Context) {
	subjectID := c.Param("subjectId")

	status, err := ec.emergencyService.GetSOSStatus(c.Request.Context(), subjectID)
	if err != nil {
		logrus.Errorf("Get SOS status failed for subject %s: %v", subjectID, err)
		utils.ServiceErrorResponse(c, err, "Failed to get SOS status")
		return
	}

	utils.SuccessResponse(c, "SOS status retrieved", status)
}

// GetAlert returns a single alert by ID
func (ec *EmergencyController) GetAlert(c *gin.Context) {
	alertID := c.Param("alertId")

	alert, err := ec.emergencyService.GetAlert(c.Request.Context(), alertID)
	if err != nil {
		utils.ServiceErrorResponse(c, err, "Failed to get alert")
		return
	}

	utils.SuccessResponse(c, "Alert retrieved", alert)
}

// ReportLocation records a position fix pushed by a subject's device
func (ec *EmergencyController) ReportLocation(c *gin.Context) {
	var req models.ReportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sample := &models.LocationSample{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		ObtainedAt:     time.Now(),
	}

	if err := ec.locationReports.SaveReport(c.Request.Context(), req.SubjectID, sample); err != nil {
		logrus.Errorf("Save location report failed for subject %s: %v", req.SubjectID, err)
		utils.ServiceErrorResponse(c, err, "Failed to save location report")
		return
	}

	utils.SuccessResponse(c, "Location recorded", sample)
}

// GetAlertHistory lists a subject's alerts, newest first
func (ec *EmergencyController) GetAlertHistory(c *gin.Context) {
	subjectID := c.Param("subjectId")

	alerts, err := ec.emergencyService.GetAlertHistory(c.Request.Context(), subjectID)
	if err != nil {
		logrus.Errorf("Get alert history failed for subject %s: %v", subjectID, err)
		utils.ServiceErrorResponse(c, err, "Failed to get alert history")
		return
	}

	utils.SuccessResponse(c, "Alert history retrieved", alerts)
}

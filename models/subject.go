package models

import "time"

// Subject is the senior user an alert is raised for. ContactPhone is the
// emergency contact that receives alert SMS messages; it is the hard
// precondition for any delivery attempt. EmergencyNumber optionally overrides
// the configured dial number (e.g. a local dispatch line).
type Subject struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	ContactName     string    `json:"contactName" bson:"contactName"`
	ContactPhone    string    `json:"contactPhone" bson:"contactPhone"`
	EmergencyNumber string    `json:"emergencyNumber,omitempty" bson:"emergencyNumber,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

type CreateSubjectRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	ContactName     string `json:"contactName" validate:"required,min=1,max=100"`
	ContactPhone    string `json:"contactPhone" validate:"required,phone"`
	EmergencyNumber string `json:"emergencyNumber,omitempty"`
}

type UpdateSubjectRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ContactName     string `json:"contactName,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	EmergencyNumber string `json:"emergencyNumber,omitempty"`
}

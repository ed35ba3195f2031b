package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusScheduled  = "scheduled"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusCanceled   = "canceled"
)

// ValidJobStatus reports whether s is one of the job status values.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCanceled:
		return true
	}
	return false
}

type Job struct {
	gorm.Model
	JobCode     string     `json:"job_code" gorm:"size:50;uniqueIndex;not null"`
	CustomerID  uint       `json:"customer_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Location    string     `json:"location" gorm:"size:255"`
	StartDate   time.Time  `json:"start_date" gorm:"not null"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" gorm:"size:20;not null;default:scheduled"`
	CreatedBy   uint       `json:"created_by"`
}

type JobRequest struct {
	JobCode     string `json:"job_code"`
	CustomerID  uint   `json:"customer_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
}

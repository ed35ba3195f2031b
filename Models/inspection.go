package Models

import (
	"time"

	"gorm.io/gorm"
)

type VehicleInspection struct {
	gorm.Model
	JobID              uint      `json:"job_id" gorm:"index;not null"`
	CustomerID         *uint     `json:"customer_id" gorm:"index"`
	VehicleMake        string    `json:"vehicle_make" gorm:"size:100;not null"`
	VehicleModel       string    `json:"vehicle_model" gorm:"size:100;not null"`
	RegistrationNumber string    `json:"registration_number" gorm:"size:50;not null"`
	Mileage            int64     `json:"mileage" gorm:"not null"`
	FuelLevel          int       `json:"fuel_level" gorm:"not null"` // percentage 0-100
	DamageDescription  string    `json:"damage_description" gorm:"type:text"`
	CustomerName       string    `json:"customer_name" gorm:"size:255;not null"`
	CustomerSignature  string    `json:"customer_signature" gorm:"type:text"` // base64 PNG
	InspectedBy        string    `json:"inspected_by" gorm:"size:255;not null"`
	InspectionDate     time.Time `json:"inspection_date" gorm:"not null"`

	Photos []InspectionPhoto `json:"photos,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
}

type InspectionPhoto struct {
	gorm.Model
	InspectionID uint   `json:"inspection_id" gorm:"index;not null"`
	Filename     string `json:"filename" gorm:"size:255"`
	ContentType  string `json:"content_type" gorm:"size:100"`
	Data         string `json:"data" gorm:"type:text"`      // base64 original
	Thumbnail    string `json:"thumbnail" gorm:"type:text"` // base64 JPEG, generated server-side
}

type InspectionRequest struct {
	JobID              uint                  `json:"job_id" validate:"required"`
	CustomerID         *uint                 `json:"customer_id"`
	VehicleMake        string                `json:"vehicle_make" validate:"required,max=100"`
	VehicleModel       string                `json:"vehicle_model" validate:"required,max=100"`
	RegistrationNumber string                `json:"registration_number" validate:"required,max=50"`
	Mileage            int64                 `json:"mileage" validate:"min=0"`
	FuelLevel          int                   `json:"fuel_level"`
	DamageDescription  string                `json:"damage_description"`
	CustomerName       string                `json:"customer_name" validate:"required,max=255"`
	CustomerSignature  string                `json:"customer_signature"`
	InspectedBy        string                `json:"inspected_by"`
	InspectionDate     string                `json:"inspection_date"`
	Photos             []PhotoUploadRequest  `json:"photos"`
}

type PhotoUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"` // base64, buffered fully in memory
}

// ClampFuelLevel forces the gauge reading into the 0-100 range.
func ClampFuelLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

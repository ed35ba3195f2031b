package Models

import (
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:255;not null"`
	Email   string `json:"email" gorm:"size:255"`
	Phone   string `json:"phone" gorm:"size:50"`
	Address string `json:"address" gorm:"type:text"`
	Notes   string `json:"notes" gorm:"type:text"`
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

package Models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const CompanyProfileKey = "company_profile"

// Setting is a key-value JSON document row. The company profile and SMTP
// configuration both live here.
type Setting struct {
	gorm.Model
	Key   string         `json:"key" gorm:"size:100;uniqueIndex;not null"`
	Value datatypes.JSON `json:"value"`
}

type CompanyProfile struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	VATNumber   string `json:"vat_number"`
	SMTP        *SMTPSettings `json:"smtp,omitempty"`
}

type SMTPSettings struct {
	Server    string `json:"server"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	UseTLS    bool   `json:"use_tls"`
}

// DefaultCompanyProfile is returned when no profile document has been saved.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		CompanyName: "Glacier Ice Blasting",
		Email:       "office@glacier-blasting.example",
		Phone:       "",
		Address:     "",
		VATNumber:   "",
	}
}

// LoadCompanyProfile reads the stored profile or falls back to the default.
func LoadCompanyProfile(db *gorm.DB) (CompanyProfile, error) {
	var setting Setting
	if err := db.Where("key = ?", CompanyProfileKey).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return DefaultCompanyProfile(), nil
		}
		return CompanyProfile{}, err
	}

	var profile CompanyProfile
	if err := json.Unmarshal(setting.Value, &profile); err != nil {
		return CompanyProfile{}, err
	}
	return profile, nil
}

// SaveCompanyProfile upserts the profile document.
func SaveCompanyProfile(db *gorm.DB, profile CompanyProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	var setting Setting
	err = db.Where("key = ?", CompanyProfileKey).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(&Setting{Key: CompanyProfileKey, Value: raw}).Error
	}
	if err != nil {
		return err
	}

	setting.Value = raw
	return db.Save(&setting).Error
}

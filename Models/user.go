package Models

import (
	"errors"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"size:255"`
	FullName     string `json:"full_name" gorm:"size:255"`
	Role         string `json:"role" gorm:"size:20;not null;default:staff"`
	IsApproved   bool   `json:"is_approved" gorm:"not null;default:false"`
}

// CanLogin reports whether the account is usable. Admins are implicitly
// approved; staff must be approved by an admin first.
func (u *User) CanLogin() bool {
	return u.Role == RoleAdmin || u.IsApproved
}

// Session is the server-side record behind the auth cookie. The JWT carries
// the TokenID as its jti claim; deleting the row revokes the token.
type Session struct {
	gorm.Model
	TokenID   string    `json:"token_id" gorm:"size:64;uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

// SeedAdmin creates the first admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD when no admin exists yet. There is no built-in default
// password; without the environment variables nothing is created.
func SeedAdmin() error {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return errors.New("no admin exists and ADMIN_USERNAME/ADMIN_PASSWORD are not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         RoleAdmin,
		IsApproved:   true,
	}
	return DB.Create(&admin).Error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

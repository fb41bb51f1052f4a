package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

// User is a student, teacher or admin account. Students spend RewardPoints;
// teachers accrue Balance from sales.
type User struct {
	gorm.Model
	ProfileImage        string          `gorm:"default:''" json:"profile_image"`
	Name                string          `gorm:"default:''" json:"name"`
	Email               string          `gorm:"unique;not null" json:"email"`
	Mobile              string          `gorm:"default:''" json:"mobile"`
	Role                string          `gorm:"type:varchar(20);default:'STUDENT';index" json:"role"`
	Password            string          `gorm:"not null" json:"-"`
	Bio                 string          `gorm:"type:text" json:"bio"`
	RewardPoints        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"reward_points"`
	Balance             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
	IsEmailVerified     bool            `gorm:"default:false" json:"is_email_verified"`
	IsMobileVerified    bool            `gorm:"default:false" json:"is_mobile_verified"`
	LastLogin           *time.Time      `json:"last_login"`
	FailedLoginAttempts int             `gorm:"default:0" json:"-"`
	BlockedUntil        *time.Time      `json:"-"`
	IsDeleted           bool            `gorm:"default:false" json:"-"`
}

// IsStudent reports whether the account can buy with reward points.
func (u User) IsStudent() bool { return u.Role == RoleStudent }

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

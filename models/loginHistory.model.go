package models

import "time"

// LoginHistory is one successful sign-in. Rows are never updated.
type LoginHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`
	Device    string    `gorm:"type:varchar(255)" json:"device"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (LoginHistory) TableName() string {
	return "login_history"
}

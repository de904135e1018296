package models

import "time"

// User is the property owner. The users table is managed elsewhere; this
// model exists so owners can be preloaded alongside their properties.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id" db:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name" db:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" db:"email"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at" db:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at" db:"updated_at"`
}

// TableName pins the table name.
func (User) TableName() string {
	return "users"
}

package models

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusDeleted  UserStatus = "DELETED"
)

// User represents an account of the service.
// Email uniqueness is checked by the service before insert, the index is only for lookups.
type User struct {
	Idx       int64      `json:"idx" gorm:"primaryKey;autoIncrement"`
	Email     string     `json:"email" gorm:"index;type:varchar(255);not null"`
	Password  string     `json:"-" gorm:"type:varchar(128);not null"` // hex SHA-512 digest
	Nickname  string     `json:"nickname" gorm:"type:varchar(100);not null"`
	Status    UserStatus `json:"status" gorm:"type:varchar(10);not null;default:ACTIVE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

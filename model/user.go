package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleAdmin = "admin"
	RoleHR    = "hr"
)

type User struct {
	ID                      uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Email                   string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name                    string         `json:"name" gorm:"not null;size:255"`
	Password                string         `json:"-" gorm:"not null;size:255"`
	Role                    string         `json:"role" gorm:"not null;default:hr;size:20"`
	TelegramChatID          *string        `json:"telegram_chat_id" gorm:"size:64"`
	NotificationPreferences datatypes.JSON `json:"notification_preferences"`
	CreatedAt               time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt               time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// NotificationPreferencesData controls which best-effort notifications a user receives.
type NotificationPreferencesData struct {
	Telegram     bool `json:"telegram"`
	NewResponse  bool `json:"newResponse"`
	DailyDigest  bool `json:"dailyDigest"`
	WeeklyDigest bool `json:"weeklyDigest"`
}

func DefaultNotificationPreferences() NotificationPreferencesData {
	return NotificationPreferencesData{
		Telegram:     true,
		NewResponse:  true,
		DailyDigest:  false,
		WeeklyDigest: true,
	}
}

// Preferences decodes the stored preference blob, falling back to the defaults
// when the column is empty or unreadable.
func (u *User) Preferences() NotificationPreferencesData {
	if len(u.NotificationPreferences) == 0 {
		return DefaultNotificationPreferences()
	}
	var prefs NotificationPreferencesData
	if err := json.Unmarshal(u.NotificationPreferences, &prefs); err != nil {
		return DefaultNotificationPreferences()
	}
	return prefs
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin hr"`
}

type UpdateUserRequest struct {
	Email          *string `json:"email" binding:"omitempty,email"`
	Name           *string `json:"name"`
	Password       *string `json:"password" binding:"omitempty,min=6"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin hr"`
	TelegramChatID *string `json:"telegram_chat_id"`
}

type UpdateNotificationPreferencesRequest struct {
	Telegram     *bool `json:"telegram"`
	NewResponse  *bool `json:"newResponse"`
	DailyDigest  *bool `json:"dailyDigest"`
	WeeklyDigest *bool `json:"weeklyDigest"`
}

type DeleteUserRequest struct {
	ReassignToUserID *uint `json:"reassign_to_user_id"`
}

// UserResponse is the public projection of a user, without the password hash.
type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	TelegramChatID *string   `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		TelegramChatID: u.TelegramChatID,
		CreatedAt:      u.CreatedAt,
	}
}

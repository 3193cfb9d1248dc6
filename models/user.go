package models

import (
	"time"
)

// User is the platform account record. The ID is the opaque identifier
// issued at sign-up and carried in session tokens; nothing outside the
// auth service ever sees the password hash.
type User struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"not null"`
	AvatarURL    string  `json:"avatar_url"`
	Balance      float64 `json:"balance" gorm:"not null;default:0"`
	// Version guards every balance write. A wallet update or registration
	// only commits if the version it read is still current.
	Version uint `json:"-" gorm:"not null;default:0"`

	// Dashboard stats
	MatchesPlayed int  `json:"matches_played" gorm:"default:0"`
	Wins          int  `json:"wins" gorm:"default:0"`
	Losses        int  `json:"losses" gorm:"default:0"`
	IsAdmin       bool `json:"is_admin" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserProfile is the safe dashboard view of a user.
type UserProfile struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	AvatarURL             string  `json:"avatar_url"`
	Balance               float64 `json:"balance"`
	TournamentsRegistered int64   `json:"tournaments_registered"`
	MatchesPlayed         int     `json:"matches_played"`
	Wins                  int     `json:"wins"`
	Losses                int     `json:"losses"`
	IsAdmin               bool    `json:"is_admin"`
}

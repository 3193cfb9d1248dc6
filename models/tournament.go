package models

import (
	"time"
)

const (
	TournamentOpen   = "open"
	TournamentClosed = "closed"
)

// Tournament is a scheduled competition with a paid entry.
// The roster lives in Registration rows, ordered by Slot.
type Tournament struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Game        string    `json:"game" gorm:"index;not null"`
	StartTime   time.Time `json:"start_time" gorm:"not null"`
	Prize       float64   `json:"prize" gorm:"default:0"`
	EntryFee    float64   `json:"entry_fee" gorm:"default:0"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	Status      string    `json:"status" gorm:"default:'open';index"`
	Description string    `json:"description"`
	Version     uint      `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Registrations []Registration `json:"registrations,omitempty" gorm:"foreignKey:TournamentID"`

	// Calculated, not stored
	PlayersCount int64 `json:"players_count" gorm:"-"`
}

// Registration is one roster entry. The unique index keeps a user from
// appearing twice in the same roster regardless of what the service does.
type Registration struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	TournamentID string    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_tournament_user"`
	UserID       string    `json:"user_id" gorm:"not null;uniqueIndex:idx_tournament_user"`
	UserName     string    `json:"user_name"` // denormalized at join time
	Slot         int       `json:"slot" gorm:"not null"`
	JoinedAt     time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

// MiniTournament is the listing card shape for the public tournaments page.
type MiniTournament struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Game         string    `json:"game"`
	StartTime    time.Time `json:"start_time"`
	Prize        float64   `json:"prize"`
	EntryFee     float64   `json:"entry_fee"`
	Capacity     int       `json:"capacity"`
	Status       string    `json:"status"`
	Description  string    `json:"description,omitempty"`
	PlayersCount int64     `json:"players_count"`
}

package models

import "time"

// Player represents a registered account
type Player struct {
	ID               string
	Email            string
	PasswordHash     string
	DisplayName      string
	AvatarURL        string
	Bio              string
	FavoriteCategory string
	CreatedAt        time.Time
	LastLoginAt      *time.Time
}

package repository

import (
	"database/sql"
	"errors"
	"time"

	"whisperchase/internal/database"
	"whisperchase/internal/models"

	"github.com/google/uuid"
)

// PlayerRepository handles player account database operations
type PlayerRepository struct {
	db database.DBTX
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db database.DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer inserts a new player account and returns the stored row
func (r *PlayerRepository) CreatePlayer(email, passwordHash, displayName string) (*models.Player, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO players (id, email, password_hash, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, email, passwordHash, displayName, time.Now())
	if err != nil {
		return nil, err
	}

	return r.GetPlayerByID(id)
}

// GetPlayerByID retrieves a player by id, or nil when none exists
func (r *PlayerRepository) GetPlayerByID(id string) (*models.Player, error) {
	return r.getPlayer("SELECT id, email, password_hash, display_name, avatar_url, bio, favorite_category, created_at, last_login_at FROM players WHERE id = ?", id)
}

// GetPlayerByEmail retrieves a player by email, or nil when none exists
func (r *PlayerRepository) GetPlayerByEmail(email string) (*models.Player, error) {
	return r.getPlayer("SELECT id, email, password_hash, display_name, avatar_url, bio, favorite_category, created_at, last_login_at FROM players WHERE email = ?", email)
}

func (r *PlayerRepository) getPlayer(query string, arg interface{}) (*models.Player, error) {
	player := &models.Player{}
	var avatarURL, bio, favoriteCategory sql.NullString
	var lastLoginAt sql.NullTime

	err := r.db.QueryRow(query, arg).Scan(
		&player.ID,
		&player.Email,
		&player.PasswordHash,
		&player.DisplayName,
		&avatarURL,
		&bio,
		&favoriteCategory,
		&player.CreatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	player.AvatarURL = avatarURL.String
	player.Bio = bio.String
	player.FavoriteCategory = favoriteCategory.String
	if lastLoginAt.Valid {
		player.LastLoginAt = &lastLoginAt.Time
	}

	return player, nil
}

// UpdateLastLogin stamps the player's most recent login time
func (r *PlayerRepository) UpdateLastLogin(id string, at time.Time) error {
	query := "UPDATE players SET last_login_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, at, id)
	return err
}

// UpdateProfile updates a player's editable profile fields
func (r *PlayerRepository) UpdateProfile(id, displayName, email, bio, favoriteCategory, avatarURL string) (*models.Player, error) {
	query := `
		UPDATE players
		SET display_name = ?, email = ?, bio = ?, favorite_category = ?, avatar_url = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, displayName, email, bio, favoriteCategory, avatarURL, id)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetPlayerByID(id)
}

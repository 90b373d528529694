package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"whisperchase/internal/models"
	"whisperchase/internal/security"
	"whisperchase/internal/validation"
)

// AuthService handles player accounts and bearer tokens
type AuthService struct {
	players       PlayerStore
	email         *EmailService
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(players PlayerStore, email *EmailService, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		players:       players,
		email:         email,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// SignUp creates a new player account and returns it with a fresh token.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*models.Player, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, "", err
	}

	existing, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player, err := s.players.CreatePlayer(email, passwordHash, displayName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	// Welcome email is best effort; signup succeeds without it.
	if s.email != nil && s.email.IsEnabled() {
		if err := s.email.SendWelcomeEmail(ctx, player.Email, player.DisplayName); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", player.Email, err)
		}
	}

	token, err := s.issueToken(player.ID)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// Login authenticates a player and returns a fresh token.
func (s *AuthService) Login(email, password string) (*models.Player, string, error) {
	player, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, player.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.players.UpdateLastLogin(player.ID, time.Now()); err != nil {
		log.Printf("Failed to record last login for %s: %v", player.ID, err)
	}

	token, err := s.issueToken(player.ID)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}

// VerifyToken validates a bearer token and returns the player it names.
func (s *AuthService) VerifyToken(tokenString string) (*models.Player, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	player, err := s.players.GetPlayerByID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrInvalidToken
	}

	return player, nil
}

// GetPlayer retrieves a player account by id
func (s *AuthService) GetPlayer(id string) (*models.Player, error) {
	player, err := s.players.GetPlayerByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, &NotFoundError{Entity: "player", ID: id}
	}
	return player, nil
}

// UpdateProfile updates a player's profile fields.
func (s *AuthService) UpdateProfile(id, displayName, email, bio, favoriteCategory, avatarURL string) (*models.Player, error) {
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.players.GetPlayerByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrEmailTaken
	}

	player, err := s.players.UpdateProfile(id, displayName, email, bio, favoriteCategory, avatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "player", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return player, nil
}

func (s *AuthService) issueToken(playerID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"whisperchase/internal/models"
	"whisperchase/internal/service"
	"whisperchase/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type playerResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"display_name"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	Bio              string     `json:"bio,omitempty"`
	FavoriteCategory string     `json:"favorite_category,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

type authResponse struct {
	Token  string         `json:"token"`
	Player playerResponse `json:"player"`
}

func toPlayerResponse(p *models.Player) playerResponse {
	return playerResponse{
		ID:               p.ID,
		Email:            p.Email,
		DisplayName:      p.DisplayName,
		AvatarURL:        p.AvatarURL,
		Bio:              p.Bio,
		FavoriteCategory: p.FavoriteCategory,
		CreatedAt:        p.CreatedAt,
		LastLoginAt:      p.LastLoginAt,
	}
}

// SignUp creates a new player account
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	player, token, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create account", "SignUp failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{Token: token, Player: toPlayerResponse(player)})
}

// Login authenticates a player
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	player, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", "Login failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{Token: token, Player: toPlayerResponse(player)})
}

// Me returns the authenticated player's account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, toPlayerResponse(player))
}

type updateProfileRequest struct {
	DisplayName      string `json:"display_name"`
	Email            string `json:"email"`
	Bio              string `json:"bio"`
	FavoriteCategory string `json:"favorite_category"`
	AvatarURL        string `json:"avatar_url"`
}

// UpdateProfile updates the authenticated player's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	updated, err := h.authService.UpdateProfile(player.ID, req.DisplayName, req.Email, req.Bio, req.FavoriteCategory, req.AvatarURL)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		default:
			respondWithGameError(w, "Failed to update profile", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, toPlayerResponse(updated))
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/armaan/kanban-be/internal/auth"
	"github.com/armaan/kanban-be/internal/services"
)

// AuthHandler handles HTTP requests for registration, login, and profile
// access.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (p RegisterPayload) validate() []string {
	var problems []string
	switch n := len(p.Username); {
	case n == 0:
		problems = append(problems, "username: must not be blank")
	case n < 3 || n > 50:
		problems = append(problems, "username: must be between 3 and 50 characters")
	}
	switch {
	case p.Email == "":
		problems = append(problems, "email: must not be blank")
	case !looksLikeEmail(p.Email):
		problems = append(problems, "email: must be a valid email address")
	}
	switch n := len(p.Password); {
	case n == 0:
		problems = append(problems, "password: must not be blank")
	case n < 8:
		problems = append(problems, "password: must be at least 8 characters")
	}
	return problems
}

func (p LoginPayload) validate() []string {
	var problems []string
	if p.UsernameOrEmail == "" {
		problems = append(problems, "usernameOrEmail: must not be blank")
	}
	if p.Password == "" {
		problems = append(problems, "password: must not be blank")
	}
	return problems
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, r, []string{"body: must be valid JSON"})
		return
	}
	if problems := payload.validate(); len(problems) > 0 {
		log.Warn().Strs("problems", problems).Msg("Registration payload rejected")
		writeValidationError(w, r, problems)
		return
	}

	log.Info().Str("username", payload.Username).Msg("Registration request received")

	resp, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		AvatarURL: payload.AvatarURL,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, r, []string{"body: must be valid JSON"})
		return
	}
	if problems := payload.validate(); len(problems) > 0 {
		writeValidationError(w, r, problems)
		return
	}

	log.Info().Str("principal", payload.UsernameOrEmail).Msg("Login request received")

	resp, err := h.service.Login(r.Context(), payload.UsernameOrEmail, payload.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout acknowledges a logout request. Tokens are stateless, so there is no
// server-side session to invalidate; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Logout request received")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Profile returns the full profile of the authenticated user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication Failed", "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), user.Username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Dashboard greets the authenticated user.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication Failed", "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome to dashboard, %s!", user.Username),
	})
}

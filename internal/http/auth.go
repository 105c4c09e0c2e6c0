package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"moneebunny/internal/core"
)

type ctxKey int

const userIDKey ctxKey = 0

const tokenTTL = 24 * time.Hour

// Auth issues and verifies bearer tokens and owns the register/login
// endpoints.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

func (a *Auth) issueToken(u core.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"userId": u.ID,
		"email":  u.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Auth) verifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", errors.New("token missing user id")
	}
	return userID, nil
}

// Middleware authenticates the bearer token and stores the user id in
// the request context. Missing token is 401, bad token is 403.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		_, raw, found := strings.Cut(header, " ")
		if !found || raw == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		userID, err := a.verifyToken(raw)
		if err != nil {
			writeError(w, http.StatusForbidden, "Failed to authenticate token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authedUser returns the user id the middleware stored.
func authedUser(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (req registerRequest) validate() map[string]string {
	fields := make(map[string]string)
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		fields["email"] = "invalid email address"
	}
	if len(req.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["firstName"] = "first name is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.store.GetUserByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		h.serverError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.serverError(w, r, fmt.Errorf("hash password: %w", err))
		return
	}

	now := time.Now()
	user := core.User{
		ID:           core.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		h.serverError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, userDTO(user), "User registered successfully")
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.serverError(w, r, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.auth.issueToken(user, time.Now())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"user":  userDTO(user),
		"token": token,
	}, "Login successful")
}

// Logout handles POST /api/auth/logout. Tokens are stateless, the
// client just discards its copy.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Logout successful"})
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wastewise-backend/internal/middleware"
	"wastewise-backend/internal/models"
	"wastewise-backend/pkg/utils"
)

// Authenticator signs in the control-room operator.
type Authenticator struct {
	operator *models.Operator
	secret   string
	ttl      time.Duration
}

// NewAuthenticator hashes the operator password. With an empty password
// sign-in is disabled.
func NewAuthenticator(email, name, password, secret string, ttl time.Duration) (*Authenticator, error) {
	a := &Authenticator{secret: secret, ttl: ttl}
	if password == "" {
		return a, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a.operator = &models.Operator{
		ID:       "operator",
		Email:    strings.ToLower(email),
		Password: string(hash),
		Name:     name,
		Role:     "admin",
	}
	return a, nil
}

// Login handles POST /api/auth/login
func Login(auth *Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, http.StatusUnauthorized, "Unauthorized")
			return
		}

		op := auth.operator
		if op == nil || !strings.EqualFold(req.Email, op.Email) ||
			bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(req.Password)) != nil {
			log.Warnf("failed login for %s", req.Email)
			utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		token, err := middleware.IssueToken(auth.secret, middleware.UserClaims{
			UserID: op.ID,
			Email:  op.Email,
			Role:   op.Role,
		}, auth.ttl)
		if err != nil {
			log.Errorf("failed to create token: %v", err)
			utils.Error(w, http.StatusInternalServerError, MsgInternal)
			return
		}

		log.Infof("login successful: %s", op.Email)
		utils.Success(w, models.LoginResponse{
			Token: token,
			User:  op.ToOperatorResponse(),
		})
	}
}

// Package auth turns an operator password into a role and a short-lived
// capability token, and checks that token on privileged requests.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

// HashPassword returns the lowercase SHA-256 hex digest used for MASTER_HASH and ADMIN_HASH
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Service resolves passwords to roles and issues tokens
type Service struct {
	masterHash string
	adminHash  string
	tokens     *TokenIssuer
}

// NewService creates a login service. Empty reference hashes never match.
func NewService(masterHash, adminHash string, tokens *TokenIssuer) *Service {
	return &Service{
		masterHash: strings.ToLower(masterHash),
		adminHash:  strings.ToLower(adminHash),
		tokens:     tokens,
	}
}

// ResolveRole compares the password digest against the reference hashes.
// Master is checked first so a shared hash resolves to master.
func (s *Service) ResolveRole(password string) (domain.Role, error) {
	if password == "" {
		return "", domain.ErrPasswordRequired
	}
	digest := HashPassword(password)
	if matches(digest, s.masterHash) {
		return domain.RoleMaster, nil
	}
	if matches(digest, s.adminHash) {
		return domain.RoleAdmin, nil
	}
	return "", domain.ErrInvalidCredentials
}

// Login verifies the password and issues a token for the resolved role
func (s *Service) Login(ctx context.Context, password string) (*LoginResult, error) {
	log := logger.FromContext(ctx)

	role, err := s.ResolveRole(password)
	if err != nil {
		log.Warn(LogMsgLoginFailed, "error", err)
		return nil, err
	}

	tok, expiresAt, err := s.tokens.Issue(role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info(LogMsgLoginSucceeded, "role", role)
	return &LoginResult{Role: role, Token: tok, ExpiresAt: expiresAt}, nil
}

// Tokens exposes the issuer for transports that verify tokens themselves
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

func matches(digest, reference string) bool {
	if reference == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(reference)) == 1
}

package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadKey = errors.New("invalid api key")

// APIKeyService checks the X-API-Key header against a bcrypt hash.
// An empty hash disables the check.
type APIKeyService struct {
	Hash []byte
}

func NewAPIKeyService(hash string) *APIKeyService {
	return &APIKeyService{Hash: []byte(strings.TrimSpace(hash))}
}

func (s *APIKeyService) Enabled() bool { return s != nil && len(s.Hash) > 0 }

func (s *APIKeyService) Check(key string) error {
	if !s.Enabled() {
		return nil
	}
	if key == "" || bcrypt.CompareHashAndPassword(s.Hash, []byte(key)) != nil {
		return ErrBadKey
	}
	return nil
}

// HashAPIKey produces the value for API_KEY_HASH.
func HashAPIKey(key string, cost int) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("api key must not be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

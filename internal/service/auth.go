// Package service contains application services for authentication and messages.
package service

import (
	"time"

	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/motd/internal/crypto"
	"github.com/and161185/motd/internal/model"
)

// AuthService turns a (userid, one-time code) pair into a verdict.
type AuthService interface {
	// Verify checks code against userID's shared secret at time now.
	Verify(userID, code string, now time.Time) model.Verdict
}

// CredentialLookup resolves a userid to its shared secret.
type CredentialLookup interface {
	Lookup(userID string) (secret string, ok bool)
}

// CodeVerifier checks a one-time code for a secret at a given instant.
type CodeVerifier interface {
	Verify(secret, presented string, now time.Time) bool
}

type AuthServiceImpl struct {
	creds CredentialLookup
	codes CodeVerifier
	decoy string
	log   *zap.Logger
}

// NewAuthService constructs AuthService. A random decoy secret is generated
// so unknown userids go through the same code check as known ones.
func NewAuthService(creds CredentialLookup, codes CodeVerifier, log *zap.Logger) (*AuthServiceImpl, error) {
	decoy, err := pkgcrypto.RandBytes(32)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{creds: creds, codes: codes, decoy: string(decoy), log: log}, nil
}

// Verify returns Authenticated(userID) or Rejected(invalid-credentials).
// Unknown user and wrong code yield the same verdict.
func (s *AuthServiceImpl) Verify(userID, code string, now time.Time) model.Verdict {
	secret, known := s.creds.Lookup(userID)
	if !known {
		secret = s.decoy
	}
	valid := s.codes.Verify(secret, code, now)

	if known && valid {
		return model.Authenticated(userID)
	}
	cause := "bad code"
	if !known {
		cause = "unknown user"
	}
	s.log.Debug("write rejected", zap.String("cause", cause), zap.Int64("step", pkgcrypto.Step(now)))
	return model.Rejected(model.RejectInvalidCredentials)
}

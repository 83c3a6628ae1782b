// Package credentials holds the static userid -> shared secret table.
package credentials

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/and161185/motd/internal/errs"
	"github.com/and161185/motd/internal/model"
)

// Store is an immutable lookup table built once at startup.
type Store struct {
	secrets map[string]string
}

// New copies users into a new Store. Empty userids or secrets are rejected.
func New(users map[string]string) (*Store, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users configured", errs.ErrInvalidConfig)
	}
	secrets := make(map[string]string, len(users))
	for id, secret := range users {
		if id == "" || secret == "" {
			return nil, fmt.Errorf("%w: empty userid or secret", errs.ErrInvalidConfig)
		}
		if strings.Contains(id, ":") {
			return nil, fmt.Errorf("%w: userid %q contains ':'", errs.ErrInvalidConfig, id)
		}
		secrets[id] = secret
	}
	return &Store{secrets: secrets}, nil
}

// Parse builds a Store from "userid:secret" entries. The secret is everything
// after the first colon.
func Parse(entries []string) (*Store, error) {
	users := make(map[string]string, len(entries))
	for i, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		id, secret, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("%w: users[%d] is not userid:secret", errs.ErrInvalidConfig, i)
		}
		if _, dup := users[id]; dup {
			return nil, fmt.Errorf("%w: duplicate userid %q", errs.ErrInvalidConfig, id)
		}
		users[id] = secret
	}
	return New(users)
}

// Lookup returns the shared secret for userID.
func (s *Store) Lookup(userID string) (string, bool) {
	secret, ok := s.secrets[userID]
	return secret, ok
}

// UserIDs returns the configured userids in sorted order.
func (s *Store) UserIDs() []string {
	ids := lo.Keys(s.secrets)
	sort.Strings(ids)
	return ids
}

// Users returns the configured users in userid order.
func (s *Store) Users() []model.User {
	return lo.Map(s.UserIDs(), func(id string, _ int) model.User {
		return model.User{ID: id, SharedSecret: s.secrets[id]}
	})
}

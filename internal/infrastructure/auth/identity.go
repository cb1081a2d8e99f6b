package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"habithero-service/internal/domain/service"
)

// SessionIdentity binds the batch processes to one configured user. The app is
// single-user; scheduled jobs have no request to take the user from, so they
// read it from configuration instead.
type SessionIdentity struct {
	userID uuid.UUID
	bound  bool
}

// NewSessionIdentity parses the configured user id. An empty value yields an
// unbound identity and every CurrentUserID call fails.
func NewSessionIdentity(sessionUserID string) (*SessionIdentity, error) {
	if sessionUserID == "" {
		return &SessionIdentity{}, nil
	}
	userID, err := uuid.Parse(sessionUserID)
	if err != nil {
		return nil, fmt.Errorf("invalid session user id: %w", err)
	}
	return &SessionIdentity{userID: userID, bound: true}, nil
}

func (i *SessionIdentity) CurrentUserID(context.Context) (uuid.UUID, error) {
	if !i.bound {
		return uuid.Nil, fmt.Errorf("no signed-in user")
	}
	return i.userID, nil
}

var _ service.Identity = (*SessionIdentity)(nil)

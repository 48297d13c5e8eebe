package models

import "github.com/google/uuid"

// Identity is the owner key for carts and orders: either an authenticated
// user or a guest browser session, never both and never neither. The
// constructors are the only way to build one, so the invalid combinations
// cannot be represented.
type Identity struct {
	userID    uuid.UUID
	sessionID string
}

// UserIdentity returns the identity of an authenticated user.
func UserIdentity(userID uuid.UUID) Identity {
	return Identity{userID: userID}
}

// GuestIdentity returns the identity of a guest session.
func GuestIdentity(sessionID string) Identity {
	return Identity{sessionID: sessionID}
}

// IsGuest reports whether the identity belongs to a guest session.
func (i Identity) IsGuest() bool {
	return i.userID == uuid.Nil
}

// IsZero reports whether the identity carries neither a user nor a session.
func (i Identity) IsZero() bool {
	return i.userID == uuid.Nil && i.sessionID == ""
}

// UserID returns the user id and true for authenticated identities.
func (i Identity) UserID() (uuid.UUID, bool) {
	if i.userID == uuid.Nil {
		return uuid.Nil, false
	}
	return i.userID, true
}

// SessionID returns the session id and true for guest identities.
func (i Identity) SessionID() (string, bool) {
	if i.userID != uuid.Nil || i.sessionID == "" {
		return "", false
	}
	return i.sessionID, true
}

// Key returns the storage key suffix for this identity, e.g.
// "user:<uuid>" or "guest:<session-id>".
func (i Identity) Key() string {
	if i.userID != uuid.Nil {
		return "user:" + i.userID.String()
	}
	return "guest:" + i.sessionID
}

func (i Identity) String() string {
	return i.Key()
}

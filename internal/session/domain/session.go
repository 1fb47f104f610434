package domain

import (
	"time"

	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
)

// Session is a single opaque bearer credential. The token is both primary key
// and secret; expiry is fixed at creation and never extended. There is no
// revoked flag: revocation is row deletion.
type Session struct {
	Token     string
	UserID    userdomain.ID
	ExpiresAt time.Time
}

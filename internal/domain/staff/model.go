package staff

import (
	"time"

	"github.com/google/uuid"
)

// User is a clinician account. Usernames are stored lowercased; the
// password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the directory information a user fills in after
// registering an account. The messenger core never authenticates;
// profiles only feed the users directory and the friends page.
type Profile struct {
	ID        uuid.UUID
	Username  Username
	FirstName string
	LastName  string
	Age       int
	Job       string
	CreatedAt time.Time
}

package chat

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

type Message struct {
	ID        string
	SenderID  string
	Content   string
	CreatedAt time.Time

	// Joined fields
	SenderRole      user.Role
	SenderFirstName *string
	SenderLastName  *string
}

// SenderName is "Admin" for administrators, otherwise the sender's full name.
func (m Message) SenderName() string {
	if m.SenderRole == user.RoleAdmin {
		return "Admin"
	}
	var first, last string
	if m.SenderFirstName != nil {
		first = *m.SenderFirstName
	}
	if m.SenderLastName != nil {
		last = *m.SenderLastName
	}
	p := user.Profile{FirstName: first, LastName: last}
	if name := p.FullName(); name != "" {
		return name
	}
	return "Unknown"
}

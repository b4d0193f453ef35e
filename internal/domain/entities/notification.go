package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Notification is an in-app message for a wallet owner
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Owner     Owner                  `json:"owner"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	ReadAt    null.Time              `json:"readAt"`
	CreatedAt time.Time              `json:"createdAt"`
}

// MailMessage is a templated email. When To is empty the mail worker
// resolves the address from Owner.
type MailMessage struct {
	To      string   `json:"to,omitempty"`
	Owner   Owner    `json:"owner"`
	Subject string   `json:"subject"`
	Lines   []string `json:"lines"`
}

package domain

import "time"

type Notification struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Text       string            `json:"text"`
	Seen       bool              `json:"seen"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

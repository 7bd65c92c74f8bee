package session

import (
	"time"

	"github.com/MrEthical07/sessionauth/permission"
)

// Record is the server-side proof that a token is still live. It is stored
// under the token it belongs to; Token and TTL are filled on read.
type Record struct {
	Token        string          `json:"-"`
	Subject      string          `json:"user_id"`
	DisplayName  string          `json:"user_name"`
	Alias        string          `json:"email,omitempty"`
	Role         permission.Role `json:"role"`
	ClientIP     string          `json:"ip_address,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`

	// TTL is the remaining lifetime observed when the record was read.
	TTL time.Duration `json:"-"`
	// Refreshed reports that this read extended the record's TTL.
	Refreshed bool `json:"-"`
}

// Stats summarizes every live record.
type Stats struct {
	Total             int            `json:"total_sessions"`
	ByRole            map[string]int `json:"sessions_by_role"`
	AverageTTLSeconds int64          `json:"average_ttl"`
}

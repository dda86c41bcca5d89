package twitter

import (
	"time"
)

// Twitter API v2 response types

type Tweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Lang      string `json:"lang,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Includes struct {
	Users []User `json:"users,omitempty"`
}

type SearchResponse struct {
	Data     []Tweet  `json:"data,omitempty"`
	Includes Includes `json:"includes,omitempty"`
}

// UserHandles maps author ids to usernames from the expanded user list.
func (r *SearchResponse) UserHandles() map[string]string {
	handles := make(map[string]string, len(r.Includes.Users))
	for _, u := range r.Includes.Users {
		handles[u.ID] = u.Username
	}
	return handles
}

// RateLimit carries the quota metadata reported on every search response.
// Limited is set when the request itself was rejected with HTTP 429.
type RateLimit struct {
	Limited   bool
	Remaining int
	Reset     time.Time
}

package entity

import "time"

type Chat struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	ImageURL      string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Admins        []string  `json:"admins" firestore:"admins"`
	Members       []string  `json:"members" firestore:"members"`
	Participants  []string  `json:"-" firestore:"participants"` // admins ∪ members, kept for array-contains queries
	IsDeleted     bool      `json:"is_deleted" firestore:"isDeleted"`
	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedBy     string    `json:"created_by" firestore:"createdBy"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) IsAdmin(userID string) bool {
	return containsID(c.Admins, userID)
}

func (c *Chat) IsMember(userID string) bool {
	return c.IsAdmin(userID) || containsID(c.Members, userID)
}

// Everyone returns admins followed by members, without duplicates.
func (c *Chat) Everyone() []string {
	out := make([]string, 0, len(c.Admins)+len(c.Members))
	seen := make(map[string]struct{}, cap(out))
	for _, group := range [][]string{c.Admins, c.Members} {
		for _, id := range group {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// SyncParticipants must be called after Admins or Members change.
func (c *Chat) SyncParticipants() {
	c.Participants = c.Everyone()
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AddMembers appends ids that are not already in the chat and returns the ones added.
func (c *Chat) AddMembers(ids []string) []string {
	var added []string
	for _, id := range ids {
		if id == "" || c.IsMember(id) {
			continue
		}
		c.Members = append(c.Members, id)
		added = append(added, id)
	}
	c.SyncParticipants()
	return added
}

func (c *Chat) RemoveMember(id string) {
	c.Admins = removeID(c.Admins, id)
	c.Members = removeID(c.Members, id)
	c.SyncParticipants()
}

// Promote moves an existing member into the admin list.
func (c *Chat) Promote(id string) {
	if c.IsAdmin(id) {
		return
	}
	c.Members = removeID(c.Members, id)
	c.Admins = append(c.Admins, id)
	c.SyncParticipants()
}

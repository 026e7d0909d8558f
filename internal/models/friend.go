package models

import "time"

// Friend request lifecycle. Accepted and rejected are terminal.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// FriendRequest relates an unordered pair of users. UserLo and UserHi
// are the pair in lexicographic order; the store enforces uniqueness on
// them so at most one record can ever relate two users.
type FriendRequest struct {
	ID         string     `db:"id" json:"id"`
	UserLo     string     `db:"user_lo" json:"-"`
	UserHi     string     `db:"user_hi" json:"-"`
	FromUserID string     `db:"from_user_id" json:"fromUserId"`
	ToUserID   string     `db:"to_user_id" json:"toUserId"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	AcceptedAt *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
}

// FriendSummary is a denormalized snapshot of the counterpart's profile
// stored under the owner's side of a friendship. Both directions are
// written in the same transaction that accepts the request.
type FriendSummary struct {
	OwnerID         string    `db:"owner_id" json:"-"`
	FriendID        string    `db:"friend_id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	Mobile          string    `db:"mobile" json:"mobile"`
	FriendCreatedAt time.Time `db:"friend_created_at" json:"createdAt"`
	AddedAt         time.Time `db:"added_at" json:"addedAt"`
}

// OrderPair returns the unordered pair (a, b) in its canonical order.
func OrderPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

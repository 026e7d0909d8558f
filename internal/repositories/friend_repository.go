package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"comall/internal/models"
)

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrRequestExists    = errors.New("friend request already exists")
	ErrNoPendingRequest = errors.New("no pending friend request found")
)

// FriendRepository holds the request ledger and the friendship graph.
type FriendRepository interface {
	SendRequest(ctx context.Context, fromUserID, toUserID string) (models.FriendRequest, error)
	ListPending(ctx context.Context, userID string) ([]models.FriendRequest, error)
	Accept(ctx context.Context, user, friend models.User) error
	Reject(ctx context.Context, byUserID, counterpartID string) error
	ListFriends(ctx context.Context, userID string) ([]models.FriendSummary, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// SendRequest records a pending request between two users. The store's
// unique constraint on the ordered pair rejects a second request for
// the same two users in either direction, whatever its status.
func (r *FriendRepo) SendRequest(ctx context.Context, fromUserID, toUserID string) (models.FriendRequest, error) {
	if fromUserID == toUserID {
		return models.FriendRequest{}, ErrSelfRequest
	}
	lo, hi := models.OrderPair(fromUserID, toUserID)

	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friend_requests (id, user_lo, user_hi, from_user_id, to_user_id, status)
        VALUES ($1, $2, $3, $4, $5, 'pending')
        RETURNING id, user_lo, user_hi, from_user_id, to_user_id, status, created_at, accepted_at`,
		uuid.NewString(), lo, hi, fromUserID, toUserID).
		StructScan(&req)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.FriendRequest{}, ErrRequestExists
		}
		return models.FriendRequest{}, err
	}
	return req, nil
}

// ListPending returns pending requests addressed to the user. Requests
// the user sent are never included.
func (r *FriendRepo) ListPending(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `SELECT id, user_lo, user_hi, from_user_id, to_user_id, status, created_at, accepted_at
        FROM friend_requests WHERE to_user_id=$1 AND status='pending'`, userID)
	return reqs, err
}

// Accept transitions the pending request between the two users to
// accepted and materializes the friendship in both directions, all in
// one transaction. The status update is conditional on status='pending'
// so a concurrent accept of the same request loses the race cleanly;
// if either snapshot upsert fails the transition is rolled back.
func (r *FriendRepo) Accept(ctx context.Context, user, friend models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lo, hi := models.OrderPair(user.ID, friend.ID)
	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx, `UPDATE friend_requests SET status='accepted', accepted_at=$1
        WHERE user_lo=$2 AND user_hi=$3 AND status='pending'`, now, lo, hi)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoPendingRequest
	}

	if err := upsertFriendship(ctx, tx, user.ID, friend, now); err != nil {
		return err
	}
	if err := upsertFriendship(ctx, tx, friend.ID, user, now); err != nil {
		return err
	}

	return tx.Commit()
}

// upsertFriendship writes one direction of a friendship as a
// last-write-wins snapshot of the counterpart's profile.
func upsertFriendship(ctx context.Context, tx *sqlx.Tx, ownerID string, friend models.User, addedAt time.Time) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO friendships (owner_id, friend_id, name, username, email, mobile, friend_created_at, added_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (owner_id, friend_id) DO UPDATE SET
            name = EXCLUDED.name,
            username = EXCLUDED.username,
            email = EXCLUDED.email,
            mobile = EXCLUDED.mobile,
            friend_created_at = EXCLUDED.friend_created_at,
            added_at = EXCLUDED.added_at`,
		ownerID, friend.ID, friend.Name, friend.Username, friend.Email, friend.Mobile, friend.CreatedAt, addedAt)
	return err
}

// Reject transitions the pending request between the two users to
// rejected. Same conditional-update guard as Accept.
func (r *FriendRepo) Reject(ctx context.Context, byUserID, counterpartID string) error {
	lo, hi := models.OrderPair(byUserID, counterpartID)
	res, err := r.db.ExecContext(ctx, `UPDATE friend_requests SET status='rejected'
        WHERE user_lo=$1 AND user_hi=$2 AND status='pending'`, lo, hi)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// ListFriends returns the snapshots stored under the user. A user with
// no friendships gets an empty list, not an error.
func (r *FriendRepo) ListFriends(ctx context.Context, userID string) ([]models.FriendSummary, error) {
	var friends []models.FriendSummary
	err := r.db.SelectContext(ctx, &friends, `SELECT owner_id, friend_id, name, username, email, mobile, friend_created_at, added_at
        FROM friendships WHERE owner_id=$1 ORDER BY added_at DESC`, userID)
	return friends, err
}

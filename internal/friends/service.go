// Package friends implements the friend-request workflow: the three-state
// relationship between any two accounts (strangers, one pending request,
// mutual friends) and the reads that go with it.
package friends

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// AccountStore defines the account persistence the workflow needs.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error)
	Search(ctx context.Context, query string, exclude primitive.ObjectID) ([]models.Account, error)
	AddPendingRequest(ctx context.Context, target, requester primitive.ObjectID) error
	RemovePendingRequest(ctx context.Context, target, requester primitive.ObjectID) error
	AddFriend(ctx context.Context, id, friendID primitive.ObjectID) error
	RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) error
}

// Service runs the friend-request workflow against the account store.
//
// Friendship is recorded on both accounts and a pending request on one, so
// accept and unfriend span two documents. The store gives single-document
// atomicity only: a failure between the writes leaves a half-applied state
// that is surfaced to the caller, not rolled back. All set fields are written
// with $addToSet/$pull, which keeps concurrent duplicate writes benign.
type Service struct {
	accounts AccountStore
}

func NewService(accounts AccountStore) *Service {
	return &Service{accounts: accounts}
}

// SendRequest records a directional friend request from requester to target.
// No reciprocal record is created; the request stays one-way until accepted.
func (s *Service) SendRequest(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return models.ErrSelfRequest
	}

	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	requester, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return models.ErrInvalidArgument
	}

	if contains(target.Friends, requester) {
		return models.ErrAlreadyFriends
	}
	if contains(target.PendingRequests, requester) {
		return models.ErrDuplicateRequest
	}

	return s.accounts.AddPendingRequest(ctx, target.ID, requester)
}

// AcceptRequest resolves a pending request into mutual friendship. The three
// writes hit two documents; a failure partway through is returned as-is with
// no compensation.
func (s *Service) AcceptRequest(ctx context.Context, accepterID, requesterID string) error {
	accepter, err := s.accounts.GetByID(ctx, accepterID)
	if err != nil {
		return err
	}
	requester, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return models.ErrNoSuchRequest
	}
	if !contains(accepter.PendingRequests, requester) {
		return models.ErrNoSuchRequest
	}

	if err := s.accounts.AddFriend(ctx, accepter.ID, requester); err != nil {
		return fmt.Errorf("accept friend: %w", err)
	}
	if err := s.accounts.RemovePendingRequest(ctx, accepter.ID, requester); err != nil {
		return fmt.Errorf("accept friend: %w", err)
	}
	if err := s.accounts.AddFriend(ctx, requester, accepter.ID); err != nil {
		return fmt.Errorf("accept friend: %w", err)
	}
	return nil
}

// RejectRequest removes a pending request with no further effect.
func (s *Service) RejectRequest(ctx context.Context, rejecterID, requesterID string) error {
	rejecter, err := s.accounts.GetByID(ctx, rejecterID)
	if err != nil {
		return err
	}
	requester, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return models.ErrNoSuchRequest
	}
	if !contains(rejecter.PendingRequests, requester) {
		return models.ErrNoSuchRequest
	}
	return s.accounts.RemovePendingRequest(ctx, rejecter.ID, requester)
}

// Unfriend removes the friendship from both sides, mirroring AcceptRequest's
// two-document write pattern and sharing its partial-failure caveat.
func (s *Service) Unfriend(ctx context.Context, accountID, friendID string) error {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	friend, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return models.ErrNotFriends
	}
	if !contains(acct.Friends, friend) {
		return models.ErrNotFriends
	}

	if err := s.accounts.RemoveFriend(ctx, acct.ID, friend); err != nil {
		return fmt.Errorf("unfriend: %w", err)
	}
	if err := s.accounts.RemoveFriend(ctx, friend, acct.ID); err != nil {
		return fmt.Errorf("unfriend: %w", err)
	}
	return nil
}

// Search returns up to 10 accounts matching query by username or email
// substring, excluding the caller. An empty query returns an empty result
// without touching the store.
func (s *Service) Search(ctx context.Context, callerID, query string) ([]models.AccountSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.AccountSummary{}, nil
	}
	caller, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, models.ErrInvalidArgument
	}

	accts, err := s.accounts.Search(ctx, query, caller)
	if err != nil {
		return nil, err
	}
	out := make([]models.AccountSummary, 0, len(accts))
	for i := range accts {
		out = append(out, accts[i].Summary())
	}
	return out, nil
}

// Profile returns an account with friends and pending requests populated to
// public summaries. Credential material never leaves the store layer.
func (s *Service) Profile(ctx context.Context, id string) (*models.Profile, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	friends, err := s.summaries(ctx, acct.Friends)
	if err != nil {
		return nil, err
	}
	pending, err := s.summaries(ctx, acct.PendingRequests)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:              acct.ID,
		Username:        acct.Username,
		Email:           acct.Email,
		Friends:         friends,
		PendingRequests: pending,
		Events:          acct.Events,
		CreatedAt:       acct.CreatedAt,
	}, nil
}

func (s *Service) summaries(ctx context.Context, ids []primitive.ObjectID) ([]models.AccountSummary, error) {
	accts, err := s.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.AccountSummary, 0, len(accts))
	for i := range accts {
		out = append(out, accts[i].Summary())
	}
	return out, nil
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

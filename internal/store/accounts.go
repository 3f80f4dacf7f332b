package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// SearchLimit caps the number of accounts a single search returns.
const SearchLimit = 10

// AccountStore handles account CRUD and relationship field mutations in MongoDB.
type AccountStore struct {
	col *mongo.Collection
}

func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{col: db.Collection("accounts")}
}

// EnsureIndexes creates the unique username and email indexes.
func (s *AccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	return nil
}

// Insert creates a new account. Email is stored lowercased; array fields are
// initialized empty so later $addToSet/$pull updates always have a target.
func (s *AccountStore) Insert(ctx context.Context, acct *models.Account) (*models.Account, error) {
	now := time.Now()
	acct.Email = strings.ToLower(acct.Email)
	acct.CreatedAt = now
	acct.UpdatedAt = now
	if acct.Friends == nil {
		acct.Friends = []primitive.ObjectID{}
	}
	if acct.PendingRequests == nil {
		acct.PendingRequests = []primitive.ObjectID{}
	}
	if acct.Events == nil {
		acct.Events = []primitive.ObjectID{}
	}

	res, err := s.col.InsertOne(ctx, acct)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("account insert: %w", err)
	}
	acct.ID = res.InsertedID.(primitive.ObjectID)
	return acct, nil
}

// GetByID returns the account with the given hex id.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var acct models.Account
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&acct); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("account get: %w", err)
	}
	return &acct, nil
}

// GetByEmail returns the account registered under email (case-insensitive).
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acct models.Account
	err := s.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&acct)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("account get by email: %w", err)
	}
	return &acct, nil
}

// GetByIDs returns the accounts whose ids appear in ids, in no particular order.
func (s *AccountStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	if len(ids) == 0 {
		return []models.Account{}, nil
	}
	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("accounts get by ids: %w", err)
	}
	defer cur.Close(ctx)

	var accts []models.Account
	if err := cur.All(ctx, &accts); err != nil {
		return nil, fmt.Errorf("accounts decode: %w", err)
	}
	return accts, nil
}

// Search returns up to SearchLimit accounts whose username or email contains
// query (case-insensitive), excluding the account with id exclude.
func (s *AccountStore) Search(ctx context.Context, query string, exclude primitive.ObjectID) ([]models.Account, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"_id": bson.M{"$ne": exclude},
		"$or": []bson.M{
			{"username": pattern},
			{"email": pattern},
		},
	}
	opts := options.Find().SetLimit(SearchLimit)
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("account search: %w", err)
	}
	defer cur.Close(ctx)

	var accts []models.Account
	if err := cur.All(ctx, &accts); err != nil {
		return nil, fmt.Errorf("account search decode: %w", err)
	}
	return accts, nil
}

// AddPendingRequest records an inbound friend request on the target account.
// $addToSet keeps a concurrent duplicate send benign.
func (s *AccountStore) AddPendingRequest(ctx context.Context, target, requester primitive.ObjectID) error {
	return s.updateByID(ctx, target, bson.M{"$addToSet": bson.M{"pending_requests": requester}})
}

// RemovePendingRequest clears an inbound friend request from the target account.
func (s *AccountStore) RemovePendingRequest(ctx context.Context, target, requester primitive.ObjectID) error {
	return s.updateByID(ctx, target, bson.M{"$pull": bson.M{"pending_requests": requester}})
}

// AddFriend adds friendID to one side's friend set.
func (s *AccountStore) AddFriend(ctx context.Context, id, friendID primitive.ObjectID) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"friends": friendID}})
}

// RemoveFriend removes friendID from one side's friend set.
func (s *AccountStore) RemoveFriend(ctx context.Context, id, friendID primitive.ObjectID) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"friends": friendID}})
}

// AddEventToMany appends eventID to the events set of every listed account.
func (s *AccountStore) AddEventToMany(ctx context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	if len(accountIDs) == 0 {
		return nil
	}
	_, err := s.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": accountIDs}},
		bson.M{
			"$addToSet": bson.M{"events": eventID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("accounts add event: %w", err)
	}
	return nil
}

// RemoveEventFromMany removes eventID from the events set of every listed account.
func (s *AccountStore) RemoveEventFromMany(ctx context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	if len(accountIDs) == 0 {
		return nil
	}
	_, err := s.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": accountIDs}},
		bson.M{
			"$pull": bson.M{"events": eventID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("accounts remove event: %w", err)
	}
	return nil
}

func (s *AccountStore) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updated_at": time.Now()}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("account update: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

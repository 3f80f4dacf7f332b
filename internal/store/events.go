package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// EventStore handles event CRUD in MongoDB.
type EventStore struct {
	col *mongo.Collection
}

func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{col: db.Collection("events")}
}

// Insert creates a new event and fills in its id.
func (s *EventStore) Insert(ctx context.Context, ev *models.Event) (*models.Event, error) {
	now := time.Now()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if ev.Attendees == nil {
		ev.Attendees = []models.Attendee{}
	}

	res, err := s.col.InsertOne(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("event insert: %w", err)
	}
	ev.ID = res.InsertedID.(primitive.ObjectID)
	return ev, nil
}

// GetByID returns the event with the given hex id.
func (s *EventStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var ev models.Event
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ev); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("event get: %w", err)
	}
	return &ev, nil
}

// GetByIDs returns the events whose ids appear in ids.
func (s *EventStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("events get by ids: %w", err)
	}
	defer cur.Close(ctx)

	var evs []models.Event
	if err := cur.All(ctx, &evs); err != nil {
		return nil, fmt.Errorf("events decode: %w", err)
	}
	return evs, nil
}

// SetRSVP overwrites the matching attendee's status in place. The positional
// update is a single-document write, so attendee order is preserved and a
// concurrent RSVP to a different attendee cannot clobber it. Returns
// ErrNotFound when no attendee entry matched.
func (s *EventStore) SetRSVP(ctx context.Context, eventID, accountID primitive.ObjectID, status models.RSVPStatus) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": eventID, "attendees.account_id": accountID},
		bson.M{"$set": bson.M{
			"attendees.$.rsvp_status": status,
			"updated_at":              time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("event rsvp: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the event document.
func (s *EventStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("event delete: %w", err)
	}
	return nil
}

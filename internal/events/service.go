// Package events implements the event and attendee workflow: creation with an
// invitee list, RSVP updates, host-only deletion, and keeping every referenced
// account's events set in step with the event documents.
package events

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// EventStore defines the event persistence the workflow needs.
type EventStore interface {
	Insert(ctx context.Context, ev *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error)
	SetRSVP(ctx context.Context, eventID, accountID primitive.ObjectID, status models.RSVPStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AccountStore defines the account-side writes and lookups the workflow needs.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error)
	AddEventToMany(ctx context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error
	RemoveEventFromMany(ctx context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error
}

// Service runs the event workflow against the two stores.
//
// Creation and deletion fan out to one account-side write per member after the
// single-document event write. The fan-out is not atomic: a failure there is
// surfaced to the caller and prior writes stand. The events field is a set
// ($addToSet/$pull), so a caller retrying a failed creation fan-out converges
// instead of duplicating references.
type Service struct {
	events   EventStore
	accounts AccountStore
}

func NewService(events EventStore, accounts AccountStore) *Service {
	return &Service{events: events, accounts: accounts}
}

// Create builds an event hosted by hostID with one Pending attendee per
// invitee. Duplicate invitees collapse and the host is dropped from the list
// even if present. Invitee ids are not checked for existence: an unknown id
// yields a dangling Pending entry rather than a failed creation.
func (s *Service) Create(ctx context.Context, hostID string, req *models.CreateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Location) == "" || req.Date.IsZero() {
		return nil, models.ErrInvalidArgument
	}
	host, err := primitive.ObjectIDFromHex(hostID)
	if err != nil {
		return nil, models.ErrInvalidArgument
	}

	seen := map[primitive.ObjectID]bool{host: true}
	attendees := make([]models.Attendee, 0, len(req.InvitedFriends))
	invitees := make([]primitive.ObjectID, 0, len(req.InvitedFriends))
	for _, raw := range req.InvitedFriends {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, models.ErrInvalidArgument
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		attendees = append(attendees, models.Attendee{AccountID: id, RSVPStatus: models.RSVPPending})
		invitees = append(invitees, id)
	}

	ev, err := s.events.Insert(ctx, &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Host:        host,
		Date:        req.Date,
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Attendees:   attendees,
	})
	if err != nil {
		return nil, err
	}

	// The event document is durable from here; membership fan-out failures
	// leave it in place and are reported to the caller.
	members := append([]primitive.ObjectID{host}, invitees...)
	if err := s.accounts.AddEventToMany(ctx, members, ev.ID); err != nil {
		return nil, fmt.Errorf("event membership fan-out: %w", err)
	}
	return ev, nil
}

// Get returns the event with host and attendees populated.
func (s *Service) Get(ctx context.Context, id string) (*models.EventDetail, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, ev)
}

// SetRSVP overwrites accountID's reply on the event. The host is never an
// attendee, so a host RSVP fails the membership check like any stranger's.
func (s *Service) SetRSVP(ctx context.Context, eventID, accountID string, status models.RSVPStatus) (*models.EventDetail, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidArgument
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	account, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, models.ErrForbidden
	}
	if !isAttendee(ev.Attendees, account) {
		return nil, models.ErrForbidden
	}

	if err := s.events.SetRSVP(ctx, ev.ID, account, status); err != nil {
		return nil, err
	}
	for i := range ev.Attendees {
		if ev.Attendees[i].AccountID == account {
			ev.Attendees[i].RSVPStatus = status
		}
	}
	return s.populate(ctx, ev)
}

// Delete removes the event, host-only. Account-side references are pulled
// before the event document goes away so no account ever points at a deleted
// event; the reverse gap (deleted references, event still present) is closed
// by the caller retrying.
func (s *Service) Delete(ctx context.Context, eventID, requesterID string) error {
	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Host.Hex() != requesterID {
		return models.ErrForbidden
	}

	members := make([]primitive.ObjectID, 0, len(ev.Attendees)+1)
	members = append(members, ev.Host)
	for _, a := range ev.Attendees {
		members = append(members, a.AccountID)
	}
	if err := s.accounts.RemoveEventFromMany(ctx, members, ev.ID); err != nil {
		return fmt.Errorf("event membership fan-out: %w", err)
	}
	return s.events.Delete(ctx, ev.ID)
}

// ListForAccount returns the account's events with host summaries attached,
// soonest first.
func (s *Service) ListForAccount(ctx context.Context, accountID string) ([]models.EventWithHost, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	evs, err := s.events.GetByIDs(ctx, acct.Events)
	if err != nil {
		return nil, err
	}

	hostIDs := make([]primitive.ObjectID, 0, len(evs))
	for i := range evs {
		hostIDs = append(hostIDs, evs[i].Host)
	}
	hosts, err := s.accountsByID(ctx, hostIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.EventWithHost, 0, len(evs))
	for i := range evs {
		out = append(out, models.EventWithHost{
			Event:       evs[i],
			HostSummary: hosts[evs[i].Host],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Service) populate(ctx context.Context, ev *models.Event) (*models.EventDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(ev.Attendees)+1)
	ids = append(ids, ev.Host)
	for _, a := range ev.Attendees {
		ids = append(ids, a.AccountID)
	}
	byID, err := s.accountsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &models.EventDetail{
		ID:          ev.ID,
		Title:       ev.Title,
		Host:        byID[ev.Host],
		Date:        ev.Date,
		Location:    ev.Location,
		Description: ev.Description,
		Attendees:   make([]models.AttendeeDetail, 0, len(ev.Attendees)),
		CreatedAt:   ev.CreatedAt,
	}
	for _, a := range ev.Attendees {
		detail.Attendees = append(detail.Attendees, models.AttendeeDetail{
			User:       byID[a.AccountID],
			RSVPStatus: a.RSVPStatus,
		})
	}
	return detail, nil
}

// accountsByID resolves ids to summaries. Ids that no longer resolve (dangling
// invitees) map to a summary carrying only the id.
func (s *Service) accountsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AccountSummary, error) {
	accts, err := s.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.AccountSummary, len(ids))
	for _, id := range ids {
		byID[id] = models.AccountSummary{ID: id}
	}
	for i := range accts {
		byID[accts[i].ID] = accts[i].Summary()
	}
	return byID, nil
}

func isAttendee(attendees []models.Attendee, account primitive.ObjectID) bool {
	for _, a := range attendees {
		if a.AccountID == account {
			return true
		}
	}
	return false
}

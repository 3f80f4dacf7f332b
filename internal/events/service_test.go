package events

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avishamehta/gatherly/backend/internal/models"
)

// fakeEvents is an in-memory EventStore mirroring the Mongo store's
// single-document semantics.
type fakeEvents struct {
	byID map[primitive.ObjectID]*models.Event
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{byID: map[primitive.ObjectID]*models.Event{}}
}

func (f *fakeEvents) Insert(_ context.Context, ev *models.Event) (*models.Event, error) {
	ev.ID = primitive.NewObjectID()
	cp := *ev
	f.byID[ev.ID] = &cp
	return ev, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	ev, ok := f.byID[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *ev
	cp.Attendees = append([]models.Attendee{}, ev.Attendees...)
	return &cp, nil
}

func (f *fakeEvents) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	out := []models.Event{}
	for _, id := range ids {
		if ev, ok := f.byID[id]; ok {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEvents) SetRSVP(_ context.Context, eventID, accountID primitive.ObjectID, status models.RSVPStatus) error {
	ev, ok := f.byID[eventID]
	if !ok {
		return models.ErrNotFound
	}
	for i := range ev.Attendees {
		if ev.Attendees[i].AccountID == accountID {
			ev.Attendees[i].RSVPStatus = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeEvents) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

// fakeMembers is an in-memory AccountStore for the event workflow.
type fakeMembers struct {
	byID map[primitive.ObjectID]*models.Account
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{byID: map[primitive.ObjectID]*models.Account{}}
}

func (f *fakeMembers) add(username string) *models.Account {
	acct := &models.Account{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Events:   []primitive.ObjectID{},
	}
	f.byID[acct.ID] = acct
	return acct
}

func (f *fakeMembers) GetByID(_ context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	acct, ok := f.byID[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *acct
	return &cp, nil
}

func (f *fakeMembers) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	out := []models.Account{}
	for _, id := range ids {
		if acct, ok := f.byID[id]; ok {
			out = append(out, *acct)
		}
	}
	return out, nil
}

func (f *fakeMembers) AddEventToMany(_ context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	for _, id := range accountIDs {
		if acct, ok := f.byID[id]; ok {
			acct.Events = appendUnique(acct.Events, eventID)
		}
	}
	return nil
}

func (f *fakeMembers) RemoveEventFromMany(_ context.Context, accountIDs []primitive.ObjectID, eventID primitive.ObjectID) error {
	for _, id := range accountIDs {
		acct, ok := f.byID[id]
		if !ok {
			continue
		}
		out := acct.Events[:0]
		for _, v := range acct.Events {
			if v != eventID {
				out = append(out, v)
			}
		}
		acct.Events = out
	}
	return nil
}

func appendUnique(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func setup() (*Service, *fakeEvents, *fakeMembers) {
	evs := newFakeEvents()
	members := newFakeMembers()
	return NewService(evs, members), evs, members
}

func createRequest(invitees ...string) *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title:          "Housewarming",
		Date:           time.Now().Add(48 * time.Hour),
		Location:       "12 Elm St",
		InvitedFriends: invitees,
	}
}

func TestCreate(t *testing.T) {
	svc, _, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")
	c := members.add("carol")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex(), c.ID.Hex()))
	require.NoError(t, err)

	require.Len(t, ev.Attendees, 2)
	for _, a := range ev.Attendees {
		assert.Equal(t, models.RSVPPending, a.RSVPStatus)
		assert.NotEqual(t, host.ID, a.AccountID)
	}
	assert.Contains(t, members.byID[host.ID].Events, ev.ID)
	assert.Contains(t, members.byID[b.ID].Events, ev.ID)
	assert.Contains(t, members.byID[c.ID].Events, ev.ID)
}

func TestCreate_CollapsesDuplicatesAndDropsHost(t *testing.T) {
	svc, _, members := setup()
	host := members.add("alice")
	b := members.add("bob")

	ev, err := svc.Create(context.Background(), host.ID.Hex(),
		createRequest(b.ID.Hex(), b.ID.Hex(), host.ID.Hex()))
	require.NoError(t, err)

	require.Len(t, ev.Attendees, 1)
	assert.Equal(t, b.ID, ev.Attendees[0].AccountID)
}

func TestCreate_MissingFields(t *testing.T) {
	svc, _, members := setup()
	host := members.add("alice")

	req := createRequest()
	req.Title = "  "
	_, err := svc.Create(context.Background(), host.ID.Hex(), req)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	req = createRequest()
	req.Date = time.Time{}
	_, err = svc.Create(context.Background(), host.ID.Hex(), req)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestGet_Populates(t *testing.T) {
	svc, _, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex()))
	require.NoError(t, err)

	detail, err := svc.Get(ctx, ev.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Host.Username)
	require.Len(t, detail.Attendees, 1)
	assert.Equal(t, "bob", detail.Attendees[0].User.Username)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetRSVP_NotInvited(t *testing.T) {
	svc, evs, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")
	d := members.add("dave")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex()))
	require.NoError(t, err)

	_, err = svc.SetRSVP(ctx, ev.ID.Hex(), d.ID.Hex(), models.RSVPAttending)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// The host is never an attendee and may not RSVP either.
	_, err = svc.SetRSVP(ctx, ev.ID.Hex(), host.ID.Hex(), models.RSVPAttending)
	assert.ErrorIs(t, err, models.ErrForbidden)

	stored := evs.byID[ev.ID]
	require.Len(t, stored.Attendees, 1)
	assert.Equal(t, models.RSVPPending, stored.Attendees[0].RSVPStatus)
}

func TestSetRSVP_OverwritesInPlace(t *testing.T) {
	svc, evs, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")
	c := members.add("carol")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex(), c.ID.Hex()))
	require.NoError(t, err)

	_, err = svc.SetRSVP(ctx, ev.ID.Hex(), b.ID.Hex(), models.RSVPAttending)
	require.NoError(t, err)
	detail, err := svc.SetRSVP(ctx, ev.ID.Hex(), b.ID.Hex(), models.RSVPNotAttending)
	require.NoError(t, err)

	// Exactly one entry for B, final status Not Attending, order preserved.
	stored := evs.byID[ev.ID]
	require.Len(t, stored.Attendees, 2)
	assert.Equal(t, b.ID, stored.Attendees[0].AccountID)
	assert.Equal(t, models.RSVPNotAttending, stored.Attendees[0].RSVPStatus)
	assert.Equal(t, c.ID, stored.Attendees[1].AccountID)
	assert.Equal(t, models.RSVPPending, stored.Attendees[1].RSVPStatus)
	assert.Equal(t, models.RSVPNotAttending, detail.Attendees[0].RSVPStatus)
}

func TestSetRSVP_BadStatus(t *testing.T) {
	svc, _, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex()))
	require.NoError(t, err)

	_, err = svc.SetRSVP(ctx, ev.ID.Hex(), b.ID.Hex(), models.RSVPStatus("Maybe"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSetRSVP_UnknownEvent(t *testing.T) {
	svc, _, members := setup()
	b := members.add("bob")

	_, err := svc.SetRSVP(context.Background(), primitive.NewObjectID().Hex(), b.ID.Hex(), models.RSVPAttending)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")
	c := members.add("carol")

	ev, err := svc.Create(ctx, host.ID.Hex(), createRequest(b.ID.Hex(), c.ID.Hex()))
	require.NoError(t, err)

	// Attendees may not delete.
	err = svc.Delete(ctx, ev.ID.Hex(), c.ID.Hex())
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, ev.ID.Hex(), host.ID.Hex()))
	assert.NotContains(t, members.byID[host.ID].Events, ev.ID)
	assert.NotContains(t, members.byID[b.ID].Events, ev.ID)
	assert.NotContains(t, members.byID[c.ID].Events, ev.ID)

	_, err = svc.Get(ctx, ev.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListForAccount(t *testing.T) {
	svc, _, members := setup()
	ctx := context.Background()
	host := members.add("alice")
	b := members.add("bob")

	later := createRequest(b.ID.Hex())
	later.Title = "Later"
	later.Date = time.Now().Add(96 * time.Hour)
	_, err := svc.Create(ctx, host.ID.Hex(), later)
	require.NoError(t, err)

	sooner := createRequest(b.ID.Hex())
	sooner.Title = "Sooner"
	_, err = svc.Create(ctx, host.ID.Hex(), sooner)
	require.NoError(t, err)

	evs, err := svc.ListForAccount(ctx, b.ID.Hex())
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, "Sooner", evs[0].Title)
	assert.Equal(t, "Later", evs[1].Title)
	assert.Equal(t, "alice", evs[0].HostSummary.Username)

	_, err = svc.ListForAccount(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

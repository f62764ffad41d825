package estesthelpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/identity"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

// Standard test actors, see GivenDirectory.
const (
	GuardID           = "G1"
	OtherGuardID      = "G2"
	DisabledGuardID   = "G9"
	StudentID         = "S1"
	OtherStudentID    = "S2"
	DisabledStudentID = "S9"
	AdminID           = "A1"
	CycleID           = "C1"
	OtherCycleID      = "C2"
	DefaultLocation   = "Main Gate"
	ReturnLocation    = "North Gate"
	DefaultDuration   = 60
)

// GivenUniqueID generates a unique UUID string for testing.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenMemoryEventStore creates an empty memoryengine.EventStore configured like in production.
func GivenMemoryEventStore(t testing.TB, opts ...memoryengine.Option) *memoryengine.EventStore {
	t.Helper()

	allOpts := append([]memoryengine.Option{memoryengine.WithLockKeyFields(core.IdentityFields()...)}, opts...)

	es, err := memoryengine.NewEventStore(allOpts...)
	require.NoError(t, err, "error in arranging test data")

	return es
}

// GivenDirectory creates a Directory with active guards G1 and G2, active students S1 and S2,
// a disabled guard G9, a disabled student S9, an admin A1, and the extra actors.
func GivenDirectory(t testing.TB, extra ...core.Actor) *identity.Directory {
	t.Helper()

	actors := []core.Actor{
		core.BuildActor(GuardID, core.RoleGuard, core.ActorActive),
		core.BuildActor(OtherGuardID, core.RoleGuard, core.ActorActive),
		core.BuildActor(DisabledGuardID, core.RoleGuard, core.ActorDisabled),
		core.BuildActor(StudentID, core.RoleStudent, core.ActorActive),
		core.BuildActor(OtherStudentID, core.RoleStudent, core.ActorActive),
		core.BuildActor(DisabledStudentID, core.RoleStudent, core.ActorDisabled),
		core.BuildActor(AdminID, core.RoleAdmin, core.ActorActive),
	}

	d, err := identity.NewDirectory(append(actors, extra...)...)
	require.NoError(t, err, "error in arranging test data")

	return d
}

// GivenEventsWereAppended appends the events in one append, as a previous command would have done.
func GivenEventsWereAppended(t testing.TB, ctx context.Context, es shell.EventStore, events ...core.DomainEvent) { //nolint:revive
	t.Helper()

	eventTypes := make([]string, 0, len(events))
	for _, event := range events {
		eventTypes = append(eventTypes, event.IsEventType())
	}

	filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).Finalize()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	first, more, err := shell.StorableEventsFrom(events, shell.NewCommandMetadata())
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, es.Append(ctx, filter, maxSequenceNumber, first, more...), "error in arranging test data")
}

// QueryEventsOfType returns all domain events of the given types in sequence order.
func QueryEventsOfType(t testing.TB, ctx context.Context, es shell.QueriesEvents, eventType string, eventTypes ...string) core.DomainEvents { //nolint:revive
	t.Helper()

	filter := eventstore.BuildEventFilter().Matching().AnyEventTypeOf(eventType, eventTypes...).Finalize()

	storableEvents, _, err := es.Query(ctx, filter)
	require.NoError(t, err)

	domainEvents, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return domainEvents
}

// FixtureCheckoutTokenIssued creates a checkout token issued by GuardID for the default duration and location.
func FixtureCheckoutTokenIssued(tokenID, cycleID, studentID string, issuedAt time.Time) core.CheckoutTokenIssued {
	return core.BuildCheckoutTokenIssued(
		tokenID,
		cycleID,
		studentID,
		GuardID,
		DefaultDuration,
		DefaultLocation,
		core.ExpiresAt(issuedAt),
		issuedAt,
	)
}

// FixtureCycleCheckedOut creates the checkout of a rental issued by GuardID for the default duration and location.
func FixtureCycleCheckedOut(rentalID, cycleID, studentID string, startedAt time.Time) core.CycleCheckedOut {
	return core.BuildCycleCheckedOut(
		rentalID,
		cycleID,
		studentID,
		GuardID,
		"checkout-token-"+rentalID,
		DefaultDuration,
		DefaultLocation,
		startedAt,
	)
}

// FixtureCheckinTokenIssued creates a checkin token for the rental, naming GuardID as the issuing guard.
func FixtureCheckinTokenIssued(tokenID, rentalID, cycleID, studentID string, issuedAt time.Time) core.CheckinTokenIssued {
	return core.BuildCheckinTokenIssued(tokenID, rentalID, cycleID, studentID, GuardID, core.ExpiresAt(issuedAt), issuedAt)
}

// FixtureCycleCheckedIn creates an on-time return of the rental.
func FixtureCycleCheckedIn(rentalID, cycleID, studentID string, endedAt time.Time) core.CycleCheckedIn {
	return core.BuildCycleCheckedIn(
		rentalID,
		cycleID,
		studentID,
		GuardID,
		"checkin-token-"+rentalID,
		ReturnLocation,
		DefaultDuration,
		0,
		endedAt,
	)
}

// Package estesthelpers provides test utilities shared by the command and query slice tests.
//
// Event Store Setup:
//
//	GivenMemoryEventStore: creates a memoryengine.EventStore locking on the identity fields of the domain
//	GivenEventsWereAppended: appends domain events the way an earlier command would have
//	QueryEventsOfType: reads back the domain events of some event types
//
// Actors:
//
//	GivenDirectory: creates an identity.Directory with the standard test actors and any extra ones
//
// Event Fixtures:
//
//	FixtureCheckoutTokenIssued, FixtureCycleCheckedOut, FixtureCheckinTokenIssued, FixtureCycleCheckedIn
//
// Test ID Generation:
//
//	GivenUniqueID: generates a UUID v7 string for rental ids and other entity ids
package estesthelpers

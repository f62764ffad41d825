package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.CycleRegisteredEventType:
		return unmarshalPayload[core.CycleRegistered](payload)

	case core.CycleStatusChangedEventType:
		return unmarshalPayload[core.CycleStatusChanged](payload)

	case core.CycleFlaggedForMaintenanceEventType:
		return unmarshalPayload[core.CycleFlaggedForMaintenance](payload)

	case core.CheckoutTokenIssuedEventType:
		return unmarshalPayload[core.CheckoutTokenIssued](payload)

	case core.CheckoutTokenIssuingFailedEventType:
		return unmarshalPayload[core.CheckoutTokenIssuingFailed](payload)

	case core.CycleCheckedOutEventType:
		return unmarshalPayload[core.CycleCheckedOut](payload)

	case core.CheckoutTokenRedeemingFailedEventType:
		return unmarshalPayload[core.CheckoutTokenRedeemingFailed](payload)

	case core.CheckinTokenIssuedEventType:
		return unmarshalPayload[core.CheckinTokenIssued](payload)

	case core.CheckinTokenIssuingFailedEventType:
		return unmarshalPayload[core.CheckinTokenIssuingFailed](payload)

	case core.CycleCheckedInEventType:
		return unmarshalPayload[core.CycleCheckedIn](payload)

	case core.CheckinTokenRedeemingFailedEventType:
		return unmarshalPayload[core.CheckinTokenRedeemingFailed](payload)

	case core.FineAccruedEventType:
		return unmarshalPayload[core.FineAccrued](payload)

	case core.FineSettledEventType:
		return unmarshalPayload[core.FineSettled](payload)

	case core.CycleRatedEventType:
		return unmarshalPayload[core.CycleRated](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

package eventstore

import (
	"errors"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var ErrDerivingLockKeysFailed = errors.New("deriving lock keys failed")

// LockKeyAll is the lock key guarding appends against readers of predicate-less filters without event types.
const LockKeyAll = "*"

// LockKey names one serialization point of an Append.
//
// Exclusive keys conflict with every other holder of the same key, shared keys only with exclusive holders.
type LockKey struct {
	Name      string
	Exclusive bool
}

// LockKeysFor derives the lock keys an Append must hold so that it is serialized with every concurrent Append
// whose filter could match one of the appended events, or whose events could match the given filter.
//
// For each filter item:
//   - every predicate yields an exclusive "Key=Val" lock
//   - an item without predicates yields exclusive "type=EventType" locks, or an exclusive LockKeyAll lock
//
// For each appended event:
//   - every top-level string field yields an exclusive "Key=Val" lock
//   - its event type yields a shared "type=EventType" lock, plus a shared LockKeyAll lock
//
// When identityFields are supplied, only those payload fields become lock keys,
// and predicates on other fields fall back to the event type locks of their filter item.
//
// The result is sorted by name and contains each name once, exclusive winning over shared.
func LockKeysFor(filter Filter, events StorableEvents, identityFields ...string) ([]LockKey, error) {
	keys := make(map[string]bool)
	isIdentity := func(field string) bool {
		return len(identityFields) == 0 || slices.Contains(identityFields, field)
	}

	add := func(name string, exclusive bool) {
		keys[name] = keys[name] || exclusive
	}

	if len(filter.Items()) == 0 {
		add(LockKeyAll, true)
	}

	for _, item := range filter.Items() {
		lockEventTypes := len(item.Predicates()) == 0

		for _, predicate := range item.Predicates() {
			if !isIdentity(predicate.Key()) {
				lockEventTypes = true
				continue
			}

			add(predicateLockName(predicate.Key(), predicate.Val()), true)
		}

		if !lockEventTypes {
			continue
		}

		if len(item.EventTypes()) == 0 {
			add(LockKeyAll, true)
		}

		for _, eventType := range item.EventTypes() {
			add(eventTypeLockName(eventType), true)
		}
	}

	for _, event := range events {
		fields := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &fields); err != nil {
			return nil, errors.Join(ErrDerivingLockKeysFailed, err)
		}

		for field, val := range fields {
			str, ok := val.(string)
			if !ok || str == "" || !isIdentity(field) {
				continue
			}

			add(predicateLockName(field, str), true)
		}

		add(eventTypeLockName(event.EventType), false)
		add(LockKeyAll, false)
	}

	lockKeys := make([]LockKey, 0, len(keys))
	for name, exclusive := range keys {
		lockKeys = append(lockKeys, LockKey{Name: name, Exclusive: exclusive})
	}

	slices.SortFunc(lockKeys, func(a, b LockKey) int {
		return strings.Compare(a.Name, b.Name)
	})

	return lockKeys, nil
}

func predicateLockName(key FilterKeyString, val FilterValString) string {
	return key + "=" + val
}

func eventTypeLockName(eventType FilterEventTypeString) string {
	return "type=" + eventType
}

package memoryengine

// SetAppendObserver installs a hook which runs after an Append holds its locks.
func (es *EventStore) SetAppendObserver(observer func(stage string)) {
	es.appendObserver = observer
}

// HeldLockCount returns the number of lock names currently held or awaited.
func (es *EventStore) HeldLockCount() int {
	return es.locks.size()
}

package cycleregistry

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	queryType = "GetCycle"
)

// Query represents the intent to look up one cycle.
type Query struct {
	CycleID core.CycleIDString
}

// BuildQuery creates a new Query with the provided cycle ID.
func BuildQuery(cycleID core.CycleIDString) Query {
	return Query{
		CycleID: cycleID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

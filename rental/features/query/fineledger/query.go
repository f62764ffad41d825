package fineledger

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	queryType = "FineBalance"
)

// Query represents the intent to look up the fine account of a student.
type Query struct {
	StudentID core.StudentIDString
}

// BuildQuery creates a new Query with the provided student ID.
func BuildQuery(studentID core.StudentIDString) Query {
	return Query{
		StudentID: studentID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}

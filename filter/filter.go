// Package filter provides composable predicates over event logs. The view
// query uses them to narrow a verified block's logs down to the occurrences
// of one event at one contract.
package filter

import (
	"github.com/hedeqiang/seal/event"
)

// Filter determines whether a log matches a given criteria.
type Filter interface {
	Match(log event.Log) bool
}

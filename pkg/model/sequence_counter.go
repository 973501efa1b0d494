package model

import "fmt"

// SequenceCounter is a monotonic integer generator scoped to one
// (day, lane) queueing partition. Seq never decreases; counters are
// created lazily on first allocation and never deleted; days simply
// roll forward into new counter ids.
type SequenceCounter struct {
	CounterID string `json:"counterId" bson:"_id"`
	Seq       int64  `json:"seq" bson:"seq"`
}

// CounterID builds the store key for a (day, lane) partition.
func CounterID(day, lane string) string {
	return fmt.Sprintf("dayLane:%s#%s", day, lane)
}

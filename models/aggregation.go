package models

import "time"

// BucketWidth is the fixed aggregation granularity.
const BucketWidth = 15 * time.Minute

// AggregationBucket is one half-open 15-minute interval
// [Start, Start+BucketWidth) with the participants free during it.
type AggregationBucket struct {
	Start          time.Time `json:"start"`
	ParticipantIDs []string  `json:"participantIds"`
	Highlighted    bool      `json:"highlighted"`
	// Level quantizes the free count into 5 visual steps: 0 means a single
	// participant, 4 means everyone in a group of two or more.
	Level int `json:"level"`
}

// AggregationResult is the bucketed availability view plus the expanded busy
// overlay.
type AggregationResult struct {
	Buckets  []AggregationBucket `json:"buckets"`
	Busy     []ExpandedInstance  `json:"busy"`
	Warnings []string            `json:"warnings,omitempty"`
}

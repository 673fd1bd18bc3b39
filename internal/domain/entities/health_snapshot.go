package entities

import "time"

// HealthSnapshot is the gate's view of the node for one cycle. It is never
// persisted; LastIrreversibleBlockNum from the admitted snapshot is the
// single ingestion cutoff for the whole cycle.
type HealthSnapshot struct {
	Locked                   bool
	HeadBlockNum             uint64
	HeadBlockTime            time.Time
	HeadAgeSeconds           float64
	LastIrreversibleBlockNum uint64
	ParticipationRate        float64
}

// Package quest defines the quest domain: the immutable catalog of
// themed checkpoint routes, per-device progress and completion
// records, scan validation and voucher codes. It depends only on the
// geo package — no storage, no HTTP.
package quest

import (
	"time"

	"github.com/sydneyquest/questapi/internal/geo"
)

// CheckpointKind orders a checkpoint within its quest: exactly one
// start first, one finish last, any number of checkpoints between.
type CheckpointKind string

const (
	KindStart      CheckpointKind = "start"
	KindCheckpoint CheckpointKind = "checkpoint"
	KindFinish     CheckpointKind = "finish"
)

// Question is the challenge posed at a checkpoint. Hints form a
// three-step ladder from vague to explicit.
type Question struct {
	Text               string   `json:"text"`
	Answer             string   `json:"answer"`
	AlternativeAnswers []string `json:"alternativeAnswers"`
	Hints              []string `json:"hints"`
}

// Checkpoint is one stop on a quest route. The QR code is the opaque
// marker identity a physical scan must produce; the clue is shown
// before arrival. Question is nil only on the start checkpoint.
type Checkpoint struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        CheckpointKind  `json:"type"`
	Coordinates geo.Coordinates `json:"coordinates"`
	Radius      float64         `json:"radius"`
	Clue        string          `json:"clue"`
	QRCode      string          `json:"qrCode"`
	Question    *Question       `json:"question"`
}

// VoucherOffer is one reward-unit offer redeemable at a partner
// business.
type VoucherOffer struct {
	ID       string `json:"id"`
	Business string `json:"business"`
	Offer    string `json:"offer"`
}

// Rewards describes what completing a quest earns.
type Rewards struct {
	Vouchers       []VoucherOffer `json:"vouchers"`
	ExpirationDate string         `json:"expirationDate"`
}

// Theme is presentation-only metadata.
type Theme struct {
	Color  string `json:"color"`
	Mascot string `json:"mascot"`
	Icon   string `json:"icon"`
}

// Quest is a themed, date-bounded route of ordered checkpoints.
// Quests are reference data: immutable once loaded.
type Quest struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	WeekNumber        int          `json:"weekNumber"`
	StartDate         time.Time    `json:"startDate"`
	EndDate           time.Time    `json:"endDate"`
	Theme             Theme        `json:"theme"`
	EstimatedDuration int          `json:"estimatedDuration"`
	Checkpoints       []Checkpoint `json:"checkpoints"`
	Rewards           Rewards      `json:"rewards"`
}

// Start returns the first checkpoint in sequence.
func (q *Quest) Start() *Checkpoint { return &q.Checkpoints[0] }

// Finish returns the last checkpoint in sequence.
func (q *Quest) Finish() *Checkpoint { return &q.Checkpoints[len(q.Checkpoints)-1] }

// CheckpointByID returns the checkpoint with the given id, or nil.
func (q *Quest) CheckpointByID(id string) *Checkpoint {
	for i := range q.Checkpoints {
		if q.Checkpoints[i].ID == id {
			return &q.Checkpoints[i]
		}
	}
	return nil
}

// CheckpointByQR returns the checkpoint whose marker matches the
// scanned code, or nil.
func (q *Quest) CheckpointByQR(code string) *Checkpoint {
	for i := range q.Checkpoints {
		if q.Checkpoints[i].QRCode == code {
			return &q.Checkpoints[i]
		}
	}
	return nil
}

// IndexOf returns the sequence position of the checkpoint id, or -1.
func (q *Quest) IndexOf(id string) int {
	for i := range q.Checkpoints {
		if q.Checkpoints[i].ID == id {
			return i
		}
	}
	return -1
}

// NextAfter returns the checkpoint following id in sequence, or nil
// when id is the finish or unknown.
func (q *Quest) NextAfter(id string) *Checkpoint {
	i := q.IndexOf(id)
	if i < 0 || i+1 >= len(q.Checkpoints) {
		return nil
	}
	return &q.Checkpoints[i+1]
}

// IsActive reports whether now falls within the quest's date window.
func (q *Quest) IsActive(now time.Time) bool {
	return !now.Before(q.StartDate) && !now.After(q.EndDate)
}

// IsUpcoming reports whether the quest's window has not opened yet.
func (q *Quest) IsUpcoming(now time.Time) bool {
	return now.Before(q.StartDate)
}

// ProgressRecord is the in-progress state of one device on one quest.
// CurrentID is the most recently satisfied checkpoint; the next one in
// sequence is the current objective. Invariants: CurrentID is always a
// member of the quest's sequence, CompletedIDs never contains
// CurrentID, and CurrentID only moves forward, one step at a time.
type ProgressRecord struct {
	QuestID      string
	StartedAt    time.Time
	CurrentID    string
	CompletedIDs []string
	HintsUsed    map[string]int
}

// TotalHintsUsed sums hint consumption across all checkpoints.
func (p *ProgressRecord) TotalHintsUsed() int {
	total := 0
	for _, n := range p.HintsUsed {
		total += n
	}
	return total
}

// CompletionRecord is written exactly once when a quest is finished,
// and is immutable thereafter.
type CompletionRecord struct {
	QuestID         string
	CompletedAt     time.Time
	DurationMinutes int
	TotalHintsUsed  int
	VoucherCode     string
}

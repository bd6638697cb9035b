package quest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "embed"
)

// HintLadderSize is how many hints every challenge carries, and the
// cap on hint consumption per checkpoint.
const HintLadderSize = 3

//go:embed quests.json
var embeddedQuests []byte

// Catalog is the read-only quest reference data, loaded once at
// process start and never mutated.
type Catalog struct {
	quests []Quest
	byID   map[string]*Quest
}

// LoadCatalog reads quest definitions from path, or from the embedded
// asset when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := embeddedQuests
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading quest catalog: %w", err)
		}
		data = b
	}
	return NewCatalog(data)
}

// NewCatalog parses and validates quest definitions from JSON.
func NewCatalog(data []byte) (*Catalog, error) {
	var quests []Quest
	if err := json.Unmarshal(data, &quests); err != nil {
		return nil, fmt.Errorf("parsing quest catalog: %w", err)
	}

	c := &Catalog{
		quests: quests,
		byID:   make(map[string]*Quest, len(quests)),
	}
	for i := range c.quests {
		q := &c.quests[i]
		if err := validateQuest(q); err != nil {
			return nil, fmt.Errorf("quest %q: %w", q.ID, err)
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quest id %q", q.ID)
		}
		c.byID[q.ID] = q
	}
	return c, nil
}

func validateQuest(q *Quest) error {
	if len(q.Checkpoints) < 2 {
		return fmt.Errorf("needs at least a start and a finish, got %d checkpoints", len(q.Checkpoints))
	}
	if !q.EndDate.After(q.StartDate) {
		return fmt.Errorf("date window ends before it starts")
	}

	seenIDs := make(map[string]bool, len(q.Checkpoints))
	seenQR := make(map[string]bool, len(q.Checkpoints))
	for i := range q.Checkpoints {
		cp := &q.Checkpoints[i]
		if seenIDs[cp.ID] {
			return fmt.Errorf("duplicate checkpoint id %q", cp.ID)
		}
		if seenQR[cp.QRCode] {
			return fmt.Errorf("duplicate QR code %q", cp.QRCode)
		}
		seenIDs[cp.ID] = true
		seenQR[cp.QRCode] = true

		switch {
		case i == 0:
			if cp.Kind != KindStart {
				return fmt.Errorf("first checkpoint %q must be the start", cp.ID)
			}
			if cp.Question != nil {
				return fmt.Errorf("start checkpoint %q must not have a question", cp.ID)
			}
		case i == len(q.Checkpoints)-1:
			if cp.Kind != KindFinish {
				return fmt.Errorf("last checkpoint %q must be the finish", cp.ID)
			}
		default:
			if cp.Kind != KindCheckpoint {
				return fmt.Errorf("checkpoint %q has kind %q in the middle of the sequence", cp.ID, cp.Kind)
			}
		}

		if i > 0 {
			if cp.Question == nil {
				return fmt.Errorf("checkpoint %q is missing its question", cp.ID)
			}
			if len(cp.Question.Hints) != HintLadderSize {
				return fmt.Errorf("checkpoint %q has %d hints, want %d", cp.ID, len(cp.Question.Hints), HintLadderSize)
			}
		}
		if cp.Radius <= 0 {
			return fmt.Errorf("checkpoint %q has non-positive radius", cp.ID)
		}
	}
	return nil
}

// ByID returns the quest with the given id.
func (c *Catalog) ByID(id string) (*Quest, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// ListActive returns quests whose date window contains now, in
// catalog order.
func (c *Catalog) ListActive(now time.Time) []*Quest {
	var out []*Quest
	for i := range c.quests {
		if c.quests[i].IsActive(now) {
			out = append(out, &c.quests[i])
		}
	}
	return out
}

// ListUpcoming returns quests whose window has not opened yet, in
// catalog order.
func (c *Catalog) ListUpcoming(now time.Time) []*Quest {
	var out []*Quest
	for i := range c.quests {
		if c.quests[i].IsUpcoming(now) {
			out = append(out, &c.quests[i])
		}
	}
	return out
}

// Len returns the number of quests in the catalog.
func (c *Catalog) Len() int { return len(c.quests) }

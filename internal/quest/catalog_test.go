package quest

import (
	"strings"
	"testing"
	"time"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}
	return c
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := loadTestCatalog(t)
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	q, ok := c.ByID("quest_w1_urban")
	if !ok {
		t.Fatal("quest_w1_urban not found")
	}
	if q.Title != "Urban Adventure" {
		t.Errorf("title = %q, want Urban Adventure", q.Title)
	}
	if q.Start().ID != "start" || q.Start().Kind != KindStart {
		t.Errorf("start checkpoint = %+v", q.Start())
	}
	if q.Finish().ID != "finish" || q.Finish().Kind != KindFinish {
		t.Errorf("finish checkpoint = %+v", q.Finish())
	}
	if q.Start().Question != nil {
		t.Error("start checkpoint must have no question")
	}
	for _, cp := range q.Checkpoints[1:] {
		if cp.Question == nil {
			t.Errorf("checkpoint %q has no question", cp.ID)
		} else if len(cp.Question.Hints) != HintLadderSize {
			t.Errorf("checkpoint %q has %d hints", cp.ID, len(cp.Question.Hints))
		}
	}
}

func TestCatalogDateFiltering(t *testing.T) {
	c := loadTestCatalog(t)

	// During week 1 only the urban quest is active.
	now := time.Date(2024, 11, 26, 12, 0, 0, 0, time.UTC)
	active := c.ListActive(now)
	if len(active) != 1 || active[0].ID != "quest_w1_urban" {
		t.Fatalf("active during week 1 = %v", questIDs(active))
	}

	upcoming := c.ListUpcoming(now)
	if len(upcoming) != 2 {
		t.Fatalf("upcoming during week 1 = %v", questIDs(upcoming))
	}

	// After all windows close, nothing is active or upcoming.
	later := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := c.ListActive(later); len(got) != 0 {
		t.Errorf("active after all windows = %v", questIDs(got))
	}
	if got := c.ListUpcoming(later); len(got) != 0 {
		t.Errorf("upcoming after all windows = %v", questIDs(got))
	}
}

func TestCheckpointLookups(t *testing.T) {
	c := loadTestCatalog(t)
	q, _ := c.ByID("quest_w1_urban")

	if cp := q.CheckpointByQR("QSQ-W1-A-002"); cp == nil || cp.ID != "location_a" {
		t.Errorf("CheckpointByQR(QSQ-W1-A-002) = %+v", cp)
	}
	if cp := q.CheckpointByQR("QSQ-W9-NOPE-000"); cp != nil {
		t.Errorf("unknown QR resolved to %q", cp.ID)
	}

	if i := q.IndexOf("location_b"); i != 2 {
		t.Errorf("IndexOf(location_b) = %d, want 2", i)
	}
	if next := q.NextAfter("start"); next == nil || next.ID != "location_a" {
		t.Errorf("NextAfter(start) = %+v", next)
	}
	if next := q.NextAfter("finish"); next != nil {
		t.Errorf("NextAfter(finish) = %+v, want nil", next)
	}
	if next := q.NextAfter("bogus"); next != nil {
		t.Errorf("NextAfter(bogus) = %+v, want nil", next)
	}
}

func TestCatalogValidation(t *testing.T) {
	cases := []struct {
		name    string
		json    string
		wantErr string
	}{
		{
			name:    "too few checkpoints",
			json:    `[{"id":"q","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-07T00:00:00Z","checkpoints":[{"id":"start","type":"start","radius":50,"qrCode":"A"}]}]`,
			wantErr: "at least a start and a finish",
		},
		{
			name: "first not start",
			json: `[{"id":"q","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-07T00:00:00Z","checkpoints":[
				{"id":"a","type":"checkpoint","radius":50,"qrCode":"A","question":{"text":"?","answer":"x","hints":["1","2","3"]}},
				{"id":"finish","type":"finish","radius":50,"qrCode":"B","question":{"text":"?","answer":"x","hints":["1","2","3"]}}]}]`,
			wantErr: "must be the start",
		},
		{
			name: "missing question",
			json: `[{"id":"q","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-07T00:00:00Z","checkpoints":[
				{"id":"start","type":"start","radius":50,"qrCode":"A"},
				{"id":"finish","type":"finish","radius":50,"qrCode":"B"}]}]`,
			wantErr: "missing its question",
		},
		{
			name: "wrong hint count",
			json: `[{"id":"q","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-07T00:00:00Z","checkpoints":[
				{"id":"start","type":"start","radius":50,"qrCode":"A"},
				{"id":"finish","type":"finish","radius":50,"qrCode":"B","question":{"text":"?","answer":"x","hints":["only one"]}}]}]`,
			wantErr: "hints",
		},
		{
			name: "duplicate qr",
			json: `[{"id":"q","startDate":"2024-01-01T00:00:00Z","endDate":"2024-01-07T00:00:00Z","checkpoints":[
				{"id":"start","type":"start","radius":50,"qrCode":"A"},
				{"id":"finish","type":"finish","radius":50,"qrCode":"A","question":{"text":"?","answer":"x","hints":["1","2","3"]}}]}]`,
			wantErr: "duplicate QR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog([]byte(tc.json))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func questIDs(qs []*Quest) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

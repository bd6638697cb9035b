package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sydneyquest/questapi/internal/quest"
)

// Document types stored as JSONB in per-model tables. They form the
// serialization boundary between domain records and the disk format:
// the domain types never pick up storage concerns, and the disk shape
// can evolve independently.

type progressDoc struct {
	QuestID      string         `json:"questId"`
	Status       string         `json:"status"`
	StartedAt    string         `json:"startedAt"`
	CurrentID    string         `json:"currentLocationId"`
	CompletedIDs []string       `json:"completedLocationIds"`
	HintsUsed    map[string]int `json:"hintsUsed"`
}

type completionDoc struct {
	QuestID        string `json:"questId"`
	CompletedAt    string `json:"completedAt"`
	Duration       int    `json:"duration"`
	TotalHintsUsed int    `json:"totalHintsUsed"`
	VoucherCode    string `json:"voucherCode"`
}

type deviceDoc struct {
	OnboardingCompleted bool          `json:"onboardingCompleted"`
	Permissions         Permissions   `json:"permissions"`
	LastLocation        *LastLocation `json:"lastLocation,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05.000Z"

func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Tolerate hand-edited or older records.
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func progressFromDoc(d progressDoc) *quest.ProgressRecord {
	hints := d.HintsUsed
	if hints == nil {
		hints = map[string]int{}
	}
	return &quest.ProgressRecord{
		QuestID:      d.QuestID,
		StartedAt:    parseTime(d.StartedAt),
		CurrentID:    d.CurrentID,
		CompletedIDs: d.CompletedIDs,
		HintsUsed:    hints,
	}
}

func completionFromDoc(d completionDoc) *quest.CompletionRecord {
	return &quest.CompletionRecord{
		QuestID:         d.QuestID,
		CompletedAt:     parseTime(d.CompletedAt),
		DurationMinutes: d.Duration,
		TotalHintsUsed:  d.TotalHintsUsed,
		VoucherCode:     d.VoucherCode,
	}
}

// DocStore implements Store over per-model SQLite tables with JSONB
// data columns. Tables are created by the migrations package.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

// Keyed helpers shared by the progress and completions tables.

func (s *DocStore) getDoc(ctx context.Context, table, deviceID, questID string, dest any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM %s WHERE device_id = ? AND quest_id = ?`, table),
		deviceID, questID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (s *DocStore) putDoc(ctx context.Context, table, deviceID, questID string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (device_id, quest_id, data) VALUES (?, ?, jsonb(?))
		 ON CONFLICT(device_id, quest_id) DO UPDATE SET data = excluded.data`, table),
		deviceID, questID, string(data),
	)
	return err
}

func (s *DocStore) delDoc(ctx context.Context, table, deviceID, questID string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE device_id = ? AND quest_id = ?`, table),
		deviceID, questID,
	)
	return err
}

func (s *DocStore) StartQuest(ctx context.Context, deviceID, questID, startCheckpointID string) error {
	// Completed is terminal: a finished quest can never be restarted,
	// or its voucher could be reissued.
	done, err := s.GetCompletion(ctx, deviceID, questID)
	if err != nil {
		return err
	}
	if done != nil {
		return nil
	}

	var existing progressDoc
	err = s.getDoc(ctx, "progress", deviceID, questID, &existing)
	if err == nil {
		return nil // already started
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	doc := progressDoc{
		QuestID:      questID,
		Status:       "in_progress",
		StartedAt:    nowUTC(),
		CurrentID:    startCheckpointID,
		CompletedIDs: []string{},
		HintsUsed:    map[string]int{},
	}
	return s.putDoc(ctx, "progress", deviceID, questID, doc)
}

func (s *DocStore) Advance(ctx context.Context, deviceID, questID, nextCheckpointID string) error {
	var doc progressDoc
	err := s.getDoc(ctx, "progress", deviceID, questID, &doc)
	if errors.Is(err, ErrNotFound) {
		return nil // silent no-op
	}
	if err != nil {
		return err
	}

	doc.CompletedIDs = append(doc.CompletedIDs, doc.CurrentID)
	doc.CurrentID = nextCheckpointID
	return s.putDoc(ctx, "progress", deviceID, questID, doc)
}

func (s *DocStore) RecordHint(ctx context.Context, deviceID, questID, checkpointID string) (int, error) {
	var doc progressDoc
	err := s.getDoc(ctx, "progress", deviceID, questID, &doc)
	if errors.Is(err, ErrNotFound) {
		return 0, nil // silent no-op
	}
	if err != nil {
		return 0, err
	}

	if doc.HintsUsed == nil {
		doc.HintsUsed = map[string]int{}
	}
	count := doc.HintsUsed[checkpointID]
	if count >= quest.HintLadderSize {
		return count, nil // saturated
	}
	count++
	doc.HintsUsed[checkpointID] = count
	if err := s.putDoc(ctx, "progress", deviceID, questID, doc); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *DocStore) Complete(ctx context.Context, deviceID, questID, finishCheckpointID, voucherCode string) (*quest.CompletionRecord, error) {
	// Completion records are written exactly once. Hand back the
	// existing record before touching anything, even if a stray
	// progress record exists alongside it.
	if existing, err := s.GetCompletion(ctx, deviceID, questID); err != nil {
		return nil, err
	} else if existing != nil {
		if err := s.delDoc(ctx, "progress", deviceID, questID); err != nil {
			return nil, err
		}
		return existing, nil
	}

	var doc progressDoc
	err := s.getDoc(ctx, "progress", deviceID, questID, &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil // never started; silent no-op
	}
	if err != nil {
		return nil, err
	}

	if doc.CurrentID != finishCheckpointID {
		return nil, nil // not at the finish; silent no-op
	}

	totalHints := 0
	for _, n := range doc.HintsUsed {
		totalHints += n
	}
	now := time.Now().UTC()

	// A mangled start timestamp parses to the zero time; clamp rather
	// than record a millennium-long run.
	duration := 0
	if started := parseTime(doc.StartedAt); !started.IsZero() {
		if d := int(now.Sub(started).Minutes()); d > 0 {
			duration = d
		}
	}

	completion := completionDoc{
		QuestID:        questID,
		CompletedAt:    now.Format(timeLayout),
		Duration:       duration,
		TotalHintsUsed: totalHints,
		VoucherCode:    voucherCode,
	}

	if err := s.putDoc(ctx, "completions", deviceID, questID, completion); err != nil {
		return nil, err
	}
	if err := s.delDoc(ctx, "progress", deviceID, questID); err != nil {
		return nil, err
	}
	return completionFromDoc(completion), nil
}

func (s *DocStore) GetProgress(ctx context.Context, deviceID, questID string) (*quest.ProgressRecord, error) {
	var doc progressDoc
	err := s.getDoc(ctx, "progress", deviceID, questID, &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return progressFromDoc(doc), nil
}

func (s *DocStore) HasCompleted(ctx context.Context, deviceID, questID string) (bool, error) {
	rec, err := s.GetCompletion(ctx, deviceID, questID)
	return rec != nil, err
}

func (s *DocStore) GetCompletion(ctx context.Context, deviceID, questID string) (*quest.CompletionRecord, error) {
	var doc completionDoc
	err := s.getDoc(ctx, "completions", deviceID, questID, &doc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return completionFromDoc(doc), nil
}

func (s *DocStore) ListCompletions(ctx context.Context, deviceID string) ([]quest.CompletionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM completions WHERE device_id = ? ORDER BY quest_id`,
		deviceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quest.CompletionRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var doc completionDoc
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, err
		}
		out = append(out, *completionFromDoc(doc))
	}
	return out, rows.Err()
}

func (s *DocStore) GetDevice(ctx context.Context, deviceID string) (DevicePrefs, error) {
	defaults := DevicePrefs{Permissions: Permissions{GPS: "prompt", Camera: "prompt"}}

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM devices WHERE id = ?`, deviceID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}

	var doc deviceDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return defaults, err
	}
	return DevicePrefs(doc), nil
}

func (s *DocStore) PutDevice(ctx context.Context, deviceID string, prefs DevicePrefs) error {
	data, err := json.Marshal(deviceDoc(prefs))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO devices (id, data) VALUES (?, jsonb(?))`,
		deviceID, string(data),
	)
	return err
}

package server

import (
	"net/http"

	"github.com/sydneyquest/questapi/internal/geo"
	"github.com/sydneyquest/questapi/internal/quest"
)

// progressView is the device's position in a quest as exposed to
// clients.
type progressView struct {
	QuestID      string          `json:"questId"`
	Status       string          `json:"status"`
	StartedAt    string          `json:"startedAt,omitempty"`
	Current      *checkpointView `json:"current,omitempty"`
	Next         *checkpointView `json:"next,omitempty"`
	CompletedIDs []string        `json:"completedLocationIds"`
	Completed    int             `json:"completed"`
	Total        int             `json:"total"`
	Percentage   int             `json:"percentage"`
	HintsUsed    int             `json:"hintsUsed"`
}

// completionView is a finished quest as exposed to clients.
type completionView struct {
	QuestID        string `json:"questId"`
	CompletedAt    string `json:"completedAt"`
	Duration       int    `json:"duration"`
	TotalHintsUsed int    `json:"totalHintsUsed"`
	VoucherCode    string `json:"voucherCode"`
}

func completionViewOf(c *quest.CompletionRecord) completionView {
	return completionView{
		QuestID:        c.QuestID,
		CompletedAt:    c.CompletedAt.UTC().Format(timeLayout),
		Duration:       c.DurationMinutes,
		TotalHintsUsed: c.TotalHintsUsed,
		VoucherCode:    c.VoucherCode,
	}
}

func progressViewOf(q *quest.Quest, p *quest.ProgressRecord) progressView {
	v := progressView{
		QuestID:      q.ID,
		Status:       "in_progress",
		StartedAt:    p.StartedAt.UTC().Format(timeLayout),
		CompletedIDs: p.CompletedIDs,
		Total:        len(q.Checkpoints),
		HintsUsed:    p.TotalHintsUsed(),
	}

	if cp := q.CheckpointByID(p.CurrentID); cp != nil {
		cpv := checkpointViewOf(cp)
		v.Current = &cpv
	}
	if next := q.NextAfter(p.CurrentID); next != nil {
		nv := checkpointViewOf(next)
		v.Next = &nv
	}

	// The current checkpoint is satisfied but not yet in the completed
	// set, so it counts toward the percentage.
	v.Completed = len(p.CompletedIDs) + 1
	v.Percentage = v.Completed * 100 / v.Total
	return v
}

func handleProgress(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceFrom(r)
		q := questFrom(r)

		if completion, err := store.GetCompletion(r.Context(), deviceID, q.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "loading completion")
			return
		} else if completion != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"questId":    q.ID,
				"status":     "completed",
				"completion": completionViewOf(completion),
			})
			return
		}

		progress, err := store.GetProgress(r.Context(), deviceID, q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading progress")
			return
		}
		if progress == nil {
			writeJSON(w, http.StatusOK, progressView{
				QuestID:      q.ID,
				Status:       "not_started",
				CompletedIDs: []string{},
				Total:        len(q.Checkpoints),
			})
			return
		}

		writeJSON(w, http.StatusOK, progressViewOf(q, progress))
	}
}

// handleStart begins a quest without a marker scan. The start
// checkpoint has no question, so physical presence inside its
// geofence is the only requirement. Used when the start marker is
// damaged or unreadable; scanning the marker does the same thing.
func handleStart(store Store, broker *Broker) http.HandlerFunc {
	type request struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "lat and lng are required")
			return
		}

		deviceID := deviceFrom(r)
		q := questFrom(r)
		start := q.Start()

		if done, err := store.HasCompleted(r.Context(), deviceID, q.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "loading completion")
			return
		} else if done {
			writeError(w, http.StatusConflict, "quest already completed")
			return
		}

		user := geo.Coordinates{Lat: req.Lat, Lng: req.Lng}
		if !geo.IsWithinRadius(user, start.Coordinates, start.Radius) {
			meters := geo.DistanceMeters(user, start.Coordinates)
			writeJSON(w, http.StatusConflict, map[string]any{
				"result":   string(quest.ScanOutOfRange),
				"distance": geo.FormatDistance(meters),
			})
			return
		}

		progress, err := store.GetProgress(r.Context(), deviceID, q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading progress")
			return
		}

		if err := store.StartQuest(r.Context(), deviceID, q.ID, start.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "starting quest")
			return
		}

		if progress == nil {
			broker.Publish(deviceID, QuestEvent{
				Type:         "quest_started",
				QuestID:      q.ID,
				CheckpointID: start.ID,
			})
			progress, err = store.GetProgress(r.Context(), deviceID, q.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "loading progress")
				return
			}
		}

		writeJSON(w, http.StatusOK, progressViewOf(q, progress))
	}
}

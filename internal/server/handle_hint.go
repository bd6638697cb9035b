package server

import (
	"net/http"

	"github.com/sydneyquest/questapi/internal/quest"
)

func handleHint(store Store, broker *Broker) http.HandlerFunc {
	type request struct {
		CheckpointID string `json:"checkpointId"`
	}
	type response struct {
		Hint      string `json:"hint"`
		HintsUsed int    `json:"hintsUsed"`
		Remaining int    `json:"remaining"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil || req.CheckpointID == "" {
			writeError(w, http.StatusBadRequest, "checkpointId is required")
			return
		}

		deviceID := deviceFrom(r)
		q := questFrom(r)

		cp := q.CheckpointByID(req.CheckpointID)
		if cp == nil {
			writeError(w, http.StatusNotFound, "unknown checkpoint")
			return
		}
		if cp.Question == nil {
			writeError(w, http.StatusConflict, "checkpoint has no hints")
			return
		}

		progress, err := store.GetProgress(r.Context(), deviceID, q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading progress")
			return
		}
		if progress == nil {
			writeError(w, http.StatusConflict, "quest not started")
			return
		}
		// Hints are only for the current objective; requesting them
		// for a later stop would leak its whole ladder up front.
		if q.IndexOf(cp.ID) != q.IndexOf(progress.CurrentID)+1 {
			writeError(w, http.StatusConflict, "checkpoint is not the next stop")
			return
		}

		count, err := store.RecordHint(r.Context(), deviceID, q.ID, cp.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "recording hint")
			return
		}
		if count == 0 {
			writeError(w, http.StatusConflict, "quest not started")
			return
		}

		broker.Publish(deviceID, QuestEvent{
			Type:         "hint_used",
			QuestID:      q.ID,
			CheckpointID: cp.ID,
		})

		// The ladder saturates: once all hints are revealed, repeat
		// requests return the last hint without further charge.
		writeJSON(w, http.StatusOK, response{
			Hint:      cp.Question.Hints[count-1],
			HintsUsed: count,
			Remaining: quest.HintLadderSize - count,
		})
	}
}

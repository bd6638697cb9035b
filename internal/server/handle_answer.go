package server

import (
	"net/http"

	"github.com/sydneyquest/questapi/internal/answer"
	"github.com/sydneyquest/questapi/internal/quest"
)

func handleAnswer(store Store, broker *Broker) http.HandlerFunc {
	type request struct {
		CheckpointID string `json:"checkpointId"`
		Answer       string `json:"answer"`
	}
	type response struct {
		Correct    bool            `json:"correct"`
		Completed  bool            `json:"completed,omitempty"`
		Next       *checkpointView `json:"next,omitempty"`
		Completion *completionView `json:"completion,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil || req.CheckpointID == "" {
			writeError(w, http.StatusBadRequest, "checkpointId and answer are required")
			return
		}

		deviceID := deviceFrom(r)
		q := questFrom(r)

		progress, err := store.GetProgress(r.Context(), deviceID, q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading progress")
			return
		}
		if progress == nil {
			writeError(w, http.StatusConflict, "quest not started")
			return
		}

		cp := q.CheckpointByID(req.CheckpointID)
		if cp == nil {
			writeError(w, http.StatusNotFound, "unknown checkpoint")
			return
		}
		if cp.Question == nil {
			writeError(w, http.StatusConflict, "checkpoint has no question")
			return
		}
		// Only the immediate successor of the current position may be
		// answered; everything else is a stale or replayed request.
		if q.IndexOf(cp.ID) != q.IndexOf(progress.CurrentID)+1 {
			writeError(w, http.StatusConflict, "checkpoint is not the next stop")
			return
		}

		if !answer.IsCorrect(req.Answer, cp.Question.Answer, cp.Question.AlternativeAnswers) {
			broker.Publish(deviceID, QuestEvent{
				Type:         "wrong_answer",
				QuestID:      q.ID,
				CheckpointID: cp.ID,
			})
			writeJSON(w, http.StatusOK, response{Correct: false})
			return
		}

		if err := store.Advance(r.Context(), deviceID, q.ID, cp.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "recording progress")
			return
		}

		if cp.Kind == quest.KindFinish {
			completion, err := store.Complete(r.Context(), deviceID, q.ID, cp.ID, quest.NewVoucherCode(q))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "recording completion")
				return
			}
			broker.Publish(deviceID, QuestEvent{
				Type:        "quest_completed",
				QuestID:     q.ID,
				VoucherCode: completion.VoucherCode,
			})
			cv := completionViewOf(completion)
			writeJSON(w, http.StatusOK, response{Correct: true, Completed: true, Completion: &cv})
			return
		}

		broker.Publish(deviceID, QuestEvent{
			Type:         "checkpoint_completed",
			QuestID:      q.ID,
			CheckpointID: cp.ID,
		})

		resp := response{Correct: true}
		if next := q.NextAfter(cp.ID); next != nil {
			v := checkpointViewOf(next)
			resp.Next = &v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

package server

import (
	"net/http"

	"github.com/sydneyquest/questapi/internal/geo"
	"github.com/sydneyquest/questapi/internal/quest"
)

// scanStatus maps validation outcomes to HTTP status codes. Scans
// never mutate state on failure, so every failure is safe to retry.
var scanStatus = map[quest.ScanCode]int{
	quest.ScanUnrecognizedMarker: http.StatusNotFound,
	quest.ScanOutOfRange:         http.StatusConflict,
	quest.ScanQuestNotStarted:    http.StatusConflict,
	quest.ScanOutOfSequence:      http.StatusConflict,
}

func handleScan(store Store, broker *Broker) http.HandlerFunc {
	type request struct {
		Code string  `json:"code"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	}
	type response struct {
		Result     string          `json:"result"`
		Checkpoint *checkpointView `json:"checkpoint,omitempty"`
		Distance   string          `json:"distance,omitempty"`
		Started    bool            `json:"started,omitempty"`
		Next       string          `json:"next,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil || req.Code == "" {
			writeError(w, http.StatusBadRequest, "code, lat and lng are required")
			return
		}

		deviceID := deviceFrom(r)
		q := questFrom(r)

		if done, err := store.HasCompleted(r.Context(), deviceID, q.ID); err != nil {
			writeError(w, http.StatusInternalServerError, "loading completion")
			return
		} else if done {
			writeError(w, http.StatusConflict, "quest already completed")
			return
		}

		progress, err := store.GetProgress(r.Context(), deviceID, q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading progress")
			return
		}

		result := quest.ValidateScan(q, progress, req.Code, geo.Coordinates{Lat: req.Lat, Lng: req.Lng})
		if !result.OK() {
			resp := response{Result: string(result.Code)}
			if result.Checkpoint != nil {
				v := checkpointViewOf(result.Checkpoint)
				resp.Checkpoint = &v
				resp.Distance = geo.FormatDistance(result.Distance)
			}
			if result.Next != nil {
				resp.Next = result.Next.Name
			}
			writeJSON(w, scanStatus[result.Code], resp)
			return
		}

		resp := response{
			Result:   string(result.Code),
			Distance: geo.FormatDistance(result.Distance),
		}
		v := checkpointViewOf(result.Checkpoint)
		resp.Checkpoint = &v

		// Scanning the start marker begins the quest. A repeat scan of
		// the start marker is a no-op on an in-progress record.
		if result.Checkpoint.Kind == quest.KindStart {
			if err := store.StartQuest(r.Context(), deviceID, q.ID, result.Checkpoint.ID); err != nil {
				writeError(w, http.StatusInternalServerError, "starting quest")
				return
			}
			if progress == nil {
				resp.Started = true
				broker.Publish(deviceID, QuestEvent{
					Type:         "quest_started",
					QuestID:      q.ID,
					CheckpointID: result.Checkpoint.ID,
				})
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

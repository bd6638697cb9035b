package server

import (
	"net/http"

	"github.com/sydneyquest/questapi/internal/quest"
)

func handleHistory(catalog *quest.Catalog, store Store) http.HandlerFunc {
	type entry struct {
		QuestID        string `json:"questId"`
		Title          string `json:"title"`
		WeekNumber     int    `json:"weekNumber"`
		CompletedAt    string `json:"completedAt"`
		Duration       int    `json:"duration"`
		TotalHintsUsed int    `json:"totalHintsUsed"`
		VoucherCode    string `json:"voucherCode"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceFrom(r)

		completions, err := store.ListCompletions(r.Context(), deviceID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading history")
			return
		}

		entries := []entry{}
		for _, c := range completions {
			e := entry{
				QuestID:        c.QuestID,
				CompletedAt:    c.CompletedAt.UTC().Format(timeLayout),
				Duration:       c.DurationMinutes,
				TotalHintsUsed: c.TotalHintsUsed,
				VoucherCode:    c.VoucherCode,
			}
			if q, ok := catalog.ByID(c.QuestID); ok {
				e.Title = q.Title
				e.WeekNumber = q.WeekNumber
			}
			entries = append(entries, e)
		}

		writeJSON(w, http.StatusOK, map[string]any{"completions": entries})
	}
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sydneyquest/questapi/internal/geo"
	"github.com/sydneyquest/questapi/internal/quest"
)

// questSummary is the catalog listing entry. Distance fields are only
// present when the caller supplied a position.
type questSummary struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	WeekNumber        int     `json:"weekNumber"`
	Status            string  `json:"status"`
	EstimatedDuration int     `json:"estimatedDuration"`
	Checkpoints       int     `json:"checkpoints"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	Progress          string  `json:"progress"`
	Distance          string  `json:"distance,omitempty"`
	DistanceMeters    float64 `json:"distanceMeters,omitempty"`
	Proximity         string  `json:"proximity,omitempty"`
}

// checkpointView is a checkpoint as exposed to clients. Answers,
// alternate answers and hints never leave the server.
type checkpointView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        string          `json:"type"`
	Coordinates geo.Coordinates `json:"coordinates"`
	Radius      float64         `json:"radius"`
	Clue        string          `json:"clue,omitempty"`
	Question    string          `json:"question,omitempty"`
}

func checkpointViewOf(cp *quest.Checkpoint) checkpointView {
	v := checkpointView{
		ID:          cp.ID,
		Name:        cp.Name,
		Kind:        string(cp.Kind),
		Coordinates: cp.Coordinates,
		Radius:      cp.Radius,
		Clue:        cp.Clue,
	}
	if cp.Question != nil {
		v.Question = cp.Question.Text
	}
	return v
}

func parseCoordinates(r *http.Request) (geo.Coordinates, bool) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		return geo.Coordinates{}, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return geo.Coordinates{}, false
	}
	return geo.Coordinates{Lat: lat, Lng: lng}, true
}

func handleListQuests(catalog *quest.Catalog, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceFrom(r)
		pos, hasPos := parseCoordinates(r)
		now := time.Now()

		summaries := []questSummary{}
		add := func(q *quest.Quest, status string) {
			s := questSummary{
				ID:                q.ID,
				Title:             q.Title,
				Description:       q.Description,
				WeekNumber:        q.WeekNumber,
				Status:            status,
				EstimatedDuration: q.EstimatedDuration,
				Checkpoints:       len(q.Checkpoints),
				StartDate:         q.StartDate.UTC().Format(timeLayout),
				EndDate:           q.EndDate.UTC().Format(timeLayout),
				Progress:          "not_started",
			}

			if done, err := store.HasCompleted(r.Context(), deviceID, q.ID); err == nil && done {
				s.Progress = "completed"
			} else if prog, err := store.GetProgress(r.Context(), deviceID, q.ID); err == nil && prog != nil {
				s.Progress = "in_progress"
			}

			if hasPos {
				meters := geo.DistanceMeters(pos, q.Start().Coordinates)
				s.Distance = geo.FormatDistance(meters)
				s.DistanceMeters = meters
				s.Proximity = string(geo.Classify(meters))
			}
			summaries = append(summaries, s)
		}

		for _, q := range catalog.ListActive(now) {
			add(q, "active")
		}
		for _, q := range catalog.ListUpcoming(now) {
			add(q, "upcoming")
		}

		writeJSON(w, http.StatusOK, map[string]any{"quests": summaries})
	}
}

func handleGetQuest(store Store) http.HandlerFunc {
	type response struct {
		ID                string           `json:"id"`
		Title             string           `json:"title"`
		Description       string           `json:"description"`
		WeekNumber        int              `json:"weekNumber"`
		Theme             quest.Theme      `json:"theme"`
		EstimatedDuration int              `json:"estimatedDuration"`
		StartDate         string           `json:"startDate"`
		EndDate           string           `json:"endDate"`
		Rewards           quest.Rewards    `json:"rewards"`
		Checkpoints       []checkpointView `json:"checkpoints"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q := questFrom(r)

		views := make([]checkpointView, 0, len(q.Checkpoints))
		for i := range q.Checkpoints {
			views = append(views, checkpointViewOf(&q.Checkpoints[i]))
		}

		writeJSON(w, http.StatusOK, response{
			ID:                q.ID,
			Title:             q.Title,
			Description:       q.Description,
			WeekNumber:        q.WeekNumber,
			Theme:             q.Theme,
			EstimatedDuration: q.EstimatedDuration,
			StartDate:         q.StartDate.UTC().Format(timeLayout),
			EndDate:           q.EndDate.UTC().Format(timeLayout),
			Rewards:           q.Rewards,
			Checkpoints:       views,
		})
	}
}

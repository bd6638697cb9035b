package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/sydneyquest/questapi/internal/quest"
)

func addRoutes(r chi.Router, logger *slog.Logger, catalog *quest.Catalog, store Store, db *sql.DB) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Sydney Quest API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Events use a query parameter for the device id because
	// EventSource cannot set request headers.
	r.Get("/api/events", handleEvents(broker))

	r.Route("/api", func(r chi.Router) {
		r.Use(deviceMiddleware)

		r.Get("/quests", handleListQuests(catalog, store))
		r.Get("/history", handleHistory(catalog, store))
		r.Get("/device", handleGetDevice(store))
		r.Put("/device", handlePutDevice(store))

		r.Route("/quests/{questID}", func(r chi.Router) {
			r.Use(questMiddleware(catalog))

			r.Get("/", handleGetQuest(store))
			r.Get("/progress", handleProgress(store))
			r.Post("/start", handleStart(store, broker))
			r.Post("/scan", handleScan(store, broker))
			r.Post("/answer", handleAnswer(store, broker))
			r.Post("/hint", handleHint(store, broker))
		})
	})
}

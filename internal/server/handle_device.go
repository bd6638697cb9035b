package server

import (
	"net/http"
)

func handleGetDevice(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := store.GetDevice(r.Context(), deviceFrom(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading device")
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

func handlePutDevice(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var prefs DevicePrefs
		if err := readJSON(r, &prefs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid device preferences")
			return
		}

		if err := store.PutDevice(r.Context(), deviceFrom(r), prefs); err != nil {
			writeError(w, http.StatusInternalServerError, "saving device")
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spinstage/backend/internal/script"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func GetScript(scripts script.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := chi.URLParam(r, "campaignID")
		cues, err := scripts.CuesByCampaign(r.Context(), campaignID)
		if err != nil {
			logger.Error("load script", zap.String("campaign_id", campaignID), zap.Error(err))
			http.Error(w, "failed to load script", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cues)
	}
}

func PutScript(scripts script.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := chi.URLParam(r, "campaignID")

		var cues []script.Cue
		if err := json.NewDecoder(r.Body).Decode(&cues); err != nil {
			http.Error(w, "bad script body", http.StatusBadRequest)
			return
		}
		if err := scripts.ReplaceCues(r.Context(), campaignID, cues); err != nil {
			logger.Error("save script", zap.String("campaign_id", campaignID), zap.Error(err))
			http.Error(w, "failed to save script", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetItems(items script.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := chi.URLParam(r, "campaignID")
		list, err := items.ItemsByCampaign(r.Context(), campaignID)
		if err != nil {
			logger.Error("load items", zap.String("campaign_id", campaignID), zap.Error(err))
			http.Error(w, "failed to load items", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

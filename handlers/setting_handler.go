package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/club-system/services"
	"github.com/go-chi/chi/v5"
)

type SettingHandler struct {
	settingService *services.SettingService
}

func NewSettingHandler(ss *services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: ss}
}

func (h *SettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"settings": settings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequestResponse(w, r, errors.New("missing setting key in URL path"))
		return
	}

	setting, err := h.settingService.Get(r.Context(), key)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"setting": setting}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequestResponse(w, r, errors.New("missing setting key in URL path"))
		return
	}

	var input struct {
		Value string `json:"value"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Value == "" {
		badRequestResponse(w, r, errors.New("value is required"))
		return
	}

	setting, err := h.settingService.Update(r.Context(), key, input.Value)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"setting": setting}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

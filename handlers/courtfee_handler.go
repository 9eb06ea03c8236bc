package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/club-system/services"
)

type CourtFeeHandler struct {
	courtFeeService *services.CourtFeeService
}

func NewCourtFeeHandler(cs *services.CourtFeeService) *CourtFeeHandler {
	return &CourtFeeHandler{courtFeeService: cs}
}

// RecordFee records or replaces the court fee of a practice and splits it
// among attending and late participants.
func (h *CourtFeeHandler) RecordFee(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TotalFee *int `json:"total_fee"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TotalFee == nil {
		badRequestResponse(w, r, errors.New("total_fee is required"))
		return
	}

	fee, err := h.courtFeeService.Record(r.Context(), practiceID, *input.TotalFee)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"court_fee": fee}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtFeeHandler) GetFeeByPractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fee, err := h.courtFeeService.GetByPractice(r.Context(), practiceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"court_fee": fee}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtFeeHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	year, err := parseYearQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.courtFeeService.UserStats(r.Context(), userID, year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"year": year, "stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAllStats returns every active member's yearly payment total compared
// against the annual fee setting.
func (h *CourtFeeHandler) GetAllStats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.courtFeeService.AllStats(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"year": year, "stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/club-system/middleware"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/services"
)

type PracticeHandler struct {
	practiceService *services.PracticeService
}

func NewPracticeHandler(ps *services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: ps}
}

type createPracticeRequest struct {
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          *string `json:"end_time"`
	Location         string  `json:"location"`
	Courts           int     `json:"courts"`
	CapacityPerCourt *int    `json:"capacity_per_court"`
	DeadlineDatetime string  `json:"deadline_datetime"`
	CourtFeePerCourt *int    `json:"court_fee_per_court"`
	Notes            *string `json:"notes"`
}

type updatePracticeRequest struct {
	Date             *string `json:"date"`
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	Location         *string `json:"location"`
	Courts           *int    `json:"courts"`
	CapacityPerCourt *int    `json:"capacity_per_court"`
	DeadlineDatetime *string `json:"deadline_datetime"`
	CourtFeePerCourt *int    `json:"court_fee_per_court"`
	Status           *string `json:"status"`
	Notes            *string `json:"notes"`
}

func (h *PracticeHandler) CreatePractice(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var req createPracticeRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		badRequestResponse(w, r, errors.New("date must be in YYYY-MM-DD format"))
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.DeadlineDatetime)
	if err != nil {
		badRequestResponse(w, r, errors.New("deadline_datetime must be in RFC3339 format"))
		return
	}

	input := services.CreatePracticeInput{
		Date:             date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		Courts:           req.Courts,
		CapacityPerCourt: req.CapacityPerCourt,
		DeadlineDatetime: deadline,
		CourtFeePerCourt: req.CourtFeePerCourt,
		Notes:            req.Notes,
	}

	practice, err := h.practiceService.Create(r.Context(), input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"practice": practice}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PracticeHandler) ListPractices(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePracticeFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	practices, err := h.practiceService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"practices": practices}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PracticeHandler) GetPractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	practice, err := h.practiceService.Get(r.Context(), practiceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"practice": practice}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PracticeHandler) UpdatePractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updatePracticeRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	upd, err := buildPracticeUpdate(req)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	practice, err := h.practiceService.Update(r.Context(), practiceID, upd)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"practice": practice}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PracticeHandler) DeletePractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.practiceService.Delete(r.Context(), practiceID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ImportPractices accepts the booking system's text export either as a
// multipart "file" field or as a raw request body.
func (h *PracticeHandler) ImportPractices(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	text, err := readImportPayload(r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.practiceService.ImportText(r.Context(), text, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "import completed",
		"created": result.Created,
		"errors":  result.Errors,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parsePracticeFilter(r *http.Request) (models.PracticeFilter, error) {
	var filter models.PracticeFilter

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := models.PracticeStatus(statusStr)
		switch status {
		case models.PracticeOpen, models.PracticeClosed,
			models.PracticeCompleted, models.PracticeCancelled:
			filter.Status = &status
		default:
			return filter, errors.New("invalid status filter")
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return filter, errors.New("from must be in YYYY-MM-DD format")
		}
		filter.FromDate = &from
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return filter, errors.New("to must be in YYYY-MM-DD format")
		}
		filter.ToDate = &to
	}

	return filter, nil
}

func buildPracticeUpdate(req updatePracticeRequest) (repositories.PracticeUpdate, error) {
	var upd repositories.PracticeUpdate

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return upd, errors.New("date must be in YYYY-MM-DD format")
		}
		upd.Date = &date
	}
	if req.DeadlineDatetime != nil {
		deadline, err := time.Parse(time.RFC3339, *req.DeadlineDatetime)
		if err != nil {
			return upd, errors.New("deadline_datetime must be in RFC3339 format")
		}
		upd.DeadlineDatetime = &deadline
	}
	if req.Status != nil {
		status := models.PracticeStatus(*req.Status)
		switch status {
		case models.PracticeOpen, models.PracticeClosed,
			models.PracticeCompleted, models.PracticeCancelled:
			upd.Status = &status
		default:
			return upd, errors.New("invalid practice status")
		}
	}

	upd.StartTime = req.StartTime
	upd.EndTime = req.EndTime
	upd.Location = req.Location
	upd.Courts = req.Courts
	upd.CapacityPerCourt = req.CapacityPerCourt
	upd.CourtFeePerCourt = req.CourtFeePerCourt
	upd.Notes = req.Notes

	return upd, nil
}

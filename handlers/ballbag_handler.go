package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/club-system/services"
)

type BallBagHandler struct {
	ballBagService *services.BallBagService
}

func NewBallBagHandler(bs *services.BallBagService) *BallBagHandler {
	return &BallBagHandler{ballBagService: bs}
}

func (h *BallBagHandler) CreateBag(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == "" {
		badRequestResponse(w, r, errors.New("name is required"))
		return
	}

	bag, err := h.ballBagService.CreateBag(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ball_bag": bag}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BallBagHandler) ListBags(w http.ResponseWriter, r *http.Request) {
	bags, err := h.ballBagService.ListBags(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ball_bags": bags}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordTakeaway logs a manual bag handoff after a practice.
func (h *BallBagHandler) RecordTakeaway(w http.ResponseWriter, r *http.Request) {
	ballBagID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PracticeID int `json:"practice_id"`
		UserID     int `json:"user_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PracticeID <= 0 || input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("practice_id and user_id are required"))
		return
	}

	if err := h.ballBagService.RecordTakeaway(r.Context(), ballBagID, input.PracticeID, input.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "takeaway recorded"}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AutoAssign distributes one bag per court among attending participants,
// least-recent carriers first.
func (h *BallBagHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PracticeID int `json:"practice_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PracticeID <= 0 {
		badRequestResponse(w, r, errors.New("practice_id is required"))
		return
	}

	assignments, err := h.ballBagService.AutoAssign(r.Context(), input.PracticeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"assignments": assignments}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BallBagHandler) History(w http.ResponseWriter, r *http.Request) {
	ballBagID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.ballBagService.History(r.Context(), ballBagID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"history": history}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BallBagHandler) HoldersByPractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	holders, err := h.ballBagService.Holders(r.Context(), practiceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"holders": holders}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BallBagHandler) Stats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.ballBagService.Stats(r.Context(), year)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"year": year, "stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseYearQuery(r *http.Request) (int, error) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return 0, errors.New("invalid year")
	}
	return year, nil
}

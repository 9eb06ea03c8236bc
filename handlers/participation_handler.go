package handlers

import (
	"net/http"

	"github.com/Dosada05/club-system/middleware"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/services"
)

type ParticipationHandler struct {
	participationService *services.ParticipationService
}

func NewParticipationHandler(ps *services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

// Signup registers or re-registers the current user for a practice.
func (h *ParticipationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Status models.ParticipationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participation, err := h.participationService.Signup(r.Context(), currentUserID, practiceID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"participation": participation}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipationHandler) ListByPractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participations, err := h.participationService.ListByPractice(r.Context(), practiceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"participations": participations}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipationHandler) StatsByPractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.participationService.Stats(r.Context(), practiceID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMine returns the current user's participation history.
func (h *ParticipationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	participations, err := h.participationService.ListByUser(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"participations": participations}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	participationID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	currentUserRole, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user role")
		return
	}

	if err := h.participationService.Delete(r.Context(), participationID, currentUserID, currentUserRole); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/courtside/tournament-engine/services"
)

type BracketHandler struct {
	bracketService *services.BracketService
}

func NewBracketHandler(bracketService *services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateBracket(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GenerateBlankBracketHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Size int `json:"size"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.GenerateBlankBracket(r.Context(), bracketID, input.Size)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) FillPlaceholderHandler(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name    string  `json:"name"`
		Partner *string `json:"partner,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.bracketService.FillPlaceholder(r.Context(), participantID, input.Name, input.Partner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

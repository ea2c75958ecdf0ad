package handlers

import (
	"net/http"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
}

func NewTournamentHandler(tournamentService *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) CreateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	var params services.CreateTournamentParams
	if err := readJSON(w, r, &params); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentData(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) UpdateTournamentStatusHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.TournamentStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournamentStatus(r.Context(), tournamentID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) CreateBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var params services.CreateBracketParams
	if err := readJSON(w, r, &params); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.tournamentService.CreateBracket(r.Context(), tournamentID, params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) AddParticipantHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var params services.AddParticipantParams
	if err := readJSON(w, r, &params); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.tournamentService.AddParticipant(r.Context(), bracketID, params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) BracketStandingsHandler(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.BracketStandings(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

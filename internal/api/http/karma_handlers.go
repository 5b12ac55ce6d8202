package http

import (
	"net/http"

	"hearthshare-backend/internal/domain"
)

type awardKarmaRequest struct {
	TargetUserID  int32                 `json:"target_user_id"`
	EventType     domain.KarmaEventType `json:"event_type"`
	Description   string                `json:"description"`
	RelatedBillID *int32                `json:"related_bill_id"`
}

func (s *Server) handleAwardKarma(w http.ResponseWriter, r *http.Request) {
	var req awardKarmaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	event, err := s.karmaSvc.AwardKarma(r.Context(), userID(r), req.TargetUserID, req.EventType, req.Description, req.RelatedBillID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": event})
}

type adjustKarmaRequest struct {
	TargetUserID int32  `json:"target_user_id"`
	Delta        int32  `json:"delta"`
	Description  string `json:"description"`
}

func (s *Server) handleAdjustKarma(w http.ResponseWriter, r *http.Request) {
	var req adjustKarmaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	event, err := s.karmaSvc.AdjustKarma(r.Context(), userID(r), req.TargetUserID, req.Delta, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": event})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.karmaSvc.GetLeaderboard(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

func (s *Server) handleMonthlyHero(w http.ResponseWriter, r *http.Request) {
	hero, err := s.karmaSvc.GetMonthlyHero(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hero": hero})
}

func (s *Server) handleKarmaHistory(w http.ResponseWriter, r *http.Request) {
	events, err := s.karmaSvc.GetKarmaHistory(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleKarmaSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.karmaSvc.GetKarmaSummary(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

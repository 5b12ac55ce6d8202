package http

import (
	"net/http"
)

func (s *Server) handlePointsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.pointsSvc.GetPointsSummary(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePointsHistory(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	entries, total, err := s.pointsSvc.GetHistory(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "total": total, "page": page})
}

func (s *Server) handleRebuildBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.pointsSvc.RebuildBalance(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"balance": balance})
}

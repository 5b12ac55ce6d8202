package http

import (
	"net/http"
	"time"

	"hearthshare-backend/internal/domain"
)

type createSwapRequest struct {
	SwapType          domain.SwapType `json:"swap_type"`
	TargetAmountCents int64           `json:"target_amount_cents"`
	MinContribution   *int64          `json:"min_contribution_cents"`
	MaxParticipants   int32           `json:"max_participants"`
	TargetBillID      *int32          `json:"target_bill_id"`
	GroupID           *int32          `json:"group_id"`
	ExecutionDeadline *time.Time      `json:"execution_deadline"`
	TierRequired      int32           `json:"tier_required"`
}

func (s *Server) handleCreateSwap(w http.ResponseWriter, r *http.Request) {
	var req createSwapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	swap := &domain.MultiPartySwap{
		SwapType:          req.SwapType,
		TargetAmountCents: req.TargetAmountCents,
		MinContribution:   req.MinContribution,
		MaxParticipants:   req.MaxParticipants,
		TargetBillID:      req.TargetBillID,
		GroupID:           req.GroupID,
		ExecutionDeadline: req.ExecutionDeadline,
		TierRequired:      req.TierRequired,
	}
	created, err := s.swapSvc.CreateSwap(r.Context(), userID(r), swap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"swap": created})
}

func (s *Server) handleGetSwap(w http.ResponseWriter, r *http.Request) {
	swap, participants, boost, err := s.swapSvc.GetSwap(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swap": swap, "participants": participants, "boost": boost})
}

func (s *Server) handleListMySwaps(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	swaps, total, err := s.swapSvc.ListMySwaps(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swaps": swaps, "total": total, "page": page})
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	offering := r.URL.Query().Get("offering") == "true"
	eligible, reasons, err := s.swapSvc.CheckEligibility(r.Context(), userID(r), offering)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"eligible": eligible, "reasons": reasons})
}

type joinSwapRequest struct {
	ContributionCents int64  `json:"contribution_cents"`
	BillID            *int32 `json:"bill_id"`
}

func (s *Server) handleJoinSwap(w http.ResponseWriter, r *http.Request) {
	var req joinSwapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	participant, err := s.swapSvc.JoinSwap(r.Context(), userID(r), pathID(r, "id"), req.ContributionCents, req.BillID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"participant": participant})
}

func (s *Server) handleDeclineSwap(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.DeclineParticipant(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.MarkPaid(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

func (s *Server) handleFeeWaiver(w http.ResponseWriter, r *http.Request) {
	if err := s.pointsSvc.DeductPointsForFeeWaiver(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "waived"})
}

func (s *Server) handleConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.ConfirmParticipant(r.Context(), userID(r), pathID(r, "id"), pathID(r, "userID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

type verifyParticipantRequest struct {
	ScreenshotURL string `json:"screenshot_url"`
}

func (s *Server) handleVerifyParticipant(w http.ResponseWriter, r *http.Request) {
	var req verifyParticipantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.swapSvc.VerifyParticipant(r.Context(), userID(r), pathID(r, "id"), pathID(r, "userID"), req.ScreenshotURL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.RemoveParticipant(r.Context(), userID(r), pathID(r, "id"), pathID(r, "userID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleStartSwap(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.StartSwap(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "in_progress"})
}

type completeSwapRequest struct {
	Ratings map[int32]int32 `json:"ratings"` // participant user id -> 1..5
}

func (s *Server) handleCompleteSwap(w http.ResponseWriter, r *http.Request) {
	var req completeSwapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.swapSvc.CompleteSwap(r.Context(), userID(r), pathID(r, "id"), req.Ratings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleCancelSwap(w http.ResponseWriter, r *http.Request) {
	if err := s.swapSvc.CancelSwap(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type boostSwapRequest struct {
	Multiplier    float64 `json:"multiplier"`
	DurationHours int32   `json:"duration_hours"`
}

func (s *Server) handleBoostSwap(w http.ResponseWriter, r *http.Request) {
	var req boostSwapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	boost, err := s.swapSvc.BoostSwap(r.Context(), userID(r), pathID(r, "id"), req.Multiplier, req.DurationHours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"boost": boost})
}

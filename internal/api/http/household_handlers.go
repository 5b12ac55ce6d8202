package http

import (
	"net/http"

	"hearthshare-backend/internal/domain"
)

type createHouseholdRequest struct {
	Name         string              `json:"name"`
	FairnessMode domain.FairnessMode `json:"fairness_mode"`
}

type householdResponse struct {
	Household *domain.Household `json:"household"`
	Members   []domain.Member   `json:"members,omitempty"`
	Member    *domain.Member    `json:"member,omitempty"`
}

func (s *Server) handleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	household, member, err := s.householdSvc.CreateHousehold(r.Context(), userID(r), req.Name, req.FairnessMode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, householdResponse{Household: household, Member: member})
}

func (s *Server) handleGetHousehold(w http.ResponseWriter, r *http.Request) {
	household, members, err := s.householdSvc.GetHousehold(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, householdResponse{Household: household, Members: members})
}

type joinHouseholdRequest struct {
	InviteCode  string `json:"invite_code"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleJoinHousehold(w http.ResponseWriter, r *http.Request) {
	var req joinHouseholdRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	member, err := s.householdSvc.JoinHousehold(r.Context(), userID(r), req.InviteCode, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, householdResponse{Member: member})
}

func (s *Server) handleLeaveHousehold(w http.ResponseWriter, r *http.Request) {
	if err := s.householdSvc.LeaveHousehold(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

type updateHouseholdRequest struct {
	Name         *string              `json:"name"`
	FairnessMode *domain.FairnessMode `json:"fairness_mode"`
	AutoPilot    *bool                `json:"auto_pilot"`
}

func (s *Server) handleUpdateHousehold(w http.ResponseWriter, r *http.Request) {
	var req updateHouseholdRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	upd := domain.HouseholdUpdate{
		Name:         req.Name,
		FairnessMode: req.FairnessMode,
		AutoPilot:    req.AutoPilot,
	}
	if err := s.householdSvc.UpdateHousehold(r.Context(), userID(r), pathID(r, "id"), upd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.householdSvc.ListMembers(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

type updateRoleRequest struct {
	Role domain.MemberRole `json:"role"`
}

func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.householdSvc.UpdateMemberRole(r.Context(), userID(r), pathID(r, "id"), pathID(r, "memberID"), req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.householdSvc.RemoveMember(r.Context(), userID(r), pathID(r, "id"), pathID(r, "memberID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type inviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleInviteByEmail(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.householdSvc.InviteByEmail(r.Context(), userID(r), pathID(r, "id"), req.Email, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type calculateSplitRequest struct {
	AmountCents      int64   `json:"amount_cents"`
	ExcludeMemberIDs []int32 `json:"exclude_member_ids"`
}

func (s *Server) handleCalculateSplit(w http.ResponseWriter, r *http.Request) {
	var req calculateSplitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	splits, err := s.splitSvc.CalculateBillSplit(r.Context(), userID(r), pathID(r, "id"), req.AmountCents, req.ExcludeMemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"splits": splits})
}

type setEquityRequest struct {
	Shares map[int32]float64 `json:"shares"` // member id -> percentage
}

func (s *Server) handleSetEquity(w http.ResponseWriter, r *http.Request) {
	var req setEquityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.splitSvc.SetEquityPercentages(r.Context(), userID(r), pathID(r, "id"), req.Shares); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleCheckBalance(w http.ResponseWriter, r *http.Request) {
	status, err := s.splitSvc.CheckBalance(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance_status": string(status)})
}

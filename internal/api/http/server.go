// Package http exposes the service layer as a JSON API over gorilla/mux.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"hearthshare-backend/internal/security"
	"hearthshare-backend/internal/service"
)

type Server struct {
	authSvc      service.AuthService
	userSvc      service.UserService
	householdSvc service.HouseholdService
	splitSvc     service.SplitService
	karmaSvc     service.KarmaService
	pointsSvc    service.PointsService
	swapSvc      service.SwapService
	noteSvc      service.NotificationService
	tokenMgr     security.TokenManager
}

func NewServer(
	authSvc service.AuthService,
	userSvc service.UserService,
	householdSvc service.HouseholdService,
	splitSvc service.SplitService,
	karmaSvc service.KarmaService,
	pointsSvc service.PointsService,
	swapSvc service.SwapService,
	noteSvc service.NotificationService,
	tokenMgr security.TokenManager,
) *Server {
	return &Server{
		authSvc:      authSvc,
		userSvc:      userSvc,
		householdSvc: householdSvc,
		splitSvc:     splitSvc,
		karmaSvc:     karmaSvc,
		pointsSvc:    pointsSvc,
		swapSvc:      swapSvc,
		noteSvc:      noteSvc,
		tokenMgr:     tokenMgr,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(s.tokenMgr))

	authed.HandleFunc("/me", s.handleGetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/me", s.handleUpdateProfile).Methods(http.MethodPatch)

	authed.HandleFunc("/households", s.handleCreateHousehold).Methods(http.MethodPost)
	authed.HandleFunc("/households/join", s.handleJoinHousehold).Methods(http.MethodPost)
	authed.HandleFunc("/households/{id:[0-9]+}", s.handleGetHousehold).Methods(http.MethodGet)
	authed.HandleFunc("/households/{id:[0-9]+}", s.handleUpdateHousehold).Methods(http.MethodPatch)
	authed.HandleFunc("/households/{id:[0-9]+}/leave", s.handleLeaveHousehold).Methods(http.MethodPost)
	authed.HandleFunc("/households/{id:[0-9]+}/members", s.handleListMembers).Methods(http.MethodGet)
	authed.HandleFunc("/households/{id:[0-9]+}/members/{memberID:[0-9]+}/role", s.handleUpdateMemberRole).Methods(http.MethodPatch)
	authed.HandleFunc("/households/{id:[0-9]+}/members/{memberID:[0-9]+}", s.handleRemoveMember).Methods(http.MethodDelete)
	authed.HandleFunc("/households/{id:[0-9]+}/invite", s.handleInviteByEmail).Methods(http.MethodPost)

	authed.HandleFunc("/households/{id:[0-9]+}/split", s.handleCalculateSplit).Methods(http.MethodPost)
	authed.HandleFunc("/households/{id:[0-9]+}/equity", s.handleSetEquity).Methods(http.MethodPut)
	authed.HandleFunc("/households/{id:[0-9]+}/balance", s.handleCheckBalance).Methods(http.MethodGet)

	authed.HandleFunc("/households/{id:[0-9]+}/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	authed.HandleFunc("/households/{id:[0-9]+}/hero", s.handleMonthlyHero).Methods(http.MethodGet)
	authed.HandleFunc("/karma/events", s.handleAwardKarma).Methods(http.MethodPost)
	authed.HandleFunc("/karma/events", s.handleKarmaHistory).Methods(http.MethodGet)
	authed.HandleFunc("/karma/adjust", s.handleAdjustKarma).Methods(http.MethodPost)
	authed.HandleFunc("/karma/summary", s.handleKarmaSummary).Methods(http.MethodGet)

	authed.HandleFunc("/points/summary", s.handlePointsSummary).Methods(http.MethodGet)
	authed.HandleFunc("/points/history", s.handlePointsHistory).Methods(http.MethodGet)
	authed.HandleFunc("/points/rebuild", s.handleRebuildBalance).Methods(http.MethodPost)

	authed.HandleFunc("/swaps", s.handleCreateSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps", s.handleListMySwaps).Methods(http.MethodGet)
	authed.HandleFunc("/swaps/eligibility", s.handleEligibility).Methods(http.MethodGet)
	authed.HandleFunc("/swaps/{id:[0-9]+}", s.handleGetSwap).Methods(http.MethodGet)
	authed.HandleFunc("/swaps/{id:[0-9]+}/join", s.handleJoinSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/decline", s.handleDeclineSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/paid", s.handleMarkPaid).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/fee-waiver", s.handleFeeWaiver).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/participants/{userID:[0-9]+}/confirm", s.handleConfirmParticipant).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/participants/{userID:[0-9]+}/verify", s.handleVerifyParticipant).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/participants/{userID:[0-9]+}", s.handleRemoveParticipant).Methods(http.MethodDelete)
	authed.HandleFunc("/swaps/{id:[0-9]+}/start", s.handleStartSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/complete", s.handleCompleteSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/cancel", s.handleCancelSwap).Methods(http.MethodPost)
	authed.HandleFunc("/swaps/{id:[0-9]+}/boost", s.handleBoostSwap).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", s.handleListNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", s.handleMarkNotificationRead).Methods(http.MethodPost)

	return r
}

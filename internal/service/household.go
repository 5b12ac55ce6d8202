package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hearthshare-backend/internal/config"
	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository"
)

type householdService struct {
	householdRepo repository.HouseholdRepository
	memberRepo    repository.MemberRepository
	userRepo      repository.UserRepository
	karmaRepo     repository.KarmaRepository
	noteRepo      repository.NotificationRepository
	emailSvc      EmailService
	householdCfg  config.HouseholdConfig
	karmaCfg      config.KarmaConfig
	log           *slog.Logger
}

func NewHouseholdService(
	householdRepo repository.HouseholdRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	karmaRepo repository.KarmaRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	householdCfg config.HouseholdConfig,
	karmaCfg config.KarmaConfig,
) HouseholdService {
	return &householdService{
		householdRepo: householdRepo,
		memberRepo:    memberRepo,
		userRepo:      userRepo,
		karmaRepo:     karmaRepo,
		noteRepo:      noteRepo,
		emailSvc:      emailSvc,
		householdCfg:  householdCfg,
		karmaCfg:      karmaCfg,
		log:           logger.WithService("household"),
	}
}

func (s *householdService) CreateHousehold(ctx context.Context, userID int32, name string, mode domain.FairnessMode) (*domain.Household, *domain.Member, error) {
	if name == "" {
		return nil, nil, domain.E(domain.KindValidationFailed, "household name is required")
	}
	if mode == "" {
		mode = domain.FairnessModeEqual
	}
	if !mode.Valid() {
		return nil, nil, domain.E(domain.KindValidationFailed, fmt.Sprintf("unknown fairness mode %q", mode))
	}

	existing, err := s.memberRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if existing != nil {
		return nil, nil, domain.E(domain.KindConflict, "already an active member of a household")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, nil, domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}

	household := &domain.Household{
		Name:              name,
		FairnessMode:      mode,
		MaxMembers:        s.householdCfg.DefaultMaxMembers,
		Active:            true,
		InviteCode:        newInviteCode(),
		HeadOfHouseholdID: userID,
	}
	if err := s.householdRepo.Create(ctx, household); err != nil {
		return nil, nil, domain.Wrap(domain.KindUnavailable, "household creation failed", err)
	}

	member := &domain.Member{
		UserID:      userID,
		HouseholdID: household.ID,
		DisplayName: user.Name,
		Role:        domain.MemberRoleHead,
		Active:      true,
		JoinedAt:    time.Now(),
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, nil, domain.Wrap(domain.KindUnavailable, "member creation failed", err)
	}

	s.log.Info("household created", "household_id", household.ID, "head_user_id", userID)
	return household, member, nil
}

// newInviteCode returns an 8 character code. Uniqueness rides on the
// households.invite_code unique index; collisions at this entropy are not
// worth a retry loop.
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *householdService) GetHousehold(ctx context.Context, userID, householdID int32) (*domain.Household, []domain.Member, error) {
	if _, err := s.requireActiveMember(ctx, userID, householdID); err != nil {
		return nil, nil, err
	}
	household, err := s.householdRepo.GetByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.E(domain.KindNotFound, "household not found")
		}
		return nil, nil, domain.Wrap(domain.KindUnavailable, "household lookup failed", err)
	}
	members, err := s.memberRepo.ListActiveByHousehold(ctx, householdID)
	if err != nil {
		return nil, nil, domain.Wrap(domain.KindUnavailable, "member listing failed", err)
	}
	return household, members, nil
}

func (s *householdService) JoinHousehold(ctx context.Context, userID int32, inviteCode, displayName string) (*domain.Member, error) {
	household, err := s.householdRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "no household matches this invite code")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "household lookup failed", err)
	}

	elsewhere, err := s.memberRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if elsewhere != nil && elsewhere.HouseholdID != household.ID {
		return nil, domain.E(domain.KindConflict, "already an active member of another household")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}
	if displayName == "" {
		displayName = user.Name
	}

	existing, err := s.memberRepo.GetByHouseholdAndUser(ctx, household.ID, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}

	var member *domain.Member
	switch {
	case existing != nil && existing.Active:
		return nil, domain.E(domain.KindAlreadyExists, "already a member of this household")
	case existing != nil:
		// Revive the left membership instead of creating a second row. The
		// join date restarts so a returning member does not outrank longer
		// continuous members on the joined-at tie-break.
		existing.Active = true
		existing.LeftAt = nil
		existing.JoinedAt = time.Now()
		existing.DisplayName = displayName
		if err := s.memberRepo.Update(ctx, existing); err != nil {
			return nil, domain.Wrap(domain.KindUnavailable, "membership revival failed", err)
		}
		member = existing
	default:
		count, err := s.memberRepo.CountActive(ctx, household.ID)
		if err != nil {
			return nil, domain.Wrap(domain.KindUnavailable, "member count failed", err)
		}
		if count >= household.MaxMembers {
			return nil, domain.E(domain.KindCapacityExceeded, "household is full")
		}
		member = &domain.Member{
			UserID:      userID,
			HouseholdID: household.ID,
			DisplayName: displayName,
			Role:        domain.MemberRoleMember,
			Active:      true,
			JoinedAt:    time.Now(),
		}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			return nil, domain.Wrap(domain.KindUnavailable, "member creation failed", err)
		}
	}

	event := &domain.KarmaEvent{
		HouseholdID: household.ID,
		UserID:      userID,
		EventType:   domain.KarmaEventMemberJoined,
		KarmaChange: s.karmaCfg.MemberJoinedPoints,
		Description: "joined the household",
	}
	if err := s.karmaRepo.CreateEventAndApply(ctx, event); err != nil {
		s.log.Error("join karma award failed", "household_id", household.ID, "user_id", userID, "error", err)
	}

	note := &domain.Notification{
		UserID:      household.HeadOfHouseholdID,
		HouseholdID: household.ID,
		Title:       "New Household Member",
		Message:     fmt.Sprintf("%s joined %s", displayName, household.Name),
		Attributes: map[string]string{
			"type":      "MEMBER_JOINED",
			"member_id": fmt.Sprintf("%d", member.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("join notification failed", "household_id", household.ID, "user_id", userID, "error", err)
	}

	s.log.Info("member joined household", "household_id", household.ID, "user_id", userID, "revived", existing != nil)
	return member, nil
}

func (s *householdService) LeaveHousehold(ctx context.Context, userID, householdID int32) error {
	member, err := s.requireActiveMember(ctx, userID, householdID)
	if err != nil {
		return err
	}

	now := time.Now()
	member.Active = false
	member.LeftAt = &now
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return domain.Wrap(domain.KindUnavailable, "membership update failed", err)
	}

	// A leaving head keeps the household alive; the head reference is left
	// pointing at them until someone reassigns it.
	s.log.Info("member left household", "household_id", householdID, "user_id", userID, "role", member.Role)
	return nil
}

func (s *householdService) UpdateHousehold(ctx context.Context, userID, householdID int32, upd domain.HouseholdUpdate) error {
	member, err := s.requireActiveMember(ctx, userID, householdID)
	if err != nil {
		return err
	}
	if !member.Role.CanEditSettings() {
		return domain.E(domain.KindInsufficientPermissions, "")
	}
	if upd.FairnessMode != nil && !upd.FairnessMode.Valid() {
		return domain.E(domain.KindValidationFailed, fmt.Sprintf("unknown fairness mode %q", *upd.FairnessMode))
	}
	if upd.Name != nil && *upd.Name == "" {
		return domain.E(domain.KindValidationFailed, "household name cannot be empty")
	}
	if upd.Empty() {
		return nil
	}
	if err := s.householdRepo.ApplyUpdate(ctx, householdID, upd); err != nil {
		return domain.Wrap(domain.KindUnavailable, "household update failed", err)
	}
	return nil
}

func (s *householdService) UpdateMemberRole(ctx context.Context, callerID, householdID, memberID int32, role domain.MemberRole) error {
	if !role.Valid() || role == domain.MemberRoleHead {
		return domain.E(domain.KindValidationFailed, fmt.Sprintf("cannot assign role %q", role))
	}

	// Re-fetch the caller's role right before mutating so a concurrent
	// demotion is observed.
	caller, err := s.requireActiveMember(ctx, callerID, householdID)
	if err != nil {
		return err
	}
	if !caller.Role.CanManageMembers() {
		return domain.E(domain.KindInsufficientPermissions, "")
	}

	target, err := s.getHouseholdMember(ctx, householdID, memberID)
	if err != nil {
		return err
	}
	if target.Role == domain.MemberRoleHead && caller.Role != domain.MemberRoleHead {
		return domain.E(domain.KindInsufficientPermissions, "")
	}
	if target.Role == role {
		return nil
	}

	target.Role = role
	if err := s.memberRepo.Update(ctx, target); err != nil {
		return domain.Wrap(domain.KindUnavailable, "member update failed", err)
	}

	note := &domain.Notification{
		UserID:      target.UserID,
		HouseholdID: householdID,
		Title:       "Role Changed",
		Message:     fmt.Sprintf("Your household role is now %s", role),
		Attributes:  map[string]string{"type": "ROLE_CHANGED"},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("role change notification failed", "household_id", householdID, "member_id", memberID, "error", err)
	}
	return nil
}

func (s *householdService) RemoveMember(ctx context.Context, callerID, householdID, memberID int32) error {
	caller, err := s.requireActiveMember(ctx, callerID, householdID)
	if err != nil {
		return err
	}
	if !caller.Role.CanManageMembers() {
		return domain.E(domain.KindInsufficientPermissions, "")
	}

	target, err := s.getHouseholdMember(ctx, householdID, memberID)
	if err != nil {
		return err
	}
	if target.Role == domain.MemberRoleHead {
		return domain.E(domain.KindInsufficientPermissions, "")
	}
	if target.UserID == callerID {
		return domain.E(domain.KindValidationFailed, "use leave to remove yourself")
	}

	now := time.Now()
	target.Active = false
	target.LeftAt = &now
	if err := s.memberRepo.Update(ctx, target); err != nil {
		return domain.Wrap(domain.KindUnavailable, "member update failed", err)
	}

	note := &domain.Notification{
		UserID:      target.UserID,
		HouseholdID: householdID,
		Title:       "Removed from Household",
		Message:     "You have been removed from the household",
		Attributes:  map[string]string{"type": "MEMBER_REMOVED"},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		s.log.Error("removal notification failed", "household_id", householdID, "member_id", memberID, "error", err)
	}

	s.log.Info("member removed", "household_id", householdID, "member_id", memberID, "by_user_id", callerID)
	return nil
}

func (s *householdService) ListMembers(ctx context.Context, userID, householdID int32) ([]domain.Member, error) {
	if _, err := s.requireActiveMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListActiveByHousehold(ctx, householdID)
	if err != nil {
		return nil, domain.Wrap(domain.KindUnavailable, "member listing failed", err)
	}
	return members, nil
}

func (s *householdService) InviteByEmail(ctx context.Context, callerID, householdID int32, email, name string) error {
	if _, err := s.requireActiveMember(ctx, callerID, householdID); err != nil {
		return err
	}
	household, err := s.householdRepo.GetByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.E(domain.KindNotFound, "household not found")
		}
		return domain.Wrap(domain.KindUnavailable, "household lookup failed", err)
	}

	if err := s.emailSvc.SendHouseholdInvitation(ctx, email, name, household.InviteCode, household.Name); err != nil {
		logger.ExternalServiceResult("smtp", "SendHouseholdInvitation", err, "household_id", householdID)
		return domain.Wrap(domain.KindUnavailable, "invitation email failed", err)
	}
	return nil
}

// requireActiveMember resolves the caller's active membership in the
// household, mapping a missing or left membership to NOT_FOUND.
func (s *householdService) requireActiveMember(ctx context.Context, userID, householdID int32) (*domain.Member, error) {
	member, err := s.memberRepo.GetByHouseholdAndUser(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "not a member of this household")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	if !member.Active {
		return nil, domain.E(domain.KindNotFound, "not a member of this household")
	}
	return member, nil
}

func (s *householdService) getHouseholdMember(ctx context.Context, householdID, memberID int32) (*domain.Member, error) {
	target, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.E(domain.KindNotFound, "member not found")
		}
		return nil, domain.Wrap(domain.KindUnavailable, "member lookup failed", err)
	}
	if target.HouseholdID != householdID || !target.Active {
		return nil, domain.E(domain.KindNotFound, "member not found")
	}
	return target, nil
}

package booking

import (
	"context"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/clock"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
	"gymhub/internal/session"
	"gymhub/internal/user"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, sessionID int, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, actor identity.Actor, id int) (*Booking, error)
	List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]Booking, error)
	Cancel(ctx context.Context, actor identity.Actor, id int, reason *string) (*Booking, error)
	// MarkAttendance records ATTENDED or NO_SHOW once a session has
	// started. Restricted to staff over the session's branch.
	MarkAttendance(ctx context.Context, actor identity.Actor, id int, status Status) (*Booking, error)
}

type service struct {
	repo     Repository
	sessions session.Repository
	users    user.Repository
	gyms     gym.Repository
	clk      clock.Clock
}

func NewService(repo Repository, sessions session.Repository, users user.Repository, gyms gym.Repository, clk clock.Clock) Service {
	return &service{repo: repo, sessions: sessions, users: users, gyms: gyms, clk: clk}
}

// branchChain resolves the ownership chain for a branch, including the
// actor's staff assignment when relevant.
func (s *service) branchChain(ctx context.Context, actor identity.Actor, branchID int) (authz.Chain, error) {
	ownerID, err := s.gyms.BranchOwner(ctx, branchID)
	if err != nil {
		return authz.Chain{}, err
	}
	chain := authz.OwnedByGym(ownerID)
	if identity.StaffRole(actor.Role) {
		assigned, err := s.gyms.StaffAssignedToBranch(ctx, actor.ID, branchID)
		if err != nil {
			return authz.Chain{}, err
		}
		chain = chain.WithStaffAssignment(assigned)
	}
	return chain, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, sessionID int, req CreateBookingRequest) (*Booking, error) {
	memberID := actor.ID
	if req.MemberID != nil {
		memberID = *req.MemberID
	}

	// A member can only ever book for themself.
	if actor.Role == identity.RoleMember && memberID != actor.ID {
		return nil, apperr.Unauthorized("members can only book sessions for themselves")
	}

	if _, err := s.users.FindByID(ctx, memberID); err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if memberID != actor.ID {
		// Booking on behalf of someone else requires authority over
		// the session's branch.
		chain, err := s.branchChain(ctx, actor, sess.BranchID)
		if err != nil {
			return nil, err
		}
		if err := authz.Authorize(actor, authz.ActionBook, chain); err != nil {
			return nil, err
		}
	}

	// Availability, coverage, capacity and duplicate checks run again
	// inside the booking transaction under the session row lock.
	return s.repo.Book(ctx, memberID, sessionID, s.clk.Now())
}

func (s *service) Get(ctx context.Context, actor identity.Actor, id int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAccess(ctx, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) authorizeAccess(ctx context.Context, actor identity.Actor, b *Booking) error {
	sess, err := s.sessions.GetByID(ctx, b.SessionID)
	if err != nil {
		return err
	}
	chain, err := s.branchChain(ctx, actor, sess.BranchID)
	if err != nil {
		return err
	}
	return authz.Authorize(actor, authz.ActionView, chain.WithSubject(b.MemberID))
}

func (s *service) List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]Booking, error) {
	if actor.Role == identity.RoleMember {
		filter.MemberID = &actor.ID
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, actor identity.Actor, id int, reason *string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByID(ctx, b.SessionID)
	if err != nil {
		return nil, err
	}

	// Self, the owning gym owner, or SUPER_ADMIN.
	ownerID, err := s.gyms.BranchOwner(ctx, sess.BranchID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionCancel,
		authz.OwnedByGym(ownerID).WithSubject(b.MemberID)); err != nil {
		return nil, err
	}

	// Started sessions reject cancellation outright, even for bookings
	// that are already cancelled.
	if !sess.StartTime.After(s.clk.Now()) {
		return nil, apperr.State("session has already started")
	}

	if b.Status.Cancelled() {
		// Idempotent: cancelling a cancelled booking returns it as is.
		return b, nil
	}

	status := StatusCancelledByAdmin
	if actor.ID == b.MemberID {
		status = StatusCancelledByMember
	}

	cancelled, _, err := s.repo.Cancel(ctx, id, status, reason, s.clk.Now())
	return cancelled, err
}

func (s *service) MarkAttendance(ctx context.Context, actor identity.Actor, id int, status Status) (*Booking, error) {
	if status != StatusAttended && status != StatusNoShow {
		return nil, apperr.Validation("attendance status must be ATTENDED or NO_SHOW")
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, apperr.State("booking is already %s", b.Status)
	}

	sess, err := s.sessions.GetByID(ctx, b.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.StartTime.After(s.clk.Now()) {
		return nil, apperr.State("attendance cannot be recorded before the session starts")
	}

	chain, err := s.branchChain(ctx, actor, sess.BranchID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, chain); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

package session

import (
	"context"
	"time"

	"gymhub/internal/apperr"
	"gymhub/internal/authz"
	"gymhub/internal/classtype"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
)

type Service interface {
	Create(ctx context.Context, actor identity.Actor, branchID int, req CreateSessionRequest) (*ScheduledSession, error)
	Get(ctx context.Context, id int) (*ScheduledSession, error)
	List(ctx context.Context, filter ListFilter) ([]ScheduledSession, error)
	Update(ctx context.Context, actor identity.Actor, id int, req UpdateSessionRequest) (*ScheduledSession, error)
	// Delete removes a session, or force-cancels it when bookings
	// exist. The boolean reports whether the row survived as CANCELLED.
	Delete(ctx context.Context, actor identity.Actor, id int) (bool, error)
}

type service struct {
	repo       Repository
	gyms       gym.Repository
	classTypes classtype.Repository
}

func NewService(repo Repository, gyms gym.Repository, classTypes classtype.Repository) Service {
	return &service{repo: repo, gyms: gyms, classTypes: classTypes}
}

// authorize resolves the branch ownership chain and, for staff roles,
// the actor's assignment to the branch.
func (s *service) authorize(ctx context.Context, actor identity.Actor, action authz.Action, branchID int) error {
	ownerID, err := s.gyms.BranchOwner(ctx, branchID)
	if err != nil {
		return err
	}
	chain := authz.OwnedByGym(ownerID)
	if identity.StaffRole(actor.Role) {
		assigned, err := s.gyms.StaffAssignedToBranch(ctx, actor.ID, branchID)
		if err != nil {
			return err
		}
		chain = chain.WithStaffAssignment(assigned)
	}
	return authz.Authorize(actor, action, chain)
}

// checkClassTypeScope rejects scheduling a gym-scoped class type at a
// branch of another gym. Global class types fit everywhere.
func (s *service) checkClassTypeScope(ctx context.Context, classTypeID, branchID int) error {
	t, err := s.classTypes.GetByID(ctx, classTypeID)
	if err != nil {
		return err
	}
	if t.IsGlobal() {
		return nil
	}
	gymID, err := s.gyms.BranchGym(ctx, branchID)
	if err != nil {
		return err
	}
	if *t.GymID != gymID {
		return apperr.Validation("class type is scoped to a different gym than the session's branch")
	}
	return nil
}

func (s *service) checkTrainer(ctx context.Context, trainerID, branchID int) error {
	assigned, err := s.gyms.StaffAssignedToBranch(ctx, trainerID, branchID)
	if err != nil {
		return err
	}
	if !assigned {
		return apperr.Validation("trainer is not assigned to this branch")
	}
	return nil
}

func parseStartTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid start_time format: %s", raw)
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actor identity.Actor, branchID int, req CreateSessionRequest) (*ScheduledSession, error) {
	if *req.DurationMinutes <= 0 {
		return nil, apperr.Validation("duration_minutes must be a positive integer")
	}
	if *req.Capacity <= 0 {
		return nil, apperr.Validation("capacity must be a positive integer")
	}

	startTime, err := parseStartTime(req.StartTime)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionCreate, branchID); err != nil {
		return nil, err
	}
	if err := s.checkClassTypeScope(ctx, req.ClassTypeID, branchID); err != nil {
		return nil, err
	}
	if req.TrainerID != nil {
		if err := s.checkTrainer(ctx, *req.TrainerID, branchID); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, ScheduledSession{
		BranchID:        branchID,
		ClassTypeID:     req.ClassTypeID,
		TrainerID:       req.TrainerID,
		StartTime:       startTime,
		DurationMinutes: *req.DurationMinutes,
		Capacity:        *req.Capacity,
	})
}

func (s *service) Get(ctx context.Context, id int) (*ScheduledSession, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ScheduledSession, error) {
	return s.repo.List(ctx, filter)
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusScheduled: {StatusCancelled: true, StatusCompleted: true},
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id int, req UpdateSessionRequest) (*ScheduledSession, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, authz.ActionUpdate, sess.BranchID); err != nil {
		return nil, err
	}

	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return nil, apperr.Validation("duration_minutes must be a positive integer")
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, apperr.Validation("capacity must be a positive integer")
		}
		if *req.Capacity < sess.CurrentEnrollment {
			return nil, apperr.Conflict("capacity cannot drop below current enrollment (%d)", sess.CurrentEnrollment)
		}
	}

	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, apperr.Validation("invalid session status: %s", *req.Status)
		}
		if *req.Status != sess.Status && !allowedTransitions[sess.Status][*req.Status] {
			return nil, apperr.State("cannot transition session from %s to %s", sess.Status, *req.Status)
		}
	}

	targetBranch := sess.BranchID
	if req.BranchID != nil && *req.BranchID != sess.BranchID {
		// Moving a session needs authority over the target branch too,
		// and the class type must fit the target gym.
		if err := s.authorize(ctx, actor, authz.ActionUpdate, *req.BranchID); err != nil {
			return nil, err
		}
		if err := s.checkClassTypeScope(ctx, sess.ClassTypeID, *req.BranchID); err != nil {
			return nil, err
		}
		targetBranch = *req.BranchID
	}

	if req.TrainerID != nil {
		if err := s.checkTrainer(ctx, *req.TrainerID, targetBranch); err != nil {
			return nil, err
		}
	}

	var startTime *time.Time
	if req.StartTime != nil {
		t, err := parseStartTime(*req.StartTime)
		if err != nil {
			return nil, err
		}
		startTime = &t
	}

	return s.repo.Update(ctx, id, req.BranchID, req.TrainerID, startTime, req.DurationMinutes, req.Capacity, req.Status)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id int) (bool, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.authorize(ctx, actor, authz.ActionDelete, sess.BranchID); err != nil {
		return false, err
	}

	survived, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return survived != nil, nil
}

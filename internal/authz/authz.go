// Package authz decides whether an actor may perform an action on a
// resource. It is purely a decision function: callers resolve the ownership
// chain (resource -> branch -> gym -> owner) from storage and pass it in,
// so the engine itself never touches the database.
package authz

import (
	"strings"

	"gymhub/internal/apperr"
	"gymhub/internal/identity"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
	ActionBook   Action = "book"
)

// Chain is the pre-resolved ownership context for a target resource.
type Chain struct {
	// GymOwnerID is the owner of the gym the resource hangs off, when the
	// resource is gym-scoped. Nil for global resources.
	GymOwnerID *int

	// SubjectUserID is the user the resource belongs to (a booking's
	// member, a subscription's subscriber), enabling self-service checks.
	SubjectUserID *int

	// StaffAssigned is true when the actor holds a staff assignment on the
	// branch the operation targets.
	StaffAssigned bool
}

// Resource helpers for building chains at the call site.

func OwnedByGym(ownerID int) Chain {
	return Chain{GymOwnerID: &ownerID}
}

func OwnedByUser(userID int) Chain {
	return Chain{SubjectUserID: &userID}
}

func (c Chain) WithSubject(userID int) Chain {
	c.SubjectUserID = &userID
	return c
}

func (c Chain) WithStaffAssignment(assigned bool) Chain {
	c.StaffAssigned = assigned
	return c
}

// predicate grants or abstains. Predicates are evaluated in order; the
// first grant wins and the recorded names feed the deny reason.
type predicate struct {
	name  string
	grant func(actor identity.Actor, action Action, chain Chain) bool
}

var predicates = []predicate{
	{
		// SUPER_ADMIN overrides everything.
		name: "super-admin",
		grant: func(actor identity.Actor, _ Action, _ Chain) bool {
			return actor.Role == identity.RoleSuperAdmin
		},
	},
	{
		// A gym owner acts on resources whose owning gym is theirs.
		name: "gym-owner",
		grant: func(actor identity.Actor, _ Action, chain Chain) bool {
			return actor.Role == identity.RoleGymOwner &&
				chain.GymOwnerID != nil && *chain.GymOwnerID == actor.ID
		},
	},
	{
		// Branch staff act within branches they are assigned to.
		name: "branch-staff",
		grant: func(actor identity.Actor, _ Action, chain Chain) bool {
			return identity.StaffRole(actor.Role) && chain.StaffAssigned
		},
	},
	{
		// Self-service: the resource belongs to the actor.
		name: "self",
		grant: func(actor identity.Actor, _ Action, chain Chain) bool {
			return chain.SubjectUserID != nil && *chain.SubjectUserID == actor.ID
		},
	},
}

// Authorize returns nil when some predicate grants, or an unauthorized
// error naming the rules that were consulted.
func Authorize(actor identity.Actor, action Action, chain Chain) error {
	consulted := make([]string, 0, len(predicates))
	for _, p := range predicates {
		if p.grant(actor, action, chain) {
			return nil
		}
		consulted = append(consulted, p.name)
	}
	return apperr.Unauthorized(
		"%s denied for role %s (checked: %s)",
		action, actor.Role, strings.Join(consulted, ", "),
	)
}

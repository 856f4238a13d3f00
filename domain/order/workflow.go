package order

import (
	"sort"
	"strings"
)

// Requester is the identity asking for a change.
// Declared here so the order package does not depend on the user package.
type Requester interface {
	IdentityID() string
	IsAdmin() bool
	DisplayName() string
}

// Patch a partial update. A nil pointer means the key was absent.
type Patch struct {
	Status       *string
	CancelReason *string

	// UnknownKeys keys other than status and cancel_reason
	UnknownKeys []string
	// MalformedKeys known keys whose value had the wrong type
	MalformedKeys []string
}

// Transition the status change produced by a successful Apply
type Transition struct {
	From Status
	To   Status
}

// Changed false for identity restatements and reason-only patches
func (t Transition) Changed() bool { return t.From != t.To }

// Workflow validates and applies order updates
type Workflow struct {
	allowed map[Status][]Status
}

// NewWorkflow pending may move to completed or cancelled; both are terminal
func NewWorkflow() *Workflow {
	return &Workflow{
		allowed: map[Status][]Status{
			StatusPending: {StatusCompleted, StatusCancelled},
		},
	}
}

// CanTransition restating the current status is always allowed
func (w *Workflow) CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range w.allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Apply checks the rules in order and mutates o only when all pass:
//  1. requester must be an administrator
//  2. only status and cancel_reason may appear
//  3. status must be a known value
//  4. a cancelled result needs a non-blank cancel_reason in the patch
//  5. the status change must be allowed
func (w *Workflow) Apply(o *Order, requester Requester, patch Patch) (Transition, error) {
	if requester == nil || !requester.IsAdmin() {
		return Transition{}, NewUpdateForbiddenError()
	}

	if len(patch.UnknownKeys) > 0 {
		keys := append([]string(nil), patch.UnknownKeys...)
		sort.Strings(keys)
		return Transition{}, NewUnknownFieldsError(keys)
	}
	if len(patch.MalformedKeys) > 0 {
		return Transition{}, NewValidationError(patch.MalformedKeys[0], patch.MalformedKeys[0]+" must be a string")
	}

	target := o.Status()
	if patch.Status != nil {
		target = Status(*patch.Status)
		if !target.IsValid() {
			return Transition{}, NewValidationError("status", "unknown status: "+*patch.Status)
		}
	}

	if target == StatusCancelled {
		if patch.CancelReason == nil || strings.TrimSpace(*patch.CancelReason) == "" {
			return Transition{}, NewValidationError("cancel_reason", "cancel_reason is required when cancelling an order")
		}
	}

	if !w.CanTransition(o.Status(), target) {
		return Transition{}, NewInvalidTransitionError(o.Status(), target)
	}

	t := Transition{From: o.Status(), To: target}
	o.applyPatch(target, patch.CancelReason)
	return t, nil
}

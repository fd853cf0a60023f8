// Package gate is the confirmation layer between a requested git mutation
// and its execution. Destructive actions produce a preview and require an
// explicit confirmation flag before anything runs; every process the gate
// does run goes through the sandbox.
package gate

import "github.com/google/uuid"

// ActionKind identifies what a confirmable action will do.
type ActionKind int

const (
	// KindCommitPush stages everything, commits, and optionally pushes.
	KindCommitPush ActionKind = iota
	// KindBranchCreate creates and switches to a new branch.
	KindBranchCreate
)

func (k ActionKind) String() string {
	switch k {
	case KindCommitPush:
		return "commit-push"
	case KindBranchCreate:
		return "branch-create"
	default:
		return "unknown"
	}
}

// Params carries the git parameters for an action.
type Params struct {
	// Branch is the branch to create first; empty means stay on the
	// current branch.
	Branch string

	// Message is the commit message.
	Message string

	// Remote is the push target; empty defaults to origin.
	Remote string

	// Push controls whether the commit is pushed.
	Push bool
}

// ConfirmableAction is one requested mutation. Created per request and
// never persisted; the ID only correlates log lines.
type ConfirmableAction struct {
	ID        uuid.UUID
	Kind      ActionKind
	Params    Params
	Confirmed bool
}

// NewAction creates an action with a fresh ID and Confirmed unset.
func NewAction(kind ActionKind, params Params) ConfirmableAction {
	return ConfirmableAction{ID: uuid.New(), Kind: kind, Params: params}
}

// destructive reports whether the action mutates repository state and
// therefore requires confirmation. Commits, pushes, and branch creation
// all do.
func (a ConfirmableAction) destructive() bool {
	switch a.Kind {
	case KindCommitPush, KindBranchCreate:
		return true
	default:
		return false
	}
}

package branch

import "errors"

var (
	ErrBranchNotFound = errors.New("branch not found, contact your administrator")
	// The user exists but no branch was ever assigned. Check-in is impossible
	// until an administrator assigns one.
	ErrBranchNotAssigned = errors.New("no branch assigned to your account, contact your administrator")
	ErrBranchNameExists  = errors.New("a branch with this name already exists")
)

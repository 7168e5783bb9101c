package user

import (
	"context"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
)

type UserServiceImpl struct {
	user.UserRepository
	branch.BranchRepository
}

func NewUserService(userRepository user.UserRepository, branchRepository branch.BranchRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository:   userRepository,
		BranchRepository: branchRepository,
	}
}

// GetProfile implements user.UserService.
func (u *UserServiceImpl) GetProfile(ctx context.Context, userID string) (user.UserResponse, error) {
	userData, err := u.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(userData), nil
}

// List implements user.UserService.
func (u *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := u.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, userData := range users {
		responses = append(responses, user.ToResponse(userData))
	}
	return responses, nil
}

// AssignBranch implements user.UserService. The branch is verified before
// the assignment so a dangling reference never reaches storage.
func (u *UserServiceImpl) AssignBranch(ctx context.Context, req user.AssignBranchRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if req.BranchID != nil {
		if _, err := u.BranchRepository.GetByID(ctx, *req.BranchID); err != nil {
			return user.UserResponse{}, err
		}
	}

	if err := u.UserRepository.AssignBranch(ctx, req.UserID, req.BranchID); err != nil {
		return user.UserResponse{}, err
	}

	userData, err := u.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(userData), nil
}

// ChangeRole implements user.UserService.
func (u *UserServiceImpl) ChangeRole(ctx context.Context, req user.ChangeRoleRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := u.UserRepository.UpdateRole(ctx, req.UserID, req.Role); err != nil {
		return user.UserResponse{}, err
	}

	userData, err := u.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(userData), nil
}

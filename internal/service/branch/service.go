package branch

import (
	"context"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/pkg/branchcache"
)

type BranchServiceImpl struct {
	branch.BranchRepository
	branchCache *branchcache.Cache
}

func NewBranchService(branchRepository branch.BranchRepository, branchCache *branchcache.Cache) branch.BranchService {
	return &BranchServiceImpl{
		BranchRepository: branchRepository,
		branchCache:      branchCache,
	}
}

// Create implements branch.BranchService.
func (b *BranchServiceImpl) Create(ctx context.Context, req branch.CreateBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	created, err := b.BranchRepository.Create(ctx, branch.Branch{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		Timezone:     req.Timezone,
	})
	if err != nil {
		return branch.BranchResponse{}, err
	}

	return branch.ToResponse(created), nil
}

// Get implements branch.BranchService.
func (b *BranchServiceImpl) Get(ctx context.Context, id string) (branch.BranchResponse, error) {
	found, err := b.BranchRepository.GetByID(ctx, id)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return branch.ToResponse(found), nil
}

// List implements branch.BranchService.
func (b *BranchServiceImpl) List(ctx context.Context) ([]branch.BranchResponse, error) {
	branches, err := b.BranchRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	responses := make([]branch.BranchResponse, 0, len(branches))
	for _, found := range branches {
		responses = append(responses, branch.ToResponse(found))
	}
	return responses, nil
}

// Update implements branch.BranchService. The cache entry is dropped after
// the write so the next geofence evaluation sees the new coordinates and
// radius.
func (b *BranchServiceImpl) Update(ctx context.Context, req branch.UpdateBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	if err := b.BranchRepository.Update(ctx, req); err != nil {
		return branch.BranchResponse{}, err
	}

	if b.branchCache != nil {
		b.branchCache.Invalidate(req.ID)
	}

	updated, err := b.BranchRepository.GetByID(ctx, req.ID)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return branch.ToResponse(updated), nil
}

// Delete implements branch.BranchService.
func (b *BranchServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := b.BranchRepository.GetByID(ctx, id); err != nil {
		return err
	}

	if err := b.BranchRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	if b.branchCache != nil {
		b.branchCache.Invalidate(id)
	}
	return nil
}

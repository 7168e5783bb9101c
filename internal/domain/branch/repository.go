package branch

import "context"

// BranchRepository defines data access methods for branches.
type BranchRepository interface {
	Create(ctx context.Context, b Branch) (Branch, error)

	GetByID(ctx context.Context, id string) (Branch, error)

	List(ctx context.Context) ([]Branch, error)

	Update(ctx context.Context, req UpdateBranchRequest) error

	Delete(ctx context.Context, id string) error
}

// BranchService defines business logic for branch directory management.
type BranchService interface {
	Create(ctx context.Context, req CreateBranchRequest) (BranchResponse, error)

	Get(ctx context.Context, id string) (BranchResponse, error)

	List(ctx context.Context) ([]BranchResponse, error)

	Update(ctx context.Context, req UpdateBranchRequest) (BranchResponse, error)

	Delete(ctx context.Context, id string) error
}

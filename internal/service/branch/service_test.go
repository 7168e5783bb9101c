package branch

import (
	"context"
	"testing"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/pkg/branchcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBranchRepo struct {
	branches map[string]branch.Branch
	seq      int
}

func newMemoryBranchRepo() *memoryBranchRepo {
	return &memoryBranchRepo{branches: map[string]branch.Branch{}}
}

func (m *memoryBranchRepo) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	for _, existing := range m.branches {
		if existing.Name == b.Name {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
	}
	m.seq++
	b.ID = "branch-" + string(rune('0'+m.seq))
	m.branches[b.ID] = b
	return b, nil
}

func (m *memoryBranchRepo) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (m *memoryBranchRepo) List(ctx context.Context) ([]branch.Branch, error) {
	var branches []branch.Branch
	for _, b := range m.branches {
		branches = append(branches, b)
	}
	return branches, nil
}

func (m *memoryBranchRepo) Update(ctx context.Context, req branch.UpdateBranchRequest) error {
	b, ok := m.branches[req.ID]
	if !ok {
		return branch.ErrBranchNotFound
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Address != nil {
		b.Address = req.Address
	}
	if req.Latitude != nil {
		b.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		b.Longitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		b.RadiusMeters = req.RadiusMeters
	}
	if req.Timezone != nil {
		b.Timezone = *req.Timezone
	}
	m.branches[req.ID] = b
	return nil
}

func (m *memoryBranchRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.branches[id]; !ok {
		return branch.ErrBranchNotFound
	}
	delete(m.branches, id)
	return nil
}

func newTestBranchService(t *testing.T) (branch.BranchService, *memoryBranchRepo, *branchcache.Cache) {
	t.Helper()

	repo := newMemoryBranchRepo()
	cache, err := branchcache.New()
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	return NewBranchService(repo, cache), repo, cache
}

func TestBranchService_Create_Success(t *testing.T) {
	service, _, _ := newTestBranchService(t)
	ctx := context.Background()

	result, err := service.Create(ctx, branch.CreateBranchRequest{
		Name:      "Central Office",
		Latitude:  -6.2,
		Longitude: 106.816666,
		Timezone:  "Asia/Jakarta",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Central Office", result.Name)
	assert.Nil(t, result.RadiusMeters)
}

func TestBranchService_Create_InvalidCoordinates(t *testing.T) {
	service, _, _ := newTestBranchService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, branch.CreateBranchRequest{
		Name:      "Broken",
		Latitude:  95,
		Longitude: 200,
		Timezone:  "Asia/Jakarta",
	})
	assert.Error(t, err)
}

func TestBranchService_Create_DuplicateName(t *testing.T) {
	service, _, _ := newTestBranchService(t)
	ctx := context.Background()

	req := branch.CreateBranchRequest{
		Name:      "Central Office",
		Latitude:  -6.2,
		Longitude: 106.816666,
		Timezone:  "Asia/Jakarta",
	}
	_, err := service.Create(ctx, req)
	require.NoError(t, err)

	_, err = service.Create(ctx, req)
	assert.ErrorIs(t, err, branch.ErrBranchNameExists)
}

func TestBranchService_Update_InvalidatesCache(t *testing.T) {
	service, repo, cache := newTestBranchService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, branch.CreateBranchRequest{
		Name:      "Central Office",
		Latitude:  -6.2,
		Longitude: 106.816666,
		Timezone:  "Asia/Jakarta",
	})
	require.NoError(t, err)

	// Simulate a geofence read-through having populated the cache.
	cached, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	cache.Set(cached)
	_, ok := cache.Get(created.ID)
	require.True(t, ok)

	newRadius := 250.0
	updated, err := service.Update(ctx, branch.UpdateBranchRequest{
		ID:           created.ID,
		RadiusMeters: &newRadius,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RadiusMeters)
	assert.Equal(t, newRadius, *updated.RadiusMeters)

	// The stale entry must be gone so the next evaluation refetches.
	_, ok = cache.Get(created.ID)
	assert.False(t, ok)
}

func TestBranchService_Delete_InvalidatesCache(t *testing.T) {
	service, repo, cache := newTestBranchService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, branch.CreateBranchRequest{
		Name:      "Central Office",
		Latitude:  -6.2,
		Longitude: 106.816666,
		Timezone:  "Asia/Jakarta",
	})
	require.NoError(t, err)

	cached, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	cache.Set(cached)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, ok := cache.Get(created.ID)
	assert.False(t, ok)
	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}

func TestBranchService_Update_NotFound(t *testing.T) {
	service, _, _ := newTestBranchService(t)
	ctx := context.Background()

	name := "Renamed"
	_, err := service.Update(ctx, branch.UpdateBranchRequest{ID: "missing", Name: &name})
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}

package stores

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/osse101/posrelay/internal/domain"
)

type memRepo struct {
	rows map[string]domain.Store
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]domain.Store{}} }

func (m *memRepo) List(ctx context.Context) ([]domain.Store, error) {
	var out []domain.Store
	for _, s := range m.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*domain.Store, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrStoreNotFound
	}
	return &s, nil
}

func (m *memRepo) Upsert(ctx context.Context, s domain.Store) error {
	s.HasPassword = s.PasswordHash != ""
	m.rows[s.ID] = s
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memRepo) Count(ctx context.Context) (int, error) { return len(m.rows), nil }

func strPtr(s string) *string { return &s }

func TestService_SaveAndVerify(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	store, err := svc.Save(ctx, SaveInput{ID: "centro", Name: "Centro", Password: strPtr("1234")})
	require.NoError(t, err)
	assert.True(t, store.HasPassword)
	assert.NotEqual(t, "1234", repo.rows["centro"].PasswordHash, "password is stored hashed")

	assert.NoError(t, svc.Verify(ctx, "centro", "1234"))
	assert.ErrorIs(t, svc.Verify(ctx, "centro", "4321"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Verify(ctx, "nowhere", "1234"), domain.ErrStoreNotFound)
}

func TestService_Save_PasswordSemantics(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveInput{ID: "s1", Name: "One", Password: strPtr("pw")})
	require.NoError(t, err)
	hash := repo.rows["s1"].PasswordHash

	renamed, err := svc.Save(ctx, SaveInput{ID: "s1", Name: "Uno"})
	require.NoError(t, err)
	assert.True(t, renamed.HasPassword)
	assert.Equal(t, hash, repo.rows["s1"].PasswordHash, "omitted password is kept")
	assert.Equal(t, "Uno", repo.rows["s1"].Name)

	cleared, err := svc.Save(ctx, SaveInput{ID: "s1", Name: "Uno", Password: strPtr("")})
	require.NoError(t, err)
	assert.False(t, cleared.HasPassword)
	assert.NoError(t, svc.Verify(ctx, "s1", "anything"))
}

func TestService_Save_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), bcrypt.MinCost)
	_, err := svc.Save(context.Background(), SaveInput{ID: " ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidStore)
}

func TestService_Delete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveInput{ID: "s1", Name: "One"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "s1"))
	assert.ErrorIs(t, svc.Delete(ctx, "s1"), domain.ErrStoreNotFound)
}

func TestService_EnsureDefault(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.EnsureDefault(ctx, "default", "Principal")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefault(ctx, "other", "Other")
	require.NoError(t, err)
	assert.False(t, created)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "default", list[0].ID)
}

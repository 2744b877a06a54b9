package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/database"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/files"
	"github.com/kingrea/seedbed/internal/gen"
	"github.com/kingrea/seedbed/internal/provider"
	"github.com/kingrea/seedbed/internal/providers"
	"github.com/kingrea/seedbed/internal/tracking"
)

type fixture struct {
	repo     *Repository
	entities *entity.Store
	tracking *tracking.Store
	storage  *files.Local
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.Open(t.Context(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := provider.NewRegistry()
	providers.RegisterFiles(reg)
	providers.RegisterBuiltins(reg)

	entities := entity.NewStore(db)
	tracked := tracking.NewStore(db, tracking.WithLogger(logger), tracking.WithBatchSize(4))
	storage := files.NewLocal(t.TempDir())
	repo := New(reg, entities, tracked, storage, WithLogger(logger), WithGenerators(gen.NewRandom(42), gen.NewStatic()))
	return fixture{repo: repo, entities: entities, tracking: tracked, storage: storage}
}

func createAll(t *testing.T, repo *Repository) int {
	t.Helper()
	total := 0
	for _, info := range repo.Registry().Ordered() {
		n, err := repo.Create(t.Context(), info)
		require.NoError(t, err, info.Key().String())
		total += n
	}
	return total
}

func removeAll(t *testing.T, repo *Repository) int {
	t.Helper()
	ordered := repo.Registry().Ordered()
	total := 0
	for i := len(ordered) - 1; i >= 0; i-- {
		n, err := repo.Remove(t.Context(), ordered[i].Type, ordered[i].Bundle)
		require.NoError(t, err)
		total += n
	}
	return total
}

func TestCreateRemoveCreateReproducesCount(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	first := createAll(t, f.repo)
	fileCount := providers.ImageCount + providers.DocumentCount
	want := providers.TagCount + providers.UserCount + providers.ImageCount + providers.DocumentCount +
		providers.PageCount + providers.ArticleCount + providers.MenuLinkCount
	assert.Equal(t, want, first)

	tracked, err := f.tracking.Count(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, want+fileCount, tracked)

	removed := removeAll(t, f.repo)
	assert.Equal(t, want+fileCount, removed)
	tracked, err = f.tracking.Count(ctx, "", "")
	require.NoError(t, err)
	assert.Zero(t, tracked)
	for _, key := range []entity.Key{{Type: entity.TypeNode}, {Type: entity.TypeFile}, {Type: entity.TypeMedia}} {
		n, err := f.entities.Count(ctx, key.Type, "")
		require.NoError(t, err)
		assert.Zero(t, n, key.Type)
	}
	left, err := os.ReadDir(f.storage.Dir())
	require.NoError(t, err)
	assert.Empty(t, left, "stored files should be deleted with their entities")

	f.repo.ClearCaches()
	assert.Equal(t, first, createAll(t, f.repo))
}

func TestCreateUntrackedProvider(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	info := provider.Info{Type: entity.TypeNode, Bundle: "landing", Tracking: false, Callback: func(context.Context, *provider.Toolkit) ([]entity.Entity, error) {
		return []entity.Entity{{Label: "Landing", Type: "ignored", Bundle: "ignored"}}, nil
	}}
	n, err := f.repo.Create(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := f.entities.Count(ctx, entity.TypeNode, "landing")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "type and bundle come from the provider")

	removed, err := f.repo.Remove(ctx, entity.TypeNode, "landing")
	require.NoError(t, err)
	assert.Zero(t, removed)
	count, err = f.entities.Count(ctx, entity.TypeNode, "landing")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "untracked content survives bulk removal")
}

func TestCreateCallbackError(t *testing.T) {
	f := newFixture(t)
	info := provider.Info{Type: entity.TypeNode, Bundle: "page", Callback: func(context.Context, *provider.Toolkit) ([]entity.Entity, error) {
		return nil, errors.New("boom")
	}}
	_, err := f.repo.Create(t.Context(), info)
	assert.ErrorContains(t, err, "boom")

	_, err = f.repo.Create(t.Context(), provider.Info{Type: entity.TypeNode, Bundle: "page"})
	assert.ErrorIs(t, err, provider.ErrNoCallback)
}

func TestRemoveEntity(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	tags, _ := f.repo.Registry().Get(entity.TypeTerm, "tags")
	_, err := f.repo.Create(ctx, tags)
	require.NoError(t, err)

	ids, err := f.repo.Entities(ctx, entity.TypeTerm, "tags")
	require.NoError(t, err)
	require.Len(t, ids, providers.TagCount)

	require.NoError(t, f.repo.RemoveEntity(ctx, entity.TypeTerm, ids[0]))
	n, err := f.tracking.Count(ctx, entity.TypeTerm, "tags")
	require.NoError(t, err)
	assert.Equal(t, providers.TagCount-1, n)

	ids, err = f.repo.Entities(ctx, entity.TypeTerm, "tags")
	require.NoError(t, err)
	assert.Len(t, ids, providers.TagCount-1, "cache is invalidated")

	assert.ErrorIs(t, f.repo.RemoveEntity(ctx, entity.TypeTerm, 999999), entity.ErrNotFound)
}

func TestRemoveEntityAlreadyDeletedButTracked(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	e := &entity.Entity{Type: entity.TypeUser, Bundle: "user", Label: "Ghost"}
	require.NoError(t, f.entities.Create(ctx, e))
	require.NoError(t, f.tracking.Record(ctx, e.Type, e.Bundle, e.ID))
	require.NoError(t, f.entities.Delete(ctx, e.Type, e.ID))

	assert.NoError(t, f.repo.RemoveEntity(ctx, e.Type, e.ID))
	n, err := f.tracking.Count(ctx, e.Type, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

type stuckStorage struct {
	files.Storage
}

func (stuckStorage) Delete(context.Context, string) error {
	return errors.New("object store unavailable")
}

func TestRemoveEntityKeepsTrackingWhenDeleteFails(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	repo := New(f.repo.Registry(), f.entities, f.tracking, stuckStorage{Storage: f.storage})
	asset, err := assets.New(gen.NewStatic()).Generate(assets.KindTXT, assets.Options{Name: "notes"})
	require.NoError(t, err)
	file, err := repo.CreateFile(ctx, asset)
	require.NoError(t, err)

	err = repo.RemoveEntity(ctx, entity.TypeFile, file.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNotFound)

	n, err := f.tracking.Count(ctx, entity.TypeFile, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "tracking row survives a failed delete")
	_, err = f.entities.Load(ctx, entity.TypeFile, file.ID)
	assert.NoError(t, err)
}

func TestCreateFile(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	asset, err := assets.New(gen.NewStatic()).Generate(assets.KindCSV, assets.Options{Name: "people"})
	require.NoError(t, err)

	file, err := f.repo.CreateFile(ctx, asset)
	require.NoError(t, err)
	assert.Equal(t, entity.TypeFile, file.Type)
	assert.Equal(t, "public://people.csv", file.Fields.String("uri"))

	data, err := f.storage.Get(ctx, file.Fields.String("uri"))
	require.NoError(t, err)
	assert.Equal(t, asset.Data, data)

	require.NoError(t, f.repo.RemoveEntity(ctx, entity.TypeFile, file.ID))
	_, err = f.storage.Get(ctx, file.Fields.String("uri"))
	assert.ErrorIs(t, err, files.ErrNotFound)
}

func TestCreateFileWithoutStorage(t *testing.T) {
	f := newFixture(t)
	repo := New(f.repo.Registry(), f.entities, f.tracking, nil)
	_, err := repo.CreateFile(t.Context(), assets.Asset{Name: "a.txt"})
	assert.Error(t, err)
	_, err = repo.Toolkit().File(t.Context(), assets.KindTXT, assets.Options{})
	assert.Error(t, err)
}

func TestReferences(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	id, err := f.repo.RandomReference(ctx, entity.TypeUser, "user")
	require.NoError(t, err)
	assert.Zero(t, id)

	users, _ := f.repo.Registry().Get(entity.TypeUser, "user")
	_, err = f.repo.Create(ctx, users)
	require.NoError(t, err)

	id, err = f.repo.RandomReference(ctx, entity.TypeUser, "user")
	require.NoError(t, err)
	assert.NotZero(t, id)

	refs, err := f.repo.References(ctx, entity.TypeUser, "user", 3)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	seen := map[int64]bool{}
	for _, ref := range refs {
		assert.False(t, seen[ref], "references are distinct")
		seen[ref] = true
	}

	refs, err = f.repo.References(ctx, entity.TypeUser, "user", 50)
	require.NoError(t, err)
	assert.Len(t, refs, providers.UserCount)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.tracking.Record(ctx, "block_content", "basic", 1))
	tags, _ := f.repo.Registry().Get(entity.TypeTerm, "tags")
	_, err := f.repo.Create(ctx, tags)
	require.NoError(t, err)

	rows, err := f.repo.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, f.repo.Registry().Len()+1)
	assert.Equal(t, "file-file", rows[0].Provider.Key().String())
	assert.Equal(t, providers.TagCount, rows[1].Tracked)
	last := rows[len(rows)-1]
	assert.Equal(t, "block_content-basic", last.Provider.Key().String())
	assert.Equal(t, 1, last.Tracked)
}

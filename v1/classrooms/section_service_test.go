package classrooms

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classtrack/classrooms/v1/repository"
)

func newSectionService(t *testing.T) *SectionService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Section{}))

	factory := SectionRepositoryFactory(func() *repository.Repository[Section] {
		return repository.NewRepository[Section](repository.NewGormSession(db), SectionFields)
	})
	return NewSectionService(factory, zap.NewNop())
}

func TestSectionCreateAndGet(t *testing.T) {
	svc := newSectionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "A")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "A", got.SectionName)
}

func TestSectionCreateDuplicateName(t *testing.T) {
	svc := newSectionService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "A")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "A")
	var conflict *repository.ConflictError
	require.True(t, errors.As(err, &conflict))
}

func TestSectionListAndSearch(t *testing.T) {
	svc := newSectionService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "AB"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := svc.Search(ctx, SearchQuery{Name: "A", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Meta.Total)
}

func TestSectionUpdateAndDelete(t *testing.T) {
	svc := newSectionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "A")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "A1")
	require.NoError(t, err)
	require.Equal(t, "A1", updated.SectionName)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var notFound *repository.NotFoundError
	_, err = svc.GetByID(ctx, created.ID)
	require.True(t, errors.As(err, &notFound))
}

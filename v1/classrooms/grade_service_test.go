package classrooms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classtrack/classrooms/v1/repository"
)

func newGradeService(t *testing.T) (*GradeService, GradeRepositoryFactory) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Grade{}))

	factory := GradeRepositoryFactory(func() *repository.Repository[Grade] {
		return repository.NewRepository[Grade](repository.NewGormSession(db), GradeFields)
	})
	return NewGradeService(factory, zap.NewNop()), factory
}

func TestGradeCreate(t *testing.T) {
	svc, _ := newGradeService(t)

	grade, err := svc.Create(context.Background(), "1°")
	require.NoError(t, err)
	require.NotZero(t, grade.ID)
	require.Equal(t, "1°", grade.GradeName)
	require.False(t, grade.CreatedAt.IsZero())
}

func TestGradeCreateDuplicateName(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "1°")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "1°")
	var conflict *repository.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Contains(t, conflict.Error(), "1°")
}

func TestGradeCreateEmptyName(t *testing.T) {
	svc, _ := newGradeService(t)

	_, err := svc.Create(context.Background(), "   ")
	var invalid *repository.ValidationError
	require.True(t, errors.As(err, &invalid))
}

func TestGradeGetByID(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "2°")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(ctx, 9999)
	var notFound *repository.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "Grade", notFound.Resource)
}

func TestGradeListOrderedByID(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	for _, name := range []string{"3°", "1°", "2°"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	grades, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, grades, 3)
	for i := 1; i < len(grades); i++ {
		require.Less(t, grades[i-1].ID, grades[i].ID)
	}
}

func TestGradePage(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := svc.Create(ctx, fmt.Sprintf("%d°", i))
		require.NoError(t, err)
	}

	page, err := svc.Page(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Data, 5)
	require.Equal(t, int64(12), page.Meta.Total)
	require.Equal(t, 3, page.Meta.TotalPages)
	require.NotNil(t, page.Meta.NextPage)
	require.NotNil(t, page.Meta.PreviousPage)
}

func TestGradeSearchByName(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	for _, name := range []string{"1°", "10°", "2°"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	page, err := svc.Search(ctx, SearchQuery{Name: "1", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Meta.Total)
	for _, g := range page.Data {
		require.Contains(t, g.GradeName, "1")
	}
}

func TestGradeSearchByCreatedRange(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "1°")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	page, err := svc.Search(ctx, SearchQuery{CreatedFrom: &past, CreatedTo: &future, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Meta.Total)

	ancient := time.Now().Add(-2 * time.Hour)
	page, err = svc.Search(ctx, SearchQuery{CreatedTo: &ancient, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Zero(t, page.Meta.Total)
}

func TestGradeUpdate(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "1°")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "1° bis")
	require.NoError(t, err)
	require.Equal(t, "1° bis", updated.GradeName)

	// Renaming to its own current name is not a conflict.
	_, err = svc.Update(ctx, created.ID, "1° bis")
	require.NoError(t, err)
}

func TestGradeUpdateConflictsAndMisses(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "1°")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "2°")
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, "2°")
	var conflict *repository.ConflictError
	require.True(t, errors.As(err, &conflict))

	_, err = svc.Update(ctx, 9999, "3°")
	var notFound *repository.NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestGradeDelete(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "1°")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var notFound *repository.NotFoundError
	err = svc.Delete(ctx, created.ID)
	require.True(t, errors.As(err, &notFound))
}

func TestServiceCallsUseIndependentSessions(t *testing.T) {
	svc, factory := newGradeService(t)
	ctx := context.Background()

	// A transaction opened on one session must be invisible to the next
	// repository the factory hands out.
	first := factory()
	require.NoError(t, first.Session().Begin(ctx, repository.BeginOptions{}))
	second := factory()
	require.False(t, second.Session().InTransaction())

	// A service call commits in its own transaction while the unrelated
	// one stays open, and its write survives that one's rollback.
	created, err := svc.Create(ctx, "1°")
	require.NoError(t, err)
	require.NoError(t, first.Session().Rollback())

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "1°", got.GradeName)
}

func TestConcurrentServiceCallsDoNotShareTransactions(t *testing.T) {
	svc, _ := newGradeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "1°")
	require.NoError(t, err)

	// Every call binds its own session, so parallel callers never observe
	// each other's transaction state.
	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.GetByID(ctx, created.ID)
			if err != nil {
				errs <- err
				return
			}
			if got.GradeName != "1°" {
				errs <- fmt.Errorf("unexpected grade %q", got.GradeName)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todolist/internal/model"
	"todolist/internal/reconciler"
	"todolist/internal/repository"
	"todolist/internal/service"
)

func setupService(t *testing.T) (*service.TaskService, *repository.TaskRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := repository.NewTaskRepository(db)
	return service.NewTaskService(repo), repo
}

func seedTask(t *testing.T, repo *repository.TaskRepository, title string, due *time.Time, completed bool) *model.Task {
	t.Helper()

	task := &model.Task{
		Title:       title,
		Description: "description of " + title,
		DueDate:     due,
		Priority:    3,
		Completed:   completed,
	}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return task
}

func timePtr(ts time.Time) *time.Time { return &ts }

func TestRun_CompletesOverdueTasks(t *testing.T) {
	svc, repo := setupService(t)
	rec := reconciler.New(svc, "0 * * * *")

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	overdue := seedTask(t, repo, "overdue", timePtr(yesterday), false)
	future := seedTask(t, repo, "future", timePtr(tomorrow), false)
	noDue := seedTask(t, repo, "no due date", nil, false)

	rec.Run(context.Background())

	got, err := repo.GetByID(context.Background(), overdue.ID)
	assert.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = repo.GetByID(context.Background(), future.ID)
	assert.NoError(t, err)
	assert.False(t, got.Completed)

	got, err = repo.GetByID(context.Background(), noDue.ID)
	assert.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestRun_BoundaryDueDateCompletes(t *testing.T) {
	svc, repo := setupService(t)
	rec := reconciler.New(svc, "0 * * * *")

	// Due "now": by the time the task is examined the due date has passed,
	// so it qualifies.
	task := seedTask(t, repo, "due now", timePtr(time.Now()), false)

	rec.Run(context.Background())

	got, err := repo.GetByID(context.Background(), task.ID)
	assert.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestRun_Idempotent(t *testing.T) {
	svc, repo := setupService(t)
	rec := reconciler.New(svc, "0 * * * *")

	yesterday := time.Now().Add(-24 * time.Hour)
	overdue := seedTask(t, repo, "overdue", timePtr(yesterday), false)
	alreadyDone := seedTask(t, repo, "already done", timePtr(yesterday), true)
	stored, err := repo.GetByID(context.Background(), alreadyDone.ID)
	assert.NoError(t, err)
	doneUpdatedAt := stored.UpdatedAt

	rec.Run(context.Background())

	first, err := repo.GetByID(context.Background(), overdue.ID)
	assert.NoError(t, err)
	assert.True(t, first.Completed)

	time.Sleep(10 * time.Millisecond)
	rec.Run(context.Background())

	second, err := repo.GetByID(context.Background(), overdue.ID)
	assert.NoError(t, err)
	assert.True(t, second.Completed)
	// Untouched on the second pass.
	assert.Equal(t, first.UpdatedAt.UnixNano(), second.UpdatedAt.UnixNano())

	got, err := repo.GetByID(context.Background(), alreadyDone.ID)
	assert.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, doneUpdatedAt.UnixNano(), got.UpdatedAt.UnixNano())
}

func TestRun_NeverUncompletes(t *testing.T) {
	svc, repo := setupService(t)
	rec := reconciler.New(svc, "0 * * * *")

	tomorrow := time.Now().Add(24 * time.Hour)
	done := seedTask(t, repo, "done early", timePtr(tomorrow), true)

	rec.Run(context.Background())

	got, err := repo.GetByID(context.Background(), done.ID)
	assert.NoError(t, err)
	assert.True(t, got.Completed)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskService) Save(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func TestRun_ListFailureAbortsRun(t *testing.T) {
	mockSvc := new(MockTaskService)
	rec := reconciler.New(mockSvc, "0 * * * *")

	mockSvc.On("ListAll", mock.Anything).Return(nil, assert.AnError)

	rec.Run(context.Background())

	mockSvc.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRun_SaveFailureDoesNotAbortScan(t *testing.T) {
	mockSvc := new(MockTaskService)
	rec := reconciler.New(mockSvc, "0 * * * *")

	yesterday := time.Now().Add(-24 * time.Hour)
	failing := model.Task{ID: uuid.New(), Title: "failing", DueDate: timePtr(yesterday), Priority: 1}
	succeeding := model.Task{ID: uuid.New(), Title: "succeeding", DueDate: timePtr(yesterday), Priority: 1}

	mockSvc.On("ListAll", mock.Anything).Return([]model.Task{failing, succeeding}, nil)
	mockSvc.On("Save", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.ID == failing.ID
	})).Return(assert.AnError)
	mockSvc.On("Save", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.ID == succeeding.ID
	})).Return(nil)

	rec.Run(context.Background())

	mockSvc.AssertNumberOfCalls(t, "Save", 2)
}

func TestStartAndStop(t *testing.T) {
	mockSvc := new(MockTaskService)

	t.Run("valid schedule", func(t *testing.T) {
		rec := reconciler.New(mockSvc, "0 * * * *")
		assert.NoError(t, rec.Start())
		rec.Stop()
	})

	t.Run("invalid schedule", func(t *testing.T) {
		rec := reconciler.New(mockSvc, "not a cron spec")
		assert.Error(t, rec.Start())
	})
}

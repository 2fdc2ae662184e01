package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-list-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TaskRepositoryTestSuite runs the GORM repositories against in-memory SQLite
type TaskRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	users UserRepository
	tasks TaskRepository
	ctx   context.Context
	alice *models.User
	bob   *models.User
}

func (s *TaskRepositoryTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	// every new connection to :memory: opens an empty database
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(s.db.AutoMigrate(&models.User{}, &models.Task{}))

	s.ctx = context.Background()
	s.users = NewUserRepository(s.db)
	s.tasks = NewTaskRepository(s.db)

	s.alice = &models.User{Email: "alice@example.com", PasswordHash: "hash"}
	s.Require().NoError(s.users.Create(s.ctx, s.alice))
	s.bob = &models.User{Email: "bob@example.com", PasswordHash: "hash"}
	s.Require().NoError(s.users.Create(s.ctx, s.bob))
}

func (s *TaskRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *TaskRepositoryTestSuite) createTask(owner *models.User, title string, completed bool, createdAt time.Time) *models.Task {
	task := &models.Task{Title: title, OwnerID: owner.ID, CreatedAt: createdAt}
	s.Require().NoError(s.tasks.Create(s.ctx, task))
	if completed {
		done := true
		_, err := s.tasks.UpdateOwned(s.ctx, task.ID, owner.ID, models.TaskPatch{Completed: &done})
		s.Require().NoError(err)
	}
	return task
}

func (s *TaskRepositoryTestSuite) TestUserCreate_AssignsID() {
	s.NotEmpty(s.alice.ID)
	s.NotEqual(s.alice.ID, s.bob.ID)
}

func (s *TaskRepositoryTestSuite) TestUserCreate_DuplicateEmail() {
	err := s.users.Create(s.ctx, &models.User{Email: "alice@example.com", PasswordHash: "other"})
	s.ErrorIs(err, ErrDuplicate)
}

func (s *TaskRepositoryTestSuite) TestUserFind() {
	found, err := s.users.FindByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(s.alice.ID, found.ID)

	found, err = s.users.FindByID(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Equal("bob@example.com", found.Email)

	_, err = s.users.FindByEmail(s.ctx, "ALICE@example.com")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.users.FindByID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *TaskRepositoryTestSuite) TestList_ScopedOrderedAndFiltered() {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	milk := s.createTask(s.alice, "Buy MILK", false, base)
	report := s.createTask(s.alice, "Write report", true, base.Add(time.Minute))
	oat := s.createTask(s.alice, "oat milk too", true, base.Add(2*time.Minute))
	s.createTask(s.bob, "Bob's milk", false, base.Add(3*time.Minute))

	all, err := s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID})
	s.Require().NoError(err)
	s.Equal([]string{oat.ID, report.ID, milk.ID}, taskIDs(all))

	found, err := s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID, Search: "milk"})
	s.Require().NoError(err)
	s.Equal([]string{oat.ID, milk.ID}, taskIDs(found))

	done := true
	found, err = s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID, Search: "MILK", Completed: &done})
	s.Require().NoError(err)
	s.Equal([]string{oat.ID}, taskIDs(found))

	pending := false
	found, err = s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID, Completed: &pending})
	s.Require().NoError(err)
	s.Equal([]string{milk.ID}, taskIDs(found))
}

func (s *TaskRepositoryTestSuite) TestList_SameCreatedAtNewestFirst() {
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	first := s.createTask(s.alice, "first", false, at)
	second := s.createTask(s.alice, "second", false, at)
	third := s.createTask(s.alice, "third", false, at)

	all, err := s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func (s *TaskRepositoryTestSuite) TestList_WildcardsMatchLiterally() {
	s.createTask(s.alice, "plain", false, time.Now())
	pct := s.createTask(s.alice, "discount 50% off", false, time.Now())

	found, err := s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID, Search: "%"})
	s.Require().NoError(err)
	s.Equal([]string{pct.ID}, taskIDs(found))

	found, err = s.tasks.List(s.ctx, TaskFilter{OwnerID: s.alice.ID, Search: "_"})
	s.Require().NoError(err)
	s.Empty(found)
	s.NotNil(found)
}

func (s *TaskRepositoryTestSuite) TestUpdateOwned_PartialPatch() {
	task := s.createTask(s.alice, "Old title", true, time.Now())

	title := "New title"
	updated, err := s.tasks.UpdateOwned(s.ctx, task.ID, s.alice.ID, models.TaskPatch{Title: &title})
	s.Require().NoError(err)
	s.Equal("New title", updated.Title)
	s.True(updated.Completed)
	s.Equal(s.alice.ID, updated.OwnerID)
}

func (s *TaskRepositoryTestSuite) TestUpdateOwned_EmptyPatchStillMatches() {
	task := s.createTask(s.alice, "Same", false, time.Now())

	updated, err := s.tasks.UpdateOwned(s.ctx, task.ID, s.alice.ID, models.TaskPatch{})
	s.Require().NoError(err)
	s.Equal("Same", updated.Title)
}

func (s *TaskRepositoryTestSuite) TestUpdateOwned_WrongOwnerAndMissing() {
	task := s.createTask(s.alice, "Private", false, time.Now())

	title := "hijacked"
	_, err := s.tasks.UpdateOwned(s.ctx, task.ID, s.bob.ID, models.TaskPatch{Title: &title})
	s.ErrorIs(err, ErrNotOwner)

	_, err = s.tasks.UpdateOwned(s.ctx, "missing", s.alice.ID, models.TaskPatch{Title: &title})
	s.ErrorIs(err, ErrNotFound)

	stored, err := s.tasks.FindByID(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal("Private", stored.Title)
}

func (s *TaskRepositoryTestSuite) TestDeleteOwned() {
	task := s.createTask(s.alice, "Delete me", false, time.Now())

	s.ErrorIs(s.tasks.DeleteOwned(s.ctx, task.ID, s.bob.ID), ErrNotOwner)
	s.Require().NoError(s.tasks.DeleteOwned(s.ctx, task.ID, s.alice.ID))
	s.ErrorIs(s.tasks.DeleteOwned(s.ctx, task.ID, s.alice.ID), ErrNotFound)

	_, err := s.tasks.FindByID(s.ctx, task.ID)
	s.ErrorIs(err, ErrNotFound)

	var count int64
	s.Require().NoError(s.db.Unscoped().Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	s.Zero(count)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

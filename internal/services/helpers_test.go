package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-list-api/internal/models"
	"github.com/yukikurage/task-list-api/internal/repository"
	"github.com/yukikurage/task-list-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	authService *AuthService
	taskService *TaskService
	clock       *fakeClock
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := token.NewIssuer([]byte("test-secret"), 7*24*time.Hour)

	return testEnv{
		db:          db,
		authService: NewAuthService(repository.NewUserRepository(db), issuer).WithHashCost(bcrypt.MinCost),
		taskService: NewTaskService(repository.NewTaskRepository(db)).WithClock(clock.Now),
		clock:       clock,
	}
}

// fakeClock advances one second on every read so creation order is strict.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func (env testEnv) registerUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.authService.Register(context.Background(), RegisterInput{Email: email, Password: "pw1"})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-list-api/internal/middleware"
	"github.com/yukikurage/task-list-api/internal/models"
	"github.com/yukikurage/task-list-api/internal/repository"
	"github.com/yukikurage/task-list-api/internal/services"
	"github.com/yukikurage/task-list-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// handlerSuite wires real services over an in-memory SQLite database.
type handlerSuite struct {
	suite.Suite
	db          *gorm.DB
	authService *services.AuthService
	taskService *services.TaskService
	suggester   services.TaskSuggester
	router      *gin.Engine
}

func (s *handlerSuite) SetupTest() {
	var err error

	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(s.db.AutoMigrate(&models.User{}, &models.Task{}))

	issuer := token.NewIssuer([]byte("handler-test-secret"), time.Hour)
	s.authService = services.NewAuthService(repository.NewUserRepository(s.db), issuer).WithHashCost(bcrypt.MinCost)
	s.taskService = services.NewTaskService(repository.NewTaskRepository(s.db))
	s.suggester = nil

	gin.SetMode(gin.TestMode)
	s.buildRouter()
}

func (s *handlerSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *handlerSuite) buildRouter() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	authHandler := NewAuthHandler(s.authService, log)
	taskHandler := NewTaskHandler(s.taskService, s.suggester, log)
	requireAuth := middleware.RequireAuth(s.authService)

	s.router = gin.New()
	s.router.POST("/auth/register", authHandler.Register)
	s.router.POST("/auth/login", authHandler.Login)
	s.router.GET("/user/profile", requireAuth, authHandler.Profile)
	s.router.GET("/tasks", requireAuth, taskHandler.ListTasks)
	s.router.POST("/tasks", requireAuth, taskHandler.CreateTask)
	s.router.POST("/tasks/suggest", requireAuth, taskHandler.SuggestTasks)
	s.router.PUT("/tasks/:id", requireAuth, taskHandler.UpdateTask)
	s.router.DELETE("/tasks/:id", requireAuth, taskHandler.DeleteTask)
}

// do sends a request through the router. body is JSON-encoded unless it is
// already a string.
func (s *handlerSuite) do(method, url, bearer string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// login registers email (if needed) and returns a token for it.
func (s *handlerSuite) login(email string) string {
	ctx := context.Background()
	if _, err := s.authService.Register(ctx, services.RegisterInput{Email: email, Password: "pw1"}); err != nil {
		s.Require().ErrorIs(err, services.ErrEmailTaken)
	}
	result, err := s.authService.Login(ctx, services.LoginInput{Email: email, Password: "pw1"})
	s.Require().NoError(err)
	return result.Token
}

func (s *handlerSuite) userID(tok string) string {
	id, err := s.authService.VerifyToken(tok)
	s.Require().NoError(err)
	return id
}

func (s *handlerSuite) createTask(tok, title string) map[string]any {
	w := s.do(http.MethodPost, "/tasks", tok, map[string]string{"title": title})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task map[string]any
	s.decode(w, &task)
	return task
}

type stubSuggester struct {
	titles []string
	err    error
	got    string
}

func (s *stubSuggester) SuggestTasks(_ context.Context, text string) ([]string, error) {
	s.got = text
	return s.titles, s.err
}

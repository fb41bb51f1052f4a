package commands

import (
	"bytes"
	"context"
	"eduverse/config"
	"eduverse/database"
	"eduverse/media"
	"eduverse/models"
	"eduverse/notify"
	"eduverse/payments"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type stubGateway struct{}

func (stubGateway) Name() string { return "stub" }

func (stubGateway) CreateOrder(_ context.Context, o payments.Order) (*payments.Checkout, error) {
	return &payments.Checkout{Token: "tok-" + o.OrderID, RedirectURL: "https://pay.test/" + o.OrderID}, nil
}

func (stubGateway) VerifyNotification(n payments.Notification) error {
	if n.SignatureKey != "ok" {
		return payments.ErrInvalidSignature
	}
	return nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.OpenSQLite(database.MemoryDSN(t.Name()), gormLogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		JWTKey:                "test-secret",
		SaltRound:             bcrypt.MinCost,
		UploadDir:             t.TempDir(),
		PointsPerCurrencyUnit: 2,
	}
	cfg.Redis.TTL = "1m"
	config.AppConfig = cfg

	app := NewApp(Deps{
		Config:   cfg,
		DB:       db,
		Redis:    client,
		Notifier: &notify.Recorder{},
		Gateway:  stubGateway{},
		Media:    media.NewLocalStore(cfg.UploadDir, "/uploads"),
	})
	return &testServer{t: t, app: app, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

// signUp registers, verifies and logs in a user and returns its token.
func (s *testServer) signUp(name, email, role string) (uint, string) {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)

	var otp models.OTP
	require.NoError(s.t, s.db.Where("email = ?", email).Order("id DESC").First(&otp).Error)

	status, env = s.do(http.MethodPost, "/auth/verify-otp", "", fiber.Map{"email": email, "code": otp.Code})
	require.Equal(s.t, http.StatusOK, status, env.Message)

	return s.login(email, "password123")
}

func (s *testServer) login(email, password string) (uint, string) {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, status, env.Message)

	var out struct {
		User  struct{ ID uint } `json:"user"`
		Token string            `json:"token"`
	}
	decode(s.t, env, &out)
	require.NotEmpty(s.t, out.Token)
	return out.User.ID, out.Token
}

func (s *testServer) seedAdmin(email string) string {
	s.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(s.t, err)
	require.NoError(s.t, s.db.Create(&models.User{
		Name:            "Admin",
		Email:           email,
		Role:            models.RoleAdmin,
		Password:        string(hash),
		IsEmailVerified: true,
		IsActive:        true,
	}).Error)

	_, token := s.login(email, "password123")
	return token
}

// walletAmount is the reward points of a student or the balance of a teacher.
func (s *testServer) walletAmount(token string) decimal.Decimal {
	s.t.Helper()

	status, env := s.do(http.MethodGet, "/wallet/balance", token, nil)
	require.Equal(s.t, http.StatusOK, status, env.Message)
	var out struct {
		RewardPoints decimal.Decimal `json:"reward_points"`
		Balance      decimal.Decimal `json:"balance"`
	}
	decode(s.t, env, &out)
	if out.RewardPoints.IsZero() {
		return out.Balance
	}
	return out.RewardPoints
}

func TestCoursePurchaseFlow(t *testing.T) {
	s := newTestServer(t)
	teacherID, teacher := s.signUp("Tara Teacher", "tara@example.com", models.RoleTeacher)
	_, student := s.signUp("Sam Student", "sam@example.com", models.RoleStudent)
	admin := s.seedAdmin("root@example.com")

	// teacher builds an active course with one priced module
	status, env := s.do(http.MethodPost, "/teacher/course", teacher, fiber.Map{"title": "Go Basics", "status": "ACTIVE"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var crs struct{ ID uint }
	decode(t, env, &crs)

	status, env = s.do(http.MethodPost, fmt.Sprintf("/teacher/course/%d/module", crs.ID), teacher, fiber.Map{"title": "Intro module", "price": 80})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var mod struct{ ID uint }
	decode(t, env, &mod)

	status, env = s.do(http.MethodPost, fmt.Sprintf("/teacher/module/%d/content", mod.ID), teacher, fiber.Map{
		"title": "Welcome", "content_type": "TEXT", "text_content": "hello",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	contentPath := fmt.Sprintf("/course/%d/module/%d/content", crs.ID, mod.ID)
	status, _ = s.do(http.MethodGet, contentPath, student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// not enough points yet
	status, _ = s.do(http.MethodPost, fmt.Sprintf("/course/%d/purchase", crs.ID), student, nil)
	assert.Equal(t, http.StatusPaymentRequired, status)

	// top up 50 at two points per unit
	status, env = s.do(http.MethodPost, "/wallet/topup", student, fiber.Map{"amount": 50})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var order struct {
		OrderID string `json:"order_id"`
	}
	decode(t, env, &order)

	notification := fiber.Map{
		"order_id":           order.OrderID,
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "50.00",
		"signature_key":      "ok",
	}
	for i := 0; i < 2; i++ {
		status, env = s.do(http.MethodPost, "/wallet/payment/notify", "", notification)
		require.Equal(t, http.StatusOK, status, env.Message)
	}
	assert.True(t, decimal.NewFromInt(100).Equal(s.walletAmount(student)))

	status, env = s.do(http.MethodPost, fmt.Sprintf("/course/%d/purchase", crs.ID), student, nil)
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.True(t, decimal.NewFromInt(20).Equal(s.walletAmount(student)))

	status, _ = s.do(http.MethodPost, fmt.Sprintf("/course/%d/purchase", crs.ID), student, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = s.do(http.MethodGet, contentPath, student, nil)
	assert.Equal(t, http.StatusOK, status, env.Message)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/teacher/course/%d/sales", crs.ID), teacher, nil)
	assert.Equal(t, http.StatusOK, status, env.Message)

	// teacher earned the base price and the admin pays part of it out
	assert.True(t, decimal.NewFromInt(80).Equal(s.walletAmount(teacher)))
	status, env = s.do(http.MethodPost, fmt.Sprintf("/admin/teacher/%d/payout", teacherID), admin, fiber.Map{
		"amount": 30, "reference": "BANK-001",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.True(t, decimal.NewFromInt(50).Equal(s.walletAmount(teacher)))
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t)
	_, teacher := s.signUp("Tara Teacher", "tara@example.com", models.RoleTeacher)
	studentID, student := s.signUp("Sam Student", "sam@example.com", models.RoleStudent)

	status, env := s.do(http.MethodPost, "/teacher/quiz", teacher, fiber.Map{
		"title":            "Week one",
		"start_at":         time.Now().Add(-time.Minute).UTC().Format(time.RFC3339),
		"duration_seconds": 600,
		"questions": []fiber.Map{
			{"text": "2 + 2?", "options": []string{"3", "4"}, "correct_answer_index": 1, "marks": 5},
		},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created struct {
		ID        uint
		Questions []struct{ ID uint } `json:"questions"`
	}
	decode(t, env, &created)
	require.Len(t, created.Questions, 1)

	answers := fiber.Map{"answers": []fiber.Map{
		{"question_id": created.Questions[0].ID, "selected_answer_index": 1},
	}}
	status, env = s.do(http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", created.ID), student, answers)
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, _ = s.do(http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", created.ID), student, answers)
	assert.Equal(t, http.StatusConflict, status)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/quiz/%d/leaderboard", created.ID), student, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var standings []struct {
		StudentID uint `json:"student_id"`
		Marks     int  `json:"marks"`
		Rank      int  `json:"rank"`
	}
	decode(t, env, &standings)
	require.Len(t, standings, 1)
	assert.Equal(t, studentID, standings[0].StudentID)
	assert.Equal(t, 5, standings[0].Marks)
	assert.Equal(t, 1, standings[0].Rank)
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)
	_, student := s.signUp("Sam Student", "sam@example.com", models.RoleStudent)

	status, _ := s.do(http.MethodGet, "/wallet/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/wallet/balance", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/admin/user/list", student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/teacher/course", student, fiber.Map{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(http.MethodGet, "/course/abc", student, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed!", env.Message)

	status, _ = s.do(http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	s := newTestServer(t)
	s.signUp("Sam Student", "sam@example.com", models.RoleStudent)

	for i := 0; i < 3; i++ {
		status, _ := s.do(http.MethodPost, "/auth/login", "", fiber.Map{"email": "sam@example.com", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := s.do(http.MethodPost, "/auth/login", "", fiber.Map{"email": "sam@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "blocked")
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	s := newTestServer(t)
	s.signUp("Sam Student", "sam@example.com", models.RoleStudent)

	status, _ := s.do(http.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Sam Again", "email": "sam@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, env := s.do(http.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Al", "email": "not-an-email", "password": "short", "role": "ADMIN",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var fields map[string]string
	decode(t, env, &fields)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "role")
}

func TestLoginHistoryIsRecorded(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("Sam Student", "sam@example.com", models.RoleStudent)
	s.login("sam@example.com", "password123")

	status, env := s.do(http.MethodGet, "/auth/login/history?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var out struct {
		History []struct {
			UserID uint `json:"user_id"`
		} `json:"history"`
	}
	decode(t, env, &out)
	assert.Len(t, out.History, 2)
}

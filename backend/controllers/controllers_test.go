package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eduapp/backend/config"
	"eduapp/backend/models"
	"eduapp/backend/routes"
	"eduapp/backend/services/email"
	"eduapp/backend/utils"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

// recordingMailer captures verification URLs so tests can follow them.
type recordingMailer struct {
	verificationURLs []string
}

func (m *recordingMailer) SendVerificationEmail(toEmail, verificationURL string) {
	m.verificationURLs = append(m.verificationURLs, verificationURL)
}

func newTestEnv(t *testing.T) (*testEnv, *recordingMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:  "testsecret",
		ServerPort: "8080",
		BackendURL: "http://localhost:8080",
	}

	mailer := &recordingMailer{}
	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, mailer)

	return &testEnv{app: app, db: db, cfg: cfg}, mailer
}

var _ email.Mailer = (*recordingMailer)(nil)

// createUser inserts a verified user and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, fullName, emailAddr, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		FullName:     fullName,
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   true,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, e.cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

// request performs an HTTP call against the test app and decodes the
// JSON response body into a generic map.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// requestList is request for endpoints returning a JSON array.
func (e *testEnv) requestList(t *testing.T, method, path, token string) (int, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	var decoded []map[string]interface{}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// createSubjectAndGroup seeds the minimum structure assessments hang off.
func (e *testEnv) createSubjectAndGroup(t *testing.T) (models.Subject, models.Group) {
	t.Helper()

	subject := models.Subject{Name: "Mathematics", Description: "Numbers and proofs", Grade: "10"}
	if err := e.db.Create(&subject).Error; err != nil {
		t.Fatalf("create subject: %v", err)
	}
	group := models.Group{Name: "10-A", SubjectID: subject.ID}
	if err := e.db.Create(&group).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	return subject, group
}

// seededQuestion pairs a question with its correct and wrong option IDs.
type seededQuestion struct {
	ID        uint
	CorrectID uint
	WrongID   uint
}

// createAssessment seeds an assessment with two questions worth 2 and 1
// marks, each with a known correct option.
func (e *testEnv) createAssessment(t *testing.T, subject models.Subject, group models.Group, createdBy uint, approved bool) (models.Assessment, [2]seededQuestion) {
	t.Helper()

	status := models.AssessmentStatusPending
	if approved {
		status = models.AssessmentStatusActive
	}
	assessment := models.Assessment{
		Title:     "Algebra quiz",
		SubjectID: subject.ID,
		GroupID:   group.ID,
		CreatedBy: createdBy,
		Approved:  approved,
		Status:    status,
	}
	if err := e.db.Create(&assessment).Error; err != nil {
		t.Fatalf("create assessment: %v", err)
	}

	var seeded [2]seededQuestion
	marks := []int{2, 1}
	for i := 0; i < 2; i++ {
		question := models.Question{
			AssessmentID: assessment.ID,
			QuestionText: "Question",
			QuestionType: "multiple_choice",
			Marks:        marks[i],
		}
		if err := e.db.Create(&question).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		correct := models.QuestionOption{QuestionID: question.ID, OptionText: "Right", IsCorrect: true}
		wrong := models.QuestionOption{QuestionID: question.ID, OptionText: "Wrong"}
		if err := e.db.Create(&correct).Error; err != nil {
			t.Fatalf("create option: %v", err)
		}
		if err := e.db.Create(&wrong).Error; err != nil {
			t.Fatalf("create option: %v", err)
		}
		seeded[i] = seededQuestion{ID: question.ID, CorrectID: correct.ID, WrongID: wrong.ID}
	}
	return assessment, seeded
}

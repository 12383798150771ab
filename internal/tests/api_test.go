// internal/tests/api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wekeza/sacco-backend/internal/config"
	"github.com/wekeza/sacco-backend/internal/models"
	"github.com/wekeza/sacco-backend/internal/router"
)

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	token  string
	loan   *models.Loan
	ctID   string
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(db.AutoMigrate(
		&models.StaffUser{},
		&models.Loan{},
		&models.CollateralType{},
		&models.CollateralItem{},
		&models.InsurancePolicy{},
		&models.AuditLog{},
	))

	admin := &models.StaffUser{
		Username: "admin",
		Email:    "admin@wekezasacco.co.ke",
		Role:     models.StaffRoleAdmin,
		Status:   models.StaffStatusActive,
	}
	s.Require().NoError(admin.SetPassword("TestPass123!"))
	s.Require().NoError(db.Create(admin).Error)

	s.loan = &models.Loan{
		LoanNumber: "LN-2026-0099",
		MemberName: "Otieno Okoth",
		Principal:  1200000,
		Status:     models.LoanStatusActive,
	}
	s.Require().NoError(db.Create(s.loan).Error)

	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
	}
	s.router = router.SetupRouter(cfg, db)

	s.token = s.login("admin", "TestPass123!")
}

func (s *APITestSuite) login(username, password string) string {
	w := s.request("POST", "/v1/auth/login", map[string]interface{}{
		"username": username,
		"password": password,
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Data.Token)
	return resp.Data.Token
}

func (s *APITestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *APITestSuite) TestHealthCheck() {
	w := s.request("GET", "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestAuthRequired() {
	w := s.request("GET", "/v1/collateral", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestCollateralLifecycleOverHTTP() {
	// Admin creates a type.
	w := s.request("POST", "/v1/collateral-types", map[string]interface{}{
		"name":               "Motor Vehicle HTTP",
		"ltv_percent":        60,
		"revaluation_months": 12,
	}, s.token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	typeID := s.decode(w)["data"].(map[string]interface{})["id"].(string)

	// Register collateral against the loan.
	w = s.request("POST", "/v1/collateral", map[string]interface{}{
		"loan_id":            s.loan.ID.String(),
		"collateral_type_id": typeID,
		"owner_name":         "Otieno Okoth",
		"description":        "Isuzu FRR, KCV 921T",
		"declared_value":     1500000,
	}, s.token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	item := s.decode(w)["data"].(map[string]interface{})
	itemID := item["id"].(string)
	s.Equal("registered", item["status"])

	// Appraise it: 60% of 1,000,000.
	w = s.request("POST", "/v1/collateral/"+itemID+"/valuations", map[string]interface{}{
		"appraised_value": 1000000,
		"valuer_name":     "Kamau Valuers Ltd",
	}, s.token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	item = s.decode(w)["data"].(map[string]interface{})
	s.Equal(600000.0, item["lending_limit"])

	// Place the lien, then attempt a forbidden delete.
	w = s.request("POST", "/v1/collateral/"+itemID+"/lien", nil, s.token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request("DELETE", "/v1/collateral/"+itemID, nil, s.token)
	s.Equal(http.StatusConflict, w.Code)

	// A second lien reports the failed transition.
	w = s.request("POST", "/v1/collateral/"+itemID+"/lien", nil, s.token)
	s.Equal(http.StatusConflict, w.Code)
	errBody := s.decode(w)["error"].(map[string]interface{})
	s.Equal("INVALID_TRANSITION", errBody["code"])

	// Attach insurance while under lien.
	w = s.request("POST", "/v1/collateral/"+itemID+"/insurance-policies", map[string]interface{}{
		"policy_number": "HTTP/2026/1",
		"insurer_name":  "Jubilee Insurance",
		"start_date":    time.Now().UTC().Format(time.RFC3339),
		"expiry_date":   time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339),
	}, s.token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	// Release and delete.
	w = s.request("POST", "/v1/collateral/"+itemID+"/release", map[string]interface{}{
		"notes": "loan settled",
	}, s.token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request("DELETE", "/v1/collateral/"+itemID, nil, s.token)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestUnknownItemReturns404() {
	w := s.request("GET", "/v1/collateral/00000000-0000-0000-0000-000000000001", nil, s.token)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestMalformedIDReturns400() {
	w := s.request("GET", "/v1/collateral/not-a-uuid", nil, s.token)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestAlertSummary() {
	w := s.request("GET", fmt.Sprintf("/v1/alerts/summary?as_of=%s", time.Now().UTC().Format("2006-01-02")), nil, s.token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	data := s.decode(w)["data"].(map[string]interface{})
	s.Contains(data, "overdue_revaluation_count")
	s.Contains(data, "expiring_insurance_count")
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/internal/dto"
	"github.com/syncpay/guardianpay/internal/handlers"
	"github.com/syncpay/guardianpay/internal/utils"
	"github.com/syncpay/guardianpay/pkg/config"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterParent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) RegisterAdmin(ctx context.Context, req dto.AdminRegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	mockAuthService    *MockAuthService
	jwtSecret          string
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterDecimalValidation()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockPaymentService = new(MockPaymentService)
	suite.mockAuthService = new(MockAuthService)

	cfg := &config.Config{
		JWTSecret:         suite.jwtSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "guardianpay-test",
		LoginRateLimit:    "100-M",
		PaymentRateLimit:  "100-M",
		IsProduction:      true, // no swagger wiring in tests
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Auth:    suite.mockAuthService,
		Payment: suite.mockPaymentService,
	})
}

func (suite *PaymentHandlerTestSuite) token(role domain.Role) string {
	token, err := utils.GenerateJWT(uuid.NewString(), string(role), suite.jwtSecret, time.Hour, "guardianpay-test")
	suite.Require().NoError(err)
	return token
}

func (suite *PaymentHandlerTestSuite) perform(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func samplePayment(status domain.PaymentStatus) *domain.Payment {
	return &domain.Payment{
		PaymentID:      uuid.NewString(),
		ParentID:       uuid.NewString(),
		StudentID:      uuid.NewString(),
		OriginalAmount: decimal.NewFromInt(500),
		AdjustedAmount: decimal.NewFromInt(510),
		DynamicRate:    decimal.RequireFromString("0.02"),
		Status:         status,
		AuditFields:    domain.NewAuditFields(uuid.NewString(), time.Now().UTC()),
	}
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_Success() {
	payment := samplePayment(domain.PaymentSuccess)
	body := gin.H{"parentId": payment.ParentID, "studentId": payment.StudentID, "paymentAmount": "500"}

	suite.mockPaymentService.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(r dto.ProcessPaymentRequest) bool {
		return r.ParentID == payment.ParentID && r.StudentID == payment.StudentID
	})).Return(payment, nil).Once()

	w := suite.perform(http.MethodPost, "/api/v1/payments", suite.token(domain.RoleAdmin), body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AppResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Success", resp.Status)
	suite.Require().NotNil(resp.Data)
	suite.Equal(payment.PaymentID, resp.Data.PaymentID)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_InsufficientFunds() {
	payment := samplePayment(domain.PaymentFailed)
	body := gin.H{"parentId": payment.ParentID, "studentId": payment.StudentID, "paymentAmount": "500"}

	suite.mockPaymentService.On("ProcessPayment", mock.Anything, mock.Anything).
		Return(payment, fmt.Errorf("%w: adjusted amount exceeds parent balance", apperrors.ErrInsufficientFunds)).Once()

	w := suite.perform(http.MethodPost, "/api/v1/payments", suite.token(domain.RoleAdmin), body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.AppResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEqual("Success", resp.Status)
	// The FAILED audit record rides along in the error reply.
	suite.Require().NotNil(resp.Data)
	suite.Equal("FAILED", resp.Data.Status)
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_ForbiddenForParents() {
	body := gin.H{"parentId": uuid.NewString(), "studentId": uuid.NewString(), "paymentAmount": "500"}

	w := suite.perform(http.MethodPost, "/api/v1/payments", suite.token(domain.RoleParent), body)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.JSONEq(`{"error": "forbidden"}`, w.Body.String())
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ProcessPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_Unauthenticated() {
	body := gin.H{"parentId": uuid.NewString(), "studentId": uuid.NewString(), "paymentAmount": "500"}

	w := suite.perform(http.MethodPost, "/api/v1/payments", "", body)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFound() {
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodGet, "/api/v1/payments/"+paymentID, suite.token(domain.RoleAdmin), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestListPayments() {
	payment := samplePayment(domain.PaymentSuccess)
	resp := &dto.ListPaymentsResponse{Payments: []dto.PaymentResponse{dto.ToPaymentResponse(payment)}}

	suite.mockPaymentService.On("ListPayments", mock.Anything, mock.MatchedBy(func(p dto.ListPaymentsParams) bool {
		return p.Limit == 5
	})).Return(resp, nil).Once()

	w := suite.perform(http.MethodGet, "/api/v1/payments?limit=5", suite.token(domain.RoleParent), nil)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ListPaymentsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got.Payments, 1)
	suite.Equal(payment.PaymentID, got.Payments[0].PaymentID)
}

func (suite *PaymentHandlerTestSuite) TestHealth() {
	w := suite.perform(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestPaymentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

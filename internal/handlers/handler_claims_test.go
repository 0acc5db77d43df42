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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/dto"
	"github.com/cardperks/card_perks_app/internal/handlers"
	"github.com/cardperks/card_perks_app/internal/middleware"
)

// --- Mock RedemptionService ---
type MockRedemptionService struct {
	mock.Mock
}

func (m *MockRedemptionService) Preview(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error) {
	args := m.Called(ctx, merchantID, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedemptionResult), args.Error(1)
}

func (m *MockRedemptionService) Confirm(ctx context.Context, merchantID string, code string, userID string) (*domain.RedemptionResult, error) {
	args := m.Called(ctx, merchantID, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedemptionResult), args.Error(1)
}

var _ portssvc.RedemptionSvcFacade = (*MockRedemptionService)(nil)

// --- Test Suite ---
type ClaimHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockRedemptionSvc *MockRedemptionService
	jwtSecret         string
}

func (suite *ClaimHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "card-perks-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ClaimHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockRedemptionSvc = new(MockRedemptionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterClaimRoutes(v1, suite.mockRedemptionSvc)
}

func (suite *ClaimHandlerTestSuite) postRedemption(path string, userID string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ClaimHandlerTestSuite) TestVerifyCode_Success() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()
	claim := &domain.RewardClaim{
		ClaimID:           uuid.NewString(),
		Code:              "ABCD2345",
		CustomerID:        uuid.NewString(),
		MerchantID:        merchantID,
		ProgramID:         uuid.NewString(),
		RewardDescription: "Free coffee",
		Status:            domain.ClaimPending,
		IssuedAt:          time.Now().UTC(),
	}
	suite.mockRedemptionSvc.On("Preview",
		mock.Anything, merchantID, "ABCD2345", userID,
	).Return(&domain.RedemptionResult{Outcome: domain.RedemptionSuccess, Claim: claim}, nil).Once()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/verify", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "ABCD2345"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RedemptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SUCCESS", resp.Outcome)
	suite.Require().NotNil(resp.Claim)
	suite.Equal(claim.ClaimID, resp.Claim.ClaimID)
	suite.Equal("Free coffee", resp.Claim.RewardDescription)

	suite.mockRedemptionSvc.AssertExpectations(suite.T())
	suite.mockRedemptionSvc.AssertNotCalled(suite.T(), "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimHandlerTestSuite) TestVerifyCode_NotFoundOutcome() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()
	suite.mockRedemptionSvc.On("Preview",
		mock.Anything, merchantID, "ABCD2345", userID,
	).Return(&domain.RedemptionResult{Outcome: domain.RedemptionNotFound}, nil).Once()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/verify", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "ABCD2345"})

	// A missing code is a routine outcome for the merchant, not an HTTP error.
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RedemptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("NOT_FOUND", resp.Outcome)
	suite.Nil(resp.Claim)
}

func (suite *ClaimHandlerTestSuite) TestConfirmCode_Success() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now().UTC()
	claim := &domain.RewardClaim{
		ClaimID:    uuid.NewString(),
		Code:       "ABCD2345",
		MerchantID: merchantID,
		Status:     domain.ClaimRedeemed,
		IssuedAt:   now.Add(-time.Hour),
		RedeemedAt: &now,
		RedeemedBy: &userID,
	}
	suite.mockRedemptionSvc.On("Confirm",
		mock.Anything, merchantID, "ABCD2345", userID,
	).Return(&domain.RedemptionResult{Outcome: domain.RedemptionSuccess, Claim: claim}, nil).Once()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/confirm", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "ABCD2345"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RedemptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SUCCESS", resp.Outcome)
	suite.Require().NotNil(resp.Claim)
	suite.Equal("REDEEMED", resp.Claim.Status)
	suite.mockRedemptionSvc.AssertExpectations(suite.T())
}

func (suite *ClaimHandlerTestSuite) TestConfirmCode_NonMemberGets404() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()
	suite.mockRedemptionSvc.On("Confirm",
		mock.Anything, merchantID, "ABCD2345", userID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/confirm", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "ABCD2345"})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ClaimHandlerTestSuite) TestConfirmCode_InsufficientRoleGets403() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()
	suite.mockRedemptionSvc.On("Confirm",
		mock.Anything, merchantID, "ABCD2345", userID,
	).Return(nil, apperrors.NewAppError(403, "insufficient merchant role", apperrors.ErrForbidden)).Once()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/confirm", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "ABCD2345"})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ClaimHandlerTestSuite) TestConfirmCode_MalformedCodeGets400() {
	merchantID := uuid.NewString()
	userID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/confirm", merchantID)
	w := suite.postRedemption(url, userID, dto.RedeemCodeRequest{Code: "short"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRedemptionSvc.AssertNotCalled(suite.T(), "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClaimHandlerTestSuite) TestConfirmCode_MissingTokenGets401() {
	merchantID := uuid.NewString()
	payload, _ := json.Marshal(dto.RedeemCodeRequest{Code: "ABCD2345"})

	url := fmt.Sprintf("/api/v1/merchants/%s/claims/confirm", merchantID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRedemptionSvc.AssertNotCalled(suite.T(), "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimHandler(t *testing.T) {
	suite.Run(t, new(ClaimHandlerTestSuite))
}

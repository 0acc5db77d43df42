package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/core/services"
	"github.com/cardperks/card_perks_app/internal/utils"
)

const (
	testUserID    = "user-1"
	testClaimCode = "ABCD2345"
)

type RedemptionServiceTestSuite struct {
	suite.Suite
	mockClaimRepo  *MockClaimRepository
	mockAuthorizer *MockMerchantAuthorizer
	service        portssvc.RedemptionSvcFacade
}

func (suite *RedemptionServiceTestSuite) SetupTest() {
	suite.mockClaimRepo = new(MockClaimRepository)
	suite.mockAuthorizer = new(MockMerchantAuthorizer)
	suite.service = services.NewRedemptionService(suite.mockClaimRepo, suite.mockAuthorizer, &utils.PosthogClientWrapper{})
}

func (suite *RedemptionServiceTestSuite) expectAuthorized() {
	suite.mockAuthorizer.On("AuthorizeMerchantAction", mock.Anything, testUserID, testMerchantID, domain.RoleAdmin).
		Return(nil)
}

func pendingClaim() *domain.RewardClaim {
	return &domain.RewardClaim{
		ClaimID:           "claim-1",
		Code:              testClaimCode,
		CustomerID:        testCustomerID,
		MerchantID:        testMerchantID,
		ProgramID:         testProgramID,
		RewardDescription: "Free coffee",
		Status:            domain.ClaimPending,
		IssuedAt:          time.Now().UTC().Add(-time.Hour),
	}
}

func (suite *RedemptionServiceTestSuite) TestPreviewUnknownCode() {
	ctx := context.Background()
	suite.expectAuthorized()
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).
		Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionNotFound, result.Outcome)
	suite.Nil(result.Claim)
}

func (suite *RedemptionServiceTestSuite) TestPreviewNormalizesCode() {
	ctx := context.Background()
	suite.expectAuthorized()
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).
		Return(pendingClaim(), nil).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, "  abcd2345 ", testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionSuccess, result.Outcome)
	suite.mockClaimRepo.AssertExpectations(suite.T())
}

func (suite *RedemptionServiceTestSuite) TestPreviewCancelledClaimPresentsAsNotFound() {
	ctx := context.Background()
	suite.expectAuthorized()
	claim := pendingClaim()
	claim.Status = domain.ClaimCancelled
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(claim, nil).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionNotFound, result.Outcome)
	suite.Nil(result.Claim)
}

func (suite *RedemptionServiceTestSuite) TestPreviewWrongBusiness() {
	ctx := context.Background()
	suite.expectAuthorized()
	claim := pendingClaim()
	claim.MerchantID = "merch-other"
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(claim, nil).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionWrongBusiness, result.Outcome)
	suite.Nil(result.Claim)
}

func (suite *RedemptionServiceTestSuite) TestPreviewAlreadyRedeemedIncludesClaim() {
	ctx := context.Background()
	suite.expectAuthorized()
	claim := pendingClaim()
	claim.Status = domain.ClaimRedeemed
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(claim, nil).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionAlreadyRedeemed, result.Outcome)
	suite.Require().NotNil(result.Claim)
	suite.Equal("claim-1", result.Claim.ClaimID)
}

func (suite *RedemptionServiceTestSuite) TestPreviewNeverRedeems() {
	ctx := context.Background()
	suite.expectAuthorized()
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(pendingClaim(), nil).Once()

	result, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionSuccess, result.Outcome)
	suite.mockClaimRepo.AssertNotCalled(suite.T(), "RedeemClaim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RedemptionServiceTestSuite) TestConfirmRedeemsPendingClaim() {
	ctx := context.Background()
	suite.expectAuthorized()
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(pendingClaim(), nil).Once()
	suite.mockClaimRepo.On("RedeemClaim", ctx, "claim-1", testUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	result, err := suite.service.Confirm(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionSuccess, result.Outcome)
	suite.Require().NotNil(result.Claim)
	suite.Equal(domain.ClaimRedeemed, result.Claim.Status)
	suite.Require().NotNil(result.Claim.RedeemedAt)
	suite.Require().NotNil(result.Claim.RedeemedBy)
	suite.Equal(testUserID, *result.Claim.RedeemedBy)
	suite.mockClaimRepo.AssertExpectations(suite.T())
}

func (suite *RedemptionServiceTestSuite) TestConfirmLostRaceReportsAlreadyRedeemed() {
	ctx := context.Background()
	suite.expectAuthorized()
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(pendingClaim(), nil).Once()
	suite.mockClaimRepo.On("RedeemClaim", ctx, "claim-1", testUserID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()
	redeemed := pendingClaim()
	redeemed.Status = domain.ClaimRedeemed
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(redeemed, nil).Once()

	result, err := suite.service.Confirm(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionAlreadyRedeemed, result.Outcome)
	suite.mockClaimRepo.AssertExpectations(suite.T())
}

func (suite *RedemptionServiceTestSuite) TestConfirmWrongBusinessDoesNotRedeem() {
	ctx := context.Background()
	suite.expectAuthorized()
	claim := pendingClaim()
	claim.MerchantID = "merch-other"
	suite.mockClaimRepo.On("FindClaimByCode", ctx, testClaimCode).Return(claim, nil).Once()

	result, err := suite.service.Confirm(ctx, testMerchantID, testClaimCode, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RedemptionWrongBusiness, result.Outcome)
	suite.mockClaimRepo.AssertNotCalled(suite.T(), "RedeemClaim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RedemptionServiceTestSuite) TestAuthorizationFailurePropagates() {
	ctx := context.Background()
	suite.mockAuthorizer.On("AuthorizeMerchantAction", mock.Anything, testUserID, testMerchantID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Twice()

	_, err := suite.service.Preview(ctx, testMerchantID, testClaimCode, testUserID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.Confirm(ctx, testMerchantID, testClaimCode, testUserID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockClaimRepo.AssertNotCalled(suite.T(), "FindClaimByCode", mock.Anything, mock.Anything)
}

func TestRedemptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RedemptionServiceTestSuite))
}

package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cardperks/card_perks_app/internal/apperrors"
	"github.com/cardperks/card_perks_app/internal/core/domain"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
	"github.com/cardperks/card_perks_app/internal/core/services"
)

type DispatcherServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockMatcherSvc      *MockMatcherService
	mockLedgerSvc       *MockLedgerService
	service             portssvc.DispatcherSvcFacade
}

func (suite *DispatcherServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockMatcherSvc = new(MockMatcherService)
	suite.mockLedgerSvc = new(MockLedgerService)
	suite.service = services.NewDispatcherService(suite.mockTransactionRepo, suite.mockMatcherSvc, suite.mockLedgerSvc)
}

func unresolvedTxn(id string) domain.CardTransaction {
	return domain.CardTransaction{
		TransactionID: id,
		CustomerID:    testCustomerID,
		Amount:        1500,
		Descriptor:    "SOME SHOP",
		Resolution:    domain.Unresolved,
	}
}

func unresolvedBatch(n int) []domain.CardTransaction {
	batch := make([]domain.CardTransaction, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, unresolvedTxn(fmt.Sprintf("t-%d", i)))
	}
	return batch
}

func (suite *DispatcherServiceTestSuite) TestMatchedTransactionFlowsToLedgerAndResolves() {
	ctx := context.Background()
	txn := unresolvedTxn("t-1")
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return([]domain.CardTransaction{txn}, nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, txn).
		Return(&domain.MatchResult{MerchantID: testMerchantID, Score: 100}, nil).Once()
	suite.mockLedgerSvc.On("Apply", ctx, testCustomerID, testMerchantID, txn).Return(nil).Once()
	suite.mockTransactionRepo.On("MarkResolved", ctx, "t-1", testMerchantID, "reward-engine", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, processed)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DispatcherServiceTestSuite) TestNoMatchMarksWithoutLedger() {
	ctx := context.Background()
	txn := unresolvedTxn("t-1")
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return([]domain.CardTransaction{txn}, nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, txn).Return(nil, nil).Once()
	suite.mockTransactionRepo.On("MarkNoMatch", ctx, "t-1", "reward-engine", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, processed)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DispatcherServiceTestSuite) TestConcurrentlySettledItemCountsAsSettled() {
	// MarkResolved losing its status guard means another run already settled
	// the item; that is a no-op outcome, not a failure.
	ctx := context.Background()
	txn := unresolvedTxn("t-1")
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return([]domain.CardTransaction{txn}, nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, txn).
		Return(&domain.MatchResult{MerchantID: testMerchantID, Score: 100}, nil).Once()
	suite.mockLedgerSvc.On("Apply", ctx, testCustomerID, testMerchantID, txn).Return(nil).Once()
	suite.mockTransactionRepo.On("MarkResolved", ctx, "t-1", testMerchantID, "reward-engine", mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, processed)
}

func (suite *DispatcherServiceTestSuite) TestItemFailureIsSkippedNotFatal() {
	ctx := context.Background()
	bad := unresolvedTxn("t-bad")
	good := unresolvedTxn("t-good")
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return([]domain.CardTransaction{bad, good}, nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, bad).Return(nil, assert.AnError).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, good).
		Return(&domain.MatchResult{MerchantID: testMerchantID, Score: 100}, nil).Once()
	suite.mockLedgerSvc.On("Apply", ctx, testCustomerID, testMerchantID, good).Return(nil).Once()
	suite.mockTransactionRepo.On("MarkResolved", ctx, "t-good", testMerchantID, "reward-engine", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, processed)
	suite.mockMatcherSvc.AssertExpectations(suite.T())
}

func (suite *DispatcherServiceTestSuite) TestFullBatchTriggersAnotherPass() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return(unresolvedBatch(100), nil).Once()
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return(unresolvedBatch(1), nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, mock.Anything).Return(nil, nil)
	suite.mockTransactionRepo.On("MarkNoMatch", ctx, mock.Anything, "reward-engine", mock.AnythingOfType("time.Time")).
		Return(nil)

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(101, processed)
	suite.mockTransactionRepo.AssertNumberOfCalls(suite.T(), "ListUnresolved", 2)
}

func (suite *DispatcherServiceTestSuite) TestFullBatchWithZeroProgressStopsDraining() {
	// Every item failing in a full batch would refetch the same rows forever;
	// the drain stops and leaves the backlog for the next trigger.
	ctx := context.Background()
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).
		Return(unresolvedBatch(100), nil).Once()
	suite.mockMatcherSvc.On("MatchTransaction", ctx, mock.Anything).Return(nil, assert.AnError)

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, processed)
	suite.mockTransactionRepo.AssertNumberOfCalls(suite.T(), "ListUnresolved", 1)
}

func (suite *DispatcherServiceTestSuite) TestListFailureAbortsDrain() {
	ctx := context.Background()
	suite.mockTransactionRepo.On("ListUnresolved", ctx, 100).Return(nil, assert.AnError).Once()

	processed, err := suite.service.ProcessPending(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Equal(0, processed)
}

func TestDispatcherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherServiceTestSuite))
}

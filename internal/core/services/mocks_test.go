package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/cardperks/card_perks_app/internal/core/domain"
	portsrepo "github.com/cardperks/card_perks_app/internal/core/ports/repositories"
	portssvc "github.com/cardperks/card_perks_app/internal/core/ports/services"
)

// --- Mock CardTransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CardTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByExternalID(ctx context.Context, externalTxnID string) (*domain.CardTransaction, error) {
	args := m.Called(ctx, externalTxnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListUnresolved(ctx context.Context, limit int) ([]domain.CardTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.CardTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkResolved(ctx context.Context, transactionID string, merchantID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, transactionID, merchantID, updatedBy, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkNoMatch(ctx context.Context, transactionID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, transactionID, updatedBy, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) ResetResolution(ctx context.Context, transactionID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, transactionID, updatedBy, now)
	return args.Error(0)
}

var _ portsrepo.CardTransactionRepositoryFacade = (*MockTransactionRepository)(nil)

// --- Mock MerchantRepository ---

type MockMerchantRepository struct {
	mock.Mock
}

func (m *MockMerchantRepository) FindMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) ListVerifiedMerchants(ctx context.Context) ([]domain.Merchant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) FindMerchantUser(ctx context.Context, userID string, merchantID string) (*domain.MerchantUser, error) {
	args := m.Called(ctx, userID, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MerchantUser), args.Error(1)
}

var _ portsrepo.MerchantRepositoryFacade = (*MockMerchantRepository)(nil)

// --- Mock ProgramRepository ---

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) FindProgramByID(ctx context.Context, programID string) (*domain.RewardProgram, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardProgram), args.Error(1)
}

func (m *MockProgramRepository) ListActiveProgramsByMerchant(ctx context.Context, merchantID string) ([]domain.RewardProgram, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RewardProgram), args.Error(1)
}

var _ portsrepo.ProgramRepositoryFacade = (*MockProgramRepository)(nil)

// --- Mock ProgressRepository ---

// mockTx satisfies pgx.Tx for services that never touch the transaction
// handle directly; every call goes through the repository mock.
type mockTx struct {
	pgx.Tx
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockProgressRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProgressRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockProgressRepository) FindActiveProgress(ctx context.Context, customerID string, programID string) (*domain.RewardProgress, error) {
	args := m.Called(ctx, customerID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardProgress), args.Error(1)
}

func (m *MockProgressRepository) FindActiveProgressForUpdate(ctx context.Context, tx pgx.Tx, customerID string, programID string) (*domain.RewardProgress, error) {
	args := m.Called(ctx, tx, customerID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardProgress), args.Error(1)
}

func (m *MockProgressRepository) SaveProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error {
	args := m.Called(ctx, tx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) UpdateProgressTx(ctx context.Context, tx pgx.Tx, progress domain.RewardProgress) error {
	args := m.Called(ctx, tx, progress)
	return args.Error(0)
}

var _ portsrepo.ProgressRepositoryWithTx = (*MockProgressRepository)(nil)

// --- Mock ClaimRepository ---

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) FindClaimByCode(ctx context.Context, code string) (*domain.RewardClaim, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardClaim), args.Error(1)
}

func (m *MockClaimRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) SaveClaimTx(ctx context.Context, tx pgx.Tx, claim domain.RewardClaim) error {
	args := m.Called(ctx, tx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) RedeemClaim(ctx context.Context, claimID string, redeemedBy string, now time.Time) error {
	args := m.Called(ctx, claimID, redeemedBy, now)
	return args.Error(0)
}

var _ portsrepo.ClaimRepositoryFacade = (*MockClaimRepository)(nil)

// --- Mock APITokenRepository ---

type MockAPITokenRepository struct {
	mock.Mock
}

func (m *MockAPITokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAPITokenRepository) ListTokens(ctx context.Context) ([]domain.APIToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.APIToken), args.Error(1)
}

func (m *MockAPITokenRepository) UpdateLastUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *MockAPITokenRepository) DeleteToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

var _ portsrepo.APITokenRepository = (*MockAPITokenRepository)(nil)

// --- Mock services ---

type MockMatcherService struct {
	mock.Mock
}

func (m *MockMatcherService) MatchTransaction(ctx context.Context, txn domain.CardTransaction) (*domain.MatchResult, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

var _ portssvc.MatcherSvcFacade = (*MockMatcherService)(nil)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Apply(ctx context.Context, customerID string, merchantID string, txn domain.CardTransaction) error {
	args := m.Called(ctx, customerID, merchantID, txn)
	return args.Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type MockRewardCodeService struct {
	mock.Mock
}

func (m *MockRewardCodeService) GenerateCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ portssvc.RewardCodeSvc = (*MockRewardCodeService)(nil)

type MockMerchantAuthorizer struct {
	mock.Mock
}

func (m *MockMerchantAuthorizer) AuthorizeMerchantAction(ctx context.Context, userID string, merchantID string, requiredRole domain.MerchantUserRole) error {
	args := m.Called(ctx, userID, merchantID, requiredRole)
	return args.Error(0)
}

var _ portssvc.MerchantAuthorizerSvc = (*MockMerchantAuthorizer)(nil)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRewardEarned(ctx context.Context, notification portssvc.RewardNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

package pgsql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	"github.com/syncpay/guardianpay/internal/repositories/database/pgsql"
)

// These tests exercise the settlement transaction against a real database:
// row locking, the balance guard on debits, and all-or-nothing rollback.
// They run only when PGSQL_TEST_URL points at a disposable Postgres.
const testDBEnv = "PGSQL_TEST_URL"

const testSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id         VARCHAR(36) PRIMARY KEY,
    email           VARCHAR(255) NOT NULL UNIQUE,
    first_name      VARCHAR(100) NOT NULL,
    last_name       VARCHAR(100) NOT NULL,
    password_hash   VARCHAR(255) NOT NULL,
    role            VARCHAR(20) NOT NULL CHECK (role IN ('STUDENT', 'PARENT', 'ADMIN')),
    created_at      TIMESTAMPTZ NOT NULL,
    created_by      VARCHAR(36) NOT NULL,
    last_updated_at TIMESTAMPTZ NOT NULL,
    last_updated_by VARCHAR(36) NOT NULL
);
CREATE TABLE IF NOT EXISTS parents (
    parent_id       VARCHAR(36) PRIMARY KEY,
    user_id         VARCHAR(36) NOT NULL REFERENCES users (user_id),
    balance         NUMERIC(19, 4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    created_at      TIMESTAMPTZ NOT NULL,
    created_by      VARCHAR(36) NOT NULL,
    last_updated_at TIMESTAMPTZ NOT NULL,
    last_updated_by VARCHAR(36) NOT NULL
);
CREATE TABLE IF NOT EXISTS students (
    student_id      VARCHAR(36) PRIMARY KEY,
    user_id         VARCHAR(36) NOT NULL REFERENCES users (user_id),
    balance         NUMERIC(19, 4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
    created_at      TIMESTAMPTZ NOT NULL,
    created_by      VARCHAR(36) NOT NULL,
    last_updated_at TIMESTAMPTZ NOT NULL,
    last_updated_by VARCHAR(36) NOT NULL
);
CREATE TABLE IF NOT EXISTS parent_student (
    student_id VARCHAR(36) NOT NULL REFERENCES students (student_id),
    parent_id  VARCHAR(36) NOT NULL REFERENCES parents (parent_id),
    linked_at  TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (student_id, parent_id)
);
CREATE TABLE IF NOT EXISTS payments (
    payment_id      VARCHAR(36) PRIMARY KEY,
    parent_id       VARCHAR(36) NOT NULL,
    student_id      VARCHAR(36) NOT NULL,
    original_amount NUMERIC(19, 4) NOT NULL,
    adjusted_amount NUMERIC(19, 4) NOT NULL,
    dynamic_rate    NUMERIC(10, 5) NOT NULL,
    status          VARCHAR(10) NOT NULL CHECK (status IN ('FAILED', 'SUCCESS')),
    created_at      TIMESTAMPTZ NOT NULL,
    created_by      VARCHAR(36) NOT NULL,
    last_updated_at TIMESTAMPTZ NOT NULL,
    last_updated_by VARCHAR(36) NOT NULL
);
`

type SettlementIntegrationTestSuite struct {
	suite.Suite
	pool  *pgxpool.Pool
	repos *portsrepo.RepositoryProvider
}

func (s *SettlementIntegrationTestSuite) SetupSuite() {
	url := os.Getenv(testDBEnv)
	if url == "" {
		s.T().Skipf("%s not set, skipping database integration tests", testDBEnv)
	}

	pool, err := pgxpool.New(context.Background(), url)
	s.Require().NoError(err)
	s.Require().NoError(pool.Ping(context.Background()))
	_, err = pool.Exec(context.Background(), testSchema)
	s.Require().NoError(err)

	s.pool = pool
	s.repos = pgsql.NewRepositoryProvider(pool)
}

func (s *SettlementIntegrationTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *SettlementIntegrationTestSuite) newUser(role domain.Role) domain.User {
	id := uuid.NewString()
	return domain.User{
		UserID:       id,
		Email:        fmt.Sprintf("%s@integration.test", id),
		FirstName:    "Test",
		LastName:     string(role),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		AuditFields:  domain.NewAuditFields(id, time.Now().UTC()),
	}
}

func (s *SettlementIntegrationTestSuite) seedParent(balance string) domain.Parent {
	user := s.newUser(domain.RoleParent)
	parent := domain.Parent{
		ParentID:    uuid.NewString(),
		UserID:      user.UserID,
		Balance:     decimal.RequireFromString(balance),
		AuditFields: user.AuditFields,
	}
	s.Require().NoError(s.repos.ParentRepo.SaveParent(context.Background(), user, parent))
	return parent
}

func (s *SettlementIntegrationTestSuite) seedStudent(balance string, parentIDs ...string) domain.Student {
	user := s.newUser(domain.RoleStudent)
	student := domain.Student{
		StudentID:   uuid.NewString(),
		UserID:      user.UserID,
		Balance:     decimal.RequireFromString(balance),
		ParentIDs:   parentIDs,
		AuditFields: user.AuditFields,
	}
	s.Require().NoError(s.repos.StudentRepo.SaveStudent(context.Background(), user, student))
	return student
}

func (s *SettlementIntegrationTestSuite) seedAttempt(parentID, studentID string, original, adjusted, rate string) domain.Payment {
	payment := domain.Payment{
		PaymentID:      uuid.NewString(),
		ParentID:       parentID,
		StudentID:      studentID,
		OriginalAmount: decimal.RequireFromString(original),
		AdjustedAmount: decimal.RequireFromString(adjusted),
		DynamicRate:    decimal.RequireFromString(rate),
		Status:         domain.PaymentFailed,
		AuditFields:    domain.NewAuditFields(parentID, time.Now().UTC()),
	}
	s.Require().NoError(s.repos.PaymentRepo.SavePaymentAttempt(context.Background(), payment))
	return payment
}

func (s *SettlementIntegrationTestSuite) parentBalance(parentID string) decimal.Decimal {
	parent, err := s.repos.ParentRepo.FindParentByID(context.Background(), parentID)
	s.Require().NoError(err)
	return parent.Balance
}

// Two settlements race on one parent whose balance covers only one of them.
// Exactly one commits; the loser's transaction rolls back on the balance
// guard and the balance never goes negative.
func (s *SettlementIntegrationTestSuite) TestConcurrentSettlements_BalanceNeverNegative() {
	ctx := context.Background()
	parent := s.seedParent("500")
	studentA := s.seedStudent("0", parent.ParentID)
	studentB := s.seedStudent("0", parent.ParentID)

	paymentA := s.seedAttempt(parent.ParentID, studentA.StudentID, "400", "408", "0.02")
	paymentB := s.seedAttempt(parent.ParentID, studentB.StudentID, "400", "408", "0.02")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, payment := range []domain.Payment{paymentA, paymentB} {
		wg.Add(1)
		go func(i int, payment domain.Payment) {
			defer wg.Done()
			debits := map[string]decimal.Decimal{parent.ParentID: payment.AdjustedAmount}
			_, errs[i] = s.repos.PaymentRepo.ExecuteSettlement(ctx, payment, debits, payment.OriginalAmount)
		}(i, payment)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
			insufficient++
		}
	}
	s.Equal(1, succeeded, "exactly one settlement must win the race")
	s.Equal(1, insufficient)

	balance := s.parentBalance(parent.ParentID)
	s.True(balance.Equal(decimal.NewFromInt(92)), "got balance %s", balance)
	s.True(balance.GreaterThanOrEqual(decimal.Zero))

	// Exactly one record was promoted; the loser's stays FAILED.
	var statuses []domain.PaymentStatus
	for _, id := range []string{paymentA.PaymentID, paymentB.PaymentID} {
		got, err := s.repos.PaymentRepo.FindPaymentByID(ctx, id)
		s.Require().NoError(err)
		statuses = append(statuses, got.Status)
	}
	s.ElementsMatch([]domain.PaymentStatus{domain.PaymentSuccess, domain.PaymentFailed}, statuses)
}

// A two-parent split whose second share exceeds that parent's balance must
// roll back entirely: the combined-funds pre-check upstream passes for
// balances 450/400 against an adjusted 820 (shares 328/492), so only the
// debit guard stands between the split and an overdraw.
func (s *SettlementIntegrationTestSuite) TestSettlementOverdrawRollsBackEverything() {
	ctx := context.Background()
	initiating := s.seedParent("450")
	second := s.seedParent("400")
	student := s.seedStudent("0", initiating.ParentID, second.ParentID)

	payment := s.seedAttempt(initiating.ParentID, student.StudentID, "800", "820", "0.025")

	debits := map[string]decimal.Decimal{
		initiating.ParentID: decimal.NewFromInt(328),
		second.ParentID:     decimal.NewFromInt(492),
	}

	settled, err := s.repos.PaymentRepo.ExecuteSettlement(ctx, payment, debits, payment.OriginalAmount)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.Nil(settled)

	// Nothing moved: not even the initiating parent's covered share.
	s.True(s.parentBalance(initiating.ParentID).Equal(decimal.NewFromInt(450)))
	s.True(s.parentBalance(second.ParentID).Equal(decimal.NewFromInt(400)))

	got, err := s.repos.StudentRepo.FindStudentByID(ctx, student.StudentID)
	s.Require().NoError(err)
	s.True(got.Balance.Equal(decimal.Zero))

	record, err := s.repos.PaymentRepo.FindPaymentByID(ctx, payment.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentFailed, record.Status)
}

// A settlement naming a parent that does not exist must fail on the lock
// step before any write.
func (s *SettlementIntegrationTestSuite) TestSettlementUnknownParentFailsOnLock() {
	ctx := context.Background()
	parent := s.seedParent("1000")
	student := s.seedStudent("0", parent.ParentID)
	payment := s.seedAttempt(parent.ParentID, student.StudentID, "100", "102", "0.02")

	debits := map[string]decimal.Decimal{
		parent.ParentID:  decimal.NewFromInt(51),
		uuid.NewString(): decimal.NewFromInt(51),
	}

	_, err := s.repos.PaymentRepo.ExecuteSettlement(ctx, payment, debits, payment.OriginalAmount)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.True(s.parentBalance(parent.ParentID).Equal(decimal.NewFromInt(1000)))
}

// The happy path through the same executor: debit, credit, promote.
func (s *SettlementIntegrationTestSuite) TestSettlementCommitsAllThreeWrites() {
	ctx := context.Background()
	parent := s.seedParent("2000")
	student := s.seedStudent("0", parent.ParentID)
	payment := s.seedAttempt(parent.ParentID, student.StudentID, "500", "510", "0.02")

	debits := map[string]decimal.Decimal{parent.ParentID: decimal.NewFromInt(510)}

	settled, err := s.repos.PaymentRepo.ExecuteSettlement(ctx, payment, debits, payment.OriginalAmount)

	s.Require().NoError(err)
	s.Require().NotNil(settled)
	s.Equal(domain.PaymentSuccess, settled.Status)

	s.True(s.parentBalance(parent.ParentID).Equal(decimal.NewFromInt(1490)))

	got, err := s.repos.StudentRepo.FindStudentByID(ctx, student.StudentID)
	s.Require().NoError(err)
	s.True(got.Balance.Equal(decimal.NewFromInt(500)))

	record, err := s.repos.PaymentRepo.FindPaymentByID(ctx, payment.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentSuccess, record.Status)
}

func TestSettlementIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementIntegrationTestSuite))
}

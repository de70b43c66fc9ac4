package contact

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/akeren/portfolio-api/internal/log"
	"github.com/akeren/portfolio-api/internal/models"
	apperrors "github.com/akeren/portfolio-api/pkg/errors"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("WAT", 3600))

type failingLimiter struct{}

func (failingLimiter) GetLimitDetails() (int, time.Duration) { return 5, time.Minute }
func (failingLimiter) IsLimited(string) (bool, error)        { return false, errors.New("redis down") }
func (failingLimiter) Close() error                          { return nil }

func testLogger() *log.Logger {
	return log.NewLogger(io.Discard)
}

func newTestService(t *testing.T, limiter ratelimit.RateLimiter) (*MockMessageRepository, ContactService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := NewMockMessageRepository(ctrl)

	if limiter == nil {
		limiter = ratelimit.NewFixedWindowRateLimiter(5, 15*time.Minute)
	}

	service := NewContactService(testLogger(), mockRepo, limiter, WithNow(func() time.Time { return fixedNow }))
	return mockRepo, service
}

func TestAdmit_LimitsSixthRequestInWindow(t *testing.T) {
	_, service := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, service.Admit(ctx, "1.2.3.4"), "request %d", i+1)
	}

	err := service.Admit(ctx, "1.2.3.4")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, apperrors.StatusTooManyRequests, apperrors.HTTPStatusCode(err))
	assert.Equal(t, MessageTooManyRequests, apperrors.GetHumanReadableMessage(err, ""))

	assert.NoError(t, service.Admit(ctx, "5.6.7.8"))
}

func TestAdmit_LimiterErrorFailsOpen(t *testing.T) {
	_, service := newTestService(t, failingLimiter{})

	assert.NoError(t, service.Admit(context.Background(), "1.2.3.4"))
}

func TestAdmit_UnlimitedLimiter(t *testing.T) {
	_, service := newTestService(t, ratelimit.NewUnlimitedRateLimiter())

	for i := 0; i < 20; i++ {
		require.NoError(t, service.Admit(context.Background(), "1.2.3.4"))
	}
}

func TestSubmit_StoresNormalizedMessage(t *testing.T) {
	mockRepo, service := newTestService(t, nil)

	mockRepo.EXPECT().InsertMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg *models.ContactMessage) (string, error) {
			assert.Equal(t, "Ada", msg.Name)
			assert.Equal(t, "ada@example.com", msg.Email)
			assert.Equal(t, "Hello", msg.Message)
			assert.Equal(t, "1.2.3.4", msg.IP)
			assert.Equal(t, "curl/8.0", msg.UserAgent)
			assert.True(t, fixedNow.Equal(msg.CreatedAt))
			assert.Equal(t, time.UTC, msg.CreatedAt.Location())
			assert.False(t, msg.Read)
			return "65f2c0ffee0000000000abcd", nil
		},
	)

	resp, err := service.Submit(context.Background(), &SubmitContactRequest{
		Name:    " Ada ",
		Email:   "ADA@Example.com",
		Message: " Hello ",
	}, ClientIdentity{Identifier: "1.2.3.4", UserAgent: "curl/8.0"})

	require.NoError(t, err)
	assert.Equal(t, "65f2c0ffee0000000000abcd", resp.ID)
	assert.Equal(t, MessageSent, resp.Message)
}

func TestSubmit_InvalidRequestNeverReachesStore(t *testing.T) {
	_, service := newTestService(t, nil)

	resp, err := service.Submit(context.Background(), &SubmitContactRequest{
		Name:    "Ada",
		Email:   "nope",
		Message: "Hello",
	}, ClientIdentity{Identifier: "1.2.3.4", UserAgent: "unknown"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSubmit_StoreErrorIsInternal(t *testing.T) {
	mockRepo, service := newTestService(t, nil)
	mockRepo.EXPECT().InsertMessage(gomock.Any(), gomock.Any()).Return("", errors.New("connection reset by peer"))

	resp, err := service.Submit(context.Background(), validRequest(), ClientIdentity{Identifier: "1.2.3.4", UserAgent: "unknown"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	assert.Equal(t, MessageInternalError, apperrors.GetHumanReadableMessage(err, ""))
}

func TestSubmit_EmptyIDIsFailure(t *testing.T) {
	mockRepo, service := newTestService(t, nil)
	mockRepo.EXPECT().InsertMessage(gomock.Any(), gomock.Any()).Return("", nil)

	resp, err := service.Submit(context.Background(), validRequest(), ClientIdentity{Identifier: "1.2.3.4", UserAgent: "unknown"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrMissingInsertedID)
	assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
}

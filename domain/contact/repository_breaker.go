package contact

import (
	"context"
	"errors"

	"github.com/akeren/portfolio-api/internal/models"
	"github.com/akeren/portfolio-api/pkg/circuitbreaker"
)

// BreakerRepository fails fast while the underlying store keeps failing. Writes are
// attempted at most once.
type BreakerRepository struct {
	next    MessageRepository
	breaker circuitbreaker.CircuitBreaker
}

func NewBreakerRepository(next MessageRepository, breaker circuitbreaker.CircuitBreaker) *BreakerRepository {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}
	return &BreakerRepository{next: next, breaker: breaker}
}

func (r *BreakerRepository) InsertMessage(ctx context.Context, msg *models.ContactMessage) (string, error) {
	var id string

	err := r.breaker.Call(func() error {
		var callErr error
		id, callErr = r.next.InsertMessage(ctx, msg)
		return callErr
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return "", NewPersistenceError(err)
	}
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *BreakerRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *BreakerRepository) State() circuitbreaker.CircuitState {
	return r.breaker.State()
}

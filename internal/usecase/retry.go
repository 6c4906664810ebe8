package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/tiendaropa/internal/domain"
)

const DefaultMaxRetries = 5

var retryBackoff = 10 * time.Millisecond

// retryOnConflict reintenta fn mientras devuelva ErrConcurrencyConflict,
// con un máximo de attempts intentos y espera lineal entre ellos.
func retryOnConflict[T any](ctx context.Context, attempts int, op string, fn func() (T, error)) (T, error) {
	if attempts < 1 {
		attempts = DefaultMaxRetries
	}
	var zero T
	for attempt := 1; ; attempt++ {
		v, err := fn()
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= attempts {
			return v, err
		}
		log.Debug().Str("op", op).Int("attempt", attempt).Msg("ledger version conflict, retrying")
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
}

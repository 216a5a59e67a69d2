package reliability

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (Account, bool, error)
	// Ensure provisions a default account when the user has none yet.
	Ensure(ctx context.Context, userID string) (Account, error)
	// Mutate serializes fn against every other change to the same user's
	// account. The account is provisioned first if missing; the change is
	// discarded when fn returns an error.
	Mutate(ctx context.Context, userID string, fn func(account *Account) error) (Account, error)
}

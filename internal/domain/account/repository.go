package account

import "context"

// Repository provides the per-run directory query. Implementations own
// the connection, authentication and transport security; callers see an
// order-preserving, read-only sequence of accounts.
type Repository interface {
	// Search returns all user-class objects under the configured base DN.
	Search(ctx context.Context) ([]Account, error)
}

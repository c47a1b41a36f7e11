package admin

import (
	"context"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
)

// RPCClient delegates mutations to an external service that owns the
// write path. Implementations signal recoverable failure by returning an
// error built with RPCError; any other error propagates as an internal
// failure.
type RPCClient interface {
	// Create submits a new entity and returns its server-assigned id.
	Create(ctx context.Context, values map[string]any) (any, error)

	// Update applies values to the entity with the given id.
	Update(ctx context.Context, id any, values map[string]any) error

	// Delete removes the entity with the given id.
	Delete(ctx context.Context, id any) error
}

// RPCError builds the dedicated error the admin layer recovers from: it
// becomes a JSON {"status":{"error": …}} body instead of an HTTP error.
func RPCError(msg string, cause error) *errs.Error {
	return errs.Wrap(errs.ErrKindRPCFailed, msg, cause)
}

// RPCStrategy delegates create/update/delete to an external RPC service
// and reads rows back locally afterwards. When the RPC call fails before
// the local read, the underlying row state is untouched. Delete never
// touches the local database at all; the remote service owns the row.
type RPCStrategy struct {
	Client RPCClient

	// CoerceNumericIDs matches the Postgres read path this strategy is
	// normally paired with.
	CoerceNumericIDs bool
}

func (s *RPCStrategy) CoerceID(raw string) any {
	return (&PostgresStrategy{CoerceNumericIDs: s.CoerceNumericIDs}).CoerceID(raw)
}

func (s *RPCStrategy) Insert(ctx context.Context, db database.DB, table *database.TableInfo, pk string, values map[string]any) (map[string]any, error) {
	id, err := s.Client.Create(ctx, values)
	if err != nil {
		return nil, err
	}
	return fetchByPK(ctx, db, db.Dialect(), table, pk, id)
}

func (s *RPCStrategy) Update(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any, values map[string]any) (map[string]any, error) {
	if err := s.Client.Update(ctx, id, values); err != nil {
		return nil, err
	}
	return fetchByPK(ctx, db, db.Dialect(), table, pk, id)
}

func (s *RPCStrategy) Delete(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any) error {
	return s.Client.Delete(ctx, id)
}

package store

import (
	"context"

	"github.com/permissionhub/server/internal/model"
)

// Store exposes the persistence operations required by services.
// Implementations live under internal/store/<driver>/ (memory, sqlite, postgres).
type Store interface {
	Permissions() Permissions
	Requests() Requests
}

// Permissions manages granted permission records. Create assigns the next
// sequential id, stamps CreatedAt and zeroes CallsUsed. Get/Update return
// model.ErrNotFound when the id is absent; Delete reports whether the record
// existed. Update applies a shallow patch and never resurrects a deleted row.
type Permissions interface {
	Create(ctx context.Context, p *model.Permission) (*model.Permission, error)
	Get(ctx context.Context, id int) (*model.Permission, error)
	List(ctx context.Context, userID int) ([]*model.Permission, error)
	Update(ctx context.Context, id int, patch model.PermissionPatch) (*model.Permission, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// Requests manages pending permission requests. Requests have no update
// operation: they are created, then either approved or denied, both of which
// end in deletion.
type Requests interface {
	Create(ctx context.Context, r *model.PermissionRequest) (*model.PermissionRequest, error)
	Get(ctx context.Context, id int) (*model.PermissionRequest, error)
	List(ctx context.Context, userID int) ([]*model.PermissionRequest, error)
	Delete(ctx context.Context, id int) (bool, error)
}

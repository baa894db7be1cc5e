package interfaces

import (
	"context"

	"motostore/internal/domain/entities"
)

// IUserRepository resolves buyers. A zero-value User with a nil error means not found.
type IUserRepository interface {
	GetByID(ctx context.Context, id string) (entities.User, error)
	GetByEmail(ctx context.Context, email string) (entities.User, error)
}

// IVariantRepository loads variants together with their parent product.
// Unknown ids are omitted from the result.
type IVariantRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]entities.Variant, error)
}

package ports

import (
	"context"

	"github.com/H0sin/mikroman/internal/domain"
)

// Gateway is the resource-access surface of a User Manager instance. Create
// calls are not idempotent on the router side: callers are expected to list
// first and classify duplicate failures themselves. Every method returns a
// *domain.RemoteError for non-2xx responses and transport failures.
type Gateway interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, name string) (domain.User, error)
	PutUser(ctx context.Context, user domain.User) error
	PatchUser(ctx context.Context, name string, fields map[string]string) error
	DeleteUser(ctx context.Context, name string) error

	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	CreateProfile(ctx context.Context, profile domain.Profile) error

	ListLimitations(ctx context.Context) ([]domain.Limitation, error)
	CreateLimitation(ctx context.Context, limitation domain.Limitation) error

	ListProfileLimitations(ctx context.Context) ([]domain.ProfileLimitation, error)
	CreateProfileLimitation(ctx context.Context, link domain.ProfileLimitation) error
	DeleteProfileLimitation(ctx context.Context, id string) error

	ListUserProfiles(ctx context.Context) ([]domain.UserProfile, error)
	CreateUserProfile(ctx context.Context, link domain.UserProfile) error
	DeleteUserProfile(ctx context.Context, id string) error
}

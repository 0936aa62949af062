package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/H0sin/mikroman/internal/domain"
	"github.com/H0sin/mikroman/internal/ports"
)

// QueryService reads the router state for display. Nothing here caches:
// every call re-lists the remote collections.
type QueryService struct {
	gateway ports.Gateway
}

func NewQueryService(gateway ports.Gateway) *QueryService {
	return &QueryService{gateway: gateway}
}

func (s *QueryService) GetUserStatus(ctx context.Context, name string) (UserStatus, error) {
	user, err := s.gateway.GetUser(ctx, name)
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			return UserStatus{}, domain.ErrUserNotFound
		}
		return UserStatus{}, fmt.Errorf("get user %q: %w", name, err)
	}

	links, err := s.gateway.ListUserProfiles(ctx)
	if err != nil {
		return UserStatus{}, fmt.Errorf("list user-profile links: %w", err)
	}

	return statusFromUser(user, links), nil
}

func (s *QueryService) ListUserStatuses(ctx context.Context) ([]UserStatus, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	links, err := s.gateway.ListUserProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user-profile links: %w", err)
	}

	statuses := make([]UserStatus, 0, len(users))
	for _, user := range users {
		statuses = append(statuses, statusFromUser(user, links))
	}

	return statuses, nil
}

func (s *QueryService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.gateway.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (s *QueryService) ListLimitations(ctx context.Context) ([]domain.Limitation, error) {
	limitations, err := s.gateway.ListLimitations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list limitations: %w", err)
	}
	return limitations, nil
}

func statusFromUser(user domain.User, links []domain.UserProfile) UserStatus {
	status := UserStatus{
		User:       user,
		Attributes: domain.ParseAttributes(user.Attributes),
	}

	for _, link := range links {
		if !strings.EqualFold(link.User, user.Name) {
			continue
		}
		status.Plans = append(status.Plans, PlanLink{
			Profile: link.Profile,
			State:   link.State,
			EndTime: link.EndTime,
		})
	}

	return status
}

package rest

import (
	"context"
	"net/http"

	"github.com/H0sin/mikroman/internal/domain"
	"github.com/H0sin/mikroman/internal/ports"
)

const (
	userPath              = "/rest/user-manager/user"
	profilePath           = "/rest/user-manager/profile"
	limitationPath        = "/rest/user-manager/limitation"
	profileLimitationPath = "/rest/user-manager/profile-limitation"
	userProfilePath       = "/rest/user-manager/user-profile"
)

var _ ports.Gateway = (*Client)(nil)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := c.listRecords(ctx, userPath)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		var user domain.User
		if err := decodeRecord(row, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, name string) (domain.User, error) {
	var row map[string]string
	if err := c.do(ctx, http.MethodGet, userPath+"/"+name, nil, &row); err != nil {
		return domain.User{}, err
	}

	var user domain.User
	if err := decodeRecord(row, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// PutUser creates or fully replaces the named account.
func (c *Client) PutUser(ctx context.Context, user domain.User) error {
	return c.do(ctx, http.MethodPut, userPath+"/"+user.Name, encodeRecord(user), nil)
}

func (c *Client) PatchUser(ctx context.Context, name string, fields map[string]string) error {
	return c.do(ctx, http.MethodPatch, userPath+"/"+name, fields, nil)
}

func (c *Client) DeleteUser(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, userPath+"/"+name, nil, nil)
}

func (c *Client) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := c.listRecords(ctx, profilePath)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(rows))
	for _, row := range rows {
		var profile domain.Profile
		if err := decodeRecord(row, &profile); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (c *Client) CreateProfile(ctx context.Context, profile domain.Profile) error {
	return c.do(ctx, http.MethodPut, profilePath, encodeRecord(profile), nil)
}

func (c *Client) ListLimitations(ctx context.Context) ([]domain.Limitation, error) {
	rows, err := c.listRecords(ctx, limitationPath)
	if err != nil {
		return nil, err
	}

	limitations := make([]domain.Limitation, 0, len(rows))
	for _, row := range rows {
		var limitation domain.Limitation
		if err := decodeRecord(row, &limitation); err != nil {
			return nil, err
		}
		limitations = append(limitations, limitation)
	}
	return limitations, nil
}

func (c *Client) CreateLimitation(ctx context.Context, limitation domain.Limitation) error {
	return c.do(ctx, http.MethodPut, limitationPath, encodeRecord(limitation), nil)
}

func (c *Client) ListProfileLimitations(ctx context.Context) ([]domain.ProfileLimitation, error) {
	rows, err := c.listRecords(ctx, profileLimitationPath)
	if err != nil {
		return nil, err
	}

	links := make([]domain.ProfileLimitation, 0, len(rows))
	for _, row := range rows {
		var link domain.ProfileLimitation
		if err := decodeRecord(row, &link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func (c *Client) CreateProfileLimitation(ctx context.Context, link domain.ProfileLimitation) error {
	return c.do(ctx, http.MethodPut, profileLimitationPath, encodeRecord(link), nil)
}

func (c *Client) DeleteProfileLimitation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, profileLimitationPath+"/"+id, nil, nil)
}

func (c *Client) ListUserProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := c.listRecords(ctx, userProfilePath)
	if err != nil {
		return nil, err
	}

	links := make([]domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		var link domain.UserProfile
		if err := decodeRecord(row, &link); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func (c *Client) CreateUserProfile(ctx context.Context, link domain.UserProfile) error {
	return c.do(ctx, http.MethodPut, userProfilePath, encodeRecord(link), nil)
}

func (c *Client) DeleteUserProfile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, userProfilePath+"/"+id, nil, nil)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/H0sin/mikroman/internal/domain"
	"github.com/H0sin/mikroman/internal/ports"
)

const defaultGroup = "default"

// Wording the router uses when a create collides with an existing row.
var duplicateFragments = []string{"exist", "already", "duplicate"}

// Wording tolerated when a best-effort renew deletes links.
var absentFragments = []string{"not found", "no such", "exist", "already", "duplicate", "internal server error"}

// ProvisionService reconciles a desired plan against the router's current
// state. The router's create endpoints are not idempotent, so every step
// lists first, creates only what's missing, and treats a duplicate-wording
// failure as a benign race with a concurrent provisioner.
type ProvisionService struct {
	gateway ports.Gateway
}

func NewProvisionService(gateway ports.Gateway) *ProvisionService {
	return &ProvisionService{gateway: gateway}
}

// ApplyPlan provisions the account and its plan resources in a fixed
// sequence: upsert user, overwrite attributes, then ensure the profile, the
// limitation, the profile-limitation link, and finally the user-profile
// link. The first two steps fail fatally on any gateway error; the ensure
// steps tolerate duplicate races. Cancellation is honored at the start of
// each step and aborts the remainder without rolling back completed steps.
func (s *ProvisionService) ApplyPlan(ctx context.Context, cmd ApplyPlanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := s.upsertUser(ctx, cmd); err != nil {
		return err
	}
	if err := s.overwriteAttributes(ctx, cmd); err != nil {
		return err
	}

	names := domain.DerivePlanNames(cmd.Days, cmd.CapGiB, cmd.Seats, cmd.Start)

	if err := s.ensureProfile(ctx, names.Profile, cmd); err != nil {
		return err
	}
	if names.Limitation != "" {
		if err := s.ensureLimitation(ctx, names.Limitation, cmd.CapGiB); err != nil {
			return err
		}
		if err := s.ensureProfileLimitation(ctx, names.Profile, names.Limitation); err != nil {
			return err
		}
	}

	return s.ensureUserProfile(ctx, cmd.Username, names.Profile)
}

// RenewPlan removes every user-profile link the account holds, then applies
// the plan again. Any delete failure is fatal.
func (s *ProvisionService) RenewPlan(ctx context.Context, cmd ApplyPlanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := s.unlinkUserProfiles(ctx, cmd.Username, false); err != nil {
		return err
	}

	return s.ApplyPlan(ctx, cmd)
}

// RenewPlanBestEffort tolerates link deletions that fail because the row is
// already gone or the router hiccups, and proceeds to apply regardless.
func (s *ProvisionService) RenewPlanBestEffort(ctx context.Context, cmd ApplyPlanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := s.unlinkUserProfiles(ctx, cmd.Username, true); err != nil {
		return err
	}

	return s.ApplyPlan(ctx, cmd)
}

// SetUserDisabled flips the account's disabled flag without touching
// anything else on the record.
func (s *ProvisionService) SetUserDisabled(ctx context.Context, name string, disabled bool) error {
	flag := "no"
	if disabled {
		flag = "yes"
	}

	if err := s.gateway.PatchUser(ctx, name, map[string]string{"disabled": flag}); err != nil {
		return fmt.Errorf("set user %q disabled=%s: %w", name, flag, err)
	}
	return nil
}

func (s *ProvisionService) RemoveUser(ctx context.Context, name string) error {
	if err := s.gateway.DeleteUser(ctx, name); err != nil {
		return fmt.Errorf("delete user %q: %w", name, err)
	}
	return nil
}

func (s *ProvisionService) upsertUser(ctx context.Context, cmd ApplyPlanCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	user := domain.User{
		Name:        cmd.Username,
		Password:    cmd.Password,
		Group:       defaultGroup,
		SharedUsers: cmd.Seats,
	}
	if err := s.gateway.PutUser(ctx, user); err != nil {
		return fmt.Errorf("upsert user %q: %w", cmd.Username, err)
	}

	log.Debugf("upserted user %s", cmd.Username)
	return nil
}

func (s *ProvisionService) overwriteAttributes(ctx context.Context, cmd ApplyPlanCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attrs := domain.Attributes{RateLimit: cmd.RateLimit, StaticIP: cmd.StaticIP}
	// An all-empty encode still goes out: it clears whatever blob the
	// router had stored for the account.
	if err := s.gateway.PatchUser(ctx, cmd.Username, map[string]string{"attributes": attrs.Encode()}); err != nil {
		return fmt.Errorf("overwrite attributes for user %q: %w", cmd.Username, err)
	}
	return nil
}

func (s *ProvisionService) ensureProfile(ctx context.Context, name string, cmd ApplyPlanCommand) error {
	exists := func(ctx context.Context) (bool, error) {
		profiles, err := s.gateway.ListProfiles(ctx)
		if err != nil {
			return false, err
		}
		for _, profile := range profiles {
			if strings.EqualFold(profile.Name, name) {
				return true, nil
			}
		}
		return false, nil
	}

	create := func(ctx context.Context) error {
		return s.gateway.CreateProfile(ctx, domain.Profile{
			Name:       name,
			Validity:   domain.Validity(cmd.Days),
			StartsWhen: cmd.Start.WireValue(),
		})
	}

	return s.ensurePresent(ctx, "profile", name, exists, create)
}

func (s *ProvisionService) ensureLimitation(ctx context.Context, name string, capGiB int) error {
	exists := func(ctx context.Context) (bool, error) {
		limitations, err := s.gateway.ListLimitations(ctx)
		if err != nil {
			return false, err
		}
		for _, limitation := range limitations {
			if strings.EqualFold(limitation.Name, name) {
				return true, nil
			}
		}
		return false, nil
	}

	create := func(ctx context.Context) error {
		return s.gateway.CreateLimitation(ctx, domain.Limitation{
			Name:          name,
			TransferLimit: domain.TransferLimit(capGiB),
		})
	}

	return s.ensurePresent(ctx, "limitation", name, exists, create)
}

func (s *ProvisionService) ensureProfileLimitation(ctx context.Context, profile, limitation string) error {
	exists := func(ctx context.Context) (bool, error) {
		links, err := s.gateway.ListProfileLimitations(ctx)
		if err != nil {
			return false, err
		}
		// Pre-existing duplicates are left exactly as found.
		for _, link := range links {
			if strings.EqualFold(link.Profile, profile) && strings.EqualFold(link.Limitation, limitation) {
				return true, nil
			}
		}
		return false, nil
	}

	create := func(ctx context.Context) error {
		return s.gateway.CreateProfileLimitation(ctx, domain.ProfileLimitation{
			Profile:    profile,
			Limitation: limitation,
		})
	}

	return s.ensurePresent(ctx, "profile-limitation link", profile+"/"+limitation, exists, create)
}

func (s *ProvisionService) ensureUserProfile(ctx context.Context, user, profile string) error {
	exists := func(ctx context.Context) (bool, error) {
		links, err := s.gateway.ListUserProfiles(ctx)
		if err != nil {
			return false, err
		}
		for _, link := range links {
			if strings.EqualFold(link.User, user) && strings.EqualFold(link.Profile, profile) {
				return true, nil
			}
		}
		return false, nil
	}

	create := func(ctx context.Context) error {
		return s.gateway.CreateUserProfile(ctx, domain.UserProfile{
			User:    user,
			Profile: profile,
		})
	}

	return s.ensurePresent(ctx, "user-profile link", user+"/"+profile, exists, create)
}

// ensurePresent is the one reconciliation primitive: list the current state,
// skip the create when a match already exists, otherwise create and swallow
// a duplicate-wording failure as someone else winning the race.
func (s *ProvisionService) ensurePresent(ctx context.Context, kind, name string, exists func(context.Context) (bool, error), create func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	found, err := exists(ctx)
	if err != nil {
		return fmt.Errorf("find %s %q: %w", kind, name, err)
	}
	if found {
		log.Debugf("%s %s already present, skipping create", kind, name)
		return nil
	}

	if err := create(ctx); err != nil {
		if tolerableDuplicate(err) {
			log.Debugf("%s %s was created concurrently, treating as success", kind, name)
			return nil
		}
		return fmt.Errorf("create %s %q: %w", kind, name, err)
	}

	log.Debugf("created %s %s", kind, name)
	return nil
}

func (s *ProvisionService) unlinkUserProfiles(ctx context.Context, username string, bestEffort bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	links, err := s.gateway.ListUserProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list user-profile links: %w", err)
	}

	for _, link := range links {
		if !strings.EqualFold(link.User, username) {
			continue
		}

		if err := s.gateway.DeleteUserProfile(ctx, link.ID); err != nil {
			if bestEffort && tolerableAbsent(err) {
				log.Debugf("skipping user-profile link %s: %v", link.ID, err)
				continue
			}
			return fmt.Errorf("delete user-profile link %s: %w", link.ID, err)
		}

		log.Debugf("deleted user-profile link %s of %s", link.ID, username)
	}

	return nil
}

func tolerableDuplicate(err error) bool {
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.HasStatus(http.StatusBadRequest, http.StatusConflict) &&
		remote.BodyContainsAny(duplicateFragments...)
}

func tolerableAbsent(err error) bool {
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.HasStatus(http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError) &&
		remote.BodyContainsAny(absentFragments...)
}

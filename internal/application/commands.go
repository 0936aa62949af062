package application

import (
	"errors"
	"fmt"

	"github.com/H0sin/mikroman/internal/domain"
)

var ErrUsernameRequired = errors.New("username is required")

// ApplyPlanCommand carries everything needed to provision one plan for one
// account. Zero Days or Seats mean unlimited; zero CapGiB means no transfer
// cap at all.
type ApplyPlanCommand struct {
	Username  string
	Password  string
	Days      int
	CapGiB    int
	Seats     int
	Start     domain.StartPolicy
	RateLimit string
	StaticIP  string
}

func (c ApplyPlanCommand) Validate() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if !c.Start.Valid() {
		return fmt.Errorf("unsupported start policy %q", c.Start)
	}
	return nil
}

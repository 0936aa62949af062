package domain

import (
	"fmt"
	"strconv"
)

// StartPolicy controls when a provisioned plan's validity window starts.
type StartPolicy string

const (
	// StartAssigned starts the window as soon as the profile is linked to
	// the user.
	StartAssigned StartPolicy = "assigned"
	// StartDeferred keeps the plan on hold until the user first
	// authenticates.
	StartDeferred StartPolicy = "deferred"
)

func (p StartPolicy) Valid() bool {
	switch p {
	case StartAssigned, StartDeferred:
		return true
	default:
		return false
	}
}

// WireValue maps the policy to the profile starts-when value the router
// understands.
func (p StartPolicy) WireValue() string {
	if p == StartDeferred {
		return "first-auth"
	}
	return "assigned"
}

// PlanNames are the canonical resource names for one parameter combination.
// Names are the sole identity mechanism: the same parameters always resolve
// to the same profile and limitation, which is what makes provisioning
// re-runnable without duplicating resources.
type PlanNames struct {
	Profile    string
	Limitation string // empty for unlimited plans
}

// DerivePlanNames computes the profile and limitation names for a plan.
// Zero or negative days means unlimited duration, zero or negative seats
// means unlimited sharing, and a zero cap means no limitation resource is
// involved at all. The limitation name carries no seat or state tag so plans
// differing only in those share one transfer cap.
func DerivePlanNames(days, capGiB, seats int, start StartPolicy) PlanNames {
	duration := "INF"
	if days > 0 {
		duration = strconv.Itoa(days) + "D"
	}

	shared := "INFU"
	if seats > 0 {
		shared = strconv.Itoa(seats) + "U"
	}

	state := "active"
	if start == StartDeferred {
		state = "onhold"
	}

	if capGiB == 0 {
		return PlanNames{Profile: fmt.Sprintf("UL-%s-%s-%s", duration, shared, state)}
	}

	return PlanNames{
		Profile:    fmt.Sprintf("%dGB-%s-%s-%s", capGiB, duration, shared, state),
		Limitation: fmt.Sprintf("%dGB-%s", capGiB, duration),
	}
}

const bytesPerGiB = int64(1) << 30

// TransferLimit renders the byte ceiling of a capGiB-sized plan in the
// "{bytes}B" form the limitation resource expects. The cap is flat for the
// plan's whole lifetime; it is not multiplied out per 30-day billing period.
func TransferLimit(capGiB int) string {
	return strconv.FormatInt(int64(capGiB)*bytesPerGiB, 10) + "B"
}

// Validity renders the profile validity window, empty for unlimited plans.
func Validity(days int) string {
	if days <= 0 {
		return ""
	}
	return strconv.Itoa(days) + "d"
}

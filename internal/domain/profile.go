package domain

// Profile is a named reusable plan bundle: a validity window plus the policy
// for when that window starts ticking.
type Profile struct {
	ID         string
	Name       string
	Validity   string
	StartsWhen string
}

// Limitation is a named transfer-byte ceiling, shared across every profile
// that links to it.
type Limitation struct {
	ID            string
	Name          string
	TransferLimit string
}

// ProfileLimitation links a profile to a limitation. Duplicate rows can
// exist on the router; provisioning only ever asks whether at least one row
// matches and leaves the rest alone.
type ProfileLimitation struct {
	ID         string
	Profile    string
	Limitation string
}

// UserProfile links a user to a profile. State and EndTime are reported by
// the router once the plan is running.
type UserProfile struct {
	ID      string
	User    string
	Profile string
	State   string
	EndTime string
}

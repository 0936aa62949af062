package domain

// PlanPreset is a named bundle of plan parameters kept on the operator's
// machine, so common offerings don't have to be retyped flag by flag.
type PlanPreset struct {
	Name      string
	Days      int
	CapGiB    int
	Seats     int
	Start     StartPolicy
	RateLimit string
	StaticIP  string
}

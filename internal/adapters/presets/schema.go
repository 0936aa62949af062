package presets

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Presets []presetSchema `toml:"presets"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported presets schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type presetSchema struct {
	Name      string `toml:"name"`
	Days      int    `toml:"days"`
	CapGiB    int    `toml:"cap_gib"`
	Seats     int    `toml:"seats"`
	Start     string `toml:"start,omitempty"`
	RateLimit string `toml:"rate_limit,omitempty"`
	StaticIP  string `toml:"static_ip,omitempty"`
}

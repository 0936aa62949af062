package presets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/H0sin/mikroman/internal/domain"
	"github.com/H0sin/mikroman/internal/ports"
)

const (
	configName        = "config"
	configType        = "toml"
	presetsPathKey    = "presets.path"
	presetsFileMode   = 0o600
	presetsDirMode    = 0o700
	presetsConfigDir  = ".mikroman"
	presetsConfigFile = "presets.toml"
	tempFilePattern   = ".presets-*.toml.tmp"
)

type Repository struct {
	presetsPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.PresetRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, presetsConfigDir, presetsConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, presetsConfigDir))
	cfg.SetDefault(presetsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	presetsPath := cfg.GetString(presetsPathKey)
	if presetsPath == "" {
		return nil, errors.New("presets path is empty")
	}
	presetsPath, err = normalizePresetsPath(presetsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{presetsPath: presetsPath, mu: lockForPath(presetsPath)}, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.PlanPreset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	presets := make([]domain.PlanPreset, 0, len(file.Presets))
	for _, entry := range file.Presets {
		presets = append(presets, fromSchema(entry))
	}

	return presets, nil
}

func (r *Repository) Get(ctx context.Context, name string) (domain.PlanPreset, error) {
	if err := ctx.Err(); err != nil {
		return domain.PlanPreset{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.PlanPreset{}, err
	}

	for _, entry := range file.Presets {
		if strings.EqualFold(entry.Name, name) {
			return fromSchema(entry), nil
		}
	}

	return domain.PlanPreset{}, domain.ErrPresetNotFound
}

func (r *Repository) Save(ctx context.Context, preset domain.PlanPreset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(preset.Name) == "" {
		return errors.New("preset name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(preset)
	updated := false
	for i := range file.Presets {
		if strings.EqualFold(file.Presets[i].Name, encoded.Name) {
			file.Presets[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Presets = append(file.Presets, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Presets[:0]
	removed := false
	for _, entry := range file.Presets {
		if strings.EqualFold(entry.Name, name) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}

	if !removed {
		return domain.ErrPresetNotFound
	}
	file.Presets = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.presetsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read presets file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode presets file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.presetsPath), presetsDirMode); err != nil {
		return fmt.Errorf("create presets directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode presets file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.presetsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp presets file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp presets file: %w", err)
	}

	if err := tempFile.Chmod(presetsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp presets file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp presets file: %w", err)
	}

	if err := os.Rename(tempName, r.presetsPath); err != nil {
		return fmt.Errorf("replace presets file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.presetsPath, presetsFileMode); err != nil {
		return fmt.Errorf("chmod presets file: %w", err)
	}

	return nil
}

func normalizePresetsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve presets path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(preset domain.PlanPreset) presetSchema {
	return presetSchema{
		Name:      preset.Name,
		Days:      preset.Days,
		CapGiB:    preset.CapGiB,
		Seats:     preset.Seats,
		Start:     string(preset.Start),
		RateLimit: preset.RateLimit,
		StaticIP:  preset.StaticIP,
	}
}

func fromSchema(preset presetSchema) domain.PlanPreset {
	start := domain.StartPolicy(preset.Start)
	if !start.Valid() {
		start = domain.StartAssigned
	}

	return domain.PlanPreset{
		Name:      preset.Name,
		Days:      preset.Days,
		CapGiB:    preset.CapGiB,
		Seats:     preset.Seats,
		Start:     start,
		RateLimit: preset.RateLimit,
		StaticIP:  preset.StaticIP,
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	presetsrepo "github.com/H0sin/mikroman/internal/adapters/presets"
	"github.com/H0sin/mikroman/internal/adapters/render/userstatus"
	"github.com/H0sin/mikroman/internal/adapters/rest"
	"github.com/H0sin/mikroman/internal/adapters/secrets"
	"github.com/H0sin/mikroman/internal/application"
	"github.com/H0sin/mikroman/internal/ports"
)

const (
	configDirName     = ".mikroman"
	routerPasswordKey = "mikroman/router/password"
)

type app struct {
	provision      *application.ProvisionService
	query          *application.QueryService
	presets        ports.PresetRepository
	secretStore    ports.SecretStore
	statusRenderer func([]application.UserStatus, userstatus.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, configDirName)

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(configDir)
	cfg.SetEnvPrefix("MIKROMAN")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("router.base_url", "https://192.168.88.1")
	cfg.SetDefault("router.username", "admin")
	cfg.SetDefault("router.timeout", "30s")
	cfg.SetDefault("router.insecure", false)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	secretStore, err := secrets.NewPassFirstWithFileFallback(filepath.Join(configDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	password := cfg.GetString("router.password")
	if password == "" {
		// Commands that never touch the router still work without a stored
		// credential; the REST client fails with 401 otherwise.
		if stored, storeErr := secretStore.Get(context.Background(), routerPasswordKey); storeErr == nil {
			password = stored
		}
	}

	client, err := rest.NewClient(rest.Config{
		BaseURL:  cfg.GetString("router.base_url"),
		Username: cfg.GetString("router.username"),
		Password: password,
		Insecure: cfg.GetBool("router.insecure"),
		Timeout:  cfg.GetDuration("router.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire router client: %w", err)
	}

	presetRepo, err := presetsrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire preset repository: %w", err)
	}

	return &app{
		provision:      application.NewProvisionService(client),
		query:          application.NewQueryService(client),
		presets:        presetRepo,
		secretStore:    secretStore,
		statusRenderer: userstatus.Render,
	}, nil
}

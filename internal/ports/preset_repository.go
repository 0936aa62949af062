package ports

import (
	"context"

	"github.com/H0sin/mikroman/internal/domain"
)

type PresetRepository interface {
	List(ctx context.Context) ([]domain.PlanPreset, error)
	Get(ctx context.Context, name string) (domain.PlanPreset, error)
	Save(ctx context.Context, preset domain.PlanPreset) error
	Remove(ctx context.Context, name string) error
}

package usecases

import (
	"context"
	"fmt"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
)

// LoadDefinitionsUseCase loads definitions from a repository and registers them.
type LoadDefinitionsUseCase struct {
	repo     scenario.Repository
	register *RegisterScenariosUseCase
	logger   ports.Logger
}

// NewLoadDefinitionsUseCase creates a new use case.
func NewLoadDefinitionsUseCase(repo scenario.Repository, register *RegisterScenariosUseCase, logger ports.Logger) *LoadDefinitionsUseCase {
	return &LoadDefinitionsUseCase{
		repo:     repo,
		register: register,
		logger:   logger,
	}
}

// Execute loads every definition and registers them against the fixture root.
// It returns the loaded definitions along with any registration errors.
func (uc *LoadDefinitionsUseCase) Execute(ctx context.Context, root string) ([]scenario.Named, error) {
	defs, err := uc.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}

	uc.logger.Info("loaded definitions from repository", "count", len(defs))

	return defs, uc.register.Execute(root, defs)
}

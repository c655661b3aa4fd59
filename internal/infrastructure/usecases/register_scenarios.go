package usecases

import (
	"errors"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
	"github.com/sophialabs/vhttp/internal/infrastructure/ports"
	"github.com/sophialabs/vhttp/internal/infrastructure/services"
)

// ScenarioCompiler compiles one scenario definition against a fixture root.
type ScenarioCompiler interface {
	Compile(root, name string, def scenario.Definition) (*scenario.Compiled, error)
}

// RegisterScenariosUseCase compiles definitions into the scenario store.
type RegisterScenariosUseCase struct {
	compiler ScenarioCompiler
	store    *services.ScenarioStore
	logger   ports.Logger
}

// NewRegisterScenariosUseCase creates a new use case.
func NewRegisterScenariosUseCase(compiler ScenarioCompiler, store *services.ScenarioStore, logger ports.Logger) *RegisterScenariosUseCase {
	return &RegisterScenariosUseCase{
		compiler: compiler,
		store:    store,
		logger:   logger,
	}
}

// Execute compiles and stores each definition in order. Names already in
// the store are skipped, so the first registration wins. Scenarios that
// fail to compile are not stored; their errors are joined and returned
// after the remaining definitions have been registered.
func (uc *RegisterScenariosUseCase) Execute(root string, defs []scenario.Named) error {
	var errs []error
	registered := 0

	for _, n := range defs {
		if uc.store.Has(n.Name) {
			uc.logger.Debug("scenario already registered", "scenario", n.Name)
			continue
		}

		compiled, err := uc.compiler.Compile(root, n.Name, n.Definition)
		if err != nil {
			uc.logger.Warn("failed to compile scenario", "scenario", n.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		if uc.store.Add(compiled) {
			registered++
			uc.logger.Debug("compiled scenario", "scenario", n.Name, "calls", len(compiled.Calls))
		}
	}

	if len(errs) > 0 {
		uc.logger.Warn("some scenarios failed to compile", "errors", len(errs))
	}
	uc.logger.Info("registered scenarios", "count", registered, "total", uc.store.Len())

	return errors.Join(errs...)
}

package engine

import (
	"context"
	"time"

	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/kvstore"
	"go.uber.org/dig"

	"github.com/covenantlabs/covenant/covenant"
	"github.com/covenantlabs/covenant/covenant/compiler"
	"github.com/covenantlabs/covenant/covenant/executor"
	"github.com/covenantlabs/covenant/covenant/state"
	"github.com/covenantlabs/covenant/covenant/verifier"
	"github.com/covenantlabs/covenant/daemon"
)

func init() {
	Component = &app.Component{
		Name:      "Engine",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Provide:   provide,
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	Metrics   *covenant.EngineMetrics
	Contracts *covenant.Registry
	States    *state.Registry
	Compiler  *compiler.Compiler
	Verifier  *verifier.Verifier
	Executor  *executor.Executor
}

func provide(c *dig.Container) error {
	if err := c.Provide(func() *covenant.EngineMetrics {
		return &covenant.EngineMetrics{}
	}); err != nil {
		return err
	}

	if err := c.Provide(func(store kvstore.KVStore) (*covenant.Registry, error) {
		return covenant.NewRegistry(store)
	}); err != nil {
		return err
	}

	if err := c.Provide(func(store kvstore.KVStore) (*state.Registry, error) {
		stateStore, err := state.NewStore(store)
		if err != nil {
			return nil, err
		}
		return state.NewRegistry(stateStore), nil
	}); err != nil {
		return err
	}

	if err := c.Provide(func(metrics *covenant.EngineMetrics) *compiler.Compiler {
		return compiler.New(Component.App().NewLogger("Compiler"), metrics)
	}); err != nil {
		return err
	}

	if err := c.Provide(func(metrics *covenant.EngineMetrics) *verifier.Verifier {
		return verifier.New(Component.App().NewLogger("Verifier"), metrics)
	}); err != nil {
		return err
	}

	return c.Provide(func(contracts *covenant.Registry, states *state.Registry, metrics *covenant.EngineMetrics) *executor.Executor {
		return executor.New(Component.App().NewLogger("Executor"), contracts, states, gasCosts(), metrics)
	})
}

// gasCosts builds the executor cost table from the component parameters.
func gasCosts() executor.Costs {
	return executor.Costs{
		Base:             ParamsEngine.BaseGasCost,
		StorageWrite:     ParamsEngine.StorageWriteGasCost,
		StorageRead:      ParamsEngine.StorageReadGasCost,
		Computation:      ParamsEngine.ComputationGasCost,
		Log:              ParamsEngine.LogGasCost,
		MaxGasLimit:      ParamsEngine.MaxGasLimit,
		MaxExecutionTime: ParamsEngine.MaxExecutionTime,
	}
}

func configure() error {
	info := deps.Compiler.CompilerInfo()
	Component.LogInfof("contract engine configured: compiler %s, verifier %s", info.Version, verifier.Version)

	deps.Executor.Events().Executed.Hook(func(result *executor.Result) {
		Component.LogDebugf("execution %s: status=%s gasUsed=%d", result.ExecutionID, result.Status, result.GasUsed)
	})

	return nil
}

func run() error {
	return Component.Daemon().BackgroundWorker("Engine statistics", func(ctx context.Context) {
		ticker := time.NewTicker(ParamsEngine.StatisticsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := deps.Executor.Statistics()
				if stats.TotalExecutions == 0 {
					continue
				}
				Component.LogInfof("executions=%d failed=%d outOfGas=%d avgGas=%d",
					stats.TotalExecutions, stats.FailedExecutions, stats.OutOfGasExecutions, stats.AverageGasPerExecution)
			}
		}
	}, daemon.PriorityEngine)
}

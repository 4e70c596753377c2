package engine

import (
	"context"

	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/pkg/daemon"
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/collection-pricing/pkg/storage/permanent"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
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

	Storage       *storage.Storage
	Engine        *engine.Engine
	EventRetainer *eventretainer.EventRetainer
}

func provide(c *dig.Container) error {
	if err := c.Provide(func() (*storage.Storage, error) {
		return storage.Create(
			Component.Logger,
			ParamsDatabase.Path,
			storage.DatabaseVersion,
			func(err error) {
				Component.LogErrorf("storage error: %s", err)
			},
			storage.WithDBEngine(db.Engine(ParamsDatabase.Engine)),
			storage.WithAllowedDBEngines([]db.Engine{db.EngineRocksDB, db.EngineMapDB}),
			storage.WithPermanentOptions(permanent.WithAccountCacheSize(ParamsDatabase.AccountCacheSize)),
		)
	}); err != nil {
		return err
	}

	if err := c.Provide(func() (*compression.Program, error) {
		programID, err := model.IdentityFromBase58(ParamsEngine.Compression.ProgramID)
		if err != nil {
			return nil, ierrors.Wrap(err, "invalid compression program id")
		}

		return compression.New(compression.WithProgramID(programID)), nil
	}); err != nil {
		return err
	}

	if err := c.Provide(func(treeProgram *compression.Program) (*pricemanager.Program, error) {
		programID, err := model.IdentityFromBase58(ParamsEngine.PriceManager.ProgramID)
		if err != nil {
			return nil, ierrors.Wrap(err, "invalid price manager program id")
		}

		return pricemanager.New(
			pricemanager.WithProgramID(programID),
			pricemanager.WithTreeProgramID(treeProgram.ID()),
			pricemanager.WithPriceCeiling(ParamsEngine.PriceManager.PriceCeiling),
			pricemanager.WithBoundsCheckOnCreate(ParamsEngine.PriceManager.BoundsCheckOnCreate),
		), nil
	}); err != nil {
		return err
	}

	type engineDeps struct {
		dig.In

		Storage      *storage.Storage
		PriceManager *pricemanager.Program
		Compression  *compression.Program
	}

	if err := c.Provide(func(deps engineDeps) (*engine.Engine, error) {
		e := engine.New(
			lo.Return1(Component.Logger.NewChildLogger("Engine")),
			deps.Storage,
			engine.WithMaxCallDepth(ParamsEngine.MaxCallDepth),
			engine.WithMaxEventsPerTransaction(ParamsEngine.MaxEventsPerTransaction),
		)

		for _, program := range []engine.Program{deps.PriceManager, deps.Compression} {
			if err := e.RegisterProgram(program); err != nil {
				return nil, ierrors.Wrapf(err, "failed to deploy program %s", program.Name())
			}
		}

		return e, nil
	}); err != nil {
		return err
	}

	return c.Provide(func(e *engine.Engine) (*eventretainer.EventRetainer, error) {
		return eventretainer.NewForEngine(
			lo.Return1(Component.Logger.NewChildLogger("EventRetainer")),
			e,
			func(err error) {
				Component.LogErrorf("event retainer error: %s", err)
			},
			eventretainer.WithStoreErrorMessages(ParamsDatabase.Retainer.StoreErrorMessages),
			eventretainer.WithMaxEventsPerQuery(ParamsDatabase.Retainer.MaxEventsPerQuery),
		)
	})
}

func configure() error {
	deps.Engine.Events.Error.Hook(func(err error) {
		Component.LogErrorf("Error in Engine: %s", err)
	})

	deps.Engine.Events.TransactionExecuted.Hook(func(receipt *engine.Receipt) {
		Component.LogDebugf("TransactionExecuted: %s", receipt.TransactionID)
	})

	deps.Engine.Events.TransactionFailed.Hook(func(receipt *engine.Receipt) {
		Component.LogDebugf("TransactionFailed: %s - %s", receipt.TransactionID, receipt.Err)
	})

	for name, programID := range deps.Storage.Settings().Programs() {
		Component.LogInfof("program %s deployed at %s", name, programID)
	}

	return nil
}

func run() error {
	if err := Component.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		Component.LogInfo("Syncing databases to disk ...")
		deps.Storage.Shutdown()
		Component.LogInfo("Syncing databases to disk ... done")
	}, daemon.PriorityCloseDatabase); err != nil {
		return err
	}

	return Component.Daemon().BackgroundWorker(Component.Name, func(ctx context.Context) {
		<-ctx.Done()
		Component.LogInfo("Gracefully shutting down the Engine ...")

		deps.Engine.Shutdown()
		deps.EventRetainer.WaitIdle()
		deps.EventRetainer.Shutdown()
	}, daemon.PriorityEngine)
}

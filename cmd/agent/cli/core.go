package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rsned/minebot-agent/internal/builder"
	"github.com/rsned/minebot-agent/internal/executor"
	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/station"
	"github.com/rsned/minebot-agent/internal/toolvalidator"
	"github.com/rsned/minebot-agent/internal/worldfacade"
)

// core bundles every Core collaborator, built once per CLI invocation.
// The production world-facade implementation — the bridge into the real
// Minecraft-side library — lives outside this repository; per the
// Glossary ("the core depends on its contract, not its implementation")
// and this pack's available sources (no reachable client for that
// protocol), core wires the deterministic in-memory Fake behind the same
// RateLimited wrapper a production facade would use, so every subcommand
// below exercises the identical call path a real deployment would.
type core struct {
	cfg      *Config
	facade   worldfacade.Facade
	base     *knowledge.Base
	acct     *inventory.Accountant
	validate *toolvalidator.Validator
	resolve  *resolver.Resolver
	stations *station.Manager
	exec     *executor.Executor
	build    *builder.Builder
	logger   *slog.Logger
}

func newCore(ctx context.Context, cfg *Config, logger *slog.Logger) (*core, error) {
	base, err := knowledge.Load(ctx, cfg.KnowledgeDSN)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	facade := worldfacade.NewRateLimited(worldfacade.NewFake(), cfg.ActionsPerSecond)
	acct := inventory.New(facade)
	validate := toolvalidator.New(base, acct)
	resolve := resolver.New(base)
	stations := station.New(facade, resolve, acct)
	build := builder.New(facade, acct, resolve, logger)
	exec := executor.New(facade, base, acct, validate, resolve, stations, chatNotifier{logger}, logger)

	return &core{
		cfg:      cfg,
		facade:   facade,
		base:     base,
		acct:     acct,
		validate: validate,
		resolve:  resolve,
		stations: stations,
		exec:     exec,
		build:    build,
		logger:   logger,
	}, nil
}

// chatNotifier is the Notifier the CLI wires in for Executor.RunPlan:
// §6's "chat messages acknowledging start/progress/completion/failure"
// surface, realized here as structured log lines since this repo has no
// chat transport of its own — `agent serve`'s MCP caller sees the same
// acknowledgements via its own logging.
type chatNotifier struct {
	logger *slog.Logger
}

func (n chatNotifier) Notify(message string) {
	n.logger.Info("chat", "message", message)
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/talekeeper/combat-api/internal/config"
	"github.com/talekeeper/combat-api/internal/dice"
	mcphandler "github.com/talekeeper/combat-api/internal/handlers/mcp"
	"github.com/talekeeper/combat-api/internal/narrative"
	"github.com/talekeeper/combat-api/internal/orchestrators/combat"
	"github.com/talekeeper/combat-api/internal/pkg/idgen"
	redisclient "github.com/talekeeper/combat-api/internal/redis"
	"github.com/talekeeper/combat-api/internal/repositories/characters"
	"github.com/talekeeper/combat-api/internal/repositories/combatlog"
	"github.com/talekeeper/combat-api/internal/repositories/encounters"
	"github.com/talekeeper/combat-api/internal/rules"
)

const (
	serverName    = "combat-api"
	serverVersion = "0.1.0"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MCP server on stdio",
	Long:  `Start the combat MCP server. The protocol runs on stdout/stdin; logs go to stderr.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, _ []string) error {
	// stdout belongs to the MCP transport; all logging goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := buildHandler(cfg)
	if err != nil {
		return err
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	handler.Register(server)

	slog.Info("MCP server starting",
		"storage_backend", cfg.StorageBackend,
		"version", serverVersion,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	slog.Info("MCP server stopped")
	return nil
}

// buildHandler wires storage, dice, rules, and the orchestrator
// according to the loaded configuration.
func buildHandler(cfg *config.Config) (*mcphandler.Handler, error) {
	var (
		charRepo characters.Repository
		logRepo  combatlog.Repository
		err      error
	)

	switch cfg.StorageBackend {
	case config.BackendRedis:
		client, clientErr := redisclient.NewClient(cfg.RedisAddr, nil)
		if clientErr != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", clientErr)
		}
		charRepo, err = characters.NewRedis(&characters.RedisConfig{Client: client})
		if err != nil {
			return nil, fmt.Errorf("failed to create character repository: %w", err)
		}
		logRepo, err = combatlog.NewRedis(&combatlog.RedisConfig{Client: client})
		if err != nil {
			return nil, fmt.Errorf("failed to create combat log repository: %w", err)
		}

	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		charRepo, err = characters.NewSQLite(&characters.SQLiteConfig{Path: cfg.SQLitePath})
		if err != nil {
			return nil, fmt.Errorf("failed to create character repository: %w", err)
		}
		// Combat logs are transcripts of live encounters; they stay
		// in memory on the SQLite backend.
		logRepo = combatlog.NewInMemory(nil)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	var roller dice.Roller
	if cfg.RNGSeed != 0 {
		roller = dice.NewSeeded(cfg.RNGSeed)
	} else {
		roller = dice.NewTimeSeeded()
	}

	engine, err := dice.NewEngine(&dice.Config{Roller: roller})
	if err != nil {
		return nil, fmt.Errorf("failed to create dice engine: %w", err)
	}

	resolver, err := rules.NewResolver(&rules.Config{Dice: engine})
	if err != nil {
		return nil, fmt.Errorf("failed to create rules resolver: %w", err)
	}

	service, err := combat.NewOrchestrator(&combat.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encounters.NewInMemory(),
		CombatLogRepo: logRepo,
		Dice:          engine,
		Rules:         resolver,
		IDGenerator:   idgen.NewUUID(""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create combat orchestrator: %w", err)
	}

	handler, err := mcphandler.NewHandler(&mcphandler.Config{
		Service:   service,
		Narrative: narrative.NewTemplateGenerator(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP handler: %w", err)
	}

	return handler, nil
}

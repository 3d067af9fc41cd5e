// Package main provides the entry point for the tool-execution server.
// It wires every component by hand and exposes a small subcommand CLI:
// serve (HTTP), --stdio (newline-delimited JSON), tools (discovery), and
// run (one-shot invocation).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/mcp-oauth-2.1/internal/authjwt"
	"github.com/jamesprial/mcp-oauth-2.1/internal/config"
	"github.com/jamesprial/mcp-oauth-2.1/internal/mcptool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/middleware"
	"github.com/jamesprial/mcp-oauth-2.1/internal/plugintool"
	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/router"
	"github.com/jamesprial/mcp-oauth-2.1/internal/runtime"
	"github.com/jamesprial/mcp-oauth-2.1/internal/store"
	"github.com/jamesprial/mcp-oauth-2.1/internal/supervisor"
	"github.com/jamesprial/mcp-oauth-2.1/internal/tools"
	"github.com/jamesprial/mcp-oauth-2.1/internal/transport"
)

// Exit codes per the host process's CLI contract: 0 success, 1 tool or
// protocol error, 2 configuration error.
const (
	exitOK      = 0
	exitToolErr = 1
	exitConfig  = 2

	shutdownWait = 30 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitConfig)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(exitConfig)
	}

	switch os.Args[1] {
	case "serve":
		if hasFlag(os.Args[2:], "--stdio") {
			os.Exit(runStdio(cfg, logger))
		}
		os.Exit(runHTTP(cfg, logger))
	case "--stdio":
		os.Exit(runStdio(cfg, logger))
	case "tools":
		os.Exit(runToolsList(cfg, logger))
	case "run":
		os.Exit(runOneShot(cfg, logger, os.Args[2:]))
	default:
		usage()
		os.Exit(exitConfig)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: server <serve [--stdio]|--stdio|tools|run <tool> --args <json>>")
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

// buildState opens the store, assembles the security-enveloped tools and
// store-backed resources, and registers every plugin descriptor found at
// cfg.PluginDescriptorPath. The caller owns closing the returned store.
func buildState(cfg *config.Config, logger *slog.Logger) (*runtime.State, store.Store, error) {
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	state := runtime.New(cfg)
	sup := supervisor.New()

	builtins := []mcptool.Tool{
		tools.NewEcho(),
		tools.NewReadFile(cfg.AllowedReadPaths, cfg.ToolTimeout),
		tools.NewWriteFile(cfg.AllowedWritePaths, cfg.ToolTimeout),
		tools.NewCmdExec(cfg.AllowedCommands, sup, cfg.ToolTimeout, cfg.KillGrace),
		tools.NewMemoryStore(st),
		tools.NewMemoryRecall(st),
	}
	for _, tool := range builtins {
		if err := state.Tools.RegisterTool(tool.Definition().Name, tool); err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("register tool %s: %w", tool.Definition().Name, err)
		}
	}

	if cfg.PluginDescriptorPath != "" {
		descriptors, err := plugintool.LoadDescriptors(cfg.PluginDescriptorPath)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("load plugin descriptors: %w", err)
		}

		validator := mcptool.NewJSONSchemaValidator()
		plugins, err := plugintool.BuildTools(descriptors, sup, cfg.KillGrace, validator)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("build plugin tools: %w", err)
		}
		for _, plugin := range plugins {
			if err := state.Tools.RegisterTool(plugin.Definition().Name, plugin); err != nil {
				st.Close()
				return nil, nil, fmt.Errorf("register plugin tool %s: %w", plugin.Definition().Name, err)
			}
		}
		logger.Info("plugin tools registered", "count", len(plugins))
	}

	if err := tools.RegisterStoreResources(context.Background(), state.Resources, st); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("register store resources: %w", err)
	}

	return state, st, nil
}

func newJWTValidator(cfg *config.Config) authjwt.TokenValidator {
	if len(cfg.AuthorizationServers) == 0 {
		return nil
	}

	jwtCfg := &authjwt.Config{
		AuthorizationServers: cfg.AuthorizationServers,
		Audience:             cfg.Audience,
		JWKSCacheTTL:         cfg.JWKSCacheTTL,
		ClockSkew:            cfg.ClockSkew,
	}
	jwksClient := authjwt.NewJWKSClient(jwtCfg)
	return authjwt.NewTokenValidator(jwtCfg, jwksClient)
}

func runHTTP(cfg *config.Config, logger *slog.Logger) int {
	state, st, err := buildState(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize server: %v\n", err)
		return exitConfig
	}
	defer st.Close()

	metrics := middleware.NewMetrics()
	rt := router.New(state.Tools, state.Resources, router.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion}, metrics)

	transportCfg := &transport.Config{
		ServerConfig: cfg,
		Router:       rt,
		JWTValidator: newJWTValidator(cfg),
		Metrics:      metrics,
		Logger:       logger,
	}

	server, _, err := transport.NewTransportServices(transportCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to wire transport: %v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.Addr)
		if err := server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server gracefully...")
	case err := <-serverErrCh:
		logger.Error("server error", "error", err)
		stop()
		shutdownHTTP(server, logger)
		return exitToolErr
	}

	shutdownHTTP(server, logger)
	return exitOK
}

func shutdownHTTP(server transport.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return
	}
	logger.Info("server stopped successfully")
}

func runStdio(cfg *config.Config, logger *slog.Logger) int {
	state, st, err := buildState(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize server: %v\n", err)
		return exitConfig
	}
	defer st.Close()

	rt := router.New(state.Tools, state.Resources, router.ServerInfo{Name: cfg.ServerName, Version: cfg.ServerVersion}, middleware.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := transport.NewStdioServer(rt, logger, os.Stdin, os.Stdout)
	if err := server.Serve(ctx); err != nil {
		logger.Error("stdio session error", "error", err)
		return exitToolErr
	}
	return exitOK
}

func runToolsList(cfg *config.Config, logger *slog.Logger) int {
	state, st, err := buildState(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize server: %v\n", err)
		return exitConfig
	}
	defer st.Close()

	for _, def := range state.Tools.ListTools() {
		fmt.Println(def.Name)
	}
	return exitOK
}

func runOneShot(cfg *config.Config, logger *slog.Logger, args []string) int {
	if len(args) < 1 {
		usage()
		return exitConfig
	}
	toolName := args[0]

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	argsJSON := fs.String("args", "{}", "JSON object of tool arguments")
	if err := fs.Parse(args[1:]); err != nil {
		return exitConfig
	}

	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(*argsJSON), &toolArgs); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --args JSON: %v\n", err)
		return exitToolErr
	}

	state, st, err := buildState(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize server: %v\n", err)
		return exitConfig
	}
	defer st.Close()

	tool, err := state.Tools.GetTool(toolName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitToolErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ToolTimeout)
	defer cancel()

	output, err := tool.Execute(ctx, toolArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitToolErr
	}

	result := protocol.ToolsCallResult{Content: output.Content, IsError: output.IsError}
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		return exitToolErr
	}
	fmt.Println(string(body))

	if output.IsError {
		return exitToolErr
	}
	return exitOK
}

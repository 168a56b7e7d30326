package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Code-Monger/StoryScribe/pkg/config"
	"github.com/Code-Monger/StoryScribe/pkg/fileio"
	"github.com/Code-Monger/StoryScribe/pkg/serverinfo"
	"github.com/Code-Monger/StoryScribe/pkg/spellcheck"
	"github.com/Code-Monger/StoryScribe/pkg/startup"
	"github.com/Code-Monger/StoryScribe/pkg/stats"
	"github.com/mark3labs/mcp-go/server"
)

var (
	configPath = flag.String("config", "", "Path to the TOML config file (default: <user config dir>/storyscribe/config.toml)")
	transport  = flag.String("transport", "", "Command transport: stdio or sse (overrides config)")
	port       = flag.Int("port", 0, "Port to listen on with the sse transport (overrides config)")
	baseURL    = flag.String("baseurl", "", "Base URL for the sse transport (e.g., http://localhost:8080)")
	dataDir    = flag.String("data-dir", "", "Directory to store data files (overrides config)")
	logFile    = flag.String("log-file", "", "Also write logs to this file (overrides config)")
	serverName = flag.String("name", "StoryScribe Backend", "Server name")
	serverVer  = flag.String("version", "1.0.0", "Server version")
)

func main() {
	flag.Parse()

	configDir, err := config.Dir()
	if err != nil {
		log.Fatalf("[Server] %v", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	closeLog, err := setupLogging(cfg.Server.LogFile)
	if err != nil {
		log.Fatalf("[Server] Failed to open log file: %v", err)
	}
	defer closeLog()

	// Computed once at launch; only positional arguments are considered.
	startupFile := startup.Resolve(append([]string{os.Args[0]}, flag.Args()...))

	if err := os.MkdirAll(cfg.Server.DataDir, 0755); err != nil {
		log.Fatalf("[Server] Failed to create data directory: %v", err)
	}
	if err := stats.InitStatsManager(cfg.Server.DataDir); err != nil {
		log.Fatalf("[Server] Failed to initialize stats manager: %v", err)
	}

	defaultLanguage := cfg.Spell.DefaultLanguage
	if defaultLanguage == "" {
		defaultLanguage = spellcheck.SystemLanguage()
	}
	locator := spellcheck.NewLocator(cfg.Spell.SearchRoots, cfg.Spell.Layouts)
	locator.Supported = spellcheck.SupportedPair
	session := spellcheck.NewSession(spellcheck.Options{
		Locator: locator,
		Store:   spellcheck.NewWordStore(cfg.Spell.CustomDictionary),
		NewEngine: spellcheck.HunspellFactory(spellcheck.EngineOptions{
			MaxSuggestions: cfg.Spell.MaxSuggestions,
			FuzzyDepth:     cfg.Spell.FuzzyDepth,
		}),
		DefaultLanguage: defaultLanguage,
	})

	// Create the MCP server
	mcpServer := server.NewMCPServer(
		*serverName,
		*serverVer,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithInstructions("Native backend of the StoryScribe editor: spell checking, custom dictionary, startup file and text file commands."),
	)

	// Register commands and resources
	spellcheck.RegisterSpellCheck(mcpServer, &spellcheck.Handlers{
		Session:           session,
		FallbackLanguages: cfg.Spell.FallbackLanguages,
	})
	startup.RegisterStartup(mcpServer, startup.NewCache(startupFile))
	fileio.RegisterFileIO(mcpServer, nil)
	serverinfo.RegisterServerInfo(mcpServer, *serverVer, session)
	stats.RegisterStats(mcpServer)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Spell.WatchCustomDictionary {
		go func() {
			if err := session.Store().Watch(ctx, session.ReloadCustomWords); err != nil {
				log.Printf("[Server] Custom dictionary watcher stopped: %v", err)
			}
		}()
	}

	switch cfg.Server.Transport {
	case "sse":
		serveSSE(ctx, mcpServer, cfg.Server)
	default:
		log.Printf("[Server] Serving commands on stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			log.Printf("[Server] Stdio server stopped: %v", err)
		}
	}

	if manager := stats.GetStatsManager(); manager != nil {
		if err := manager.Flush(); err != nil {
			log.Printf("[Server] Failed to save stats: %v", err)
		}
	}
	log.Println("[Server] Server stopped")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(configDir string) (config.Config, error) {
	path := *configPath
	if path == "" {
		path = filepath.Join(configDir, "config.toml")
	}

	cfg, err := config.Load(path, config.Default(configDir))
	if err != nil {
		return config.Config{}, err
	}

	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *baseURL != "" {
		cfg.Server.BaseURL = *baseURL
	}
	if *dataDir != "" {
		cfg.Server.DataDir = *dataDir
	}
	if *logFile != "" {
		cfg.Server.LogFile = *logFile
	}
	return cfg, cfg.Validate()
}

// setupLogging sends log output to stderr, and to path when set. Stdout is
// reserved for the stdio transport.
func setupLogging(path string) (func(), error) {
	log.SetOutput(os.Stderr)
	if path == "" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return func() { file.Close() }, nil
}

func serveSSE(ctx context.Context, mcpServer *server.MCPServer, cfg config.ServerConfig) {
	baseURLValue := cfg.BaseURL
	if baseURLValue == "" {
		baseURLValue = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURLValue),
		server.WithSSEEndpoint("/"),
		server.WithMessageEndpoint("/messages"),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: sseServer,
	}

	go func() {
		log.Printf("[Server] Starting SSE server on port %d...", cfg.Port)
		log.Printf("[Server] Base URL: %s", baseURLValue)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Println("[Server] Shutting down server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Server shutdown failed: %v", err)
	}
}

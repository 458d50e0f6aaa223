// Package main is the vectord CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/canopyhq/vectord/internal/config"
	"github.com/canopyhq/vectord/internal/embedding"
	"github.com/canopyhq/vectord/internal/extract"
	"github.com/canopyhq/vectord/internal/fileid"
	"github.com/canopyhq/vectord/internal/indexer"
	"github.com/canopyhq/vectord/internal/models"
	"github.com/canopyhq/vectord/internal/search"
	"github.com/canopyhq/vectord/internal/server"
	"github.com/canopyhq/vectord/internal/vectorstore"
	"github.com/canopyhq/vectord/internal/watcher"
	"github.com/canopyhq/vectord/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vectord/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "query":
		runQuery()
	case "delete":
		runDelete()
	case "version", "--version", "-v":
		fmt.Printf("vectord version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store    vectorstore.Store
	Embedder embedding.Embedder
	Engine   *search.Engine
	Indexer  *indexer.Indexer
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := vectorstore.New(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	embedder, err := embedding.New(&cfg.Embedding, cfg.Index.EmbedDim)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	var idxOpts []indexer.Option
	var engineOpts []search.Option
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, embedder, extract.NewExtractor(), &cfg.Index, &cfg.Chunking, idxOpts...)
	engine := search.NewEngine(store, embedder, &cfg.Index, &cfg.Search, engineOpts...)

	return &Components{
		Store:    store,
		Embedder: embedder,
		Engine:   engine,
		Indexer:  idx,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("index", cfg.Index.Name),
		zap.Int("embed_dim", cfg.Index.EmbedDim),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		watchSvc := startWatcher(watchCtx, cfg, components.Indexer, logger, debugMode)
		if watchSvc == nil {
			os.Exit(1)
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		extract.NewExtractor(),
		components.Embedder,
		&cfg.Index,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func startWatcher(ctx context.Context, cfg *config.Config, idx *indexer.Indexer, logger *zap.Logger, debug bool) *watcher.Watcher {
	ns := cfg.Watch.Namespace
	var opts []watcher.Option
	if debug {
		opts = append(opts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if _, err := idx.IngestFile(context.Background(), path, ns); err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return
			}
			if _, err := idx.DeleteByDocument(context.Background(), ns, fileid.FileDocID(abs)); err != nil {
				logger.Warn("watch delete failed", zap.String("path", path), zap.Error(err))
			}
		},
		opts...,
	)
	if err := w.Start(ctx); err != nil {
		logger.Error("Failed to start watcher", zap.Error(err))
		return nil
	}
	w.SyncExisting()
	return w
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	namespace := fs.String("namespace", "", "target namespace (default from config)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: vectord ingest [flags] <files...>")
		os.Exit(1)
	}

	components, _ := mustComponents(*configPath)
	defer components.Close()

	failed := 0
	for _, path := range fs.Args() {
		result, err := components.Indexer.IngestFile(context.Background(), path, *namespace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest failed for %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("Document ingested: %s (%d chunks in namespace %s)\n",
			result.DocumentID, result.ChunkCount, result.Namespace)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	namespace := fs.String("namespace", "", "namespace to query (default from config)")
	topK := fs.Int("top-k", 0, "number of matches (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: vectord query [flags] <text>")
		os.Exit(1)
	}
	queryText := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if queryText == "" {
		fmt.Println("Usage: vectord query [flags] <text>")
		os.Exit(1)
	}

	components, _ := mustComponents(*configPath)
	defer components.Close()

	response, err := components.Engine.Query(context.Background(), &models.QueryRequest{
		Namespace: *namespace,
		Text:      queryText,
		TopK:      *topK,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(response.Matches) == 0 {
			fmt.Println("No matches.")
			return
		}
		for i, m := range response.Matches {
			fmt.Printf("%d. %s (score %.4f)\n", i+1, m.ID, m.Score)
			if text, ok := m.Metadata["text"].(string); ok && text != "" {
				fmt.Printf("   %s\n", text)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	namespace := fs.String("namespace", "", "namespace (default from config)")
	byPath := fs.Bool("path", false, "treat the argument as a file path instead of a document id")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: vectord delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)
	if *byPath {
		abs, err := filepath.Abs(docID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid path: %v\n", err)
			os.Exit(1)
		}
		docID = fileid.FileDocID(abs)
	}

	components, _ := mustComponents(*configPath)
	defer components.Close()

	deleted, err := components.Indexer.DeleteByDocument(context.Background(), *namespace, docID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed after removing %d chunks: %v\n", deleted, err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s (%d chunks)\n", docID, deleted)
}

func mustComponents(configPath string) (*Components, *config.Config) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg
}

func printUsage() {
	fmt.Println(`vectord - Document ingestion and semantic retrieval service

Usage:
  vectord server [flags]            Start the HTTP server
  vectord ingest [flags] <files...> Extract, chunk, embed, and index files
  vectord query [flags] <text>      Run a similarity query
  vectord delete [flags] <id>       Delete a document and all its chunks
  vectord version                   Show version
  vectord help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/vectord/config.yaml)
  --debug            Enable debug logging

Ingest Flags:
  --config string      Config file path
  --namespace string   Target namespace (default from config)

Query Flags:
  --config string      Config file path
  --namespace string   Namespace to query (default from config)
  --top-k int          Number of matches (default from config)
  --output string      Output format: text or json (default: text)

Delete Flags:
  --config string      Config file path
  --namespace string   Namespace (default from config)
  --path               Treat the argument as a file path instead of a document id

Examples:
  vectord server
  vectord ingest --namespace docs report.pdf
  vectord query "quarterly revenue targets"
  vectord query --output json --top-k 5 "onboarding checklist"
  vectord delete doc-123
  vectord delete --path ./report.pdf`)
}

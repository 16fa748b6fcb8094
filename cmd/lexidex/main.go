package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/lexidex/api"
	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/internal/engine"
	"github.com/gcbaptista/lexidex/internal/logging"
	"github.com/gcbaptista/lexidex/search"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "lexidex",
		Short: "lexidex is a typo-tolerant, BM25+ ranked search engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newCreateIndexCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newVacuumCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			logger := logging.NewDefault()
			manager := engine.NewManager(cfg.Server.DataDir, cfg.Server.Workers, logger)
			defer manager.Stop()

			for _, def := range cfg.Indexes {
				if _, err := manager.GetIndex(def.Name); err == nil {
					continue
				}
				if _, err := manager.CreateIndex(def.toOptions()); err != nil {
					return fmt.Errorf("provision index %q: %w", def.Name, err)
				}
			}

			router := gin.Default()
			api.SetupRoutes(router, manager)

			srv := &http.Server{
				Addr:           ":" + cfg.Server.Port,
				Handler:        router,
				ReadTimeout:    30 * time.Second,
				WriteTimeout:   60 * time.Second,
				IdleTimeout:    120 * time.Second,
				MaxHeaderBytes: 1 << 20,
			}

			go func() {
				fmt.Printf("lexidex listening on :%s (data dir %s)\n", cfg.Server.Port, cfg.Server.DataDir)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					fmt.Fprintf(os.Stderr, "server error: %v\n", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override the config file's port")
	return cmd
}

func newCreateIndexCmd() *cobra.Command {
	var (
		dataDir     string
		name        string
		fields      string
		idField     string
		storeFields string
	)
	cmd := &cobra.Command{
		Use:   "create-index",
		Short: "create a new, empty index on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Server.DataDir = dataDir
			}

			manager := engine.NewManager(cfg.Server.DataDir, cfg.Server.Workers, logging.NewDefault())
			defer manager.Stop()

			def := indexDefConf{
				Name:        name,
				Fields:      splitCSV(fields),
				IDField:     idField,
				StoreFields: splitCSV(storeFields),
			}
			if _, err := manager.CreateIndex(def.toOptions()); err != nil {
				return err
			}
			fmt.Printf("index %q created in %s\n", name, cfg.Server.DataDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override the config file's data directory")
	cmd.Flags().StringVar(&name, "name", "", "index name")
	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated searchable fields")
	cmd.Flags().StringVar(&idField, "id-field", "id", "document field carrying the external ID")
	cmd.Flags().StringVar(&storeFields, "store-fields", "", "comma-separated fields to store verbatim")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("fields")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		dataDir string
		index   string
		query   string
		prefix  bool
		fuzzy   int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "run a query against an index and print JSON results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Server.DataDir = dataDir
			}

			manager := engine.NewManager(cfg.Server.DataDir, cfg.Server.Workers, logging.NewDefault())
			defer manager.Stop()

			idx, err := manager.GetIndex(index)
			if err != nil {
				return err
			}

			opts := idx.Opts.SearchOptions
			if prefix {
				opts.Prefix = config.PrefixAll
			}
			if fuzzy > 0 {
				opts.Fuzzy = config.FuzzyDistance(fuzzy)
			}

			result := idx.Search(search.QueryString{Text: query}, &opts)
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override the config file's data directory")
	cmd.Flags().StringVar(&index, "index", "", "index name")
	cmd.Flags().StringVar(&query, "query", "", "query text")
	cmd.Flags().BoolVar(&prefix, "prefix", false, "expand every query term as a prefix")
	cmd.Flags().IntVar(&fuzzy, "fuzzy", 0, "fixed edit distance for fuzzy expansion (0 disables)")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("query")
	return cmd
}

func newVacuumCmd() *cobra.Command {
	var (
		dataDir string
		index   string
	)
	cmd := &cobra.Command{
		Use:   "vacuum",
		Short: "reclaim tombstoned postings for an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Server.DataDir = dataDir
			}

			manager := engine.NewManager(cfg.Server.DataDir, cfg.Server.Workers, logging.NewDefault())
			defer manager.Stop()

			idx, err := manager.GetIndex(index)
			if err != nil {
				return err
			}
			if err := idx.Vacuum(context.Background()); err != nil {
				return err
			}
			if err := manager.Persist(index); err != nil {
				return err
			}
			fmt.Printf("index %q vacuumed\n", index)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "override the config file's data directory")
	cmd.Flags().StringVar(&index, "index", "", "index name")
	cmd.MarkFlagRequired("index")
	return cmd
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

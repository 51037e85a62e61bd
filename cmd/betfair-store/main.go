// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/neomantra/ymdflag"
	"github.com/spf13/cobra"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/export"
	"github.com/larkspur-data/betfair-stream/source"
)

var (
	cacheDir string
	verbose  bool
	logger   *slog.Logger
)

func main() {
	cobra.OnInitialize(func() {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	})

	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCacheDir(), "directory for cached parquet files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(clearCacheCmd)
	rootCmd.AddCommand(fetchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultCacheDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".betfair-store", "cache")
	}
	return "./betfair-store-cache"
}

var rootCmd = &cobra.Command{
	Use:   "betfair-store",
	Short: "betfair-store decodes market data into a queryable parquet/DuckDB cache",
	Long:  "betfair-store decodes market data into a queryable parquet/DuckDB cache",
}

func openStore() (*export.Store, error) {
	s := export.NewStore(cacheDir, logger)
	if err := s.InitCache(); err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////

var decodeCmd = &cobra.Command{
	Use:   "decode file...",
	Short: "Decodes local files or archives and writes one parquet batch per input file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		decodeCfg := betfair.DefaultConfig()
		for _, path := range args {
			if err := decodeFileToStore(store, path, decodeCfg); err != nil {
				logger.Warn("failed to decode", "path", path, "error", err)
			}
		}
		return nil
	},
}

func decodeFileToStore(store *export.Store, path string, cfg betfair.Config) error {
	entries, err := source.Open(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		err := func() error {
			defer entry.Close()
			dec := betfair.NewDecoder(entry.Reader, entry.Name, cfg)
			var rows []export.RunnerRow
			for {
				snap, err := dec.Next()
				if err != nil {
					return err
				}
				if snap == nil {
					break
				}
				rows = append(rows, export.RunnerRowsFromSnapshot(snap)...)
			}
			if len(rows) == 0 {
				return nil
			}
			batchName := batchNameFor(entry.Name)
			written, err := store.WriteBatch(batchName, rows)
			if err != nil {
				return err
			}
			logger.Info("wrote batch", "entry", entry.Name, "path", written, "rows", len(rows))
			return nil
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

// batchNameFor derives a filesystem-safe batch name stamped with the
// current day, following the teacher's normalizeDateForFilename/YMD
// convention for cache file naming.
func batchNameFor(entryName string) string {
	ymd := ymdflag.TimeToYMD(time.Now().UTC())
	base := strings.TrimSuffix(filepath.Base(entryName), filepath.Ext(entryName))
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	return fmt.Sprintf("%s__%d", base, ymd)
}

///////////////////////////////////////////////////////////////////////////////

var queryCmd = &cobra.Command{
	Use:   "query sql",
	Short: "Runs a SQL query against the cache's runners view and prints CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		out, err := store.Query(args[0])
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

///////////////////////////////////////////////////////////////////////////////

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Removes every cached parquet file",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.ClearCache()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d cached file(s)\n", removed)
		return nil
	},
}

///////////////////////////////////////////////////////////////////////////////

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Downloads a historic-data archive by URL into the cache directory's downloads subfolder",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchURL == "" {
			return fmt.Errorf("--url is required")
		}
		discoverer := source.NewDiscoverer(logger)
		destDir := filepath.Join(cacheDir, "downloads")
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return err
		}
		path, err := discoverer.FetchRemote(fetchURL, destDir)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded to %s\n", path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "remote archive URL to download")
}

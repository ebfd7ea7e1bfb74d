package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rekordboxusb/internal/config"
	"rekordboxusb/internal/export"
	"rekordboxusb/internal/idalloc"
	"rekordboxusb/internal/pdbvalidate"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Optional .env for path overrides; absence is not an error.
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		runBuild(logger, os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  pdbgen build [--config pdbgen.toml] [--watch]")
	fmt.Fprintln(os.Stderr, "  pdbgen validate <export.pdb>")
}

func runBuild(logger *logrus.Logger, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "./pdbgen.toml", "path to the TOML configuration file")
	watch := fs.Bool("watch", false, "rebuild whenever the library directory changes")
	fs.Parse(args)

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}
	applyEnvOverrides(cfg)
	configureLogger(logger, cfg)

	// Check if music directory exists
	if _, err := os.Stat(cfg.Library.Path); os.IsNotExist(err) {
		logger.WithField("library_path", cfg.Library.Path).Fatal("Library directory does not exist. Please create it and add your music files.")
	}

	// Optional id-stability cache
	alloc := idalloc.New()
	if cfg.Cache.Enabled {
		cache, err := idalloc.OpenCache(cfg.Cache.Path)
		if err != nil {
			logger.WithError(err).Warn("Could not open id cache; ids will be assigned fresh this run")
		} else {
			defer cache.Close()
			alloc = idalloc.NewWithCache(cache)
		}
	}

	exporter := export.New(cfg, alloc, logger)

	if err := exporter.Run(); err != nil {
		logger.WithError(err).Fatal("Export failed")
	}

	if !*watch && !cfg.Library.WatchForChanges {
		return
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- exporter.Watch(stop)
	}()

	select {
	case <-c:
		logger.Info("Received shutdown signal")
		close(stop)
		<-done
	case err := <-done:
		if err != nil {
			logger.WithError(err).Fatal("File watcher failed")
		}
	}
}

func runValidate(args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdbgen: %v\n", err)
		os.Exit(1)
	}

	result := pdbvalidate.Validate(data)

	fmt.Printf("pages:            %d\n", result.Stats.TotalPages)
	fmt.Printf("tracks:           %d\n", result.Stats.TrackCount)
	fmt.Printf("artists:          %d\n", result.Stats.ArtistCount)
	fmt.Printf("albums:           %d\n", result.Stats.AlbumCount)
	fmt.Printf("genres:           %d\n", result.Stats.GenreCount)
	fmt.Printf("keys:             %d\n", result.Stats.KeyCount)
	fmt.Printf("playlists:        %d\n", result.Stats.PlaylistCount)
	fmt.Printf("playlist entries: %d\n", result.Stats.PlaylistEntryCount)

	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}

	if !result.Valid {
		fmt.Println("FAIL")
		os.Exit(1)
	}
	fmt.Println("OK")
}

// applyEnvOverrides lets a .env (or the environment) redirect the two
// paths that differ between machines without editing the config file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("PDBGEN_OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("PDBGEN_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
}

func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

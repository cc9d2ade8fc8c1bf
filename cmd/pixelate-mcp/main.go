package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ironsheep/pixelate-mcp/internal/config"
	"github.com/ironsheep/pixelate-mcp/internal/imaging"
	"github.com/ironsheep/pixelate-mcp/internal/pixelate"
	"github.com/ironsheep/pixelate-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("pixelate-mcp - MCP server for block pixelation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pixelate-mcp [options]                       Serve MCP over stdin/stdout")
	fmt.Println("  pixelate-mcp run <file> <tile_size> <S|M>    Pixelate one file and exit")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=<file>     YAML configuration file\n", config.EnvConfigPath)
	fmt.Printf("  %s=debug   Enable debug logging\n", config.EnvLogLevel)
	fmt.Println()
	fmt.Println("In server mode it communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixelate-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Pixelate MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "run" {
		if len(os.Args) != 5 {
			usage()
			os.Exit(2)
		}
		if _, err := runOnce(ctx, cfg, os.Args[2], os.Args[3], os.Args[4], cfg.Output.Path, log.Default()); err != nil {
			log.Fatalf("Pixelate error: %v", err)
		}
		return
	}

	server.Version = Version
	srv := server.NewWithConfig(cfg, os.Stdin, os.Stdout)
	if err := srv.RunContext(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runOnce pixelates path and writes the result to outPath, logging progress
// every ten percent to logger.
func runOnce(ctx context.Context, cfg *config.Config, path, size, mode, outPath string, logger *log.Logger) (*imaging.SaveResult, error) {
	tileSize, err := strconv.Atoi(size)
	if err != nil {
		return nil, fmt.Errorf("tile size %q is not an integer: %w", size, pixelate.ErrInvalidTileSize)
	}
	strategy, err := pixelate.ParseMode(mode, cfg.Pixelate.Workers)
	if err != nil {
		return nil, err
	}

	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return nil, err
	}
	buf := pixelate.FromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("image %s is empty: %w", path, pixelate.ErrInvalidDimensions)
	}

	var opts []pixelate.ProgressOption
	if cfg.Progress.Snapshots {
		opts = append(opts, pixelate.WithSnapshots())
	}
	progress := pixelate.NewProgress(cfg.Progress.Capacity, opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Workers may push out of completion order; count arrivals instead.
		next, seen := 10, 0
		for ev := range progress.All() {
			seen++
			pct := seen * 100 / ev.Total
			if pct >= next {
				logger.Printf("%3d%% (%d/%d tiles)", pct, seen, ev.Total)
				next = pct - pct%10 + 10
			}
		}
	}()

	stats, err := pixelate.RunWithStats(ctx, buf, pixelate.Options{
		TileSize: tileSize,
		Strategy: strategy,
		Progress: progress,
	})
	<-done
	if err != nil {
		return nil, err
	}

	saved, err := imaging.SaveImage(buf.Image(), outPath, cfg.Output.JPEGQuality)
	if err != nil {
		return nil, err
	}
	logger.Printf("Pixelated %s (%dx%d, %d tiles, %s) in %v -> %s",
		path, saved.Width, saved.Height, stats.Tiles, stats.Strategy, stats.Elapsed, saved.Path)
	return saved, nil
}

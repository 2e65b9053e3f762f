package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/image-resize-mcp/internal/config"
	"github.com/ironsheep/image-resize-mcp/internal/engine"
	"github.com/ironsheep/image-resize-mcp/internal/logger"
	"github.com/ironsheep/image-resize-mcp/internal/resizer"
	"github.com/ironsheep/image-resize-mcp/internal/server"
	"github.com/ironsheep/image-resize-mcp/internal/surface"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-resize-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-resize-mcp - MCP server that resizes images")
			fmt.Println()
			fmt.Println("Usage: image-resize-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_RESIZE_CONFIG_DIR=<dir>     Directory holding config.yaml")
			fmt.Println("  IMAGE_RESIZE_LOG_LEVEL=debug      Log level (logs go to stderr)")
			fmt.Println("  IMAGE_RESIZE_ENGINE=imaging|bild  Resize back end")
			fmt.Println("  IMAGE_RESIZE_FILTER=lanczos       Resampling filter")
			fmt.Println("  IMAGE_RESIZE_OUTPUT_FORMAT=image/png")
			fmt.Println("  IMAGE_RESIZE_JPEG_QUALITY=0.92")
			fmt.Println("  IMAGE_RESIZE_MATTE=#000000        Background for formats without alpha")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load(os.Getenv("IMAGE_RESIZE_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// stdout is for MCP protocol
	log := logger.New(cfg)
	log.Debugf("Image resize MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	matte, err := surface.ParseColor(cfg.Matte)
	if err != nil {
		log.Errorf("Invalid matte %q: %v", cfg.Matte, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := engine.NewRuntime(engine.Loader(cfg.Engine, cfg.Filter, log))
	if err := rt.Init(ctx); err != nil {
		log.Errorf("Engine initialization failed: %v", err)
		os.Exit(1)
	}

	doc := surface.NewDocument(
		surface.WithMaxArea(cfg.MaxSurfaceArea),
		surface.WithMatte(matte),
		surface.WithLogger(log),
	)
	rs := resizer.New(resizer.Config{
		Engine:   rt,
		Document: doc,
		Output:   resizer.Output{MIME: cfg.OutputFormat, Quality: resizer.Quality(cfg.JPEGQuality)},
		Logger:   log,
	})

	srv := server.New(rs, rt, log, Version)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
}

// Command wot-servient hosts W3C Web of Things ExposedThings over HTTP
// and WebSocket bindings.
//
// This command demonstrates a complete servient with:
//   - CLI argument parsing
//   - Configuration file and environment support
//   - HTTP and WebSocket protocol bindings
//   - mDNS directory advertisement
//   - Interactive command console
//   - CBOR interaction tracing
//
// Usage:
//
//	wot-servient [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-http string       HTTP binding listen address (overrides config)
//	-ws string         WebSocket binding listen address (overrides config)
//	-no-mdns           Disable mDNS advertisement
//	-trace string      Record interactions to a CBOR trace file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-interactive       Enable interactive command mode
//	-demo              Expose the demo lamp and temperature sensor
//
// Examples:
//
//	# Serve the demo things with an interactive console
//	wot-servient -demo -interactive
//
//	# Serve on a specific port without advertisement
//	wot-servient -demo -http :9090 -no-mdns
//
//	# Record every interaction for later replay
//	wot-servient -demo -trace servient.cbor -log-level debug
//
// Interactive Commands:
//
//	things      - List registered things
//	td <thing>  - Print a thing description
//	read <thing> <property>         - Read a property value
//	write <thing> <property> <val>  - Write a property value
//	invoke <thing> <action> [input] - Invoke an action
//	emit <thing> <event> [payload]  - Emit a thing event
//	watch <thing>                   - Print events as they happen
//	add-property / remove-property  - Edit a thing description live
//	status      - Show servient status
//	exit        - Exit the servient
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wot-protocol/wot-go/cmd/wot-servient/interactive"
	"github.com/wot-protocol/wot-go/pkg/examples"
	"github.com/wot-protocol/wot-go/pkg/servient"
)

// Config holds the command-line configuration.
type Config struct {
	ConfigFile  string
	HTTPAddr    string
	WSAddr      string
	NoMDNS      bool
	TraceFile   string
	LogLevel    string
	Interactive bool
	Demo        bool
}

var (
	config Config
	sv     *servient.Servient
)

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.HTTPAddr, "http", "", "HTTP binding listen address (overrides config)")
	flag.StringVar(&config.WSAddr, "ws", "", "WebSocket binding listen address (overrides config)")
	flag.BoolVar(&config.NoMDNS, "no-mdns", false, "Disable mDNS advertisement")
	flag.StringVar(&config.TraceFile, "trace", "", "Record interactions to a CBOR trace file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&config.Demo, "demo", false, "Expose the demo lamp and temperature sensor")
}

func main() {
	flag.Parse()

	// Setup logging
	setupLogging(config.LogLevel)

	log.Println("WoT Servient")
	log.Println("============")

	cfg, err := servient.LoadConfig(config.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sv, err = servient.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create servient: %v", err)
	}
	log.Printf("Servient: %s", cfg.Hostname)

	if config.Demo {
		if err := exposeDemoThings(); err != nil {
			log.Fatalf("Failed to expose demo things: %v", err)
		}
	}

	// Start servient
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sv.Start(ctx); err != nil {
		log.Fatalf("Failed to start servient: %v", err)
	}
	log.Printf("Servient started (state: %s)", sv.State())
	for _, srv := range sv.Servers() {
		log.Printf("  %s binding on %s", srv.Scheme(), srv.Addr())
	}

	// Run interactive mode or wait for signal
	if config.Interactive {
		ic, err := interactive.New(sv)
		if err != nil {
			log.Fatalf("Failed to create interactive console: %v", err)
		}
		// Redirect log output through readline to avoid interfering with input
		log.SetOutput(ic.Stdout())
		go ic.Run(ctx, cancel)
	}

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Context was cancelled (e.g., by the interactive exit command)
	}

	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := sv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping servient: %v", err)
	}

	log.Println("Goodbye!")
}

// applyFlags layers explicit command-line values over the loaded
// configuration. Flags win over both the file and the environment.
func applyFlags(cfg *servient.Config) {
	if config.HTTPAddr != "" {
		cfg.HTTP.Addr = config.HTTPAddr
	}
	if config.WSAddr != "" {
		cfg.WS.Addr = config.WSAddr
	}
	if config.NoMDNS {
		cfg.EnableMDNS = false
	}
	if config.TraceFile != "" {
		cfg.TraceFile = config.TraceFile
	}
	if config.LogLevel == "debug" {
		// Library diagnostics go through slog; console output stays on
		// the stdlib logger.
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}

// exposeDemoThings registers and exposes the reference things.
func exposeDemoThings() error {
	lamp, err := examples.NewLamp(sv)
	if err != nil {
		return err
	}
	if err := lamp.Expose(); err != nil {
		return err
	}
	log.Printf("Exposed demo thing: %s (%s)", lamp.Title(), lamp.ID())

	sensor, err := examples.NewSensor(sv)
	if err != nil {
		return err
	}
	if err := sensor.Expose(); err != nil {
		return err
	}
	log.Printf("Exposed demo thing: %s (%s)", sensor.Title(), sensor.ID())

	return nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

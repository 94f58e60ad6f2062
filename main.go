// Command powergrid starts the Power Grid Tycoon server.
//
// It supports three modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint,
//     and advances every running session in real time
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "simulate" – plays a scenario headlessly for a number of years and prints a summary
//
// Flags (each also read from an environment variable) control host/port, the
// config directory, the tick interval, telemetry output, debug logging and
// optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/powergrid/api"
	"github.com/wricardo/mcp-training/powergrid/game/config"
	"github.com/wricardo/mcp-training/powergrid/game/runner"
	"github.com/wricardo/mcp-training/powergrid/game/service"
	"github.com/wricardo/mcp-training/powergrid/game/session"
	"github.com/wricardo/mcp-training/powergrid/telemetry"
	"github.com/wricardo/mcp-training/powergrid/transport/mcp"
	"github.com/wricardo/mcp-training/powergrid/transport/websocket"
)

// Version information
const (
	Version = "2.0.0"
	AppName = "Power Grid Tycoon Server"
)

// Session retention
const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
)

// options holds the flag values shared by every mode
type options struct {
	host          string
	port          int
	configDir     string
	tickInterval  time.Duration
	speed         float64
	telemetryDir  string
	ngrokEnabled  bool
	ngrokAuth     string
	ngrokDomain   string
	externalAPI   string
	simConfig     string
	simYears      int
	simStrategy   string
	simChargeRate int
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// main loads .env, then hands off to the command tree
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

// newApp builds the command tree. Flags on the root are visible to every
// subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "powergrid",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing scenario files", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.DurationFlag{Name: "tick-interval", Value: runner.DefaultInterval, Usage: "How often running sessions advance (0 disables)", Sources: cli.EnvVars("TICK_INTERVAL")},
			&cli.FloatFlag{Name: "speed", Value: 1, Usage: "Game seconds per wall-clock second", Sources: cli.EnvVars("GAME_SPEED")},
			&cli.StringFlag{Name: "telemetry-dir", Usage: "Write per-year CSV telemetry to this directory", Sources: cli.EnvVars("TELEMETRY_DIR")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  serverAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP API if needed",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "External API to reuse when reachable", Sources: cli.EnvVars("API_URL")},
				},
				Action: mcpAction,
			},
			{
				Name:  "simulate",
				Usage: "Play a scenario headlessly and print a summary",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Scenario to play (default scenario when empty)"},
					&cli.IntFlag{Name: "years", Value: 20, Usage: "In-world years to simulate"},
					&cli.StringFlag{Name: "strategy", Value: StrategyGreedy, Usage: "idle or greedy"},
					&cli.IntFlag{Name: "charge-rate", Usage: "Fixed charge rate (0 tracks the competitor)"},
				},
				Action: simulateAction,
			},
		},
	}
}

// readOptions collects flag values from cmd and its parents
func readOptions(cmd *cli.Command) options {
	return options{
		host:          cmd.String("host"),
		port:          int(cmd.Int("port")),
		configDir:     cmd.String("config-dir"),
		tickInterval:  cmd.Duration("tick-interval"),
		speed:         cmd.Float("speed"),
		telemetryDir:  cmd.String("telemetry-dir"),
		ngrokEnabled:  cmd.Bool("ngrok"),
		ngrokAuth:     cmd.String("ngrok-auth"),
		ngrokDomain:   cmd.String("ngrok-domain"),
		externalAPI:   cmd.String("api-url"),
		simConfig:     cmd.String("config"),
		simYears:      int(cmd.Int("years")),
		simStrategy:   cmd.String("strategy"),
		simChargeRate: int(cmd.Int("charge-rate")),
	}
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	opts := readOptions(cmd)
	log.Printf("Starting %s v%s (mode: server)", AppName, Version)

	gameService, sessions, err := initializeServices(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessions)

	return runHTTPServer(ctx, gameService, opts)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	opts := readOptions(cmd)
	log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)

	gameService, sessions, err := initializeServices(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessions)

	return runStdioMCPWithInternalServer(ctx, gameService, opts)
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	opts := readOptions(cmd)

	gameService, _, err := initializeServices(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	recorder, err := telemetry.NewFileRecorder(opts.telemetryDir)
	if err != nil {
		return err
	}
	if recorder == nil {
		recorder = telemetry.NewRecorder(nil)
	}
	defer recorder.Close()

	result, err := runSimulation(ctx, gameService, recorder, SimulationOptions{
		ConfigID:   opts.simConfig,
		Years:      opts.simYears,
		Strategy:   opts.simStrategy,
		ChargeRate: opts.simChargeRate,
	})
	if err != nil {
		return err
	}

	printSimulation(os.Stdout, result, telemetry.Summarize(recorder.Records()))
	return nil
}

// initializeServices wires the session/config managers and the game service.
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// startRunner advances sessions in real time, pushing each result to
// WebSocket clients and, when enabled, to the telemetry recorder.
func startRunner(ctx context.Context, gameService service.GameService, hub *websocket.Hub, opts options) (*telemetry.Recorder, error) {
	if opts.tickInterval <= 0 {
		log.Println("Real-time runner disabled; sessions advance only on request")
		return nil, nil
	}

	r := runner.New(gameService, opts.tickInterval)
	r.SetSpeed(opts.speed)
	r.AddListener(broadcastResults(hub))

	recorder, err := telemetry.NewFileRecorder(opts.telemetryDir)
	if err != nil {
		return nil, err
	}
	if recorder != nil {
		r.AddListener(recorder)
		log.Printf("Writing telemetry to %s", opts.telemetryDir)
	}

	go r.Run(ctx)
	return recorder, nil
}

// broadcastResults pushes runner results to the session's WebSocket clients
func broadcastResults(hub *websocket.Hub) runner.ListenerFunc {
	return func(results []*service.AdvanceResult) {
		for _, res := range results {
			if hub.ClientCount(res.SessionID) == 0 {
				continue
			}
			hub.BroadcastToSession(res.SessionID, res.GameState)
			if len(res.Events) > 0 {
				hub.BroadcastEvent(res.SessionID, websocket.EventTick, res.Events)
			}
		}
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, the
// real-time runner and an /mcp proxy endpoint. If ngrok is enabled it also
// provisions a public tunnel. It returns when ctx is cancelled.
func runHTTPServer(ctx context.Context, gameService service.GameService, opts options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	recorder, err := startRunner(ctx, gameService, hub, opts)
	if err != nil {
		return err
	}
	defer recorder.Close()

	apiServer := api.NewServer(gameService, hub)
	addr := opts.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, opts)
		}()
	}

	var result error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case result = <-serveErr:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return result
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts options) {
	if opts.ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	// Closing the listener is what unblocks http.Serve on shutdown
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// externalAPIAvailable reports whether an API server answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	if baseURL == "" {
		return false
	}
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL along with the runner's telemetry recorder, if any. When ctx
// is done the recorder is closed, then the server stops.
func startInternalAPI(ctx context.Context, gameService service.GameService, opts options) (string, *telemetry.Recorder, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}
	internalAddr := listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	recorder, err := startRunner(ctx, gameService, hub, opts)
	if err != nil {
		listener.Close()
		return "", nil, err
	}

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		if err := recorder.Close(); err != nil {
			log.Printf("[TELEMETRY] close: %v", err)
		}
		httpServer.Close()
	}()

	return "http://" + internalAddr, recorder, nil
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an
// external API when one answers at opts.externalAPI; otherwise it starts an
// internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, gameService service.GameService, opts options) error {
	baseURL := opts.externalAPI

	log.Printf("Checking for external API server at %s...", baseURL)
	if externalAPIAvailable(baseURL) {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")
		internalURL, _, err := startInternalAPI(ctx, gameService, opts)
		if err != nil {
			return err
		}
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Power Grid Tycoon",
		"2.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Power Grid Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Run a power company. Buy land and generators, sell energy to a growing city
and keep your reputation above zero. Reputation 0 ends the game.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage game sessions
- game_state: finances, reputation, demand, slots and the generator catalog
- advance: run the simulation forward by a number of seconds
- buy_land: add a level of land (more generator slots)
- buy_generator / sell_generator: manage a slot
- queue_runtime: click a non-continuous generator to keep it running
- adjust_charge / set_charge_rate: change the price you charge per watt-year
- set_paused: pause or resume the session clock
- reset_game: start the session over
- command_history: review past commands
- list_configs: list available scenarios
- game_instructions: the full rules

NOTE: Command tools accept an optional 'intent' parameter. Explain what you expect to happen.`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intentProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Why you are issuing this command (optional)",
	}
}

func slotProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Zero-based land slot index",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional scenario selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance",
		Description: fmt.Sprintf("Run the simulation forward (max %.0f seconds per call)", service.MaxAdvanceSeconds),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"seconds": map[string]interface{}{
					"type":        "number",
					"description": "Seconds of simulated time to run",
				},
				"intent": intentProp(),
			},
			Required: []string{"session_id", "seconds"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_land",
		Description: "Buy one more level of land, adding empty generator slots",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"intent":     intentProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBuyLand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_generator",
		Description: "Buy a generator into an empty slot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"slot":       slotProp(),
				"generator": map[string]interface{}{
					"type":        "string",
					"description": "Generator name (e.g. Windmill) or catalog index",
				},
				"intent": intentProp(),
			},
			Required: []string{"session_id", "slot", "generator"},
		},
	}, c.handleBuyGenerator)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sell_generator",
		Description: "Sell the generator in a slot for part of its current price",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"slot":       slotProp(),
				"intent":     intentProp(),
			},
			Required: []string{"session_id", "slot"},
		},
	}, c.handleSellGenerator)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "queue_runtime",
		Description: fmt.Sprintf("Click a non-continuous generator to queue runtime (max %d clicks per call)", service.MaxClicks),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"slot":       slotProp(),
				"clicks": map[string]interface{}{
					"type":        "number",
					"description": "Number of clicks (default 1)",
				},
				"intent": intentProp(),
			},
			Required: []string{"session_id", "slot"},
		},
	}, c.handleQueueRuntime)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "adjust_charge",
		Description: "Raise or lower the charge rate by delta (never below 1)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"delta": map[string]interface{}{
					"type":        "number",
					"description": "Amount to add to the charge rate, may be negative",
				},
				"intent": intentProp(),
			},
			Required: []string{"session_id", "delta"},
		},
	}, c.handleAdjustCharge)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_charge_rate",
		Description: "Set the charge rate to an exact value (at least 1)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"rate": map[string]interface{}{
					"type":        "number",
					"description": "New charge rate per watt-year",
				},
				"intent": intentProp(),
			},
			Required: []string{"session_id", "rate"},
		},
	}, c.handleSetChargeRate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_paused",
		Description: "Pause or resume the session clock",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"paused": map[string]interface{}{
					"type":        "boolean",
					"description": "true to pause, false to resume",
				},
			},
			Required: []string{"session_id", "paused"},
		},
	}, c.handleSetPaused)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the session to the start of its scenario",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get paginated command history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and tips for playing it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP call to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool call arguments, tolerating a missing map
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// requireSession reads session_id and reports a tool error when it is missing
func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// intNumber reads a JSON number argument as an int
func intNumber(args map[string]interface{}, key string) (int, bool) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// Session handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		// Older clients sent config_name
		configID, _ = args["config_name"].(string)
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                   `json:"count"`
		Total    int                   `json:"total"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n", resp.Total)
	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "- %s (%s)", s.ID, s.ConfigName)
		if st := s.GameState; st != nil {
			fmt.Fprintf(&b, ": year %d, $%.2f, reputation %.0f%%", st.DisplayYear, st.Finances, st.Reputation*100)
			if st.GameOver {
				b.WriteString(", GAME OVER")
			} else if st.Paused {
				b.WriteString(", paused")
			}
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

// Game handlers

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	seconds, ok := args["seconds"].(float64)
	if !ok {
		return mcp.NewToolResultError("seconds is required"), nil
	}

	var result service.AdvanceResult
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/advance"), map[string]float64{"seconds": seconds}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAdvanceResult(&result)), nil
}

// command posts a game command and formats its CommandResult
func (c *Client) command(ctx context.Context, method, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.CommandResult
	if err := c.apiCall(ctx, method, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleBuyLand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return c.command(ctx, "POST", sessionPath(sessionID, "/land"), nil)
}

func (c *Client) handleBuyGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	slot, ok := intNumber(args, "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}

	// Accept a catalog index as a number as well as a name
	var generator string
	switch g := args["generator"].(type) {
	case string:
		generator = g
	case float64:
		generator = fmt.Sprintf("%d", int(g))
	}
	if generator == "" {
		return mcp.NewToolResultError("generator is required"), nil
	}

	body := map[string]interface{}{"slot": slot, "generator": generator}
	return c.command(ctx, "POST", sessionPath(sessionID, "/generators"), body)
}

func (c *Client) handleSellGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	slot, ok := intNumber(args, "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}
	return c.command(ctx, "DELETE", sessionPath(sessionID, fmt.Sprintf("/generators/%d", slot)), nil)
}

func (c *Client) handleQueueRuntime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	slot, ok := intNumber(args, "slot")
	if !ok {
		return mcp.NewToolResultError("slot is required"), nil
	}
	clicks, ok := intNumber(args, "clicks")
	if !ok {
		clicks = 1
	}

	path := sessionPath(sessionID, fmt.Sprintf("/generators/%d/runtime", slot))
	return c.command(ctx, "POST", path, map[string]int{"clicks": clicks})
}

func (c *Client) handleAdjustCharge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	delta, ok := intNumber(args, "delta")
	if !ok {
		return mcp.NewToolResultError("delta is required"), nil
	}
	return c.command(ctx, "POST", sessionPath(sessionID, "/charge-rate"), map[string]int{"delta": delta})
}

func (c *Client) handleSetChargeRate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	rate, ok := intNumber(args, "rate")
	if !ok {
		return mcp.NewToolResultError("rate is required"), nil
	}
	return c.command(ctx, "POST", sessionPath(sessionID, "/charge-rate"), map[string]int{"rate": rate})
}

func (c *Client) handleSetPaused(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	paused, ok := args["paused"].(bool)
	if !ok {
		return mcp.NewToolResultError("paused is required"), nil
	}

	action := "/resume"
	if paused {
		action = "/pause"
	}
	return c.command(ctx, "POST", sessionPath(sessionID, action), nil)
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Game reset\n\n" + formatGameState(resp.State)), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intNumber(args, "page"); ok {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	if limit, ok := intNumber(args, "limit"); ok {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Scenarios:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Bank: $%.0f, %d generators, %d starting slots, %.0fs per year\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.InitialBank, cfg.Generators, cfg.InitialSlots, cfg.SecondsPerYear)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Power Grid Tycoon - Complete Instructions

GAME OBJECTIVE:
You run the power company of a growing city. Earn money by selling energy,
reinvest it in land and generators, and keep the city happy. The game ends
when your reputation falls to 0%.

HOW TIME WORKS:
- Nothing happens until time passes. Use 'advance' to run the clock forward.
- Every scenario defines how many seconds make one in-world year.
- Population, demand per person, inflation and the competitor's price all
  grow exponentially with elapsed years.

MONEY:
- Revenue per tick = min(supply, demand) x charge rate.
- Upkeep is charged once per year boundary for every generator you own,
  scaled by inflation. Finances may go negative.
- Purchases must leave you with more than $0. Prices scale with inflation.
- Selling a generator refunds part of its current price.

GENERATORS:
- Each land slot holds one generator. buy_land adds a level of slots; land
  gets more expensive every time.
- Continuous generators (Windmill and up) produce all the time.
- Click-driven generators (the Hand Crank) only produce while they have
  queued runtime. Use queue_runtime to click them; runtime is capped.
- Bigger generators unlock in later years. game_state shows "* Year N *"
  next to anything not yet available.

REPUTATION AND SATISFACTION:
- Satisfaction compares supply with demand. Oversupply is fine, undersupply
  hurts.
- Your charge rate is compared with the competitor's price. Charging much
  more than the competitor lowers your expected reputation.
- Reputation drifts toward the expected value each tick, within a bounded
  step. At 0% the game is over until reset.

COMMANDS:
- advance(seconds)              run the simulation
- buy_land()                    add slots
- buy_generator(slot, name)     e.g. buy_generator(1, "Windmill")
- sell_generator(slot)          refund part of the price
- queue_runtime(slot, clicks)   keep a click-driven generator running
- adjust_charge(delta)          nudge your price up or down
- set_charge_rate(rate)         set an exact price
- set_paused(true|false)        freeze or resume the clock
- reset_game()                  start over

FAILURE CODES:
Commands never crash the game. A rejected command reports a code such as
slot_occupied, slot_empty, insufficient_funds, not_yet_available,
continuous_generator, slot_out_of_range, unknown_generator or game_over.

STRATEGY TIPS:
- Early on, fill empty slots with Windmills; they never need clicks.
- Watch supply vs demand after each advance. Demand keeps growing.
- Keep your charge rate near the competitor rate to protect reputation.
- Leave a cash buffer for upkeep at each year boundary.

Good luck keeping the lights on!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Year %d | Finances: $%.2f | Charge: %d | Reputation: %.1f%% (expected %.1f%%)\n",
		state.DisplayYear, state.Finances, state.ChargeRate,
		state.Reputation*100, state.ExpectedReputation*100)
	fmt.Fprintf(&b, "Population: %.0f | Demand: %.1f/s | Supply: %.1f/s | Satisfaction: %.0f%%\n",
		state.Population, state.DemandRate, state.SupplyRate, state.Satisfaction*100)
	fmt.Fprintf(&b, "Inflation: x%.3f | Competitor rate: %.2f | Upkeep/yr: $%.2f\n",
		state.Inflation, state.CompetitorRate, state.Upkeep)

	fmt.Fprintf(&b, "\nLand: level %d (%d slots) | Next land: $%.2f\n",
		state.LandSize, len(state.Slots), state.LandCost)
	for _, slot := range state.Slots {
		b.WriteString(formatSlot(slot))
		b.WriteString("\n")
	}

	if len(state.Generators) > 0 {
		b.WriteString("\nGenerators:\n")
		for _, g := range state.Generators {
			kind := "continuous"
			if !g.Archetype.Continuous {
				kind = "click"
			}
			line := fmt.Sprintf("  [%d] %s: $%.2f, %.0f W/yr, upkeep $%.0f, %s",
				g.ID, g.Archetype.Name, g.Price, g.Archetype.WattsPerYear, g.Archetype.UpkeepCost, kind)
			if !g.Available {
				line += " " + g.Label
			}
			b.WriteString(line + "\n")
		}
	}

	if state.Paused {
		b.WriteString("\n⏸ PAUSED")
	}
	if state.GameOver {
		b.WriteString("\n💀 GAME OVER")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatSlot(slot engine.SlotView) string {
	if slot.Empty {
		return fmt.Sprintf("  Slot %d: empty", slot.Index)
	}
	status := "idle"
	switch {
	case slot.Continuous:
		status = "running"
	case slot.Producing:
		status = fmt.Sprintf("running, %.1fs/%.0fs queued", slot.Runtime, slot.MaxRuntime)
	}
	return fmt.Sprintf("  Slot %d: %s (%s) sells for $%.2f", slot.Index, slot.Name, status, slot.SaleValue)
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString("✓ " + result.Message)
	} else {
		fmt.Fprintf(&b, "✗ Command rejected (%s): %s", result.Code, result.Message)
	}
	if result.Amount != 0 {
		fmt.Fprintf(&b, "\nAmount: $%.2f", result.Amount)
	}
	if result.ClicksApplied > 0 {
		fmt.Fprintf(&b, "\nClicks applied: %d", result.ClicksApplied)
		if result.Truncated {
			fmt.Fprintf(&b, " (capped at %d)", service.MaxClicks)
		}
	}
	b.WriteString(formatEvents(result.Events))

	if result.GameState != nil {
		b.WriteString("\n\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatAdvanceResult(result *service.AdvanceResult) string {
	var b strings.Builder

	r := result.Report
	fmt.Fprintf(&b, "Advanced %.1fs (%d steps): year %d → %d\n",
		r.SecondsElapsed, r.Steps, r.StartYear+1, r.EndYear+1)
	if result.Truncated {
		fmt.Fprintf(&b, "Requested %.1fs, capped at %.0fs\n", result.RequestedSeconds, result.Limit)
	}
	fmt.Fprintf(&b, "Revenue: $%.2f | Upkeep paid: $%.2f", r.Revenue, r.Upkeep)
	b.WriteString(formatEvents(result.Events))

	if result.GameState != nil {
		b.WriteString("\n\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatEvents(events []service.GameEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nEvents:")
	for _, e := range events {
		fmt.Fprintf(&b, "\n  - [%s] %s", e.Type, e.Message)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d, Total: %d):\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, cmd := range history.Commands {
		status := "✓"
		if !cmd.Success {
			status = "✗ " + cmd.Code
		}
		target := ""
		switch cmd.Action {
		case engine.ActionBuyGenerator, engine.ActionSellGenerator, engine.ActionQueueRuntime:
			target = fmt.Sprintf(" slot %d", cmd.Slot)
			if cmd.Archetype != "" {
				target += " " + cmd.Archetype
			}
		}
		fmt.Fprintf(&b, "#%d Y%d %s%s %s (finances $%.2f)\n",
			cmd.CommandNumber, cmd.Year+1, cmd.Action, target, status, cmd.Finances)
	}

	if history.HasNext {
		b.WriteString("(more on the next page)\n")
	}
	return b.String()
}

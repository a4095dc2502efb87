package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"queuesim/internal/events"
	"queuesim/internal/logger"
	"queuesim/internal/scenario"

	"golang.org/x/net/websocket"
)

//go:embed static/*
var staticFiles embed.FS

// Server はAPIサーバー
type Server struct {
	addr     string
	eventBus *events.Bus

	mu        sync.RWMutex
	running   bool
	engine    *scenario.Engine
	config    scenario.Config
	stop      context.CancelFunc
	wsClients map[*websocket.Conn]bool

	server *http.Server
}

// NewServer は新しいAPIサーバーを作成する
func NewServer(addr string) *Server {
	return &Server{
		addr:      addr,
		eventBus:  events.NewBus(),
		wsClients: make(map[*websocket.Conn]bool),
	}
}

// Start はサーバーを開始する
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/scenario/start", s.handleScenarioStart)
	mux.HandleFunc("/api/scenario/stop", s.handleScenarioStop)
	mux.HandleFunc("/api/presets", s.handlePresets)

	// WebSocket
	mux.Handle("/ws", websocket.Handler(s.handleWebSocket))

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to get static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// バックグラウンドでスナップショットとイベントを配信
	go s.broadcastLoop(ctx)
	go s.eventLoop(ctx)

	logger.Info("", "API Server starting on http://%s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StatusResponse はステータスレスポンス
type StatusResponse struct {
	Running      bool   `json:"running"`
	ScenarioName string `json:"scenario_name,omitempty"`
	Capacity     int    `json:"capacity"`
	NumGroups    int    `json:"num_groups"`
	Devices      int    `json:"devices"`
	QueueSizes   []int  `json:"queue_sizes,omitempty"`
}

func (s *Server) status() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatusResponse{
		Running: s.running,
	}
	if s.config.Name != "" {
		resp.ScenarioName = s.config.Name
		resp.Capacity = s.config.Capacity
		resp.NumGroups = s.config.NumGroups
		resp.Devices = s.config.NumGroups * s.config.DevicesPerGroup
	}
	if s.engine != nil {
		resp.QueueSizes = s.engine.QueueSizes()
	}
	return resp
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.writeJSON(w, s.status())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	if engine == nil {
		http.Error(w, "No scenario has run yet", http.StatusNotFound)
		return
	}

	snapshot := engine.Metrics()
	if snapshot == nil {
		http.Error(w, "No metrics available", http.StatusNotFound)
		return
	}
	s.writeJSON(w, snapshot)
}

// ScenarioRequest はシナリオ開始リクエスト
type ScenarioRequest struct {
	Preset          string `json:"preset"`
	Duration        string `json:"duration,omitempty"`
	Capacity        int    `json:"capacity,omitempty"`
	Groups          int    `json:"groups,omitempty"`
	DevicesPerGroup int    `json:"devices_per_group,omitempty"`
}

func (s *Server) handleScenarioStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		http.Error(w, "Scenario already running", http.StatusConflict)
		return
	}

	// プリセット取得
	config, ok := scenario.GetPreset(req.Preset)
	if !ok {
		config = scenario.QuickScenario()
	}

	// オーバーライド
	if req.Duration != "" {
		if d, err := time.ParseDuration(req.Duration); err == nil {
			config.Duration = d
		}
	}
	if req.Capacity > 0 {
		config.Capacity = req.Capacity
	}
	if req.Groups > 0 {
		config.NumGroups = req.Groups
	}
	if req.DevicesPerGroup > 0 {
		config.DevicesPerGroup = req.DevicesPerGroup
	}

	runCtx, cancel := context.WithCancel(context.Background())

	s.config = config
	s.engine = scenario.New(config)
	s.engine.SetEventBus(s.eventBus)
	s.stop = cancel
	s.running = true
	engine := s.engine
	s.mu.Unlock()

	// バックグラウンドで実行
	go func() {
		defer cancel()
		result, err := engine.Run(runCtx)

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		if err != nil {
			logger.Error("", "Scenario failed: %v", err)
			return
		}

		logger.Info("", "Scenario completed: %d generated, %d processed",
			result.TotalGenerated, result.TotalProcessed)
		s.broadcast(map[string]interface{}{
			"type":   "scenario_complete",
			"result": result,
		})
	}()

	s.writeJSON(w, map[string]string{"status": "started", "scenario": config.Name})
}

func (s *Server) handleScenarioStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	if !s.running || s.stop == nil {
		s.mu.Unlock()
		http.Error(w, "No scenario running", http.StatusBadRequest)
		return
	}
	stop := s.stop
	s.mu.Unlock()

	// 実行コンテキストの取り消しがゲートのシャットダウン要求に変換される
	stop()

	s.writeJSON(w, map[string]string{"status": "stop requested"})
}

// PresetInfo はプリセット情報
type PresetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var presets []PresetInfo
	for _, name := range scenario.ListPresets() {
		if cfg, ok := scenario.GetPreset(name); ok {
			presets = append(presets, PresetInfo{Name: cfg.Name, Description: cfg.Description})
		}
	}

	s.writeJSON(w, presets)
}

// WebSocket handling
func (s *Server) handleWebSocket(ws *websocket.Conn) {
	s.mu.Lock()
	s.wsClients[ws] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.wsClients, ws)
		s.mu.Unlock()
		_ = ws.Close()
	}()

	// Keep connection alive
	for {
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			break
		}
	}
}

func (s *Server) broadcast(data interface{}) {
	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for ws := range s.wsClients {
		clients = append(clients, ws)
	}
	s.mu.RUnlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	for _, ws := range clients {
		_ = websocket.Message.Send(ws, string(jsonData))
	}
}

// broadcastLoop は1秒ごとにステータスとメトリクスを配信する
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			running := s.running
			engine := s.engine
			s.mu.RUnlock()

			if !running {
				continue
			}

			payload := map[string]interface{}{
				"type":   "status",
				"status": s.status(),
			}
			if engine != nil {
				if snapshot := engine.Metrics(); snapshot != nil {
					payload["metrics"] = snapshot
				}
			}
			s.broadcast(payload)
		}
	}
}

// eventLoop はシミュレーションイベントをWebSocketへ転送する
func (s *Server) eventLoop(ctx context.Context) {
	ch := s.eventBus.Subscribe()
	defer s.eventBus.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(map[string]interface{}{
				"type":  "event",
				"event": event,
			})
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("", "Failed to encode JSON: %v", err)
	}
}

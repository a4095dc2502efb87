package scenario

import (
	"context"
	"strings"
	"testing"
	"time"

	"queuesim/internal/events"
	"queuesim/internal/simrand"
)

func testConfig() Config {
	return Config{
		Name:            "test",
		Description:     "unit test run",
		Duration:        300 * time.Millisecond,
		Capacity:        4,
		NumGroups:       2,
		DevicesPerGroup: 1,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 0, Max: 1},
		ProcessingTime:  simrand.Range{Min: 0, Max: 1},
		Seed:            1,
	}
}

func TestEngineRun(t *testing.T) {
	engine := New(testConfig())

	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ScenarioName != "test" {
		t.Errorf("expected scenario name test, got %s", result.ScenarioName)
	}
	if result.TotalGenerated == 0 {
		t.Error("expected some requests to be generated")
	}
	if result.TotalProcessed == 0 {
		t.Error("expected some requests to be processed")
	}
	if result.TotalProcessed+uint64(result.Discarded) != result.TotalGenerated {
		t.Errorf("conservation violated: generated %d, processed %d, discarded %d",
			result.TotalGenerated, result.TotalProcessed, result.Discarded)
	}
	if result.PeakQueueSize > result.Capacity {
		t.Errorf("peak size %d exceeds capacity %d", result.PeakQueueSize, result.Capacity)
	}
	if result.Devices != 2 {
		t.Errorf("expected 2 devices, got %d", result.Devices)
	}
	if engine.IsRunning() {
		t.Error("engine should not report running after Run returns")
	}
}

func TestEngineRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = 0 // run until cancelled

	engine := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := engine.Run(ctx); err != nil {
			t.Errorf("Run failed: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after context cancellation")
	}
}

func TestEngineRejectsConcurrentRun(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = 0

	engine := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = engine.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for !engine.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("engine never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := engine.Run(ctx); err == nil {
		t.Error("expected error for concurrent Run")
	}

	cancel()
	<-done
}

func TestEnginePublishesShutdownEvent(t *testing.T) {
	engine := New(testConfig())
	bus := events.NewBus()
	ch := bus.Subscribe()
	engine.SetEventBus(bus)

	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sawShutdown := false
	for {
		select {
		case event := <-ch:
			if event.Type == events.EventShutdownRequested {
				sawShutdown = true
			}
		default:
			if !sawShutdown {
				t.Error("expected a shutdown_requested event")
			}
			return
		}
	}
}

func TestEngineWithZeroDevices(t *testing.T) {
	cfg := testConfig()
	cfg.DevicesPerGroup = 0

	engine := New(cfg)
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TotalProcessed != 0 {
		t.Errorf("no devices but %d requests processed", result.TotalProcessed)
	}
	// The generator fills the queue and then blocks; everything it
	// produced is discarded at shutdown.
	if result.Discarded != int(result.TotalGenerated) {
		t.Errorf("expected all %d generated requests discarded, got %d",
			result.TotalGenerated, result.Discarded)
	}
	if result.Discarded > cfg.Capacity {
		t.Errorf("discarded %d exceeds capacity %d", result.Discarded, cfg.Capacity)
	}
}

func TestReportContents(t *testing.T) {
	result := &Result{
		ScenarioName:   "report-test",
		StartTime:      time.Now(),
		EndTime:        time.Now().Add(time.Second),
		Duration:       time.Second,
		TotalGenerated: 10,
		TotalProcessed: 8,
		Discarded:      2,
		PeakQueueSize:  4,
		Capacity:       5,
		Throughput:     1.5,
		NumGroups:      2,
		Devices:        4,
		PopsByGroup:    map[int]uint64{0: 5, 1: 3},
		PopsByType:     map[int]uint64{1: 2, 3: 6},
	}

	report := result.Report()

	for _, want := range []string{
		"report-test",
		"Generated:        10",
		"Processed:        8",
		"Discarded:        2",
		"Peak Queue Size:  4 (capacity 5)",
		"Throughput:       1.50 req/s",
		"Groups:           2",
		"Devices:          4",
		"group 1",
		"type 3",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg, ok := GetPreset(name)
		if !ok {
			t.Errorf("preset %s not found", name)
			continue
		}
		if cfg.Name != name {
			t.Errorf("preset %s has name %s", name, cfg.Name)
		}
		if cfg.Capacity <= 0 || cfg.NumGroups <= 0 {
			t.Errorf("preset %s has degenerate queue: %d/%d", name, cfg.Capacity, cfg.NumGroups)
		}
	}

	if _, ok := GetPreset("nope"); ok {
		t.Error("expected lookup failure for unknown preset")
	}
}

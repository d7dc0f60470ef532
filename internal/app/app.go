// Package app wires a Config into a running driver.Driver: it opens the
// input/output devices, loads the matrix and layer documents, verifies
// the result, and runs the tick loop until interrupted.
package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kbdremap/spacecadet/internal/config"
	"github.com/kbdremap/spacecadet/pkg/driver"
	"github.com/kbdremap/spacecadet/pkg/evdevio"
	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// Overrides holds CLI flag values that take precedence over config.yml
// for this run only; config.yml itself is never rewritten. A zero value
// (empty string / 0) means "no override, use what config.yml says".
type Overrides struct {
	Device     string  // overrides the input device path named in matrix.json
	MatrixFile string  // overrides Device.MatrixFile; used verbatim, not joined with configDir
	LayersFile string  // overrides Device.LayersFile; used verbatim, not joined with configDir
	RateHz     float64 // overrides Driver.TickIntervalMs, expressed as a tick rate
}

// App owns the running driver and the real devices backing it.
type App struct {
	configDir string
	overrides Overrides
	config    *Config

	input  *evdevio.InputDevice
	output *evdevio.OutputDevice
	driver *driver.Driver

	stop chan os.Signal
}

// New creates an App rooted at configDir, which holds config.yml plus
// the matrix/layer JSON documents named inside it. overrides lets the
// CLI take precedence over config.yml for this run.
func New(configDir string, overrides Overrides) *App {
	return &App{configDir: configDir, overrides: overrides}
}

// Init loads configuration, opens the input/output devices, loads the
// matrix and layer documents, and verifies the resulting driver.
func (a *App) Init() error {
	cfg, err := LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.overrides.MatrixFile != "" {
		cfg.Device.MatrixFile = a.overrides.MatrixFile
	}
	if a.overrides.LayersFile != "" {
		cfg.Device.LayersFile = a.overrides.LayersFile
	}
	if a.overrides.RateHz > 0 {
		cfg.Driver.TickIntervalMs = int(1000 / a.overrides.RateHz)
	}
	a.config = cfg

	matrixPath := cfg.Device.MatrixFile
	if a.overrides.MatrixFile == "" {
		matrixPath = filepath.Join(a.configDir, cfg.Device.MatrixFile)
	}
	devicePath, keyMatrix, err := config.LoadMatrix(matrixPath)
	if err != nil {
		return fmt.Errorf("loading matrix: %w", err)
	}
	if a.overrides.Device != "" {
		devicePath = a.overrides.Device
	}

	threshold := time.Duration(cfg.Driver.HoldThresholdMs) * time.Millisecond
	matrix := keycode.NewVirtualKeyboardMatrix(keyMatrix, threshold)

	log.Printf("opening input device %s", devicePath)
	input, err := evdevio.OpenInput(devicePath)
	if err != nil {
		return fmt.Errorf("opening input device: %w", err)
	}
	a.input = input

	log.Printf("creating output device %q", cfg.Device.OutputName)
	output, err := evdevio.OpenOutput(cfg.Device.OutputName)
	if err != nil {
		return fmt.Errorf("creating output device: %w", err)
	}
	a.output = output

	d := driver.New(input, output, matrix)

	layersPath := cfg.Device.LayersFile
	if a.overrides.LayersFile == "" {
		layersPath = filepath.Join(a.configDir, cfg.Device.LayersFile)
	}
	if err := config.LoadLayers(layersPath, d, matrix.Dim()); err != nil {
		return fmt.Errorf("loading layers: %w", err)
	}

	if err := d.Verify(); err != nil {
		return fmt.Errorf("driver verification failed: %w", err)
	}
	a.driver = d

	return nil
}

// Run ticks the driver at the configured interval until interrupted by
// SIGINT or SIGTERM.
func (a *App) Run() error {
	a.stop = make(chan os.Signal, 1)
	signal.Notify(a.stop, os.Interrupt, syscall.SIGTERM)

	interval := time.Duration(a.config.Driver.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("spacecadetd running (tick interval %s)", interval)
	for {
		select {
		case <-a.stop:
			log.Printf("shutting down")
			return nil
		case now := <-ticker.C:
			a.driver.Tick(now)
		}
	}
}

// Shutdown releases the input/output devices.
func (a *App) Shutdown() {
	if a.input != nil {
		if err := a.input.Close(); err != nil {
			log.Printf("closing input device: %v", err)
		}
	}
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			log.Printf("closing output device: %v", err)
		}
	}
}

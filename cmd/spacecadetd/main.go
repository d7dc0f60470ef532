// Command spacecadetd is the daemon entrypoint: it loads a config
// directory containing config.yml, matrix.json and layers.json, opens
// the input/output devices, and runs the remapping driver until
// interrupted.
package main

import (
	"flag"
	"log"

	"github.com/kbdremap/spacecadet/internal/app"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yml, matrix.json and layers.json")
	device := flag.String("device", "", "override the input device path named in matrix.json")
	matrix := flag.String("matrix", "", "override Device.MatrixFile from config.yml")
	layers := flag.String("layers", "", "override Device.LayersFile from config.yml")
	rate := flag.Float64("rate", 0, "override Driver.TickIntervalMs, expressed as a tick rate in hz")
	flag.Parse()

	overrides := app.Overrides{
		Device:     *device,
		MatrixFile: *matrix,
		LayersFile: *layers,
		RateHz:     *rate,
	}

	a := app.New(*configDir, overrides)
	if err := a.Init(); err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer a.Shutdown()

	if err := a.Run(); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

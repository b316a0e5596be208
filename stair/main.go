package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/gotakt/pkg/config"
	"github.com/itohio/gotakt/pkg/monitor"
	"github.com/itohio/gotakt/pkg/track"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Run the test against a simulated subject instead of the device")
		roundsFlag = flag.Int("rounds", 0, "Max rounds override for the simulation (0 = use config)")
		listFlag   = flag.Bool("list", false, "List serial ports and exit")
	)
	flag.Parse()

	if *listFlag {
		listPorts()
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override rounds if provided via command line
	if *roundsFlag > 0 {
		cfg.Staircase.MaxRounds = *roundsFlag
	}

	var source monitor.Source
	if *mockFlag {
		source = monitor.NewSim(cfg.Params(), cfg.Subject(), log.Default())
	} else {
		source = monitor.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, 0, log.Default())
	}

	if err := source.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	// Close the source on interrupt; the summary loop ends when progress closes
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		if err := source.Close(); err != nil {
			log.Printf("Error closing source: %v", err)
		}
	}()

	summaries := track.NewConverter(cfg.Track.Window, 0)(source.Progress())

	var last track.Summary
	for s := range summaries {
		p := s.Last
		log.Printf("Round %d/%d: answer %s (deviation %t, probed %.1f ms) -> step %.1f ms, best %.1f ms",
			p.Round, p.MaxRounds, p.Response, p.HasDeviation, p.Probed, p.Step, p.Best)
		last = s

		// The device goes quiet after its last round
		if p.Round+1 >= p.MaxRounds {
			break
		}
	}

	if sim, ok := source.(*monitor.Sim); ok {
		if err := sim.Err(); err != nil {
			log.Printf("Simulation ended: %v", err)
		}
	}
	if err := source.Close(); err != nil {
		log.Printf("Error closing source: %v", err)
	}

	if last.Rounds == 0 {
		log.Printf("No rounds recorded")
		return
	}

	log.Printf("Rounds: %d (yes %d, no %d, missed %d)", last.Rounds, last.Yes, last.No, last.Missed)
	log.Printf("Smallest detected deviation: %.1f ms", last.Best)
	if last.Reversals > 0 {
		log.Printf("Reversal estimate: %.1f ms ± %.1f ms over %d reversals", last.Estimate, last.Spread, last.Reversals)
	}
}

// listPorts prints the available serial ports.
func listPorts() {
	ports, err := monitor.Ports()
	if err != nil {
		log.Fatalf("Failed to list ports: %v", err)
	}
	if len(ports) == 0 {
		log.Printf("No serial ports found")
		return
	}
	for _, p := range ports {
		log.Printf("%s (%s)", p.Name, p.Description)
	}
}

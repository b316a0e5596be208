//go:build tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"context"
	"log"
	"machine"
	"os"
	"time"

	"github.com/itohio/gotakt/pkg/staircase"
	"github.com/itohio/gotakt/pkg/telemetry"
)

func main() {
	// Configure buzzer as output, buttons as pulled-up inputs (pressed reads low)
	PIN_BUZZER.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_BUZZER.Low()
	PIN_YES.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_NO.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// Give the USB console a moment to enumerate before the first log line
	time.Sleep(STARTUP_DELAY)

	logger := staircase.NewStdLogger(log.New(os.Stdout, "", 0))

	hw := staircase.Hardware{
		Buzzer: output(PIN_BUZZER),
		Yes:    input(PIN_YES),
		No:     input(PIN_NO),
		Delay:  staircase.Sleeper{},
	}

	controller, err := staircase.New(staircase.DefaultParams(), hw, &staircase.Options{
		Logger:   logger,
		Reporter: telemetry.NewWriter(os.Stdout),
	})
	if err != nil {
		logger.Warnf("invalid parameters: %v", err)
		halt()
	}

	if err := controller.Run(context.Background()); err != nil {
		logger.Warnf("halted: %v", err)
	}
	halt()
}

// halt parks the device for good. The buzzer is left low.
func halt() {
	PIN_BUZZER.Low()
	for {
		time.Sleep(time.Hour)
	}
}

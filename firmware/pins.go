//go:build tinygo

package main

import (
	"machine"
	"time"
)

const (
	// Buzzer and buttons (Raspberry Pi Pico)
	PIN_BUZZER = machine.GP15
	PIN_YES    = machine.GP14
	PIN_NO     = machine.GP17

	STARTUP_DELAY = 2 * time.Second
)

// output adapts a pin to the engine's output line.
type output machine.Pin

func (p output) High() error {
	machine.Pin(p).High()
	return nil
}

func (p output) Low() error {
	machine.Pin(p).Low()
	return nil
}

// input adapts a pin to the engine's input line.
type input machine.Pin

func (p input) Get() (bool, error) {
	return machine.Pin(p).Get(), nil
}

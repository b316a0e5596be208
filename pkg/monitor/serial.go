package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/itohio/gotakt/pkg/staircase"
	"github.com/itohio/gotakt/pkg/telemetry"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the console baud rate of the firmware.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the progress channel buffer.
	DefaultBufferSize = 16
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial follows a run on the device through its serial console.
// Progress lines are decoded; every other line is device log output and is
// passed to the logger.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	logger   *log.Logger

	conn      io.ReadCloser
	progress  chan staircase.Progress
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a Serial source with the specified port, baud rate, and buffer size.
func NewSerial(port string, baudRate int, bufSize int, logger *log.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		logger:   logger,
		progress: make(chan staircase.Progress, bufSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}
	return result, nil
}

// Connect opens the serial port and starts reading progress.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	port, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	s.start(port)
	return nil
}

// start begins reading from an opened connection. Callers hold mu.
func (s *Serial) start(conn io.ReadCloser) {
	s.conn = conn
	s.connected = true
	go s.read(conn)
}

// Close closes the port and waits for the progress channel to close.
func (s *Serial) Close() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil
	}

	s.cancel()
	var err error
	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil {
			err = fmt.Errorf("failed to close serial port: %w", cerr)
		}
		s.conn = nil
	}
	s.connected = false
	s.mu.Unlock()

	<-s.done
	return err
}

// Progress returns the channel of decoded progress records. It is closed
// when the connection ends.
func (s *Serial) Progress() <-chan staircase.Progress {
	return s.progress
}

// IsConnected returns whether the port is open.
func (s *Serial) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// read scans console lines until EOF, an error, or cancellation.
func (s *Serial) read(r io.Reader) {
	defer close(s.done)
	defer close(s.progress)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if s.ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !telemetry.IsRecord(line) {
			s.logger.Printf("device: %s", line)
			continue
		}

		p, err := telemetry.Parse(line)
		if err != nil {
			s.logger.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		select {
		case s.progress <- p:
		case <-s.ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && s.ctx.Err() == nil {
		s.logger.Printf("Error reading from serial port: %v", err)
	}
}

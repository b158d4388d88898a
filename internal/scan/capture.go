package scan

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// Capture reads decoded barcode lines from a serial/HID reader exposed as a
// character device and hands each raw line to the callback, unfiltered.
// Keyboard-wedge readers need no Capture at all; they type straight into
// the terminal.
type Capture struct {
	device string
	decode func(text string)

	mu     sync.Mutex
	file   *os.File
	active bool
}

func NewCapture(device string, decode func(text string)) *Capture {
	return &Capture{device: device, decode: decode}
}

// Start opens the device and begins reading lines. The device is released
// on Stop, on read error, and on EOF — every exit path.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return nil
	}

	file, err := os.Open(c.device)
	if err != nil {
		return fmt.Errorf("❌ Failed to open scanner device (%s): %w", c.device, err)
	}

	c.file = file
	c.active = true

	go func() {
		defer c.Stop()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			c.decode(scanner.Text())
		}
	}()

	return nil
}

// Stop releases the device. Idempotent.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.active = false
	c.file.Close()
	c.file = nil
}

// Package iic wraps register-oriented transactions on top of a raw I2C
// bus primitive.
package iic

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Bus is the raw transaction primitive. A combined write+read issues a
// repeated start between the two phases, so the register-address write and
// the data read cannot be split or interleaved by another transaction.
// periph.io's i2c.Bus satisfies it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// Open initializes the host drivers and opens the named I2C bus. An empty
// name selects the first available bus.
func Open(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return bus, nil
}

// WriteRegister writes one byte to a device register as a single two-byte
// transaction terminated with a stop condition. No retry on failure.
func WriteRegister(b Bus, addr uint16, reg, val byte) error {
	if err := b.Tx(addr, []byte{reg, val}, nil); err != nil {
		return fmt.Errorf("write reg 0x%02X=0x%02X dev 0x%02X: %w", reg, val, addr, err)
	}
	return nil
}

// ReadRegisters reads len(buf) consecutive registers starting at reg. The
// register address goes out without a stop condition and the read follows
// on a repeated start. On error the buffer contents are undefined and the
// caller must skip conversion.
func ReadRegisters(b Bus, addr uint16, reg byte, buf []byte) error {
	if err := b.Tx(addr, []byte{reg}, buf); err != nil {
		return fmt.Errorf("read %d regs at 0x%02X dev 0x%02X: %w", len(buf), reg, addr, err)
	}
	return nil
}

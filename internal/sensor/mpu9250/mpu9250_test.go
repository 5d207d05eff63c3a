package mpu9250

import (
	"errors"
	"math"
	"testing"
)

type write struct {
	addr uint16
	reg  byte
	val  byte
}

// fakeBus serves reads from a per-device register map and records writes.
type fakeBus struct {
	writes []write
	reads  map[uint16]map[byte][]byte
	fail   map[uint16]map[byte]error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		reads: make(map[uint16]map[byte][]byte),
		fail:  make(map[uint16]map[byte]error),
	}
}

func (f *fakeBus) setRead(addr uint16, reg byte, data []byte) {
	if f.reads[addr] == nil {
		f.reads[addr] = make(map[byte][]byte)
	}
	f.reads[addr][reg] = data
}

func (f *fakeBus) setFail(addr uint16, reg byte, err error) {
	if f.fail[addr] == nil {
		f.fail[addr] = make(map[byte]error)
	}
	f.fail[addr][reg] = err
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	reg := w[0]
	if err := f.fail[addr][reg]; err != nil {
		return err
	}
	if r == nil {
		f.writes = append(f.writes, write{addr: addr, reg: reg, val: w[1]})
		return nil
	}
	copy(r, f.reads[addr][reg])
	return nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func motionBuf(ax, ay, az, temp, gx, gy, gz int16) []byte {
	vals := []int16{ax, ay, az, temp, gx, gy, gz}
	buf := make([]byte, motionLen)
	for i, v := range vals {
		buf[2*i] = byte(uint16(v) >> 8)
		buf[2*i+1] = byte(uint16(v))
	}
	return buf
}

func TestMotionAssemblyOffsets(t *testing.T) {
	// Distinct raw words per channel verify the byte pairing
	// [0,1][2,3][4,5][6,7][8,9][10,11][12,13], MSB first.
	buf := motionBuf(0x0102, 0x0304, 0x0506, 0x0708, 0x090A, 0x0B0C, 0x0D0E)
	d := convertMotion(buf)

	wantAccel := []int16{0x0102, 0x0304, 0x0506}
	for i, raw := range wantAccel {
		if got := d.Accel[i]; !almostEqual(got, float64(raw)/accelSens) {
			t.Errorf("accel[%d] = %v, want %v", i, got, float64(raw)/accelSens)
		}
	}
	if want := float64(0x0708)/tempSens + tempOffset; !almostEqual(d.Temp, want) {
		t.Errorf("temp = %v, want %v", d.Temp, want)
	}
	wantGyro := []int16{0x090A, 0x0B0C, 0x0D0E}
	for i, raw := range wantGyro {
		if got := d.Gyro[i]; !almostEqual(got, float64(raw)/gyroSens) {
			t.Errorf("gyro[%d] = %v, want %v", i, got, float64(raw)/gyroSens)
		}
	}
}

func TestAccelConversionRoundTrip(t *testing.T) {
	d := convertMotion(motionBuf(4096, -4096, 0, 0, 0, 0, 0))
	if !almostEqual(d.Accel[0], 1.0) {
		t.Errorf("raw 4096 = %v g, want 1.000", d.Accel[0])
	}
	if !almostEqual(d.Accel[1], -1.0) {
		t.Errorf("raw -4096 = %v g, want -1.000", d.Accel[1])
	}
}

func TestTempConversionZero(t *testing.T) {
	d := convertMotion(motionBuf(0, 0, 0, 0, 0, 0, 0))
	if !almostEqual(d.Temp, 36.53) {
		t.Errorf("raw 0 = %v C, want 36.53", d.Temp)
	}
}

func TestGyroConversion(t *testing.T) {
	d := convertMotion(motionBuf(0, 0, 0, 0, 1640, 0, 0))
	if math.Abs(d.Gyro[0]-100.0) > 1e-6 {
		t.Errorf("raw 1640 = %v dps, want 100.0", d.Gyro[0])
	}
}

func TestMagAdjustmentNeutral(t *testing.T) {
	if got := magAdjustment(128); !almostEqual(got, 1.0) {
		t.Errorf("adjustment(128) = %v, want 1.0", got)
	}
}

func TestMagConversion(t *testing.T) {
	// raw 100 little-endian on each axis, neutral adjustment.
	buf := []byte{100, 0, 100, 0, 100, 0, 0x10}
	d := convertMag(buf, [3]byte{128, 128, 128})
	for i := 0; i < 3; i++ {
		if !almostEqual(d.Field[i], 15.0) {
			t.Errorf("field[%d] = %v uT, want 15.0", i, d.Field[i])
		}
	}
}

func TestMagLittleEndianAssembly(t *testing.T) {
	buf := []byte{0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x10}
	d := convertMag(buf, [3]byte{128, 128, 128})
	want := []int16{0x0102, 0x0304, 0x0506}
	for i, raw := range want {
		if got := d.Field[i]; !almostEqual(got, float64(raw)*magScale) {
			t.Errorf("field[%d] = %v, want %v", i, got, float64(raw)*magScale)
		}
	}
}

func TestReadMotionError(t *testing.T) {
	bus := newFakeBus()
	bus.setFail(MPUAddr, regAccelXOutH, errors.New("short read"))
	m := New(bus)
	if _, err := m.ReadMotion(); err == nil {
		t.Fatal("expected error on failed burst read")
	}
}

func TestReadMagNotReady(t *testing.T) {
	bus := newFakeBus()
	bus.setRead(MagAddr, magRegST1, []byte{0x00})
	// Poison the data registers: touching them when DRDY is clear is a bug.
	bus.setFail(MagAddr, magRegHXL, errors.New("unexpected data read"))
	m := New(bus)

	_, ok, err := m.ReadMag()
	if err != nil {
		t.Fatalf("not-ready must not be an error, got %v", err)
	}
	if ok {
		t.Error("ok = true with DRDY clear")
	}
}

func TestReadMagOverflow(t *testing.T) {
	bus := newFakeBus()
	bus.setRead(MagAddr, magRegST1, []byte{bitDRDY})
	bus.setRead(MagAddr, magRegHXL, []byte{100, 0, 100, 0, 100, 0, bitHOFL})
	m := New(bus)

	_, ok, err := m.ReadMag()
	if err != nil {
		t.Fatalf("overflow must not be an error, got %v", err)
	}
	if ok {
		t.Error("ok = true with overflow bit set")
	}
}

func TestReadMagSample(t *testing.T) {
	bus := newFakeBus()
	bus.setRead(MagAddr, magRegST1, []byte{bitDRDY})
	bus.setRead(MagAddr, magRegHXL, []byte{100, 0, 200, 0, 44, 1, 0x10})
	m := New(bus)
	m.asa = [3]byte{128, 128, 128}

	d, ok, err := m.ReadMag()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if !almostEqual(d.Field[0], 15.0) {
		t.Errorf("field[0] = %v, want 15.0", d.Field[0])
	}
	if !almostEqual(d.Field[1], 30.0) {
		t.Errorf("field[1] = %v, want 30.0", d.Field[1])
	}
	if !almostEqual(d.Field[2], 45.0) {
		t.Errorf("field[2] = %v, want 45.0", d.Field[2])
	}
}

func TestInitSequence(t *testing.T) {
	bus := newFakeBus()
	bus.setRead(MagAddr, magRegASAX, []byte{130, 140, 150})
	bus.setRead(MagAddr, RegMagWIA, []byte{0x48})
	m := New(bus)

	if err := m.Init(); err != nil {
		t.Fatal(err)
	}

	want := []write{
		{MPUAddr, regPwrMgmt1, valWake},
		{MPUAddr, regConfig, valDLPF},
		{MPUAddr, regGyroConfig, valGyro2000DPS},
		{MPUAddr, regAccelConfig, valAccel8G},
		{MPUAddr, regAccelConfig2, valAccelDLPF},
		{MPUAddr, regSmplrtDiv, valSmplrtDiv},
		{MPUAddr, regIntPinCfg, valBypassEn},
		{MagAddr, magRegCNTL1, magModePowerDn},
		{MagAddr, magRegCNTL1, magModeFuseROM},
		{MagAddr, magRegCNTL1, magModePowerDn},
		{MagAddr, magRegCNTL1, magModeCont100H},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("got %d writes, want %d: %v", len(bus.writes), len(want), bus.writes)
	}
	for i, w := range want {
		if bus.writes[i] != w {
			t.Errorf("write %d = %+v, want %+v", i, bus.writes[i], w)
		}
	}
	if m.SensitivityAdjustment() != [3]byte{130, 140, 150} {
		t.Errorf("asa = %v, want [130 140 150]", m.SensitivityAdjustment())
	}
}

func TestInitContinuesAfterWriteFailure(t *testing.T) {
	bus := newFakeBus()
	bus.setFail(MPUAddr, regGyroConfig, errors.New("nack"))
	bus.setRead(MagAddr, magRegASAX, []byte{128, 128, 128})
	bus.setRead(MagAddr, RegMagWIA, []byte{0x48})
	m := New(bus)

	if err := m.Init(); err != nil {
		t.Fatalf("init must be best-effort, got %v", err)
	}
	// The later writes still happened.
	last := bus.writes[len(bus.writes)-1]
	if last.reg != magRegCNTL1 || last.val != magModeCont100H {
		t.Errorf("last write = %+v, want continuous mode", last)
	}
}

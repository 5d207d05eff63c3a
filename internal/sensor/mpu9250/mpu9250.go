// Package mpu9250 drives the MPU-9250 inertial unit: the MPU-6500
// accel/gyro/temp core plus the AK8963 magnetometer reached over I2C
// bypass mode.
package mpu9250

import (
	"time"

	log "github.com/sirupsen/logrus"

	"imu_poller/internal/iic"
	sensor2 "imu_poller/internal/sensor"
)

const settleDelay = time.Millisecond

// MPU9250 keeps the bus handle and the magnetometer factory sensitivity
// adjustment bytes. The adjustment bytes are only meaningful after Init has
// completed the fuse-ROM read and are never rewritten afterward.
type MPU9250 struct {
	bus iic.Bus
	asa [3]byte
}

func New(bus iic.Bus) *MPU9250 {
	return &MPU9250{bus: bus}
}

// writeConfig performs one best-effort configuration write. Failures are
// logged and initialization continues; nothing retries.
func (m *MPU9250) writeConfig(addr uint16, reg, val byte) {
	if err := iic.WriteRegister(m.bus, addr, reg, val); err != nil {
		log.Warnln("config write failed:", err)
	}
}

// Init wakes the MPU, configures ranges and filters, enables bypass mode
// and negotiates the AK8963 into continuous 16-bit 100 Hz measurement,
// reading the fuse-ROM sensitivity adjustment along the way.
func (m *MPU9250) Init() error {
	// Wake from sleep, let the clock settle.
	m.writeConfig(MPUAddr, regPwrMgmt1, valWake)
	time.Sleep(settleDelay)

	m.writeConfig(MPUAddr, regConfig, valDLPF)
	m.writeConfig(MPUAddr, regGyroConfig, valGyro2000DPS)
	m.writeConfig(MPUAddr, regAccelConfig, valAccel8G)
	m.writeConfig(MPUAddr, regAccelConfig2, valAccelDLPF)
	m.writeConfig(MPUAddr, regSmplrtDiv, valSmplrtDiv)

	// Put the magnetometer directly on the main bus.
	m.writeConfig(MPUAddr, regIntPinCfg, valBypassEn)
	time.Sleep(settleDelay)

	// Fuse-ROM access is only allowed from power-down mode.
	m.writeConfig(MagAddr, magRegCNTL1, magModePowerDn)
	time.Sleep(settleDelay)
	m.writeConfig(MagAddr, magRegCNTL1, magModeFuseROM)
	time.Sleep(settleDelay)

	if err := iic.ReadRegisters(m.bus, MagAddr, magRegASAX, m.asa[:]); err != nil {
		log.Warnln("sensitivity adjustment read failed:", err)
	}

	m.writeConfig(MagAddr, magRegCNTL1, magModePowerDn)
	time.Sleep(settleDelay)

	// Diagnostic only, the value is reported but not validated.
	var who [1]byte
	if err := iic.ReadRegisters(m.bus, MagAddr, RegMagWIA, who[:]); err != nil {
		log.Warnln("identity read failed:", err)
	} else {
		log.Infof("AK8963 WHO_AM_I = 0x%02X", who[0])
	}

	m.writeConfig(MagAddr, magRegCNTL1, magModeCont100H)

	// Confirmation re-read of the adjustment bytes.
	if err := iic.ReadRegisters(m.bus, MagAddr, magRegASAX, m.asa[:]); err != nil {
		log.Warnln("sensitivity adjustment re-read failed:", err)
	}
	log.Infof("ASA: %d %d %d", m.asa[0], m.asa[1], m.asa[2])

	return nil
}

// SensitivityAdjustment returns the fuse-ROM bytes read during Init.
func (m *MPU9250) SensitivityAdjustment() [3]byte {
	return m.asa
}

// ReadMotion burst-reads the fourteen accel/temp/gyro output registers and
// converts them. A failed or short read returns an error and no partial
// conversion happens.
func (m *MPU9250) ReadMotion() (sensor2.MotionData, error) {
	var buf [motionLen]byte
	if err := iic.ReadRegisters(m.bus, MPUAddr, regAccelXOutH, buf[:]); err != nil {
		return sensor2.MotionData{}, err
	}
	return convertMotion(buf[:]), nil
}

// ReadMag checks the data-ready flag, burst-reads the measurement plus the
// trailing status byte and converts. ok is false when no sample is ready or
// the field overflowed; both are normal conditions, not errors.
func (m *MPU9250) ReadMag() (sensor2.MagData, bool, error) {
	var st1 [1]byte
	if err := iic.ReadRegisters(m.bus, MagAddr, magRegST1, st1[:]); err != nil {
		return sensor2.MagData{}, false, err
	}
	if st1[0]&bitDRDY == 0 {
		return sensor2.MagData{}, false, nil
	}

	var buf [magLen]byte
	if err := iic.ReadRegisters(m.bus, MagAddr, magRegHXL, buf[:]); err != nil {
		return sensor2.MagData{}, false, err
	}
	if buf[6]&bitHOFL != 0 {
		// Field exceeded the measurable range, discard the sample.
		return sensor2.MagData{}, false, nil
	}
	return convertMag(buf[:], m.asa), true, nil
}

func be16(hi, lo byte) int16 {
	return int16(hi)<<8 | int16(lo)
}

func le16(lo, hi byte) int16 {
	return int16(hi)<<8 | int16(lo)
}

// convertMotion assembles the 14-byte burst (most significant byte first)
// into seven signed words and scales them to g, degrees Celsius and dps.
func convertMotion(buf []byte) sensor2.MotionData {
	var d sensor2.MotionData
	for i := 0; i < 3; i++ {
		d.Accel[i] = float64(be16(buf[2*i], buf[2*i+1])) / accelSens
	}
	d.Temp = float64(be16(buf[6], buf[7]))/tempSens + tempOffset
	for i := 0; i < 3; i++ {
		d.Gyro[i] = float64(be16(buf[8+2*i], buf[9+2*i])) / gyroSens
	}
	return d
}

// magAdjustment derives the per-axis scale factor from one fuse-ROM byte.
func magAdjustment(asa byte) float64 {
	return (float64(asa)-128)/256.0 + 1.0
}

// convertMag assembles the little-endian axis words and applies the
// per-axis factory adjustment and the 16-bit resolution scale.
func convertMag(buf []byte, asa [3]byte) sensor2.MagData {
	var d sensor2.MagData
	for i := 0; i < 3; i++ {
		raw := le16(buf[2*i], buf[2*i+1])
		d.Field[i] = float64(raw) * magAdjustment(asa[i]) * magScale
	}
	return d
}

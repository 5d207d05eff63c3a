package sensor

// MotionData is one converted accelerometer/gyroscope/temperature sample.
// Acceleration is in g, temperature in degrees Celsius, angular rate in
// degrees per second.
type MotionData struct {
	Accel [3]float64
	Temp  float64
	Gyro  [3]float64
}

// MagData is one converted magnetometer sample in microtesla.
type MagData struct {
	Field [3]float64
}

type Sensor interface {
	// Init brings the device from its power-on state to continuous
	// measurement. Called exactly once before the first read.
	Init() error
	// ReadMotion reads and converts one accel/gyro/temp sample.
	ReadMotion() (MotionData, error)
	// ReadMag reads and converts one magnetometer sample. ok is false when
	// no new sample is ready or the field overflowed the sensor range;
	// neither condition is an error.
	ReadMag() (data MagData, ok bool, err error)
}

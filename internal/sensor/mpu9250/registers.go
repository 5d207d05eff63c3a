package mpu9250

// 7-bit bus addresses. The AK8963 sits on the MPU's auxiliary bus and is
// only reachable on the main bus once bypass mode is enabled.
const (
	MPUAddr uint16 = 0x68
	MagAddr uint16 = 0x0C
)

// Identity registers, exported for bus probing.
const (
	RegWhoAmI = 0x75 // MPU-6500 WHO_AM_I
	RegMagWIA = 0x00 // AK8963 WIA
)

// MPU-6500 side registers
const (
	regSmplrtDiv    = 0x19
	regConfig       = 0x1A
	regGyroConfig   = 0x1B
	regAccelConfig  = 0x1C
	regAccelConfig2 = 0x1D
	regIntPinCfg    = 0x37
	regAccelXOutH   = 0x3B
	regPwrMgmt1     = 0x6B
)

// AK8963 registers
const (
	magRegST1   = 0x02
	magRegHXL   = 0x03
	magRegCNTL1 = 0x0A
	magRegASAX  = 0x10
)

// register values written during init
const (
	valWake         = 0x00 // PWR_MGMT_1: clear sleep bit
	valDLPF         = 0x03 // CONFIG: DLPF 41/42 Hz
	valGyro2000DPS  = 0x18 // GYRO_CONFIG: FS_SEL=3
	valAccel8G      = 0x10 // ACCEL_CONFIG: ACCEL_FS_SEL=2
	valAccelDLPF    = 0x03 // ACCEL_CONFIG2
	valSmplrtDiv    = 0x07 // SMPLRT_DIV: 1 kHz / (1+7)
	valBypassEn     = 0x02 // INT_PIN_CFG: BYPASS_EN
	magModePowerDn  = 0x00
	magModeFuseROM  = 0x0F
	magModeCont100H = 0x16 // continuous mode 2, 16-bit output
)

// status bits
const (
	bitDRDY = 0x01 // ST1: data ready
	bitHOFL = 0x08 // ST2: magnetic sensor overflow
)

// burst read sizes
const (
	motionLen = 14 // accel xyz, temp, gyro xyz, big-endian pairs
	magLen    = 7  // mag xyz little-endian + ST2
)

// conversion factors for the configured ranges
const (
	accelSens  = 4096.0 // LSB/g at +/-8g
	gyroSens   = 16.4   // LSB/dps at +/-2000 dps
	tempSens   = 340.0
	tempOffset = 36.53
	magScale   = 0.15 // uT/LSB in 16-bit mode
)

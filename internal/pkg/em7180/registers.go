package em7180

// DefaultAddress is the 7-bit I2C address of the SENtral.
const DefaultAddress = 0x28

// Result registers.
const (
	regQX       = 0x00 // quaternion, 4 x float32 LE
	regQTime    = 0x10
	regMX       = 0x12 // magnetometer, 3 x int16 LE
	regMTime    = 0x18
	regAX       = 0x1A // accelerometer, 3 x int16 LE
	regATime    = 0x20
	regGX       = 0x22 // gyroscope, 3 x int16 LE
	regGTime    = 0x28
	regBaro     = 0x2A
	regTemp     = 0x2E
)

// Status and control registers.
const (
	regQRateDivisor     = 0x32
	regEnableEvents     = 0x33
	regHostControl      = 0x34
	regEventStatus      = 0x35
	regSensorStatus     = 0x36
	regSentralStatus    = 0x37
	regAlgorithmStatus  = 0x38
	regFeatureFlags     = 0x39
	regParamAcknowledge = 0x3A
	regSavedParamByte0  = 0x3B

	regActualMagRate   = 0x45
	regActualAccelRate = 0x46
	regActualGyroRate  = 0x47
	regActualBaroRate  = 0x48
	regActualTempRate  = 0x49

	regErrorRegister     = 0x50
	regAlgorithmControl  = 0x54
	regMagRate           = 0x55
	regAccelRate         = 0x56
	regGyroRate          = 0x57
	regBaroRate          = 0x58
	regAccelLPFBandwidth = 0x5B
	regGyroLPFBandwidth  = 0x5C
	regLoadParamByte0    = 0x60
	regParamRequest      = 0x64

	regROMVersion1 = 0x70
	regRAMVersion1 = 0x72
	regRAMVersion2 = 0x73

	regProductID       = 0x90
	regRevisionID      = 0x91
	regRunStatus       = 0x92
	regResetRequest    = 0x9B
	regPassThruControl = 0xA0
)

// Identity of a supported part.
const (
	ExpectedROMVersion = 0xE609
	ExpectedProductID  = 0x80
	ExpectedRevisionID = 0x02
)

// Register values written during bring-up.
const (
	hostRunDisable = 0x00
	hostRunEnable  = 0x01

	passThruDisable = 0x00

	algorithmNormal        = 0x00
	algorithmParamTransfer = 0x80

	resetRequest = 0x01

	// 41 Hz low-pass filter for accelerometer and gyroscope
	lpfBandwidth41Hz = 0x03

	baroRateEnable = 0x80

	// raise the host interrupt on CPU reset, error and quaternion result events
	eventsDefault = 0x07

	paramWrite = 0x80
)

// Parameter numbers of the parameter transfer interface.
const (
	paramStillnessEnable = 0x49
	paramMagAccelFS      = 0x4A
	paramGyroFS          = 0x4B
)

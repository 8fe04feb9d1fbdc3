package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Source names accepted by SOURCE.
const (
	SourceMock = "mock"
	SourceIMU  = "imu"
	SourceGPS  = "gps"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDTracker  string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicOrientation string // deviceorientation samples
	TopicMotion      string // devicemotion samples
	TopicScreen      string // viewport / orientationchange / resize / calibration events
	TopicReadout     string // tracker output

	// Producer
	Source string // "mock", "imu" or "gps"

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Tracker
	DampenerThreshold float64 // degrees
	MotionGate        float64 // m/s²
	FacingBeta        float64 // degrees
	FacingGamma       float64 // degrees
	SharedUnwrap      bool

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages go through InitGlobal/Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config with every optional value filled in.
func Defaults() *Config {
	return &Config{
		MQTTClientIDProducer: "motion-producer",
		MQTTClientIDTracker:  "motion-tracker",
		MQTTClientIDConsole:  "motion-console",
		MQTTClientIDWeb:      "motion-web",
		MQTTClientIDDisplay:  "motion-display",

		TopicOrientation: "motion/orientation",
		TopicMotion:      "motion/motion",
		TopicScreen:      "motion/screen",
		TopicReadout:     "motion/readout",

		Source: SourceMock,

		GPSBaudRate: 9600,

		DampenerThreshold: 5,
		MotionGate:        0.5,
		FacingBeta:        70,
		FacingGamma:       45,

		SampleInterval:     100,
		ConsoleLogInterval: 500,

		WebServerPort: 8080,
		WebStaticDir:  "web",

		DisplayUpdateInterval: 250,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Defaults(). Blank lines and lines
// starting with # are skipped.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ORIENTATION":
		c.TopicOrientation = value
	case "TOPIC_MOTION":
		c.TopicMotion = value
	case "TOPIC_SCREEN":
		c.TopicScreen = value
	case "TOPIC_READOUT":
		c.TopicReadout = value

	// Producer
	case "SOURCE":
		switch value {
		case SourceMock, SourceIMU, SourceGPS:
			c.Source = value
		default:
			return fmt.Errorf("SOURCE must be one of %s, %s, %s, got %q", SourceMock, SourceIMU, SourceGPS, value)
		}

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Tracker
	case "DAMPENER_THRESHOLD":
		v, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.DampenerThreshold = v
	case "MOTION_GATE":
		v, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.MotionGate = v
	case "FACING_BETA":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid FACING_BETA %q: %w", value, err)
		}
		if v <= 0 || v > 180 {
			return fmt.Errorf("FACING_BETA must be in (0,180], got %v", v)
		}
		c.FacingBeta = v
	case "FACING_GAMMA":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid FACING_GAMMA %q: %w", value, err)
		}
		if v <= 0 || v > 90 {
			return fmt.Errorf("FACING_GAMMA must be in (0,90], got %v", v)
		}
		c.FacingGamma = v
	case "SHARED_UNWRAP":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid SHARED_UNWRAP %q: %w", value, err)
		}
		c.SharedUnwrap = b

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parsePositive(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, v)
	}
	return v, nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.Source == SourceIMU && (c.IMUSPIDevice == "" || c.IMUCSPin == "") {
		return fmt.Errorf("IMU_SPI_DEVICE and IMU_CS_PIN are required when SOURCE=imu")
	}
	if c.Source == SourceGPS && c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required when SOURCE=gps")
	}
	if c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be positive")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive")
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

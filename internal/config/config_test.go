package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("MQTT_BROKER=tcp://localhost:1883\n"))
	require.NoError(t, err)

	want := Defaults()
	want.MQTTBroker = "tcp://localhost:1883"
	assert.Equal(t, want, cfg)
}

func TestParseValues(t *testing.T) {
	in := `
# broker
MQTT_BROKER = tcp://pi.local:1883
TOPIC_READOUT=phone/readout
SOURCE=gps
GPS_SERIAL_PORT=/dev/serial0
GPS_BAUD_RATE=38400
DAMPENER_THRESHOLD=7.5
MOTION_GATE=0.25
FACING_BETA=60
FACING_GAMMA=30
SHARED_UNWRAP=true
SAMPLE_INTERVAL=50
WEB_SERVER_PORT=9090
DISPLAY_I2C_BUS=1
`
	cfg, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "tcp://pi.local:1883", cfg.MQTTBroker)
	assert.Equal(t, "phone/readout", cfg.TopicReadout)
	assert.Equal(t, SourceGPS, cfg.Source)
	assert.Equal(t, "/dev/serial0", cfg.GPSSerialPort)
	assert.Equal(t, 38400, cfg.GPSBaudRate)
	assert.Equal(t, 7.5, cfg.DampenerThreshold)
	assert.Equal(t, 0.25, cfg.MotionGate)
	assert.Equal(t, 60.0, cfg.FacingBeta)
	assert.Equal(t, 30.0, cfg.FacingGamma)
	assert.True(t, cfg.SharedUnwrap)
	assert.Equal(t, 50, cfg.SampleInterval)
	assert.Equal(t, 9090, cfg.WebServerPort)
	assert.Equal(t, "1", cfg.DisplayI2CBus)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing broker":       "SOURCE=mock\n",
		"no equals":            "MQTT_BROKER\n",
		"unknown key":          "MQTT_BROKER=x\nFOO=1\n",
		"bad source":           "MQTT_BROKER=x\nSOURCE=lidar\n",
		"imu without device":   "MQTT_BROKER=x\nSOURCE=imu\n",
		"gps without port":     "MQTT_BROKER=x\nSOURCE=gps\n",
		"negative dampener":    "MQTT_BROKER=x\nDAMPENER_THRESHOLD=-1\n",
		"facing gamma too big": "MQTT_BROKER=x\nFACING_GAMMA=120\n",
		"bad bool":             "MQTT_BROKER=x\nSHARED_UNWRAP=maybe\n",
		"zero interval":        "MQTT_BROKER=x\nSAMPLE_INTERVAL=0\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion_config.txt")
	require.NoError(t, os.WriteFile(path, []byte("MQTT_BROKER=tcp://localhost:1883\nSOURCE=mock\n"), 0o644))

	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	require.NoError(t, InitGlobal(path))
	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)

	// Second call is a no-op.
	require.NoError(t, InitGlobal("does-not-exist"))
	assert.Same(t, cfg, Get())
}

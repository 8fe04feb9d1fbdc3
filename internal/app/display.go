package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

const (
	displayWidth  = 128
	displayHeight = 64
)

// displayState holds the latest readout for the update loop.
type displayState struct {
	mu   sync.RWMutex
	last motion.Readout
	have bool
}

func (d *displayState) set(r motion.Readout) {
	d.mu.Lock()
	d.last = r
	d.have = true
	d.mu.Unlock()
}

func (d *displayState) snapshot() (motion.Readout, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last, d.have
}

// RunDisplay shows tracker readouts on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus ("" picks the first one)
	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: SSD1306 initialized")

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	state := &displayState{}
	err = subscribe("display", client, cfg.TopicReadout, func(payload []byte) {
		r, err := decodeReadout(payload)
		if err != nil {
			log.Printf("display: %v", err)
			return
		}
		state.set(r)
	})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		r, have := state.snapshot()
		if err := dev.Draw(dev.Bounds(), renderReadout(r, have), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// drawLines writes one line of text per 12 pixel row.
func drawLines(lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	for i, line := range lines {
		drawer.Dot = fixed.P(0, 12*(i+1))
		drawer.DrawString(line)
	}
	return img
}

func renderReadout(r motion.Readout, have bool) *image1bit.VerticalLSB {
	if !have {
		return drawLines("", "Motion", "Waiting...")
	}

	heading := "HDG:   ---"
	if r.Heading != nil {
		heading = fmt.Sprintf("HDG: %6.1f", *r.Heading)
	}
	dampened := "DMP:   ---"
	if r.Dampened != nil {
		dampened = fmt.Sprintf("DMP: %6.1f", *r.Dampened)
	}
	layout := "LAND"
	if r.Portrait {
		layout = "PORT"
	}
	if r.FacingUser {
		layout += " FACING"
	}

	return drawLines(
		fmt.Sprintf("TLT: %6.1f", r.Tilt),
		fmt.Sprintf("ROT: %6.1f", r.Rotation),
		dampened,
		heading,
		layout,
	)
}

func renderSplash() *image1bit.VerticalLSB {
	return drawLines("", "Motion Tracker", "Move me")
}

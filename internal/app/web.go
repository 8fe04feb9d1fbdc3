package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_tracker/internal/config"
	"github.com/relabs-tech/motion_tracker/internal/host"
	"github.com/relabs-tech/motion_tracker/internal/motion"
)

// readoutStore keeps the latest readout published by the tracker service.
type readoutStore struct {
	mu   sync.RWMutex
	last motion.Readout
	have bool
}

func decodeReadout(payload []byte) (motion.Readout, error) {
	var r motion.Readout
	if err := json.Unmarshal(payload, &r); err != nil {
		return motion.Readout{}, fmt.Errorf("readout unmarshal error: %w", err)
	}
	return r, nil
}

func (s *readoutStore) update(payload []byte) error {
	r, err := decodeReadout(payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.last = r
	s.have = true
	s.mu.Unlock()
	return nil
}

// ServeHTTP answers /api/readout.
func (s *readoutStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.have {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.last); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// topicFor returns the MQTT topic carrying events of type t.
func topicFor(cfg *config.Config, t string) string {
	switch t {
	case host.TypeDeviceOrientation:
		return cfg.TopicOrientation
	case host.TypeDeviceMotion:
		return cfg.TopicMotion
	default:
		return cfg.TopicScreen
	}
}

// newWebMux wires the HTTP routes.
func newWebMux(staticDir string, device http.Handler, readouts http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws/device", device)
	mux.Handle("/api/readout", readouts)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

func RunWeb() error {
	cfg := config.Get()

	client, err := connectMQTT("web", cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	store := &readoutStore{}
	err = subscribe("web", client, cfg.TopicReadout, func(payload []byte) {
		if err := store.update(payload); err != nil {
			log.Printf("web: %v", err)
		}
	})
	if err != nil {
		return err
	}

	device := &deviceHandler{
		opts:    trackerOptions(cfg),
		forward: mqttForwarder(client, cfg),
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s (static files from %s)", addr, cfg.WebStaticDir)
	return http.ListenAndServe(addr, newWebMux(cfg.WebStaticDir, device, store))
}

// mqttForwarder republishes device events so the tracker service sees them.
func mqttForwarder(client mqtt.Client, cfg *config.Config) func(host.Event, []byte) {
	return func(ev host.Event, payload []byte) {
		topic := topicFor(cfg, ev.Type)
		if token := client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
			log.Printf("web: MQTT publish (%s): %v", topic, token.Error())
		}
	}
}

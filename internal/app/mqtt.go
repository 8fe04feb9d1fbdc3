package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// connectMQTT connects to the broker and logs under component.
func connectMQTT(component, broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%s: MQTT connect %s: %w", component, broker, token.Error())
	}
	log.Printf("%s: connected to MQTT broker at %s", component, broker)
	return client, nil
}

// publishJSON marshals v and publishes it, waiting for the broker.
func publishJSON(client mqtt.Client, topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal (%s): %w", topic, err)
	}
	if token := client.Publish(topic, 0, retained, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish (%s): %w", topic, token.Error())
	}
	return nil
}

// subscribe registers handler for topic and waits for the broker.
func subscribe(component string, client mqtt.Client, topic string, handler func(payload []byte)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("%s: subscribe %s: %w", component, topic, token.Error())
	}
	log.Printf("%s: subscribed to %s", component, topic)
	return nil
}

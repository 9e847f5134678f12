package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

// MQTTFeed reads full alert snapshots from a (usually retained) topic.
// Reconnecting is left to the paho client.
type MQTTFeed struct {
	Broker   string
	ClientID string
	Topic    string
	Qos      byte
	Username string
	Password string

	ConnectTimeout time.Duration
}

func NewMQTTFeed(broker, clientID, topic string) *MQTTFeed {
	if topic == "" {
		topic = "alerts"
	}
	return &MQTTFeed{
		Broker:         broker,
		ClientID:       clientID,
		Topic:          topic,
		Qos:            1,
		ConnectTimeout: 10 * time.Second,
	}
}

func (f *MQTTFeed) logger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameFeed, common.LoggerCategoryFeed)
}

func (f *MQTTFeed) Subscribe(ctx context.Context, onSnapshot func([]models.Alert), onError func(error)) (func(), error) {
	var stopped atomic.Bool
	opts := f.clientOptions(&stopped, onSnapshot, onError)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		stopped.Store(true)
		client.Disconnect(0)
		return nil, ctx.Err()
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	f.logger().Info("Subscribed to mqtt feed", zap.String("broker", f.Broker), zap.String("topic", f.Topic))

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			client.Unsubscribe(f.Topic).WaitTimeout(time.Second)
			client.Disconnect(250)
		})
	}, nil
}

func (f *MQTTFeed) clientOptions(stopped *atomic.Bool, onSnapshot func([]models.Alert), onError func(error)) *mqtt.ClientOptions {
	handler := f.messageHandler(stopped, onSnapshot, onError)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(f.Broker)
	opts.SetClientID(f.ClientID)
	if f.Username != "" {
		opts.SetUsername(f.Username)
	}
	if f.Password != "" {
		opts.SetPassword(f.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(f.ConnectTimeout)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		// clean sessions drop subscriptions, so subscribe again on every (re)connect
		token := c.Subscribe(f.Topic, f.Qos, handler)
		if token.Wait() && token.Error() != nil && !stopped.Load() && onError != nil {
			onError(fmt.Errorf("failed to subscribe to topic %s: %w", f.Topic, token.Error()))
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if !stopped.Load() && onError != nil {
			onError(fmt.Errorf("mqtt connection lost: %w", err))
		}
	})
	return opts
}

func (f *MQTTFeed) messageHandler(stopped *atomic.Bool, onSnapshot func([]models.Alert), onError func(error)) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		if stopped.Load() {
			return
		}
		alerts, err := DecodeSnapshot(msg.Payload())
		if err != nil {
			f.logger().Warn("Dropping undecodable snapshot", zap.String("topic", msg.Topic()), zap.Error(err))
			if onError != nil {
				onError(err)
			}
			return
		}
		onSnapshot(Unacknowledged(alerts))
	}
}

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

// RedisFeed keeps alert records in a hash (field = alert id, value = JSON)
// and announces every change on a pub/sub channel of the same name. Each
// announcement makes subscribers re-read the whole hash.
type RedisFeed struct {
	client  *redis.Client
	key     string
	channel string
}

func NewRedisClient(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
}

func NewRedisFeed(client *redis.Client, path string) *RedisFeed {
	if path == "" {
		path = "alerts"
	}
	return &RedisFeed{client: client, key: path, channel: path}
}

func (f *RedisFeed) logger() *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameFeed, common.LoggerCategoryFeed)
}

// Snapshot reads the unacknowledged alerts, oldest first.
func (f *RedisFeed) Snapshot(ctx context.Context) ([]models.Alert, error) {
	records, err := f.client.HGetAll(ctx, f.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.key, err)
	}

	alerts := make([]models.Alert, 0, len(records))
	for id, raw := range records {
		var alert models.Alert
		if err := json.Unmarshal([]byte(raw), &alert); err != nil {
			f.logger().Warn("Skipping undecodable alert record", zap.String("alert_id", id), zap.Error(err))
			continue
		}
		if alert.ID == "" {
			alert.ID = id
		}
		alerts = append(alerts, alert)
	}

	alerts = Unacknowledged(alerts)
	sortByTimestamp(alerts)
	return alerts, nil
}

// Publish writes the alert record and announces the change.
func (f *RedisFeed) Publish(ctx context.Context, alert models.Alert) error {
	if alert.ID == "" {
		return fmt.Errorf("alert id can not be empty")
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	if err := f.client.HSet(ctx, f.key, alert.ID, payload).Err(); err != nil {
		return fmt.Errorf("write alert %s: %w", alert.ID, err)
	}
	if err := f.client.Publish(ctx, f.channel, alert.ID).Err(); err != nil {
		return fmt.Errorf("announce alert %s: %w", alert.ID, err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, onSnapshot func([]models.Alert), onError func(error)) (func(), error) {
	pubsub := f.client.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	snapshot, err := f.Snapshot(ctx)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	onSnapshot(snapshot)

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	messages := pubsub.Channel()

	go func() {
		defer close(done)
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				snapshot, err := f.Snapshot(subCtx)
				if subCtx.Err() != nil {
					return
				}
				if err != nil {
					if onError != nil {
						onError(err)
					}
					continue
				}
				onSnapshot(snapshot)
			}
		}
	}()

	f.logger().Info("Subscribed to redis feed", zap.String("channel", f.channel))

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = pubsub.Close()
			<-done
		})
	}, nil
}

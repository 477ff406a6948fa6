package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "salon.events."

func channelFor(facilityID uint) string {
	return fmt.Sprintf("%s%d", channelPrefix, facilityID)
}

// RedisBus publishes and subscribes change events over redis pub/sub, one
// channel per facility.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(addr string) *RedisBus {
	return &RedisBus{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Publish is fire-and-forget: a missed event only delays a dashboard until
// its next refetch, so failures are logged and never propagated.
func (b *RedisBus) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("realtime marshal error:", err)
		return
	}
	if err := b.client.Publish(ctx, channelFor(ev.FacilityID), payload).Err(); err != nil {
		log.Println("realtime publish error:", err)
	}
}

// OnChange invokes handler for every event on the facility's channel whose
// table matches (empty table matches all). The returned function cancels the
// subscription.
func (b *RedisBus) OnChange(
	ctx context.Context,
	facilityID uint,
	table string,
	handler func(Event),
) (func(), error) {

	sub := b.client.Subscribe(ctx, channelFor(facilityID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Println("realtime decode error:", err)
				continue
			}
			if table != "" && ev.Table != table {
				continue
			}
			handler(ev)
		}
	}()

	return func() { _ = sub.Close() }, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

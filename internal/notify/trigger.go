package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// SweepTrigger lets an external scheduler (Cloud Scheduler publishing to a
// Pub/Sub topic) drive the sweeps instead of, or in addition to, the
// in-process tickers. Message payload: {"sweep": "doses" | "missed" | "refill"}.
type SweepTrigger struct {
	client  *pubsub.Client
	sweeper *Sweeper
	topic   string
	subName string
}

type sweepMessage struct {
	Sweep string `json:"sweep"`
}

// NewSweepTrigger creates a Pub/Sub backed sweep trigger
func NewSweepTrigger(projectID, topic, credentialsFile string, sweeper *Sweeper) (*SweepTrigger, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}

	return &SweepTrigger{
		client:  client,
		sweeper: sweeper,
		topic:   topic,
		subName: topic + "-sub",
	}, nil
}

// Start subscribes and dispatches sweep messages until ctx is cancelled
func (t *SweepTrigger) Start(ctx context.Context) {
	log.Printf("[SweepTrigger] listening on topic %s, subscription %s", t.topic, t.subName)

	sub := t.client.Subscription(t.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[SweepTrigger] error checking subscription: %v", err)
		return
	}

	if !exists {
		topic := t.client.Topic(t.topic)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[SweepTrigger] error checking topic: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[SweepTrigger] topic %s does not exist, cannot create subscription", t.topic)
			return
		}

		sub, err = t.client.CreateSubscription(ctx, t.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[SweepTrigger] failed to create subscription: %v", err)
			return
		}
		log.Printf("[SweepTrigger] created subscription %s", t.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		t.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[SweepTrigger] receive loop ended: %v", err)
	}
}

func (t *SweepTrigger) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var payload sweepMessage
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Printf("[SweepTrigger] bad message %q: %v", string(msg.Data), err)
		return
	}

	now := time.Now()
	switch payload.Sweep {
	case "doses":
		t.sweeper.RunDoseSweep(ctx, now)
	case "missed":
		t.sweeper.RunMissedSweep(ctx, now)
	case "refill":
		t.sweeper.RunRefillSweep(ctx, now)
	default:
		log.Printf("[SweepTrigger] unknown sweep %q", payload.Sweep)
	}
}

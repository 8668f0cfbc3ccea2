package workers

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/storage"
)

// PhotoReaperPool deletes superseded photo objects in the background.
// Replaced photos are queued on a Redis stream and removed best-effort:
// a failed delete is logged and acked, never retried.
type PhotoReaperPool struct {
	Redis      *redis.Client
	Store      storage.Deleter
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *PhotoReaperPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Store == nil {
		return errors.New("PhotoReaperPool missing dependency: Redis/Store must be set")
	}
	if p.Stream == "" {
		p.Stream = "photos:reap"
	}
	if p.Group == "" {
		p.Group = "photo-reapers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "r"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

// Enqueue queues a public object URL for deletion.
func (p *PhotoReaperPool) Enqueue(ctx context.Context, photoURL string) error {
	if p.Stream == "" {
		p.Stream = "photos:reap"
	}
	return p.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream,
		Values: map[string]any{"url": photoURL},
	}).Err()
}

func (p *PhotoReaperPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *PhotoReaperPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	raw, _ := msg.Values["url"].(string)
	objectName := ObjectPathFromURL(raw)
	if objectName == "" {
		return
	}

	if err := p.Store.Delete(ctx, objectName); err != nil {
		p.Logger.WithError(err).WithField("object", objectName).Warn("failed to delete superseded photo")
		return
	}
	p.Logger.WithField("object", objectName).Debug("superseded photo deleted")
}

// ObjectPathFromURL extracts the object name from a public storage URL
// (https://storage.googleapis.com/<bucket>/<object>). Returns "" for
// anything else, which callers treat as nothing-to-delete.
func ObjectPathFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host != "storage.googleapis.com" {
		return ""
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return parts[1]
}

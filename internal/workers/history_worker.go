package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultStream = "application:events"
	DefaultGroup  = "history-writers"
)

// StreamRecorder publishes status changes to a Redis stream instead of
// writing them inline. HistoryWorkerPool drains the stream.
type StreamRecorder struct {
	Redis  *redis.Client
	Stream string
	// MaxLen caps the stream length (approximate trim); 0 keeps everything.
	MaxLen int64
}

func (r *StreamRecorder) Record(ctx context.Context, change models.StatusChange) error {
	values, err := encodeChange(change)
	if err != nil {
		return err
	}
	stream := r.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return r.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: r.MaxLen,
		Approx: r.MaxLen > 0,
		Values: values,
	}).Err()
}

// StreamClient is the subset of *redis.Client the pool consumes with.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XPendingExt(ctx context.Context, a *redis.XPendingExtArgs) *redis.XPendingExtCmd
	XClaim(ctx context.Context, a *redis.XClaimArgs) *redis.XMessageSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

type HistoryWorkerPool struct {
	Redis      StreamClient
	Sink       services.HistoryRecorder
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// ClaimIdle is how long a delivered event may stay unacked before another
	// consumer takes it over. MaxDeliveries caps redelivery; an event that
	// reaches it is logged and acked.
	ClaimIdle     time.Duration
	MaxDeliveries int64
}

func (p *HistoryWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sink == nil {
		return errors.New("HistoryWorkerPool missing dependency: Redis/Sink must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "h"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ClaimIdle <= 0 {
		p.ClaimIdle = 30 * time.Second
	}
	if p.MaxDeliveries <= 0 {
		p.MaxDeliveries = 5
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group %s: %w", p.Group, err)
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	p.Logger.WithFields(logrus.Fields{"stream": p.Stream, "workers": p.NumWorkers}).Info("history workers started")
	return nil
}

// isBusyGroup matches the error Redis returns when the group already exists.
func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (p *HistoryWorkerPool) runConsumer(ctx context.Context, consumer string) {
	var lastClaim time.Time
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if time.Since(lastClaim) >= p.ClaimIdle {
			lastClaim = time.Now()
			if _, err := p.reclaim(ctx, consumer); err != nil && ctx.Err() == nil {
				p.Logger.WithError(err).WithField("consumer", consumer).Warn("reclaim failed")
			}
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				if p.handleMsg(ctx, msg) {
					_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
				}
			}
		}
	}
}

// reclaim takes over events that stayed unacked for ClaimIdle, from any
// consumer of the group, and retries them. Events already delivered
// MaxDeliveries times are acked without another attempt. It returns the
// number of events acked.
func (p *HistoryWorkerPool) reclaim(ctx context.Context, consumer string) (int, error) {
	pending, err := p.Redis.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: p.Stream,
		Group:  p.Group,
		Idle:   p.ClaimIdle,
		Start:  "-",
		End:    "+",
		Count:  10,
	}).Result()
	if err != nil {
		return 0, err
	}

	var retry, drop []string
	for _, pe := range pending {
		if pe.RetryCount >= p.MaxDeliveries {
			p.Logger.WithFields(logrus.Fields{
				"redis_id":   pe.ID,
				"deliveries": pe.RetryCount,
			}).Error("dropping history event after repeated failures")
			drop = append(drop, pe.ID)
			continue
		}
		retry = append(retry, pe.ID)
	}

	acked := 0
	if len(drop) > 0 {
		if err := p.Redis.XAck(ctx, p.Stream, p.Group, drop...).Err(); err != nil {
			return 0, err
		}
		acked += len(drop)
	}
	if len(retry) == 0 {
		return acked, nil
	}

	// MinIdle makes the claim a no-op for events another worker grabbed first
	msgs, err := p.Redis.XClaim(ctx, &redis.XClaimArgs{
		Stream:   p.Stream,
		Group:    p.Group,
		Consumer: consumer,
		MinIdle:  p.ClaimIdle,
		Messages: retry,
	}).Result()
	if err != nil {
		return acked, err
	}
	for _, msg := range msgs {
		if p.handleMsg(ctx, msg) {
			if err := p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err(); err != nil {
				return acked, err
			}
			acked++
		}
	}
	return acked, nil
}

// handleMsg reports whether the message is done with. Malformed messages are
// acked and dropped; write failures stay pending until reclaim retries them.
func (p *HistoryWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithField("redis_id", msg.ID)

	change, err := decodeChange(msg.Values)
	if err != nil {
		log.WithError(err).Warn("dropping malformed history event")
		return true
	}
	if err := p.Sink.Record(ctx, change); err != nil {
		log.WithError(err).WithField("application_id", change.ApplicationID).Error("history write failed")
		return false
	}
	return true
}

func encodeChange(c models.StatusChange) (map[string]any, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"application_id": c.ApplicationID,
		"to":             string(c.To),
		"payload":        string(payload),
	}, nil
}

func decodeChange(values map[string]any) (models.StatusChange, error) {
	var c models.StatusChange
	raw, _ := values["payload"].(string)
	if raw == "" {
		return c, errors.New("missing payload")
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, err
	}
	if c.ApplicationID == "" {
		return c, errors.New("missing application_id")
	}
	return c, nil
}

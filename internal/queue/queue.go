// Package queue implements the durable at-least-once work channel between
// the leaderboard pipeline and the match backfill pipeline, backed by a
// Postgres table.
//
// Claimed messages become invisible for a visibility timeout instead of
// being removed; deletion happens only after the consumer has persisted the
// message's batch. A message that is never deleted reappears after the
// timeout, which is the whole retry story: redelivery belongs to the
// transport, not to application logic.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const receiveBatchSize = 10

// Message is one claimed queue message: a batch of player profile ids.
type Message struct {
	ID         int64
	ProfileIDs []int64
	Attempts   int
}

// Queue is a Postgres-backed at-least-once message queue.
type Queue struct {
	pool       *pgxpool.Pool
	visibility time.Duration
	pollWait   time.Duration
	pollEvery  time.Duration
}

// New creates a queue. visibility is how long a claimed message stays
// invisible; pollWait bounds how long Receive waits for messages to appear
// before reporting an empty queue.
func New(pool *pgxpool.Pool, visibility, pollWait time.Duration) *Queue {
	return &Queue{
		pool:       pool,
		visibility: visibility,
		pollWait:   pollWait,
		pollEvery:  time.Second,
	}
}

// Enqueue appends one message whose body is the serialized id list.
func (q *Queue) Enqueue(ctx context.Context, profileIDs []int64) error {
	body, err := json.Marshal(profileIDs)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	_, err = q.pool.Exec(ctx,
		`INSERT INTO match_backfill_queue (body) VALUES ($1)`, body)
	if err != nil {
		return fmt.Errorf("enqueue batch: %w", err)
	}
	return nil
}

// Receive long-polls for up to 10 messages. It claims what is visible
// right away; if nothing is, it keeps polling until the wait window
// expires and then returns an empty slice, which the consumer treats as
// queue drained.
func (q *Queue) Receive(ctx context.Context) ([]Message, error) {
	deadline := time.Now().Add(q.pollWait)
	for {
		msgs, err := q.claim(ctx)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			return msgs, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollEvery):
		}
	}
}

// claim atomically claims a batch of visible messages and hides them for
// the visibility timeout. FOR UPDATE SKIP LOCKED keeps concurrent
// consumers from claiming the same rows.
func (q *Queue) claim(ctx context.Context) ([]Message, error) {
	rows, err := q.pool.Query(ctx, `
		UPDATE match_backfill_queue
		SET visible_at = NOW() + make_interval(secs => $1),
		    attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM match_backfill_queue
			WHERE visible_at <= NOW()
			ORDER BY id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, body, attempts`,
		q.visibility.Seconds(), receiveBatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("claim messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			m    Message
			body []byte
		)
		if err := rows.Scan(&m.ID, &body, &m.Attempts); err != nil {
			return nil, fmt.Errorf("scan claimed: %w", err)
		}
		if err := json.Unmarshal(body, &m.ProfileIDs); err != nil {
			return nil, fmt.Errorf("decode message %d body: %w", m.ID, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Delete removes a processed message. Call only after the message's batch
// has been persisted.
func (q *Queue) Delete(ctx context.Context, id int64) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM match_backfill_queue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	return nil
}

// PurgePoisoned removes messages that have exceeded the attempt budget.
// Run periodically so a permanently failing batch cannot occupy the queue
// forever.
func (q *Queue) PurgePoisoned(ctx context.Context, maxAttempts int) (int64, error) {
	tag, err := q.pool.Exec(ctx,
		`DELETE FROM match_backfill_queue WHERE attempts >= $1`, maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("purge poisoned messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Depth returns the number of messages currently in the queue, visible or
// not. Used by health reporting.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	var n int64
	err := q.pool.QueryRow(ctx,
		`SELECT count(*) FROM match_backfill_queue`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return n, nil
}

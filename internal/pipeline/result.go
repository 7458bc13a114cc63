// Package pipeline orchestrates the two sync flows: the leaderboard
// producer (fetch, merge, detect, persist, enqueue) and the match backfill
// consumer (drain queue, fetch history, normalize, persist).
package pipeline

import "fmt"

// Result tracks counts and errors from one pipeline run.
type Result struct {
	LeaderboardsSynced int
	StandingsUpserted  int
	RecordsSkipped     int
	PlayersChanged     int
	BatchesEnqueued    int
	MessagesProcessed  int
	MatchesInserted    int
	Errors             []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.LeaderboardsSynced += other.LeaderboardsSynced
	r.StandingsUpserted += other.StandingsUpserted
	r.RecordsSkipped += other.RecordsSkipped
	r.PlayersChanged += other.PlayersChanged
	r.BatchesEnqueued += other.BatchesEnqueued
	r.MessagesProcessed += other.MessagesProcessed
	r.MatchesInserted += other.MatchesInserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"leaderboards=%d standings=%d skipped=%d changed=%d batches=%d messages=%d matches=%d errors=%d",
		r.LeaderboardsSynced, r.StandingsUpserted, r.RecordsSkipped,
		r.PlayersChanged, r.BatchesEnqueued, r.MessagesProcessed,
		r.MatchesInserted, len(r.Errors),
	)
}

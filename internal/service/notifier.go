package service

import (
	"context"
	"log"
	"time"
)

// DrainWebhook delivers the pool-exhaustion notification. Implemented by
// webhook.Client.
type DrainWebhook interface {
	Enabled() bool
	NotifyTeamDrained(ctx context.Context, teamTitle string) error
}

// NotifierService fires a best-effort outbound call for every team whose pool
// of assignable work was emptied by a distribution session. It runs after a
// delay so the commit has propagated to any read replicas, and its failures
// are logged, never propagated: notification is not part of the assignment's
// correctness contract.
type NotifierService struct {
	pool    *PoolService
	webhook DrainWebhook
	delay   time.Duration

	// teamIDs optionally restricts notifications to a subset of teams
	teamIDs []int

	// after is swappable in tests; defaults to time.AfterFunc
	after func(d time.Duration, f func()) *time.Timer
}

// NewNotifierService creates a new notifier. webhook may be nil (disabled).
func NewNotifierService(pool *PoolService, webhook DrainWebhook, delay time.Duration, teamIDs []int) *NotifierService {
	return &NotifierService{
		pool:    pool,
		webhook: webhook,
		delay:   delay,
		teamIDs: teamIDs,
		after:   time.AfterFunc,
	}
}

// Schedule queues an exhaustion check for the teams visited by a committed
// distribution session
func (s *NotifierService) Schedule(organizationID int, visited map[int]string) {
	if s.webhook == nil || !s.webhook.Enabled() {
		log.Printf("Not checking if assignments are available - exhaustion notification URL is unset")
		return
	}

	// Copy so the caller's map can't change under the timer
	teams := make(map[int]string, len(visited))
	for id, title := range visited {
		teams[id] = title
	}

	s.after(s.delay, func() {
		s.Notify(context.Background(), organizationID, teams)
	})
}

// Notify re-resolves the org-wide targets and posts one notification per
// visited team that no longer appears in them
func (s *NotifierService) Notify(ctx context.Context, organizationID int, visited map[int]string) {
	targets, err := s.pool.ResolveAll(ctx, organizationID)
	if err != nil {
		log.Printf("Encountered error checking for drained teams: %v", err)
		return
	}

	existing := make(map[int]bool, len(targets))
	for _, target := range targets {
		existing[target.TeamID] = true
	}

	for id, title := range visited {
		if existing[id] || !s.shouldNotify(id) {
			continue
		}
		if err := s.webhook.NotifyTeamDrained(ctx, title); err != nil {
			log.Printf("Encountered error notifying assignment complete for team %q: %v", title, err)
		}
	}
}

func (s *NotifierService) shouldNotify(teamID int) bool {
	if len(s.teamIDs) == 0 {
		return true
	}
	for _, id := range s.teamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"textassign/internal/models"
)

func notifierFixture(fresh []*models.Team, webhook *mockDrainWebhook, teamIDs []int) (*NotifierService, *poolFixture) {
	pool := &poolFixture{
		cfg:      models.AssignmentConfig{Type: models.AssignmentTypeUnsent},
		orgTeams: fresh,
	}
	svc := NewNotifierService(pool.service(), webhook, time.Millisecond, teamIDs)
	return svc, pool
}

func TestNotify_NotifiesTeamsMissingFromFreshResolution(t *testing.T) {
	webhook := &mockDrainWebhook{enabled: true}

	// Fresh resolution still pairs team 20; team 10's pool is gone
	pool := &poolFixture{
		cfg:           models.AssignmentConfig{Type: models.AssignmentTypeUnsent},
		orgTeams:      []*models.Team{sendTeam(20, 100, "Still Going")},
		sendCampaigns: []*models.Campaign{campaign(2, "Second")},
		links:         []models.CampaignTeamLink{{CampaignID: 2, TeamID: 20}},
	}
	svc := NewNotifierService(pool.service(), webhook, time.Millisecond, nil)

	visited := map[int]string{10: "Drained", 20: "Still Going"}
	svc.Notify(context.Background(), 1, visited)

	assert.Equal(t, []string{"Drained"}, webhook.notified)
}

func TestNotify_TeamFilterSuppressesOtherTeams(t *testing.T) {
	webhook := &mockDrainWebhook{enabled: true}
	svc, _ := notifierFixture(nil, webhook, []int{99})

	visited := map[int]string{10: "Drained"}
	svc.Notify(context.Background(), 1, visited)

	assert.Empty(t, webhook.notified)
}

func TestNotify_WebhookFailureDoesNotStopRemainingTeams(t *testing.T) {
	webhook := &mockDrainWebhook{enabled: true, err: assert.AnError}
	svc, _ := notifierFixture(nil, webhook, nil)

	visited := map[int]string{10: "Drained", 11: "Also Drained"}
	svc.Notify(context.Background(), 1, visited)

	assert.Len(t, webhook.notified, 2)
}

func TestSchedule_SkipsWhenWebhookDisabled(t *testing.T) {
	webhook := &mockDrainWebhook{enabled: false}
	svc, _ := notifierFixture(nil, webhook, nil)

	fired := false
	svc.after = func(d time.Duration, f func()) *time.Timer {
		fired = true
		return time.NewTimer(d)
	}

	svc.Schedule(1, map[int]string{10: "Drained"})

	assert.False(t, fired)
}

func TestSchedule_CopiesVisitedMapBeforeTimerFires(t *testing.T) {
	webhook := &mockDrainWebhook{enabled: true}
	svc, _ := notifierFixture(nil, webhook, nil)

	var scheduled func()
	svc.after = func(d time.Duration, f func()) *time.Timer {
		scheduled = f
		return time.NewTimer(d)
	}

	visited := map[int]string{10: "Drained"}
	svc.Schedule(1, visited)

	// Caller mutates its map after scheduling; the copy must be unaffected
	delete(visited, 10)
	scheduled()

	assert.Equal(t, []string{"Drained"}, webhook.notified)
}

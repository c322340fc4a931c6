package service

import (
	"context"
	"fmt"
	"sort"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// PoolService computes the ranked list of (team, campaign) assignment targets
// for an organization. The ranking is an in-memory algorithm over plain rows:
// load candidate teams and campaigns, compute pairings, sort. Only the claim
// step needs store-level locking; resolution reads committed state.
type PoolService struct {
	orgs      repository.OrganizationRepository
	teams     repository.TeamRepository
	campaigns repository.CampaignRepository
}

// NewPoolService creates a new pool service
func NewPoolService(
	orgs repository.OrganizationRepository,
	teams repository.TeamRepository,
	campaigns repository.CampaignRepository,
) *PoolService {
	return &PoolService{
		orgs:      orgs,
		teams:     teams,
		campaigns: campaigns,
	}
}

// poolState is everything resolution needs, loaded up front
type poolState struct {
	cfg            models.AssignmentConfig
	sendCampaigns  []*models.Campaign
	replyCampaigns []*models.Campaign
	allCampaigns   []*models.Campaign
	linked         map[int]map[int]bool
	escalationSets map[int][][]int64
}

// ResolveForUser computes the ordered assignment targets visible to one
// texter: their enabled teams paired with the best eligible campaign each,
// plus the general pool last. An empty list means no work is assignable;
// that is never an error.
func (s *PoolService) ResolveForUser(ctx context.Context, userID, organizationID int) ([]models.AssignmentTarget, error) {
	state, err := s.loadState(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !state.cfg.Type.IsValid() {
		return []models.AssignmentTarget{}, nil
	}

	teams, err := s.teams.ListEnabledForUser(ctx, organizationID, userID)
	if err != nil {
		return nil, err
	}

	targets := s.pairTeams(teams, state, false)

	if state.cfg.GeneralEnabled {
		if general := s.generalTarget(state, models.GeneralPriority); general != nil {
			targets = append(targets, *general)
		}
	}

	sortTargets(targets)
	return targets, nil
}

// ResolveAll computes the org-wide target listing: every team of the
// organization, enabled or not, with the remaining claimable count per
// target. The general pool is listed first (priority 0) for display.
func (s *PoolService) ResolveAll(ctx context.Context, organizationID int) ([]models.AssignmentTarget, error) {
	state, err := s.loadState(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !state.cfg.Type.IsValid() {
		return []models.AssignmentTarget{}, nil
	}

	teams, err := s.teams.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	targets := s.pairTeams(teams, state, true)

	if general := s.generalTarget(state, 0); general != nil {
		general.Enabled = state.cfg.GeneralEnabled
		targets = append(targets, *general)
	}

	for i := range targets {
		count, err := s.countLeft(ctx, &targets[i])
		if err != nil {
			return nil, err
		}
		targets[i].CountLeft = count
	}

	sortTargets(targets)
	return targets, nil
}

func (s *PoolService) loadState(ctx context.Context, organizationID int) (*poolState, error) {
	cfg, err := s.orgs.GetAssignmentConfig(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	state := &poolState{cfg: cfg}
	if !cfg.Type.IsValid() {
		return state, nil
	}

	if state.sendCampaigns, err = s.campaigns.ListWithPendingSends(ctx, organizationID); err != nil {
		return nil, err
	}
	if state.replyCampaigns, err = s.campaigns.ListWithPendingReplies(ctx, organizationID); err != nil {
		return nil, err
	}
	if state.allCampaigns, err = s.campaigns.ListAssignable(ctx, organizationID); err != nil {
		return nil, err
	}

	links, err := s.campaigns.ListTeamLinks(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	state.linked = make(map[int]map[int]bool)
	for _, link := range links {
		if state.linked[link.TeamID] == nil {
			state.linked[link.TeamID] = make(map[int]bool)
		}
		state.linked[link.TeamID][link.CampaignID] = true
	}

	sets, err := s.campaigns.ListEscalationReplyTagSets(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	state.escalationSets = make(map[int][][]int64)
	for _, set := range sets {
		state.escalationSets[set.CampaignID] = append(state.escalationSets[set.CampaignID], set.TagIDs)
	}

	return state, nil
}

// pairTeams reduces each team to at most one target per work kind: the
// lowest-id eligible campaign. When exclusive is set (org-wide listing), a
// team with an escalation pairing drops its plain reply pairing.
func (s *PoolService) pairTeams(teams []*models.Team, state *poolState, exclusive bool) []models.AssignmentTarget {
	targets := []models.AssignmentTarget{}

	for _, team := range teams {
		switch team.AssignmentType {
		case models.AssignmentTypeUnsent:
			if campaign := firstLinked(state.sendCampaigns, state.linked[team.ID]); campaign != nil {
				targets = append(targets, teamTarget(team, campaign))
			}

		case models.AssignmentTypeUnreplied:
			escalation := s.escalationPairing(team, state)

			if !(exclusive && escalation != nil) {
				if campaign := firstLinked(state.replyCampaigns, state.linked[team.ID]); campaign != nil {
					if escalation == nil || escalation.CampaignID != campaign.ID {
						targets = append(targets, teamTarget(team, campaign))
					}
				}
			}

			if escalation != nil {
				targets = append(targets, *escalation)
			}
		}
	}

	return targets
}

// escalationPairing matches a reply team against campaigns holding escalated
// conversations the team is responsible for: the team's escalation-tag set
// must contain every tag applied to at least one reply-needed contact. Direct
// campaign linkage is only required when the campaign restricts assignment to
// its teams.
func (s *PoolService) escalationPairing(team *models.Team, state *poolState) *models.AssignmentTarget {
	if len(team.EscalationTagIDs) == 0 {
		return nil
	}

	for _, campaign := range state.allCampaigns {
		if campaign.LimitAssignmentToTeams && !state.linked[team.ID][campaign.ID] {
			continue
		}
		for _, applied := range state.escalationSets[campaign.ID] {
			if team.ContainsAllTags(applied) {
				target := teamTarget(team, campaign)
				target.Type = models.AssignmentTypeUnreplied
				target.Escalated = true
				return &target
			}
		}
	}

	return nil
}

func (s *PoolService) generalTarget(state *poolState, priority int) *models.AssignmentTarget {
	var pool []*models.Campaign
	switch state.cfg.Type {
	case models.AssignmentTypeUnsent:
		pool = state.sendCampaigns
	case models.AssignmentTypeUnreplied:
		pool = state.replyCampaigns
	}

	for _, campaign := range pool {
		if campaign.LimitAssignmentToTeams {
			continue
		}
		return &models.AssignmentTarget{
			Priority:        priority,
			TeamID:          models.GeneralTeamID,
			TeamTitle:       models.GeneralTeamTitle,
			Enabled:         true,
			Type:            state.cfg.Type,
			MaxRequestCount: state.cfg.MaxRequestCount,
			CampaignID:      campaign.ID,
			CampaignTitle:   campaign.Title,
		}
	}

	return nil
}

func (s *PoolService) countLeft(ctx context.Context, target *models.AssignmentTarget) (int, error) {
	switch target.Type {
	case models.AssignmentTypeUnsent:
		return s.campaigns.CountAssignableSends(ctx, target.CampaignID)
	case models.AssignmentTypeUnreplied:
		// A plain reply pairing cannot claim escalated conversations, so they
		// never count toward it
		return s.campaigns.CountAssignableReplies(ctx, target.CampaignID, target.Escalated)
	}
	return 0, fmt.Errorf("unknown assignment type %q", target.Type)
}

func teamTarget(team *models.Team, campaign *models.Campaign) models.AssignmentTarget {
	return models.AssignmentTarget{
		Priority:        team.AssignmentPriority,
		TeamID:          team.ID,
		TeamTitle:       team.Title,
		Enabled:         team.IsAssignmentEnabled,
		Type:            team.AssignmentType,
		MaxRequestCount: team.MaxRequestCount,
		CampaignID:      campaign.ID,
		CampaignTitle:   campaign.Title,
	}
}

// firstLinked returns the lowest-id campaign linked to the team. Campaign
// lists arrive ordered by id.
func firstLinked(campaigns []*models.Campaign, linked map[int]bool) *models.Campaign {
	for _, campaign := range campaigns {
		if linked[campaign.ID] {
			return campaign
		}
	}
	return nil
}

func sortTargets(targets []models.AssignmentTarget) {
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Priority != targets[j].Priority {
			return targets[i].Priority < targets[j].Priority
		}
		return targets[i].CampaignID < targets[j].CampaignID
	})
}

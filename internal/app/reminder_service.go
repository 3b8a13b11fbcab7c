// internal/app/reminder_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"compliance_notification_service/internal/domain/agency"
	"compliance_notification_service/internal/domain/compliance"
	"compliance_notification_service/internal/domain/email"
	infraEmail "compliance_notification_service/internal/infra/email"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// recentlySentWindow guards against duplicate reminders from overlapping
	// or repeated runs within the same day.
	recentlySentWindow = 24 * time.Hour

	// interGroupDelay bounds the outbound send rate against the provider.
	interGroupDelay = 100 * time.Millisecond

	initialBackoff = 1 * time.Second
	backoffCeiling = 30 * time.Second
	maxSendRetries = 3
)

// Summary is the job's output payload: counters per tier, the distinct
// agencies notified, and every soft error captured along the way.
type Summary struct {
	Sent30DayReminders    int      `json:"sent30DayReminders"`
	Sent7DayReminders     int      `json:"sent7DayReminders"`
	TotalAgenciesNotified int      `json:"totalAgenciesNotified"`
	Errors                []string `json:"errors"`
	DurationMs            int64    `json:"durationMs"`
}

// reminderGroup is one claimed agency with its resolved owner and the items
// due for a tier's reminder. Built fresh each run, discarded afterwards.
type reminderGroup struct {
	agency *agency.Agency
	owner  *agency.OwnerProfile
	items  []*compliance.Item
}

// ReminderService runs the compliance-expiration reminder job: select
// expiring items, group them by claimed agency, and send one deduplicated
// email per agency per tier with mark-before-send idempotency.
type ReminderService struct {
	complianceRepo compliance.Repository
	agencyRepo     agency.Repository
	profileRepo    agency.ProfileRepository
	emailClient    email.Client
	logger         *logrus.Logger
	siteURL        string

	// Injected for deterministic tests.
	now   func() time.Time
	sleep func(time.Duration)
}

func NewReminderService(
	complianceRepo compliance.Repository,
	agencyRepo agency.Repository,
	profileRepo agency.ProfileRepository,
	emailClient email.Client,
	logger *logrus.Logger,
	siteURL string,
) *ReminderService {
	return &ReminderService{
		complianceRepo: complianceRepo,
		agencyRepo:     agencyRepo,
		profileRepo:    profileRepo,
		emailClient:    emailClient,
		logger:         logger,
		siteURL:        siteURL,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// Run executes one pass of the reminder job. It returns an error only when
// the initial bulk fetch fails, before any sends are attempted; everything
// after that point is captured into the summary's error list instead.
func (s *ReminderService) Run(ctx context.Context) (*Summary, error) {
	start := s.now()
	log := s.logger.WithField("run_id", uuid.NewString())
	log.Info("Starting compliance expiration reminder run")

	items, err := s.complianceRepo.ListExpiring(ctx)
	if err != nil {
		log.Errorf("Failed to fetch expiring compliance items: %v", err)
		return nil, fmt.Errorf("failed to fetch expiring compliance items: %w", err)
	}

	due30, due7 := partitionByTier(items, start)
	log.Infof("Fetched %d active items: %d due in 30-day window, %d due in 7-day window", len(items), len(due30), len(due7))

	summary := &Summary{Errors: []string{}}
	notified := make(map[string]struct{})

	for _, tierRun := range []struct {
		tier  compliance.Tier
		items []*compliance.Item
	}{
		{compliance.Tier30Day, due30},
		{compliance.Tier7Day, due7},
	} {
		groups, err := s.buildGroups(ctx, tierRun.tier, tierRun.items, start)
		if err != nil {
			// Infrastructure failure in a batched lookup aborts this tier
			// only; the other tier still gets its chance.
			log.Errorf("Grouping failed for %s tier: %v", tierLabel(tierRun.tier), err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s tier: %v", tierLabel(tierRun.tier), err))
			continue
		}

		sent := s.processGroups(ctx, log, tierRun.tier, groups, start, notified, summary)
		if tierRun.tier == compliance.Tier30Day {
			summary.Sent30DayReminders = sent
		} else {
			summary.Sent7DayReminders = sent
		}
	}

	summary.TotalAgenciesNotified = len(notified)
	summary.DurationMs = s.now().Sub(start).Milliseconds()
	log.Infof("Reminder run complete: 30-day=%d, 7-day=%d, agencies=%d, errors=%d, duration=%dms",
		summary.Sent30DayReminders, summary.Sent7DayReminders, summary.TotalAgenciesNotified, len(summary.Errors), summary.DurationMs)
	return summary, nil
}

// partitionByTier buckets active items into the 30-day and 7-day windows
// using UTC calendar-day distance. The windows are disjoint, so an item lands
// in at most one bucket per run.
func partitionByTier(items []*compliance.Item, now time.Time) (due30, due7 []*compliance.Item) {
	for _, item := range items {
		if !item.IsActive || !item.ExpirationDate.Valid {
			continue
		}
		days := item.DaysUntilExpiration(now)
		switch {
		case compliance.Tier30Day.Contains(days):
			due30 = append(due30, item)
		case compliance.Tier7Day.Contains(days):
			due7 = append(due7, item)
		}
	}
	return due30, due7
}

// buildGroups filters recently-reminded items, resolves agencies and owners
// in two batched lookups, and groups the survivors by agency. Items whose
// agency is unclaimed or unresolved, or whose owner is missing a usable
// email, are dropped silently.
func (s *ReminderService) buildGroups(ctx context.Context, tier compliance.Tier, items []*compliance.Item, now time.Time) (map[string]*reminderGroup, error) {
	groups := make(map[string]*reminderGroup)

	var fresh []*compliance.Item
	for _, item := range items {
		if sentAt := item.ReminderSentAt(tier); sentAt.Valid && now.Sub(sentAt.Time) < recentlySentWindow {
			s.logger.Debugf("Skipping item %s: %s reminder already sent at %s", item.ID, tierLabel(tier), sentAt.Time.Format(time.RFC3339))
			continue
		}
		fresh = append(fresh, item)
	}
	if len(fresh) == 0 {
		return groups, nil
	}

	agencyIDs := distinctAgencyIDs(fresh)
	agencies, err := s.agencyRepo.ListClaimedByIDs(ctx, agencyIDs)
	if err != nil {
		return nil, fmt.Errorf("agency lookup failed: %w", err)
	}
	agenciesByID := make(map[string]*agency.Agency, len(agencies))
	ownerIDSet := make(map[string]struct{})
	var ownerIDs []string
	for _, a := range agencies {
		agenciesByID[a.ID] = a
		if a.IsClaimed() {
			if _, seen := ownerIDSet[a.ClaimedBy.String]; !seen {
				ownerIDSet[a.ClaimedBy.String] = struct{}{}
				ownerIDs = append(ownerIDs, a.ClaimedBy.String)
			}
		}
	}

	profiles, err := s.profileRepo.ListByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("owner profile lookup failed: %w", err)
	}
	profilesByID := make(map[string]*agency.OwnerProfile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID] = p
	}

	for _, item := range fresh {
		a, ok := agenciesByID[item.AgencyID]
		if !ok || !a.IsClaimed() {
			s.logger.Debugf("Skipping item %s: agency %s unresolved or unclaimed", item.ID, item.AgencyID)
			continue
		}
		owner, ok := profilesByID[a.ClaimedBy.String]
		if !ok || !owner.ValidEmail() {
			s.logger.Debugf("Skipping item %s: owner profile for agency %s missing or has no usable email", item.ID, a.ID)
			continue
		}
		group, ok := groups[a.ID]
		if !ok {
			group = &reminderGroup{agency: a, owner: owner}
			groups[a.ID] = group
		}
		group.items = append(group.items, item)
	}

	return groups, nil
}

// processGroups sends reminders for every group in the tier, strictly
// sequentially, with a small pause between groups and exponential backoff on
// rate-limited sends. Returns the number of items successfully reminded.
func (s *ReminderService) processGroups(
	ctx context.Context,
	log *logrus.Entry,
	tier compliance.Tier,
	groups map[string]*reminderGroup,
	now time.Time,
	notified map[string]struct{},
	summary *Summary,
) int {
	// Deterministic order keeps runs reproducible and tests stable.
	agencyIDs := make([]string, 0, len(groups))
	for id := range groups {
		agencyIDs = append(agencyIDs, id)
	}
	sort.Strings(agencyIDs)

	sent := 0
	for i, agencyID := range agencyIDs {
		group := groups[agencyID]

		backoff := initialBackoff
		for attempt := 0; ; attempt++ {
			err := s.sendGroupReminder(ctx, tier, group, now)
			if err == nil {
				sent += len(group.items)
				notified[agencyID] = struct{}{}
				log.Infof("Sent %s reminder to %s for agency %q (%d items)", tierLabel(tier), group.owner.Email.String, group.agency.Name, len(group.items))
				break
			}

			var rateLimited *email.RateLimitError
			if errors.As(err, &rateLimited) && attempt < maxSendRetries {
				log.Warnf("Rate limited sending %s reminder for agency %q (attempt %d/%d), backing off %s", tierLabel(tier), group.agency.Name, attempt+1, maxSendRetries, backoff)
				s.sleep(backoff)
				backoff *= 2
				if backoff > backoffCeiling {
					backoff = backoffCeiling
				}
				continue
			}

			log.Errorf("Failed to send %s reminder for agency %q: %v", tierLabel(tier), group.agency.Name, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s reminder for agency %s failed: %v", tierLabel(tier), group.agency.ID, err))
			break
		}

		if i < len(agencyIDs)-1 {
			s.sleep(interGroupDelay)
		}
	}
	return sent
}

// sendGroupReminder performs the send-and-track sequence for one group.
// Ordering is load-bearing: the tracking timestamp is written before the
// email goes out so that a crash mid-send under-sends rather than re-sends,
// and is rolled back to its captured original on dispatch failure.
func (s *ReminderService) sendGroupReminder(ctx context.Context, tier compliance.Tier, group *reminderGroup, now time.Time) error {
	originals := make(map[string]sql.NullTime, len(group.items))
	ids := make([]string, 0, len(group.items))
	for _, item := range group.items {
		originals[item.ID] = item.ReminderSentAt(tier)
		ids = append(ids, item.ID)
	}

	if err := s.complianceRepo.MarkReminderSent(ctx, tier, ids, now); err != nil {
		return fmt.Errorf("tracking update failed: %w", err)
	}

	params := infraEmail.ReminderParams{
		OwnerName:    group.owner.DisplayName(),
		AgencyName:   group.agency.Name,
		DashboardURL: s.siteURL + "/dashboard/compliance",
	}
	for _, item := range group.items {
		params.Items = append(params.Items, infraEmail.ReminderItem{
			Type:           item.ComplianceType,
			ExpirationDate: item.ExpirationDate.Time.UTC().Format("January 2, 2006"),
		})
	}
	subject, htmlBody, textBody, err := infraEmail.ComposeReminder(tier, params)
	if err != nil {
		s.rollbackTracking(ctx, tier, originals)
		return err
	}

	msg := email.Message{
		To:      group.owner.Email.String,
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
		Headers: map[string]string{
			// Lets the provider suppress duplicates issued the same day.
			"Idempotency-Key": idempotencyKey(group.agency.ID, group.owner.ID, tier, now),
		},
	}
	if _, err := s.emailClient.Send(ctx, msg); err != nil {
		s.rollbackTracking(ctx, tier, originals)
		return fmt.Errorf("email dispatch failed: %w", err)
	}
	return nil
}

// rollbackTracking restores each item's pre-run tracking timestamp after a
// failed dispatch. A failed rollback is logged, never propagated: the 24-hour
// guard self-heals on the next day's run.
func (s *ReminderService) rollbackTracking(ctx context.Context, tier compliance.Tier, originals map[string]sql.NullTime) {
	if err := s.complianceRepo.RestoreReminderSentAt(ctx, tier, originals); err != nil {
		s.logger.Errorf("Failed to roll back %s tracking timestamps for %d items: %v", tierLabel(tier), len(originals), err)
	}
}

func idempotencyKey(agencyID, ownerID string, tier compliance.Tier, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s", agencyID, ownerID, tier, now.UTC().Format("2006-01-02"))
}

func distinctAgencyIDs(items []*compliance.Item) []string {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, item := range items {
		if _, ok := seen[item.AgencyID]; ok {
			continue
		}
		seen[item.AgencyID] = struct{}{}
		ids = append(ids, item.AgencyID)
	}
	return ids
}

func tierLabel(tier compliance.Tier) string {
	if tier == compliance.Tier7Day {
		return "7-day"
	}
	return "30-day"
}

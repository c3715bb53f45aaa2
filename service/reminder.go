package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/pkg/logger"
)

// FlaggedDocument is a document inside a reminder window plus its
// computed distance to expiry.
type FlaggedDocument struct {
	Document      *model.Document
	Bucket        Bucket
	DaysRemaining int
}

// ReminderReport summarizes one dispatcher run. A run with partial
// delivery failures still completes; only a failed document scan aborts.
type ReminderReport struct {
	Flagged       int `json:"flagged"`
	PICSent       int `json:"pic_sent"`
	PICFailed     int `json:"pic_failed"`
	TeamsSent     int `json:"teams_sent"`
	TeamsFailed   int `json:"teams_failed"`
	DigestSent    int `json:"digest_sent"`
	ExpiredToday  int `json:"expired_today"`
}

// ReminderService is the daily notification dispatcher. It only reads
// documents; sending notifications never mutates document state.
type ReminderService struct {
	store     DocumentStore
	directory ContactDirectory
	mailer    Mailer

	dashboardURL string
	adminCC      string
	now          func() time.Time
}

func NewReminderService(store DocumentStore, directory ContactDirectory, mailer Mailer, dashboardURL, adminCC string) *ReminderService {
	return &ReminderService{
		store:        store,
		directory:    directory,
		mailer:       mailer,
		dashboardURL: dashboardURL,
		adminCC:      adminCC,
		now:          time.Now,
	}
}

// Run executes one dispatcher pass: scan, classify, notify PICs, notify
// team managers, send the admin digest. At-least-once, best effort.
func (s *ReminderService) Run(ctx context.Context) (*ReminderReport, error) {
	today := Midnight(s.now())

	docs, err := s.store.FindAll(ctx, DocumentFilter{})
	if err != nil {
		// Hard failure: without a scan there is nothing to dispatch.
		return nil, fmt.Errorf("reminder scan failed: %w", err)
	}

	report := &ReminderReport{}
	var flagged []FlaggedDocument
	for _, doc := range docs {
		days, ok := DaysRemaining(doc.CooperationEndDate, today)
		if ok && days == 0 {
			report.ExpiredToday++ // reaches its end date today, reported in the digest
		}

		bucket := Classify(doc, today)
		if bucket != BucketUrgent && bucket != BucketWarning {
			continue
		}
		if Resolved(doc) {
			continue
		}
		flagged = append(flagged, FlaggedDocument{Document: doc, Bucket: bucket, DaysRemaining: days})
	}

	// Most urgent first in logs and digests. Delivery order across
	// recipients is not guaranteed.
	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].DaysRemaining < flagged[j].DaysRemaining
	})
	report.Flagged = len(flagged)

	if len(flagged) == 0 {
		logger.Info(ctx, "reminder run: no documents in reminder windows")
	}

	s.notifyPICs(ctx, flagged, report)
	s.notifyManagers(ctx, flagged, report)
	s.sendDigest(ctx, flagged, report, today)

	logger.Info(ctx, "reminder run completed",
		"flagged", report.Flagged,
		"pic_sent", report.PICSent,
		"pic_failed", report.PICFailed,
		"teams_sent", report.TeamsSent,
		"teams_failed", report.TeamsFailed,
		"digest_sent", report.DigestSent,
	)
	return report, nil
}

// notifyPICs sends one message per flagged document to its PIC contact.
func (s *ReminderService) notifyPICs(ctx context.Context, flagged []FlaggedDocument, report *ReminderReport) {
	for _, fd := range flagged {
		contact, err := s.directory.PICFor(ctx, fd.Document)
		if err != nil || contact == nil || contact.Email == "" {
			logger.Warn(ctx, "no PIC contact for document", "document_id", fd.Document.ID)
			continue
		}

		subject, body, err := BuildPICMail(fd.Document, fd.DaysRemaining, s.dashboardURL)
		if err != nil {
			report.PICFailed++
			logger.Error(ctx, "failed to build PIC mail", "document_id", fd.Document.ID, "error", err)
			continue
		}

		mail := &Mail{To: []string{contact.Email}, Subject: subject, Body: body}
		if s.adminCC != "" {
			mail.CC = []string{s.adminCC}
		}
		if err := s.mailer.Send(ctx, mail); err != nil {
			report.PICFailed++
			logger.Error(ctx, "failed to send PIC reminder",
				"document_id", fd.Document.ID,
				"recipient", contact.Email,
				"error", err,
			)
			continue
		}
		report.PICSent++
		logger.Info(ctx, "PIC reminder sent",
			"document_id", fd.Document.ID,
			"days_remaining", fd.DaysRemaining,
			"bucket", fd.Bucket,
		)
	}
}

// notifyManagers sends one aggregated summary per owning team.
func (s *ReminderService) notifyManagers(ctx context.Context, flagged []FlaggedDocument, report *ReminderReport) {
	byTeam := make(map[int64][]FlaggedDocument)
	for _, fd := range flagged {
		byTeam[fd.Document.TeamID] = append(byTeam[fd.Document.TeamID], fd)
	}

	teamIDs := make([]int64, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	for _, teamID := range teamIDs {
		docs := byTeam[teamID]
		managers, err := s.directory.ManagersForTeam(ctx, teamID)
		if err != nil || len(managers) == 0 {
			report.TeamsFailed++
			logger.Warn(ctx, "no managers for team", "team_id", teamID, "error", err)
			continue
		}

		subject, body, err := BuildTeamSummaryMail(docs, s.dashboardURL)
		if err != nil {
			report.TeamsFailed++
			logger.Error(ctx, "failed to build team summary", "team_id", teamID, "error", err)
			continue
		}

		bcc := make([]string, 0, len(managers))
		for _, m := range managers {
			bcc = append(bcc, m.Email)
		}
		if err := s.mailer.Send(ctx, &Mail{BCC: bcc, Subject: subject, Body: body}); err != nil {
			report.TeamsFailed++
			logger.Error(ctx, "failed to send team summary", "team_id", teamID, "error", err)
			continue
		}
		report.TeamsSent++
		logger.Info(ctx, "team summary sent", "team_id", teamID, "documents", len(docs))
	}
}

// sendDigest composes the daily digest and sends it to all admins, once.
func (s *ReminderService) sendDigest(ctx context.Context, flagged []FlaggedDocument, report *ReminderReport, today time.Time) {
	admins, err := s.directory.Admins(ctx)
	if err != nil || len(admins) == 0 {
		logger.Warn(ctx, "no admin recipients for daily digest", "error", err)
		return
	}

	subject, body, err := BuildDigestMail(flagged, report.ExpiredToday, today, s.dashboardURL)
	if err != nil {
		logger.Error(ctx, "failed to build daily digest", "error", err)
		return
	}

	to := make([]string, 0, len(admins))
	for _, a := range admins {
		to = append(to, a.Email)
	}
	if err := s.mailer.Send(ctx, &Mail{To: to, Subject: subject, Body: body}); err != nil {
		logger.Error(ctx, "failed to send daily digest", "error", err)
		return
	}
	report.DigestSent = len(to)
	logger.Info(ctx, "daily digest sent", "recipients", len(to))
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/pkg/logger"
)

// DateLayout is the wire format for cooperation dates.
const DateLayout = "2006-01-02"

// RenewalService owns the renew / mark-not-renewed transitions. The
// Active -> AwaitingResolution transition has no stored representation;
// it is computed on read (see PositionOf).
type RenewalService struct {
	store DocumentStore
	now   func() time.Time
}

func NewRenewalService(store DocumentStore) *RenewalService {
	return &RenewalService{store: store, now: time.Now}
}

// Renew extends an expired document to newEndDate and restores the
// workflow stage it held before lapsing. Every successful call appends
// one history entry and increments the renewal count, including repeat
// calls with the same date: corrections are audit-logged, not deduped.
func (s *RenewalService) Renew(ctx context.Context, id, newEndDate, notes string) (*model.Document, error) {
	end, err := time.ParseInLocation(DateLayout, newEndDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, newEndDate)
	}

	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := requireExpired(doc, now); err != nil {
		return nil, err
	}

	// Resume the stage the document was at before it lapsed rather than
	// resetting the review workflow to a generic "Aktif".
	stageBefore := doc.Stage
	preserved := preservedStage(doc)

	updated := doc.Clone()
	oldEnd := updated.CooperationEndDate
	updated.CooperationEndDate = &end
	updated.Stage = preserved
	updated.LastActiveStage = preserved
	updated.SubStatus = preserved
	updated.StatusAkhir = preserved
	updated.RenewalStatus = model.RenewalRenewed
	updated.RenewalCount++
	updated.RenewedAt = &now
	if notes == "" {
		notes = fmt.Sprintf("Diperpanjang otomatis oleh sistem pada %s", now.Format(DateLayout))
	}
	updated.RenewalNotes = notes
	updated.RenewalHistory = append(updated.RenewalHistory, model.RenewalEvent{
		Date:        now,
		OldEndDate:  oldEnd,
		NewEndDate:  end,
		StageBefore: stageBefore,
		StageAfter:  preserved,
		Notes:       notes,
	})

	if err := s.store.Save(ctx, updated); err != nil {
		return nil, err
	}

	logger.Info(ctx, "document renewed",
		"document_id", updated.ID,
		"new_end_date", newEndDate,
		"renewal_count", updated.RenewalCount,
		"stage", updated.Stage,
	)
	return updated, nil
}

// MarkNotRenewed freezes an expired document as terminal. The stage that
// was active at freeze time is captured so a later renewal, if ever
// invoked again, has something to restore to.
func (s *RenewalService) MarkNotRenewed(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := requireExpired(doc, now); err != nil {
		return nil, err
	}

	captured := firstNonEmpty(doc.SubStatus, doc.StatusAkhir, doc.Stage, model.StageAktif)
	if captured == model.StageSelesai || captured == model.StageDiperpanjang {
		captured = model.StageAktif
	}

	updated := doc.Clone()
	updated.LastActiveStage = captured
	updated.Stage = model.StageSelesai
	updated.RenewalStatus = model.RenewalNotRenewed
	updated.MarkedNotRenewedAt = &now

	if err := s.store.Save(ctx, updated); err != nil {
		return nil, err
	}

	logger.Info(ctx, "document marked as not renewed",
		"document_id", updated.ID,
		"last_active_stage", updated.LastActiveStage,
	)
	return updated, nil
}

// requireExpired guards against fast-forwarding a document's lifecycle:
// both resolutions demand an end date strictly in the past. Days are
// counted on midnight-normalized dates, same as the classifier, so a
// document due later today is still urgent, not expired.
func requireExpired(doc *model.Document, now time.Time) error {
	days, ok := DaysRemaining(doc.CooperationEndDate, now)
	if !ok || days >= 0 {
		return fmt.Errorf("%w: document %s", ErrNotYetExpired, doc.ID)
	}
	return nil
}

// preservedStage picks the workflow stage a renewal should resume at.
// LastActiveStage is authoritative; the deprecated aliases are read for
// documents written by the old system.
func preservedStage(doc *model.Document) string {
	return firstNonEmpty(doc.LastActiveStage, doc.SubStatus, doc.StatusAkhir, doc.Stage, model.StageAktif)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

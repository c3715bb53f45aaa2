package service

import (
	"time"

	"github.com/yusimeilanyy/intern-project/model"
)

// Bucket is the urgency class derived from a document's end date.
type Bucket string

const (
	// BucketUnclassified marks documents without a usable end date.
	// They are excluded from every reminder and stat bucket.
	BucketUnclassified Bucket = "unclassified"
	BucketExpired      Bucket = "expired"
	BucketUrgent       Bucket = "urgent"
	BucketWarning      Bucket = "warning"
	BucketActive       Bucket = "active"
)

// Day boundaries for the reminder windows, inclusive.
const (
	UrgentDays  = 7
	WarningDays = 14
)

// Position is the computed lifecycle position of a document. It is never
// stored; deriving it from the end date and the clock at read time keeps
// stored state and wall-clock reality from drifting apart.
type Position string

const (
	PositionActive             Position = "active"
	PositionAwaitingResolution Position = "awaiting_resolution"
	PositionRenewed            Position = "renewed"
	PositionNotRenewed         Position = "not_renewed"
)

// Midnight truncates t to the start of its day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysRemaining returns end minus today in whole days. The second return
// is false when there is no end date.
func DaysRemaining(end *time.Time, today time.Time) (int, bool) {
	if end == nil {
		return 0, false
	}
	d := Midnight(*end).Sub(Midnight(today))
	return int(d.Hours() / 24), true
}

// ClassifyDate buckets an end date relative to today. First match wins:
// missing date, strictly past, 0..7 days, 8..14 days, beyond.
func ClassifyDate(end *time.Time, today time.Time) Bucket {
	days, ok := DaysRemaining(end, today)
	switch {
	case !ok:
		return BucketUnclassified
	case days < 0:
		return BucketExpired
	case days <= UrgentDays:
		return BucketUrgent
	case days <= WarningDays:
		return BucketWarning
	default:
		return BucketActive
	}
}

// Resolved reports whether the document is already past needing action:
// explicitly renewed, frozen as not renewed, or at a terminal stage.
func Resolved(d *model.Document) bool {
	if d.RenewalStatus == model.RenewalNotRenewed {
		return true
	}
	return d.Stage == model.StageDiperpanjang || d.Stage == model.StageSelesai
}

// Classify buckets a document. A resolved document never lands in the
// expired bucket even when its date is in the past; expiry classification
// only flags documents still awaiting resolution.
func Classify(d *model.Document, today time.Time) Bucket {
	b := ClassifyDate(d.CooperationEndDate, today)
	if b == BucketExpired && Resolved(d) {
		return BucketActive
	}
	return b
}

// PositionOf derives the lifecycle position from stored data plus the
// current date. Exactly one position describes a document at any time.
func PositionOf(d *model.Document, today time.Time) Position {
	if d.RenewalStatus == model.RenewalNotRenewed {
		return PositionNotRenewed
	}
	if d.CooperationEndDate == nil {
		return PositionActive
	}
	if Midnight(*d.CooperationEndDate).Before(Midnight(today)) {
		return PositionAwaitingResolution
	}
	if d.RenewalStatus == model.RenewalRenewed {
		return PositionRenewed
	}
	return PositionActive
}

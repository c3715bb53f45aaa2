package model

import (
	"time"
)

// Category identifies which intake form created a document. It does not
// affect lifecycle rules.
type Category string

const (
	CategoryPemda    Category = "pemda"
	CategoryNonPemda Category = "non_pemda"

	// Legacy category values still present in migrated rows. "mou" is
	// treated as pemda when filtering.
	CategoryLegacyMou Category = "mou"
	CategoryLegacyPks Category = "pks"
)

// DocumentType distinguishes an MoU from a PKS (implementation agreement).
type DocumentType string

const (
	TypeMoU DocumentType = "MoU"
	TypePKS DocumentType = "PKS"
)

// Workflow stages. Stored, user-editable. The lifecycle position is never
// stored; see Position.
const (
	StageBaru           = "Baru"
	StageDalamProses    = "Dalam Proses"
	StageReviewPemda1   = "Review PEMDA 1"
	StageReviewBPSDMP   = "Review BPSDMP Kominfo"
	StageReviewBPSDMP1  = "Review BPSDMP 1"
	StageReviewPemda2   = "Review PEMDA 2"
	StageReviewBPSDMP2  = "Review BPSDMP 2"
	StagePersiapanTTD   = "Persiapan TTD Para Pihak"
	StageAktif          = "Aktif"
	StageDiperpanjang   = "Diperpanjang"
	StageSelesai        = "Selesai"
)

// RenewalStatus records the explicit resolution of an expired document.
type RenewalStatus string

const (
	RenewalNone       RenewalStatus = ""
	RenewalRenewed    RenewalStatus = "renewed"
	RenewalNotRenewed RenewalStatus = "not_renewed"
)

// RenewalEvent is one entry of a document's append-only renewal history.
type RenewalEvent struct {
	Date        time.Time  `json:"date"`
	OldEndDate  *time.Time `json:"old_end_date"`
	NewEndDate  time.Time  `json:"new_end_date"`
	StageBefore string     `json:"stage_before"`
	StageAfter  string     `json:"stage_after"`
	Notes       string     `json:"notes,omitempty"`
}

// Document is a cooperation document (MoU or PKS).
type Document struct {
	ID       string       `json:"id"`
	Category Category     `json:"category"`
	Type     DocumentType `json:"document_type"`

	Institution      string `json:"institution"`
	OfficeDocNumber  string `json:"office_doc_number,omitempty"`
	PartnerDocNumber string `json:"partner_doc_number,omitempty"`
	PICName          string `json:"pic_name,omitempty"`
	PICEmail         string `json:"pic_email,omitempty"`
	PartnerPIC       string `json:"partner_pic,omitempty"`
	PartnerPICPhone  string `json:"partner_pic_phone,omitempty"`
	TeamID           int64  `json:"team_id,omitempty"`
	Owner            string `json:"owner,omitempty"`
	Notes            string `json:"notes,omitempty"`

	CooperationStartDate *time.Time `json:"cooperation_start_date"`
	CooperationEndDate   *time.Time `json:"cooperation_end_date"`

	// Stage is the current workflow stage. LastActiveStage is the
	// authoritative record of the stage a document held before it lapsed;
	// SubStatus and StatusAkhir are deprecated aliases kept in sync for
	// consumers of the old payload shape.
	Stage           string `json:"status"`
	LastActiveStage string `json:"last_active_stage,omitempty"`
	SubStatus       string `json:"sub_status,omitempty"`
	StatusAkhir     string `json:"status_akhir,omitempty"`

	RenewalStatus      RenewalStatus  `json:"renewal_status,omitempty"`
	RenewalCount       int            `json:"renewal_count"`
	RenewalNotes       string         `json:"renewal_notes,omitempty"`
	RenewedAt          *time.Time     `json:"renewed_at,omitempty"`
	MarkedNotRenewedAt *time.Time     `json:"marked_not_renewed_at,omitempty"`
	RenewalHistory     []RenewalEvent `json:"renewal_history,omitempty"`

	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentKey  string `json:"attachment_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultType returns the document type implied by a category when the
// intake form did not set one.
func (c Category) DefaultType() DocumentType {
	if c == CategoryLegacyPks {
		return TypePKS
	}
	return TypeMoU
}

// MatchesCategory reports whether the document belongs to the given filter
// category, folding the legacy "mou" value into pemda.
func (d *Document) MatchesCategory(filter Category) bool {
	if filter == "" {
		return true
	}
	if filter == CategoryPemda {
		return d.Category == CategoryPemda || d.Category == CategoryLegacyMou
	}
	return d.Category == filter
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := *d
	cp.CooperationStartDate = copyTime(d.CooperationStartDate)
	cp.CooperationEndDate = copyTime(d.CooperationEndDate)
	cp.RenewedAt = copyTime(d.RenewedAt)
	cp.MarkedNotRenewedAt = copyTime(d.MarkedNotRenewedAt)
	if d.RenewalHistory != nil {
		cp.RenewalHistory = make([]RenewalEvent, len(d.RenewalHistory))
		copy(cp.RenewalHistory, d.RenewalHistory)
	}
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/service"
)

// Document maps to the mous table. The renewal history rides along as a
// JSON column; everything else is a typed column so the store boundary
// validates what the old system kept in a free-form payload.
type Document struct {
	ID       string `gorm:"column:id;primaryKey;type:uuid"`
	Category string `gorm:"column:category;type:varchar(32);index;not null"`
	DocType  string `gorm:"column:document_type;type:varchar(8);index;not null"`

	Institution      string `gorm:"column:institution;type:varchar(255)"`
	OfficeDocNumber  string `gorm:"column:office_doc_number;type:varchar(128)"`
	PartnerDocNumber string `gorm:"column:partner_doc_number;type:varchar(128)"`
	PICName          string `gorm:"column:pic_name;type:varchar(255)"`
	PICEmail         string `gorm:"column:pic_email;type:varchar(255)"`
	PartnerPIC       string `gorm:"column:partner_pic;type:varchar(255)"`
	PartnerPICPhone  string `gorm:"column:partner_pic_phone;type:varchar(64)"`
	TeamID           int64  `gorm:"column:team_id;index"`
	Owner            string `gorm:"column:owner;type:varchar(255)"`
	Notes            string `gorm:"column:notes;type:text"`

	CooperationStartDate *time.Time `gorm:"column:cooperation_start_date;index"`
	CooperationEndDate   *time.Time `gorm:"column:cooperation_end_date;index"`

	Stage           string `gorm:"column:status;type:varchar(64)"`
	LastActiveStage string `gorm:"column:last_active_stage;type:varchar(64)"`
	SubStatus       string `gorm:"column:sub_status;type:varchar(64)"`
	StatusAkhir     string `gorm:"column:status_akhir;type:varchar(64)"`

	RenewalStatus      string         `gorm:"column:renewal_status;type:varchar(16);index"`
	RenewalCount       int            `gorm:"column:renewal_count;default:0"`
	RenewalNotes       string         `gorm:"column:renewal_notes;type:text"`
	RenewedAt          *time.Time     `gorm:"column:renewed_at"`
	MarkedNotRenewedAt *time.Time     `gorm:"column:marked_not_renewed_at"`
	RenewalHistory     datatypes.JSON `gorm:"column:renewal_history"`

	AttachmentName string `gorm:"column:attachment_name;type:varchar(255)"`
	AttachmentKey  string `gorm:"column:attachment_key;type:varchar(512)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "mous"
}

// DocumentRepo implements service.DocumentStore on PostgreSQL.
type DocumentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var row Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *DocumentRepo) FindAll(ctx context.Context, filter service.DocumentFilter) ([]*model.Document, error) {
	tx := r.db.WithContext(ctx).Model(&Document{})
	switch filter.Category {
	case "":
	case model.CategoryPemda:
		// Legacy rows created by the old intake carry category "mou".
		tx = tx.Where("category IN ?", []string{string(model.CategoryPemda), string(model.CategoryLegacyMou)})
	default:
		tx = tx.Where("category = ?", string(filter.Category))
	}

	var rows []Document
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]*model.Document, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *DocumentRepo) Save(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	row, err := fromModel(doc)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	doc.CreatedAt = row.CreatedAt
	doc.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrDocumentNotFound
	}
	return nil
}

func (row *Document) toModel() (*model.Document, error) {
	var history []model.RenewalEvent
	if len(row.RenewalHistory) > 0 {
		if err := json.Unmarshal(row.RenewalHistory, &history); err != nil {
			return nil, fmt.Errorf("decode renewal history for %s: %w", row.ID, err)
		}
	}
	return &model.Document{
		ID:                   row.ID,
		Category:             model.Category(row.Category),
		Type:                 model.DocumentType(row.DocType),
		Institution:          row.Institution,
		OfficeDocNumber:      row.OfficeDocNumber,
		PartnerDocNumber:     row.PartnerDocNumber,
		PICName:              row.PICName,
		PICEmail:             row.PICEmail,
		PartnerPIC:           row.PartnerPIC,
		PartnerPICPhone:      row.PartnerPICPhone,
		TeamID:               row.TeamID,
		Owner:                row.Owner,
		Notes:                row.Notes,
		CooperationStartDate: row.CooperationStartDate,
		CooperationEndDate:   row.CooperationEndDate,
		Stage:                row.Stage,
		LastActiveStage:      row.LastActiveStage,
		SubStatus:            row.SubStatus,
		StatusAkhir:          row.StatusAkhir,
		RenewalStatus:        model.RenewalStatus(row.RenewalStatus),
		RenewalCount:         row.RenewalCount,
		RenewalNotes:         row.RenewalNotes,
		RenewedAt:            row.RenewedAt,
		MarkedNotRenewedAt:   row.MarkedNotRenewedAt,
		RenewalHistory:       history,
		AttachmentName:       row.AttachmentName,
		AttachmentKey:        row.AttachmentKey,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func fromModel(doc *model.Document) (*Document, error) {
	var history datatypes.JSON
	if len(doc.RenewalHistory) > 0 {
		data, err := json.Marshal(doc.RenewalHistory)
		if err != nil {
			return nil, fmt.Errorf("encode renewal history for %s: %w", doc.ID, err)
		}
		history = data
	}
	return &Document{
		ID:                   doc.ID,
		Category:             string(doc.Category),
		DocType:              string(doc.Type),
		Institution:          doc.Institution,
		OfficeDocNumber:      doc.OfficeDocNumber,
		PartnerDocNumber:     doc.PartnerDocNumber,
		PICName:              doc.PICName,
		PICEmail:             doc.PICEmail,
		PartnerPIC:           doc.PartnerPIC,
		PartnerPICPhone:      doc.PartnerPICPhone,
		TeamID:               doc.TeamID,
		Owner:                doc.Owner,
		Notes:                doc.Notes,
		CooperationStartDate: doc.CooperationStartDate,
		CooperationEndDate:   doc.CooperationEndDate,
		Stage:                doc.Stage,
		LastActiveStage:      doc.LastActiveStage,
		SubStatus:            doc.SubStatus,
		StatusAkhir:          doc.StatusAkhir,
		RenewalStatus:        string(doc.RenewalStatus),
		RenewalCount:         doc.RenewalCount,
		RenewalNotes:         doc.RenewalNotes,
		RenewedAt:            doc.RenewedAt,
		MarkedNotRenewedAt:   doc.MarkedNotRenewedAt,
		RenewalHistory:       history,
		AttachmentName:       doc.AttachmentName,
		AttachmentKey:        doc.AttachmentKey,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}, nil
}

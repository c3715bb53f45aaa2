package model

import (
	"testing"
	"time"
)

func TestCategoryDefaultType(t *testing.T) {
	tests := []struct {
		category Category
		expected DocumentType
	}{
		{CategoryPemda, TypeMoU},
		{CategoryNonPemda, TypeMoU},
		{CategoryLegacyMou, TypeMoU},
		{CategoryLegacyPks, TypePKS},
	}

	for _, tt := range tests {
		if got := tt.category.DefaultType(); got != tt.expected {
			t.Errorf("DefaultType(%s): expected %s, got %s", tt.category, tt.expected, got)
		}
	}
}

func TestMatchesCategory(t *testing.T) {
	tests := []struct {
		name     string
		doc      Category
		filter   Category
		expected bool
	}{
		{"empty filter matches all", CategoryNonPemda, "", true},
		{"exact pemda", CategoryPemda, CategoryPemda, true},
		{"legacy mou folds into pemda", CategoryLegacyMou, CategoryPemda, true},
		{"non_pemda does not match pemda", CategoryNonPemda, CategoryPemda, false},
		{"exact non_pemda", CategoryNonPemda, CategoryNonPemda, true},
		{"legacy pks is not folded", CategoryLegacyPks, CategoryPemda, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Category: tt.doc}
			if got := doc.MatchesCategory(tt.filter); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDocumentClone(t *testing.T) {
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.Local)
	doc := &Document{
		ID:                 "doc-1",
		CooperationEndDate: &end,
		RenewalHistory: []RenewalEvent{
			{NewEndDate: end, StageBefore: StageAktif},
		},
	}

	cp := doc.Clone()

	// Mutating the clone must not reach the original.
	*cp.CooperationEndDate = end.AddDate(1, 0, 0)
	cp.RenewalHistory[0].StageBefore = StageBaru
	cp.RenewalHistory = append(cp.RenewalHistory, RenewalEvent{})

	if !doc.CooperationEndDate.Equal(end) {
		t.Error("Expected original end date untouched by clone mutation")
	}
	if doc.RenewalHistory[0].StageBefore != StageAktif {
		t.Error("Expected original history untouched by clone mutation")
	}
	if len(doc.RenewalHistory) != 1 {
		t.Errorf("Expected original history length 1, got %d", len(doc.RenewalHistory))
	}
}

func TestDocumentCloneNilDates(t *testing.T) {
	doc := &Document{ID: "doc-2"}
	cp := doc.Clone()
	if cp.CooperationEndDate != nil || cp.RenewedAt != nil {
		t.Error("Expected nil dates to stay nil in the clone")
	}
}

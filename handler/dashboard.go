package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/service"
)

type DashboardHandler struct {
	store service.DocumentStore
	now   func() time.Time
}

func NewDashboardHandler(store service.DocumentStore) *DashboardHandler {
	return &DashboardHandler{store: store, now: time.Now}
}

// Summary returns document totals per category, type and urgency bucket,
// plus the full list the dashboard renders.
func (h *DashboardHandler) Summary(c *gin.Context) {
	docs, err := h.store.FindAll(c.Request.Context(), service.DocumentFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}

	today := h.now()
	buckets := map[service.Bucket]int{}
	var pemda, nonPemda, mou, pks int
	for _, doc := range docs {
		buckets[service.Classify(doc, today)]++
		if doc.MatchesCategory(model.CategoryPemda) {
			pemda++
		} else if doc.MatchesCategory(model.CategoryNonPemda) {
			nonPemda++
		}
		if doc.Type == model.TypePKS {
			pks++
		} else {
			mou++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(docs),
		"pemda":     pemda,
		"non_pemda": nonPemda,
		"mou":       mou,
		"pks":       pks,
		"urgent":    buckets[service.BucketUrgent],
		"warning":   buckets[service.BucketWarning],
		"expired":   buckets[service.BucketExpired],
		"active":    buckets[service.BucketActive],
		"documents": docs,
	})
}

type expiringEntry struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Institution    string `json:"institution"`
	DocumentNumber string `json:"document_number"`
	EndDate        string `json:"end_date"`
	DaysRemaining  int    `json:"days_remaining"`
	Stage          string `json:"stage"`
	Position       string `json:"position"`
}

// ExpiringStats returns the urgent, warning and expired groups for the
// dashboard's attention panel, each sorted by days remaining.
func (h *DashboardHandler) ExpiringStats(c *gin.Context) {
	docs, err := h.store.FindAll(c.Request.Context(), service.DocumentFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}

	today := h.now()
	groups := map[service.Bucket][]expiringEntry{}
	for _, doc := range docs {
		bucket := service.Classify(doc, today)
		switch bucket {
		case service.BucketUrgent, service.BucketWarning, service.BucketExpired:
		default:
			continue
		}
		days, _ := service.DaysRemaining(doc.CooperationEndDate, today)
		groups[bucket] = append(groups[bucket], expiringEntry{
			ID:             doc.ID,
			Category:       string(doc.Category),
			Institution:    doc.Institution,
			DocumentNumber: doc.OfficeDocNumber,
			EndDate:        dateString(doc.CooperationEndDate),
			DaysRemaining:  days,
			Stage:          doc.Stage,
			Position:       string(service.PositionOf(doc, today)),
		})
	}
	for _, entries := range groups {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].DaysRemaining < entries[j].DaysRemaining
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"urgent":  orEmpty(groups[service.BucketUrgent]),
		"warning": orEmpty(groups[service.BucketWarning]),
		"expired": orEmpty(groups[service.BucketExpired]),
	})
}

func orEmpty(entries []expiringEntry) []expiringEntry {
	if entries == nil {
		return []expiringEntry{}
	}
	return entries
}

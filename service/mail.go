package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yusimeilanyy/intern-project/model"
)

// Urgency tier labels used in reminder subjects and bodies.
const (
	tierUrgent    = "SANGAT URGENT"
	tierPressing  = "MENDESAK"
	tierAttention = "Perlu Perhatian"
)

func urgencyTier(daysRemaining int) string {
	switch {
	case daysRemaining <= 7:
		return tierUrgent
	case daysRemaining <= 10:
		return tierPressing
	default:
		return tierAttention
	}
}

var picTmpl = template.Must(template.New("pic").Parse(`<html><body>
<h2>Notifikasi PIC: {{.Tier}}</h2>
<p>Halo {{.PICName}},</p>
<p>Anda adalah PIC untuk dokumen berikut yang akan expired dalam <strong>{{.DaysRemaining}} hari</strong>:</p>
<ul>
<li>Jenis Dokumen: {{.Type}}</li>
<li>Mitra: {{.Institution}}</li>
<li>Periode: {{.StartDate}} s.d. {{.EndDate}}</li>
</ul>
<p>Segera konfirmasi dengan mitra apakah kerja sama akan diperpanjang dan proses
perpanjangan minimal 7 hari sebelum expired.</p>
<p><a href="{{.DashboardURL}}">Lihat detail &amp; proses perpanjangan</a></p>
<p>Dikirim oleh Sistem Manajemen MoU/PKS</p>
</body></html>`))

var teamTmpl = template.Must(template.New("team").Parse(`<html><body>
<h2>Ringkasan Tim</h2>
<p>Halo Manager Tim,</p>
<p><strong>{{.Total}}</strong> dokumen tim Anda akan expired{{if .UrgentCount}}, {{.UrgentCount}} di antaranya URGENT{{end}}.</p>
<ul>
{{range .Docs}}<li><strong>{{.Type}}</strong>: {{.Institution}} ({{.DaysRemaining}} hari lagi)</li>
{{end}}</ul>
<p><a href="{{.DashboardURL}}">Lihat semua dokumen</a></p>
<p>Dikirim oleh Sistem Manajemen MoU/PKS</p>
</body></html>`))

var digestTmpl = template.Must(template.New("digest").Parse(`<html><body>
<h2>Daily Digest - {{.Date}}</h2>
<p>Halo Admin,</p>
<p>Ringkasan status dokumen hari ini:</p>
<ul>
<li>Akan expired (14 hari): <strong>{{.Total}}</strong></li>
<li>URGENT (&le;7 hari): <strong>{{.UrgentCount}}</strong></li>
<li>Expired hari ini: <strong>{{.ExpiredToday}}</strong></li>
</ul>
{{if .Docs}}<ul>
{{range .Docs}}<li><strong>{{.Type}}</strong>: {{.Institution}} ({{.DaysRemaining}} hari lagi) - PIC: {{.PICName}}</li>
{{end}}</ul>
{{else}}<p>Tidak ada dokumen yang akan expired dalam 14 hari ke depan.</p>
{{end}}<p><a href="{{.DashboardURL}}">Lihat dashboard lengkap</a></p>
<p>Daily Digest - Sistem Manajemen MoU/PKS</p>
</body></html>`))

type mailDoc struct {
	Type          model.DocumentType
	Institution   string
	PICName       string
	DaysRemaining int
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DateLayout)
}

// BuildPICMail composes the per-document reminder for the document's PIC.
func BuildPICMail(doc *model.Document, daysRemaining int, dashboardURL string) (subject, body string, err error) {
	tier := urgencyTier(daysRemaining)
	subject = fmt.Sprintf("[%s] Dokumen Anda akan expired: %s - %s", tier, doc.Type, doc.Institution)

	var buf bytes.Buffer
	err = picTmpl.Execute(&buf, map[string]any{
		"Tier":          tier,
		"PICName":       doc.PICName,
		"DaysRemaining": daysRemaining,
		"Type":          doc.Type,
		"Institution":   doc.Institution,
		"StartDate":     formatDate(doc.CooperationStartDate),
		"EndDate":       formatDate(doc.CooperationEndDate),
		"DashboardURL":  dashboardURL,
	})
	return subject, buf.String(), err
}

// BuildTeamSummaryMail composes one aggregated message for a team's
// managers covering all of the team's flagged documents.
func BuildTeamSummaryMail(docs []FlaggedDocument, dashboardURL string) (subject, body string, err error) {
	urgent := 0
	items := make([]mailDoc, 0, len(docs))
	for _, fd := range docs {
		if fd.DaysRemaining <= UrgentDays {
			urgent++
		}
		items = append(items, mailDoc{
			Type:          fd.Document.Type,
			Institution:   fd.Document.Institution,
			PICName:       fd.Document.PICName,
			DaysRemaining: fd.DaysRemaining,
		})
	}
	subject = fmt.Sprintf("Ringkasan Tim: %d dokumen akan expired (%d URGENT)", len(docs), urgent)

	var buf bytes.Buffer
	err = teamTmpl.Execute(&buf, map[string]any{
		"Total":        len(docs),
		"UrgentCount":  urgent,
		"Docs":         items,
		"DashboardURL": dashboardURL,
	})
	return subject, buf.String(), err
}

// BuildDigestMail composes the once-per-run admin digest.
func BuildDigestMail(docs []FlaggedDocument, expiredToday int, today time.Time, dashboardURL string) (subject, body string, err error) {
	urgent := 0
	items := make([]mailDoc, 0, len(docs))
	for _, fd := range docs {
		if fd.DaysRemaining <= UrgentDays {
			urgent++
		}
		items = append(items, mailDoc{
			Type:          fd.Document.Type,
			Institution:   fd.Document.Institution,
			PICName:       fd.Document.PICName,
			DaysRemaining: fd.DaysRemaining,
		})
	}
	subject = fmt.Sprintf("Daily Digest: %d dokumen akan expired (%d URGENT)", len(docs), urgent)

	var buf bytes.Buffer
	err = digestTmpl.Execute(&buf, map[string]any{
		"Date":         today.Format(DateLayout),
		"Total":        len(docs),
		"UrgentCount":  urgent,
		"ExpiredToday": expiredToday,
		"Docs":         items,
		"DashboardURL": dashboardURL,
	})
	return subject, buf.String(), err
}

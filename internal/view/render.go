package view

import (
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"jobview-engine/internal/record"
)

var cardsTmpl = template.Must(template.New("cards").Parse(`{{range .}}<article class="job-card">
  <h3 class="job-title">{{.Title}}</h3>
  <ul class="job-meta">
    <li class="job-level">{{.Level}}</li>
    <li class="job-type">{{.Type}}</li>
    <li class="job-skill">{{.Skill}}</li>
    <li class="job-posted">{{.PostedText}}</li>
  </ul>
  <p class="job-detail">{{.Detail}}</p>
  <a class="job-link" href="{{.Link}}">View Job</a>
</article>
{{end}}`))

type card struct {
	record.JobRecord
	PostedText string
}

// RenderCards writes the records as an HTML fragment of job cards, one
// <article> per record, ready to drop into the viewer page.
func RenderCards(w io.Writer, records []record.JobRecord) error {
	cards := make([]card, 0, len(records))
	now := time.Now()
	for _, r := range records {
		cards = append(cards, card{
			JobRecord:  r,
			PostedText: postedText(now, r.PostedMinutes),
		})
	}
	return cardsTmpl.Execute(w, cards)
}

func postedText(now time.Time, minutes int) string {
	return humanize.RelTime(now.Add(-time.Duration(minutes)*time.Minute), now, "ago", "from now")
}

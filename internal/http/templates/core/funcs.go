package core

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
)

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns the helpers shared by every page template.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":    deps.ContentTemplateFor,
		"add":            func(a, b int) int { return a + b },
		"contains":       strings.Contains,
		"formatNumber":   FormatNumber,
		"truncateText":   TruncateText,
		"appStatusClass": AppStatusClass,
		"jobStatusClass": JobStatusClass,
		"flashClass":     FlashClass,
		"isoDate":        isoDate,
		"appStatuses":    func() []model.ApplicationStatus { return model.ApplicationStatuses },
	}
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped above.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// AppStatusClass maps an application status to its badge class.
func AppStatusClass(status model.ApplicationStatus) string {
	switch status {
	case model.ApplicationStatusHired:
		return "badge-success"
	case model.ApplicationStatusRejected:
		return "badge-danger"
	case model.ApplicationStatusInterviewing:
		return "badge-info"
	case model.ApplicationStatusReviewed:
		return "badge-secondary"
	default:
		return "badge-warning"
	}
}

// JobStatusClass maps a job status to its badge class.
func JobStatusClass(status model.JobStatus) string {
	if status == model.JobStatusActive {
		return "badge-success"
	}
	return "badge-light"
}

// FlashClass maps a flash level to its alert class. Unknown levels render as info.
func FlashClass(level domainauth.FlashLevel) string {
	switch level {
	case domainauth.FlashSuccess, domainauth.FlashWarning, domainauth.FlashDanger:
		return "alert-" + string(level)
	default:
		return "alert-info"
	}
}

// FormatNumber formats an int with comma separators for thousands.
func FormatNumber(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// TruncateText truncates a string to at most maxLen runes, ending with an
// ellipsis when something was cut.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

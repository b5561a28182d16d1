package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"jobview-engine/internal/view"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims what can be trimmed and reports what cannot be
// fixed. The returned config is a normalized copy.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Dataset.Path = strings.TrimSpace(out.Dataset.Path)
	out.View.DefaultSort = strings.TrimSpace(out.View.DefaultSort)
	out.View.Locale = strings.TrimSpace(out.View.Locale)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Dataset.AutoReloadSeconds < 0 {
		res.addErr("dataset.auto_reload_seconds must be >= 0 (0 disables the watcher)")
	} else if out.Dataset.AutoReloadSeconds > 0 && out.Dataset.AutoReloadSeconds < 2 {
		res.addWarn("dataset.auto_reload_seconds is very low (%d); the file will be stat'd constantly.", out.Dataset.AutoReloadSeconds)
	}
	if out.Dataset.AutoReloadSeconds > 0 && out.Dataset.Path == "" {
		res.addWarn("auto reload is enabled but dataset.path is empty; the watcher will do nothing.")
	}
	if out.Dataset.MaxUploadBytes <= 0 {
		res.addErr("dataset.max_upload_bytes must be > 0")
	}

	if !view.ValidSortKey(out.View.DefaultSort) {
		res.addErr("view.default_sort must be one of: title-asc, title-desc, posted-asc, posted-desc, or empty")
	}

	if out.View.Locale != "" {
		if _, err := language.Parse(out.View.Locale); err != nil {
			res.addErr("view.locale %q is not a valid BCP 47 tag", out.View.Locale)
		}
	}

	return out, res
}

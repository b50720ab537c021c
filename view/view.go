package view

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oxagroupe/oxa-crm/i18n"
)

var (
	baseDir  string
	baseOnce sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// The host app wires these so the view layer stays decoupled from the
	// middleware package while still reflecting per-request preferences.
	langResolver  = func(_ *http.Request) string { return "fr" }
	themeResolver = func(_ *http.Request) string { return "light" }
)

// SetLangResolver sets the callback used to resolve the request language.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetThemeResolver sets the callback used to resolve the request theme.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// resolveBaseDir finds the templates directory whether the server runs from
// the repo root or from cmd/server.
func resolveBaseDir() string {
	baseOnce.Do(func() {
		for _, c := range []string{"templates", "../templates", "../../templates"} {
			if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
				baseDir = filepath.Clean(c)
				return
			}
		}
		baseDir = "templates"
	})
	return baseDir
}

// FormatEuro renders an amount the French way: "12 000,00 €".
func FormatEuro(v float64) string {
	neg := v < 0 || (v == 0 && math.Signbit(v))
	cents := int64(math.Round(math.Abs(v) * 100))
	euros := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", euros)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(d)
	}
	s := fmt.Sprintf("%s,%02d €", b.String(), frac)
	if neg {
		return "-" + s
	}
	return s
}

// FormatDate renders a time as JJ/MM/AAAA.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func funcsFor(lang string) template.FuncMap {
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"euro": FormatEuro,
		"date": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return FormatDate(t)
			case *time.Time:
				if t == nil {
					return ""
				}
				return FormatDate(*t)
			}
			return ""
		},
	}
}

func load(name, lang string) (*template.Template, error) {
	key := lang + "|" + name
	tplCache.RLock()
	if t, ok := tplCache.m[key]; ok && os.Getenv("DEV") != "1" {
		tplCache.RUnlock()
		return t, nil
	}
	tplCache.RUnlock()

	dir := resolveBaseDir()
	files := []string{filepath.Join(dir, name)}
	if layout := filepath.Join(dir, "layout.html"); name != "layout.html" {
		if fi, err := os.Stat(layout); err == nil && !fi.IsDir() {
			files = append([]string{layout}, files...)
		}
	}
	t, err := template.New(filepath.Base(files[0])).Funcs(funcsFor(lang)).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	tplCache.Lock()
	tplCache.m[key] = t
	tplCache.Unlock()
	return t, nil
}

// Render writes the named page template wrapped in layout.html when one
// exists. data is augmented with the resolved Lang and Theme.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	lang := langResolver(r)
	t, err := load(name, lang)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Lang"] = lang
	data["Theme"] = themeResolver(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}

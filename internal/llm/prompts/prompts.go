package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"
)

// FS holds the built-in prompt templates.
//
//go:embed templates/*.txt
var FS embed.FS

var (
	planNotesRegex    = regexp.MustCompile(`(?i)</?\s*plan-notes\b[^>]*>`)
	classContextRegex = regexp.MustCompile(`(?i)</?\s*class-context\b[^>]*>`)
)

// maxFreeText bounds school-supplied text placed inside a prompt.
const maxFreeText = 4000

// Kind names one narrative prompt.
type Kind string

const (
	// KindReport is the individual development report for families.
	KindReport Kind = "report"
	// KindSuggestions is the home-activity suggestions text.
	KindSuggestions Kind = "suggestions"
	// KindClassPlan is the whole-class development plan.
	KindClassPlan Kind = "class_plan"
)

// Kinds lists every prompt kind.
var Kinds = []Kind{KindReport, KindSuggestions, KindClassPlan}

// Sampling holds the completion parameters used for a kind.
type Sampling struct {
	Temperature float32
	MaxTokens   int
}

var sampling = map[Kind]Sampling{
	KindReport:      {Temperature: 0.65, MaxTokens: 1200},
	KindSuggestions: {Temperature: 0.7, MaxTokens: 1200},
	KindClassPlan:   {Temperature: 0.7, MaxTokens: 1400},
}

// SamplingFor returns the completion parameters for a kind.
func SamplingFor(k Kind) Sampling {
	return sampling[k]
}

// DimensionLine is one dimension as presented to the model.
type DimensionLine struct {
	Name string
	Mean float64
}

// Data holds template data for every prompt kind. Fields a kind does not
// use are ignored.
type Data struct {
	Language   string
	Age        string
	Sex        string
	ScaleMin   int
	ScaleMax   int
	Dimensions []DimensionLine
	PlanNotes  string
	Context    string
}

type pair struct {
	system *template.Template
	user   *template.Template
}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Kind]pair
)

// Load loads prompt templates from fsys, which must contain
// templates/<kind>_system.txt and templates/<kind>_user.txt for every kind.
// It uses sync.Once to ensure templates are loaded only once.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[Kind]pair, len(Kinds))
		for _, k := range Kinds {
			var p pair
			for _, part := range []string{"system", "user"} {
				name := "templates/" + string(k) + "_" + part + ".txt"
				content, err := fs.ReadFile(fsys, name)
				if err != nil {
					loadErr = errors.New("failed to read prompt file " + name + ": " + err.Error())
					return
				}
				tmpl, err := template.New(string(k) + "_" + part).Parse(string(content))
				if err != nil {
					loadErr = errors.New("failed to parse prompt template " + name + ": " + err.Error())
					return
				}
				if part == "system" {
					p.system = tmpl
				} else {
					p.user = tmpl
				}
			}
			loaded[k] = p
		}
		templates = loaded
	})
	return loadErr
}

// Build renders the system and user prompts for a kind.
func Build(k Kind, data Data) (system, user string, err error) {
	if templates == nil {
		if loadErr != nil {
			return "", "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", "", errors.New("templates not initialized: call Load first")
	}
	p, ok := templates[k]
	if !ok {
		return "", "", errors.New("invalid prompt kind: " + string(k))
	}
	if data.Language == "" {
		data.Language = "English"
	}
	data.PlanNotes = sanitize(data.PlanNotes)
	data.Context = sanitize(data.Context)

	var sys, usr bytes.Buffer
	if err := p.system.Execute(&sys, data); err != nil {
		return "", "", err
	}
	if err := p.user.Execute(&usr, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(sys.String()), usr.String(), nil
}

// LanguageName maps a locale tag to the language name written into prompts.
func LanguageName(tag string) string {
	switch {
	case strings.HasPrefix(tag, "pt"):
		return "Brazilian Portuguese"
	case strings.HasPrefix(tag, "es"):
		return "Spanish"
	default:
		return "English"
	}
}

func sanitize(text string) string {
	text = planNotesRegex.ReplaceAllString(text, "")
	text = classContextRegex.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) > maxFreeText {
		runes := []rune(text)
		text = string(runes[:maxFreeText]) + "\n[truncated]"
	}
	return text
}

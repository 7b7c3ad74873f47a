package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

var (
	titleMarker   = regexp.MustCompile(`\[\[(.*?)\]\]`)
	reservedChars = regexp.MustCompile(`[<>:"/\\|?*\p{Cc}]`)
	separatorRuns = regexp.MustCompile(`[\s_]+`)

	abstractSection = regexp.MustCompile(`(?is)\babstract\b[\s.:\-]*(.*?)\s*\b(?:introduction|keywords)\b`)
	arxivID         = regexp.MustCompile(`(?i)arxiv:\s*\d{4}\.\d{4,5}(?:v\d+)?`)
	doiPattern      = regexp.MustCompile(`(?i)(?:doi:\s*|https?://(?:dx\.)?doi\.org/|dx\.doi\.org/)?\b(10\.\d{4,9}/[^\s"<>]+)`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Heuristic title bounds, in characters.
const (
	minHeuristicTitleLen = 10
	maxHeuristicTitleLen = 200
)

// SanitizeTitle makes s safe to use as a file name component.
// Reserved and control characters become underscores, runs of whitespace and
// underscores collapse to one underscore, and edge underscores are trimmed.
func SanitizeTitle(s string) string {
	s = reservedChars.ReplaceAllString(s, "_")
	s = separatorRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ExtractEmbeddedTitle returns the sanitised content of the first [[...]]
// marker in summary, or the sanitised fallback when there is none.
func ExtractEmbeddedTitle(summary, fallback string) string {
	fb := SanitizeTitle(fallback)
	if fb == "" {
		fb = domain.DefaultTitleFallback
	}

	m := titleMarker.FindStringSubmatch(summary)
	if m == nil {
		return fb
	}
	if title := SanitizeTitle(m[1]); title != "" {
		return title
	}
	return fb
}

// ExtractHeuristicTitleAndDOI guesses a human title and a DOI from the
// leading pages of a paper. Either result may be empty.
func ExtractHeuristicTitleAndDOI(text string) (title, doi string) {
	return heuristicTitle(text), heuristicDOI(text)
}

func heuristicDOI(text string) string {
	m := doiPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	// sentence punctuation and closing brackets follow inline DOIs
	return strings.TrimRight(m[1], ".,;)]")
}

func heuristicTitle(text string) string {
	for _, candidate := range titleCandidates(text) {
		cleaned := cleanTitle(candidate)
		n := utf8.RuneCountInString(cleaned)
		if n > minHeuristicTitleLen && n <= maxHeuristicTitleLen {
			return cases.Title(language.English).String(strings.ToLower(cleaned))
		}
	}
	return ""
}

// titleCandidates lists candidates in priority order.
func titleCandidates(text string) []string {
	var out []string

	if m := abstractSection.FindStringSubmatch(text); m != nil {
		out = append(out, m[1])
	}

	lines := nonEmptyLines(text)
	for i, line := range lines {
		if arxivID.MatchString(line) && i+1 < len(lines) {
			out = append(out, lines[i+1])
			break
		}
	}

	for n := 1; n <= 3 && n <= len(lines); n++ {
		out = append(out, strings.Join(lines[:n], " "))
	}
	return out
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func cleanTitle(s string) string {
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.Trim(s, " .,;:-*#")
}

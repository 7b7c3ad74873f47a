package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmbeddedTitle(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		fallback string
		expected string
	}{
		{
			name:     "marker in text",
			summary:  "Intro text [[Attention Is All You Need]] more text.",
			expected: "Attention_Is_All_You_Need",
		},
		{
			name:     "reserved characters",
			summary:  "[[Invalid/Title:Name?]]",
			expected: "Invalid_Title_Name",
		},
		{
			name:     "every reserved character",
			summary:  `[[a<b>c:d"e/f\g|h?i*j]]`,
			expected: "a_b_c_d_e_f_g_h_i_j",
		},
		{
			name:     "control characters",
			summary:  "[[Bad\x00Title\x07]]",
			expected: "Bad_Title",
		},
		{
			name:     "first marker wins",
			summary:  "[[First]] and [[Second]]",
			expected: "First",
		},
		{
			name:     "whitespace and underscore runs collapse",
			summary:  "[[  Deep __ Learning\tfor  NLP  ]]",
			expected: "Deep_Learning_for_NLP",
		},
		{
			name:     "no marker",
			summary:  "A summary without any title marker.",
			expected: "untitled",
		},
		{
			name:     "configured fallback",
			summary:  "nothing here",
			fallback: "untitled_paper",
			expected: "untitled_paper",
		},
		{
			name:     "fallback is sanitised",
			summary:  "nothing here",
			fallback: "no title?",
			expected: "no_title",
		},
		{
			name:     "marker with only reserved characters",
			summary:  "[[ /?* ]]",
			expected: "untitled",
		},
		{
			name:     "empty marker",
			summary:  "[[]]",
			expected: "untitled",
		},
		{
			name:     "marker split across lines is not a marker",
			summary:  "[[Broken\nTitle]]",
			expected: "untitled",
		},
		{
			name:     "empty input",
			summary:  "",
			expected: "untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractEmbeddedTitle(tt.summary, tt.fallback))
		})
	}
}

func TestExtractEmbeddedTitle_TotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", "[[]]", "[[_]]", "[[ a ]]", "[[__x__]]", `[[<>:"/\|?*]]`,
		"[[Über: naïve/Bayes]]", "plain", "[[a  b]] [[c]]", "[[ tab\there ]]",
	}

	for _, in := range inputs {
		out := ExtractEmbeddedTitle(in, "")
		assert.NotEmpty(t, out)
		assert.False(t, strings.ContainsAny(out, `<>:"/\|?*`), "reserved character in %q", out)
		assert.False(t, strings.HasPrefix(out, "_") || strings.HasSuffix(out, "_"), "edge underscore in %q", out)
		assert.Equal(t, out, SanitizeTitle(out))
		assert.Equal(t, out, ExtractEmbeddedTitle("[["+out+"]]", ""))
	}
}

func TestExtractHeuristicTitleAndDOI(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedTitle string
		expectedDOI   string
	}{
		{
			name:          "first line title with doi prefix",
			text:          "attention is all you need\nAshish Vaswani et al.\ndoi: 10.5555/3295222.3295349.\n",
			expectedTitle: "Attention Is All You Need",
			expectedDOI:   "10.5555/3295222.3295349",
		},
		{
			name:          "resolver url doi",
			text:          "A Study of Things\nhttps://doi.org/10.1038/nature14539\n",
			expectedTitle: "A Study Of Things",
			expectedDOI:   "10.1038/nature14539",
		},
		{
			name:          "line after arxiv identifier",
			text:          "arXiv:1706.03762v5 [cs.CL] 6 Dec 2017\nProvided proper attribution\n",
			expectedTitle: "Provided Proper Attribution",
		},
		{
			name:          "abstract section",
			text:          "x\nAbstract: Graph neural networks for molecules\nIntroduction\nBody.",
			expectedTitle: "Graph Neural Networks For Molecules",
		},
		{
			name:          "short first line joins the next",
			text:          "Deep\nResidual Learning\nKaiming He",
			expectedTitle: "Deep Residual Learning",
		},
		{
			name: "nothing usable",
			text: "a\nb\nc",
		},
		{
			name: "empty text",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, doi := ExtractHeuristicTitleAndDOI(tt.text)
			assert.Equal(t, tt.expectedTitle, title)
			assert.Equal(t, tt.expectedDOI, doi)
		})
	}
}

func TestHeuristicDOI_TrimsTrailingPunctuation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "trailing period", text: "doi: 10.1000/abc.def.", expected: "10.1000/abc.def"},
		{name: "trailing comma", text: "see https://doi.org/10.1145/3292500.3330701, and", expected: "10.1145/3292500.3330701"},
		{name: "parenthesised", text: "as shown (10.1000/abc.def).", expected: "10.1000/abc.def"},
		{name: "bracketed with semicolon", text: "[doi:10.1000/xyz];", expected: "10.1000/xyz"},
		{name: "inner punctuation kept", text: "10.1002/(SICI)1097-4636", expected: "10.1002/(SICI)1097-4636"},
		{name: "none", text: "no identifier here", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, heuristicDOI(tt.text))
		})
	}
}

func TestHeuristicTitle_RejectsOverlongCandidates(t *testing.T) {
	long := strings.Repeat("word ", 60)
	text := "Abstract " + long + "Introduction\nShort Real Title Here\n"

	title, _ := ExtractHeuristicTitleAndDOI(text)

	// abstract candidate exceeds the cap; the first line also does
	assert.Equal(t, "", title)
}

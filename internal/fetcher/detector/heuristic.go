// Package detector decides when a fetched page needs headless rendering.
package detector

import (
	"bytes"
	"strings"
)

// Heuristic implements a handful of rule-based promotions. Marketing sites
// built on SPA frameworks ship nearly empty HTML shells; those are worth the
// cost of a browser render before extraction.
type Heuristic struct {
	BodyLengthThreshold int
}

// New creates a new detector.
func New(threshold int) *Heuristic {
	if threshold == 0 {
		threshold = 2048
	}
	return &Heuristic{BodyLengthThreshold: threshold}
}

var spaMarkers = [][]byte{
	[]byte("__next"),
	[]byte("id=\"root\""),
	[]byte("id=\"app\""),
	[]byte("data-reactroot"),
	[]byte("ng-version"),
}

// ShouldPromote decides whether a headless re-fetch is warranted.
func (h *Heuristic) ShouldPromote(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	if len(body) < h.BodyLengthThreshold && scriptDensityHigh(body) {
		return true
	}
	lower := bytes.ToLower(body)
	for _, marker := range spaMarkers {
		if bytes.Contains(lower, marker) && textContentSparse(lower) {
			return true
		}
	}
	return false
}

// textContentSparse reports whether the document body carries almost no
// paragraph or heading text, which is typical for SPA shells.
func textContentSparse(lower []byte) bool {
	textTags := 0
	for _, tag := range []string{"<p", "<h1", "<h2", "<li"} {
		textTags += bytes.Count(lower, []byte(tag))
	}
	return textTags < 3
}

func scriptDensityHigh(body []byte) bool {
	lower := strings.ToLower(string(body))
	total := len(lower)
	if total == 0 {
		return false
	}

	const (
		openTag  = "<script"
		closeTag = "</script>"
	)
	scriptCoverage := 0
	searchPos := 0

	for {
		relativeStart := strings.Index(lower[searchPos:], openTag)
		if relativeStart == -1 {
			break
		}
		start := searchPos + relativeStart

		tagClose := strings.IndexByte(lower[start:], '>')
		if tagClose == -1 {
			// Treat the rest of the document as part of the malformed script.
			scriptCoverage += total - start
			break
		}
		contentStart := start + tagClose + 1

		relativeEnd := strings.Index(lower[contentStart:], closeTag)
		var nextSearch int
		if relativeEnd == -1 {
			// Script tag never closes; count the rest.
			nextSearch = total
		} else {
			nextSearch = contentStart + relativeEnd + len(closeTag)
		}

		scriptCoverage += nextSearch - start
		searchPos = nextSearch
	}

	if scriptCoverage == 0 {
		return false
	}
	return scriptCoverage*100/total >= 25
}

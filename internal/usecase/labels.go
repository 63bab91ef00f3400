package usecase

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Label vocabulary.
const (
	QualityLabel        = "quality"
	EndToEndTestedLabel = "LGTM (end to end tested)"
)

// exemptionLabels are matched exactly.
var exemptionLabels = []string{
	"exception",
	"no tests needed",
	"tests not needed",
	"LGTM (no tests needed)",
}

// qualityLabels are matched case-insensitively.
var qualityLabels = []string{
	QualityLabel,
	"quality-improvement",
	"quality improvement",
}

// IsTestExempt reports whether labels excuse the pull request from the testing policy.
func IsTestExempt(labels []domain.Label) bool {
	for _, l := range labels {
		for _, name := range exemptionLabels {
			if l.Name == name {
				return true
			}
		}
	}
	return false
}

// IsQuality reports whether labels flag the pull request as a quality improvement.
func IsQuality(labels []domain.Label) bool {
	for _, l := range labels {
		for _, name := range qualityLabels {
			if strings.EqualFold(l.Name, name) {
				return true
			}
		}
	}
	return false
}

func hasLabel(labels []domain.Label, name string) bool {
	for _, l := range labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// LabelFallback decides how a pull request is classified when its labels
// cannot be retrieved.
type LabelFallback string

const (
	// FallbackQuality substitutes a single quality label.
	FallbackQuality LabelFallback = "quality"
	// FallbackNone treats the pull request as unlabeled.
	FallbackNone LabelFallback = "none"
	// FallbackExclude drops the pull request from the run.
	FallbackExclude LabelFallback = "exclude"
)

// ParseLabelFallback validates a fallback policy name.
func ParseLabelFallback(s string) (LabelFallback, error) {
	switch f := LabelFallback(s); f {
	case FallbackQuality, FallbackNone, FallbackExclude:
		return f, nil
	}
	return "", fmt.Errorf("unknown label fallback %q (want quality, none or exclude)", s)
}

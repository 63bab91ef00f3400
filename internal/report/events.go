package report

import (
	"fmt"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

// Build computes every dashboard event for one run. It either returns the
// complete set or an error, never a partial set.
func Build(prs []domain.ClassifiedPR, teams TeamResolver) ([]domain.Event, error) {
	quality, err := QualityPercentage(prs)
	if err != nil {
		return nil, fmt.Errorf("failed to compute quality percentage: %w", err)
	}
	total := len(prs)
	tests := TestPercentage(prs)
	photo, _ := MostRecentQualityArtifact(prs)

	return []domain.Event{
		{ID: domain.EventTotalPRs, Current: &total},
		{ID: domain.EventTopQualityDevs, Items: TopQualityAuthors(prs, TopN)},
		{ID: domain.EventTopQualityTeams, Items: TopQualityTeams(prs, TopN, teams)},
		{ID: domain.EventTopTestsTeams, Items: TopTestTeams(prs, TopN, teams)},
		{ID: domain.EventQualityPercentage, Value: &quality},
		{ID: domain.EventTestPercentage, Value: &tests},
		{ID: domain.EventLastQualityPRPhoto, Image: photo.Image, Link: photo.Link},
		{ID: domain.EventTestPercentagePerRepository, Items: LowestTestPercentageByRepository(prs, TopN)},
	}, nil
}

package domain

import "encoding/json"

// Event names understood by the dashboard.
const (
	EventTotalPRs                    = "total_prs"
	EventTopQualityDevs              = "top_quality_devs"
	EventTopQualityTeams             = "top_quality_teams"
	EventTopTestsTeams               = "top_tests_teams"
	EventQualityPercentage           = "quality_percentage"
	EventTestPercentage              = "test_percentage"
	EventLastQualityPRPhoto          = "last_quality_pr_photo"
	EventTestPercentagePerRepository = "test_percentage_per_repository"
)

// Item is one entry of a ranked list.
type Item struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Event is a named metric emitted to the dashboard. Exactly one of the
// payload shapes is populated: Current, Value, Items or Image/Link.
type Event struct {
	ID      string
	Current *int
	Value   *int
	Items   []Item
	Image   string
	Link    string
}

// MarshalJSON encodes the event as its payload plus the "id" key, the same
// shape the dashboard receives.
func (e Event) MarshalJSON() ([]byte, error) {
	p := e.Payload()
	p["id"] = e.ID
	return json.Marshal(p)
}

// Payload returns the widget payload without the event ID.
func (e Event) Payload() map[string]any {
	p := make(map[string]any)
	switch {
	case e.Current != nil:
		p["current"] = *e.Current
	case e.Value != nil:
		p["value"] = *e.Value
	case e.Items != nil:
		p["items"] = e.Items
	default:
		p["image"] = e.Image
		p["link"] = e.Link
	}
	return p
}

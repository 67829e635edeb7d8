package content

// Link is a labelled call to action.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Image is an image source with alt text.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Section is a home page feature block rendered as an image/text split.
type Section struct {
	ID      string `json:"id"`
	Reverse *bool  `json:"reverse,omitempty"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Button  Link   `json:"button"`
	Image   Image  `json:"image"`
}

// Reversed reports whether the block at position idx puts the image first.
// Without an explicit flag blocks alternate, starting unreversed.
func (s Section) Reversed(idx int) bool {
	if s.Reverse != nil {
		return *s.Reverse
	}
	return idx%2 == 1
}

// JourneyDoc is the home page project roadmap.
type JourneyDoc struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Steps    []JourneyStep `json:"steps"`
}

// JourneyStep is one milestone of the roadmap.
type JourneyStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Percent returns where step i sits along the roadmap, 0 to 100.
func (j JourneyDoc) Percent(i int) int {
	if len(j.Steps) < 2 {
		return 0
	}
	return i * 100 / (len(j.Steps) - 1)
}

// AboutDoc holds the about page copy.
type AboutDoc struct {
	MissionTitle string   `json:"missionTitle"`
	MissionBody  string   `json:"missionBody"`
	VisionTitle  string   `json:"visionTitle"`
	VisionBody   string   `json:"visionBody"`
	ValuesTitle  string   `json:"valuesTitle"`
	ValuesBody   string   `json:"valuesBody"`
	ValuesList   []string `json:"valuesList"`
}

// Job is an open position on the careers page.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Short       string   `json:"short"`
	Tags        []string `json:"tags,omitempty"`
	Email       string   `json:"email,omitempty"`
	Description string   `json:"description"`
}

// ApplyHref returns a mailto link for applying to the job, or "" when the job
// has no contact address.
func (j Job) ApplyHref() string {
	if j.Email == "" {
		return ""
	}
	return "mailto:" + j.Email + "?subject=" + mailtoEscape(j.Title)
}

// FAQCategory groups questions under a heading.
type FAQCategory struct {
	Category string    `json:"category"`
	Items    []FAQItem `json:"items"`
}

// FAQItem is a single question and answer.
type FAQItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Solution is an entry of the solutions page.
type Solution struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Image      string   `json:"image"`
	Paragraphs []string `json:"paragraphs"`
}

// Lead returns at most the first two paragraphs, the ones shown beside the image.
func (s Solution) Lead() []string {
	if len(s.Paragraphs) <= 2 {
		return s.Paragraphs
	}
	return s.Paragraphs[:2]
}

// Rest returns the paragraphs after the lead.
func (s Solution) Rest() []string {
	if len(s.Paragraphs) <= 2 {
		return nil
	}
	return s.Paragraphs[2:]
}

// CategoryNames returns the FAQ category headings in order.
func CategoryNames(cats []FAQCategory) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Category)
	}
	return out
}

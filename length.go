package tldr

// SummaryLength names a summary style.
type SummaryLength string

// SummaryLength constants. The zero value is not a valid length; use
// ParseSummaryLength to apply the default.
const (
	LengthTweet        SummaryLength = "tweet"
	LengthTwoSentences SummaryLength = "two_sentences"
	LengthBullets      SummaryLength = "bullets"
	LengthBrief        SummaryLength = "brief"
	LengthDetailed     SummaryLength = "detailed"
)

// DefaultLength is used when a request does not name a length.
const DefaultLength = LengthBrief

// LengthProfile pairs a summary style with the instruction and output budget
// handed to the text generator.
type LengthProfile struct {
	Length      SummaryLength `json:"value"`
	Label       string        `json:"label"`
	Instruction string        `json:"-"`
	MaxTokens   int           `json:"-"`
}

const baseInstruction = "You are a highly skilled AI assistant that creates concise, accurate summaries of articles. Focus on the main points and key takeaways."

// lengthProfiles is ordered from shortest to longest output.
var lengthProfiles = []LengthProfile{
	{
		Length:      LengthTweet,
		Label:       "Tweet (≤140 chars)",
		Instruction: baseInstruction + " Summarize the article in a single tweet of at most 140 characters. No hashtags.",
		MaxTokens:   100,
	},
	{
		Length:      LengthTwoSentences,
		Label:       "Two Sentences",
		Instruction: baseInstruction + " Summarize the article in exactly two sentences.",
		MaxTokens:   150,
	},
	{
		Length:      LengthBullets,
		Label:       "Bullet Points",
		Instruction: baseInstruction + " Summarize the article as 3 to 5 markdown bullet points, one key takeaway per bullet.",
		MaxTokens:   400,
	},
	{
		Length:      LengthBrief,
		Label:       "Two Paragraphs",
		Instruction: baseInstruction + " Summarize the article in two short paragraphs.",
		MaxTokens:   500,
	},
	{
		Length:      LengthDetailed,
		Label:       "One Page",
		Instruction: baseInstruction + " Write a detailed one-page summary using markdown headings for the main sections of the article.",
		MaxTokens:   1500,
	},
}

// LengthProfiles returns every profile, shortest first.
func LengthProfiles() []LengthProfile {
	profiles := make([]LengthProfile, len(lengthProfiles))
	copy(profiles, lengthProfiles)
	return profiles
}

// Profile returns the profile for l.
// Returns EINVALID if l is not a known length.
func (l SummaryLength) Profile() (LengthProfile, error) {
	for _, p := range lengthProfiles {
		if p.Length == l {
			return p, nil
		}
	}
	return LengthProfile{}, Errorf(EINVALID, "Invalid length")
}

// ParseSummaryLength converts s into a SummaryLength.
// An empty string yields DefaultLength.
func ParseSummaryLength(s string) (SummaryLength, error) {
	if s == "" {
		return DefaultLength, nil
	}
	l := SummaryLength(s)
	if _, err := l.Profile(); err != nil {
		return "", err
	}
	return l, nil
}

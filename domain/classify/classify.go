// Package classify maps free-text study logs onto subjects by keyword.
// Classification is a standalone step: it mutates nothing, so the
// matching rules can be tested apart from any ledger state.
package classify

import "strings"

// Subject is one study subject with its keyword set and the lane factor
// that weighs its hero-power gains.
type Subject struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	LaneFactor float64  `json:"lane_factor"`
	Keywords   []string `json:"keywords"`
}

// DefaultSubjects is the built-in subject board for the postgraduate
// entrance exam track. Order matters: the first subject whose keyword
// set matches a log claims it.
var DefaultSubjects = []Subject{
	{Key: "english", Name: "英语", LaneFactor: 1.0, Keywords: []string{"英语", "单词", "长难句", "语法"}},
	{Key: "politics", Name: "政治", LaneFactor: 0.9, Keywords: []string{"政治", "肖秀荣", "腿姐", "史纲", "思修"}},
	{Key: "math", Name: "专业课一（数学）", LaneFactor: 1.2, Keywords: []string{"数学", "高数", "线代", "概统", "660", "1800"}},
	{Key: "cs", Name: "专业课二（408）", LaneFactor: 1.1, Keywords: []string{"408", "计组", "数据结构", "操作系统", "计算机网络"}},
}

// Match is the outcome of classifying one log entry.
type Match struct {
	Subject Subject `json:"subject"`
	// Keyword is the term that triggered the match.
	Keyword string `json:"keyword"`
	// Confidence is the share of the subject's keywords present in the
	// text, in (0, 1]. A single hit on a four-keyword subject is 0.25.
	Confidence float64 `json:"confidence"`
}

// Classifier matches log text against a subject board.
type Classifier struct {
	subjects []Subject
}

// New creates a classifier over the given board; nil falls back to
// DefaultSubjects.
func New(subjects []Subject) *Classifier {
	if len(subjects) == 0 {
		subjects = DefaultSubjects
	}
	return &Classifier{subjects: subjects}
}

// Subjects returns the board the classifier runs against.
func (c *Classifier) Subjects() []Subject {
	return c.subjects
}

// SubjectByKey looks up a subject on the board.
func (c *Classifier) SubjectByKey(key string) (Subject, bool) {
	for _, s := range c.subjects {
		if s.Key == key {
			return s, true
		}
	}
	return Subject{}, false
}

// Classify returns the first subject whose keywords appear in the text.
// A log credits at most one subject; subjects later in the board never
// see a log an earlier subject claimed. Matching is case-insensitive.
func (c *Classifier) Classify(text string) (Match, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Match{}, false
	}

	for _, subject := range c.subjects {
		hits := 0
		first := ""
		for _, kw := range subject.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hits++
				if first == "" {
					first = kw
				}
			}
		}
		if hits > 0 {
			return Match{
				Subject:    subject,
				Keyword:    first,
				Confidence: float64(hits) / float64(len(subject.Keywords)),
			}, true
		}
	}
	return Match{}, false
}

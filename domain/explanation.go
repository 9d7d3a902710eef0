package domain

// Explanation is the structured record produced by the explanation generator
// for one audience level.
type Explanation struct {
	Overview    string     `json:"overview"`
	KeyConcepts []string   `json:"key_concepts"`
	Walkthrough string     `json:"walkthrough"`
	Complexity  string     `json:"complexity"`
	Pitfalls    []string   `json:"pitfalls"`
	Quiz        []QuizItem `json:"quiz"`
	TLDR        string     `json:"tl_dr"`
}

type QuizItem struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// PlaceholderExplanation is the degraded record returned when the generator
// is unavailable. Same shape, generic content, so the rest of the pipeline
// keeps working offline.
func PlaceholderExplanation(level, reason string) *Explanation {
	return &Explanation{
		Overview:    "(Offline) Explanation generator unavailable: " + reason + ".",
		KeyConcepts: []string{"Concepts tailored to " + level + "."},
		Walkthrough: "Step-by-step logic overview.",
		Complexity:  "Time/space complexity or performance discussion.",
		Pitfalls:    []string{"Edge cases", "Common mistakes"},
		Quiz:        []QuizItem{{Question: "What does this function do?", Answer: "It ..."}},
		TLDR:        "Short summary.",
	}
}

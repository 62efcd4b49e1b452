package discovery

// moodModifiers maps a mood keyword to a phrase appended to the query before
// dispatch. Unknown moods are ignored.
var moodModifiers = map[string]string{
	"cozy":          "with a cozy, comforting atmosphere",
	"adventurous":   "full of adventure and excitement",
	"dark":          "with a dark, brooding tone",
	"uplifting":     "that is uplifting and hopeful",
	"thoughtful":    "that is thought-provoking and reflective",
	"funny":         "with plenty of humor",
	"romantic":      "with a strong romantic storyline",
	"suspenseful":   "full of suspense and tension",
	"nostalgic":     "with a nostalgic, wistful feel",
	"inspirational": "that is inspiring and motivating",
}

// applyMood appends the mood modifier phrase to the query text.
// An empty or unknown mood leaves the query unchanged.
func applyMood(query, mood string) string {
	phrase, ok := moodModifiers[mood]
	if !ok {
		return query
	}
	return query + " " + phrase
}

package words

// Built-in word lists, used unless WORDS_DIR points at replacement files.
var (
	easyWords = []string{
		"apple", "house", "tree", "car", "dog", "cat", "fish", "star",
		"moon", "sun", "book", "chair", "clock", "shoe", "ball", "cake",
		"door", "train", "boat", "bird", "snake", "pizza", "cloud", "key",
		"hat", "cup", "bed", "egg", "sock", "kite",
	}

	mediumWords = []string{
		"elephant", "guitar", "rainbow", "castle", "dragon", "rocket",
		"penguin", "volcano", "sandwich", "lighthouse", "tornado",
		"scarecrow", "snowman", "octopus", "campfire", "waterfall",
		"telescope", "butterfly", "skeleton", "treasure", "helicopter",
		"dinosaur", "mermaid", "pyramid", "windmill", "submarine",
	}

	hardWords = []string{
		"photosynthesis", "procrastination", "claustrophobia", "silhouette",
		"kaleidoscope", "metamorphosis", "hallucination", "architecture",
		"choreography", "constellation", "hibernation", "avalanche",
		"camouflage", "ventriloquist", "archaeologist", "tumbleweed",
		"quicksand", "stalagmite", "periscope", "marionette",
	}
)

// DefaultTiers returns the built-in difficulty tiers.
func DefaultTiers() map[string][]string {
	return map[string][]string{
		"easy":   easyWords,
		"medium": mediumWords,
		"hard":   hardWords,
	}
}

package lang

// EnglishSpec describes English over the 26 letter Latin alphabet.
func EnglishSpec() Spec {
	return Spec{
		Name:     "english",
		Alphabet: Latin,
		Frequencies: map[rune]float64{
			'A': 0.082, 'B': 0.015, 'C': 0.028, 'D': 0.043, 'E': 0.126,
			'F': 0.022, 'G': 0.020, 'H': 0.061, 'I': 0.070, 'J': 0.002,
			'K': 0.008, 'L': 0.040, 'M': 0.024, 'N': 0.067, 'O': 0.075,
			'P': 0.019, 'Q': 0.001, 'R': 0.060, 'S': 0.063, 'T': 0.091,
			'U': 0.028, 'V': 0.010, 'W': 0.023, 'X': 0.001, 'Y': 0.020,
			'Z': 0.001,
		},
		ExpectedIC: 0.065,
		Ngrams:     map[int]string{3: "english_3.txt"},
		Source:     EmbeddedSource(),
	}
}

func init() {
	if err := Register(MustModel(EnglishSpec())); err != nil {
		panic(err)
	}
}

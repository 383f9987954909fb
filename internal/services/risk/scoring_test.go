package risk

import (
	"math"
	"testing"
)

func TestLanguageIntensity(t *testing.T) {
	t.Run("No keywords scores zero", func(t *testing.T) {
		if got := LanguageIntensity("Reunión informativa en la biblioteca municipal"); got != 0 {
			t.Errorf("Expected 0, got %f", got)
		}
	})

	t.Run("High and medium keywords add up", func(t *testing.T) {
		got := LanguageIntensity("Huelga tras la denuncia de los trabajadores")
		want := 1.0 + 0.4
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Expected %f, got %f", want, got)
		}
	})

	t.Run("Monotonically non-decreasing in matches", func(t *testing.T) {
		texts := []string{
			"sin palabras relevantes aqui",
			"denuncia vecinal",
			"denuncia y rechazo vecinal",
			"huelga tras denuncia y rechazo vecinal",
			"huelga y bloqueo tras denuncia y rechazo vecinal",
		}
		prev := -1.0
		for _, text := range texts {
			got := LanguageIntensity(text)
			if got < prev {
				t.Errorf("Intensity decreased from %f to %f at %q", prev, got, text)
			}
			prev = got
		}
	})

	t.Run("Capped at two", func(t *testing.T) {
		got := LanguageIntensity("bloqueo paro huelga enfrentamiento violencia sanción querella incendio")
		if got != 2.0 {
			t.Errorf("Expected cap 2.0, got %f", got)
		}
	})

	t.Run("Accent-insensitive", func(t *testing.T) {
		if LanguageIntensity("sancion aplicada") != LanguageIntensity("sanción aplicada") {
			t.Error("Expected identical intensity with and without accents")
		}
	})
}

func TestComputeSignalScore(t *testing.T) {
	base := ScoreInput{
		SourceWeight:      1.0,
		SourceCredibility: 0.7,
		TopicScore:        0.5,
		Text:              "huelga en la planta",
		SentimentScore:    0,
	}

	t.Run("Strictly decreasing in sentiment", func(t *testing.T) {
		prev := math.Inf(1)
		for s := -1.0; s <= 1.0; s += 0.25 {
			in := base
			in.SentimentScore = s
			score, _ := ComputeSignalScore(in)
			if score >= prev {
				t.Errorf("Score did not decrease at sentiment %f: %f >= %f", s, score, prev)
			}
			prev = score
		}
	})

	t.Run("Capped at ten", func(t *testing.T) {
		in := ScoreInput{
			SourceWeight:      5.0,
			SourceCredibility: 1.0,
			TopicScore:        1.0,
			Text:              "bloqueo paro huelga violencia incendio",
			Recurrence:        20,
			Official:          true,
			SentimentScore:    -1,
		}
		score, _ := ComputeSignalScore(in)
		if score != ScoreCap {
			t.Errorf("Expected cap %f, got %f", ScoreCap, score)
		}
	})

	t.Run("Official boost applies", func(t *testing.T) {
		plain, _ := ComputeSignalScore(base)
		in := base
		in.Official = true
		official, _ := ComputeSignalScore(in)
		if math.Abs(official-plain-0.6) > 1e-9 {
			t.Errorf("Expected official boost of 0.6, got %f", official-plain)
		}
	})

	t.Run("Recurrence boost capped", func(t *testing.T) {
		in := base
		in.Recurrence = 100
		_, drivers := ComputeSignalScore(in)
		boost := math.Min(float64(drivers.Recurrence)*0.3, 2.0)
		if boost != 2.0 {
			t.Errorf("Expected recurrence boost capped at 2.0, got %f", boost)
		}
	})

	t.Run("Drivers retain every addend", func(t *testing.T) {
		in := base
		in.SentimentScore = -0.5
		_, drivers := ComputeSignalScore(in)
		if drivers.SourceWeight != 1.0 || drivers.SourceCredibility != 0.7 {
			t.Errorf("Source drivers not retained: %+v", drivers)
		}
		if drivers.TopicScore != 0.5 {
			t.Errorf("Topic driver not retained: %+v", drivers)
		}
		if drivers.LanguageIntensity <= 0 {
			t.Errorf("Expected positive intensity driver, got %f", drivers.LanguageIntensity)
		}
		if math.Abs(drivers.SentimentPenalty-0.25) > 1e-9 {
			t.Errorf("Expected sentiment penalty 0.25, got %f", drivers.SentimentPenalty)
		}
	})
}

func TestLogisticProbability(t *testing.T) {
	t.Run("Half at the midpoint", func(t *testing.T) {
		if got := LogisticProbability(6.0); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("Expected 0.5 at midpoint, got %f", got)
		}
	})

	t.Run("Monotonically increasing and bounded", func(t *testing.T) {
		prev := 0.0
		for score := -10.0; score <= 30.0; score += 0.5 {
			p := LogisticProbability(score)
			if p <= 0 || p >= 1 {
				t.Errorf("Probability %f out of (0,1) at score %f", p, score)
			}
			if p <= prev {
				t.Errorf("Probability not increasing at score %f", score)
			}
			prev = p
		}
	})
}

func TestConfidenceScore(t *testing.T) {
	t.Run("Bounded to [0.2, 1.0]", func(t *testing.T) {
		if got := ConfidenceScore(0, 5, 0); math.Abs(got-0.2) > 1e-9 {
			t.Errorf("Expected floor 0.2, got %f", got)
		}
		if got := ConfidenceScore(100, 5, 5); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Expected ceiling 1.0, got %f", got)
		}
	})

	t.Run("Grows with volume and diversity", func(t *testing.T) {
		low := ConfidenceScore(2, 8, 1)
		high := ConfidenceScore(8, 8, 4)
		if high <= low {
			t.Errorf("Expected confidence to grow: %f <= %f", high, low)
		}
	})

	t.Run("Zero sources does not divide by zero", func(t *testing.T) {
		got := ConfidenceScore(5, 0, 0)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("Expected finite confidence, got %f", got)
		}
	})
}

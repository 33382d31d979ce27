package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SampleTables returns the starter catalog written by `vibe init`.
func SampleTables() (AnchorTable, SubVibeTable) {
	at := AnchorTable{
		Anchors: []AnchorRow{
			{ID: "euphoric", Description: "Peak-energy joy, hands in the air"},
			{ID: "playful", Description: "Light, bouncy, mischievous"},
			{ID: "hopeful", Description: "Looking up, quietly optimistic"},
			{ID: "romantic", Description: "Warm, intimate, tender"},
			{ID: "cozy", Description: "Soft blankets and low lamps"},
			{ID: "calm", Description: "Still water, slow breathing"},
			{ID: "dreamy", Description: "Hazy, floating, unfocused"},
			{ID: "nostalgic", Description: "Bittersweet memory"},
			{ID: "melancholy", Description: "Grey skies, gentle sadness"},
			{ID: "lonely", Description: "Empty rooms and late trains"},
			{ID: "mysterious", Description: "Shadows, questions, slow reveals"},
			{ID: "tense", Description: "Coiled, anxious, waiting"},
			{ID: "angry", Description: "Loud, hot, confrontational"},
			{ID: "energetic", Description: "Driving rhythm, forward motion"},
			{ID: "focused", Description: "Clear head, steady pulse"},
		},
		Edges: []EdgeRow{
			{From: "euphoric", To: "energetic", Distance: dist(80)},
			{From: "euphoric", To: "playful"},
			{From: "playful", To: "hopeful"},
			{From: "hopeful", To: "romantic"},
			{From: "romantic", To: "cozy", Distance: dist(80)},
			{From: "cozy", To: "calm", Distance: dist(70)},
			{From: "calm", To: "dreamy"},
			{From: "calm", To: "focused", Distance: dist(120)},
			{From: "dreamy", To: "nostalgic"},
			{From: "nostalgic", To: "melancholy", Distance: dist(70)},
			{From: "melancholy", To: "lonely", Distance: dist(60)},
			{From: "lonely", To: "mysterious", Distance: dist(130)},
			{From: "mysterious", To: "tense"},
			{From: "tense", To: "angry", Distance: dist(80)},
			{From: "angry", To: "energetic", Distance: dist(120)},
			{From: "energetic", To: "focused"},
		},
	}

	st := SubVibeTable{
		SubVibes: []SubVibeRow{
			{ID: "festival-sunset", Description: "Last set before dark", Composition: map[string]float64{"euphoric": 0.6, "nostalgic": 0.2, "romantic": 0.2}},
			{ID: "rainy-sunday", Description: "Tea, rain, no plans", Composition: map[string]float64{"cozy": 0.5, "melancholy": 0.3, "calm": 0.2}},
			{ID: "first-date", Composition: map[string]float64{"romantic": 0.5, "tense": 0.2, "playful": 0.3}},
			{ID: "night-drive", Description: "Empty motorway, neon", Composition: map[string]float64{"lonely": 0.4, "mysterious": 0.3, "dreamy": 0.3}},
			{ID: "gym-session", Composition: map[string]float64{"energetic": 0.7, "angry": 0.2, "focused": 0.1}},
			{ID: "deep-work", Composition: map[string]float64{"focused": 0.8, "calm": 0.2}},
			{ID: "heist-planning", Composition: map[string]float64{"tense": 0.4, "mysterious": 0.4, "focused": 0.2}},
			{ID: "old-photos", Description: "Shoebox of prints", Composition: map[string]float64{"nostalgic": 0.7, "melancholy": 0.2, "cozy": 0.1}},
			{ID: "summer-road-trip", Composition: map[string]float64{"playful": 0.4, "euphoric": 0.3, "hopeful": 0.3}},
			{ID: "breakup-ballad", Composition: map[string]float64{"melancholy": 0.6, "lonely": 0.3, "romantic": 0.1}},
			{ID: "lazy-morning", Composition: map[string]float64{"calm": 0.5, "cozy": 0.3, "dreamy": 0.2}},
			{ID: "street-protest", Composition: map[string]float64{"angry": 0.6, "energetic": 0.3, "hopeful": 0.1}},
			{ID: "stargazing", Composition: map[string]float64{"dreamy": 0.5, "mysterious": 0.3, "calm": 0.2}},
			{ID: "new-year", Description: "Countdown and confetti", Composition: map[string]float64{"euphoric": 0.5, "hopeful": 0.4, "nostalgic": 0.1}},
			{ID: "exam-cram", Composition: map[string]float64{"focused": 0.5, "tense": 0.5}},
			{ID: "candlelit-dinner", Composition: map[string]float64{"romantic": 0.7, "cozy": 0.3}},
			{ID: "haunted-house", Composition: map[string]float64{"mysterious": 0.5, "tense": 0.4, "playful": 0.1}},
			{ID: "morning-run", Composition: map[string]float64{"energetic": 0.5, "hopeful": 0.3, "focused": 0.2}},
		},
	}
	return at, st
}

func dist(d float64) *float64 { return &d }

// WriteSample writes the starter catalog into dir, leaving existing files alone.
// It reports which files were created.
func WriteSample(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create catalog dir: %w", err)
	}
	at, st := SampleTables()
	var created []string
	for name, v := range map[string]any{AnchorsFile: at, SubVibesFile: st} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, err
		}
		b, err := yaml.Marshal(v)
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return created, fmt.Errorf("cannot write %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

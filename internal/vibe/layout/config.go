package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

var validate = validator.New()

// Config holds the tunables of the spring embedding. Ideal distance and the
// two force constants have no universally right value; the defaults suit
// graphs of 15–30 anchors with distances around 100.
type Config struct {
	Seed          uint64  `yaml:"seed"`
	Iterations    int     `yaml:"iterations" validate:"gte=1,lte=1000000"`
	LearningRate  float64 `yaml:"learning_rate" validate:"gt=0,lte=10"`
	IdealDistance float64 `yaml:"ideal_distance" validate:"gt=0"`
	Repulsion     float64 `yaml:"repulsion" validate:"gte=0"`
	Attraction    float64 `yaml:"attraction" validate:"gte=0"`
	Range         float64 `yaml:"range" validate:"gt=0"`
	MinDistance   float64 `yaml:"min_distance" validate:"gt=0"`
	Workers       int     `yaml:"workers" validate:"gte=0,lte=256"`
	Tolerance     float64 `yaml:"tolerance" validate:"gte=0"`
	LogEvery      int     `yaml:"log_every" validate:"gte=0"`
}

// DefaultConfig returns the tunables used when vibe.yaml does not override them.
func DefaultConfig() Config {
	return Config{
		Seed:          42,
		Iterations:    1500,
		LearningRate:  0.05,
		IdealDistance: 100,
		Repulsion:     100000,
		Attraction:    0.1,
		Range:         1000,
		MinDistance:   1.0,
		Workers:       1,
		Tolerance:     0,
		LogEvery:      100,
	}
}

// Validate checks the struct tags; violations are configuration errors.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
		return fmt.Errorf("%w: layout config: %s", vibe.ErrConfiguration, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: layout config: %v", vibe.ErrConfiguration, err)
}

package admin

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/partyvote/go/internal/models"
)

//go:embed seed/seed.yaml
var defaultSeed []byte

// Seed is the default data restored by a reseed
type Seed struct {
	VotingDurationSeconds int               `yaml:"voting_duration_seconds"`
	Config                models.GameConfig `yaml:"config"`
	Players               []models.Player   `yaml:"players"`
	Questions             []models.Question `yaml:"questions"`
}

// LoadSeed reads the seed at path, or the embedded seed when path is empty
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML. Unknown keys are rejected. Seeded players
// and questions always start active.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	if s.VotingDurationSeconds <= 0 {
		s.VotingDurationSeconds = models.DefaultVotingDurationSeconds
	}
	if s.VotingDurationSeconds > models.MaxVotingDurationSeconds {
		return nil, fmt.Errorf("seed voting_duration_seconds cannot exceed %d", models.MaxVotingDurationSeconds)
	}
	if s.Config.Title == "" {
		return nil, fmt.Errorf("seed config needs a title")
	}
	for i := range s.Players {
		s.Players[i].IsActive = true
	}
	for i := range s.Questions {
		s.Questions[i].IsActive = true
	}
	return &s, nil
}

// players returns a copy so callers may mutate the slice
func (s *Seed) players() []models.Player {
	return append([]models.Player(nil), s.Players...)
}

func (s *Seed) questions() []models.Question {
	return append([]models.Question(nil), s.Questions...)
}

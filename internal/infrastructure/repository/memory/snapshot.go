package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/team"
)

type snapshotTeam struct {
	ID       string `json:"id"`
	TrophyID int    `json:"trophy_id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Points   int    `json:"points"`
	Year     int    `json:"year"`
}

type snapshotGame struct {
	ID       string `json:"id"`
	TrophyID int    `json:"trophy_id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Year     int    `json:"year"`
}

type snapshotOutcome struct {
	GameID     string  `json:"game_id"`
	TeamID     string  `json:"team_id"`
	Data       *string `json:"data"`
	PointValue *int    `json:"point_value"`
}

type snapshot struct {
	Teams    []snapshotTeam    `json:"teams"`
	Games    []snapshotGame    `json:"games"`
	Outcomes []snapshotOutcome `json:"outcomes"`
}

// LoadFile restores a store saved by SaveFile. A missing file yields an
// empty store.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	d := newDataset()
	for _, item := range snap.Teams {
		d.teams[item.ID] = team.Team{
			ID:       item.ID,
			TrophyID: item.TrophyID,
			Name:     item.Name,
			Gender:   team.Gender(item.Gender),
			Points:   item.Points,
			Year:     item.Year,
		}
	}
	for _, item := range snap.Games {
		d.games[item.ID] = game.Game{
			ID:       item.ID,
			TrophyID: item.TrophyID,
			Name:     item.Name,
			Kind:     game.Kind(item.Kind),
			Year:     item.Year,
		}
	}
	for _, item := range snap.Outcomes {
		if _, ok := d.games[item.GameID]; !ok {
			return nil, fmt.Errorf("snapshot outcome references unknown game %s", item.GameID)
		}
		if _, ok := d.teams[item.TeamID]; !ok {
			return nil, fmt.Errorf("snapshot outcome references unknown team %s", item.TeamID)
		}
		d.outcomes[outcomeKey{gameID: item.GameID, teamID: item.TeamID}] = outcome.Outcome{
			GameID:     item.GameID,
			TeamID:     item.TeamID,
			Data:       item.Data,
			PointValue: item.PointValue,
		}
	}

	return &Store{data: d}, nil
}

// SaveFile writes the store atomically through a temp file in the same
// directory.
func (s *Store) SaveFile(path string) error {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()

	raw, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		Teams:    make([]snapshotTeam, 0, len(s.data.teams)),
		Games:    make([]snapshotGame, 0, len(s.data.games)),
		Outcomes: make([]snapshotOutcome, 0, len(s.data.outcomes)),
	}
	for _, item := range s.data.teams {
		snap.Teams = append(snap.Teams, snapshotTeam{
			ID:       item.ID,
			TrophyID: item.TrophyID,
			Name:     item.Name,
			Gender:   string(item.Gender),
			Points:   item.Points,
			Year:     item.Year,
		})
	}
	for _, item := range s.data.games {
		snap.Games = append(snap.Games, snapshotGame{
			ID:       item.ID,
			TrophyID: item.TrophyID,
			Name:     item.Name,
			Kind:     string(item.Kind),
			Year:     item.Year,
		})
	}
	for _, item := range s.data.outcomes {
		item = copyOutcome(item)
		snap.Outcomes = append(snap.Outcomes, snapshotOutcome{
			GameID:     item.GameID,
			TeamID:     item.TeamID,
			Data:       item.Data,
			PointValue: item.PointValue,
		})
	}

	slices.SortFunc(snap.Teams, func(a, b snapshotTeam) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(snap.Games, func(a, b snapshotGame) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(snap.Outcomes, func(a, b snapshotOutcome) int {
		if c := strings.Compare(a.GameID, b.GameID); c != 0 {
			return c
		}
		return strings.Compare(a.TeamID, b.TeamID)
	})
	return snap
}

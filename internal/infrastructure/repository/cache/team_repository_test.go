package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/vaerl/trophy-be/internal/domain/team"
	teammock "github.com/vaerl/trophy-be/internal/mocks/domain/team"
	basecache "github.com/vaerl/trophy-be/internal/platform/cache"
)

func TestTeamRepository_ListByYearIsCached(t *testing.T) {
	t.Parallel()

	next := teammock.NewRepository(t)
	next.
		On("ListByYear", mock.Anything, 2024).
		Return([]team.Team{{ID: "t1", Name: "Otters", Gender: team.GenderFemale, Year: 2024}}, nil).
		Once()

	repo := NewTeamRepository(next, basecache.NewStore(0))
	ctx := context.Background()

	first, err := repo.ListByYear(ctx, 2024)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	first[0].Name = "mutated"

	second, err := repo.ListByYear(ctx, 2024)
	if err != nil {
		t.Fatalf("list teams again: %v", err)
	}
	if len(second) != 1 || second[0].Name != "Otters" {
		t.Fatalf("cached list must not alias caller slices: %+v", second)
	}
}

func TestTeamRepository_InvalidateYear(t *testing.T) {
	t.Parallel()

	next := teammock.NewRepository(t)
	next.
		On("ListByYear", mock.Anything, 2024).
		Return([]team.Team{{ID: "t1", Points: 0, Year: 2024}}, nil).
		Once()
	next.
		On("ListByYear", mock.Anything, 2024).
		Return([]team.Team{{ID: "t1", Points: 50, Year: 2024}}, nil).
		Once()

	repo := NewTeamRepository(next, basecache.NewStore(0))
	ctx := context.Background()

	if _, err := repo.ListByYear(ctx, 2024); err != nil {
		t.Fatalf("list teams: %v", err)
	}
	repo.InvalidateYear(ctx, 2024)

	items, err := repo.ListByYear(ctx, 2024)
	if err != nil {
		t.Fatalf("list teams after invalidation: %v", err)
	}
	if items[0].Points != 50 {
		t.Fatalf("unexpected points after invalidation: got=%d want=50", items[0].Points)
	}
}

func TestTeamRepository_WritesDropCachedReads(t *testing.T) {
	t.Parallel()

	next := teammock.NewRepository(t)
	item := team.Team{ID: "t1", Name: "Otters", Gender: team.GenderFemale, Year: 2024}
	next.On("GetByID", mock.Anything, "t1").Return(item, true, nil).Once()
	next.On("UpdatePoints", mock.Anything, "t1", 49).Return(nil).Once()
	updated := item
	updated.Points = 49
	next.On("GetByID", mock.Anything, "t1").Return(updated, true, nil).Once()
	next.On("GetByID", mock.Anything, "t2").Return(team.Team{}, false, nil).Once()

	repo := NewTeamRepository(next, basecache.NewStore(0))
	ctx := context.Background()

	if _, _, err := repo.GetByID(ctx, "t1"); err != nil {
		t.Fatalf("get team: %v", err)
	}
	if err := repo.UpdatePoints(ctx, "t1", 49); err != nil {
		t.Fatalf("update points: %v", err)
	}
	got, exists, err := repo.GetByID(ctx, "t1")
	if err != nil || !exists {
		t.Fatalf("get team after update: exists=%v err=%v", exists, err)
	}
	if got.Points != 49 {
		t.Fatalf("unexpected points: got=%d want=49", got.Points)
	}

	for range 2 {
		if _, exists, err := repo.GetByID(ctx, "t2"); err != nil || exists {
			t.Fatalf("missing team must be cached as absent: exists=%v err=%v", exists, err)
		}
	}
}

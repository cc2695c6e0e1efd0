package cache

import (
	"context"
	"strconv"

	"github.com/vaerl/trophy-be/internal/domain/team"
	basecache "github.com/vaerl/trophy-be/internal/platform/cache"
)

const (
	teamYearPrefix = "team:year:"
	teamIDPrefix   = "team:id:"
)

// TeamRepository caches team reads. Writes made through it drop the affected
// keys; writes made elsewhere need InvalidateYear.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByYear(ctx context.Context, year int) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, yearKey(year), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, teamIDPrefix+id, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, yearKey(item.Year))
	r.cache.Delete(ctx, teamIDPrefix+item.ID)
	return nil
}

func (r *TeamRepository) UpdatePoints(ctx context.Context, id string, points int) error {
	if err := r.next.UpdatePoints(ctx, id, points); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamIDPrefix+id)
	r.cache.DeletePrefix(ctx, teamYearPrefix)
	return nil
}

// InvalidateYear drops the cached list of the year and every cached team,
// since totals of single teams may have changed with it.
func (r *TeamRepository) InvalidateYear(ctx context.Context, year int) {
	r.cache.Delete(ctx, yearKey(year))
	r.cache.DeletePrefix(ctx, teamIDPrefix)
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

func yearKey(year int) string {
	return teamYearPrefix + strconv.Itoa(year)
}

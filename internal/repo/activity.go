package repo

import (
	"NoteKeeper/internal/model"
	"context"
)

// ActivityRepository журнал действий над заметками (activities.json). Только дозапись.
type ActivityRepository interface {
	Append(ctx context.Context, a model.Activity) error
}

type activityRepo struct {
	file *jsonFile[model.Activity]
}

// NewActivityRepository создаёт файловый журнал активности.
func NewActivityRepository(path string) ActivityRepository {
	return &activityRepo{file: newJSONFile[model.Activity](path)}
}

func (r *activityRepo) Append(ctx context.Context, a model.Activity) error {
	return r.file.Modify(ctx, func(list []model.Activity) ([]model.Activity, error) {
		return append(list, a), nil
	})
}

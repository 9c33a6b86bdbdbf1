package repo

import (
	"NoteKeeper/internal/model"
	"context"
)

// NoteRepository доступ к коллекции заметок (notes.json).
// Коллекция читается и пишется только целиком.
type NoteRepository interface {
	// All возвращает всю коллекцию заметок всех пользователей.
	All(ctx context.Context) ([]model.Note, error)

	// Mutate читает коллекцию, передаёт её в fn и сохраняет то, что fn вернула.
	// Ошибка из fn прерывает операцию без записи.
	Mutate(ctx context.Context, fn func(notes []model.Note) ([]model.Note, error)) error
}

type noteRepo struct {
	file *jsonFile[model.Note]
}

// NewNoteRepository создаёт файловый репозиторий заметок.
func NewNoteRepository(path string) NoteRepository {
	return &noteRepo{file: newJSONFile[model.Note](path)}
}

func (r *noteRepo) All(ctx context.Context) ([]model.Note, error) {
	return r.file.Load(ctx)
}

func (r *noteRepo) Mutate(ctx context.Context, fn func(notes []model.Note) ([]model.Note, error)) error {
	return r.file.Modify(ctx, fn)
}

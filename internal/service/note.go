package service

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoteNotFound заметки нет или она принадлежит другому пользователю.
	ErrNoteNotFound = errors.New("note not found")
	// ErrCommentNotFound комментарий не найден.
	ErrCommentNotFound = errors.New("comment not found")
)

// NoteService инкапсулирует работу с заметками. Все операции, кроме LikeComment,
// видят только заметки владельца (note.UserID == principal.ID).
type NoteService struct {
	notes      repo.NoteRepository
	activities repo.ActivityRepository
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewNoteService(notes repo.NoteRepository, activities repo.ActivityRepository, logger *zap.SugaredLogger) *NoteService {
	return &NoteService{notes: notes, activities: activities, logger: logger, now: time.Now}
}

// Filter фильтры списка заметок. Заданные фильтры применяются совместно.
type Filter struct {
	Search   string
	Tag      string
	Category string
}

// NoteInput поля создания/изменения заметки.
type NoteInput struct {
	Content     string
	Tags        []string
	Category    string
	LinkedNotes []int64
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// owned выбирает заметки владельца, удовлетворяющие pred.
func (s *NoteService) owned(ctx context.Context, p model.Principal, pred func(*model.Note) bool) ([]model.Note, error) {
	all, err := s.notes.All(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]model.Note, 0)
	for i := range all {
		if all[i].UserID != p.ID {
			continue
		}
		if pred == nil || pred(&all[i]) {
			res = append(res, all[i])
		}
	}
	return res, nil
}

// getOwned ищет заметку владельца по id.
func (s *NoteService) getOwned(ctx context.Context, p model.Principal, id int64) (*model.Note, []model.Note, error) {
	all, err := s.notes.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	idx := indexOwned(all, p, id)
	if idx < 0 {
		return nil, nil, ErrNoteNotFound
	}
	return &all[idx], all, nil
}

func indexOwned(notes []model.Note, p model.Principal, id int64) int {
	for i := range notes {
		if notes[i].ID == id && notes[i].UserID == p.ID {
			return i
		}
	}
	return -1
}

func indexByUser(comments []model.Comment, username string) int {
	for i := range comments {
		if comments[i].User == username {
			return i
		}
	}
	return -1
}

// mutateOwned находит заметку владельца и применяет к ней fn внутри одного цикла записи.
// Возвращает копию изменённой заметки.
func (s *NoteService) mutateOwned(ctx context.Context, p model.Principal, id int64, fn func(n *model.Note) error) (model.Note, error) {
	var out model.Note
	err := s.notes.Mutate(ctx, func(notes []model.Note) ([]model.Note, error) {
		idx := indexOwned(notes, p, id)
		if idx < 0 {
			return nil, ErrNoteNotFound
		}
		if err := fn(&notes[idx]); err != nil {
			return nil, err
		}
		out = notes[idx]
		return notes, nil
	})
	return out, err
}

func (s *NoteService) logActivity(ctx context.Context, p model.Principal, action string, noteID int64) error {
	err := s.activities.Append(ctx, model.Activity{
		UserID:    p.ID,
		Action:    action,
		NoteID:    noteID,
		Timestamp: s.now(),
	})
	if err != nil {
		s.logger.Errorw("activity log append failed", "action", action, "note_id", noteID, "error", err)
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// List заметки пользователя с фильтрами. Архивные заметки не исключаются.
func (s *NoteService) List(ctx context.Context, p model.Principal, f Filter) ([]model.Note, error) {
	return s.owned(ctx, p, func(n *model.Note) bool {
		if f.Search != "" && !containsFold(n.Content, f.Search) {
			return false
		}
		if f.Tag != "" && !n.HasTag(f.Tag) {
			return false
		}
		if f.Category != "" && n.Category != f.Category {
			return false
		}
		return true
	})
}

// Search ищет подстроку без учёта регистра в тексте, тегах или категории.
func (s *NoteService) Search(ctx context.Context, p model.Principal, query string) ([]model.Note, error) {
	return s.owned(ctx, p, func(n *model.Note) bool {
		if containsFold(n.Content, query) || containsFold(n.Category, query) {
			return true
		}
		for _, t := range n.Tags {
			if containsFold(t, query) {
				return true
			}
		}
		return false
	})
}

// Create добавляет заметку. ID = максимальный существующий + 1.
func (s *NoteService) Create(ctx context.Context, p model.Principal, in NoteInput) (*model.Note, error) {
	var created model.Note
	err := s.notes.Mutate(ctx, func(notes []model.Note) ([]model.Note, error) {
		var maxID int64
		for _, n := range notes {
			if n.ID > maxID {
				maxID = n.ID
			}
		}
		now := s.now()
		created = model.Note{
			ID:          maxID + 1,
			Content:     in.Content,
			Tags:        in.Tags,
			Category:    in.Category,
			Comments:    []model.Comment{},
			UserID:      p.ID,
			LinkedNotes: in.LinkedNotes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if created.Tags == nil {
			created.Tags = []string{}
		}
		if created.LinkedNotes == nil {
			created.LinkedNotes = []int64{}
		}
		return append(notes, created), nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.logActivity(ctx, p, model.ActionNoteCreated, created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update заменяет только непустые поля: пустая строка или пустой список
// считаются «не передано», поэтому очистить поле нельзя.
func (s *NoteService) Update(ctx context.Context, p model.Principal, id int64, in NoteInput) (*model.Note, error) {
	updated, err := s.mutateOwned(ctx, p, id, func(n *model.Note) error {
		if in.Content != "" {
			n.Content = in.Content
		}
		if len(in.Tags) > 0 {
			n.Tags = in.Tags
		}
		if in.Category != "" {
			n.Category = in.Category
		}
		if len(in.LinkedNotes) > 0 {
			n.LinkedNotes = in.LinkedNotes
		}
		n.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.logActivity(ctx, p, model.ActionNoteUpdated, id); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete удаляет заметку из коллекции физически.
func (s *NoteService) Delete(ctx context.Context, p model.Principal, id int64) error {
	err := s.notes.Mutate(ctx, func(notes []model.Note) ([]model.Note, error) {
		idx := indexOwned(notes, p, id)
		if idx < 0 {
			return nil, ErrNoteNotFound
		}
		return append(notes[:idx], notes[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	return s.logActivity(ctx, p, model.ActionNoteDeleted, id)
}

// AddComment добавляет комментарий от имени пользователя.
func (s *NoteService) AddComment(ctx context.Context, p model.Principal, noteID int64, text string) (*model.Comment, error) {
	c := model.Comment{User: p.Username, Comment: text, Likes: 0}
	_, err := s.mutateOwned(ctx, p, noteID, func(n *model.Note) error {
		n.Comments = append(n.Comments, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComment меняет текст комментария, автор которого совпадает с пользователем.
// Пустой текст оставляет прежний.
func (s *NoteService) UpdateComment(ctx context.Context, p model.Principal, noteID int64, text string) (*model.Comment, error) {
	var out model.Comment
	_, err := s.mutateOwned(ctx, p, noteID, func(n *model.Note) error {
		idx := indexByUser(n.Comments, p.Username)
		if idx < 0 {
			return ErrCommentNotFound
		}
		if text != "" {
			n.Comments[idx].Comment = text
		}
		out = n.Comments[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment удаляет первый комментарий пользователя в заметке.
func (s *NoteService) DeleteComment(ctx context.Context, p model.Principal, noteID int64) error {
	_, err := s.mutateOwned(ctx, p, noteID, func(n *model.Note) error {
		idx := indexByUser(n.Comments, p.Username)
		if idx < 0 {
			return ErrCommentNotFound
		}
		n.Comments = append(n.Comments[:idx], n.Comments[idx+1:]...)
		return nil
	})
	return err
}

// LikeComment увеличивает счётчик лайков комментария с заданным ID.
// Владелец заметки не проверяется. Комментарии, созданные через API, ID не имеют,
// поэтому для них результат всегда ErrCommentNotFound.
func (s *NoteService) LikeComment(ctx context.Context, noteID, commentID int64) (*model.Comment, error) {
	var out model.Comment
	err := s.notes.Mutate(ctx, func(notes []model.Note) ([]model.Note, error) {
		for i := range notes {
			if notes[i].ID != noteID {
				continue
			}
			for j := range notes[i].Comments {
				c := &notes[i].Comments[j]
				if c.ID != 0 && c.ID == commentID {
					c.Likes++
					out = *c
					return notes, nil
				}
			}
			return nil, ErrCommentNotFound
		}
		return nil, ErrNoteNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NoteService) AddFavorite(ctx context.Context, p model.Principal, id int64) (*model.Note, error) {
	n, err := s.mutateOwned(ctx, p, id, func(n *model.Note) error {
		n.IsFavorite = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NoteService) Favorites(ctx context.Context, p model.Principal) ([]model.Note, error) {
	return s.owned(ctx, p, func(n *model.Note) bool { return n.IsFavorite })
}

func (s *NoteService) Archive(ctx context.Context, p model.Principal, id int64) (*model.Note, error) {
	n, err := s.mutateOwned(ctx, p, id, func(n *model.Note) error {
		n.Archived = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NoteService) Archived(ctx context.Context, p model.Principal) ([]model.Note, error) {
	return s.owned(ctx, p, func(n *model.Note) bool { return n.Archived })
}

// LinkedNotes разрешает linkedNotes по всей коллекции. Владелец проверяется
// только у исходной заметки, связанные заметки могут быть чужими.
func (s *NoteService) LinkedNotes(ctx context.Context, p model.Principal, id int64) ([]model.Note, error) {
	note, all, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	res := make([]model.Note, 0, len(note.LinkedNotes))
	for _, n := range all {
		if note.Links(n.ID) {
			res = append(res, n)
		}
	}
	return res, nil
}

// Restore снимает флаг deleted. Delete удаляет заметки физически и флаг не ставит,
// так что на практике операция меняет только уже существующие заметки.
func (s *NoteService) Restore(ctx context.Context, p model.Principal, id int64) (*model.Note, error) {
	n, err := s.mutateOwned(ctx, p, id, func(n *model.Note) error {
		n.Deleted = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NoteService) ByTag(ctx context.Context, p model.Principal, tag string) ([]model.Note, error) {
	return s.owned(ctx, p, func(n *model.Note) bool { return n.HasTag(tag) })
}

func (s *NoteService) Comments(ctx context.Context, p model.Principal, id int64) ([]model.Comment, error) {
	note, _, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if note.Comments == nil {
		return []model.Comment{}, nil
	}
	return note.Comments, nil
}

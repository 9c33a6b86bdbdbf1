package service

import (
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// мок журнала активности: проверяем порядок записей
type mockActivityRepo struct{ mock.Mock }

func (m *mockActivityRepo) Append(ctx context.Context, a model.Activity) error {
	return m.Called(ctx, a).Error(0)
}

var _ repo.ActivityRepository = (*mockActivityRepo)(nil)

var (
	alice = model.Principal{ID: 1, Role: "user", Username: "alice"}
	bob   = model.Principal{ID: 2, Role: "user", Username: "bob"}
)

// newNoteSvc сервис на реальном notes.json во временном каталоге
func newNoteSvc(t *testing.T) (*NoteService, *mockActivityRepo, repo.NoteRepository) {
	t.Helper()
	notes := repo.NewNoteRepository(filepath.Join(t.TempDir(), "notes.json"))
	act := &mockActivityRepo{}
	act.On("Append", mock.Anything, mock.Anything).Return(nil)
	return NewNoteService(notes, act, zap.NewNop().Sugar()), act, notes
}

func mustCreate(t *testing.T, svc *NoteService, p model.Principal, in NoteInput) *model.Note {
	t.Helper()
	n, err := svc.Create(context.Background(), p, in)
	require.NoError(t, err)
	return n
}

func recordedActions(act *mockActivityRepo) []string {
	var out []string
	for _, c := range act.Calls {
		if c.Method == "Append" {
			out = append(out, c.Arguments.Get(1).(model.Activity).Action)
		}
	}
	return out
}

func TestNoteService_Scenario(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	n := mustCreate(t, svc, alice, NoteInput{Content: "buy milk", Tags: []string{"shopping"}, Category: "home"})
	assert.Equal(t, int64(1), n.ID)
	assert.False(t, n.IsFavorite)
	assert.False(t, n.Archived)
	assert.Equal(t, alice.ID, n.UserID)
	assert.Empty(t, n.Comments)

	c, err := svc.AddComment(ctx, alice, n.ID, "done")
	require.NoError(t, err)
	assert.Equal(t, model.Comment{User: "alice", Comment: "done", Likes: 0}, *c)

	comments, err := svc.Comments(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Comment{{User: "alice", Comment: "done", Likes: 0}}, comments)

	_, err = svc.Archive(ctx, alice, n.ID)
	require.NoError(t, err)

	archived, err := svc.Archived(ctx, alice)
	require.NoError(t, err)
	if assert.Len(t, archived, 1) {
		assert.Equal(t, n.ID, archived[0].ID)
	}

	// архивные заметки остаются в общем списке
	all, err := svc.List(ctx, alice, Filter{})
	require.NoError(t, err)
	if assert.Len(t, all, 1) {
		assert.True(t, all[0].Archived)
	}
}

func TestNoteService_ListIsOwnerScoped(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	mustCreate(t, svc, alice, NoteInput{Content: "a1"})
	mustCreate(t, svc, bob, NoteInput{Content: "b1"})
	mustCreate(t, svc, alice, NoteInput{Content: "a2"})
	mustCreate(t, svc, bob, NoteInput{Content: "b2"})

	for _, p := range []model.Principal{alice, bob} {
		list, err := svc.List(ctx, p, Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
		for _, n := range list {
			assert.Equal(t, p.ID, n.UserID)
		}
	}

	// чужая заметка недоступна для изменения
	_, err := svc.Update(ctx, bob, 1, NoteInput{Content: "hijack"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, bob, 1), ErrNoteNotFound)
}

func TestNoteService_ListFilters(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	mustCreate(t, svc, alice, NoteInput{Content: "Buy MILK", Tags: []string{"shopping"}, Category: "home"})
	mustCreate(t, svc, alice, NoteInput{Content: "call mom", Tags: []string{"family"}, Category: "home"})
	mustCreate(t, svc, alice, NoteInput{Content: "milk the cow", Tags: []string{"farm"}, Category: "work"})

	cases := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"search is case-insensitive on content", Filter{Search: "milk"}, []int64{1, 3}},
		{"tag is exact membership", Filter{Tag: "shopping"}, []int64{1}},
		{"tag is not substring", Filter{Tag: "shop"}, nil},
		{"category exact", Filter{Category: "home"}, []int64{1, 2}},
		{"filters combine", Filter{Search: "milk", Category: "home"}, []int64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, alice, tc.f)
			require.NoError(t, err)
			var ids []int64
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestNoteService_Search(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	mustCreate(t, svc, alice, NoteInput{Content: "groceries", Tags: []string{"Errands"}, Category: "home"})
	mustCreate(t, svc, alice, NoteInput{Content: "report", Tags: []string{"q3"}, Category: "Work"})
	mustCreate(t, svc, alice, NoteInput{Content: "nothing here"})
	mustCreate(t, svc, bob, NoteInput{Content: "errands for bob"})

	ids := func(q string) []int64 {
		got, err := svc.Search(ctx, alice, q)
		require.NoError(t, err)
		var out []int64
		for _, n := range got {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1}, ids("ERRAND"), "tag substring, case-insensitive")
	assert.Equal(t, []int64{2}, ids("work"), "category substring")
	assert.Equal(t, []int64{3}, ids("NOTHING"), "content substring")
	assert.Empty(t, ids("absent"))
}

func TestNoteService_CreateUpdateDeleteLogsActivity(t *testing.T) {
	svc, act, notes := newNoteSvc(t)
	ctx := context.Background()

	n := mustCreate(t, svc, alice, NoteInput{Content: "v1", Tags: []string{"t"}, Category: "c", LinkedNotes: []int64{9}})

	before := n.UpdatedAt
	svc.now = func() time.Time { return before.Add(time.Minute) }
	upd, err := svc.Update(ctx, alice, n.ID, NoteInput{Content: "v2", Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "v2", upd.Content)
	// пустые значения не затирают прежние
	assert.Equal(t, []string{"t"}, upd.Tags)
	assert.Equal(t, "c", upd.Category)
	assert.Equal(t, []int64{9}, upd.LinkedNotes)
	assert.True(t, upd.UpdatedAt.After(before))
	assert.True(t, upd.CreatedAt.Equal(n.CreatedAt))

	require.NoError(t, svc.Delete(ctx, alice, n.ID))

	all, err := notes.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Equal(t, []string{model.ActionNoteCreated, model.ActionNoteUpdated, model.ActionNoteDeleted}, recordedActions(act))
	for _, c := range act.Calls {
		a := c.Arguments.Get(1).(model.Activity)
		assert.Equal(t, alice.ID, a.UserID)
		assert.Equal(t, n.ID, a.NoteID)
	}
}

func TestNoteService_IDsDoNotCollideAfterDelete(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	mustCreate(t, svc, alice, NoteInput{Content: "1"})
	mustCreate(t, svc, alice, NoteInput{Content: "2"})
	require.NoError(t, svc.Delete(ctx, alice, 1))

	n := mustCreate(t, svc, alice, NoteInput{Content: "3"})
	assert.Equal(t, int64(3), n.ID)
}

func TestNoteService_NotFoundSkipsActivity(t *testing.T) {
	svc, act, _ := newNoteSvc(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, alice, 42, NoteInput{Content: "x"})
	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice, 42), ErrNoteNotFound)
	assert.Empty(t, recordedActions(act))
}

func TestNoteService_ActivityFailure(t *testing.T) {
	notes := repo.NewNoteRepository(filepath.Join(t.TempDir(), "notes.json"))
	act := &mockActivityRepo{}
	act.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := NewNoteService(notes, act, zap.NewNop().Sugar())

	_, err := svc.Create(context.Background(), alice, NoteInput{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestNoteService_Comments(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()
	n := mustCreate(t, svc, alice, NoteInput{Content: "x"})

	// комментария ещё нет
	_, err := svc.UpdateComment(ctx, alice, n.ID, "edit")
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.ErrorIs(t, svc.DeleteComment(ctx, alice, n.ID), ErrCommentNotFound)

	_, err = svc.AddComment(ctx, alice, n.ID, "first")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, alice, n.ID, "second")
	require.NoError(t, err)

	// адресуется первый комментарий автора
	c, err := svc.UpdateComment(ctx, alice, n.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Comment)

	// пустой текст — без изменений
	c, err = svc.UpdateComment(ctx, alice, n.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Comment)

	require.NoError(t, svc.DeleteComment(ctx, alice, n.ID))
	list, err := svc.Comments(ctx, alice, n.ID)
	require.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "second", list[0].Comment)
	}

	// чужая заметка
	_, err = svc.AddComment(ctx, bob, n.ID, "hi")
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Comments(ctx, bob, n.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteService_LikeComment(t *testing.T) {
	svc, _, notes := newNoteSvc(t)
	ctx := context.Background()
	n := mustCreate(t, svc, alice, NoteInput{Content: "x"})
	_, err := svc.AddComment(ctx, alice, n.ID, "no id")
	require.NoError(t, err)

	// комментарии из API не имеют id
	_, err = svc.LikeComment(ctx, n.ID, 1)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	_, err = svc.LikeComment(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// комментарий с id (например, из импортированного файла) лайкается, владелец не важен
	require.NoError(t, notes.Mutate(ctx, func(all []model.Note) ([]model.Note, error) {
		all[0].Comments = append(all[0].Comments, model.Comment{ID: 5, User: "carol", Comment: "with id"})
		return all, nil
	}))
	c, err := svc.LikeComment(ctx, n.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Likes)
	c, err = svc.LikeComment(ctx, n.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Likes)
}

func TestNoteService_FavoritesTagsRestore(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()
	a := mustCreate(t, svc, alice, NoteInput{Content: "a", Tags: []string{"x", "y"}})
	mustCreate(t, svc, alice, NoteInput{Content: "b", Tags: []string{"y"}})

	fav, err := svc.AddFavorite(ctx, alice, a.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	favs, err := svc.Favorites(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	byTag, err := svc.ByTag(ctx, alice, "y")
	require.NoError(t, err)
	assert.Len(t, byTag, 2)
	byTag, err = svc.ByTag(ctx, bob, "y")
	require.NoError(t, err)
	assert.Empty(t, byTag)

	restored, err := svc.Restore(ctx, alice, a.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)

	_, err = svc.AddFavorite(ctx, bob, a.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Archive(ctx, bob, a.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Restore(ctx, alice, 404)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

// в журнал попадают только note_created / note_updated / note_deleted
func TestNoteService_FlagsAndCommentsAreNotLogged(t *testing.T) {
	svc, act, _ := newNoteSvc(t)
	ctx := context.Background()
	n := mustCreate(t, svc, alice, NoteInput{Content: "a"})

	_, err := svc.AddFavorite(ctx, alice, n.ID)
	require.NoError(t, err)
	_, err = svc.Archive(ctx, alice, n.ID)
	require.NoError(t, err)
	_, err = svc.Restore(ctx, alice, n.ID)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, alice, n.ID, "hi")
	require.NoError(t, err)

	assert.Equal(t, []string{model.ActionNoteCreated}, recordedActions(act))
}

func TestNoteService_LinkedNotes(t *testing.T) {
	svc, _, _ := newNoteSvc(t)
	ctx := context.Background()

	foreign := mustCreate(t, svc, bob, NoteInput{Content: "bob secret"})
	own := mustCreate(t, svc, alice, NoteInput{Content: "own"})
	src := mustCreate(t, svc, alice, NoteInput{Content: "src", LinkedNotes: []int64{own.ID, foreign.ID, 999}})

	linked, err := svc.LinkedNotes(ctx, alice, src.ID)
	require.NoError(t, err)
	var ids []int64
	for _, n := range linked {
		ids = append(ids, n.ID)
	}
	// связанные заметки не проверяются на владельца; несуществующие id пропускаются
	assert.ElementsMatch(t, []int64{own.ID, foreign.ID}, ids)

	_, err = svc.LinkedNotes(ctx, bob, src.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

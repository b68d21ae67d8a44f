package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID     int64
	Title  string
	Body   string
	Secret string
}

type noteStore struct {
	notes []*note
}

func (s *noteStore) All(ctx context.Context) ([]*note, error) {
	return s.notes, nil
}

func (s *noteStore) Get(ctx context.Context, id int64) (*note, error) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, ErrNotFound
}

func (s *noteStore) Save(ctx context.Context, n *note) error {
	if n.ID == 0 {
		n.ID = int64(len(s.notes) + 1)
		s.notes = append(s.notes, n)
	}
	return nil
}

func (s *noteStore) Delete(ctx context.Context, n *note) error {
	for i, existing := range s.notes {
		if existing.ID == n.ID {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func noteSchema() Schema[note] {
	return Schema[note]{
		PublicFields:  []string{"title"},
		PrivateFields: []string{"body"},
		ID:            func(n *note) any { return n.ID },
		Get: func(n *note, field string) any {
			switch field {
			case "title":
				return n.Title
			case "body":
				return n.Body
			}
			return nil
		},
	}
}

func newNoteStore() *noteStore {
	return &noteStore{notes: []*note{
		{ID: 1, Title: "first", Body: "hello", Secret: "s1"},
		{ID: 2, Title: "second", Body: "world", Secret: "s2"},
	}}
}

func TestSerializePublic(t *testing.T) {
	r := New[note](newNoteStore(), noteSchema(), func() *note { return &note{} }, false)

	data := r.Serialize(&note{ID: 7, Title: "t", Body: "b", Secret: "x"})

	assert.Equal(t, int64(7), data["id"])
	assert.Equal(t, "t", data["title"])
	assert.NotContains(t, data, "body")
	assert.NotContains(t, data, "secret")
}

func TestSerializePrivate(t *testing.T) {
	r := New[note](newNoteStore(), noteSchema(), func() *note { return &note{} }, true)

	data := r.Serialize(&note{ID: 7, Title: "t", Body: "b", Secret: "x"})

	assert.Equal(t, "t", data["title"])
	assert.Equal(t, "b", data["body"])
	assert.NotContains(t, data, "secret")
}

func TestSerializeReadsLiveValues(t *testing.T) {
	r := New[note](newNoteStore(), noteSchema(), func() *note { return &note{} }, false)

	n := &note{ID: 1, Title: "before"}
	n.Title = "after"

	assert.Equal(t, "after", r.Serialize(n)["title"])
}

func TestSerializeManyPreservesOrder(t *testing.T) {
	store := newNoteStore()
	r := New[note](store, noteSchema(), func() *note { return &note{} }, false)

	out := r.SerializeMany(store.notes)

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0]["title"])
	assert.Equal(t, "second", out[1]["title"])
}

func TestGetNotFound(t *testing.T) {
	r := New[note](newNoteStore(), noteSchema(), func() *note { return &note{} }, false)

	_, err := r.Get(context.Background(), 99)

	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetExisting(t *testing.T) {
	r := New[note](newNoteStore(), noteSchema(), func() *note { return &note{} }, false)

	n, err := r.Get(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "second", n.Title)
}

func TestCreateIsTransient(t *testing.T) {
	store := newNoteStore()
	r := New[note](store, noteSchema(), func() *note { return &note{Title: "fresh"} }, false)

	n := r.Create()

	assert.Equal(t, "fresh", n.Title)
	assert.Zero(t, n.ID)
	assert.Len(t, store.notes, 2, "create must not persist")
}

func TestUnboundResourcePanics(t *testing.T) {
	var r Resource[note]

	require.Panics(t, func() { r.Create() })
	require.Panics(t, func() { _, _ = r.All(context.Background()) })
}

func TestDuplicateErrorMessage(t *testing.T) {
	err := &DuplicateError{Field: "username"}
	assert.Equal(t, "username already exists", err.Error())
}

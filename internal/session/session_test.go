package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
)

func newSet(id string) *QuestionSet {
	return &QuestionSet{
		ID:           id,
		QuestionType: question.TypeMultipleChoice,
		Difficulty:   question.DifficultyMedium,
		Questions: []question.Question{
			{ID: id + "-q1", Type: question.TypeMultipleChoice, Prompt: "P", Answer: "A"},
		},
	}
}

func create(t *testing.T, s *Session, id string) *QuestionSet {
	t.Helper()
	token := s.BeginGeneration()
	set, ok := s.CreateSet(token, newSet(id))
	require.True(t, ok)
	return set
}

func TestCreateSetOrdersMostRecentFirst(t *testing.T) {
	s := &Session{}

	create(t, s, "first")
	create(t, s, "second")
	create(t, s, "third")

	sets := s.Sets()
	require.Len(t, sets, 3)
	assert.Equal(t, "third", sets[0].ID)
	assert.Equal(t, "second", sets[1].ID)
	assert.Equal(t, "first", sets[2].ID)
	assert.Equal(t, "third", s.ActiveID(), "newest set becomes active")
}

func TestCreateSetFillsDefaults(t *testing.T) {
	s := &Session{}
	token := s.BeginGeneration()

	set, ok := s.CreateSet(token, &QuestionSet{})
	require.True(t, ok)
	assert.NotEmpty(t, set.ID)
	assert.False(t, set.CreatedAt.IsZero())
}

func TestCreateSetRefusesStaleToken(t *testing.T) {
	s := &Session{}

	stale := s.BeginGeneration()
	fresh := s.BeginGeneration()

	set, ok := s.CreateSet(stale, newSet("stale"))
	assert.False(t, ok)
	assert.Nil(t, set)
	assert.Empty(t, s.Sets(), "stale result must not be appended")

	_, ok = s.CreateSet(fresh, newSet("fresh"))
	assert.True(t, ok)
	assert.Equal(t, "fresh", s.ActiveID())
}

func TestCreateSetTokenSingleUse(t *testing.T) {
	s := &Session{}
	token := s.BeginGeneration()

	_, ok := s.CreateSet(token, newSet("one"))
	require.True(t, ok)

	_, ok = s.CreateSet(token, newSet("two"))
	assert.False(t, ok, "a consumed token must not append again")
	assert.Len(t, s.Sets(), 1)
}

func TestSelect(t *testing.T) {
	s := &Session{}
	create(t, s, "a")
	create(t, s, "b")

	set, err := s.Select("a")
	require.NoError(t, err)
	assert.Equal(t, "a", set.ID)
	assert.Equal(t, "a", s.ActiveID())

	_, err = s.Select("missing")
	assert.ErrorIs(t, err, ErrSetNotFound)
	assert.Equal(t, "a", s.ActiveID(), "failed select must not move the cursor")
}

func TestGetDoesNotChangeSelection(t *testing.T) {
	s := &Session{}
	create(t, s, "a")
	create(t, s, "b")

	set, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", set.ID)
	assert.Equal(t, "b", s.ActiveID())

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestDeleteNonActiveKeepsSelection(t *testing.T) {
	s := &Session{}
	create(t, s, "a")
	create(t, s, "b")
	create(t, s, "c")

	require.NoError(t, s.Delete("a"))

	assert.Equal(t, "c", s.ActiveID())
	sets := s.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, "c", sets[0].ID)
	assert.Equal(t, "b", sets[1].ID)
}

func TestDeleteActiveRepointsToMostRecent(t *testing.T) {
	s := &Session{}
	create(t, s, "a")
	create(t, s, "b")
	create(t, s, "c")

	_, err := s.Select("b")
	require.NoError(t, err)

	require.NoError(t, s.Delete("b"))
	assert.Equal(t, "c", s.ActiveID(), "selection moves to the most recent remaining set")
}

func TestDeleteLastSetClearsSelection(t *testing.T) {
	s := &Session{}
	create(t, s, "only")

	require.NoError(t, s.Delete("only"))

	assert.Empty(t, s.ActiveID())
	assert.Nil(t, s.Active())
	assert.Empty(t, s.Sets())
}

func TestDeleteUnknown(t *testing.T) {
	s := &Session{}
	create(t, s, "a")

	assert.ErrorIs(t, s.Delete("missing"), ErrSetNotFound)
	assert.Len(t, s.Sets(), 1)
}

func TestActive(t *testing.T) {
	s := &Session{}
	assert.Nil(t, s.Active())

	create(t, s, "a")
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, "a", active.ID)
}

func TestManagerGetCreatesOnce(t *testing.T) {
	m := NewManager()

	first := m.Get("client-1")
	second := m.Get("client-1")
	other := m.Get("client-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager()

	create(t, m.Get("client-1"), "a")

	assert.Len(t, m.Get("client-1").Sets(), 1)
	assert.Empty(t, m.Get("client-2").Sets())
}

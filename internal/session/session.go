package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kimsunjeung/cert-exam-gen/internal/quality"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
)

// ErrSetNotFound indicates a lookup for a set id not present in the
// session. This points at a client/state bug, not an expected runtime
// condition.
var ErrSetNotFound = errors.New("question set not found")

// QuestionSet is one successful generation result. Immutable after
// creation; the session only moves it around or drops it.
type QuestionSet struct {
	ID                  string              `json:"id"`
	CreatedAt           time.Time           `json:"created_at"`
	QuestionType        question.Type       `json:"question_type"`
	Difficulty          question.Difficulty `json:"difficulty"`
	RequestedCount      int                 `json:"requested_count"`
	Questions           []question.Question `json:"questions"`
	QualityScores       *quality.Scores     `json:"quality_scores"`
	SourceDocumentLabel string              `json:"source_document_label"`
}

// Session holds the ordered question sets for one client, most recent
// first, plus the active-set cursor. Modeled as a flat slice with an id
// cursor so deletion and re-pointing never chase object references.
type Session struct {
	mu       sync.Mutex
	sets     []*QuestionSet
	activeID string
	genToken string
}

// BeginGeneration marks a new in-flight generation and returns its token.
// Starting a new generation invalidates any earlier in-flight token, so a
// stale result can never be appended over a newer request.
func (s *Session) BeginGeneration() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genToken = uuid.NewString()
	return s.genToken
}

// CreateSet appends a freshly generated set to the front and makes it
// active. It refuses stale tokens: when false is returned the result
// belongs to a superseded request and must be discarded.
func (s *Session) CreateSet(token string, set *QuestionSet) (*QuestionSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.genToken {
		return nil, false
	}
	s.genToken = ""

	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}

	s.sets = append([]*QuestionSet{set}, s.sets...)
	s.activeID = set.ID
	return set, true
}

// Select makes the given set active and returns it, so its stored
// parameters become the active generation defaults.
func (s *Session) Select(setID string) (*QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range s.sets {
		if set.ID == setID {
			s.activeID = setID
			return set, nil
		}
	}
	return nil, ErrSetNotFound
}

// Get returns the set without changing the active selection.
func (s *Session) Get(setID string) (*QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range s.sets {
		if set.ID == setID {
			return set, nil
		}
	}
	return nil, ErrSetNotFound
}

// Delete removes the set. Deleting the active set re-points the selection
// to the most recently created remaining set, or clears it when the
// session is empty; deleting any other set never moves the selection.
func (s *Session) Delete(setID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, set := range s.sets {
		if set.ID == setID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrSetNotFound
	}

	s.sets = append(s.sets[:idx], s.sets[idx+1:]...)

	if s.activeID == setID {
		if len(s.sets) > 0 {
			s.activeID = s.sets[0].ID
		} else {
			s.activeID = ""
		}
	}
	return nil
}

// Active returns the currently selected set, or nil when none is selected.
func (s *Session) Active() *QuestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil
	}
	for _, set := range s.sets {
		if set.ID == s.activeID {
			return set
		}
	}
	return nil
}

// ActiveID returns the id of the selected set, or "" when none.
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Sets returns the ordered sets, most recent first.
func (s *Session) Sets() []*QuestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*QuestionSet, len(s.sets))
	copy(out, s.sets)
	return out
}

package repository

import (
	"context"
	"sort"
	"sync"

	"go-interview-client/internal/model"
)

// InterviewRecord is an interview with its answers, as the backend keeps it.
type InterviewRecord struct {
	Interview model.Interview
	Answers   []model.Answer
	Feedback  string
}

type InterviewRepository struct {
	mu            sync.RWMutex
	interviews    map[int64]*InterviewRecord
	nextInterview int64
	nextQuestion  int64
	nextAnswer    int64
}

func NewInterviewRepository() *InterviewRepository {
	return &InterviewRepository{interviews: map[int64]*InterviewRecord{}}
}

func (r *InterviewRepository) Create(_ context.Context, interview model.Interview) model.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextInterview++
	interview.ID = r.nextInterview
	r.interviews[interview.ID] = &InterviewRecord{Interview: interview}
	return cloneInterview(interview)
}

func (r *InterviewRepository) Get(_ context.Context, id int64) (InterviewRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.interviews[id]
	if !ok {
		return InterviewRecord{}, model.ErrNotFound
	}
	return cloneRecord(record), nil
}

// Update applies fn to the stored record under the write lock.
func (r *InterviewRepository) Update(_ context.Context, id int64, fn func(*InterviewRecord) error) (InterviewRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.interviews[id]
	if !ok {
		return InterviewRecord{}, model.ErrNotFound
	}
	if err := fn(record); err != nil {
		return InterviewRecord{}, err
	}
	return cloneRecord(record), nil
}

// NextQuestionID and NextAnswerID are global sequences, like database keys.
func (r *InterviewRepository) NextQuestionID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextQuestion++
	return r.nextQuestion
}

func (r *InterviewRepository) NextAnswerID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextAnswer++
	return r.nextAnswer
}

// ListByUser returns the user's interviews, newest first.
func (r *InterviewRepository) ListByUser(_ context.Context, userID int64) []InterviewRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []InterviewRecord
	for _, record := range r.interviews {
		if record.Interview.UserID != nil && *record.Interview.UserID == userID {
			out = append(out, cloneRecord(record))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Interview, out[j].Interview
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.After(b.CreatedAt.Time)
		}
		return a.ID > b.ID
	})
	return out
}

func cloneRecord(record *InterviewRecord) InterviewRecord {
	out := InterviewRecord{
		Interview: cloneInterview(record.Interview),
		Answers:   append([]model.Answer(nil), record.Answers...),
		Feedback:  record.Feedback,
	}
	return out
}

func cloneInterview(interview model.Interview) model.Interview {
	interview.Questions = append([]model.Question(nil), interview.Questions...)
	return interview
}

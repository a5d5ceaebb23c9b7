package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"liveform/internal/model"
)

// InMemoryCourseRepo is a map-backed CourseRepo for unit tests. Documents are
// copied on read and write so callers hold independent snapshots, matching the
// load/replace semantics of the Mongo implementation.
type InMemoryCourseRepo struct {
	mu      sync.RWMutex
	courses map[primitive.ObjectID]*model.Course
	order   []primitive.ObjectID
}

// NewInMemoryCourseRepo creates an empty in-memory repository.
func NewInMemoryCourseRepo() *InMemoryCourseRepo {
	return &InMemoryCourseRepo{
		courses: make(map[primitive.ObjectID]*model.Course),
	}
}

func copyCourse(course *model.Course) (*model.Course, error) {
	raw, err := bson.Marshal(course)
	if err != nil {
		return nil, err
	}
	var copied model.Course
	if err := bson.Unmarshal(raw, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *InMemoryCourseRepo) Create(ctx context.Context, course *model.Course) error {
	copied, err := copyCourse(course)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		r.order = append(r.order, course.ID)
	}
	r.courses[course.ID] = copied
	return nil
}

func (r *InMemoryCourseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error) {
	r.mu.RLock()
	course, ok := r.courses[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return copyCourse(course)
}

func (r *InMemoryCourseRepo) GetByKey(ctx context.Context, key string) (*model.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if r.courses[id].Key == key {
			return copyCourse(r.courses[id])
		}
	}
	return nil, nil
}

func (r *InMemoryCourseRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*model.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var courses []*model.Course
	for _, id := range r.order {
		if r.courses[id].IsOwner(ownerID) {
			copied, err := copyCourse(r.courses[id])
			if err != nil {
				return nil, err
			}
			courses = append(courses, copied)
		}
	}
	return courses, nil
}

func (r *InMemoryCourseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	courses := make([]*model.Course, 0, len(r.order))
	for _, id := range r.order {
		copied, err := copyCourse(r.courses[id])
		if err != nil {
			return nil, err
		}
		courses = append(courses, copied)
	}
	return courses, nil
}

func (r *InMemoryCourseRepo) Update(ctx context.Context, course *model.Course) error {
	copied, err := copyCourse(course)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		r.order = append(r.order, course.ID)
	}
	r.courses[course.ID] = copied
	return nil
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"liveform/internal/model"
)

// CourseRepo handles persistence of course documents. Courses are stored and
// replaced as whole documents; there is no field-level update and no version
// check, so the last save of a concurrently edited course wins.
type CourseRepo interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error)
	GetByKey(ctx context.Context, key string) (*model.Course, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*model.Course, error)
	ListAll(ctx context.Context) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
}

type courseRepo struct {
	collection *mongo.Collection
}

// NewCourseRepo creates a Mongo-backed course repository.
func NewCourseRepo(db *mongo.Database) CourseRepo {
	return &courseRepo{
		collection: db.Collection("courses"),
	}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	_, err := r.collection.InsertOne(ctx, course)
	return err
}

func (r *courseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error) {
	var course model.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByKey(ctx context.Context, key string) (*model.Course, error) {
	var course model.Course
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*model.Course, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owners": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []*model.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []*model.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	return err
}

package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"squadup/internal/domain/entity"
	"squadup/internal/domain/repository"
	"squadup/pkg/errors"
)

type firestoreStadiumRepository struct {
	client *firestore.Client
}

func NewFirestoreStadiumRepository(client *firestore.Client) repository.StadiumRepository {
	return &firestoreStadiumRepository{
		client: client,
	}
}

func (r *firestoreStadiumRepository) Create(ctx context.Context, stadium *entity.Stadium) error {
	if stadium.ID == "" {
		stadium.ID = uuid.New().String()
	}

	now := time.Now()
	stadium.CreatedAt = now
	stadium.UpdatedAt = now

	_, err := r.client.Collection("stadiums").Doc(stadium.ID).Set(ctx, stadium)
	if err != nil {
		return errors.Internal("Failed to create stadium", err)
	}
	return nil
}

func (r *firestoreStadiumRepository) GetByID(ctx context.Context, id string) (*entity.Stadium, error) {
	doc, err := r.client.Collection("stadiums").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Stadium", err)
		}
		return nil, errors.Internal("Failed to get stadium", err)
	}

	var stadium entity.Stadium
	if err := doc.DataTo(&stadium); err != nil {
		return nil, errors.Internal("Failed to parse stadium data", err)
	}
	return &stadium, nil
}

func (r *firestoreStadiumRepository) List(ctx context.Context, city string, limit, offset int) ([]*entity.Stadium, int64, error) {
	query := r.client.Collection("stadiums").OrderBy("name", firestore.Asc)
	if city != "" {
		query = r.client.Collection("stadiums").Where("city", "==", city).OrderBy("name", firestore.Asc)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count stadiums", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var stadiums []*entity.Stadium
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate stadiums", err)
		}

		var stadium entity.Stadium
		if err := doc.DataTo(&stadium); err != nil {
			return nil, 0, errors.Internal("Failed to parse stadium data", err)
		}
		stadiums = append(stadiums, &stadium)
	}
	return stadiums, total, nil
}

func (r *firestoreStadiumRepository) Update(ctx context.Context, stadium *entity.Stadium) error {
	stadium.UpdatedAt = time.Now()

	_, err := r.client.Collection("stadiums").Doc(stadium.ID).Set(ctx, stadium)
	if err != nil {
		return errors.Internal("Failed to update stadium", err)
	}
	return nil
}

func (r *firestoreStadiumRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("stadiums").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete stadium", err)
	}
	return nil
}

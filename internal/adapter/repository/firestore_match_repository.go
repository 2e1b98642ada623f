package repository

import (
	"context"
	"strings"
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

type firestoreMatchRepository struct {
	client *firestore.Client
}

func NewFirestoreMatchRepository(client *firestore.Client) repository.MatchRepository {
	return &firestoreMatchRepository{
		client: client,
	}
}

func (r *firestoreMatchRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection("matches").Doc(id)
}

func (r *firestoreMatchRepository) Create(ctx context.Context, match *entity.Match) error {
	if match.ID == "" {
		match.ID = uuid.New().String()
	}

	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now

	if _, err := r.doc(match.ID).Create(ctx, match); err != nil {
		return errors.Internal("Failed to create match", err)
	}
	return nil
}

func (r *firestoreMatchRepository) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Match", err)
		}
		return nil, errors.Internal("Failed to get match", err)
	}

	var match entity.Match
	if err := doc.DataTo(&match); err != nil {
		return nil, errors.Internal("Failed to parse match data", err)
	}
	return &match, nil
}

func (r *firestoreMatchRepository) ListByChatID(ctx context.Context, chatID string) ([]*entity.Match, error) {
	iter := r.client.Collection("matches").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var matches []*entity.Match
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to fetch matches", err)
		}

		var match entity.Match
		if err := doc.DataTo(&match); err != nil {
			return nil, errors.Internal("Failed to parse match data", err)
		}
		matches = append(matches, &match)
	}
	return matches, nil
}

func (r *firestoreMatchRepository) ExistsByTitle(ctx context.Context, chatID, title, excludeID string) (bool, error) {
	docs, err := r.client.Collection("matches").
		Where("chatId", "==", chatID).
		Select("title").
		Documents(ctx).GetAll()
	if err != nil {
		return false, errors.Internal("Failed to query match titles", err)
	}

	for _, doc := range docs {
		if doc.Ref.ID == excludeID {
			continue
		}
		existing, err := doc.DataAt("title")
		if err != nil {
			continue
		}
		if s, ok := existing.(string); ok && strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(title)) {
			return true, nil
		}
	}
	return false, nil
}

// Mutate reads and writes inside one transaction. Firestore aborts and
// retries fn when the document changed underneath it.
func (r *firestoreMatchRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.Match, error) {
	ref := r.doc(id)

	var updated *entity.Match
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Match", err)
			}
			return err
		}

		var match entity.Match
		if err := doc.DataTo(&match); err != nil {
			return errors.Internal("Failed to parse match data", err)
		}

		if err := fn(&match); err != nil {
			return err
		}

		match.UpdatedAt = time.Now()
		updated = &match
		return tx.Set(ref, &match)
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update match", err)
	}
	return updated, nil
}

func (r *firestoreMatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete match", err)
	}
	return nil
}

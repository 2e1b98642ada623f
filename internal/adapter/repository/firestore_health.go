package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreHealthProbe reads at most one chat document to confirm the
// client can reach Firestore.
func FirestoreHealthProbe(client *firestore.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		iter := client.Collection("chats").Limit(1).Documents(ctx)
		defer iter.Stop()

		if _, err := iter.Next(); err != nil && err != iterator.Done {
			return err
		}
		return nil
	}
}

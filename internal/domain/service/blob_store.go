package service

import "context"

// BlobStore keeps uploaded images. Objects are grouped by collection
// (users, stadiums, chats) and addressed by the URL Put returns.
type BlobStore interface {
	Put(ctx context.Context, collection string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

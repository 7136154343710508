package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Storage stores objects in a single Supabase Storage bucket.
type Storage struct {
	client *Client
	bucket string
}

func NewStorage(client *Client, bucket string) *Storage {
	return &Storage{client: client, bucket: bucket}
}

func (s *Storage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return s.client.do(ctx, request{
		method:  http.MethodPost,
		path:    s.objectPath(key),
		service: true,
		raw:     data,
		headers: map[string]string{
			"Content-Type": contentType,
			"x-upsert":     "true",
		},
	}, nil)
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.client.do(ctx, request{
		method:  http.MethodDelete,
		path:    s.objectPath(key),
		service: true,
	}, nil)
}

func (s *Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.client.baseURL, s.bucket, strings.TrimLeft(key, "/"))
}

func (s *Storage) objectPath(key string) string {
	return fmt.Sprintf("/storage/v1/object/%s/%s", s.bucket, strings.TrimLeft(key, "/"))
}

// Package media stores uploaded images and hands back stable public URLs.
// Booking logic never depends on it.
package media

import (
	"fmt"
	"io"
	"log"

	supa "github.com/supabase-community/supabase-go"
)

type Store interface {
	// Upload stores the image and returns its public URL.
	Upload(name string, data io.Reader) (string, error)
}

// SupabaseStore implements Store on a Supabase storage bucket.
type SupabaseStore struct {
	client *supa.Client
	bucket string
}

func NewSupabaseStore(url, serviceKey, bucket string) *SupabaseStore {
	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}
	return &SupabaseStore{client: client, bucket: bucket}
}

func (s *SupabaseStore) Upload(name string, data io.Reader) (string, error) {
	if _, err := s.client.Storage.UploadFile(s.bucket, name, data); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	resp := s.client.Storage.GetPublicUrl(s.bucket, name)
	return resp.SignedURL, nil
}

package storage

import (
	"context"
	"strings"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ImageResolver turns the opaque image file names stored on an exercise
// (e.g. "Barbell_Bench_Press/0.jpg") into URLs a client can fetch.
type ImageResolver interface {
	ResolveImageURLs(ctx context.Context, images []string) []string
}

// conventionResolver applies the dataset naming convention: base URL + "/" + file name.
type conventionResolver struct {
	baseURL string
}

// NewConventionResolver returns a resolver that joins file names onto baseURL.
func NewConventionResolver(baseURL string) ImageResolver {
	return &conventionResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *conventionResolver) ResolveImageURLs(_ context.Context, images []string) []string {
	if len(images) == 0 {
		return nil
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimLeft(img, "/")
		if img == "" {
			continue
		}
		urls = append(urls, r.baseURL+"/"+img)
	}
	return urls
}

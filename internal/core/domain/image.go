package domain

import "github.com/google/uuid"

// Image is a committed remote image. ID is local to the editing session;
// Batch is the sequence number of the upload batch that produced it
// (zero for images loaded from the persistence API).
type Image struct {
	ID       string
	URL      string
	PublicID string
	Batch    uint64
}

// NewImage builds an image with a fresh local ID.
func NewImage(url, publicID string) Image {
	return Image{ID: newLocalID(), URL: url, PublicID: publicID}
}

func newLocalID() string {
	return uuid.NewString()
}

// mergeImages returns a new slice with the incoming images that are not already
// present (by URL) placed after every image of an earlier or equal batch and
// before images of later batches. Incoming order is preserved. A URL repeated
// within the incoming batch is kept once, so the returned count is the batch
// size minus duplicates against either set.
func mergeImages(existing []Image, batch uint64, incoming []Image) ([]Image, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, img := range existing {
		seen[img.URL] = struct{}{}
	}

	survivors := make([]Image, 0, len(incoming))
	for _, img := range incoming {
		if img.URL == "" {
			continue
		}
		if _, dup := seen[img.URL]; dup {
			continue
		}
		seen[img.URL] = struct{}{}
		if img.ID == "" {
			img.ID = newLocalID()
		}
		img.Batch = batch
		survivors = append(survivors, img)
	}

	at := len(existing)
	for i, img := range existing {
		if img.Batch > batch {
			at = i
			break
		}
	}

	merged := make([]Image, 0, len(existing)+len(survivors))
	merged = append(merged, existing[:at]...)
	merged = append(merged, survivors...)
	merged = append(merged, existing[at:]...)
	return merged, len(survivors)
}

func removeImageAt(images []Image, index int) ([]Image, bool) {
	if index < 0 || index >= len(images) {
		return images, false
	}
	out := make([]Image, 0, len(images)-1)
	out = append(out, images[:index]...)
	out = append(out, images[index+1:]...)
	return out, true
}

func imageURLs(images []Image) []string {
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}
	return urls
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// BatchPolicy decides what happens to a batch in which some uploads failed.
type BatchPolicy string

const (
	// BatchAllOrNothing keeps nothing from a batch with a failed upload.
	BatchAllOrNothing BatchPolicy = "all"
	// BatchSettled keeps the successful uploads and reports the failures.
	BatchSettled BatchPolicy = "settled"
)

func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch p := BatchPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", BatchAllOrNothing:
		return BatchAllOrNothing, nil
	case BatchSettled:
		return BatchSettled, nil
	default:
		return "", fmt.Errorf("unknown upload batch policy %q", s)
	}
}

// FileFailure is one failed upload inside a batch.
type FileFailure struct {
	Position int
	Name     string
	Err      error
}

// UploadBatchError lists the failed uploads of a batch. It matches domain.ErrUploadFailed.
type UploadBatchError struct {
	Total    int
	Failures []FileFailure
}

func (e *UploadBatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return fmt.Sprintf("%d of %d uploads failed: %s", len(e.Failures), e.Total, strings.Join(names, ", "))
}

func (e *UploadBatchError) Unwrap() error { return domain.ErrUploadFailed }

// ImageBatchUploader sends the files of one batch to the upload gateway concurrently.
type ImageBatchUploader struct {
	gateway     port.UploadGatewayPort
	policy      BatchPolicy
	parallelism int
}

func NewImageBatchUploader(gateway port.UploadGatewayPort, policy BatchPolicy, parallelism int) *ImageBatchUploader {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &ImageBatchUploader{gateway: gateway, policy: policy, parallelism: parallelism}
}

func (u *ImageBatchUploader) Policy() BatchPolicy { return u.policy }

// Upload returns the committed images in selection order. Under BatchAllOrNothing
// any failure returns no images; under BatchSettled the successes are returned
// together with an *UploadBatchError.
func (u *ImageBatchUploader) Upload(ctx context.Context, folder string, files []port.MediaFile) ([]domain.Image, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	images := make([]domain.Image, len(files))
	errs := make([]error, len(files))

	var g *errgroup.Group
	uploadCtx := ctx
	if u.policy == BatchSettled {
		g = &errgroup.Group{}
	} else {
		g, uploadCtx = errgroup.WithContext(ctx)
	}
	g.SetLimit(u.parallelism)

	for i, file := range files {
		g.Go(func() error {
			img, err := u.gateway.Upload(uploadCtx, folder, file)
			if err != nil {
				errs[i] = err
				if u.policy == BatchSettled {
					return nil
				}
				return err
			}
			images[i] = img
			return nil
		})
	}
	groupErr := g.Wait()

	batchErr := &UploadBatchError{Total: len(files)}
	kept := make([]domain.Image, 0, len(files))
	for i, err := range errs {
		if err != nil {
			batchErr.Failures = append(batchErr.Failures, FileFailure{Position: i, Name: files[i].Name, Err: err})
			continue
		}
		if images[i].URL != "" {
			kept = append(kept, images[i])
		}
	}

	if groupErr != nil || len(batchErr.Failures) > 0 {
		if u.policy == BatchSettled {
			return kept, batchErr
		}
		return nil, batchErr
	}
	return kept, nil
}

// uploadFolder derives the media folder of an entity, e.g. "Palm Villas/property-2".
// Drafts without a title yet fall back to the kind's segment.
func uploadFolder(kind domain.EntityKind, title string, sub string) string {
	base := strings.TrimSpace(strings.ReplaceAll(title, "/", "-"))
	if base == "" {
		base = kind.Segment()
	}
	if sub == "" {
		return base
	}
	return base + "/" + sub
}

func propertyFolder(kind domain.EntityKind, title string, index int) string {
	return uploadFolder(kind, title, fmt.Sprintf("property-%d", index))
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
)

func TestParseBatchPolicy(t *testing.T) {
	p, err := ParseBatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, BatchAllOrNothing, p)

	p, err = ParseBatchPolicy("Settled")
	require.NoError(t, err)
	assert.Equal(t, BatchSettled, p)

	_, err = ParseBatchPolicy("some")
	assert.Error(t, err)
}

func TestImageBatchUploaderKeepsSelectionOrder(t *testing.T) {
	gw := newFakeGateway()
	release := gw.hold("a.jpg")
	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	u := NewImageBatchUploader(gw, BatchAllOrNothing, 4)
	images, err := u.Upload(context.Background(), "Villa", files("a.jpg", "b.jpg", "c.jpg"))
	require.NoError(t, err)

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}
	assert.Equal(t, []string{
		"https://cdn.test/Villa/a.jpg",
		"https://cdn.test/Villa/b.jpg",
		"https://cdn.test/Villa/c.jpg",
	}, urls)
}

func TestImageBatchUploaderAllOrNothing(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["b.jpg"] = errHostDown

	u := NewImageBatchUploader(gw, BatchAllOrNothing, 1)
	images, err := u.Upload(context.Background(), "Villa", files("a.jpg", "b.jpg", "c.jpg"))

	assert.Empty(t, images)
	require.ErrorIs(t, err, domain.ErrUploadFailed)
	var batchErr *UploadBatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 3, batchErr.Total)
	assert.Equal(t, "b.jpg", batchErr.Failures[0].Name)
}

func TestImageBatchUploaderSettled(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["b.jpg"] = errHostDown

	u := NewImageBatchUploader(gw, BatchSettled, 4)
	images, err := u.Upload(context.Background(), "Villa", files("a.jpg", "b.jpg", "c.jpg"))

	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn.test/Villa/a.jpg", images[0].URL)
	assert.Equal(t, "https://cdn.test/Villa/c.jpg", images[1].URL)

	var batchErr *UploadBatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, 1, batchErr.Failures[0].Position)
	assert.ErrorIs(t, batchErr.Failures[0].Err, errHostDown)
}

func TestImageBatchUploaderNoFiles(t *testing.T) {
	u := NewImageBatchUploader(newFakeGateway(), BatchAllOrNothing, 0)
	_, err := u.Upload(context.Background(), "x", nil)
	assert.ErrorIs(t, err, domain.ErrNoFiles)
}

func TestUploadFolder(t *testing.T) {
	assert.Equal(t, "Palm Villas/property-2", propertyFolder(domain.KindAuction, " Palm Villas ", 2))
	assert.Equal(t, "auctions/gallery", uploadFolder(domain.KindAuction, "", "gallery"))
	assert.Equal(t, "A-B", uploadFolder(domain.KindOffer, "A/B", ""))
}

package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsFor(t *testing.T) {
	assert.Equal(t, []Step{StepBasicInfo, StepImages, StepProperties, StepReview}, StepsFor(KindAuction))
	assert.Equal(t, []Step{StepBasicInfo, StepImages, StepReview}, StepsFor(KindOffer))
	assert.Equal(t, []Step{StepBasicInfo, StepImages, StepReview}, StepsFor(KindTeamMember))
}

func TestStepSequencerWalk(t *testing.T) {
	s := NewStepSequencer(KindAuction)
	require.Equal(t, StepBasicInfo, s.Current())
	require.True(t, s.IsFirst())

	s = s.Next()
	assert.Equal(t, StepImages, s.Current())
	s = s.Next().Next()
	assert.Equal(t, StepReview, s.Current())
	assert.True(t, s.IsReview())

	// forward from review stays on review: submission is not a state
	s = s.Next()
	assert.Equal(t, StepReview, s.Current())

	s = s.Prev()
	assert.Equal(t, StepProperties, s.Current())
}

func TestStepSequencerIsAValue(t *testing.T) {
	s := NewStepSequencer(KindOffer)
	moved := s.Next()
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 1, moved.Index())
}

func TestStepSequencerRandomWalkStaysInRangeAndKeepsDraft(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, kind := range AllKinds() {
		session := NewCreateSession(kind)
		session.Draft = session.Draft.SetField("title", "Villa auction").SetField("featured", true)
		if kind.HasProperties() {
			session.Draft, _ = session.Draft.AddProperty()
		}
		before := session.Draft
		last := len(StepsFor(kind)) - 1

		for i := 0; i < 500; i++ {
			if rng.Intn(2) == 0 {
				session.Advance()
			} else {
				session.Retreat()
			}
			require.GreaterOrEqual(t, session.StepIndex, 0)
			require.LessOrEqual(t, session.StepIndex, last)
		}

		assert.Equal(t, before, session.Draft, "kind %s", kind)
	}
}

func TestRestoreStepSequencerClamps(t *testing.T) {
	assert.Equal(t, 0, RestoreStepSequencer(KindAuction, -3).Index())
	assert.Equal(t, 3, RestoreStepSequencer(KindAuction, 99).Index())
	assert.Equal(t, 2, RestoreStepSequencer(KindOffer, 3).Index())
}

func TestStepSections(t *testing.T) {
	assert.Equal(t, []Section{SectionFields}, StepBasicInfo.Sections())
	assert.Equal(t, []Section{SectionMainImage, SectionGallery}, StepImages.Sections())
	assert.Equal(t, []Section{SectionProperties}, StepProperties.Sections())
	assert.Len(t, StepReview.Sections(), 4)
}

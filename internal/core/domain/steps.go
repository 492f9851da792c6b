package domain

// Step is one page of the editing wizard.
type Step string

const (
	StepBasicInfo  Step = "basic_info"
	StepImages     Step = "images"
	StepProperties Step = "properties"
	StepReview     Step = "review"
)

// Section is a part of the draft a step renders.
type Section string

const (
	SectionFields     Section = "fields"
	SectionMainImage  Section = "main_image"
	SectionGallery    Section = "gallery"
	SectionProperties Section = "properties"
)

// Sections lists what the step shows. Review shows everything read-only.
func (s Step) Sections() []Section {
	switch s {
	case StepBasicInfo:
		return []Section{SectionFields}
	case StepImages:
		return []Section{SectionMainImage, SectionGallery}
	case StepProperties:
		return []Section{SectionProperties}
	case StepReview:
		return []Section{SectionFields, SectionMainImage, SectionGallery, SectionProperties}
	}
	return nil
}

// StepsFor returns the wizard pages of a kind. Only kinds with a property
// sub-list get the Properties page.
func StepsFor(kind EntityKind) []Step {
	if kind.HasProperties() {
		return []Step{StepBasicInfo, StepImages, StepProperties, StepReview}
	}
	return []Step{StepBasicInfo, StepImages, StepReview}
}

// StepSequencer is a linear state machine over the wizard pages. It only holds
// a position; all pages share the same draft, so moving never discards data.
// Next and Prev are not gated on field completeness.
type StepSequencer struct {
	steps []Step
	index int
}

func NewStepSequencer(kind EntityKind) StepSequencer {
	return StepSequencer{steps: StepsFor(kind)}
}

// RestoreStepSequencer rebuilds a sequencer at a saved position, clamped to the valid range.
func RestoreStepSequencer(kind EntityKind, index int) StepSequencer {
	s := NewStepSequencer(kind)
	s.index = s.clamp(index)
	return s
}

func (s StepSequencer) Next() StepSequencer {
	s.index = s.clamp(s.index + 1)
	return s
}

func (s StepSequencer) Prev() StepSequencer {
	s.index = s.clamp(s.index - 1)
	return s
}

func (s StepSequencer) Index() int    { return s.index }
func (s StepSequencer) Current() Step { return s.steps[s.index] }
func (s StepSequencer) Last() int     { return len(s.steps) - 1 }
func (s StepSequencer) IsFirst() bool { return s.index == 0 }

// IsReview reports the terminal page; the only way forward from it is submission.
func (s StepSequencer) IsReview() bool { return s.index == s.Last() }

func (s StepSequencer) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

func (s StepSequencer) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(s.steps) - 1; i > last {
		return last
	}
	return i
}

// StepDirection is a navigation request from the wizard.
type StepDirection string

const (
	StepForward StepDirection = "next"
	StepBack    StepDirection = "prev"
)

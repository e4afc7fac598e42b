package sidebar

import "image"

const (
	MarginRoot   = 16
	MarginNested = 32
)

// Transition is applied by the host when an icon image is set.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionFadeIn
)

// View is a bound row view. Views are recycled by the host across rows of
// the same type.
type View struct {
	Type    RowType
	Content Label
	Icon    *ImageSlot
}

type Label struct {
	Text string
}

// ImageSlot holds the icon of a subscription view. It must only be touched
// from the UI goroutine. Every new binding bumps the generation so results
// addressed to an older binding can be recognised and dropped.
type ImageSlot struct {
	img        image.Image
	visible    bool
	margin     int
	transition Transition
	generation uint64
}

// Begin starts a new binding of the slot and returns its generation.
func (s *ImageSlot) Begin() uint64 {
	s.generation++
	return s.generation
}

func (s *ImageSlot) Generation() uint64 { return s.generation }

// Set shows img immediately, for the current binding.
func (s *ImageSlot) Set(img image.Image, t Transition) {
	s.img = img
	s.visible = img != nil
	s.transition = t
}

// Apply sets img only if generation is still the current binding.
func (s *ImageSlot) Apply(generation uint64, img image.Image, t Transition) bool {
	if generation != s.generation {
		return false
	}
	s.Set(img, t)
	return true
}

// Clear hides the icon and invalidates any pending result.
func (s *ImageSlot) Clear() {
	s.generation++
	s.img = nil
	s.visible = false
	s.transition = TransitionNone
}

func (s *ImageSlot) Image() image.Image { return s.img }
func (s *ImageSlot) Visible() bool { return s.visible }
func (s *ImageSlot) LeadingMargin() int { return s.margin }
func (s *ImageSlot) SetLeadingMargin(m int) { s.margin = m }
func (s *ImageSlot) Transition() Transition { return s.transition }

// Template creates a fresh, unbound view.
type Template func() *View

// Templates maps every row type to the template used when no recycled view
// is available.
var Templates = map[RowType]Template{
	RowHeader: func() *View {
		return &View{Type: RowHeader}
	},
	RowCategory: func() *View {
		return &View{Type: RowCategory}
	},
	RowSubscription: func() *View {
		return &View{Type: RowSubscription, Icon: &ImageSlot{}}
	},
}

// IconRequest describes one favicon fetch.
type IconRequest struct {
	Path        string
	Token       string
	Placeholder image.Image
	Fallback    image.Image
	Transition  Transition
}

// IconLoader resolves icons asynchronously. Load must return without
// blocking; the result is delivered to slot on the UI goroutine and dropped
// if slot has been rebound in the meantime.
type IconLoader interface {
	Load(slot *ImageSlot, req IconRequest)
}

// TokenSource returns the current session token, if any.
type TokenSource interface {
	Token() (string, bool)
}

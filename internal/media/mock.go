// internal/media/mock.go
package media

// MockVideo is a test double for VideoElement.
type MockVideo struct {
	Playing   bool
	Muted     bool
	AtStart   bool
	playErr   error
	playCalls int
}

// NewMockVideo returns a muted, paused video at its start position.
func NewMockVideo() *MockVideo {
	return &MockVideo{Muted: true, AtStart: true}
}

func (v *MockVideo) Play() error {
	v.playCalls++
	if v.playErr != nil {
		return v.playErr
	}
	v.Playing = true
	v.AtStart = false
	return nil
}

func (v *MockVideo) Pause() { v.Playing = false }

func (v *MockVideo) Rewind() { v.AtStart = true }

func (v *MockVideo) SetMuted(muted bool) { v.Muted = muted }

// Test helpers

func (v *MockVideo) SetPlayError(err error) { v.playErr = err }

func (v *MockVideo) PlayCalls() int { return v.playCalls }

// MockFrame is a test double for FrameElement.
type MockFrame struct {
	src     string
	history []string
}

// NewMockFrame returns a frame showing src.
func NewMockFrame(src string) *MockFrame {
	return &MockFrame{src: src}
}

func (f *MockFrame) Source() string { return f.src }

func (f *MockFrame) SetSource(src string) {
	f.src = src
	f.history = append(f.history, src)
}

// Writes returns every source written since creation.
func (f *MockFrame) Writes() []string { return f.history }

// Mock is a test double for Surface. Missing elements are reported as not
// attached.
type Mock struct {
	Videos map[int]*MockVideo
	Frames map[int]*MockFrame
}

// NewMock creates an empty mock surface.
func NewMock() *Mock {
	return &Mock{
		Videos: make(map[int]*MockVideo),
		Frames: make(map[int]*MockFrame),
	}
}

func (m *Mock) Video(index int) VideoElement {
	if v, ok := m.Videos[index]; ok {
		return v
	}
	return nil
}

func (m *Mock) Frame(index int) FrameElement {
	if f, ok := m.Frames[index]; ok {
		return f
	}
	return nil
}

// Verify mocks implement their interfaces at compile time.
var (
	_ Surface      = (*Mock)(nil)
	_ VideoElement = (*MockVideo)(nil)
	_ FrameElement = (*MockFrame)(nil)
)

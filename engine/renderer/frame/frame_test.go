package frame

import (
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
)

type fakeFence struct {
	t         *testing.T
	id        int
	log       *[]string
	signaled  bool
	pending   bool
	destroyed bool
	waitErr   error
}

func (f *fakeFence) Wait(timeout time.Duration) error {
	*f.log = append(*f.log, fmt.Sprintf("wait f%d", f.id))
	if f.waitErr != nil {
		return f.waitErr
	}
	// GPU work completes as soon as someone waits for it.
	f.pending = false
	f.signaled = true
	return nil
}

func (f *fakeFence) Reset() error {
	if f.pending {
		f.t.Errorf("fence f%d reset while its submission is still executing", f.id)
	}
	if !f.signaled {
		f.t.Errorf("fence f%d reset without being waited on", f.id)
	}
	f.signaled = false
	return nil
}

func (f *fakeFence) Destroy() { f.destroyed = true }

type fakeSemaphore struct {
	id        int
	signaled  bool
	destroyed bool
}

func (s *fakeSemaphore) Destroy() { s.destroyed = true }

type fakeBackend struct {
	t          *testing.T
	log        []string
	imageCount uint32
	// images returned by AcquireNextImage, in order; round robin when empty
	acquireSeq []uint32
	nextImage  uint32

	fences     []*fakeFence
	semaphores []*fakeSemaphore

	acquireErr    error
	submitErr     error
	presentErr    error
	recreateErr   error
	semaphoreErr  error
	recreateCount int
	waitIdleCount int
	submitted     []uint32
	skipped       []uint32

	// images acquired and not presented yet
	acquired map[uint32]bool
}

func newFakeBackend(t *testing.T, imageCount uint32) *fakeBackend {
	return &fakeBackend{t: t, imageCount: imageCount, acquired: make(map[uint32]bool)}
}

// signal and consume follow binary semaphore rules: a signal must be
// consumed by exactly one wait before the semaphore is signaled again.
func (b *fakeBackend) signal(s Semaphore, op string) {
	fs := s.(*fakeSemaphore)
	if fs.signaled {
		b.t.Errorf("%s signals semaphore s%d that still holds a signal", op, fs.id)
	}
	fs.signaled = true
}

func (b *fakeBackend) consume(s Semaphore, op string) {
	fs := s.(*fakeSemaphore)
	if !fs.signaled {
		b.t.Errorf("%s waits on semaphore s%d that is never signaled", op, fs.id)
	}
	fs.signaled = false
}

func (b *fakeBackend) CreateFence(signaled bool) (Fence, error) {
	f := &fakeFence{t: b.t, id: len(b.fences), log: &b.log, signaled: signaled}
	b.fences = append(b.fences, f)
	return f, nil
}

func (b *fakeBackend) CreateSemaphore() (Semaphore, error) {
	if b.semaphoreErr != nil && len(b.semaphores) == 2 {
		return nil, b.semaphoreErr
	}
	s := &fakeSemaphore{id: len(b.semaphores)}
	b.semaphores = append(b.semaphores, s)
	return s, nil
}

func (b *fakeBackend) ImageCount() uint32 { return b.imageCount }

func (b *fakeBackend) AcquireNextImage(available Semaphore) (uint32, error) {
	if err := b.acquireErr; err != nil {
		b.acquireErr = nil
		return 0, err
	}
	var image uint32
	if len(b.acquireSeq) > 0 {
		image, b.acquireSeq = b.acquireSeq[0], b.acquireSeq[1:]
	} else {
		image = b.nextImage
		b.nextImage = (b.nextImage + 1) % b.imageCount
	}
	if b.acquired[image] {
		b.t.Errorf("image %d acquired twice without a present", image)
	}
	b.signal(available, "acquire")
	b.acquired[image] = true
	b.log = append(b.log, fmt.Sprintf("acquire %d", image))
	return image, nil
}

func (b *fakeBackend) Submit(image uint32, wait, signal Semaphore, fence Fence) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	f := fence.(*fakeFence)
	if f.signaled {
		b.t.Errorf("submit with fence f%d still signaled", f.id)
	}
	b.consume(wait, "submit")
	b.signal(signal, "submit")
	f.pending = true
	b.submitted = append(b.submitted, image)
	b.log = append(b.log, fmt.Sprintf("submit %d f%d", image, f.id))
	return nil
}

func (b *fakeBackend) Skip(image uint32, wait, signal Semaphore, fence Fence) error {
	f := fence.(*fakeFence)
	if f.signaled {
		b.t.Errorf("skip with fence f%d still signaled", f.id)
	}
	b.consume(wait, "skip")
	b.signal(signal, "skip")
	f.pending = true
	b.skipped = append(b.skipped, image)
	b.log = append(b.log, fmt.Sprintf("skip %d f%d", image, f.id))
	return nil
}

func (b *fakeBackend) Present(image uint32, wait Semaphore) error {
	if !b.acquired[image] {
		b.t.Errorf("present of image %d that is not acquired", image)
	}
	// the present engine waits and releases the image even when it reports
	// an out of date swapchain
	b.consume(wait, "present")
	delete(b.acquired, image)
	if err := b.presentErr; err != nil {
		b.presentErr = nil
		return err
	}
	b.log = append(b.log, fmt.Sprintf("present %d", image))
	return nil
}

func (b *fakeBackend) Recreate() error {
	b.recreateCount++
	b.log = append(b.log, "recreate")
	return b.recreateErr
}

func (b *fakeBackend) WaitIdle() error {
	b.waitIdleCount++
	return nil
}

func setupLoop(t *testing.T, b *fakeBackend, framesInFlight uint32) *FrameLoop {
	t.Helper()
	l := NewFrameLoop(b, Options{FramesInFlight: framesInFlight})
	if err := l.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return l
}

func noRecord(slot, image uint32) error { return nil }

func TestFrameLoopCyclesSlots(t *testing.T) {
	for _, images := range []uint32{2, 3, 4} {
		t.Run(fmt.Sprintf("%d images", images), func(t *testing.T) {
			b := newFakeBackend(t, images)
			l := setupLoop(t, b, MaxFramesInFlight)

			for n := uint32(0); n < 10; n++ {
				if got, want := l.CurrentFrame(), n%MaxFramesInFlight; got != want {
					t.Fatalf("frame %d runs in slot %d, want %d", n, got, want)
				}
				var recorded uint32
				presented, err := l.Frame(func(slot, image uint32) error {
					recorded = slot
					return nil
				})
				if err != nil || !presented {
					t.Fatalf("frame %d: presented %v err %v", n, presented, err)
				}
				if recorded != n%MaxFramesInFlight {
					t.Fatalf("frame %d recorded in slot %d", n, recorded)
				}
			}
			if l.FrameNumber() != 10 || len(b.submitted) != 10 {
				t.Errorf("frame number %d, %d submissions", l.FrameNumber(), len(b.submitted))
			}
		})
	}
}

func TestFrameLoopWaitsSlotBeforeReuse(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	for n := 0; n < 4; n++ {
		if _, err := l.Frame(noRecord); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"wait f0", "acquire 0", "submit 0 f0", "present 0",
		"wait f1", "acquire 1", "submit 1 f1", "present 1",
		"wait f0", "acquire 0", "submit 0 f0", "present 0",
		"wait f1", "acquire 1", "submit 1 f1", "present 1",
	}
	if fmt.Sprint(b.log) != fmt.Sprint(want) {
		t.Errorf("log = %v\nwant  %v", b.log, want)
	}
}

func TestFrameLoopWaitsImageInFlight(t *testing.T) {
	b := newFakeBackend(t, 3)
	// slot 0 gets image 1, which slot 1 rendered last
	b.acquireSeq = []uint32{0, 1, 1}
	l := setupLoop(t, b, 2)
	for n := 0; n < 3; n++ {
		if _, err := l.Frame(noRecord); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"wait f0", "acquire 0", "submit 0 f0", "present 0",
		"wait f1", "acquire 1", "submit 1 f1", "present 1",
		"wait f0", "acquire 1", "wait f1", "submit 1 f0", "present 1",
	}
	if fmt.Sprint(b.log) != fmt.Sprint(want) {
		t.Errorf("log = %v\nwant  %v", b.log, want)
	}
}

func TestFrameLoopOutOfDateOnAcquire(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	b.acquireErr = errors.Wrap(core.ErrSwapchainOutOfDate, "acquire")

	presented, err := l.Frame(func(slot, image uint32) error {
		t.Error("a dropped frame must not be recorded")
		return nil
	})
	if err != nil || presented {
		t.Fatalf("presented %v err %v", presented, err)
	}
	if b.recreateCount != 1 || len(b.submitted) != 0 {
		t.Errorf("recreated %d times, %d submissions", b.recreateCount, len(b.submitted))
	}
	if l.CurrentFrame() != 0 {
		t.Errorf("slot advanced to %d on a dropped frame", l.CurrentFrame())
	}
	// the slot fence was not reset, the retry must not deadlock
	if _, err := l.Frame(noRecord); err != nil {
		t.Fatal(err)
	}
}

func TestFrameLoopOutOfDateOnPresent(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	b.presentErr = errors.Wrap(core.ErrSwapchainOutOfDate, "suboptimal")

	presented, err := l.Frame(noRecord)
	if err != nil || presented {
		t.Fatalf("presented %v err %v", presented, err)
	}
	if b.recreateCount != 1 || len(b.submitted) != 1 {
		t.Errorf("recreated %d times, %d submissions", b.recreateCount, len(b.submitted))
	}
	if l.CurrentFrame() != 1 {
		t.Errorf("slot = %d, the submitted frame must advance the ring", l.CurrentFrame())
	}
}

func TestFrameLoopRecreateBooting(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	b.acquireErr = core.ErrSwapchainOutOfDate
	b.recreateErr = errors.Wrap(core.ErrSwapchainBooting, "window minimized")
	if _, err := l.Frame(noRecord); err != nil {
		t.Errorf("deferred recreation is not an error: %v", err)
	}

	b.acquireErr = core.ErrSwapchainOutOfDate
	b.recreateErr = errors.New("out of device memory")
	if _, err := l.Frame(noRecord); !errors.Is(err, core.ErrDeviceFailure) {
		t.Errorf("failed recreation err = %v, want ErrDeviceFailure", err)
	}
}

func TestFrameLoopFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *fakeBackend)
	}{
		{"acquire", func(b *fakeBackend) { b.acquireErr = errors.New("surface lost") }},
		{"submit", func(b *fakeBackend) { b.submitErr = errors.New("device lost") }},
		{"present", func(b *fakeBackend) { b.presentErr = errors.New("device lost") }},
		{"fence", func(b *fakeBackend) { b.fences[0].waitErr = errors.New("device lost") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(t, 2)
			l := setupLoop(t, b, 2)
			tt.setup(b)
			if _, err := l.Frame(noRecord); !errors.Is(err, core.ErrDeviceFailure) {
				t.Errorf("err = %v, want ErrDeviceFailure", err)
			}
		})
	}
}

func TestFrameLoopFenceTimeout(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := NewFrameLoop(b, Options{FramesInFlight: 2, FenceTimeout: time.Millisecond})
	if err := l.Setup(); err != nil {
		t.Fatal(err)
	}
	b.fences[0].waitErr = errors.Wrap(core.ErrFenceTimeout, "1ms")

	_, err := l.Frame(noRecord)
	if !errors.Is(err, core.ErrFenceTimeout) || errors.Is(err, core.ErrDeviceFailure) {
		t.Errorf("err = %v, want a fence timeout only", err)
	}
	if l.CurrentFrame() != 0 || len(b.submitted) != 0 {
		t.Error("a timed out frame must not submit")
	}
}

func TestFrameLoopRecordError(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	recordErr := errors.New("pipeline missing")
	if _, err := l.Frame(func(slot, image uint32) error { return recordErr }); !errors.Is(err, recordErr) {
		t.Errorf("err = %v", err)
	}
	if len(b.submitted) != 0 {
		t.Error("a frame that failed recording must not submit its commands")
	}
	if len(b.skipped) != 1 || len(b.acquired) != 0 {
		t.Errorf("skipped %v, images still acquired %v", b.skipped, b.acquired)
	}
	if l.CurrentFrame() != 1 {
		t.Errorf("slot = %d, a skipped frame must advance the ring", l.CurrentFrame())
	}
	// slot 0 is reused with a consumed semaphore
	for n := 0; n < 3; n++ {
		if _, err := l.Frame(noRecord); err != nil {
			t.Fatal(err)
		}
	}
	if len(b.acquired) != 0 {
		t.Errorf("images still acquired %v", b.acquired)
	}
}

func TestFrameLoopImageInFlightTimeout(t *testing.T) {
	b := newFakeBackend(t, 3)
	// slot 0 gets image 1 on the third frame, still owned by slot 1
	b.acquireSeq = []uint32{0, 1, 1, 2, 0}
	l := NewFrameLoop(b, Options{FramesInFlight: 2, FenceTimeout: time.Millisecond})
	if err := l.Setup(); err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 2; n++ {
		if _, err := l.Frame(noRecord); err != nil {
			t.Fatal(err)
		}
	}

	b.fences[1].waitErr = errors.Wrap(core.ErrFenceTimeout, "1ms")
	presented, err := l.Frame(func(slot, image uint32) error {
		t.Error("a frame waiting on a busy image must not be recorded")
		return nil
	})
	if presented || !errors.Is(err, core.ErrFenceTimeout) || errors.Is(err, core.ErrDeviceFailure) {
		t.Fatalf("presented %v err %v, want a fence timeout only", presented, err)
	}
	b.fences[1].waitErr = nil

	for n := 0; n < 2; n++ {
		if _, err := l.Frame(noRecord); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"wait f0", "acquire 0", "submit 0 f0", "present 0",
		"wait f1", "acquire 1", "submit 1 f1", "present 1",
		"wait f0", "acquire 1", "wait f1", "skip 1 f0", "present 1",
		"wait f1", "acquire 2", "submit 2 f1", "present 2",
		"wait f0", "acquire 0", "submit 0 f0", "present 0",
	}
	if fmt.Sprint(b.log) != fmt.Sprint(want) {
		t.Errorf("log = %v\nwant  %v", b.log, want)
	}
	if len(b.acquired) != 0 {
		t.Errorf("images still acquired %v", b.acquired)
	}
}

func TestFrameLoopSetupAndShutdown(t *testing.T) {
	b := newFakeBackend(t, 3)
	l := setupLoop(t, b, 2)
	if len(b.fences) != 2 || len(b.semaphores) != 4 {
		t.Fatalf("%d fences %d semaphores", len(b.fences), len(b.semaphores))
	}
	for _, f := range b.fences {
		if !f.signaled {
			t.Errorf("fence f%d created unsignaled", f.id)
		}
	}
	l.Shutdown()
	l.Shutdown()
	if b.waitIdleCount != 1 {
		t.Errorf("WaitIdle called %d times", b.waitIdleCount)
	}
	for _, f := range b.fences {
		if !f.destroyed {
			t.Errorf("fence f%d leaked", f.id)
		}
	}
	for _, s := range b.semaphores {
		if !s.destroyed {
			t.Errorf("semaphore s%d leaked", s.id)
		}
	}
}

func TestFrameLoopSetupFailureCleansUp(t *testing.T) {
	b := newFakeBackend(t, 2)
	b.semaphoreErr = errors.New("out of memory")
	l := NewFrameLoop(b, DefaultOptions())
	if err := l.Setup(); err == nil {
		t.Fatal("Setup succeeded")
	}
	for _, f := range b.fences {
		if !f.destroyed {
			t.Errorf("fence f%d leaked", f.id)
		}
	}
	for _, s := range b.semaphores {
		if !s.destroyed {
			t.Errorf("semaphore s%d leaked", s.id)
		}
	}
}

func TestFrameLoopClampsFramesInFlight(t *testing.T) {
	b := newFakeBackend(t, 2)
	if n := NewFrameLoop(b, Options{}).FramesInFlight(); n != MaxFramesInFlight {
		t.Errorf("zero frames in flight defaulted to %d", n)
	}
	if n := NewFrameLoop(b, Options{FramesInFlight: 9}).FramesInFlight(); n != core.MaxFramesInFlight {
		t.Errorf("frames in flight clamped to %d", n)
	}
}

func TestFrameBeforeSetupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Frame before Setup did not panic")
		}
	}()
	NewFrameLoop(newFakeBackend(t, 2), DefaultOptions()).Frame(noRecord)
}

func TestFrameLoopExplicitRecreateResizesImageTracking(t *testing.T) {
	b := newFakeBackend(t, 2)
	l := setupLoop(t, b, 2)
	if _, err := l.Frame(noRecord); err != nil {
		t.Fatal(err)
	}

	b.imageCount = 4
	if err := l.Recreate(); err != nil {
		t.Fatal(err)
	}
	if b.recreateCount != 1 {
		t.Fatalf("recreated %d times", b.recreateCount)
	}
	// an image index past the old swapchain size must be accepted
	b.acquireSeq = []uint32{3}
	if presented, err := l.Frame(noRecord); err != nil || !presented {
		t.Fatalf("presented %v err %v", presented, err)
	}
}

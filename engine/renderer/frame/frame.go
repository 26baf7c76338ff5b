package frame

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/prism/engine/core"
	"github.com/spaghettifunk/prism/engine/renderer/metadata"
)

// MaxFramesInFlight is the number of frames recorded ahead of the GPU when
// nothing else is configured.
const MaxFramesInFlight uint32 = core.DefaultFramesInFlight

// Fence is a GPU to CPU completion signal.
type Fence interface {
	// Wait blocks until the fence is signaled. A zero timeout waits forever.
	// A timeout is reported as core.ErrFenceTimeout.
	Wait(timeout time.Duration) error
	Reset() error
	Destroy()
}

// Semaphore orders queue operations on the GPU. The CPU never waits on it.
type Semaphore interface {
	Destroy()
}

// Backend is the device side of the frame loop: a swapchain, a queue and
// one recorded command buffer per swapchain image.
type Backend interface {
	CreateFence(signaled bool) (Fence, error)
	CreateSemaphore() (Semaphore, error)
	ImageCount() uint32
	// AcquireNextImage returns the index of the next presentable image and
	// signals available once it can be rendered to. An unusable swapchain is
	// reported as core.ErrSwapchainOutOfDate.
	AcquireNextImage(available Semaphore) (uint32, error)
	// Submit executes the commands recorded for image once wait is signaled,
	// then signals both signal and fence.
	Submit(image uint32, wait, signal Semaphore, fence Fence) error
	// Skip submits commands that only clear image and leave it ready for
	// present, with the same semaphore and fence contract as Submit. It hands
	// an acquired image back when its frame cannot be recorded.
	Skip(image uint32, wait, signal Semaphore, fence Fence) error
	// Present queues image once wait is signaled. Out of date and suboptimal
	// swapchains are reported as core.ErrSwapchainOutOfDate.
	Present(image uint32, wait Semaphore) error
	// Recreate rebuilds the swapchain and everything sized after it. It
	// returns core.ErrSwapchainBooting when it cannot happen yet.
	Recreate() error
	WaitIdle() error
}

// RecordFunc records the commands of one frame into the command buffer of image.
type RecordFunc func(slot, image uint32) error

type Options struct {
	FramesInFlight uint32
	// FenceTimeout bounds every fence wait. Zero waits forever.
	FenceTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{FramesInFlight: MaxFramesInFlight}
}

/**
 * @brief Drives acquire, submit and present over a ring of frame slots.
 * Every slot owns a fence and two semaphores. A slot is only reused once its
 * fence reports the previous submission complete, and a swapchain image is
 * only reused once the slot that last rendered it is done. Not safe for
 * concurrent use.
 */
type FrameLoop struct {
	backend        Backend
	framesInFlight uint32
	fenceTimeout   time.Duration

	inFlightFences      []Fence
	availableSemaphores []Semaphore
	finishedSemaphores  []Semaphore
	// slot that last submitted work for each swapchain image
	imagesInFlight []metadata.Optional[uint32]

	currentFrame uint32
	frameNumber  uint64
	ready        bool

	clock   *core.Clock
	metrics *core.Metrics
}

func NewFrameLoop(backend Backend, opts Options) *FrameLoop {
	if opts.FramesInFlight == 0 {
		core.LogWarn("FrameLoop: frames in flight must be at least 1. Defaulting to %d.", MaxFramesInFlight)
		opts.FramesInFlight = MaxFramesInFlight
	}
	if opts.FramesInFlight > core.MaxFramesInFlight {
		core.LogWarn("FrameLoop: %d frames in flight is too many. Clamping to %d.", opts.FramesInFlight, core.MaxFramesInFlight)
		opts.FramesInFlight = core.MaxFramesInFlight
	}
	return &FrameLoop{
		backend:        backend,
		framesInFlight: opts.FramesInFlight,
		fenceTimeout:   opts.FenceTimeout,
		clock:          core.NewClock(),
		metrics:        core.NewMetrics(),
	}
}

// Setup creates the synchronization objects of every slot. Fences start
// signaled so the first wait of each slot returns immediately.
func (l *FrameLoop) Setup() error {
	if l.ready {
		return nil
	}
	for i := uint32(0); i < l.framesInFlight; i++ {
		fence, err := l.backend.CreateFence(true)
		if err != nil {
			l.destroy()
			return errors.Wrapf(err, "creating in-flight fence %d", i)
		}
		l.inFlightFences = append(l.inFlightFences, fence)

		available, err := l.backend.CreateSemaphore()
		if err != nil {
			l.destroy()
			return errors.Wrapf(err, "creating image available semaphore %d", i)
		}
		l.availableSemaphores = append(l.availableSemaphores, available)

		finished, err := l.backend.CreateSemaphore()
		if err != nil {
			l.destroy()
			return errors.Wrapf(err, "creating render finished semaphore %d", i)
		}
		l.finishedSemaphores = append(l.finishedSemaphores, finished)
	}
	l.imagesInFlight = make([]metadata.Optional[uint32], l.backend.ImageCount())
	l.currentFrame = 0
	l.ready = true
	l.clock.Start()

	core.LogDebug("Frame loop ready: %d frames in flight, %d swapchain images.", l.framesInFlight, len(l.imagesInFlight))
	return nil
}

// Shutdown waits for the device to go idle and destroys the synchronization
// objects. Calling it twice is harmless.
func (l *FrameLoop) Shutdown() {
	if !l.ready {
		return
	}
	if err := l.backend.WaitIdle(); err != nil {
		core.LogError("FrameLoop: waiting for the device before shutdown: %s", err.Error())
	}
	l.destroy()
	l.ready = false
}

func (l *FrameLoop) destroy() {
	// Destroy in the opposite order of creation.
	for i := len(l.finishedSemaphores) - 1; i >= 0; i-- {
		l.finishedSemaphores[i].Destroy()
	}
	for i := len(l.availableSemaphores) - 1; i >= 0; i-- {
		l.availableSemaphores[i].Destroy()
	}
	for i := len(l.inFlightFences) - 1; i >= 0; i-- {
		l.inFlightFences[i].Destroy()
	}
	l.finishedSemaphores = nil
	l.availableSemaphores = nil
	l.inFlightFences = nil
	l.imagesInFlight = nil
	l.clock.Stop()
}

func (l *FrameLoop) CurrentFrame() uint32 {
	return l.currentFrame
}

func (l *FrameLoop) FramesInFlight() uint32 {
	return l.framesInFlight
}

// FrameNumber counts the frames submitted since Setup.
func (l *FrameLoop) FrameNumber() uint64 {
	return l.frameNumber
}

func (l *FrameLoop) Metrics() *core.Metrics {
	return l.metrics
}

// Frame runs one acquire, record, submit and present cycle. It reports
// whether the image was presented. A swapchain that went out of date is
// recreated and the frame dropped without error. When recording fails or the
// acquired image stays busy past the fence timeout, the image is presented
// cleared and the error returned; the loop stays usable.
func (l *FrameLoop) Frame(record RecordFunc) (bool, error) {
	if !l.ready {
		panic("frame: Frame called before Setup")
	}
	slot := l.currentFrame
	fence := l.inFlightFences[slot]

	// Wait for the GPU to finish the previous use of this slot.
	if err := l.wait(fence, slot); err != nil {
		return false, err
	}

	image, err := l.backend.AcquireNextImage(l.availableSemaphores[slot])
	if err != nil {
		if errors.Is(err, core.ErrSwapchainOutOfDate) {
			return false, l.recreate()
		}
		return false, l.fatal(err, "acquiring next swapchain image")
	}
	if int(image) >= len(l.imagesInFlight) {
		return false, l.fatal(errors.Wrapf(core.ErrOutOfRange, "image %d of %d", image, len(l.imagesInFlight)), "acquiring next swapchain image")
	}

	// The image may still be rendered by another slot when there are more
	// swapchain images than frames in flight. From here on the image is
	// acquired and must be presented, even when the frame fails.
	if owner, ok := l.imagesInFlight[image].Get(); ok && owner != slot {
		if err := l.wait(l.inFlightFences[owner], owner); err != nil {
			if !errors.Is(err, core.ErrFenceTimeout) {
				return false, err
			}
			return l.skip(slot, image, err)
		}
	}
	l.imagesInFlight[image] = metadata.Some(slot)

	if err := record(slot, image); err != nil {
		return l.skip(slot, image, errors.Wrapf(err, "recording frame %d", l.frameNumber))
	}

	if err := fence.Reset(); err != nil {
		return false, l.fatal(err, "resetting in-flight fence")
	}
	if err := l.backend.Submit(image, l.availableSemaphores[slot], l.finishedSemaphores[slot], fence); err != nil {
		return false, l.fatal(err, "submitting frame")
	}

	presentErr := l.backend.Present(image, l.finishedSemaphores[slot])
	l.advance()
	l.clock.Update()
	l.metrics.Update(l.clock.Elapsed())
	l.clock.Start()

	if presentErr != nil {
		if errors.Is(presentErr, core.ErrSwapchainOutOfDate) {
			return false, l.recreate()
		}
		return false, l.fatal(presentErr, "presenting frame")
	}
	return true, nil
}

// skip presents the acquired image cleared, which consumes the image
// available signal of slot, then reports cause.
func (l *FrameLoop) skip(slot, image uint32, cause error) (bool, error) {
	core.LogWarn("Skipping frame %d: %s", l.frameNumber, cause.Error())
	fence := l.inFlightFences[slot]
	l.imagesInFlight[image] = metadata.Some(slot)

	if err := fence.Reset(); err != nil {
		return false, l.fatal(err, "resetting in-flight fence")
	}
	if err := l.backend.Skip(image, l.availableSemaphores[slot], l.finishedSemaphores[slot], fence); err != nil {
		return false, l.fatal(err, "submitting skipped frame")
	}
	presentErr := l.backend.Present(image, l.finishedSemaphores[slot])
	l.advance()

	if presentErr != nil {
		if errors.Is(presentErr, core.ErrSwapchainOutOfDate) {
			if err := l.recreate(); err != nil {
				return false, err
			}
			return false, cause
		}
		return false, l.fatal(presentErr, "presenting skipped frame")
	}
	return false, cause
}

func (l *FrameLoop) advance() {
	l.currentFrame = (l.currentFrame + 1) % l.framesInFlight
	l.frameNumber++
}

func (l *FrameLoop) wait(fence Fence, slot uint32) error {
	err := fence.Wait(l.fenceTimeout)
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrFenceTimeout) {
		err = errors.Wrapf(err, "in-flight fence of slot %d", slot)
		core.LogWarn(err.Error())
		return err
	}
	return l.fatal(err, "waiting for in-flight fence")
}

// Recreate rebuilds the swapchain outside of Frame, after a window resize for
// instance. A deferred recreation is not an error.
func (l *FrameLoop) Recreate() error {
	core.LogInfo("Recreating swapchain.")
	return l.rebuild()
}

// recreate rebuilds the swapchain. Images of the old swapchain are forgotten.
func (l *FrameLoop) recreate() error {
	core.LogInfo("Swapchain out of date, recreating.")
	return l.rebuild()
}

func (l *FrameLoop) rebuild() error {
	if err := l.backend.Recreate(); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			core.LogDebug("Swapchain recreation deferred: %s", err.Error())
			return nil
		}
		return l.fatal(err, "recreating swapchain")
	}
	l.imagesInFlight = make([]metadata.Optional[uint32], l.backend.ImageCount())
	return nil
}

func (l *FrameLoop) fatal(err error, action string) error {
	err = errors.Wrap(errors.Mark(err, core.ErrDeviceFailure), action)
	core.LogError(err.Error())
	return err
}

package vulkan

/**
 * @brief Destroys a batch of objects in the reverse order they were added.
 * Declare one at the start of a function that creates several objects and
 * defer Destroy: on early returns everything created so far is released.
 * Release hands the oldest entries over to the caller before returning.
 */
type ScopeDestroyer struct {
	destroyers []func()
	released   int
}

// Add registers the destructor of a newly created object.
func (s *ScopeDestroyer) Add(destroy func()) {
	s.destroyers = append(s.destroyers, destroy)
}

// Release keeps the first n registered objects alive on Destroy.
func (s *ScopeDestroyer) Release(n int) {
	s.released = min(max(n, 0), len(s.destroyers))
}

// Len returns the number of registered destructors.
func (s *ScopeDestroyer) Len() int {
	return len(s.destroyers)
}

// Destroy runs the destructors not released, last added first. Calling it
// twice is harmless.
func (s *ScopeDestroyer) Destroy() {
	for i := len(s.destroyers) - 1; i >= s.released; i-- {
		s.destroyers[i]()
	}
	s.destroyers = nil
	s.released = 0
}

// Package vk implements forge.Backend on real Vulkan drivers through
// vkngwrapper, with SDL2 providing the window and surface plumbing.
//
// Every wrapper type carries the driver that created it, so handles can be
// destroyed without reaching back through the backend. Client code that
// needs the raw Vulkan objects of a built context goes through Unwrap.
package vk

import (
	"github.com/vkngwrapper/forge"
)

// Options configures backend behavior that is not part of the context
// description itself.
type Options struct {
	// Validation enables the Khronos validation layer and routes its
	// messages to the forge logger. Creating an instance fails if the
	// layer is requested but not installed.
	Validation bool

	// PipelineCacheData primes the device's pipeline cache with data from
	// a previous run. Data whose header does not match the chosen adapter
	// is rejected with a warning and the cache starts empty.
	PipelineCacheData []byte
}

// Backend creates Vulkan resources. It holds no device state of its own;
// all handles live in the wrapper objects it returns.
type Backend struct {
	opts Options
}

var _ forge.Backend = (*Backend)(nil)

// NewBackend returns a backend with the given options.
func NewBackend(opts Options) *Backend {
	return &Backend{opts: opts}
}

package bridge

import (
	"context"
	"sync"

	"github.com/Adda-Baaj/reqbridge/pkg/scheduler"
)

var (
	defaultMu     sync.Mutex
	defaultBridge *Bridge
)

// Default returns the package-level bridge, building it with default options on first use.
func Default() *Bridge {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultBridge == nil {
		defaultBridge = New(Options{})
	}
	return defaultBridge
}

// SetDefault replaces the package-level bridge. Passing nil restores lazy defaults.
func SetDefault(b *Bridge) {
	defaultMu.Lock()
	defaultBridge = b
	defaultMu.Unlock()
}

// Get performs a blocking GET on the default bridge.
func Get(url string, headers map[string]string, body []byte) (*Response, error) {
	return Default().Get(context.Background(), url, headers, body)
}

// GetAsync performs a non-blocking GET on the default bridge.
func GetAsync(url string, headers map[string]string, body []byte) *scheduler.Future[*Response] {
	return Default().GetAsync(context.Background(), url, headers, body)
}

package xbindcfg

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/omeyang/netbind/pkg/network/xbind"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatch_DeliversReloadedConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netbind.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("local_subnets:\n  - \"192.168.1.0/24\"\nenable_ipv4: true\n"), 0600))

	var mu sync.Mutex
	var lastCfg xbind.Config
	var lastErr error
	var calls int

	w, err := Watch(configPath, func(cfg xbind.Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		lastCfg, lastErr = cfg, err
		calls++
	})
	require.NoError(t, err)

	w.StartAsync()
	defer func() { _ = w.Stop() }()

	// 等待监视器就位
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(configPath, []byte("local_subnets:\n  - \"10.0.0.0/8\"\nenable_ipv4: true\n"), 0600))

	// 防抖 100ms + 余量
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 1)
	assert.NoError(t, lastErr)
	assert.Equal(t, []string{"10.0.0.0/8"}, lastCfg.LocalSubnets)
}

func TestWatch_MalformedReloadReportsError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netbind.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("enable_ipv4: true\n"), 0600))

	var mu sync.Mutex
	var lastErr error
	var calls int

	w, err := Watch(configPath, func(_ xbind.Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		lastErr = err
		calls++
	})
	require.NoError(t, err)

	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(configPath, []byte(":\t not yaml ["), 0600))
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 1)
	assert.ErrorIs(t, lastErr, ErrParseFailed)
}

func TestWatch_InvalidArguments(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Watch("", nil)
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := Watch("/etc/netbind.ini", nil)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestWatch_StopIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netbind.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("enable_ipv4: true\n"), 0600))

	w, err := Watch(configPath, nil)
	require.NoError(t, err)

	w.StartAsync()
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatch_NoCallbackAfterStop(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netbind.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("enable_ipv4: true\n"), 0600))

	var mu sync.Mutex
	var calls int

	w, err := Watch(configPath, func(_ xbind.Config, _ error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	// 触发事件后立即停止：防抖定时器被取消，不应有回调
	require.NoError(t, os.WriteFile(configPath, []byte("enable_ipv6: true\n"), 0600))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, w.Stop())

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

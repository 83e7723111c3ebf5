package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plentyOfSpace(string) (uint64, error) { return 1 << 40, nil }

func TestDownloadOriginal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var gotURL string
	opt := DownloadOpt{
		Directory: dir,
		SpaceWith: plentyOfSpace,
		DownloadWith: func(_ context.Context, url, filename string) error {
			gotURL = url
			return os.WriteFile(filename, []byte("hello"), 0600)
		},
	}

	urls := ImageURLs{Filename: "a b.jpg", Display: "https://s/assets/a%20b.jpg", Raw: "https://r/a%20b.jpg"}
	file, sum, err := DownloadOriginal(context.Background(), urls, opt)
	require.NoError(t, err)
	assert.Equal(t, "https://r/a%20b.jpg", gotURL)
	assert.Equal(t, filepath.Join(dir, "a b.jpg"), file)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)
}

func TestDownloadOriginal_NoMirror(t *testing.T) {
	_, _, err := DownloadOriginal(context.Background(), ImageURLs{Display: "https://img/x.jpg"})
	assert.ErrorIs(t, err, ErrNoMirror)
}

func TestDownloadOriginal_DiskSpace(t *testing.T) {
	opt := DownloadOpt{
		Directory:    t.TempDir(),
		SpaceWith:    func(string) (uint64, error) { return 10, nil },
		DownloadWith: func(context.Context, string, string) error { t.Fatal("must not download"); return nil },
	}
	_, _, err := DownloadOriginal(context.Background(), ImageURLs{Filename: "a.jpg", Raw: "https://r/a.jpg"}, opt)
	assert.ErrorIs(t, err, ErrDiskSpace)
}

func TestDownloadOriginal_Retries(t *testing.T) {
	calls := 0
	opt := DownloadOpt{
		Directory:      t.TempDir(),
		SpaceWith:      plentyOfSpace,
		TimeoutOnError: 1,
		Retries:        2,
		DownloadWith: func(_ context.Context, url, filename string) error {
			calls++
			return errors.New("boom")
		},
	}
	_, _, err := DownloadOriginal(context.Background(), ImageURLs{Filename: "a.jpg", Raw: "https://r/a.jpg"}, opt)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestFileSHA256_Missing(t *testing.T) {
	_, err := FileSHA256(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// rawServer serves body for every request, the way the raw mirror does.
func rawServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "a.jpg", time.Time{}, strings.NewReader(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadOriginal_Grab(t *testing.T) {
	srv := rawServer(t, "NEWDATA")
	dir := t.TempDir()
	opt := DownloadOpt{Directory: dir, SpaceWith: plentyOfSpace}

	file, sum, err := DownloadOriginal(context.Background(), ImageURLs{Filename: "a.jpg", Raw: srv.URL + "/a.jpg"}, opt)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "NEWDATA", string(data))
	want, err := FileSHA256(file)
	require.NoError(t, err)
	assert.Equal(t, want, sum)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestDownloadOriginal_ReplacesExistingFile(t *testing.T) {
	srv := rawServer(t, "NEWDATA")
	for name, old := range map[string]string{
		"same size": "OLDDATA",
		"shorter":   "OLD",
		"longer":    "OLDDATA-AND-MORE",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			target := filepath.Join(dir, "a.jpg")
			require.NoError(t, os.WriteFile(target, []byte(old), 0o644))

			file, _, err := DownloadOriginal(context.Background(),
				ImageURLs{Filename: "a.jpg", Raw: srv.URL + "/a.jpg"},
				DownloadOpt{Directory: dir, SpaceWith: plentyOfSpace})
			require.NoError(t, err)
			assert.Equal(t, target, file)
			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, "NEWDATA", string(data))
		})
	}
}

func TestDownloadOriginal_CancelInFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := DownloadOriginal(ctx, ImageURLs{Filename: "a.jpg", Raw: srv.URL + "/a.jpg"},
		DownloadOpt{Directory: t.TempDir(), SpaceWith: plentyOfSpace, Retries: 3})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDownloadOriginal_CancelBetweenRetries(t *testing.T) {
	calls := 0
	opt := DownloadOpt{
		Directory:      t.TempDir(),
		SpaceWith:      plentyOfSpace,
		TimeoutOnError: time.Hour,
		Retries:        3,
		DownloadWith: func(context.Context, string, string) error {
			calls++
			return errors.New("boom")
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := DownloadOriginal(ctx, ImageURLs{Filename: "a.jpg", Raw: "https://r/a.jpg"}, opt)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLocalName(t *testing.T) {
	for in, want := range map[string]string{
		"a.jpg":       "a.jpg",
		"one b.jpg":   "one b.jpg",
		"dir/a.jpg":   "a.jpg",
		"../../a.jpg": "a.jpg",
	} {
		got, ok := LocalName(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", ".", "..", "/", "a/.."} {
		_, ok := LocalName(in)
		assert.False(t, ok, "%q", in)
	}
}

func TestDownloadOriginal_RejectsDirectoryNames(t *testing.T) {
	for _, name := range []string{".", ".."} {
		_, _, err := DownloadOriginal(context.Background(), ImageURLs{Filename: name, Raw: "https://r/" + name},
			DownloadOpt{Directory: t.TempDir(), SpaceWith: plentyOfSpace})
		assert.ErrorIs(t, err, ErrNoMirror, name)
	}
}

package update

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesRepoURL(t *testing.T) {
	u, err := New("https://github.com/perpetuallyhorni/posterwall")
	require.NoError(t, err)
	assert.Equal(t, "perpetuallyhorni/posterwall", u.Repo)

	u, err = New("https://github.com/perpetuallyhorni/posterwall.git/")
	require.NoError(t, err)
	assert.Equal(t, "perpetuallyhorni/posterwall", u.Repo)

	_, err = New("https://example.com/")
	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("v1.2")
	require.NoError(t, err)
	assert.Equal(t, version{Major: 1, Minor: 2}, v)

	v, err = parseVersion("1.10.3")
	require.NoError(t, err)
	assert.Equal(t, version{Major: 1, Minor: 10, Patch: 3}, v)

	for _, bad := range []string{"", "v1", "v1.x", "1.2.3.4"} {
		_, err := parseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func TestVersion_LessThan(t *testing.T) {
	assert.True(t, version{1, 2, 0}.lessThan(version{1, 10, 0}))
	assert.True(t, version{1, 2, 0}.lessThan(version{1, 2, 1}))
	assert.True(t, version{0, 9, 9}.lessThan(version{1, 0, 0}))
	assert.False(t, version{1, 2, 0}.lessThan(version{1, 2, 0}))
	assert.False(t, version{2, 0, 0}.lessThan(version{1, 9, 9}))
}

func TestCheckForUpdate(t *testing.T) {
	var tag atomic.Value
	tag.Store("v1.3")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/perpetuallyhorni/posterwall/releases/latest" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"` + tag.Load().(string) + `","assets":[]}`))
	}))
	defer srv.Close()

	u := &Updater{Repo: "perpetuallyhorni/posterwall", APIBase: srv.URL, HTTPClient: srv.Client()}
	ctx := context.Background()

	latest, err := u.CheckForUpdate(ctx, "v1.2")
	require.NoError(t, err)
	assert.Equal(t, "v1.3", latest)

	latest, err = u.CheckForUpdate(ctx, "v1.3")
	require.NoError(t, err)
	assert.Empty(t, latest)

	latest, err = u.CheckForUpdate(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, latest)

	tag.Store("nightly")
	_, err = u.CheckForUpdate(ctx, "v1.2")
	assert.Error(t, err)

	u.Repo = "someone/else"
	_, err = u.CheckForUpdate(ctx, "v1.2")
	assert.Error(t, err)
}

func TestAssetName(t *testing.T) {
	assert.Equal(t, "posterwall_linux_x86_64.tar.gz", assetName("linux", "amd64"))
	assert.Equal(t, "posterwall_darwin_arm64.tar.gz", assetName("darwin", "arm64"))
	assert.Equal(t, "posterwall_windows_x86_64.zip", assetName("windows", "amd64"))
}

func TestExtractBinary_TarGz(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range map[string]string{"README.md": "docs", "posterwall_1.3/posterwall": "ELF"} {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	data, err := extractBinary(buf.Bytes(), "posterwall_linux_x86_64.tar.gz", "posterwall")
	require.NoError(t, err)
	assert.Equal(t, "ELF", string(data))

	_, err = extractBinary(buf.Bytes(), "posterwall_linux_x86_64.tar.gz", "missing")
	assert.Error(t, err)
}

func TestExtractBinary_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("posterwall.exe")
	require.NoError(t, err)
	_, err = w.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data, err := extractBinary(buf.Bytes(), "posterwall_windows_x86_64.zip", "posterwall.exe")
	require.NoError(t, err)
	assert.Equal(t, "MZ", string(data))
}

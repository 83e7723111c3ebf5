package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/cli"
	cliconfig "github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/config"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/view"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCmd() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().StringP("dir", "d", "", "")
	c.Flags().IntP("workers", "w", 0, "")
	c.Flags().String("site", "", "")
	c.Flags().String("lang", "", "")
	c.Flags().Bool("debug", false, "")
	return c
}

func TestApplyFlagOverrides(t *testing.T) {
	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{
		"--dir", "/tmp/posters", "--workers", "8", "--site", "https://mirror.example/", "--lang", "en-US", "--debug",
	}))
	conf, err := cliconfig.Default()
	require.NoError(t, err)

	applyFlagOverrides(c, conf)
	assert.Equal(t, "/tmp/posters", conf.DownloadPath)
	assert.Equal(t, 8, conf.MaxWorkers)
	assert.Equal(t, "https://mirror.example/", conf.Site.SiteURL)
	assert.Equal(t, "en", conf.Language)
	assert.Equal(t, "debug", conf.LogLevel)
}

func TestApplyFlagOverrides_KeepsConfigWhenUnset(t *testing.T) {
	c := newFlagCmd()
	require.NoError(t, c.Flags().Parse([]string{"--workers", "0"}))
	conf, err := cliconfig.Default()
	require.NoError(t, err)
	want := *conf

	applyFlagOverrides(c, conf)
	assert.Equal(t, want.MaxWorkers, conf.MaxWorkers, "non-positive worker counts are ignored")
	assert.Equal(t, want.DownloadPath, conf.DownloadPath)
	assert.Equal(t, want.Site, conf.Site)
}

func TestIsLightweight(t *testing.T) {
	assert.True(t, isLightweight(debugDocCmd))
	assert.True(t, isLightweight(editConfigCmd))
	assert.True(t, isLightweight(updateCmd))
	assert.False(t, isLightweight(listCmd))
	assert.False(t, isLightweight(downloadCmd))
	assert.False(t, isLightweight(historyForgetCmd))
}

func withConsole(t *testing.T, asJSON bool) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	var errOut, out bytes.Buffer
	prevConsole, prevRenderer := console, renderer
	console = cli.NewWithWriter(&errOut, false)
	renderer = view.New(&out, asJSON)
	t.Cleanup(func() { console, renderer = prevConsole, prevRenderer })
	return &errOut, &out
}

func TestReport_ExitCodes(t *testing.T) {
	errOut, _ := withConsole(t, false)

	assert.Equal(t, 0, report(nil))

	empty := &gallery.PageError{Kind: gallery.EmptyResult, Message: "该分类下暂无图片。", Err: gallery.ErrEmpty}
	assert.Equal(t, 0, report(empty))
	assert.Contains(t, errOut.String(), "✗ 该分类下暂无图片。")

	invalid := &gallery.PageError{Kind: gallery.InvalidParam, Message: "bad id"}
	assert.Equal(t, 1, report(fmt.Errorf("wrapped: %w", invalid)))

	failed := &gallery.PageError{Kind: gallery.FetchFailed, Message: "load failed", Err: errors.New("HTTP 500")}
	assert.Equal(t, 1, report(failed))
	assert.NotContains(t, errOut.String(), "HTTP 500", "the cause goes to the log, not the console")

	assert.Equal(t, 130, report(context.Canceled))
	assert.Equal(t, 1, report(errors.New("boom")))
	assert.Contains(t, errOut.String(), "Error: boom")
}

func TestReport_JSON(t *testing.T) {
	errOut, out := withConsole(t, true)

	code := report(&gallery.PageError{Kind: gallery.InvalidParam, Message: "bad id"})
	assert.Equal(t, 1, code)
	assert.JSONEq(t, `{"error":{"kind":"invalid_param","message":"bad id"}}`, out.String())
	assert.Empty(t, errOut.String())
}

func TestDocumentNames(t *testing.T) {
	assert.Equal(t, []string{"categories", "images", "meta"}, documentNames())
	assert.Equal(t, gallery.MetaDocumentPath, documents["meta"])
}

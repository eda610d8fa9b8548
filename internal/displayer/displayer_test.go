package displayer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vindecoder/internal/models"
	"vindecoder/internal/session"
	"vindecoder/internal/vpic/mock"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWithoutDecodeShowsError(t *testing.T) {
	dir := t.TempDir()
	d := New(session.New(mock.New()), filepath.Join(dir, "report.html"))

	d.export()

	assert.True(t, d.pages.HasPage(pageModal))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeRejectsEmptyVIN(t *testing.T) {
	m := mock.New()
	d := New(session.New(m), "report.html")

	d.decode()

	assert.True(t, d.pages.HasPage(pageModal))
	assert.Empty(t, m.Requests())
}

func TestClearResetsForm(t *testing.T) {
	d := New(session.New(mock.New()), "report.html")
	d.vinInput.SetText("1HGCM82633A004352")
	d.yearInput.SetText("2003")
	d.outputText.SetText(session.FormatText(models.DecodeResult{models.Field("Make", "HONDA")}))

	d.clear()

	assert.Equal(t, "", d.vinInput.GetText())
	assert.Equal(t, "", d.yearInput.GetText())
	assert.Equal(t, session.Placeholder, d.outputText.GetText(false))
	assert.Equal(t, "report.html", d.pathInput.GetText())
}

// startApp runs d on a simulated screen until the test ends.
func startApp(t *testing.T, d *Displayer) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	d.app.SetScreen(screen)
	screen.SetSize(100, 40)

	done := make(chan error, 1)
	go func() { done <- d.Run() }()
	t.Cleanup(func() {
		d.Shutdown()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("TUI did not stop")
		}
	})
}

func TestDecodeShowsResults(t *testing.T) {
	fields := models.DecodeResult{
		models.Field("Make", "HONDA"),
		{Variable: "Series"},
	}
	m := mock.New().WithResult(fields)
	s := session.New(m)
	d := New(s, "report.html")
	startApp(t, d)

	d.app.QueueUpdate(func() {
		d.vinInput.SetText("1HGCM82633A004352")
		d.yearInput.SetText("2003")
		d.decode()
	})

	want := session.FormatText(fields)
	assert.Eventually(t, func() bool {
		return d.outputText.GetText(false) == want
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, d.statusText.GetText(true), "2 fields")

	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, fields, last)
	assert.Equal(t, []models.DecodeRequest{{VIN: "1HGCM82633A004352", ModelYear: 2003}}, m.Requests())
}

// blockingDecoder holds every Decode until release is closed.
type blockingDecoder struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingDecoder) Decode(ctx context.Context, req models.DecodeRequest) (models.DecodeResult, error) {
	b.started <- struct{}{}
	<-b.release
	return models.DecodeResult{models.Field("Make", "HONDA")}, nil
}

func TestClearDropsInFlightDecode(t *testing.T) {
	b := &blockingDecoder{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := session.New(b)
	d := New(s, "report.html")
	startApp(t, d)

	d.app.QueueUpdate(func() {
		d.vinInput.SetText("1HGCM82633A004352")
		d.decode()
	})
	<-b.started
	d.app.QueueUpdate(d.clear)
	close(b.release)

	// the decode goroutine holds mu until it has posted its update
	d.mu.Lock()
	d.mu.Unlock()
	d.app.QueueUpdate(func() {})

	assert.Equal(t, session.Placeholder, d.outputText.GetText(false))
	_, ok := s.Last()
	assert.False(t, ok)
	_, err := s.Export(filepath.Join(t.TempDir(), "report.html"))
	assert.ErrorIs(t, err, session.ErrNoData)
}

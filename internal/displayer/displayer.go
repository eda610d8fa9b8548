package displayer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vindecoder/internal/session"
	"vindecoder/pkg/log"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageMain  = "main"
	pageModal = "modal"
)

// Displayer is the terminal form in front of a Session: VIN and model year
// inputs, Decode/Clear/Export actions and a results view.
type Displayer struct {
	app     *tview.Application
	pages   *tview.Pages
	session *session.Session
	ctx     context.Context
	cancel  context.CancelFunc

	// mu serialises decodes so a second press waits for the first.
	mu sync.Mutex

	defaultOutput string

	form       *tview.Form
	vinInput   *tview.InputField
	yearInput  *tview.InputField
	pathInput  *tview.InputField
	outputText *tview.TextView
	statusText *tview.TextView
}

func New(s *session.Session, defaultOutput string) *Displayer {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Displayer{
		app:           tview.NewApplication(),
		pages:         tview.NewPages(),
		session:       s,
		ctx:           ctx,
		cancel:        cancel,
		defaultOutput: defaultOutput,
	}
	d.build()
	return d
}

// Run blocks until the user quits.
func (d *Displayer) Run() error {
	d.app.SetRoot(d.pages, true).SetFocus(d.form)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlQ:
			d.Shutdown()
			return nil
		case tcell.KeyCtrlD:
			d.decode()
			return nil
		case tcell.KeyCtrlE:
			d.export()
			return nil
		}
		return event
	})

	return d.app.Run()
}

func (d *Displayer) Shutdown() {
	d.cancel()
	d.app.Stop()
}

func (d *Displayer) build() {
	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("vindecoder - Vehicle Information Decoder")
	help := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("[Ctrl-D - Decode] [Ctrl-E - Export] [Ctrl-Q - Quit]")
	d.statusText = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)

	d.vinInput = tview.NewInputField().SetLabel("VIN:").SetFieldWidth(30)
	d.yearInput = tview.NewInputField().SetLabel("Model Year (optional):").SetFieldWidth(30).
		SetAcceptanceFunc(tview.InputFieldInteger)
	d.pathInput = tview.NewInputField().SetLabel("Report file:").SetFieldWidth(30).SetText(d.defaultOutput)

	d.form = tview.NewForm().
		AddFormItem(d.vinInput).
		AddFormItem(d.yearInput).
		AddFormItem(d.pathInput).
		AddButton("Decode VIN", d.decode).
		AddButton("Clear", d.clear).
		AddButton("Export Report", d.export).
		AddButton("Quit", d.Shutdown)
	d.form.SetBorder(true).SetTitle(" Input ")

	d.outputText = tview.NewTextView().SetWrap(true).SetWordWrap(true).SetScrollable(true)
	d.outputText.SetBorder(true).SetTitle(" Results ")
	d.outputText.SetText(session.Placeholder)

	header := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(title, 1, 0, false).
		AddItem(d.statusText, 1, 0, false).
		AddItem(help, 1, 0, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(d.form, 11, 0, true).
		AddItem(d.outputText, 0, 1, false)

	d.pages.AddPage(pageMain, layout, true, true)
	d.setStatus("[yellow]idle[white]")
}

func (d *Displayer) setStatus(s string) {
	d.statusText.SetText(fmt.Sprintf("Status: %s", s))
}

// decode runs the lookup off the event loop and posts the outcome back with
// QueueUpdateDraw.
func (d *Displayer) decode() {
	vin := d.vinInput.GetText()
	year := d.yearInput.GetText()

	if _, err := session.ParseRequest(vin, year); err != nil {
		d.showMessage("Error", err.Error())
		return
	}

	d.setStatus("[yellow]decoding...[white]")
	go func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		result, err := d.session.Decode(d.ctx, vin, year)
		if errors.Is(err, session.ErrSuperseded) {
			return
		}
		d.app.QueueUpdateDraw(func() {
			if err != nil {
				d.setStatus("[red]failed[white]")
				d.showMessage("Error", err.Error())
				return
			}
			d.setStatus(fmt.Sprintf("[green]%d fields[white]", len(result)))
			d.outputText.SetText(session.FormatText(result)).ScrollToBeginning()
		})
	}()
}

func (d *Displayer) clear() {
	d.vinInput.SetText("")
	d.yearInput.SetText("")
	d.outputText.SetText(session.Placeholder)
	d.session.Clear()
	d.setStatus("[yellow]idle[white]")
	d.form.SetFocus(0)
	d.app.SetFocus(d.form)
}

func (d *Displayer) export() {
	path, err := d.session.Export(d.pathInput.GetText())
	if err != nil {
		log.Error("export failed", zap.Error(err))
		d.showMessage("Error", err.Error())
		return
	}
	d.showMessage("Success", fmt.Sprintf("Report saved to %s", path))
}

func (d *Displayer) showMessage(title, text string) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("%s\n\n%s", title, tview.Escape(text))).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			d.pages.RemovePage(pageModal)
			d.app.SetFocus(d.form)
		})
	d.pages.AddPage(pageModal, modal, true, true)
	d.app.SetFocus(modal)
}

// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"smartcalc/internal/app"
	"smartcalc/internal/calc"
	"smartcalc/internal/report"
	"smartcalc/internal/stroke"
	"smartcalc/internal/version"
	"smartcalc/pkg/colorutil"
	"smartcalc/ui/canvas"
	"smartcalc/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "last_directory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	config  app.Config
	store   *report.FileStore // nil when history is disabled

	canvas      *canvas.DrawingCanvas
	modeBtn     *widget.Button
	widthSlider *widget.Slider
	widthLabel  *widget.Label
	undoBtn     *widget.Button
	redoBtn     *widget.Button
	clearBtn    *widget.Button
	calcBtn     *widget.Button
	resultLabel *widget.Label
	statusBar   *widget.Label
}

// New creates a new main window. store may be nil.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs, cfg app.Config, store *report.FileStore) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
		config:  cfg,
		store:   store,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.updateControls()

	w := p.FloatWithFallback(prefs.KeyWindowW, float64(cfg.CanvasWidth)+40)
	h := p.FloatWithFallback(prefs.KeyWindowH, float64(cfg.CanvasHeight)+160)
	win.Resize(fyne.NewSize(float32(w), float32(h)))
	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewDrawingCanvas(mw.session)
	mw.canvas.OnError(func(err error) {
		mw.updateStatus("Drawing failed: " + err.Error())
	})

	mw.resultLabel = widget.NewLabel("")
	mw.resultLabel.Wrapping = fyne.TextWrapWord
	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(), // top
		container.NewVBox(mw.resultLabel, container.NewPadded(mw.statusBar)), // bottom
		nil,                            // left
		nil,                            // right
		container.NewCenter(mw.canvas), // center
	)
	mw.SetContent(content)
}

// createToolbar creates the tool, color, width and action controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeBtn = widget.NewButton("", mw.onToggleEraser)

	palette := newPalette(func(c color.Color) {
		mw.session.SetColor(c)
		mw.updateStatus("Pen color " + colorutil.Hex(c))
	})

	mw.widthLabel = widget.NewLabel("")
	mw.widthSlider = widget.NewSlider(stroke.MinWidth, stroke.MaxWidth)
	mw.widthSlider.Step = 1
	mw.widthSlider.OnChanged = func(v float64) {
		mw.session.SetWidth(v)
		mw.widthLabel.SetText(fmt.Sprintf("%.0f", v))
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), mw.widthSlider)

	mw.undoBtn = widget.NewButton("Undo", mw.onUndo)
	mw.redoBtn = widget.NewButton("Redo", mw.onRedo)
	mw.clearBtn = widget.NewButton("Clear", mw.onClear)
	mw.calcBtn = widget.NewButton("Calculate", mw.onCalculate)
	mw.calcBtn.Importance = widget.HighImportance

	return container.NewHBox(
		mw.modeBtn,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		palette,
		widget.NewSeparator(),
		widget.NewLabel("Width:"),
		sliderBox,
		mw.widthLabel,
		layout.NewSpacer(),
		mw.undoBtn,
		mw.redoBtn,
		mw.clearBtn,
		mw.calcBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export History PDF...", mw.onExportPDF),
		fyne.NewMenuItem("Clear History", mw.onClearHistory),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.SavePreferences()
			mw.app.Quit()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Canvas", mw.onClear),
		fyne.NewMenuItem("Toggle Eraser", mw.onToggleEraser),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventHistoryChanged, func(interface{}) {
		mw.updateControls()
	})

	mw.session.On(app.EventModeChanged, func(interface{}) {
		mw.updateControls()
	})

	mw.session.On(app.EventCalculationStarted, func(interface{}) {
		mw.resultLabel.SetText("Calculating...")
		mw.updateControls()
	})

	mw.session.On(app.EventCalculationDone, func(data interface{}) {
		if out, ok := data.(calc.Outcome); ok {
			mw.resultLabel.SetText(out.Message())
		}
		mw.updateControls()
	})
}

// updateControls syncs button states and the width slider with the session.
func (mw *MainWindow) updateControls() {
	busy := mw.session.Pending()

	if mw.session.Mode() == stroke.ModeEraser {
		mw.modeBtn.SetText("Switch to Pen")
	} else {
		mw.modeBtn.SetText("Switch to Eraser")
	}

	w := mw.session.Width()
	if mw.widthSlider.Value != w {
		mw.widthSlider.SetValue(w)
	}
	mw.widthLabel.SetText(fmt.Sprintf("%.0f", w))

	setEnabled(mw.undoBtn, !busy && mw.session.CanUndo())
	setEnabled(mw.redoBtn, !busy && mw.session.CanRedo())
	setEnabled(mw.clearBtn, !busy)
	setEnabled(mw.calcBtn, !busy)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// SavePreferences stores the current tool settings and window size.
func (mw *MainWindow) SavePreferences() {
	pen, eraser := mw.session.Widths()
	mw.config.PenColor = colorutil.Hex(mw.session.PenColor())
	mw.config.PenWidth = pen
	mw.config.EraserWidth = eraser
	mw.prefs.SetConfig(mw.config)

	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowW, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowH, float64(size.Height))

	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// ignoreBusy drops ErrBusy and reports anything else.
func (mw *MainWindow) ignoreBusy(err error) {
	if err != nil && !errors.Is(err, app.ErrBusy) {
		dialog.ShowError(err, mw.Window)
	}
}

// Action handlers

func (mw *MainWindow) onToggleEraser() {
	mode := mw.session.ToggleEraser()
	mw.updateStatus("Tool: " + mode.String())
}

func (mw *MainWindow) onUndo() {
	mw.ignoreBusy(mw.session.Undo())
}

func (mw *MainWindow) onRedo() {
	mw.ignoreBusy(mw.session.Redo())
}

func (mw *MainWindow) onClear() {
	mw.ignoreBusy(mw.session.Clear())
}

func (mw *MainWindow) onCalculate() {
	go func() {
		_, err := mw.session.Calculate(context.Background())
		if err != nil && !errors.Is(err, app.ErrBusy) {
			log.Printf("Calculation failed: %v", err)
			mw.resultLabel.SetText("Error: " + err.Error())
			mw.updateControls()
		}
	}()
}

func (mw *MainWindow) onExportPDF() {
	if mw.store == nil {
		mw.updateStatus("Calculation history is disabled")
		return
	}
	records, err := mw.store.List()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if len(records) == 0 {
		mw.updateStatus("No calculations to export")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".pdf" {
			path += ".pdf"
		}
		mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))
		if err := report.ExportPDF(path, records); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus(fmt.Sprintf("Exported %d calculations to %s", len(records), path))
	}, mw.Window)
	fd.SetFileName("calculations.pdf")
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onClearHistory() {
	if mw.store == nil {
		return
	}
	dialog.ShowConfirm("Clear History", "Delete all saved calculations?", func(ok bool) {
		if !ok {
			return
		}
		if err := mw.store.Clear(); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Calculation history cleared")
	}, mw.Window)
}

// lastDir returns the last export directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s\n\n"+
			"Draw an arithmetic expression and press Calculate.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.String(), version.BuildTime, version.GitCommit),
		mw.Window)
}

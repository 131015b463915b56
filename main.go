// Package main provides the entry point for the SmartCalc application.
package main

import (
	"context"
	"errors"
	"image"
	"log"

	"smartcalc/internal/app"
	"smartcalc/internal/calc"
	"smartcalc/internal/ocr"
	"smartcalc/internal/report"
	"smartcalc/internal/version"
	"smartcalc/ui/mainwindow"
	"smartcalc/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "com.smartcalc.drawtocalculate"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	appPrefs := prefs.Load()
	cfg := appPrefs.Config(app.DefaultConfig())

	recognizer, closeOCR := newRecognizer(cfg)
	defer closeOCR()

	reporter, store := newReporter(cfg)

	calculator := calc.New(recognizer, calc.Options{
		Source:    app.Source,
		Reporter:  reporter,
		SkipBlank: cfg.SkipBlank,
	})
	session := app.NewSession(cfg, calculator)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.SmartCalcTheme{})

	win := mainwindow.New(fyneApp, session, appPrefs, cfg, store)
	win.ShowAndRun()

	calculator.Flush()
}

// newRecognizer starts Tesseract. If it is unavailable every calculation
// reports a recognition error instead of the app refusing to start.
func newRecognizer(cfg app.Config) (ocr.Recognizer, func()) {
	engine, err := ocr.NewEngine(cfg.Language)
	if err != nil {
		log.Printf("OCR unavailable: %v", err)
		return ocr.RecognizerFunc(func(context.Context, image.Image, string) (string, error) {
			return "", errors.Join(errors.New("OCR engine not initialized"), err)
		}), func() {}
	}
	engine.SetSingleLine(cfg.SingleLine)
	return engine, func() {
		if err := engine.Close(); err != nil {
			log.Printf("Failed to close OCR engine: %v", err)
		}
	}
}

// newReporter builds the history sinks named by cfg. The returned store is
// nil when local history is disabled.
func newReporter(cfg app.Config) (report.Reporter, *report.FileStore) {
	var reporters []report.Reporter

	path := cfg.HistoryPath
	if path == "" {
		var err error
		if path, err = report.DefaultHistoryPath(); err != nil {
			log.Printf("Calculation history disabled: %v", err)
		}
	}
	var store *report.FileStore
	if path != "" {
		store = report.NewFileStore(path)
		reporters = append(reporters, store)
		log.Printf("Calculation history: %s", path)
	}

	if cfg.ReportURL != "" {
		reporters = append(reporters, report.NewHTTPClient(cfg.ReportURL))
		log.Printf("Reporting calculations to %s", cfg.ReportURL)
	}

	return report.Multi(reporters...), store
}

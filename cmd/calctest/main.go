// Command calctest runs the calculator pipeline on an image or a literal
// expression without the drawing UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"smartcalc/internal/calc"
	calcimage "smartcalc/internal/image"
	"smartcalc/internal/ocr"
	"smartcalc/internal/report"
)

const source = "calctest"

func main() {
	imagePath := flag.String("image", "", "Path to a drawn expression (PNG, JPEG or TIFF)")
	expression := flag.String("expr", "", "Evaluate this text instead of recognizing an image")
	lang := flag.String("lang", "eng", "Tesseract language")
	singleLine := flag.Bool("single-line", true, "Treat the image as a single line of text")
	binarized := flag.String("binarized", "", "Write the binarized image to this PNG path")
	historyPath := flag.String("history-file", "", "Calculation history file (default: user config dir)")
	showHistory := flag.Bool("history", false, "List saved calculations and exit")
	exportPDF := flag.String("export-pdf", "", "Export saved calculations to this PDF and exit")
	save := flag.Bool("save", false, "Save successful calculations to the history file")
	reportURL := flag.String("report", "", "Also post successful calculations to this history service")
	flag.Parse()

	store, err := openStore(*historyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to locate history: %v\n", err)
		os.Exit(1)
	}

	if *showHistory || *exportPDF != "" {
		if err := history(store, *showHistory, *exportPDF); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if *imagePath == "" && *expression == "" {
		fmt.Println("Usage: calctest -image <path> | -expr <text> [-binarized out.png] [-save] [-report url]")
		fmt.Println("       calctest -history | -export-pdf <out.pdf>")
		os.Exit(1)
	}

	var reporters []report.Reporter
	if *save {
		reporters = append(reporters, store)
	}
	if *reportURL != "" {
		reporters = append(reporters, report.NewHTTPClient(*reportURL))
	}
	reporter := report.Multi(reporters...)

	var out calc.Outcome
	if *expression != "" {
		out = calc.EvaluateText(*expression)
		if out.OK() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := reporter.Report(ctx, source, out.Expression, out.Result); err != nil {
				log.Printf("report: %v", err)
			}
			cancel()
		}
	} else {
		out, err = recognizeImage(*imagePath, *lang, *singleLine, *binarized, reporter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Raw:        %q\n", out.Raw)
	fmt.Printf("Expression: %q\n", out.Expression)
	fmt.Println(out.Message())
	if !out.OK() {
		os.Exit(2)
	}
}

func openStore(path string) (*report.FileStore, error) {
	if path == "" {
		var err error
		if path, err = report.DefaultHistoryPath(); err != nil {
			return nil, err
		}
	}
	return report.NewFileStore(path), nil
}

func recognizeImage(path, lang string, singleLine bool, binarizedOut string, reporter report.Reporter) (calc.Outcome, error) {
	img, err := calcimage.Load(path)
	if err != nil {
		return calc.Outcome{}, fmt.Errorf("failed to load image: %w", err)
	}
	fmt.Printf("Loaded image: %dx%d pixels, ink %.2f%%\n",
		img.Rect.Dx(), img.Rect.Dy(), 100*calcimage.InkRatio(calcimage.Binarize(img)))

	if binarizedOut != "" {
		if err := calcimage.SavePNG(binarizedOut, calcimage.Binarize(img)); err != nil {
			return calc.Outcome{}, fmt.Errorf("failed to write binarized image: %w", err)
		}
		fmt.Printf("Binarized image written to %s\n", binarizedOut)
	}

	engine, err := ocr.NewEngine(lang)
	if err != nil {
		return calc.Outcome{}, fmt.Errorf("failed to start OCR: %w", err)
	}
	defer engine.Close()
	engine.SetSingleLine(singleLine)

	calculator := calc.New(engine, calc.Options{Source: source, Reporter: reporter})
	out, err := calculator.Calculate(context.Background(), img)
	calculator.Flush()
	return out, err
}

func history(store *report.FileStore, list bool, pdfPath string) error {
	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if list {
		fmt.Printf("%d calculations in %s\n", len(records), store.Path())
		fmt.Printf("%-20s %-16s %-30s %s\n", "Time", "Source", "Expression", "Result")
		for _, r := range records {
			fmt.Printf("%-20s %-16s %-30s %s\n",
				r.Created.Format("2006-01-02 15:04:05"), r.Source, r.Expression, calc.FormatResult(r.Result))
		}
	}

	if pdfPath != "" {
		if err := report.ExportPDF(pdfPath, records); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		fmt.Printf("Exported %d calculations to %s\n", len(records), pdfPath)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"flyerly/internal/flyer"
	"flyerly/internal/ics"
	"flyerly/internal/imaging"
	"flyerly/internal/slug"
)

type rgb struct{ r, g, b int }

type font struct {
	style string
	size  float64
	color rgb
}

var (
	colorName    = rgb{45, 55, 72}
	colorTagline = rgb{107, 33, 168}
	colorBody    = rgb{29, 37, 53}
)

var fonts = map[Section]font{
	SectionName:        {"B", 28, colorName},
	SectionTagline:     {"I", 16, colorTagline},
	SectionDate:        {"", 12, colorBody},
	SectionLocation:    {"", 12, colorBody},
	SectionDescription: {"", 10, colorBody},
}

const (
	fontFamily  = "Helvetica"
	flyerImage  = "flyer-image"
	qrImage     = "calendar-qr"
	qrSize      = 72.0
	qrPixels    = 256
	qrCaption   = "Add to calendar"
	captionSize = 7.0
)

// pdfMeasurer measures strings with fpdf's core font metrics.
type pdfMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (m pdfMeasurer) StringWidth(s Section, text string) float64 {
	f := fonts[s]
	m.pdf.SetFont(fontFamily, f.style, f.size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// Document composes the one-page PDF. Failing to embed the image is
// reported through n and the document continues with text only; every
// other failure aborts.
func (x *Exporter) Document(ctx context.Context, s flyer.Snapshot, n flyer.Notifier) (Artifact, error) {
	if !s.HasContent() {
		const msg = "Please provide some event details or an image before generating a PDF."
		notify(n, flyer.Failure("Cannot Generate PDF", msg))
		return Artifact{}, flyer.Invalid("Cannot Generate PDF", msg)
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, fmt.Errorf("compose document: %w", err)
	}
	notify(n, flyer.Info("Generating PDF...", "Please wait while your flyer PDF is being created."))

	page := x.opts.Page
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetCompression(x.compress)
	pdf.SetMargins(page.Margin, page.Margin, page.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(x.opts.Creator, true)
	pdf.SetTitle(s.Event.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	content := Content{
		Name:        s.Event.Name,
		Tagline:     s.Tagline,
		Location:    s.Event.Location,
		Description: s.Event.Description,
	}
	if s.Event.HasDate() {
		content.Date = flyer.FormatDate(s.Event.Date, x.opts.Location)
	}

	if s.Image.IsSet() {
		info, err := x.embedImage(ctx, pdf, s.Image)
		switch {
		case err == nil:
			content.ImageWidth, content.ImageHeight = info.Width, info.Height
		case ctx.Err() != nil:
			return Artifact{}, fmt.Errorf("compose document: %w", ctx.Err())
		default:
			slog.Warn("pdf image skipped", "error", err, "source", s.Image.Source.String())
			notify(n, flyer.Failure("PDF Image Error", "Could not add image to PDF. Proceeding with text only."))
		}
	}

	plan := Layout(page, content, pdfMeasurer{pdf: pdf, tr: tr})
	drawPlan(pdf, plan, tr)

	if x.opts.CalendarQR && s.Event.HasDate() {
		if err := stampCalendarQR(pdf, page, s.Event); err != nil {
			slog.Warn("calendar qr skipped", "error", err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		notify(n, flyer.Failure("PDF Export Failed", "The PDF could not be created."))
		return Artifact{}, fmt.Errorf("compose document: %w", err)
	}

	filename := slug.WithExt(s.Event.Name, "pdf")
	notify(n, flyer.Success("PDF Downloaded!", "Your flyer has been downloaded as "+filename+"."))
	return Artifact{Filename: filename, ContentType: "application/pdf", Data: buf.Bytes()}, nil
}

// embedImage validates the image under the decode timeout and registers it
// with pdf. Formats fpdf cannot read, and files it rejects (interlaced PNG,
// CMYK JPEG), are re-encoded as PNG first. On failure pdf is left without
// an error so the rest of the document can be drawn.
func (x *Exporter) embedImage(ctx context.Context, pdf *fpdf.Fpdf, img flyer.Image) (imaging.Info, error) {
	info, err := imaging.InspectWithin(ctx, img.Data, x.opts.DecodeTimeout)
	if err != nil {
		return imaging.Info{}, err
	}

	if typ := fpdfImageType(info.Format); typ != "" {
		if err := register(pdf, img.Data, typ); err == nil {
			return info, nil
		}
	}

	decoded, err := imaging.DecodeWithin(ctx, img.Data, x.opts.DecodeTimeout)
	if err != nil {
		return imaging.Info{}, err
	}
	// Twice the page size is plenty of resolution for a 600×800pt page.
	converted, err := imaging.FitPNG(decoded, int(x.opts.Page.Width*2), int(x.opts.Page.Height*2))
	if err != nil {
		return imaging.Info{}, err
	}
	if err := register(pdf, converted, "PNG"); err != nil {
		return imaging.Info{}, err
	}
	return info, nil
}

func register(pdf *fpdf.Fpdf, data []byte, typ string) error {
	pdf.RegisterImageOptionsReader(flyerImage, fpdf.ImageOptions{ImageType: typ}, bytes.NewReader(data))
	if !pdf.Ok() {
		err := pdf.Error()
		pdf.ClearError()
		return fmt.Errorf("register %s image: %w", typ, err)
	}
	return nil
}

func fpdfImageType(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	default:
		return ""
	}
}

func drawPlan(pdf *fpdf.Fpdf, plan Plan, tr func(string) string) {
	if b := plan.Image; b != nil {
		pdf.ImageOptions(flyerImage, b.X, b.Y, b.W, b.H, false, fpdf.ImageOptions{}, 0, "")
	}

	for _, block := range plan.Blocks {
		f := fonts[block.Section]
		pdf.SetFont(fontFamily, f.style, f.size)
		pdf.SetTextColor(f.color.r, f.color.g, f.color.b)

		for i, line := range block.Lines {
			if line == "" {
				continue
			}
			text := tr(line)
			x := block.X
			if block.Align == AlignCenter {
				x -= pdf.GetStringWidth(text) / 2
			}
			pdf.Text(x, block.Y+float64(i)*block.LineHeight, text)
		}
	}
}

// stampCalendarQR draws a QR code holding the event as a VEVENT in the
// bottom right corner, outside the text flow. The description is left out
// to keep the code scannable.
func stampCalendarQR(pdf *fpdf.Fpdf, page Page, e flyer.EventDetails) error {
	e.Description = ""
	cal, err := ics.Event(e, ics.Options{Now: time.Now()})
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(string(cal), qrcode.Medium, qrPixels)
	if err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}

	pdf.RegisterImageOptionsReader(qrImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if !pdf.Ok() {
		err := pdf.Error()
		pdf.ClearError()
		return err
	}

	x := page.Width - page.Margin - qrSize
	y := page.Height - page.Margin - qrSize
	pdf.ImageOptions(qrImage, x, y, qrSize, qrSize, false, fpdf.ImageOptions{}, 0, "")

	pdf.SetFont(fontFamily, "", captionSize)
	pdf.SetTextColor(colorBody.r, colorBody.g, colorBody.b)
	w := pdf.GetStringWidth(qrCaption)
	pdf.Text(x+(qrSize-w)/2, y-3, qrCaption)
	return nil
}

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// печатная обёртка: типографика исходного шаблона плюс запрет разрывов
// страниц внутри заголовков, абзацев и строк таблиц
const printShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body {
	font-family: Arial, sans-serif;
	font-size: 11pt;
	line-height: 1.6;
	color: #000;
	margin: 0;
	padding: 0;
}
h1, h2, h3, h4, h5, h6 { page-break-after: avoid; }
p, li, tr { page-break-inside: avoid; }
table { border-collapse: collapse; width: 100%%; }
img { max-width: 100%%; }
</style>
</head>
<body>%s</body>
</html>`

// BuildPrintHTML оборачивает содержимое в печатный шаблон.
func BuildPrintHTML(contentHTML string) string {
	return fmt.Sprintf(printShell, contentHTML)
}

// ConvertHTMLToPDF рендерит HTML в PDF через wkhtmltopdf: формат Letter,
// поля 20мм, удвоенная растровая плотность.
func ConvertHTMLToPDF(contentHTML string) ([]byte, error) {
	pdf, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
	}

	pdf.PageSize.Set(wkhtmltopdf.PageSizeLetter)
	pdf.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdf.MarginTop.Set(20)
	pdf.MarginBottom.Set(20)
	pdf.MarginLeft.Set(20)
	pdf.MarginRight.Set(20)
	pdf.Dpi.Set(192)
	pdf.ImageQuality.Set(98)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(BuildPrintHTML(contentHTML)))
	page.Encoding.Set("utf-8")
	pdf.AddPage(page)

	if err := pdf.Create(); err != nil {
		if binaryMissing(err) {
			return nil, fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	return pdf.Bytes(), nil
}

// binaryMissing распознаёт отсутствие бинарника wkhtmltopdf. Обёртка не
// всегда сохраняет цепочку ошибок, поэтому после errors.Is остаётся
// проверка по тексту.
func binaryMissing(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "executable file not found")
}

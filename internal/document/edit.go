package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrInvalidRange возвращается при выделении за пределами блока.
var ErrInvalidRange = errors.New("document: выделение вне диапазона")

// Range задаёт выделение: индекс блока среди p/h1..h6/li в порядке
// документа и границы в рунах текста блока, [Start, End).
type Range struct {
	Block int `json:"block"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// блоки, по которым адресуется выделение
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li"

// ApplyBold оборачивает выделение в strong.
func ApplyBold(rawHTML string, r Range) (string, error) {
	return wrapRange(rawHTML, r, func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: "strong"}
	})
}

// ApplyItalic оборачивает выделение в em.
func ApplyItalic(rawHTML string, r Range) (string, error) {
	return wrapRange(rawHTML, r, func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: "em"}
	})
}

// ApplyUnderline оборачивает выделение в u.
func ApplyUnderline(rawHTML string, r Range) (string, error) {
	return wrapRange(rawHTML, r, func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: "u"}
	})
}

// ApplyFontSize выставляет размер шрифта выделения в пикселях.
func ApplyFontSize(rawHTML string, r Range, sizePx int) (string, error) {
	if sizePx < 6 || sizePx > 96 {
		return "", fmt.Errorf("%w: недопустимый размер шрифта %d", ErrInvalidRange, sizePx)
	}
	style := fmt.Sprintf("font-size: %dpx;", sizePx)
	return wrapRange(rawHTML, r, func() *html.Node {
		return &html.Node{
			Type: html.ElementNode,
			Data: "span",
			Attr: []html.Attribute{{Key: "style", Val: style}},
		}
	})
}

// wrapRange оборачивает текст выделения в новые элементы. Текстовые узлы,
// попавшие в выделение частично, расщепляются.
func wrapRange(rawHTML string, r Range, newWrapper func() *html.Node) (string, error) {
	if r.Block < 0 || r.Start < 0 || r.End <= r.Start {
		return "", ErrInvalidRange
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("document: не удалось разобрать HTML: %w", err)
	}

	blocks := doc.Find(blockSelector)
	if r.Block >= blocks.Length() {
		return "", ErrInvalidRange
	}

	block := blocks.Eq(r.Block)
	total := utf8.RuneCountInString(block.Text())
	if r.End > total {
		return "", ErrInvalidRange
	}

	for _, node := range block.Nodes {
		wrapTextRange(node, r.Start, r.End, newWrapper)
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("document: не удалось сериализовать HTML: %w", err)
	}

	return out, nil
}

// wrapTextRange обходит текстовые узлы блока, отсчитывая руны, и
// оборачивает пересечение каждого узла с [start, end).
func wrapTextRange(root *html.Node, start, end int, newWrapper func() *html.Node) {
	type slice struct {
		node     *html.Node
		from, to int // границы в рунах внутри узла
	}

	var slices []slice
	offset := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			length := utf8.RuneCountInString(n.Data)
			nodeStart := offset
			nodeEnd := offset + length
			offset = nodeEnd

			from := max(start, nodeStart)
			to := min(end, nodeEnd)
			if from < to {
				slices = append(slices, slice{
					node: n,
					from: from - nodeStart,
					to:   to - nodeStart,
				})
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	for _, s := range slices {
		runes := []rune(s.node.Data)
		before := string(runes[:s.from])
		middle := string(runes[s.from:s.to])
		after := string(runes[s.to:])

		parent := s.node.Parent

		if before != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, s.node)
		}

		wrapper := newWrapper()
		wrapper.AppendChild(&html.Node{Type: html.TextNode, Data: middle})
		parent.InsertBefore(wrapper, s.node)

		if after != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, s.node)
		}

		parent.RemoveChild(s.node)
	}
}

package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Стили, которые пайплайн проставляет целиком, перекрывая документные.
const (
	contactStyle  = "text-align: center !important; line-height: 1.2 !important; margin: 0.25em 0 !important;"
	asteriskStyle = "margin-left: 40px !important; margin-top: 0.5em !important; margin-bottom: 0.5em !important; text-align: justify !important; text-indent: 0 !important;"
	listStyle     = "margin: 0 !important; padding: 0 0 0 40px !important; list-style-position: outside !important;"
	listItemStyle = "margin: 0 !important; padding: 0 !important; text-indent: 0 !important;"
)

const authorName = "Alexander Sánchez"

// Маркеры контактного блока подписи.
var contactMarkers = []string{
	authorName,
	"Cofundador",
	"alexander.sanchez@opptima.ai",
	"0412-",
	"linkedin.com",
}

// Заголовки из шаблона, которым нужен отступ списка.
var indentedHeadings = []string{
	"Información y Accesos:",
	"Disponibilidad y Feedback:",
	"Participación:",
}

// Normalize приводит HTML сгенерированного документа к виду предпросмотра.
// Функция чистая и идемпотентная: повторный прогон ничего не меняет.
func Normalize(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("document: не удалось разобрать HTML: %w", err)
	}

	// Базовое выравнивание
	doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		mergeStyleProp(sel, "text-align", "center")
	})
	doc.Find("h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		mergeStyleProp(sel, "text-align", "left")
	})
	doc.Find("p, li").Each(func(_ int, sel *goquery.Selection) {
		mergeStyleProp(sel, "text-align", "justify")
	})

	// Строки с ценой центрируются, на любой глубине вложенности
	doc.Find("p, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if strings.Contains(text, "$") && strings.Contains(text, "USD") {
			mergeStyleProp(sel, "text-align", "center")
		}
	})

	// Название пакета услуг центрируется
	doc.Find("p, h3, h4, strong").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "Implementación Completa" {
			mergeStyleProp(sel, "text-align", "center")
		}
	})

	// Подпись автора: имя жирным, контактный блок плотной строкой.
	// Абзацы "Por parte de" — приветственная часть письма, их не трогаем.
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if strings.Contains(text, "Por parte de") {
			return
		}

		if strings.Contains(text, authorName) {
			for _, node := range sel.Nodes {
				boldOccurrences(node, authorName)
			}
		}

		for _, marker := range contactMarkers {
			if strings.Contains(text, marker) {
				sel.SetAttr("style", contactStyle)
				break
			}
		}
	})

	// Название агентства в подписи
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		trimmed := strings.TrimSpace(sel.Text())
		if trimmed == "Opptima AI Agency" ||
			(strings.Contains(trimmed, "Opptima AI Agency") && utf8.RuneCountInString(trimmed) < 50) {
			sel.SetAttr("style", contactStyle)
		}
	})

	// Сноски и подзаголовки условий выравниваются по списку
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		trimmed := strings.TrimSpace(sel.Text())
		if strings.HasPrefix(trimmed, "*") {
			sel.SetAttr("style", asteriskStyle)
			return
		}
		for _, heading := range indentedHeadings {
			if strings.HasPrefix(trimmed, heading) {
				sel.SetAttr("style", asteriskStyle)
				return
			}
		}
	})

	// Списки получают единые отступы на любой глубине
	doc.Find("ul, ol").Each(func(_ int, sel *goquery.Selection) {
		sel.SetAttr("style", listStyle)
	})
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.SetAttr("style", listItemStyle)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("document: не удалось сериализовать HTML: %w", err)
	}

	return out, nil
}

// mergeStyleProp выставляет CSS свойство, сохраняя остальные свойства
// существующего атрибута style.
func mergeStyleProp(sel *goquery.Selection, prop, value string) {
	existing, _ := sel.Attr("style")

	var parts []string
	replaced := false
	for _, decl := range strings.Split(existing, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name := strings.TrimSpace(strings.SplitN(decl, ":", 2)[0])
		if strings.EqualFold(name, prop) {
			if !replaced {
				parts = append(parts, prop+": "+value)
				replaced = true
			}
			continue
		}
		parts = append(parts, decl)
	}
	if !replaced {
		parts = append(parts, prop+": "+value)
	}

	sel.SetAttr("style", strings.Join(parts, "; ")+";")
}

// boldOccurrences оборачивает вхождения literal в <strong>, не трогая
// текст, который уже находится внутри strong или b.
func boldOccurrences(root *html.Node, literal string) {
	textNodes := collectTextNodes(root, literal)

	for _, node := range textNodes {
		segments := strings.Split(node.Data, literal)
		if len(segments) < 2 {
			continue
		}

		parent := node.Parent
		for i, segment := range segments {
			if segment != "" {
				parent.InsertBefore(&html.Node{
					Type: html.TextNode,
					Data: segment,
				}, node)
			}
			if i < len(segments)-1 {
				strong := &html.Node{
					Type: html.ElementNode,
					Data: "strong",
				}
				strong.AppendChild(&html.Node{
					Type: html.TextNode,
					Data: literal,
				})
				parent.InsertBefore(strong, node)
			}
		}
		parent.RemoveChild(node)
	}
}

// collectTextNodes находит текстовые узлы с вхождением literal,
// пропуская содержимое strong и b.
func collectTextNodes(root *html.Node, literal string) []*html.Node {
	var nodes []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b") {
			return
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, literal) {
			nodes = append(nodes, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return nodes
}

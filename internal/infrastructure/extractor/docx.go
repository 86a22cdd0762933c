package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a namespace-agnostic view over WordprocessingML.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func (n *xmlNode) child(local string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

func (n *xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func readDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml missing")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return renderDocument(rc)
}

func renderDocument(r io.Reader) (string, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}
	body := root.child("body")
	if body == nil {
		return "", errors.New("document has no body")
	}

	var lines []string
	for i := range body.Nodes {
		block := &body.Nodes[i]
		switch block.XMLName.Local {
		case "p":
			text := strings.TrimSpace(paragraphText(block))
			if text == "" {
				continue
			}
			if isHeading(block) {
				text = "# " + text
			}
			lines = append(lines, text)
		case "tbl":
			lines = append(lines, tableRows(block)...)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func isHeading(p *xmlNode) bool {
	ppr := p.child("pPr")
	if ppr == nil {
		return false
	}
	style := ppr.child("pStyle")
	return style != nil && strings.HasPrefix(style.attr("val"), "Heading")
}

func paragraphText(n *xmlNode) string {
	var b strings.Builder
	var walk func(n *xmlNode)
	walk = func(n *xmlNode) {
		switch n.XMLName.Local {
		case "t":
			b.WriteString(n.Text)
			return
		case "tab":
			b.WriteString("\t")
			return
		case "br", "cr":
			b.WriteString("\n")
			return
		case "pPr", "rPr":
			return
		}
		for i := range n.Nodes {
			walk(&n.Nodes[i])
		}
	}
	walk(n)
	return b.String()
}

func tableRows(tbl *xmlNode) []string {
	var rows []string
	for i := range tbl.Nodes {
		tr := &tbl.Nodes[i]
		if tr.XMLName.Local != "tr" {
			continue
		}
		var cells []string
		for j := range tr.Nodes {
			tc := &tr.Nodes[j]
			if tc.XMLName.Local != "tc" {
				continue
			}
			var paras []string
			for k := range tc.Nodes {
				if tc.Nodes[k].XMLName.Local == "p" {
					paras = append(paras, paragraphText(&tc.Nodes[k]))
				}
			}
			cell := strings.TrimSpace(strings.Join(paras, "\n"))
			cells = append(cells, strings.ReplaceAll(cell, "\n", " "))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
	}
	return rows
}

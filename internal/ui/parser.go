package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a primitive stylesheet: selectors .class, #id or a bare element type, each
// with "key: value;" declarations. Combinators and at-rules are skipped. Later rules override
// earlier ones for the same node.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)
	var cur *Rule
	skip := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != io.EOF {
				return sheet, fmt.Errorf("parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			skip++
		case css.EndAtRuleGrammar:
			if skip > 0 {
				skip--
			}
		case css.BeginRulesetGrammar:
			if skip > 0 {
				continue
			}
			sel := selector(p.Values())
			if sel == "" {
				cur = nil
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: make(map[string]string)})
			cur = &sheet.Rules[len(sheet.Rules)-1]
		case css.DeclarationGrammar:
			if cur == nil || skip > 0 {
				continue
			}
			cur.Props[strings.ToLower(string(data))] = tokensText(p.Values())
		case css.EndRulesetGrammar:
			cur = nil
		}
	}
}

// selector returns a single simple selector, or "" for anything compound.
func selector(toks []css.Token) string {
	sel := strings.TrimSpace(tokensText(toks))
	if sel == "" || strings.ContainsAny(sel, " >+~,:[*") {
		return ""
	}
	if sel[0] == '.' || sel[0] == '#' {
		if len(sel) < 2 {
			return ""
		}
	}
	return sel
}

func tokensText(toks []css.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

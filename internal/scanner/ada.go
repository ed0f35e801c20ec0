// Package scanner extracts per-file dependency metadata from source files:
// the units an Ada source's context clause imports, and the #include
// targets of a C/C++ translation unit (spec 4.9's "source scanners produce
// unit name, kind, imports"). Ada is a small hand-rolled lexer/scanner in
// the style of the project-file parser; C/C++ reuses tree-sitter.
package scanner

import (
	"strings"

	"github.com/briot/gprdeps/internal/errors"
)

// AdaKind classifies what an Ada source declares, once its context clause
// has been consumed.
type AdaKind int

const (
	AdaUnit AdaKind = iota
	AdaSeparate
)

// AdaResult is what scanning one Ada source file's header yields: the
// units it imports via with-clauses, and — for a subunit — the parent it
// is separate from.
type AdaResult struct {
	Imports [][]string
	Kind    AdaKind
	Parent  []string
}

type adaTok int

const (
	adaEOF adaTok = iota
	adaWith
	adaUse
	adaType
	adaPragma
	adaLimited
	adaPrivate
	adaSeparate
	adaGeneric
	adaPackage
	adaProcedure
	adaFunction
	adaIdentifier
	adaDot
	adaComma
	adaSemicolon
	adaOpenParen
	adaCloseParen
)

var adaKeywords = map[string]adaTok{
	"with":      adaWith,
	"use":       adaUse,
	"type":      adaType,
	"pragma":    adaPragma,
	"limited":   adaLimited,
	"private":   adaPrivate,
	"separate":  adaSeparate,
	"generic":   adaGeneric,
	"package":   adaPackage,
	"procedure": adaProcedure,
	"function":  adaFunction,
}

type adaToken struct {
	kind adaTok
	text string
}

type adaLexer struct {
	src []rune
	pos int
}

func newAdaLexer(src string) *adaLexer {
	return &adaLexer{src: []rune(src)}
}

func (l *adaLexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *adaLexer) at(off int) (rune, bool) {
	if l.pos+off >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+off], true
}

func adaIsWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func adaIsWordCont(r rune) bool {
	return adaIsWordStart(r) || (r >= '0' && r <= '9')
}

func (l *adaLexer) skipTrivia() {
	for {
		r, ok := l.peek()
		if !ok {
			return
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.pos++
		case r == '-':
			if n, ok := l.at(1); ok && n == '-' {
				for {
					r, ok := l.peek()
					if !ok || r == '\n' {
						break
					}
					l.pos++
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *adaLexer) next() adaToken {
	l.skipTrivia()
	r, ok := l.peek()
	if !ok {
		return adaToken{kind: adaEOF}
	}
	switch {
	case adaIsWordStart(r):
		start := l.pos
		for {
			r, ok := l.peek()
			if !ok || !adaIsWordCont(r) {
				break
			}
			l.pos++
		}
		raw := strings.ToLower(string(l.src[start:l.pos]))
		if kind, ok := adaKeywords[raw]; ok {
			return adaToken{kind: kind, text: raw}
		}
		return adaToken{kind: adaIdentifier, text: raw}
	case r == '.':
		l.pos++
		return adaToken{kind: adaDot, text: "."}
	case r == ',':
		l.pos++
		return adaToken{kind: adaComma, text: ","}
	case r == ';':
		l.pos++
		return adaToken{kind: adaSemicolon, text: ";"}
	case r == '(':
		l.pos++
		return adaToken{kind: adaOpenParen, text: "("}
	case r == ')':
		l.pos++
		return adaToken{kind: adaCloseParen, text: ")"}
	case r == '"':
		// string literal (pragma argument, mostly) — skip wholesale
		l.pos++
		for {
			r, ok := l.peek()
			if !ok || r == '"' {
				break
			}
			l.pos++
		}
		if _, ok := l.peek(); ok {
			l.pos++
		}
		return l.next()
	case r == '\'':
		// character literal or tick — neither matters to import scanning,
		// skip the one or two characters it spans
		l.pos++
		if r2, ok := l.peek(); ok && r2 != '\'' {
			if n, ok := l.at(1); ok && n == '\'' {
				l.pos += 2
			}
		}
		return l.next()
	default:
		l.pos++
		return l.next()
	}
}

// ScanAda reads an Ada source's context clause (with/use/pragma/limited/
// private/separate/generic, per spec) and returns the units it imports,
// stopping at the first package/procedure/function declaration — the
// point where import scanning is done (ada_scanner.rs's parse_file).
func ScanAda(src string) (AdaResult, error) {
	l := newAdaLexer(src)
	tok := l.next()
	var res AdaResult

	for {
		switch tok.kind {
		case adaUse, adaWith:
			isWith := tok.kind == adaWith
			tok = l.next()
			if tok.kind == adaType {
				tok = l.next()
			}
			for {
				name, next, err := scanAdaQName(l, tok)
				if err != nil {
					return res, err
				}
				if isWith {
					res.Imports = append(res.Imports, name)
				}
				tok = next
				if tok.kind == adaComma {
					tok = l.next()
					continue
				}
				break
			}
			if tok.kind != adaSemicolon {
				return res, errors.Newf(errors.KindWrongToken, "expected ';' after with/use clause, got %v", tok)
			}
			tok = l.next()

		case adaPragma:
			tok = l.next() // pragma name
			if tok.kind == adaIdentifier {
				tok = l.next()
			}
			if tok.kind == adaOpenParen {
				depth := 1
				for depth > 0 {
					tok = l.next()
					switch tok.kind {
					case adaOpenParen:
						depth++
					case adaCloseParen:
						depth--
					case adaEOF:
						return res, errors.New(errors.KindUnexpectedEOF, "unterminated pragma argument list")
					}
				}
				tok = l.next()
			}
			if tok.kind == adaSemicolon {
				tok = l.next()
			}

		case adaLimited, adaPrivate:
			tok = l.next()

		case adaSeparate:
			tok = l.next()
			if tok.kind != adaOpenParen {
				return res, errors.Newf(errors.KindWrongToken, "expected '(' after separate, got %v", tok)
			}
			tok = l.next()
			name, next, err := scanAdaQName(l, tok)
			if err != nil {
				return res, err
			}
			res.Kind = AdaSeparate
			res.Parent = name
			tok = next
			if tok.kind != adaCloseParen {
				return res, errors.Newf(errors.KindWrongToken, "expected ')' after separate parent, got %v", tok)
			}
			tok = l.next()

		case adaGeneric:
			// Skip the generic formal part. A "with procedure/function/
			// package" formal subprogram parameter isn't a context clause
			// and must not be mistaken for the real unit declaration that
			// follows the formal part.
			tok = l.next()
			afterWith := false
			for tok.kind != adaEOF {
				isDecl := tok.kind == adaPackage || tok.kind == adaProcedure || tok.kind == adaFunction
				if isDecl && !afterWith {
					break
				}
				afterWith = tok.kind == adaWith
				tok = l.next()
			}

		case adaPackage, adaProcedure, adaFunction:
			return res, nil

		case adaEOF:
			return res, nil

		default:
			return res, errors.Newf(errors.KindWrongToken, "unexpected token %v at start of compilation unit", tok)
		}
	}
}

func scanAdaQName(l *adaLexer, tok adaToken) ([]string, adaToken, error) {
	if tok.kind != adaIdentifier {
		return nil, tok, errors.Newf(errors.KindWrongToken, "expected identifier, got %v", tok)
	}
	parts := []string{tok.text}
	tok = l.next()
	for tok.kind == adaDot {
		tok = l.next()
		if tok.kind != adaIdentifier {
			return nil, tok, errors.Newf(errors.KindWrongToken, "expected identifier after '.', got %v", tok)
		}
		parts = append(parts, tok.text)
		tok = l.next()
	}
	return parts, tok, nil
}

package scanner

import (
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/briot/gprdeps/internal/errors"
)

// CppResult is what scanning a C/C++ translation unit yields: every
// #include target, in source order, both quoted ("local.h") and
// angle-bracket (<system.h>) forms, with the quotes or angle brackets
// removed.
type CppResult struct {
	Includes []string
}

var (
	cppOnce     sync.Once
	cppLanguage *tree_sitter.Language
	cppQuery    *tree_sitter.Query
)

func cppInit() {
	cppLanguage = tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	cppQuery, _ = tree_sitter.NewQuery(cppLanguage, `(preproc_include path: (_) @path)`)
}

// ScanCpp walks the whole translation unit for #include directives, unlike
// a scanner that stops at the first one — the spec calls out that
// shortcut as a known gap in the reference implementation, and a tree-
// sitter query naturally covers the full file instead.
func ScanCpp(src []byte) (CppResult, error) {
	cppOnce.Do(cppInit)
	if cppQuery == nil {
		return CppResult{}, errors.New(errors.KindWrongToken, "c++ grammar query failed to compile")
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(cppLanguage); err != nil {
		return CppResult{}, errors.Newf(errors.KindWrongToken, "c++ parser setup: %v", err)
	}

	tree := parser.Parse(src, nil)
	defer tree.Close()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	var res CppResult
	matches := cursor.Matches(cppQuery, tree.RootNode(), src)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, c := range match.Captures {
			text := string(src[c.Node.StartByte():c.Node.EndByte()])
			res.Includes = append(res.Includes, unquoteInclude(text))
		}
	}
	return res, nil
}

func unquoteInclude(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		if raw[0] == '"' && raw[len(raw)-1] == '"' {
			return raw[1 : len(raw)-1]
		}
		if raw[0] == '<' && raw[len(raw)-1] == '>' {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL reads <dir>/.gprdeps.kdl. It returns ok=false, no error, when the
// file does not exist.
func LoadKDL(dir string) (Settings, bool, error) {
	path := filepath.Join(dir, ".gprdeps.kdl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := parseKDL(string(content), dir)
	if err != nil {
		return Settings{}, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, true, nil
}

func parseKDL(content, dir string) (Settings, error) {
	cfg := Settings{}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return cfg, err
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "report_missing_source_dirs":
			if b, ok := firstBoolArg(n); ok {
				cfg.ReportMissingSourceDirs = b
			}
		case "resolve_symbolic_links":
			if b, ok := firstBoolArg(n); ok {
				cfg.ResolveSymbolicLinks = b
			}
		case "trim":
			if b, ok := firstBoolArg(n); ok {
				cfg.Trim = b
			}
		case "relto":
			if s, ok := firstStringArg(n); ok {
				cfg.RelTo = resolvePath(dir, s)
			}
		case "root":
			for _, s := range collectStringArgs(n) {
				cfg.Root = append(cfg.Root, resolvePath(dir, s))
			}
		case "runtime_gpr":
			for _, s := range collectStringArgs(n) {
				cfg.RuntimeGPR = append(cfg.RuntimeGPR, resolvePath(dir, s))
			}
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		}
	}
	return cfg, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(dir, p))
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

// collectStringArgs reads either inline arguments (`root "a" "b"`) or
// block-style children (`exclude { "a"; "b" }`).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

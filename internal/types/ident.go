// Package types holds the small, dependency-free data types shared across
// the parser, evaluator, and graph: interned identifiers, qualified names,
// the raw statement/expression AST produced by the project-file parser, and
// package/attribute name enumerations.
package types

import "github.com/briot/gprdeps/internal/strintern"

// Ident is an interned string handle, used everywhere a project file
// mentions a name: project names, variable names, attribute index values,
// unit names.
type Ident = strintern.ID

package types

import (
	"fmt"

	"github.com/briot/gprdeps/internal/strintern"
)

// SimpleNameKind distinguishes variable references (always Name) from the
// closed set of recognised attributes (spec Section 6).
type SimpleNameKind int

const (
	NameVariable SimpleNameKind = iota
	NameBodySuffix
	NameBody
	NameDefaultSwitches
	NameDotReplacement
	NameExcludedSourceFiles
	NameExecDir
	NameExecutable
	NameExternallyBuilt
	NameGlobalConfigurationPragmas
	NameLanguages
	NameLibraryDir
	NameLibraryInterface
	NameLibraryKind
	NameLibraryName
	NameLibraryOptions
	NameLibraryStandalone
	NameLibraryVersion
	NameLinkerOptions
	NameLocalConfigurationPragmas
	NameMain
	NameObjectDir
	NameProjectFiles
	NameSharedLibraryPrefix
	NameSourceDirs
	NameSourceFiles
	NameSpec
	NameSpecSuffix
	NameSourceListFile
	NameSwitches
	NameTarget
	NameVCSKind
	NameVCSRepositoryRoot
)

// SimpleName is an unqualified name: either a variable/attribute name
// without an index, or one of the handful of attributes that carry an
// index (language, file basename, or "others").
type SimpleName struct {
	Kind SimpleNameKind

	// Name holds the variable name when Kind == NameVariable.
	Name Ident

	// Index holds the attribute index for Body, BodySuffix, DefaultSwitches,
	// Executable, Spec, SpecSuffix and Switches. It is the zero value
	// (StringOrOthers{}) for every other kind.
	Index StringOrOthers
}

func NewVarName(lower Ident) SimpleName {
	return SimpleName{Kind: NameVariable, Name: lower}
}

// attrShape describes, for each recognised attribute, whether it takes an
// index (acceptsIdx) and, when it does, whether that index may be "others"
// (allowOthers).
type attrShape struct {
	kind        SimpleNameKind
	acceptsIdx  bool
	allowOthers bool
}

var attrsByLowerName = map[string]attrShape{
	"body_suffix":                  {NameBodySuffix, true, false},
	"body":                         {NameBody, true, false},
	"default_switches":             {NameDefaultSwitches, true, true},
	"dot_replacement":              {NameDotReplacement, false, false},
	"excluded_source_files":        {NameExcludedSourceFiles, false, false},
	"exec_dir":                     {NameExecDir, false, false},
	"executable":                   {NameExecutable, true, false},
	"externally_built":             {NameExternallyBuilt, false, false},
	"global_configuration_pragmas": {NameGlobalConfigurationPragmas, false, false},
	"languages":                    {NameLanguages, false, false},
	"library_dir":                  {NameLibraryDir, false, false},
	"library_interface":            {NameLibraryInterface, false, false},
	"library_kind":                 {NameLibraryKind, false, false},
	"library_name":                 {NameLibraryName, false, false},
	"library_options":              {NameLibraryOptions, false, false},
	"library_standalone":           {NameLibraryStandalone, false, false},
	"library_version":              {NameLibraryVersion, false, false},
	"linker_options":               {NameLinkerOptions, false, false},
	"local_configuration_pragmas":  {NameLocalConfigurationPragmas, false, false},
	"main":                         {NameMain, false, false},
	"object_dir":                   {NameObjectDir, false, false},
	"project_files":                {NameProjectFiles, false, false},
	"shared_library_prefix":        {NameSharedLibraryPrefix, false, false},
	"source_dirs":                  {NameSourceDirs, false, false},
	"source_files":                 {NameSourceFiles, false, false},
	"source_list_file":             {NameSourceListFile, false, false},
	"spec":                         {NameSpec, true, false},
	"spec_suffix":                  {NameSpecSuffix, true, false},
	"switches":                     {NameSwitches, true, true},
	"target":                       {NameTarget, false, false},
	"vcs_kind":                     {NameVCSKind, false, false},
	"vcs_repository_root":          {NameVCSRepositoryRoot, false, false},
}

// lowerNameByKind inverts attrsByLowerName, for String's use.
var lowerNameByKind = func() map[SimpleNameKind]string {
	out := make(map[SimpleNameKind]string, len(attrsByLowerName))
	for lower, shape := range attrsByLowerName {
		out[shape.kind] = lower
	}
	return out
}()

// String renders sn the way a project file would spell it: the bare
// variable name, or the attribute's name, optionally followed by its
// parenthesized index.
func (sn SimpleName) String(tbl *strintern.Table) string {
	if sn.Kind == NameVariable {
		return tbl.Lookup(sn.Name)
	}
	name := lowerNameByKind[sn.Kind]
	if sn.Index == (StringOrOthers{}) {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, sn.Index.String(tbl))
}

// NewAttrName builds an attribute SimpleName, detecting whether an index
// was required and matches what this attribute accepts.
func NewAttrName(lower string, idx *StringOrOthers) (SimpleName, error) {
	shape, ok := attrsByLowerName[lower]
	if !ok {
		if idx != nil {
			return SimpleName{}, fmt.Errorf("invalid_attribute_with_index: %s", lower)
		}
		return SimpleName{}, fmt.Errorf("invalid_attribute: %s", lower)
	}
	switch {
	case shape.acceptsIdx && idx != nil:
		if idx.IsOthers && !shape.allowOthers {
			return SimpleName{}, fmt.Errorf("invalid_attribute_with_others: %s", lower)
		}
		return SimpleName{Kind: shape.kind, Index: *idx}, nil
	case !shape.acceptsIdx && idx == nil:
		return SimpleName{Kind: shape.kind}, nil
	case shape.acceptsIdx && idx == nil:
		return SimpleName{}, fmt.Errorf("missing_index_for_attribute: %s", lower)
	default:
		return SimpleName{}, fmt.Errorf("unexpected_index_for_attribute: %s", lower)
	}
}

// IsCaseInsensitiveAttr reports, for a lower-cased attribute name, whether its
// index is case-insensitive (first) and whether its value is (second) —
// matches the `Switches`/`Body`/`Spec`/language-indexed family.
func IsCaseInsensitiveAttr(lower string) (indexInsensitive, valueInsensitive bool) {
	switch lower {
	case "languages":
		return false, true
	case "body", "spec", "body_suffix", "spec_suffix", "switches", "default_switches":
		return true, false
	default:
		return false, false
	}
}

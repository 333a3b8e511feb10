package intermediate

import (
	"regexp"
	"strings"

	"stexls/diag"
	"stexls/latex"
	"stexls/util"
)

// classifier tries to build a Node from e. The bool return reports
// whether e's name matched this variant's pattern at all; when true and
// err is non-nil, the environment matched but failed shape validation
// (a classification fault, recorded at e's location and suppressing the
// node, though children are still walked).
type classifier func(e *latex.Environment) (Node, error, bool)

// classifiers is tried in this exact declared order (§4.1).
var classifiers = []classifier{
	classifyScope,
	classifyModSig,
	classifyModNl,
	classifyModule,
	classifyTrefi,
	classifyDefi,
	classifySymi,
	classifySymdef,
	classifyImportModule,
	classifyGImport,
	classifyGStructure,
	classifyView,
	classifyViewSig,
	classifyTassign,
}

// Classify tries every classifier in order and returns the first match.
// ok is false if no classifier recognized e.Name at all.
func Classify(e *latex.Environment) (Node, error, bool) {
	for _, c := range classifiers {
		if node, err, matched := c(e); matched {
			return node, err, true
		}
	}
	return nil, nil, false
}

func rargTexts(e *latex.Environment) []string {
	out := make([]string, len(e.RArgs))
	for i, t := range e.RArgs {
		out[i] = t.Text
	}
	return out
}

func namedOArg(e *latex.Environment, name string) (string, bool) {
	if e.OArgs.Named == nil {
		return "", false
	}
	tok, ok := e.OArgs.Named[name]
	return tok.Text, ok
}

func hasUnnamedOArg(e *latex.Environment, name string) bool {
	for _, t := range e.OArgs.Unnamed {
		if t.Text == name {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAnnotation splits a "module?symbol" / "?symbol" / "symbol" style
// optional-argument string into its module and symbol parts.
func parseAnnotation(s string) (module, symbol string) {
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return "", s
}

// parseTargetAnnotation interprets a trefi target oarg: "module?symbol"
// pins both, "?symbol" pins the symbol within the enclosing module, and
// a bare "module" pins only the module, leaving the symbol name to the
// environment's own tokens.
func parseTargetAnnotation(s string) *TrefiAnnotation {
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		return &TrefiAnnotation{Module: s[:idx], Symbol: s[idx+1:]}
	}
	return &TrefiAnnotation{Module: s}
}

var (
	scopePattern   = regexp.MustCompile(`^n?omtext$|^example$|^omgroup$|^frame$`)
	modsigPattern  = regexp.MustCompile(`^modsig$`)
	modnlPattern   = regexp.MustCompile(`^(mh)?modnl$`)
	modulePattern  = regexp.MustCompile(`^module(\*)?$`)
	trefiPattern   = regexp.MustCompile(`^([ma]*)([dDtT])ref([ivx]+)(s)?(\*)?$`)
	defiPattern    = regexp.MustCompile(`^([ma]*)([dD])ef([ivx]+)(s)?(\*)?$`)
	symiPattern    = regexp.MustCompile(`^sym([ivx]+)(\*)?$`)
	symdefPattern  = regexp.MustCompile(`^symdef(\*)?$`)
	importModPat   = regexp.MustCompile(`^(import|use)(mh)?module(\*)?$`)
	gimportPattern = regexp.MustCompile(`^g(import|use)(\*)?$`)
	gstructurePat  = regexp.MustCompile(`^gstructure(\*)?$`)
	viewPattern    = regexp.MustCompile(`^(mhview|gviewnl)$`)
	viewsigPattern = regexp.MustCompile(`^gviewsig$`)
	tassignPattern = regexp.MustCompile(`^tassign$`)
)

func classifyScope(e *latex.Environment) (Node, error, bool) {
	if !scopePattern.MatchString(e.Name.Text) {
		return nil, nil, false
	}
	n := &ScopeNode{base: base{loc: e.Location}, Name: e.Name.Text}
	return n, nil, true
}

func classifyModSig(e *latex.Environment) (Node, error, bool) {
	if !modsigPattern.MatchString(e.Name.Text) {
		return nil, nil, false
	}
	if len(e.RArgs) != 1 {
		return nil, diag.Errorf("modsig requires exactly one argument (the module name), got %d", len(e.RArgs)), true
	}
	return &ModSigNode{base: base{loc: e.Location}, Name: e.RArgs[0].Text}, nil, true
}

func classifyModNl(e *latex.Environment) (Node, error, bool) {
	m := modnlPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	if len(e.RArgs) != 2 {
		return nil, diag.Errorf("modnl requires exactly two arguments (name, lang), got %d", len(e.RArgs)), true
	}
	return &ModNlNode{base: base{loc: e.Location}, Name: e.RArgs[0].Text, Lang: e.RArgs[1].Text, MH: m[1] == "mh"}, nil, true
}

func classifyModule(e *latex.Environment) (Node, error, bool) {
	m := modulePattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	n := &ModuleNode{base: base{loc: e.Location}, Star: m[1] == "*"}
	if v, ok := namedOArg(e, "id"); ok {
		n.ID = v
	} else if len(e.RArgs) > 0 {
		n.ID = e.RArgs[0].Text
	}
	return n, nil, true
}

func classifyTrefi(e *latex.Environment) (Node, error, bool) {
	m := trefiPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	prefix, letter, roman, plural, star := m[1], m[2], m[3], m[4] == "s", m[5] == "*"
	arity, err := util.RomanToArity(roman)
	if err != nil {
		return nil, diag.Errorf("trefi %q has an invalid roman-numeral suffix: %v", e.Name.Text, err), true
	}
	a := strings.Contains(prefix, "a")
	expected := arity
	if a {
		expected++
	}
	tokens := rargTexts(e)
	if len(tokens) != expected {
		return nil, diag.Errorf("trefi %q expects %d argument(s), got %d", e.Name.Text, expected, len(tokens)), true
	}
	n := &TrefiNode{
		base:    base{loc: e.Location},
		Tokens:  tokens,
		M:       strings.Contains(prefix, "m"),
		A:       a,
		Capital: letter == "D" || letter == "T",
		Drefi:   letter == "d" || letter == "D",
		Arity:   arity,
		Plural:  plural,
		Star:    star,
	}
	if len(e.OArgs.Unnamed) > 0 {
		n.Annotation = parseTargetAnnotation(e.OArgs.Unnamed[0].Text)
	}
	return n, nil, true
}

func classifyDefi(e *latex.Environment) (Node, error, bool) {
	m := defiPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	prefix, letter, roman, plural, star := m[1], m[2], m[3], m[4] == "s", m[5] == "*"
	arity, err := util.RomanToArity(roman)
	if err != nil {
		return nil, diag.Errorf("defi %q has an invalid roman-numeral suffix: %v", e.Name.Text, err), true
	}
	a := strings.Contains(prefix, "a")
	expected := arity
	if a {
		expected++
	}
	tokens := rargTexts(e)
	if len(tokens) != expected {
		return nil, diag.Errorf("defi %q expects %d argument(s), got %d", e.Name.Text, expected, len(tokens)), true
	}
	n := &DefiNode{
		base:    base{loc: e.Location},
		Tokens:  tokens,
		M:       strings.Contains(prefix, "m"),
		A:       a,
		Capital: letter == "D",
		Arity:   arity,
		Plural:  plural,
		Star:    star,
	}
	if len(e.OArgs.Unnamed) > 0 {
		n.Annotation = e.OArgs.Unnamed[0].Text
		n.HasName = true
	}
	return n, nil, true
}

func classifySymi(e *latex.Environment) (Node, error, bool) {
	m := symiPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	arity, err := util.RomanToArity(m[1])
	if err != nil {
		return nil, diag.Errorf("sym %q has an invalid roman-numeral suffix: %v", e.Name.Text, err), true
	}
	tokens := rargTexts(e)
	if len(tokens) != arity {
		return nil, diag.Errorf("sym %q expects %d argument(s), got %d", e.Name.Text, arity, len(tokens)), true
	}
	n := &SymiNode{base: base{loc: e.Location}, Tokens: tokens, Arity: arity, Star: m[2] == "*"}
	if hasUnnamedOArg(e, "noverb") {
		n.NoverbAll = true
	}
	if v, ok := namedOArg(e, "noverb"); ok {
		n.NoverbLangs = splitCSV(v)
	}
	return n, nil, true
}

func classifySymdef(e *latex.Environment) (Node, error, bool) {
	m := symdefPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	if len(e.RArgs) < 1 {
		return nil, diag.Errorf("symdef requires a name argument"), true
	}
	n := &SymdefNode{
		base:       base{loc: e.Location},
		Name:       e.RArgs[0].Text,
		Star:       m[1] == "*",
		NamedOArgs: map[string]string{},
	}
	for _, u := range e.OArgs.Unnamed {
		n.UnnamedOArgs = append(n.UnnamedOArgs, u.Text)
	}
	for k, v := range e.OArgs.Named {
		n.NamedOArgs[k] = v.Text
	}
	return n, nil, true
}

func classifyImportModule(e *latex.Environment) (Node, error, bool) {
	m := importModPat.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	if len(e.RArgs) != 1 {
		return nil, diag.Errorf("%s requires exactly one argument (the module name), got %d", e.Name.Text, len(e.RArgs)), true
	}
	n := &ImportModuleNode{
		base:   base{loc: e.Location},
		Module: e.RArgs[0].Text,
		Export: m[1] == "import",
		MHMode: m[2] == "mh",
		Star:   m[3] == "*",
	}
	if v, ok := namedOArg(e, "mhrepos"); ok {
		n.MHRepos, n.HasRepo = v, true
	} else if v, ok := namedOArg(e, "repos"); ok {
		n.MHRepos, n.HasRepo = v, true
	}
	if v, ok := namedOArg(e, "dir"); ok {
		n.Dir, n.HasDir = v, true
	}
	if v, ok := namedOArg(e, "path"); ok {
		n.Path, n.HasPath = v, true
	}
	if v, ok := namedOArg(e, "load"); ok {
		n.Load, n.HasLoad = v, true
	}

	var err error
	if n.MHMode {
		switch {
		case n.HasDir && n.HasPath:
			err = diag.Errorf("%s: dir and path are mutually exclusive in mh-mode", e.Name.Text)
		case n.HasRepo && !n.HasDir && !n.HasPath:
			err = diag.Errorf("%s: mhrepos requires dir or path in mh-mode", e.Name.Text)
		case n.HasLoad:
			err = diag.Errorf("%s: load is forbidden in mh-mode", e.Name.Text)
		}
	} else {
		switch {
		case n.HasRepo || n.HasDir || n.HasPath:
			err = diag.Errorf("%s: mhrepos/dir/path are forbidden outside mh-mode", e.Name.Text)
		case !n.HasLoad:
			err = diag.Errorf("%s: load is required outside mh-mode", e.Name.Text)
		}
	}
	return n, err, true
}

func classifyGImport(e *latex.Environment) (Node, error, bool) {
	m := gimportPattern.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	if len(e.RArgs) != 1 {
		return nil, diag.Errorf("%s requires exactly one argument (the module name), got %d", e.Name.Text, len(e.RArgs)), true
	}
	n := &GImportNode{base: base{loc: e.Location}, Module: e.RArgs[0].Text, Export: m[1] == "import", Star: m[2] == "*"}
	if v, ok := namedOArg(e, "repos"); ok {
		n.Repository, n.HasRepo = v, true
	} else if len(e.OArgs.Unnamed) > 0 {
		n.Repository, n.HasRepo = e.OArgs.Unnamed[0].Text, true
	}
	return n, nil, true
}

func classifyGStructure(e *latex.Environment) (Node, error, bool) {
	m := gstructurePat.FindStringSubmatch(e.Name.Text)
	if m == nil {
		return nil, nil, false
	}
	if len(e.RArgs) != 1 {
		return nil, diag.Errorf("gstructure requires exactly one argument (the module name), got %d", len(e.RArgs)), true
	}
	n := &GStructureNode{base: base{loc: e.Location}, Module: e.RArgs[0].Text, Star: m[1] == "*"}
	if v, ok := namedOArg(e, "mhrepos"); ok {
		n.MHRepos, n.HasRepo = v, true
	}
	return n, nil, true
}

func classifyView(e *latex.Environment) (Node, error, bool) {
	if !viewPattern.MatchString(e.Name.Text) {
		return nil, nil, false
	}
	gviewnl := e.Name.Text == "gviewnl"
	rargs := rargTexts(e)
	n := &ViewNode{base: base{loc: e.Location}, GViewNl: gviewnl}
	if v, ok := namedOArg(e, "fromrepos"); ok {
		n.FromRepo, n.HasRepo = v, true
	}
	if v, ok := namedOArg(e, "frompath"); ok {
		n.FromPath, n.HasPath = v, true
	}

	// Positional arguments: gviewnl takes {module}{lang}{import}..., the
	// plain view takes {module}{import}...
	if gviewnl {
		if len(rargs) < 2 {
			return n, diag.Errorf("gviewnl requires at least two arguments (module, lang), got %d", len(rargs)), true
		}
		n.Module = rargs[0]
		n.Lang, n.HasLang = rargs[1], true
		n.Imports = rargs[2:]
	} else {
		if len(rargs) < 1 {
			return n, diag.Errorf("%s requires at least one argument (the module name), got %d", e.Name.Text, len(rargs)), true
		}
		n.Module = rargs[0]
		n.Imports = rargs[1:]
	}

	var err error
	switch {
	case gviewnl && n.HasPath:
		err = diag.Errorf("gviewnl forbids a frompath argument")
	case !gviewnl && n.HasRepo:
		err = diag.Errorf("mhview forbids a fromrepos argument")
	}
	return n, err, true
}

func classifyViewSig(e *latex.Environment) (Node, error, bool) {
	if !viewsigPattern.MatchString(e.Name.Text) {
		return nil, nil, false
	}
	rargs := rargTexts(e)
	if len(rargs) < 1 {
		return nil, diag.Errorf("gviewsig requires at least one argument (the module name), got %d", len(rargs)), true
	}
	n := &ViewSigNode{base: base{loc: e.Location}, ModuleName: rargs[0], Imports: rargs[1:]}
	if v, ok := namedOArg(e, "fromrepos"); ok {
		n.FromRepo, n.HasRepo = v, true
	}
	return n, nil, true
}

func classifyTassign(e *latex.Environment) (Node, error, bool) {
	if !tassignPattern.MatchString(e.Name.Text) {
		return nil, nil, false
	}
	if len(e.RArgs) != 2 {
		return nil, diag.Errorf("tassign requires exactly two arguments (source, target), got %d", len(e.RArgs)), true
	}
	sourceModule, sourceSymbol := parseAnnotation(e.RArgs[0].Text)
	targetModule, targetTerm := parseAnnotation(e.RArgs[1].Text)
	n := &TassignNode{
		base:         base{loc: e.Location},
		SourceModule: sourceModule,
		SourceSymbol: sourceSymbol,
		TargetModule: targetModule,
		TargetTerm:   targetTerm,
		TargetsValue: hasUnnamedOArg(e, "v"),
	}
	return n, nil, true
}

package compiler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"stexls/diag"
	"stexls/logging"
	"stexls/reftype"
	"stexls/span"
	"stexls/symtab"
	"stexls/util"
)

// objectSchema is bumped whenever the on-disk envelope's payload shape
// changes incompatibly; LoadObject refuses to decode a mismatched one.
const objectSchema uint16 = 1

// envelope is the versioned wrapper persisted to a .stexobj file (§4.3.2).
type envelope struct {
	Schema  uint16
	Payload []byte
}

// symbolRecord is the flat, serializable projection of one symtab.Symbol,
// referencing its children by index within the enclosing objectRecord's
// Symbols slice rather than by pointer.
type symbolRecord struct {
	Kind       symtab.Kind
	Name       string
	Loc        span.Location
	Children   []int
	ModuleType symtab.ModuleType
	DefType    symtab.DefType
	Access     symtab.AccessModifier
	Noverb     bool
	Noverbs    []string
	BindLang   string
}

type referenceRecord struct {
	Range span.Range
	Scope int
	Name  []string
	Kind  reftype.Kind
}

type dependencyRecord struct {
	Range          span.Range
	Scope          int
	ModuleName     string
	ModuleTypeHint reftype.Kind
	FileHint       string
	Export         bool
}

type diagRecord struct {
	Range span.Range
	Kind  string
	Text  string
}

type objectRecord struct {
	File         string
	CreationTime time.Time
	Symbols      []symbolRecord
	References   []referenceRecord
	Dependencies []dependencyRecord
	Diagnostics  []diagRecord
}

// store serializes obj into the on-disk cache path derived from its File
// (§4.3.2, util.ObjectCachePath), writing atomically via a temp file plus
// rename so a crash never leaves a half-written cache entry.
func (c *Compiler) store(obj *Object) error {
	rec := toRecord(obj)
	payload, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	env := envelope{Schema: objectSchema, Payload: payload}
	data, err := msgpack.Marshal(env)
	if err != nil {
		return err
	}

	dest := util.ObjectCachePath(c.cfg.OutDir, obj.File)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

// LoadObject reads and decodes the cache entry for file, per §4.3.2.
// A missing file or a schema mismatch/decode failure is reported as the
// corresponding diag error rather than a bare I/O error.
func LoadObject(outdir, file string) (*Object, error) {
	path := util.ObjectCachePath(outdir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &diag.ObjectFileNotFoundError{Path: path}
		}
		return nil, err
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, &diag.ObjectFileCorruptError{Path: path, Reason: err.Error()}
	}
	if env.Schema != objectSchema {
		return nil, &diag.ObjectFileCorruptError{Path: path, Reason: "schema mismatch"}
	}

	var rec objectRecord
	if err := msgpack.Unmarshal(env.Payload, &rec); err != nil {
		return nil, &diag.ObjectFileCorruptError{Path: path, Reason: err.Error()}
	}
	return fromRecord(&rec), nil
}

func toRecord(obj *Object) *objectRecord {
	rec := &objectRecord{
		File:         obj.File,
		CreationTime: obj.CreationTime,
	}

	index := map[symtab.Symbol]int{}
	var order []symtab.Symbol
	symtab.Traverse(obj.SymbolTable, func(s symtab.Symbol) {
		index[s] = len(order)
		order = append(order, s)
	}, nil)

	for _, s := range order {
		sr := symbolRecord{Kind: s.Kind(), Name: s.Name(), Loc: s.Location(), Access: s.AccessModifier()}
		for _, c := range s.Children() {
			sr.Children = append(sr.Children, index[c])
		}
		switch v := s.(type) {
		case *symtab.ModuleSymbol:
			sr.ModuleType = v.ModuleType
		case *symtab.DefSymbol:
			sr.DefType = v.DefType
			sr.Noverb = v.Noverb
			sr.Noverbs = v.Noverbs
		case *symtab.BindingSymbol:
			sr.BindLang = v.Lang
		}
		rec.Symbols = append(rec.Symbols, sr)
	}

	scopeIndex := func(s symtab.Symbol) int {
		if i, ok := index[s]; ok {
			return i
		}
		return -1
	}
	for _, r := range obj.References {
		rec.References = append(rec.References, referenceRecord{Range: r.Range, Scope: scopeIndex(r.Scope), Name: r.Name, Kind: r.Kind})
	}
	for _, d := range obj.Dependencies {
		rec.Dependencies = append(rec.Dependencies, dependencyRecord{Range: d.Range, Scope: scopeIndex(d.Scope), ModuleName: d.ModuleName, ModuleTypeHint: d.ModuleTypeHint, FileHint: d.FileHint, Export: d.Export})
	}
	for rng, errs := range obj.Errors {
		for _, e := range errs {
			rec.Diagnostics = append(rec.Diagnostics, diagRecord{Range: rng, Kind: diagKindOf(e), Text: e.Error()})
		}
	}
	return rec
}

func diagKindOf(err error) string {
	switch err.(type) {
	case *diag.CompilerError:
		return "CompilerError"
	case *diag.CompilerWarning:
		return "CompilerWarning"
	case *diag.LinkError:
		return "LinkError"
	case *diag.LinkWarning:
		return "LinkWarning"
	case *diag.Info:
		return "Info"
	default:
		return "CompilerError"
	}
}

func diagFromKind(kind, text string) error {
	switch kind {
	case "CompilerWarning":
		return &diag.CompilerWarning{Message: text}
	case "LinkError":
		return &diag.LinkError{Message: text}
	case "LinkWarning":
		return &diag.LinkWarning{Message: text}
	case "Info":
		return &diag.Info{Message: text}
	default:
		return &diag.CompilerError{Message: text}
	}
}

func fromRecord(rec *objectRecord) *Object {
	obj := &Object{
		File:         rec.File,
		CreationTime: rec.CreationTime,
		Errors:       map[span.Range][]error{},
	}

	symbols := make([]symtab.Symbol, len(rec.Symbols))
	for i, sr := range rec.Symbols {
		switch sr.Kind {
		case symtab.RootKind:
			symbols[i] = symtab.NewRoot(sr.Loc)
		case symtab.ModuleKind:
			symbols[i] = symtab.NewModule(sr.Name, sr.ModuleType, sr.Access, sr.Loc)
		case symtab.BindingKind:
			symbols[i] = symtab.NewBinding(sr.Name, sr.BindLang, sr.Loc)
		case symtab.DefKind:
			symbols[i] = symtab.NewDef(sr.Name, sr.DefType, sr.Access, sr.Noverb, sr.Noverbs, sr.Loc)
		case symtab.ScopeKind:
			symbols[i] = symtab.NewScope(sr.Name, sr.Access, sr.Loc)
		}
	}
	for i, sr := range rec.Symbols {
		for _, ci := range sr.Children {
			if err := symtab.AddChild(symbols[i], symbols[ci], true); err != nil {
				logging.Logger.Warn("reattaching cached symbol", "file", rec.File, "symbol", symbols[ci].Name(), "error", err)
			}
		}
	}
	if len(symbols) > 0 {
		if root, ok := symbols[0].(*symtab.RootSymbol); ok {
			obj.SymbolTable = root
		}
	}
	if obj.SymbolTable == nil {
		obj.SymbolTable = symtab.NewRoot(span.Location{Path: rec.File})
	}

	scopeOf := func(i int) symtab.Symbol {
		if i < 0 || i >= len(symbols) {
			return obj.SymbolTable
		}
		return symbols[i]
	}
	for _, r := range rec.References {
		obj.References = append(obj.References, Reference{Range: r.Range, Scope: scopeOf(r.Scope), Name: r.Name, Kind: r.Kind})
	}
	for _, d := range rec.Dependencies {
		obj.Dependencies = append(obj.Dependencies, Dependency{Range: d.Range, Scope: scopeOf(d.Scope), ModuleName: d.ModuleName, ModuleTypeHint: d.ModuleTypeHint, FileHint: d.FileHint, Export: d.Export})
	}
	for _, dr := range rec.Diagnostics {
		obj.Errors[dr.Range] = append(obj.Errors[dr.Range], diagFromKind(dr.Kind, dr.Text))
	}
	return obj
}

package extract

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"strings"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// Structured binary symbol extraction (spec.md §4.2 "Structured binary
// symbols"): no example repo in the pack carries a dedicated symbol-table
// library (claircore's elfnote package reads a single custom note
// section, not the general symbol/import tables), so this is built
// directly on the standard library's debug/elf, debug/pe, and
// debug/macho, the same way elfnote.go opens an *elf.File via
// debug/elf — see DESIGN.md for why no third-party library covers this.

func elfSymbols(data []byte, sourcePath string) ([]normalize.Raw, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []normalize.Raw
	emit := func(name string) {
		if name == "" {
			return
		}
		out = append(out, normalize.Raw{Text: name, SourcePath: sourcePath})
		if d := shallowDemangle(name); d != name {
			out = append(out, normalize.Raw{Text: d, SourcePath: sourcePath})
		}
	}

	if syms, err := f.Symbols(); err == nil {
		for _, s := range syms {
			emit(s.Name)
		}
	}
	if syms, err := f.DynamicSymbols(); err == nil {
		for _, s := range syms {
			emit(s.Name)
		}
	}
	for _, s := range f.Sections {
		emit(s.Name)
	}
	return out, nil
}

func peSymbols(data []byte, sourcePath string) ([]normalize.Raw, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []normalize.Raw
	for _, s := range f.Symbols {
		if s.Name != "" {
			out = append(out, normalize.Raw{Text: s.Name, SourcePath: sourcePath})
		}
	}
	for _, s := range f.Sections {
		out = append(out, normalize.Raw{Text: s.Name, SourcePath: sourcePath})
	}
	if imports, err := f.ImportedSymbols(); err == nil {
		for _, s := range imports {
			out = append(out, normalize.Raw{Text: s, SourcePath: sourcePath})
		}
	}
	return out, nil
}

func machoSymbols(data []byte, sourcePath string) ([]normalize.Raw, error) {
	if fat, err := macho.NewFatFile(bytes.NewReader(data)); err == nil {
		var out []normalize.Raw
		for _, arch := range fat.Arches {
			out = append(out, extractMachoFile(arch.File, sourcePath)...)
		}
		return out, nil
	}
	f, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return extractMachoFile(f, sourcePath), nil
}

func extractMachoFile(f *macho.File, sourcePath string) []normalize.Raw {
	var out []normalize.Raw
	if f == nil {
		return out
	}
	if f.Symtab != nil {
		for _, s := range f.Symtab.Syms {
			if s.Name != "" {
				out = append(out, normalize.Raw{Text: s.Name, SourcePath: sourcePath})
				if d := shallowDemangle(s.Name); d != s.Name {
					out = append(out, normalize.Raw{Text: d, SourcePath: sourcePath})
				}
			}
		}
	}
	for _, s := range f.Sections {
		out = append(out, normalize.Raw{Text: s.Name, SourcePath: sourcePath})
	}
	return out
}

// shallowDemangle strips a leading "_Z"/"__Z" Itanium mangling prefix
// (spec.md §4.2 "a shallow demangling where safe ... full Itanium
// demangling is not required"; SPEC_FULL.md's supplemented shallow
// demangling feature).
func shallowDemangle(name string) string {
	switch {
	case strings.HasPrefix(name, "__Z"):
		return name[3:]
	case strings.HasPrefix(name, "_Z"):
		return name[2:]
	}
	return name
}

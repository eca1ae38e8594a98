package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/strager/jackc/jack"
	"github.com/strager/jackc/vm"
)

const (
	jackExt = ".jack"
	vmExt   = ".vm"
)

// Batch compiles units in order into one linked program. All units share a
// session, so if/while label numbers keep counting across the batch.
type Batch struct {
	// KeepGoing continues past a failed unit and reports every failure.
	KeepGoing bool

	session jack.Session
	linked  vm.Program
	units   map[string]string
	order   []string
}

func NewBatch(keepGoing bool) *Batch {
	return &Batch{KeepGoing: keepGoing, units: map[string]string{}}
}

// expandInputs replaces each directory argument with the .jack files it
// contains, sorted by name.
func expandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot list %s", arg)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == jackExt {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, errors.Errorf("no %s files in %s", jackExt, arg)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

// Build adds every input in order. Without KeepGoing it stops at the first
// failure; otherwise the failures are returned together.
func (b *Batch) Build(args []string) error {
	paths, err := expandInputs(args)
	if err != nil {
		return err
	}
	var result error
	for _, path := range paths {
		if err := b.AddFile(path); err != nil {
			if !b.KeepGoing {
				return err
			}
			result = multierror.Append(result, err)
		}
	}
	return result
}

// AddFile reads one .jack or .vm file and links it.
func (b *Batch) AddFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read %s", path)
	}
	switch filepath.Ext(path) {
	case jackExt:
		return b.AddSource(path, string(src))
	case vmExt:
		unit, err := vm.ParseProgram(bytes.NewReader(src))
		if err != nil {
			return errors.Wrap(err, path)
		}
		b.add(path, unit)
		return nil
	default:
		return errors.Errorf("%s: expected a %s or %s file", path, jackExt, vmExt)
	}
}

// AddSource compiles one unit of source text and links it.
func (b *Batch) AddSource(filename string, src string) error {
	unit, err := b.session.Compile(filename, src)
	if err != nil {
		return err
	}
	b.add(filename, unit)
	return nil
}

func (b *Batch) add(filename string, unit *vm.Program) {
	if _, ok := b.units[filename]; !ok {
		b.order = append(b.order, filename)
	}
	b.units[filename] = unit.String()
	b.linked.Link(unit)
	glog.V(3).Infof("linked %s: %d instructions, %d statics so far", filename, unit.Len(), b.linked.Statics())
}

// Program is the linked result of every unit added so far.
func (b *Batch) Program() *vm.Program {
	return &b.linked
}

// Units lists the added units in order.
func (b *Batch) Units() []string {
	return b.order
}

// Unit returns the unlinked instruction text of one unit.
func (b *Batch) Unit(filename string) (string, bool) {
	text, ok := b.units[filename]
	return text, ok
}

// WriteUnits writes each unit's unlinked text to dir as <name>.vm.
func (b *Batch) WriteUnits(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create %s", dir)
	}
	for _, filename := range b.order {
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		out := filepath.Join(dir, base+vmExt)
		if err := os.WriteFile(out, []byte(b.units[filename]), 0o644); err != nil {
			return errors.Wrapf(err, "cannot write %s", out)
		}
	}
	return nil
}

// Summary describes the linked program for verbose output.
func (b *Batch) Summary() string {
	units := "units"
	if len(b.order) == 1 {
		units = "unit"
	}
	return fmt.Sprintf("%d %s, %s instructions, %d statics, %s",
		len(b.order), units,
		humanize.Comma(int64(b.linked.Len())),
		b.linked.Statics(),
		humanize.Bytes(uint64(len(b.linked.String()))))
}

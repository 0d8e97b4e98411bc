package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"circa/internal/ast"
	"circa/internal/source"
)

// FormatOutline prints the items of a parsed file, one per line, with inline
// modules indented under their header. Function bodies are elided.
func FormatOutline(w io.Writer, b *ast.Builder, file ast.FileID) error {
	f := b.Files.Get(file)
	if f == nil {
		return fmt.Errorf("file %d not found in builder", file)
	}
	return writeOutline(w, b, f.Items, 0)
}

func writeOutline(w io.Writer, b *ast.Builder, items []ast.ItemID, depth int) error {
	indent := strings.Repeat("    ", depth)
	for _, id := range items {
		var err error
		switch item := b.Items.Get(id); item.Kind {
		case ast.ItemFn:
			fn, ok := b.Items.Fn(id)
			if !ok {
				continue
			}
			line := b.FormatFnSignature(fn)
			if fn.Malformed {
				line += " // malformed"
			}
			_, err = fmt.Fprintf(w, "%s%s\n", indent, line)
		case ast.ItemMod:
			mod, ok := b.Items.Mod(id)
			if !ok {
				continue
			}
			vis := ""
			if mod.Pub {
				vis = "pub "
			}
			if !mod.Inline {
				_, err = fmt.Fprintf(w, "%s%smod %s;\n", indent, vis, b.Name(mod.Name))
				break
			}
			if _, err = fmt.Fprintf(w, "%s%smod %s {\n", indent, vis, b.Name(mod.Name)); err != nil {
				return err
			}
			if err = writeOutline(w, b, mod.Items, depth+1); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%s}\n", indent)
		case ast.ItemUse:
			use, ok := b.Items.Use(id)
			if !ok {
				continue
			}
			segs := make([]string, len(use.Path))
			for i, s := range use.Path {
				segs[i] = b.Name(s)
			}
			line := "use " + strings.Join(segs, "::")
			if use.Alias != source.NoStringID {
				line += " as " + b.Name(use.Alias)
			}
			_, err = fmt.Fprintf(w, "%s%s;\n", indent, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

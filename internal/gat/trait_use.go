package gat

import (
	"github.com/malphas-lang/nougat/internal/ast"
	"github.com/malphas-lang/nougat/internal/diag"
)

const singleImportMsg = "expected a single item in this import, e.g.\n" +
	"`use path::to::Trait`, or `use path::to::Trait as Renamed`"

// TransformUse keeps use and adds a hidden companion import that brings the
// auxiliary traits of names into scope next to the trait:
//
//	use a::Trait as R;
//	#[doc(hidden)]
//	/** Not part of the public API */
//	use a::{Trait__Item as R__Item};
func TransformUse(names []*ast.Ident, use *ast.UseItem) ([]ast.Item, error) {
	if len(names) == 0 {
		return nil, diag.NewError(errorAt(diag.CodeGatMissingAssocNames, use,
			"expected a list of associated type names, e.g. `#[gat(Item)]`"))
	}
	prefix, leaf, err := importLeaf(nil, use.Tree)
	if err != nil {
		return nil, err
	}

	group := &ast.UseGroup{}
	for _, name := range names {
		aux := ast.NewIdent(AuxTraitName(leaf.name.Name, name.Name), name.Span())
		switch {
		case leaf.rename == nil:
			group.Items = append(group.Items, &ast.UseName{Ident: aux})
		case leaf.rename.Name == "_":
			group.Items = append(group.Items, &ast.UseRename{Ident: aux, Rename: ast.CloneIdent(leaf.rename)})
		default:
			group.Items = append(group.Items, &ast.UseRename{
				Ident:  aux,
				Rename: ast.NewIdent(AuxTraitName(leaf.rename.Name, name.Name), name.Span()),
			})
		}
	}

	var tree ast.UseTree = group
	for i := len(prefix) - 1; i >= 0; i-- {
		tree = &ast.UsePath{Ident: ast.CloneIdent(prefix[i]), Tree: tree}
	}
	companion := &ast.UseItem{
		Attrs: []*ast.Attribute{
			newAttribute("doc", "(hidden)"),
			{Doc: "/** Not part of the public API */"},
		},
		Vis:    ast.CloneVis(use.Vis),
		Global: use.Global,
		Tree:   tree,
	}
	companion.SetSpan(use.Span())
	return []ast.Item{ast.CloneItem(use), companion}, nil
}

type importedName struct {
	name   *ast.Ident
	rename *ast.Ident
}

// importLeaf follows tree down to the single name it imports.
func importLeaf(prefix []*ast.Ident, tree ast.UseTree) ([]*ast.Ident, importedName, error) {
	switch t := tree.(type) {
	case *ast.UsePath:
		return importLeaf(append(prefix, t.Ident), t.Tree)
	case *ast.UseName:
		return prefix, importedName{name: t.Ident}, nil
	case *ast.UseRename:
		return prefix, importedName{name: t.Ident, rename: t.Rename}, nil
	case *ast.UseGroup:
		if len(t.Items) == 1 {
			return importLeaf(prefix, t.Items[0])
		}
	}
	return nil, importedName{}, diag.NewError(errorAt(diag.CodeGatUnsupportedImport, tree, singleImportMsg))
}

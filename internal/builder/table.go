package builder

import (
	"strings"

	"github.com/agentic-research/semtree/internal/mathml"
	"github.com/agentic-research/semtree/internal/pred"
	"github.com/agentic-research/semtree/internal/semantic"
)

func (p *processor) table(e *mathml.Element) *semantic.Node {
	if strings.Contains(e.AttrOr("semantics", ""), p.cfg.ProofMarker) {
		return p.proof(e)
	}
	var rows []*semantic.Node
	for _, c := range children(e) {
		rows = append(rows, p.tableRow(c, semantic.RoleTable))
	}
	n := p.t.MakeBranch(semantic.TypeTable, rows, nil)
	if pred.TableIsMultiline(p.t, n) {
		p.tableToMultiline(n)
	}
	return n
}

// tableRow builds a row from an mtr or mlabeledtr. Any other element is
// taken as a row with a single cell.
func (p *processor) tableRow(e *mathml.Element, role semantic.Role) *semantic.Node {
	var cells []*semantic.Node
	var labels []*semantic.Node
	switch e.Tag() {
	case mathml.TagMtr, mathml.TagMlabeledtr:
		elems := children(e)
		if e.Tag() == mathml.TagMlabeledtr && len(elems) > 0 {
			label := p.cell(elems[0], semantic.RoleLabel)
			labels = append(labels, label)
			elems = elems[1:]
		}
		for _, c := range elems {
			cells = append(cells, p.cell(c, role))
		}
	default:
		cells = append(cells, p.cell(e, role))
	}
	n := p.t.MakeBranch(semantic.TypeRow, cells, labels)
	n.Role = role
	if e.Tag() == mathml.TagMtr || e.Tag() == mathml.TagMlabeledtr {
		n.Origin = origin(e)
	}
	return n
}

// cell wraps the content of an mtd, or any stray element, as a table cell.
func (p *processor) cell(e *mathml.Element, role semantic.Role) *semantic.Node {
	var content *semantic.Node
	if e.Tag() == mathml.TagMtd {
		content = p.row(p.parseAll(children(e)))
	} else {
		content = p.parse(e)
	}
	n := p.t.MakeBranch(semantic.TypeCell, []*semantic.Node{content}, nil)
	n.Role = role
	if e.Tag() == mathml.TagMtd {
		n.Origin = origin(e)
	}
	return n
}

func (p *processor) tableToMultiline(table *semantic.Node) {
	table.Type = semantic.TypeMultiline
	for _, row := range p.t.Children(table) {
		p.rowToLine(row, semantic.RoleMultiline)
	}
}

// rowToLine lifts the content of a single-cell row into a line.
func (p *processor) rowToLine(row *semantic.Node, role semantic.Role) {
	if row.Type != semantic.TypeRow || len(row.Children) != 1 {
		return
	}
	cell := p.t.Child(row, 0)
	if cell.Type != semantic.TypeCell {
		return
	}
	row.Type = semantic.TypeLine
	row.Role = role
	p.t.SetChildren(row, p.t.Children(cell))
}

func (p *processor) tablesInRow(nodes []*semantic.Node) []*semantic.Node {
	comp, rel := partition(nodes, func(n *semantic.Node) bool { return pred.TableIsMatrixOrVector(p.t, n) })
	var out []*semantic.Node
	for i, fenced := range rel {
		out = append(out, comp[i]...)
		out = append(out, p.tableToMatrixOrVector(fenced))
	}
	out = append(out, comp[len(comp)-1]...)

	comp, rel = partition(out, pred.IsTableOrMultiline)
	out = nil
	for i, table := range rel {
		prev := comp[i]
		if pred.TableIsCases(table, prev) {
			p.tableToCases(table, prev[len(prev)-1])
			prev = prev[:len(prev)-1]
		}
		out = append(out, prev...)
		out = append(out, table)
	}
	return append(out, comp[len(comp)-1]...)
}

// tableToMatrixOrVector replaces a fenced table by the table itself, which
// takes over the fences as content.
func (p *processor) tableToMatrixOrVector(fenced *semantic.Node) *semantic.Node {
	matrix := p.t.Child(fenced, 0)
	if matrix.Type == semantic.TypeMultiline {
		p.tableToVector(fenced, matrix)
	} else {
		p.tableToMatrix(fenced, matrix)
	}
	for _, f := range p.t.Content(fenced) {
		p.appendContent(matrix, f)
	}
	role := componentRole(matrix)
	for _, row := range p.t.Children(matrix) {
		p.assignRoleToRow(row, role)
	}
	matrix.Parent = semantic.NoID
	return matrix
}

func (p *processor) tableToVector(fenced, vector *semantic.Node) {
	vector.Type = semantic.TypeVector
	if len(vector.Children) == 1 {
		p.tableToSquare(fenced, vector)
		return
	}
	p.binomialForm(vector)
}

func (p *processor) tableToMatrix(fenced, matrix *semantic.Node) {
	matrix.Type = semantic.TypeMatrix
	if first := p.t.Child(matrix, 0); first != nil && len(matrix.Children) == len(first.Children) {
		p.tableToSquare(fenced, matrix)
		return
	}
	if len(matrix.Children) == 1 {
		matrix.Role = semantic.RoleRowVector
	}
}

func (p *processor) tableToSquare(fenced, matrix *semantic.Node) {
	if fenced.Role == semantic.RoleNeutral {
		matrix.Role = semantic.RoleDeterminant
		return
	}
	matrix.Role = semantic.RoleSquareMatrix
}

func (p *processor) binomialForm(n *semantic.Node) {
	if !pred.IsBinomial(n) {
		return
	}
	n.Role = semantic.RoleBinomial
	for _, c := range p.t.Children(n) {
		c.Role = semantic.RoleBinomial
	}
}

func componentRole(n *semantic.Node) semantic.Role {
	if n.Role != semantic.RoleNone && n.Role != semantic.RoleUnknown {
		return n.Role
	}
	return semantic.Role(n.Type.String())
}

func (p *processor) assignRoleToRow(row *semantic.Node, role semantic.Role) {
	switch row.Type {
	case semantic.TypeLine:
		row.Role = role
	case semantic.TypeRow:
		row.Role = role
		for _, c := range p.t.Children(row) {
			if c.Type == semantic.TypeCell {
				c.Role = role
			}
		}
	}
}

func (p *processor) tableToCases(table, openFence *semantic.Node) {
	for _, row := range p.t.Children(table) {
		p.assignRoleToRow(row, semantic.RoleCases)
	}
	table.Type = semantic.TypeCases
	p.appendContent(table, openFence)
	if pred.TableIsMultiline(p.t, table) {
		p.binomialForm(table)
	}
}

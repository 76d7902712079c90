package parser

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses a tree in depth-first source order.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}
	for _, child := range Children(n) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for n and, while f returns true, for each descendant.
// After the children of a node are visited, f is called with nil.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Children returns the direct children of n in source order. Absent
// optional parts are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(n.Main)
		for _, c := range n.Classes {
			add(c)
		}
	case *MainClass:
		add(n.Name, n.ArgsName)
		for _, v := range n.Vars {
			add(v)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *BaseClass:
		add(n.Name)
		addMembers(add, n.Fields, n.Methods)
	case *DerivedClass:
		add(n.Name, n.Super)
		addMembers(add, n.Fields, n.Methods)
	case *FieldDecl:
		add(n.Type, n.Name)
	case *VarDecl:
		add(n.Type, n.Name)
	case *MethodDecl:
		add(n.ReturnType, n.Name)
		for _, p := range n.Params {
			add(p)
		}
		for _, v := range n.Vars {
			add(v)
		}
		for _, s := range n.Body {
			add(s)
		}
		add(n.Return)
	case *Param:
		add(n.Type, n.Name)
	case *ClassType:
		add(n.Name)
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *PrintStmt:
		add(n.Value)
	case *AssignStmt:
		add(n.Name, n.Value)
	case *ArrayAssignStmt:
		add(n.Name, n.Index, n.Value)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *NewObjectExpr:
		add(n.Class)
	case *NewIntArrayExpr:
		add(n.Size)
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *NotExpr:
		add(n.Operand)
	case *ArrayAccessExpr:
		add(n.Array, n.Index)
	case *ArrayLengthExpr:
		add(n.Array)
	case *MethodCallExpr:
		add(n.Receiver, n.Method)
		for _, a := range n.Args {
			add(a)
		}
	case *ParenExpr:
		add(n.Inner)
	}
	return out
}

func addMembers(add func(...Node), fields []*FieldDecl, methods []*MethodDecl) {
	for _, f := range fields {
		add(f)
	}
	for _, m := range methods {
		add(m)
	}
}

// isNil catches typed nil pointers stored in a Node interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *MainClass:
		return n == nil
	}
	return false
}

package parser

import (
	"strconv"
	"strings"
)

// Dump renders n in a compact constructor notation, for example
//
//	Print(Binary(Plus, IntLit(1), Binary(Mult, IntLit(2), IntLit(3))))
//
// Positions are not included, so two parses of the same text (or of
// differently formatted but equivalent text) dump identically.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	if isNil(n) {
		sb.WriteString("<nil>")
		return
	}

	switch n := n.(type) {
	case *Program:
		sb.WriteString("Program(")
		dump(sb, n.Main)
		sb.WriteString(", ")
		dumpList(sb, len(n.Classes), func(i int) Node { return n.Classes[i] })
		sb.WriteString(")")
	case *MainClass:
		sb.WriteString("MainClass(")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dumpName(sb, n.ArgsName)
		sb.WriteString(", ")
		dumpList(sb, len(n.Vars), func(i int) Node { return n.Vars[i] })
		sb.WriteString(", ")
		dumpList(sb, len(n.Body), func(i int) Node { return n.Body[i] })
		sb.WriteString(")")
	case *BaseClass:
		sb.WriteString("BaseClass(")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dumpMembers(sb, n.Fields, n.Methods)
		sb.WriteString(")")
	case *DerivedClass:
		sb.WriteString("DerivedClass(")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dumpName(sb, n.Super)
		sb.WriteString(", ")
		dumpMembers(sb, n.Fields, n.Methods)
		sb.WriteString(")")
	case *FieldDecl:
		dumpDecl(sb, "FieldDecl", n.Mutability, n.Type, n.Name)
	case *VarDecl:
		dumpDecl(sb, "VarDecl", n.Mutability, n.Type, n.Name)
	case *MethodDecl:
		sb.WriteString("MethodDecl(")
		dump(sb, n.ReturnType)
		sb.WriteString(", ")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dumpList(sb, len(n.Params), func(i int) Node { return n.Params[i] })
		sb.WriteString(", ")
		dumpList(sb, len(n.Vars), func(i int) Node { return n.Vars[i] })
		sb.WriteString(", ")
		dumpList(sb, len(n.Body), func(i int) Node { return n.Body[i] })
		sb.WriteString(", ")
		dump(sb, n.Return)
		sb.WriteString(")")
	case *Param:
		sb.WriteString("Param(")
		dump(sb, n.Type)
		sb.WriteString(", ")
		dumpName(sb, n.Name)
		sb.WriteString(")")
	case *IntType, *BooleanType, *IntArrayType, *ThisExpr:
		sb.WriteString(n.Kind().String())
	case *ClassType:
		sb.WriteString("ClassRef(")
		dumpName(sb, n.Name)
		sb.WriteString(")")
	case *BlockStmt:
		sb.WriteString("Block(")
		dumpList(sb, len(n.Stmts), func(i int) Node { return n.Stmts[i] })
		sb.WriteString(")")
	case *PrintStmt:
		dumpCall(sb, "Print", n.Value)
	case *AssignStmt:
		sb.WriteString("Assign(")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dump(sb, n.Value)
		sb.WriteString(")")
	case *ArrayAssignStmt:
		sb.WriteString("ArrayAssign(")
		dumpName(sb, n.Name)
		sb.WriteString(", ")
		dump(sb, n.Index)
		sb.WriteString(", ")
		dump(sb, n.Value)
		sb.WriteString(")")
	case *WhileStmt:
		dumpCall(sb, "While", n.Cond, n.Body)
	case *IfStmt:
		dumpCall(sb, "If", n.Cond, n.Then, n.Else)
	case *IntLit:
		sb.WriteString("IntLit(")
		if n.Overflow {
			sb.WriteString(n.Literal)
		} else {
			sb.WriteString(strconv.FormatInt(n.Value, 10))
		}
		sb.WriteString(")")
	case *BoolLit:
		sb.WriteString("BoolLit(")
		sb.WriteString(strconv.FormatBool(n.Value))
		sb.WriteString(")")
	case *Ident:
		sb.WriteString("Id(")
		sb.WriteString(n.Name)
		sb.WriteString(")")
	case *NewObjectExpr:
		sb.WriteString("New(")
		dumpName(sb, n.Class)
		sb.WriteString(")")
	case *NewIntArrayExpr:
		dumpCall(sb, "NewIntArray", n.Size)
	case *BinaryExpr:
		sb.WriteString("Binary(")
		sb.WriteString(n.Op.String())
		sb.WriteString(", ")
		dump(sb, n.Left)
		sb.WriteString(", ")
		dump(sb, n.Right)
		sb.WriteString(")")
	case *NotExpr:
		dumpCall(sb, "Not", n.Operand)
	case *ArrayAccessExpr:
		dumpCall(sb, "ArrayAccess", n.Array, n.Index)
	case *ArrayLengthExpr:
		dumpCall(sb, "ArrayLength", n.Array)
	case *MethodCallExpr:
		sb.WriteString("MethodCall(")
		dump(sb, n.Receiver)
		sb.WriteString(", ")
		if n.Method != nil {
			sb.WriteString(strconv.Quote(n.Method.Name))
		}
		sb.WriteString(", ")
		dumpList(sb, len(n.Args), func(i int) Node { return n.Args[i] })
		sb.WriteString(")")
	case *ParenExpr:
		dumpCall(sb, "Paren", n.Inner)
	default:
		sb.WriteString(n.Kind().String())
	}
}

func dumpCall(sb *strings.Builder, name string, args ...Node) {
	sb.WriteString(name)
	sb.WriteString("(")
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		dump(sb, a)
	}
	sb.WriteString(")")
}

func dumpList(sb *strings.Builder, n int, at func(int) Node) {
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		dump(sb, at(i))
	}
	sb.WriteString("]")
}

func dumpName(sb *strings.Builder, id *Ident) {
	if id == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(id.Name)
}

func dumpDecl(sb *strings.Builder, name string, m Mutability, typ Type, id *Ident) {
	sb.WriteString(name)
	sb.WriteString("(")
	sb.WriteString(m.String())
	sb.WriteString(", ")
	dump(sb, typ)
	sb.WriteString(", ")
	dumpName(sb, id)
	sb.WriteString(")")
}

func dumpMembers(sb *strings.Builder, fields []*FieldDecl, methods []*MethodDecl) {
	dumpList(sb, len(fields), func(i int) Node { return fields[i] })
	sb.WriteString(", ")
	dumpList(sb, len(methods), func(i int) Node { return methods[i] })
}

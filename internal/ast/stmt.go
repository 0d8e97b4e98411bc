package ast

import (
	"circa/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtLet
	StmtExpr
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
	// Tail is the trailing expression without ';', if any.
	Tail ExprID
}

type LetStmt struct {
	Name     source.StringID
	NameSpan source.Span
	Mut      bool
	Type     TypeID // NoTypeID when not annotated
	Value    ExprID
}

type ExprStmt struct {
	Expr ExprID
}

type Stmts struct {
	Arena  *Arena[Stmt]
	Blocks *Arena[BlockStmt]
	Lets   *Arena[LetStmt]
	Exprs  *Arena[ExprStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:  NewArena[Stmt](capHint),
		Blocks: NewArena[BlockStmt](capHint),
		Lets:   NewArena[LetStmt](capHint),
		Exprs:  NewArena[ExprStmt](capHint),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(stmts []StmtID, tail ExprID, span source.Span) StmtID {
	payload := PayloadID(s.Blocks.Allocate(BlockStmt{Stmts: stmts, Tail: tail}))
	return s.New(StmtBlock, span, payload)
}

func (s *Stmts) NewLet(let LetStmt, span source.Span) StmtID {
	payload := PayloadID(s.Lets.Allocate(let))
	return s.New(StmtLet, span, payload)
}

func (s *Stmts) NewExpr(expr ExprID, span source.Span) StmtID {
	payload := PayloadID(s.Exprs.Allocate(ExprStmt{Expr: expr}))
	return s.New(StmtExpr, span, payload)
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(st.Payload))
}

func (s *Stmts) Let(id StmtID) *LetStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil
	}
	return s.Lets.Get(uint32(st.Payload))
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(st.Payload))
}

// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package optimizer

import (
	"math/big"
	"testing"

	"github.com/zeek/spicy/pkg/ast"
	"github.com/zeek/spicy/pkg/diag"
	"github.com/zeek/spicy/pkg/grammar"
	"github.com/zeek/spicy/pkg/parserir"
	"github.com/zeek/spicy/pkg/source"
	"github.com/zeek/spicy/pkg/typesys"
)

func sp() source.Span { return source.NewSpan("test", 1, 0, 1, 0) }

func matchCtor(field, literal string) *parserir.MatchCtor {
	return &parserir.MatchCtor{Sym: 0, Literal: ast.NewBytesCtor(sp(), []byte(literal)), Field: field}
}

func readVar(field string) *parserir.ReadVariable {
	return &parserir.ReadVariable{Sym: 0, Type: typesys.NewUintType(8), Field: field}
}

func intLiteral(v int64) *ast.Literal {
	return ast.NewLiteral(sp(), ast.NewIntCtor(sp(), big.NewInt(v), typesys.NewUintType(8)))
}

func seq(stmts ...parserir.Stmt) *parserir.Seq {
	return &parserir.Seq{Stmts: stmts}
}

func TestDriver_RunsPassesToFixpoint(t *testing.T) {
	// A singleton Seq wrapping a singleton Seq: Peephole's post-order
	// rewrite unwraps both levels in the first round, and the driver
	// stops after a second round that changes nothing.
	root := seq(seq(matchCtor("a", "A")))

	sink := diag.NewSink()
	out := NewDriver(sink, Options{SynchronizeEnabled: true}).Optimize(root)

	if _, ok := out.(*parserir.MatchCtor); !ok {
		t.Fatalf("expected the driver to converge all the way to the bare MatchCtor, got %T", out)
	}
}

func TestFeatureRequirements_RewritesSynchronizeWhenDisabled(t *testing.T) {
	sync := &parserir.Synchronize{}

	sink := diag.NewSink()
	out, changed := runFeatureRequirements(sync, sink, Options{SynchronizeEnabled: false})

	if !changed {
		t.Fatalf("expected a change when %%synchronize is used but disabled")
	}

	if _, ok := out.(*parserir.RaiseError); !ok {
		t.Fatalf("expected Synchronize to be rewritten to RaiseError, got %T", out)
	}

	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic reporting the disabled feature")
	}
}

func TestFeatureRequirements_LeavesSynchronizeWhenEnabled(t *testing.T) {
	sync := &parserir.Synchronize{}

	sink := diag.NewSink()
	out, changed := runFeatureRequirements(sync, sink, Options{SynchronizeEnabled: true})

	if changed || out != parserir.Stmt(sync) {
		t.Fatalf("expected Synchronize to pass through unchanged when the feature is enabled")
	}
}

func TestDeadCodeStatic_DropsEmptyChildren(t *testing.T) {
	root := seq(parserir.NewEmptySeq(sp()), matchCtor("a", "A"), parserir.NewEmptySeq(sp()))

	out, changed := runDeadCodeStatic(root, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected a change when empty children are present")
	}

	s := out.(*parserir.Seq)
	if len(s.Stmts) != 1 {
		t.Fatalf("expected the two empty children to be dropped, got %d statements", len(s.Stmts))
	}
}

func TestDeadCodeStatic_DropsShadowedSwitchCase(t *testing.T) {
	label := intLiteral(1)
	sw := &parserir.SwitchDispatch{
		Cases: []parserir.SwitchCase{
			{Labels: []ast.Expr{label}, Body: matchCtor("a", "A")},
			{Labels: []ast.Expr{label}, Body: matchCtor("b", "B")},
		},
	}

	out, changed := runDeadCodeStatic(sw, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected the duplicate-labeled later case to be dropped")
	}

	if len(out.(*parserir.SwitchDispatch).Cases) != 1 {
		t.Fatalf("expected exactly one surviving case")
	}
}

func TestPeephole_CollapsesSingletonHooklessSeq(t *testing.T) {
	root := seq(matchCtor("a", "A"))

	out, changed := runPeephole(root, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected the singleton Seq to collapse")
	}

	if _, ok := out.(*parserir.MatchCtor); !ok {
		t.Fatalf("expected the Seq to collapse to its sole MatchCtor, got %T", out)
	}
}

func TestPeephole_PreservesHookBearingSingletonSeq(t *testing.T) {
	root := &parserir.Seq{Stmts: []parserir.Stmt{matchCtor("a", "A")}, Hooks: []*ast.UnitHook{ast.NewUnitHook(sp(), "a", 0)}}

	out, changed := runPeephole(root, diag.NewSink(), Options{})
	if changed {
		t.Fatalf("a hook-bearing Seq must not collapse even with a single statement")
	}

	if out != parserir.Stmt(root) {
		t.Fatalf("expected the hook-bearing Seq to pass through unchanged")
	}
}

func TestPeephole_CollapsesZeroByteSkip(t *testing.T) {
	skip := &parserir.Skip{Bytes: intLiteral(0)}

	out, changed := runPeephole(skip, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected a zero-byte Skip to collapse")
	}

	s, ok := out.(*parserir.Seq)
	if !ok || len(s.Stmts) != 0 {
		t.Fatalf("expected an empty Seq in place of the zero-byte Skip, got %T", out)
	}
}

func TestFlattenBlocks_InlinesHooklessNestedSeq(t *testing.T) {
	root := seq(seq(matchCtor("a", "A"), matchCtor("b", "B")), matchCtor("c", "C"))

	out, changed := runFlattenBlocks(root, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected the nested hookless Seq to be inlined")
	}

	s := out.(*parserir.Seq)
	if len(s.Stmts) != 3 {
		t.Fatalf("expected 3 flattened statements, got %d", len(s.Stmts))
	}
}

func TestFlattenBlocks_PreservesHookBearingNestedSeq(t *testing.T) {
	inner := &parserir.Seq{Stmts: []parserir.Stmt{matchCtor("a", "A")}, Hooks: []*ast.UnitHook{ast.NewUnitHook(sp(), "a", 0)}}
	root := seq(inner, matchCtor("b", "B"))

	out, changed := runFlattenBlocks(root, diag.NewSink(), Options{})
	if changed {
		t.Fatalf("a hook-bearing nested Seq must not be inlined")
	}

	if len(out.(*parserir.Seq).Stmts) != 2 {
		t.Fatalf("expected the hook-bearing Seq to remain a single nested statement")
	}
}

func TestDeadCodeCFG_TrimsAfterUnconditionalRaise(t *testing.T) {
	root := seq(parserir.NewRaiseError(sp(), parserir.ParseError, 0), matchCtor("a", "A"))

	out, changed := runDeadCodeCFG(root, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected statements after an unconditional raise to be trimmed")
	}

	if len(out.(*parserir.Seq).Stmts) != 1 {
		t.Fatalf("expected only the RaiseError to survive")
	}
}

func TestConstantPropagation_FoldsZeroCountCounterLoop(t *testing.T) {
	loop := &parserir.CounterLoop{Count: intLiteral(0), Body: readVar("n")}

	out, changed := runConstantPropagation(loop, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected a literal-zero CounterLoop to fold away")
	}

	s, ok := out.(*parserir.Seq)
	if !ok || len(s.Stmts) != 0 {
		t.Fatalf("expected an empty Seq in place of the zero-count loop, got %T", out)
	}
}

func TestConstantPropagation_FoldsMatchingLiteralSwitch(t *testing.T) {
	label := intLiteral(2)
	sw := &parserir.SwitchDispatch{
		Expr: intLiteral(2),
		Cases: []parserir.SwitchCase{
			{Labels: []ast.Expr{intLiteral(1)}, Body: matchCtor("a", "A")},
			{Labels: []ast.Expr{label}, Body: matchCtor("b", "B")},
		},
	}

	out, changed := runConstantPropagation(sw, diag.NewSink(), Options{})
	if !changed {
		t.Fatalf("expected a literal discriminant matching one case to fold")
	}

	m, ok := out.(*parserir.MatchCtor)
	if !ok || m.Field != "b" {
		t.Fatalf("expected the folded result to be case b's body, got %+v", out)
	}
}

func TestOptimizeModule_RemovesUnusedParameter(t *testing.T) {
	body := ast.NewIdentExpr(sp(), "used")
	sig := ast.FunctionSignature{Pure: true, Parameters: []typesys.Type{typesys.NewUintType(8), typesys.NewUintType(8)}, Return: typesys.NewUintType(8), Body: body}
	fn := ast.NewFunctionDecl(sp(), "f", []string{"used", "unused"}, sig)
	mod := ast.NewModule(sp(), "m", nil)
	mod.Functions = append(mod.Functions, fn)

	sink := diag.NewSink()
	changed := OptimizeModule(mod, sink)

	if !changed {
		t.Fatalf("expected OptimizeModule to report a change when a parameter is unused")
	}

	if len(fn.Params) != 1 || fn.Params[0] != "used" {
		t.Fatalf("expected the unused parameter to be dropped, got %v", fn.Params)
	}

	if len(fn.Bind.Sig.Parameters) != 1 {
		t.Fatalf("expected the signature's parameter types to shrink in lockstep, got %v", fn.Bind.Sig.Parameters)
	}

	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Error())
	}
}

func TestOptimizeModule_TrimsCallSiteArgsForRewrittenFunction(t *testing.T) {
	body := ast.NewIdentExpr(sp(), "used")
	sig := ast.FunctionSignature{Pure: true, Parameters: []typesys.Type{typesys.NewUintType(8), typesys.NewUintType(8)}, Return: typesys.NewUintType(8), Body: body}
	fn := ast.NewFunctionDecl(sp(), "f", []string{"used", "unused"}, sig)

	callee := ast.NewName[ast.FunctionBinding](ast.NewMeta(sp()), "f")
	if !callee.Resolve(fn.Bind) {
		t.Fatalf("expected *ast.DefunBinding to satisfy ast.FunctionBinding")
	}

	call := ast.NewCallExpr(sp(), callee, ast.NewIdentExpr(sp(), "a"), ast.NewIdentExpr(sp(), "b"))
	caller := ast.NewFunctionDecl(sp(), "g", nil, ast.FunctionSignature{Pure: true, Return: typesys.NewUintType(8), Body: call})

	mod := ast.NewModule(sp(), "m", nil)
	mod.Functions = append(mod.Functions, fn, caller)

	sink := diag.NewSink()
	if !OptimizeModule(mod, sink) {
		t.Fatalf("expected OptimizeModule to report a change")
	}

	if len(call.Args) != 1 {
		t.Fatalf("expected the call site's argument list to shrink with the callee's parameter list, got %v", call.Args)
	}
}

func TestOptimizer_PreservesGrammarBuiltSpans(t *testing.T) {
	// Grounding the optimizer's transform against a real grammar-built IR
	// tree (rather than only hand-built Stmt literals) to confirm the
	// Driver composes cleanly with parserir.Generate's actual output shape.
	u := ast.NewUnit(sp(), "U", ast.NewField(sp(), "n", typesys.NewUintType(8), ast.FieldAttributes{}))
	mod := ast.NewModule(sp(), "m", nil, u)

	bsink := diag.NewSink()
	g := grammar.NewBuilder(bsink).BuildModule(mod)["U"]

	root := parserir.NewGenerator(bsink).Generate(g, nil)

	sink := diag.NewSink()
	out := NewDriver(sink, Options{SynchronizeEnabled: true}).Optimize(root)

	if _, ok := out.(*parserir.UnitCall); !ok {
		t.Fatalf("expected the optimized tree to remain rooted at a UnitCall, got %T", out)
	}

	if out.Span() != root.Span() {
		t.Fatalf("expected the optimized root to keep the generated span %s, got %s", root.Span(), out.Span())
	}
}

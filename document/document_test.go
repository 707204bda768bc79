// Copyright © 2024 The ELPS authors

package document

import (
	"testing"

	"github.com/luthersystems/prettyphp/parser/lexer"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) []*token.Token {
	t.Helper()
	raw, err := lexer.Tokenize("test.php", []byte(src))
	require.NoError(t, err)
	var tokens []*token.Token
	for _, tok := range raw {
		if tok.Type != token.WHITESPACE {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func parse(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()
	doc, err := New("test.php", lex(t, src), typeindex.New(typeindex.Mixed), opts...)
	require.NoError(t, err)
	return doc
}

// find returns the nth (zero based) token with the given text.
func find(t *testing.T, doc *Document, text string, n int) *Token {
	t.Helper()
	for _, tok := range doc.Tokens {
		if tok.Text == text && !tok.IsVirtual {
			if n == 0 {
				return tok
			}
			n--
		}
	}
	require.FailNow(t, "token not found", "%q", text)
	return nil
}

func TestAltSyntax(t *testing.T) {
	doc := parse(t, "<?php\nif ($a):\nb();\nelse:\ne();\nendif;\n")
	var virtual []*Token
	for _, tok := range doc.Tokens {
		if tok.IsVirtual {
			virtual = append(virtual, tok)
		}
	}
	require.Len(t, virtual, 2)

	colon1 := find(t, doc, ":", 0)
	colon2 := find(t, doc, ":", 1)
	elseTok := find(t, doc, "else", 0)
	endif := find(t, doc, "endif", 0)
	assert.Equal(t, AltSyntaxColon, colon1.SubType())
	assert.Equal(t, AltSyntaxColon, colon2.SubType())
	assert.Equal(t, virtual[0], colon1.ClosedBy())
	assert.Equal(t, virtual[1], colon2.ClosedBy())
	assert.Equal(t, colon1, virtual[0].OpenedBy())
	assert.Equal(t, elseTok, virtual[0].Next())
	assert.Equal(t, endif, virtual[1].Next())
	assert.Equal(t, token.END_ALT_SYNTAX, virtual[0].Type)
	assert.False(t, virtual[0].IsCode)

	b := find(t, doc, "b", 0)
	assert.Equal(t, colon1, b.Parent())
	assert.True(t, b.IsStatementStart())
	assert.True(t, b.InBlock())
	assert.Equal(t, 1, b.Depth())
	assert.Nil(t, elseTok.Parent())
	assert.Equal(t, colon1, elseTok.PrevSibling())
	assert.Equal(t, elseTok, colon1.NextSibling())

	ifTok := find(t, doc, "if", 0)
	assert.Equal(t, ifTok, endif.Statement())
	assert.Equal(t, ifTok, elseTok.Statement())
	assert.Equal(t, find(t, doc, ";", 2), ifTok.EndStatement())
}

func TestAltSyntaxNestedBracedIf(t *testing.T) {
	doc := parse(t, "<?php if ($x): if ($a) { b(); } else { c(); } endif;")
	var n int
	for _, tok := range doc.Tokens {
		if tok.IsVirtual {
			n++
			assert.Equal(t, token.ENDIF, tok.Next().Type)
		}
	}
	assert.Equal(t, 1, n)
	inner := find(t, doc, "if", 1)
	assert.Equal(t, inner, find(t, doc, "else", 0).Statement())
}

func TestAltSyntaxNestedBracelessIf(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"else", "<?php if ($x): if ($a) b(); else c(); d(); endif;"},
		{"elseif", "<?php if ($x): if ($a) b(); elseif (($y)) c(); d(); endif;"},
		{"comment", "<?php if ($x): if ($a) b(); /* c */ else c(); d(); endif;"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := parse(t, test.src)
			var virtual []*Token
			for _, tok := range doc.Tokens {
				if tok.IsVirtual {
					virtual = append(virtual, tok)
				}
			}
			require.Len(t, virtual, 1)
			assert.Equal(t, token.ENDIF, virtual[0].Next().Type)
			colon := find(t, doc, ":", 0)
			assert.Equal(t, colon, find(t, doc, "c", 0).Parent())
			assert.Equal(t, colon, find(t, doc, "d", 0).Parent())
		})
	}
}

func TestAltSyntaxElseIfColon(t *testing.T) {
	doc := parse(t, "<?php if ($x): a(); elseif (f($y)): b(); else: c(); endif;")
	var n int
	for _, tok := range doc.Tokens {
		if tok.IsVirtual {
			n++
		}
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, find(t, doc, ":", 2), find(t, doc, "c", 0).Parent())
}

func TestStatements(t *testing.T) {
	doc := parse(t, "<?php $a = 1; if ($b) { c(); } else { d(); } e();")
	ifTok := find(t, doc, "if", 0)
	brace1 := find(t, doc, "{", 0)
	close1 := find(t, doc, "}", 0)
	close2 := find(t, doc, "}", 1)
	assert.True(t, brace1.Structural)
	assert.True(t, close1.Structural)
	assert.False(t, close1.Terminates)
	assert.True(t, close2.Terminates)
	assert.Equal(t, ifTok, find(t, doc, "else", 0).Statement())
	assert.Equal(t, close2, ifTok.EndStatement())
	assert.True(t, find(t, doc, "e", 0).IsStatementStart())
	assert.True(t, find(t, doc, "$a", 0).IsStatementStart())
	assert.Equal(t, find(t, doc, ";", 0), find(t, doc, "$a", 0).EndStatement())

	c := find(t, doc, "c", 0)
	assert.Equal(t, brace1, c.Parent())
	assert.True(t, c.IsStatementStart())
	assert.True(t, c.InBlock())
	assert.Equal(t, []*Token{brace1}, c.BracketStack())

	assert.Len(t, doc.Statements(), 5)
}

func TestClosureStatement(t *testing.T) {
	doc := parse(t, "<?php $f = function () { return 1; }; $g = 2;")
	closeBrace := find(t, doc, "}", 0)
	assert.True(t, closeBrace.Structural)
	assert.False(t, closeBrace.Terminates)
	f := find(t, doc, "$f", 0)
	assert.Equal(t, find(t, doc, ";", 1), f.EndStatement())
	assert.True(t, find(t, doc, "$g", 0).IsStatementStart())
	ret := find(t, doc, "return", 0)
	assert.True(t, ret.IsStatementStart())
	assert.Equal(t, find(t, doc, "{", 0), ret.Parent())
}

func TestStructuralBraces(t *testing.T) {
	tests := []struct {
		src        string
		nth        int
		structural bool
	}{
		{"<?php if ($a) { b(); }", 0, true},
		{"<?php function f() {}", 0, true},
		{"<?php $a->{'b'};", 0, false},
		{"<?php $a = ${'b'};", 0, false},
		{"<?php $x = match ($a) { 1 => 2, };", 0, false},
		{"<?php switch ($a) { case 1: b(); default: }", 0, true},
		{"<?php use A\\{B, C};", 0, false},
		{"<?php if ($a) { ?>x<?php }", 0, true},
		{"<?php class A { function f() {} }", 0, true},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			doc := parse(t, test.src)
			var braces []*Token
			for _, tok := range doc.Tokens {
				if tok.Is(token.OPEN_BRACE, token.DOLLAR_OPEN_CURLY_BRACES) {
					braces = append(braces, tok)
				}
			}
			require.Greater(t, len(braces), test.nth)
			open := braces[test.nth]
			assert.Equal(t, test.structural, open.Structural)
			if open.Type == token.OPEN_BRACE {
				assert.Equal(t, test.structural, open.ClosedBy().Structural)
			}
		})
	}
}

func TestStructuralMatchBraces(t *testing.T) {
	src := "<?php $x = match ($a) { 1 => f(); };"
	doc, err := New("test.php", lex(t, src), typeindex.New(typeindex.Mixed))
	require.NoError(t, err)
	assert.False(t, find(t, doc, "{", 0).Structural)
	doc, err = New("test.php", lex(t, src), typeindex.New(typeindex.Mixed), WithStructuralMatchBraces(true))
	require.NoError(t, err)
	assert.True(t, find(t, doc, "{", 0).Structural)
}

func TestDeclarations(t *testing.T) {
	doc := parse(t, `<?php
namespace A;
use B\C;
use function d;
class E {
    use T;
    const X = 1;
    public ?int $p;
    public function f(): ?int {}
}
enum S: string {
    case A = 'a';
}
function g() {}
$h = function () {};
`)
	var kinds []DeclarationKind
	for _, d := range doc.Declarations {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []DeclarationKind{
		Namespace, Use, UseFunction, Class, UseTrait, Const,
		Property, Function, Enum, EnumCase, Function,
	}, kinds)
	class := doc.Declarations[3]
	assert.Equal(t, "class", class.Start.Text)
	assert.Equal(t, token.CLOSE_BRACE, class.End.Type)
	assert.Equal(t, class, class.Start.Declaration())
}

func TestSubTypes(t *testing.T) {
	tests := []struct {
		src  string
		text string
		nth  int
		sub  SubType
	}{
		{"<?php $a = $b ? $c : $d;", "?", 0, TernaryQuestion},
		{"<?php $a = $b ? $c : $d;", ":", 0, TernaryColon},
		{"<?php $a = $b ?: $d;", ":", 0, TernaryColon},
		{"<?php $a = $b ? ($c ? 1 : 2) : 3;", ":", 1, TernaryColon},
		{"<?php switch ($a) { case 1: break; default: }", ":", 0, SwitchCaseColon},
		{"<?php switch ($a) { case 1: break; default: }", ":", 1, SwitchCaseColon},
		{"<?php foo(a: 1, b: 2);", ":", 1, NamedArgumentColon},
		{"<?php function f(): int {}", ":", 0, ReturnTypeColon},
		{"<?php $f = fn($x): int => $x;", ":", 0, ReturnTypeColon},
		{"<?php $f = function () use ($y): int {};", ":", 0, ReturnTypeColon},
		{"<?php enum S: string {}", ":", 0, EnumBackingColon},
		{"<?php a: goto a;", ":", 0, LabelColon},
		{"<?php while ($a): endwhile;", ":", 0, AltSyntaxColon},
		{"<?php function f(?A $a) {}", "?", 0, NullableQuestion},
		{"<?php function f(): ?A {}", "?", 0, NullableQuestion},
		{"<?php $a = $b ? C : D;", "?", 0, TernaryQuestion},
		{"<?php function f(int &$b) {}", "&", 0, ReferenceOperator},
		{"<?php $a = &$b;", "&", 0, ReferenceOperator},
		{"<?php $a = $b & $c;", "&", 0, BinaryOperator},
		{"<?php function f(A|B $c) {}", "|", 0, TypeOperator},
		{"<?php function f(A&B ...$d) {}", "&", 0, TypeOperator},
		{"<?php function f(): A|B {}", "|", 0, TypeOperator},
		{"<?php $a = A | B;", "|", 0, BinaryOperator},
		{"<?php $a = -$b;", "-", 0, UnaryOperator},
		{"<?php $a = $b - 1;", "-", 0, BinaryOperator},
		{"<?php $a = f() + 1;", "+", 0, BinaryOperator},
		{"<?php $a++;", "++", 0, PostfixOperator},
		{"<?php ++$a;", "++", 0, UnaryOperator},
		{"<?php $a = 1;", "=", 0, NoSubType},
	}
	for _, test := range tests {
		t.Run(test.src+" "+test.text, func(t *testing.T) {
			doc := parse(t, test.src)
			tok := find(t, doc, test.text, test.nth)
			assert.Equal(t, test.sub, tok.SubType())
		})
	}
}

func TestColonWithoutCode(t *testing.T) {
	tokens := []*token.Token{{Type: token.COLON, Text: ":", Line: 1}}
	_, err := New("test.php", tokens, typeindex.New(typeindex.Mixed))
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "colon")
}

func TestStrings(t *testing.T) {
	doc := parse(t, `<?php $a = "x {$b} y"; $c = 1;`)
	open := find(t, doc, `"`, 0)
	closeQuote := find(t, doc, `"`, 1)
	b := find(t, doc, "$b", 0)
	assert.False(t, open.InString())
	assert.True(t, b.InString())
	assert.Equal(t, open, b.EnclosingString())
	assert.True(t, closeQuote.InString())
	assert.Equal(t, closeQuote, open.StringClosedBy())
	assert.False(t, find(t, doc, "$c", 0).InString())
	assert.Equal(t, token.CURLY_OPEN, b.Parent().Type)
}

func TestHeredocString(t *testing.T) {
	doc := parse(t, "<?php $a = <<<EOF\n  x $b\n  EOF;\n")
	start := find(t, doc, "<<<EOF\n", 0)
	end := find(t, doc, "  EOF", 0)
	assert.Equal(t, end, start.StringClosedBy())
	assert.Equal(t, start, find(t, doc, "$b", 0).EnclosingString())
}

func TestTags(t *testing.T) {
	doc := parse(t, "<p><?php echo 1 ?>\n<b><?php $x;")
	open1 := find(t, doc, "<?php", 0)
	closeTag := find(t, doc, "?>\n", 0)
	echo := find(t, doc, "echo", 0)
	assert.Equal(t, open1, echo.OpenTag())
	assert.Equal(t, closeTag, echo.CloseTag())
	assert.True(t, closeTag.IsCode)
	assert.True(t, closeTag.Terminates)
	assert.Nil(t, find(t, doc, "<b>", 0).OpenTag())
	x := find(t, doc, "$x", 0)
	assert.Equal(t, find(t, doc, "<?php", 1), x.OpenTag())
	assert.Nil(t, x.CloseTag())
}

func TestCloseTagAfterTerminator(t *testing.T) {
	doc := parse(t, "<?php echo 1; ?>\n")
	closeTag := find(t, doc, "?>\n", 0)
	assert.False(t, closeTag.IsCode)
}

func TestAttributeComments(t *testing.T) {
	src := "<?php #[Attr]\nfunction f() {}"
	raw, err := lexer.Tokenize("test.php", []byte(src), lexer.WithLegacyNames(true))
	require.NoError(t, err)
	var tokens []*token.Token
	for _, tok := range raw {
		if tok.Type != token.WHITESPACE {
			tokens = append(tokens, tok)
		}
	}
	doc, err := New("test.php", tokens, typeindex.New(typeindex.Mixed), WithAttributeComments(true))
	require.NoError(t, err)
	assert.Equal(t, token.ATTRIBUTE_COMMENT, find(t, doc, "#[Attr]", 0).Type)
	assert.Equal(t, "#[Attr]", find(t, doc, "#[Attr]", 0).OriginalText)
}

func TestBracketErrors(t *testing.T) {
	for _, src := range []string{"<?php (];", "<?php f(;", "<?php );"} {
		_, err := New("test.php", lex(t, src), typeindex.New(typeindex.Mixed))
		var lerr *token.LocationError
		assert.ErrorAs(t, err, &lerr, src)
	}
}

func TestLinesBefore(t *testing.T) {
	doc := parse(t, "<?php\n$a = 1;\n\n\n$b = 2; // c\n$c = 3;")
	assert.Equal(t, 1, find(t, doc, "$a", 0).LinesBefore())
	assert.Equal(t, 3, find(t, doc, "$b", 0).LinesBefore())
	assert.Equal(t, 0, find(t, doc, "// c", 0).LinesBefore())
	assert.Equal(t, 1, find(t, doc, "$c", 0).LinesBefore())
	assert.Equal(t, 0, doc.First().LinesBefore())
}

func TestWhitespaceResolution(t *testing.T) {
	doc := parse(t, "<?php $a = 1;")
	eq := find(t, doc, "=", 0)
	one := find(t, doc, "1", 0)

	assert.Equal(t, None, eq.WhitespaceAfter())
	eq.AddAfter(Space)
	assert.Equal(t, Space, one.WhitespaceBefore())
	one.AddBefore(Line)
	assert.Equal(t, Line, eq.WhitespaceAfter())
	assert.True(t, eq.HasNewlineAfter())

	// Masks only narrow.
	eq.MaskAfter(All &^ Line)
	assert.Equal(t, Space, one.WhitespaceBefore())
	one.MaskBefore(All)
	assert.Equal(t, Space, one.WhitespaceBefore())
	assert.Equal(t, Space|Blank, one.Spacing().MaskPrev)
	assert.Equal(t, Space|Blank, eq.Spacing().MaskNext)

	one.MaskBefore(None)
	assert.Equal(t, None, one.WhitespaceBefore())
	one.AddBefore(Blank)
	assert.Equal(t, None, one.WhitespaceBefore())

	// Critical requests bypass ordinary masks.
	one.CriticalBefore(Line)
	assert.Equal(t, Line, one.WhitespaceBefore())
	one.CriticalMaskBefore(None)
	assert.Equal(t, Line, one.WhitespaceBefore())
}

func TestCriticalMask(t *testing.T) {
	doc := parse(t, "<?php $a = 1;")
	eq := find(t, doc, "=", 0)
	one := find(t, doc, "1", 0)
	one.AddBefore(Line)
	eq.CriticalMaskAfter(Space)
	assert.Equal(t, None, one.WhitespaceBefore())
	one.AddBefore(Space)
	assert.Equal(t, Space, one.WhitespaceBefore())
	assert.Equal(t, Space, one.Spacing().CritMaskPrev)
}

func TestWhitespaceVirtual(t *testing.T) {
	doc := parse(t, "<?php\nif ($a):\nb();\nelse:\ne();\nendif;\n")
	semi := find(t, doc, ";", 0)
	elseTok := find(t, doc, "else", 0)
	v := elseTok.Prev()
	require.True(t, v.IsVirtual)

	v.AddBefore(Line)
	assert.Equal(t, Line, elseTok.WhitespaceBefore())
	assert.Equal(t, Line, semi.WhitespaceAfter())
	semi.AddAfter(Blank)
	assert.Equal(t, Blank, elseTok.WhitespaceBefore())
	v.MaskAfter(Line | Space)
	assert.Equal(t, Line, elseTok.WhitespaceBefore())
	elseTok.MaskBefore(None)
	assert.Equal(t, None, elseTok.WhitespaceBefore())
	elseTok.CriticalBefore(Space)
	assert.Equal(t, Space, elseTok.WhitespaceBefore())
}

func TestWhitespaceString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "space|blank", (Space | Blank).String())
	assert.Equal(t, Blank, All.Strongest())
	assert.Equal(t, Line, (Space | Line).Strongest())
	assert.False(t, Space.HasNewline())
	assert.True(t, Blank.HasNewline())
}

func TestIndentDelta(t *testing.T) {
	doc := parse(t, "<?php $a = 1;")
	a := find(t, doc, "$a", 0)
	one := find(t, doc, "1", 0)
	one.Indent = 2
	one.HangingIndent = 1
	one.LinePadding = 4
	d := Between(a, one)
	assert.Equal(t, IndentDelta{Indent: 2, HangingIndent: 1, LinePadding: 4}, d)
	assert.False(t, d.IsZero())
	d.Apply(a)
	assert.Equal(t, 3, a.IndentLevel())
	assert.Equal(t, 4, a.LinePaddingColumns())
	assert.True(t, Between(a, one).IsZero())
}

func TestCollection(t *testing.T) {
	doc := parse(t, "<?php f($a, $b);")
	open := find(t, doc, "(", 0)
	c := doc.Collect(open, open.ClosedBy())
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "($a,$b)", c.Text())
	assert.True(t, c.HasOneOf(token.COMMA))
	assert.Equal(t, find(t, doc, "$b", 0), c.GetFirstOf(token.VARIABLE).NextCode().NextCode())
	assert.False(t, c.HasNewline())
	find(t, doc, "$b", 0).AddBefore(Line)
	assert.True(t, c.HasNewline())
	c.MaskInnerWhitespace(Space)
	assert.False(t, c.HasNewline())
	assert.Equal(t, 0, doc.Collect(open.ClosedBy(), open).Len())

	vars := c.Filter(func(t *Token) bool { return t.Type == token.VARIABLE })
	assert.Equal(t, 2, vars.Len())
	err := func() (err error) {
		defer Recover(&err)
		vars.HasNewline()
		return nil
	}()
	var cerr *ContractError
	assert.ErrorAs(t, err, &cerr)
}

func TestRecoverPropagates(t *testing.T) {
	assert.Panics(t, func() {
		var err error
		defer Recover(&err)
		panic("boom")
	})
}

func TestProblem(t *testing.T) {
	doc := parse(t, "<?php\n$a = 1;")
	a := find(t, doc, "$a", 0)
	one := find(t, doc, "1", 0)
	a.Col, one.Col = 1, 6

	p := NewProblem("bad %s", "x.php", a, one, "thing")
	assert.Equal(t, "bad thing", p.Message())
	assert.Equal(t, "x.php:2:1-2:6: bad thing", p.String())

	// Rendered positions are used only when every position is known.
	a.Output = &Position{Line: 5, Col: 3}
	assert.Equal(t, "x.php:2:1-2:6: bad thing", p.String())
	one.Output = &Position{Line: 5, Col: 8}
	assert.Equal(t, "x.php:5:3-5:8: bad thing", p.String())
	_, _, rendered := p.Positions()
	assert.True(t, rendered)

	single := NewProblem("one", "", a, nil)
	assert.Equal(t, "5:3: one", single.String())
	assert.Equal(t, "x.php: none", NewProblem("none", "x.php", nil, nil).String())

	doc.Report(p)
	assert.Equal(t, []*Problem{p}, doc.Problems())
}

func TestDeclarationKindString(t *testing.T) {
	for k := Namespace; k <= Declare; k++ {
		assert.Equal(t, k, ParseDeclarationKind(k.String()))
	}
	assert.True(t, Trait.IsClassLike())
	assert.True(t, UseConst.IsImport())
	assert.False(t, Function.IsClassLike())
}

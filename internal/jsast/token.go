package jsast

// Token names operators the way github.com/t14raptor/go-fast's token
// package does (a small closed set of operator tokens, rather than
// esbuild's lexer-integrated token enum) — operators are printed back
// out verbatim, so a string-backed token is sufficient here and keeps
// the printer a single format directive instead of a big switch.
type Token string

const (
	Assign            Token = "="
	AddAssign         Token = "+="
	SubAssign         Token = "-="
	MulAssign         Token = "*="
	DivAssign         Token = "/="
	ModAssign         Token = "%="
	PowAssign         Token = "**="
	ShlAssign         Token = "<<="
	ShrAssign         Token = ">>="
	UShrAssign        Token = ">>>="
	BitAndAssign      Token = "&="
	BitOrAssign       Token = "|="
	BitXorAssign      Token = "^="
	LogicalAndAssign  Token = "&&="
	LogicalOrAssign   Token = "||="
	NullishAssign     Token = "??="

	Add  Token = "+"
	Sub  Token = "-"
	Mul  Token = "*"
	Div  Token = "/"
	Mod  Token = "%"
	Pow  Token = "**"

	Lt      Token = "<"
	Le      Token = "<="
	Gt      Token = ">"
	Ge      Token = ">="
	EqEq    Token = "=="
	NotEq   Token = "!="
	EqEqEq  Token = "==="
	NotEqEq Token = "!=="

	BitAnd Token = "&"
	BitOr  Token = "|"
	BitXor Token = "^"
	Shl    Token = "<<"
	Shr    Token = ">>"
	UShr   Token = ">>>"

	In         Token = "in"
	InstanceOf Token = "instanceof"

	LogicalAnd Token = "&&"
	LogicalOr  Token = "||"
	Nullish    Token = "??"

	Not    Token = "!"
	BitNot Token = "~"
	Typeof Token = "typeof"
	Void   Token = "void"
	Delete Token = "delete"
	Neg    Token = "-u" // unary minus, distinct from binary Sub when printing
	Pos    Token = "+u" // unary plus

	Inc Token = "++"
	Dec Token = "--"
)

// IsAssign reports whether t is one of the compound/plain assignment
// operators.
func (t Token) IsAssign() bool {
	switch t {
	case Assign, AddAssign, SubAssign, MulAssign, DivAssign, ModAssign, PowAssign,
		ShlAssign, ShrAssign, UShrAssign, BitAndAssign, BitOrAssign, BitXorAssign,
		LogicalAndAssign, LogicalOrAssign, NullishAssign:
		return true
	}
	return false
}

// IsShortCircuit reports whether t is the RHS of a logical expression
// whose right operand is evaluated conditionally — relevant to the
// hoist pass's conditional gate (spec.md §4.2).
func (t Token) IsShortCircuit() bool {
	return t == LogicalAnd || t == LogicalOr || t == Nullish
}

package tree

// Bare delimiter kinds. A line made only of these is not executable.
var (
	braces  = []string{"{", "}"}
	parens  = []string{"(", ")"}
	equals  = []string{"="}
	closers = []string{"end"}
)

func kinds(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Tables holds the built-in kind table of every grammar.
var Tables = map[Grammar]*KindTable{
	// Parameter lists are packaging unless a default value embeds an
	// expression.
	Python: NewKindTable(
		kinds([]string{"comment", "string", "parameters"}, parens, equals),
		Exception{Kind: "parameters", DescendIfContains: "="},
	),
	Rust: NewKindTable(kinds(
		[]string{"line_comment", "block_comment", "string_literal", "raw_string_literal", "char_literal"},
		braces, parens,
	)),
	C: NewKindTable(kinds(
		[]string{"comment", "string_literal", "raw_string_literal", "char_literal", "system_lib_string"},
		braces, parens,
	)),
	Java: NewKindTable(kinds(
		[]string{"line_comment", "block_comment", "string_literal", "text_block", "character_literal"},
		braces, parens,
	)),
	// Template literals with substitutions hold code.
	TypeScript: NewKindTable(
		kinds([]string{"comment", "string", "template_string"}, braces, parens),
		Exception{Kind: "template_string", DescendIfContains: "${"},
	),
	JavaScript: NewKindTable(
		kinds([]string{"comment", "string", "template_string"}, braces, parens),
		Exception{Kind: "template_string", DescendIfContains: "${"},
	),
	Scala: NewKindTable(kinds(
		[]string{"comment", "block_comment", "string"},
		braces, parens,
	)),
	CSharp: NewKindTable(kinds(
		[]string{"comment", "string_literal", "verbatim_string_literal", "raw_string_literal", "character_literal"},
		braces, parens,
	)),
	Ruby: NewKindTable(
		kinds([]string{"comment", "string"}, parens, closers),
		Exception{Kind: "string", DescendIfContains: "#{"},
	),
}

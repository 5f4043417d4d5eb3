package parser

// Production tags carried by the Label of every nonterminal CST node.
const (
	TagTranslationUnit    = "translation Unit"
	TagExternalDecl       = "external declaration"
	TagTypeSpecifier      = "type specifier"
	TagFunctionDef        = "function definition"
	TagDeclarator         = "declarator"
	TagParamList          = "param list"
	TagParamDecl          = "param decl"
	TagInitDeclList       = "init declarator list"
	TagInitDeclarator     = "init declarator"
	TagInitializerList    = "initializer list"
	TagCompoundStmt       = "compound statement"
	TagDeclarationList    = "declaration list"
	TagDeclaration        = "declaration"
	TagStatementList      = "statement list"
	TagStatement          = "statement"
	TagLabeledStmt        = "labeled statement"
	TagExpressionStmt     = "expression statement"
	TagSelectionStmt      = "selection statement"
	TagIterationStmt      = "iteration statement"
	TagJumpStmt           = "jump statement"
	TagExpression         = "expression"
	TagAssignmentExpr     = "assignment expression"
	TagConditionalExpr    = "conditional expression"
	TagLogicalOrExpr      = "logical or expression"
	TagLogicalAndExpr     = "logical and expression"
	TagInclusiveOrExpr    = "inclusive or expression"
	TagExclusiveOrExpr    = "exclusive or expression"
	TagAndExpr            = "and expression"
	TagEqualityExpr       = "equality expression"
	TagRelationalExpr     = "relational expression"
	TagShiftExpr          = "shift expression"
	TagAdditiveExpr       = "additive expression"
	TagMultiplicativeExpr = "multiplicative expression"
	TagCastExpr           = "cast expression"
	TagUnaryExpr          = "unary expression"
	TagPostfixExpr        = "postfix expression"
	TagArgumentExprList   = "argument expression list"
	TagPrimaryExpr        = "primary expression"
	TagTypeName           = "type name"
)

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/iter"
)

func statementTexts(t *testing.T, input string) ([]Statement, error) {
	t.Helper()
	return iter.Collect(context.Background(), Statements(Begin(NewBuffer("/src/test.F", input))))
}

func TestNextStatement(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []string
		code     string
	}{
		{
			name:     "spaces around punctuation are dropped",
			input:    "  integer ::   x\n",
			expected: []string{"INTEGER::X"},
		},
		{
			name:     "single space between words",
			input:    "Real  Function  Area(r)\n",
			expected: []string{"REAL FUNCTION AREA(R)"},
		},
		{
			name:     "tabs count as spaces",
			input:    "integer\tx\n",
			expected: []string{"INTEGER X"},
		},
		{
			name:     "quoted text is preserved",
			input:    "character(len=*), parameter :: s = 'a, b ! (c'  ! trailing\n",
			expected: []string{"CHARACTER(LEN=*),PARAMETER::S='a, b ! (c'"},
		},
		{
			name:     "opposite quote inside string",
			input:    "print \"it's\"\n",
			expected: []string{`PRINT "it's"`},
		},
		{
			name:     "continued declaration",
			input:    "INTEGER, DIMENSION(3,3) :: M(5,5) = &\n    RESHAPE((/1,2,3/),(/5,5/))\n",
			expected: []string{"INTEGER,DIMENSION(3,3)::M(5,5)=RESHAPE((/1,2,3/),(/5,5/))"},
		},
		{
			name:     "comments and blank lines inside continuation",
			input:    "x = a + &\n! note\n\n   & b\n",
			expected: []string{"X=A+B"},
		},
		{
			name:     "leading comment lines",
			input:    "! header\n  ! more\nMODULE foo\n",
			expected: []string{"MODULE FOO"},
		},
		{
			name:     "statement separator",
			input:    "a = 1; b = 2\n",
			expected: []string{"A=1", "B=2"},
		},
		{
			name:     "empty statements are skipped",
			input:    "a=1;;b=2\n",
			expected: []string{"A=1", "B=2"},
		},
		{
			name:     "separator inside string",
			input:    "s = 'a;b'\n",
			expected: []string{"S='a;b'"},
		},
		{
			name:     "markers and blank lines",
			input:    "# 1 \"a.F\"\n\nMODULE A\n\nEND MODULE A\n",
			expected: []string{"MODULE A", "END MODULE A"},
		},
		{
			name:     "no trailing newline",
			input:    "end",
			expected: []string{"END"},
		},
		{
			name:  "unterminated string",
			input: "s = 'abc\n",
			code:  exc.CodeMalformedStatement,
		},
		{
			name:  "continuation at end of input",
			input: "x = &\n! dangling\n",
			code:  exc.CodeMalformedStatement,
		},
		{
			name:  "malformed marker",
			input: "# x y\nA\n",
			code:  exc.CodeMalformedMarker,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			stmts, err := statementTexts(t, testCase.input)
			if testCase.code != "" {
				require.NotNil(t, err)
				require.Equal(t, testCase.code, exc.CodeOf(err))
				return
			}
			require.Nil(t, err)
			texts := make([]string, 0, len(stmts))
			for _, s := range stmts {
				texts = append(texts, s.Text)
			}
			require.Equal(t, testCase.expected, texts)
		})
	}
}

func TestNormalizationIsCaseAndSpaceInsensitive(t *testing.T) {
	t.Parallel()

	variants := []string{
		"integer, intent(in) :: n, m\n",
		"INTEGER,INTENT(IN)::N,M\n",
		"  Integer ,  Intent ( In ) ::  n ,m   \n",
		"integer,&\n  intent(in) :: n, &\n  & m\n",
	}
	for _, v := range variants {
		stmts, err := statementTexts(t, v)
		require.Nil(t, err)
		require.Len(t, stmts, 1)
		require.Equal(t, "INTEGER,INTENT(IN)::N,M", stmts[0].Text, v)
	}
}

func TestStatementComment(t *testing.T) {
	t.Parallel()

	stmts, err := statementTexts(t, "real :: x !< the x value\nreal :: y ! plain\n")
	require.Nil(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, "REAL::X", stmts[0].Text)
	require.Equal(t, "the x value", stmts[0].Comment)
	require.Equal(t, "", stmts[1].Comment)
}

func TestStatementStartAndPrevLine(t *testing.T) {
	t.Parallel()

	input := "! header\n  ! more\nMODULE foo\n"
	c := Begin(NewBuffer("t.F", input))
	stmt, next, err := c.NextStatement()
	require.Nil(t, err)
	require.Equal(t, 18, stmt.Start)
	require.Equal(t, 18, next.Offset())
	require.Equal(t, 0, c.Offset())

	prev, _, err := next.PrevLine()
	require.Nil(t, err)
	require.Equal(t, "! more", prev)
}

func TestPeekStatementDoesNotMove(t *testing.T) {
	t.Parallel()

	c := Begin(NewBuffer("t.F", "x = 1 + &\n  2\ny = 3\n"))
	first, err := c.PeekStatement()
	require.Nil(t, err)
	again, err := c.PeekStatement()
	require.Nil(t, err)
	require.Equal(t, first, again)

	stmt, next, err := c.NextStatement()
	require.Nil(t, err)
	require.Equal(t, first, stmt)
	require.Equal(t, "X=1+2", stmt.Text)

	second, err := next.PeekStatement()
	require.Nil(t, err)
	require.Equal(t, "Y=3", second.Text)
}

func TestStatementLocus(t *testing.T) {
	t.Parallel()

	input := "# 1 \"src/mod.F\"\nMODULE M\n\n  INTEGER :: X\n# 10 \"inc.h\"\nREAL :: Y\n# 5 \"src/mod.F\" 2\nEND MODULE\n"
	stmts, err := statementTexts(t, input)
	require.Nil(t, err)
	require.Len(t, stmts, 4)
	require.Equal(t, "mod.F:1", stmts[0].Locus.String())
	require.Equal(t, "mod.F:3", stmts[1].Locus.String())
	require.Equal(t, "inc.h:10", stmts[2].Locus.String())
	require.Equal(t, "mod.F:5", stmts[3].Locus.String())

	loc := stmts[1].Location()
	require.Equal(t, "INTEGER::X", loc.Statement)
	require.Equal(t, 3, loc.Line)
}

func TestLocusWithoutMarkers(t *testing.T) {
	t.Parallel()

	stmts, err := statementTexts(t, "A=1\n\nB=2\n")
	require.Nil(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, Locus{File: "test.F", Line: 1}, stmts[0].Locus)
	require.Equal(t, Locus{File: "test.F", Line: 3}, stmts[1].Locus)
}

func TestStatementsIteratorError(t *testing.T) {
	t.Parallel()

	stmts, err := statementTexts(t, "A=1\nB='\n")
	require.Len(t, stmts, 1)
	require.Equal(t, exc.CodeMalformedStatement, exc.CodeOf(err))
}

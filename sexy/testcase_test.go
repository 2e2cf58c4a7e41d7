package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Arithmetic

## Test: +
` + fence + `coffee
1 + 2
` + fence + `
` + fence + `ast
(code (binary "+" 1 2))
` + fence + `

## Test: -
` + fence + `coffee
1 - 2
` + fence + `
` + fence + `execute
-1
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "+")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.Line, 5)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(code (binary "+" 1 2))`)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(code (binary "+" 1 2))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "-")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, len(tc2.Assertions), 1)
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeExecute)
	be.Equal(t, tc2.Assertions[0].Content, "-1")
	be.True(t, tc2.Assertions[0].ParsedSexy == nil)
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := `## Test: everything
` + fence + `coffee
print(7); a = 3; a * 2
` + fence + `
` + fence + `ast
(code (print 7) ...)
` + fence + `
` + fence + `format
Code(Print(Number(7)),Assign(a,Number(3)),Multiplication(Load(a),Number(2)))
` + fence + `
` + fence + `interpret
6
` + fence + `
` + fence + `execute
6
` + fence + `
` + fence + `output
7
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	var types []AssertionType
	for _, a := range testCases[0].Assertions {
		types = append(types, a.Type)
	}
	be.Equal(t, types, []AssertionType{
		AssertionTypeAST,
		AssertionTypeFormat,
		AssertionTypeInterpret,
		AssertionTypeExecute,
		AssertionTypeOutput,
	})
	be.True(t, !testCases[0].HasParseError())
}

func TestExtractTestCases_ParseError(t *testing.T) {
	markdown := `## Test: doubled operator
` + fence + `coffee
1+1+1++1
` + fence + `
` + fence + `parse-error
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.True(t, testCases[0].HasParseError())
	be.Equal(t, testCases[0].Assertions[0].Content, "")
}

func TestExtractTestCases_ParseErrorWithOtherAssertions(t *testing.T) {
	markdown := `## Test: confused
` + fence + `coffee
1 2
` + fence + `
` + fence + `parse-error
` + fence + `
` + fence + `execute
1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "cannot have other assertions")
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Just documentation

Some prose with a plain block:

` + fence + `
not a test
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_InvalidSexyAssertion(t *testing.T) {
	markdown := `## Test: broken
` + fence + `coffee
1
` + fence + `
` + fence + `ast
(code 1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "failed to parse Sexy assertion in test 'broken'")
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	markdown := `# Intro
` + fence + `coffee
1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "line 3: coffee fence found outside of test case")
}

func TestExtractTestCases_UnknownFenceOutsideTest(t *testing.T) {
	markdown := `# Intro
` + fence + `go
func main() {}
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "unknown fence language 'go' found outside of test case")
}

func TestExtractTestCases_UnknownFenceInTest(t *testing.T) {
	markdown := `## Test: odd
` + fence + `coffee
1
` + fence + `
` + fence + `wasm-locals
()
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "unknown fence language 'wasm-locals' in test 'odd'")
}

func TestExtractTestCases_TestMissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + fence + `execute
1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no input' has no input fence")
}

func TestExtractTestCases_TestMissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertion
` + fence + `coffee
1
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'no assertion' has no assertion fences")
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: twice
` + fence + `coffee
1
` + fence + `
` + fence + `coffee
2
` + fence + `
` + fence + `execute
2
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "line 6: multiple input fences found in test 'twice'")
}

func TestExtractTestCases_ErrorInSecondTest(t *testing.T) {
	markdown := `## Test: fine
` + fence + `coffee
1
` + fence + `
` + fence + `execute
1
` + fence + `

## Test: broken
` + fence + `coffee
2
` + fence

	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "test 'broken' has no assertion fences")
}

func TestExtractTestCases_MultilineInput(t *testing.T) {
	markdown := `## Test: lines
` + fence + `coffee
a = 3;
b = 4;
a * a / b
` + fence + `
` + fence + `execute
2
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Input, "a = 3;\nb = 4;\na * a / b")
}

package sexy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_ArithmeticSuite(t *testing.T) {
	content, err := os.ReadFile("../test/arithmetic_test.md")
	be.Err(t, err, nil)

	testCases, err := ExtractTestCases(string(content))
	be.Err(t, err, nil)
	be.True(t, len(testCases) > 5)

	var precedenceTest *TestCase
	for i := range testCases {
		if testCases[i].Name == "operator precedence + *" {
			precedenceTest = &testCases[i]
		}
	}

	be.True(t, precedenceTest != nil)
	be.Equal(t, precedenceTest.Input, "1 + 2 * 2")
	be.Equal(t, precedenceTest.Assertions[0].Type, AssertionTypeAST)

	// (code (binary "+" 1 (binary "*" 2 2)))
	assertion := precedenceTest.Assertions[0].ParsedSexy
	be.Equal(t, assertion.Type, NodeList)
	be.Equal(t, len(assertion.Items), 2)
	binary := assertion.Items[1]
	be.Equal(t, len(binary.Items), 4)
	be.Equal(t, binary.Items[0].Text, "binary")
	be.Equal(t, binary.Items[1].Text, "+")
	be.Equal(t, binary.Items[2].Text, "1")
	be.Equal(t, binary.Items[3].Type, NodeList)
}

func TestExtractTestCases_AllSuites(t *testing.T) {
	files, err := filepath.Glob("../test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		content, err := os.ReadFile(file)
		be.Err(t, err, nil)

		testCases, err := ExtractTestCases(string(content))
		be.Err(t, err, nil)

		for _, tc := range testCases {
			be.True(t, tc.Name != "")
			be.True(t, tc.Line > 0)
			be.True(t, len(tc.Assertions) >= 1)
			for _, assertion := range tc.Assertions {
				if assertion.Type == AssertionTypeAST {
					be.True(t, assertion.ParsedSexy != nil)
				}
			}
		}
	}
}

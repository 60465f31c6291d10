package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// JUnitFormatter formats reports as JUnit XML: a suite per document and a
// test case per element with messages. Rule faults and unreadable
// documents are errors; warnings and manual work are failures.
type JUnitFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer, options ports.FormatterOptions) *JUnitFormatter {
	return &JUnitFormatter{writer: w, options: options}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// Format writes the response as JUnit XML.
func (f *JUnitFormatter) Format(resp *dto.ConvertResponse) error {
	suites := JUnitTestSuites{
		Name: "recast",
		Time: resp.Metadata.Duration.Seconds(),
	}

	for _, d := range resp.Documents {
		suite := f.suite(d)
		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	if _, err := f.writer.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func (f *JUnitFormatter) suite(d dto.DocumentResult) JUnitTestSuite {
	suite := JUnitTestSuite{Name: d.Input}
	if d.Failed() {
		suite.Tests, suite.Errors = 1, 1
		suite.TestCases = []JUnitTestCase{{
			Name:      "convert",
			ClassName: d.Input,
			Error:     &JUnitError{Message: d.Err.Error(), Type: "document-failed"},
		}}
		return suite
	}

	filterTree(d.Result.Report.Tree, f.options.MinSeverity).Walk(func(n *diagnostics.Node, _ int) {
		if len(n.Messages) == 0 {
			return
		}
		c := JUnitTestCase{Name: n.Path.String(), ClassName: d.Input}

		highest := values.SevUnknown
		var lines []string
		for _, m := range n.Messages {
			if m.Severity.IsHigherThan(highest) {
				highest = m.Severity
			}
			lines = append(lines, m.String())
		}
		body := strings.Join(lines, "\n")
		summary := fmt.Sprintf("%d message(s), highest %s", len(n.Messages), highest)

		switch {
		case highest.Equals(values.SevError):
			c.Error = &JUnitError{Message: summary, Type: highest.String(), Content: body}
			suite.Errors++
		case highest.IsHigherOrEqual(values.SevTask):
			c.Failure = &JUnitFailure{Message: summary, Type: highest.String(), Content: body}
			suite.Failures++
		default:
			c.SystemOut = body
		}
		suite.Tests++
		suite.TestCases = append(suite.TestCases, c)
	})
	return suite
}

package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Setup       *SetupBlock `yaml:"setup,omitempty"`
	Tests       []TestCase  `yaml:"tests"`
}

// SetupBlock holds suite-wide defaults applied to every test
type SetupBlock struct {
	Suppress []string       `yaml:"suppress,omitempty"` // extra suppressed calls
	Doc      map[string]any `yaml:"doc,omitempty"`      // seed document
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Skip        interface{}    `yaml:"skip,omitempty"`     // bool or string
	Source      string         `yaml:"source,omitempty"`   // body as one string
	Function    *FunctionSpec  `yaml:"function,omitempty"` // body as a named function
	Suppress    []string       `yaml:"suppress,omitempty"`
	Doc         map[string]any `yaml:"doc,omitempty"`        // seed document; enables run mode
	Iterations  int            `yaml:"iterations,omitempty"` // defaults to 1 in run mode
	Finalize    string         `yaml:"finalize,omitempty"`   // read-out body applied after iterating
	Expect      Expectation    `yaml:"expect"`
}

// FunctionSpec mirrors compiler.Function
type FunctionSpec struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
	Code []string `yaml:"code"`
}

// Expectation defines what result is expected from a test
type Expectation struct {
	// Compilation
	Pipeline    []map[string]any `yaml:"pipeline,omitempty"` // exact stages
	Stages      *int             `yaml:"stages,omitempty"`   // stage count
	Unsupported string           `yaml:"unsupported,omitempty"`
	Line        int              `yaml:"line,omitempty"`
	ParseError  bool             `yaml:"parse_error,omitempty"`

	// Execution
	Doc    map[string]any       `yaml:"doc,omitempty"`    // exact field values
	Truthy map[string]bool      `yaml:"truthy,omitempty"` // field truthiness
	Range  map[string][]float64 `yaml:"range,omitempty"`  // field: [min, max]
	Error  string               `yaml:"error,omitempty"`  // E_OPNF, E_ARGS, etc.
}

// IsEmpty reports whether no expectation was written
func (e *Expectation) IsEmpty() bool {
	return e.Pipeline == nil && e.Stages == nil && e.Unsupported == "" && !e.ParseError &&
		e.Doc == nil && e.Truthy == nil && e.Range == nil && e.Error == ""
}

// Runs reports whether the test executes the pipeline
func (tc *TestCase) Runs() bool {
	e := tc.Expect
	return tc.Doc != nil || e.Doc != nil || e.Truthy != nil || e.Range != nil || e.Error != ""
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}

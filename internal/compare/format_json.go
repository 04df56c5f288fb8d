package compare

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Write encodes the comparison set to w
func (jf *JSONFormatter) Write(w io.Writer, compSet *ComparisonSet) error {
	enc := json.NewEncoder(w)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(compSet)
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	if err := jf.Write(&buf, compSet); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

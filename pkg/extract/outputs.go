package extract

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// OutputFormat selects how a listing is rendered.
type OutputFormat int

const (
	OutputDefault OutputFormat = iota // entry names, one per line
	OutputLong                        // mode, sizes, date and name columns
	OutputJSON
	OutputPrettyJSON
	OutputXML
)

var outputNames = map[OutputFormat]string{
	OutputDefault:    "default",
	OutputLong:       "long",
	OutputJSON:       "json",
	OutputPrettyJSON: "pretty-json",
	OutputXML:        "xml",
}

func (f OutputFormat) String() string {
	if n, ok := outputNames[f]; ok {
		return n
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

// ParseOutputFormat maps a CLI value to an OutputFormat,
// case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for f, n := range outputNames {
		if n == lower {
			return f, nil
		}
	}
	return OutputDefault, fmt.Errorf("%s: unknown output format", s)
}

// xmlEntries is the document wrapper for XML rendering.
type xmlEntries struct {
	XMLName xml.Name `xml:"entries"`
	Entries []Entry  `xml:"entry"`
}

// Render produces the listing text for entries in the requested format.
func Render(entries Entries, f OutputFormat) (string, error) {
	switch f {
	case OutputLong:
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = longFormat(e)
		}
		return strings.Join(lines, "\n"), nil
	case OutputJSON:
		data, err := json.Marshal(entries)
		return string(data), err
	case OutputPrettyJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		return string(data), err
	case OutputXML:
		data, err := xml.Marshal(xmlEntries{Entries: entries})
		return string(data), err
	default:
		lines := make([]string, len(entries))
		for i, e := range entries {
			lines[i] = e.Name
		}
		return strings.Join(lines, "\n"), nil
	}
}

func longFormat(e Entry) string {
	return fmt.Sprintf("%s %s %s %s",
		modeString(e.UnixMode),
		sizeString(e.CompressedSize, e.OriginalSize),
		dateString(e),
		e.Name)
}

func dateString(e Entry) string {
	if e.Date == nil {
		return strings.Repeat(" ", 20)
	}
	return e.Date.Format("2006-01-02 15:04:05")
}

func sizeString(compressed, original *int64) string {
	const missing = " -------- "
	c, o := missing, missing
	if compressed != nil {
		c = fmt.Sprintf("%10s", humanize.Bytes(uint64(*compressed)))
	}
	if original != nil {
		o = fmt.Sprintf("%10s", humanize.Bytes(uint64(*original)))
	}
	return c + "/" + o
}

var rwx = [8]string{"---", "--x", "-w-", "-wx", "r--", "r-x", "rw-", "rwx"}

func modeString(m *Mode) string {
	if m == nil {
		return "----------"
	}
	v := uint32(*m)
	return "-" + rwx[v>>6&0x7] + rwx[v>>3&0x7] + rwx[v&0x7]
}

package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDefaults(t *testing.T) {
	p := Clean(Raw{}, "RemoteOK")

	assert.Equal(t, "Unknown", p.Title)
	assert.Equal(t, "Unknown", p.Company)
	assert.Equal(t, "", p.Location)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "", p.URL)
	assert.Equal(t, "RemoteOK", p.Source)
}

func TestCleanStripsHTML(t *testing.T) {
	raw := Raw{
		Title:       "Data   Analyst",
		Company:     " Acme ",
		Description: "<p>We need <b>SQL</b> &amp; Python.</p>\n\n<ul><li>ETL</li></ul>",
		URL:         "  https://example.com/job/1  ",
	}
	p := Clean(raw, "Arbeitnow")

	assert.Equal(t, "Data Analyst", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "We need SQL & Python. ETL", p.Description)
	assert.Equal(t, "https://example.com/job/1", p.URL)
}

func TestCleanTruncates(t *testing.T) {
	raw := Raw{
		Title:       strings.Repeat("x", 500),
		Description: strings.Repeat("y", 9000),
	}
	p := Clean(raw, "Jobicy")

	assert.Len(t, p.Title, 200)
	assert.Len(t, p.Description, 5000)
}

func TestStripHTMLPlainText(t *testing.T) {
	assert.Equal(t, "no markup here", StripHTML("no  markup\there"))
	assert.Equal(t, "a & b", StripHTML("a &amp; b"))
}

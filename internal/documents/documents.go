package documents

import "strings"

// UnknownTitle is used when a job description carries no "Job Title:" line.
const UnknownTitle = "Unknown Job"

const titlePrefix = "job title:"

// Document is the extracted text of a single file.
type Document struct {
	Name    string
	Content string
}

// Set is an ordered collection of documents, in folder listing order.
type Set []Document

func (s Set) Len() int {
	return len(s)
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, doc := range s {
		names = append(names, doc.Name)
	}
	return names
}

// JobDescription is a loaded JD together with its parsed title.
type JobDescription struct {
	ID      string
	Content string
	Title   string
}

func NewJobDescription(doc Document) JobDescription {
	return JobDescription{
		ID:      doc.Name,
		Content: doc.Content,
		Title:   ParseTitle(doc.Content),
	}
}

// IsBlank reports whether the description has no content besides whitespace.
func (jd JobDescription) IsBlank() bool {
	return strings.TrimSpace(jd.Content) == ""
}

// ParseTitle returns the text after the first colon of the first line starting with "Job Title:".
func ParseTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), titlePrefix) {
			continue
		}
		_, title, _ := strings.Cut(line, ":")
		return strings.TrimSpace(title)
	}
	return UnknownTitle
}

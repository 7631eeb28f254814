package model

// SharedWithAll in Document.SharedWith shares a document with every partner.
const SharedWithAll = "All Partners"

type Document struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	UploadDate  Date     `json:"upload_date" yaml:"upload_date"`
	UploadedBy  string   `json:"uploaded_by" yaml:"uploaded_by"`
	FileType    string   `json:"file_type" yaml:"file_type"`
	SharedWith  []string `json:"shared_with" yaml:"shared_with"`
	Description string   `json:"description" yaml:"description"`
}

// SharedWithOrganization reports whether org may see d.
func (d Document) SharedWithOrganization(org string) bool {
	if d.UploadedBy == org {
		return true
	}
	for _, s := range d.SharedWith {
		if s == SharedWithAll || s == org {
			return true
		}
	}
	return false
}

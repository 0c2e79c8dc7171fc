package models

// Project as stored by the back-office.
// Only ID, Name and Files are read by the export; the rest is passed through untouched.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Customer  string    `json:"customer,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
	Files     []FileRef `json:"files,omitempty"`
}

// Uploaded file attached to a project.
type FileRef struct {
	// Display name, used as the archive entry name.
	Name string `json:"name"`
	// Storage path relative to the uploads root, e.g. "/uploads/tegning.pdf".
	Path string `json:"path"`
}

package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID accepts both numeric and string primary keys
type ID string

// UnmarshalJSON decodes a JSON number or string into an ID
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// DirectoryDetail is the body of GET /main/api/dir/{id}/detail
type DirectoryDetail struct {
	ID      ID             `json:"id"`
	Path    string         `json:"path"`
	Parent  *DirectoryRef  `json:"parent"`
	Images  []Image        `json:"images"`
	Subdirs []DirectoryRef `json:"subdirs"`
}

// DirectoryRef is a nested directory reference
type DirectoryRef struct {
	ID   ID     `json:"id"`
	Path string `json:"path"`
}

// Image is an item entry of a directory listing
type Image struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	MimeType    string       `json:"mime_type"`
	Rating      *int         `json:"rating"`
	PickLabel   *string      `json:"pick_label"`
	ColorLabel  *string      `json:"color_label"`
	Tags        []ImageTag   `json:"tags"`
	Attachments []Attachment `json:"attachments"`
}

// ImageTag is a tag assigned to an image
type ImageTag struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// Attachment is a sidecar file of an image
type Attachment struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	AttachmentType string `json:"attachment_type"`
}

// TagTreeNode is an entry of GET /main/api/tags
type TagTreeNode struct {
	ID      ID            `json:"id"`
	Name    string        `json:"name"`
	Subtags []TagTreeNode `json:"subtags"`
}

// ErrorBody is the structured error payload returned on failed requests
type ErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

package media

import (
	"net/url"
	"path"
	"strings"
)

// Folders under the configured root folder.
const (
	FolderFilm     = "film"
	FolderTransfer = "transfer"
	FolderProfile  = "profile"
)

// UploadParams describes one image accepted by the upload intake.
type UploadParams struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// Asset is what the store hands back: ID is used for Destroy, URL is shown to clients.
type Asset struct {
	ID  string
	URL string
}

// JoinFolder prefixes folder with the configured root.
func JoinFolder(root, folder string) string {
	if root == "" {
		return folder
	}
	return path.Join(root, folder)
}

// ResolveURL turns a stored reference into an absolute URL. References
// that already carry a scheme are returned unchanged.
func ResolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return ref
	}
	if base == "" {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}
